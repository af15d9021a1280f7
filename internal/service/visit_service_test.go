package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"prosps/backend/internal/model"
)

func setupVisitService() (VisitService, *testRepos) {
	repo, mocks := newTestRepos()
	svc := NewVisitService(repo, newMockStorage(), zap.NewNop())
	return svc, mocks
}

func TestVisitService_Get_WithPhotos(t *testing.T) {
	svc, mocks := setupVisitService()

	visitedAt := time.Date(2026, 9, 10, 14, 30, 0, 0, time.UTC)
	mocks.visit.visits["visit-001"] = &model.Visit{
		VisitID:   "visit-001",
		MissionID: "mission-001",
		VisitedAt: &visitedAt,
	}
	mocks.visit.photos["visit-001"] = []model.VisitPhoto{
		{PhotoID: "photo-001", VisitID: "visit-001", ObjectKey: "photos/photo-001.jpg", Validated: true},
	}

	resp, err := svc.Get(context.Background(), "visit-001")
	if err != nil {
		t.Fatalf("查询巡视应成功: %v", err)
	}
	if len(resp.Photos) != 1 {
		t.Fatalf("期望 1 张照片, 实际 %d", len(resp.Photos))
	}
	if resp.Photos[0].URL != "https://storage.test/photos/photo-001.jpg" {
		t.Errorf("照片应带预签名链接, 实际 %q", resp.Photos[0].URL)
	}
}

func TestVisitService_Get_NotFound(t *testing.T) {
	svc, _ := setupVisitService()

	if _, err := svc.Get(context.Background(), "inconnu"); !errors.Is(err, ErrVisitNotFound) {
		t.Errorf("期望 ErrVisitNotFound, 实际 %v", err)
	}
}
