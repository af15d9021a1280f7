package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"prosps/backend/internal/dto"
	"prosps/backend/internal/model"
)

func TestActivityLogService_List_ResolvesUserNames(t *testing.T) {
	repo, mocks := newTestRepos()
	svc := NewActivityLogService(repo, zap.NewNop())
	seedProfile(mocks.user, "admin-001", "admin@prosps.fr", model.RoleAdmin, true)

	userID := "admin-001"
	unknown := "profil-supprime"
	mocks.activity.Create(context.Background(), &model.ActivityLog{UserID: &userID, Action: "mission_created"})
	mocks.activity.Create(context.Background(), &model.ActivityLog{UserID: &unknown, Action: "login"})

	result, total, err := svc.List(context.Background(), &dto.ActivityLogListRequest{})
	if err != nil {
		t.Fatalf("查询日志应成功: %v", err)
	}
	if total != 2 {
		t.Fatalf("期望 2 条日志, 实际 %d", total)
	}
	for _, entry := range result {
		if entry.Action == "mission_created" {
			if entry.UserNom == nil || *entry.UserNom != "Jean Dupont" {
				t.Error("应解析出操作人姓名")
			}
		}
		if entry.Action == "login" && entry.UserNom != nil {
			t.Error("查不到的用户姓名应为空而非报错")
		}
	}
}

func TestActivityLogService_BestEffortRecording(t *testing.T) {
	// 业务操作应写入日志
	svc, mocks := setupMissionService()
	if _, err := svc.Create(context.Background(), "admin-001", validCreateRequest()); err != nil {
		t.Fatalf("创建任务失败: %v", err)
	}

	actions := mocks.activity.actions()
	if len(actions) != 1 || actions[0] != "mission_created" {
		t.Errorf("期望记录 mission_created, 实际 %v", actions)
	}
}
