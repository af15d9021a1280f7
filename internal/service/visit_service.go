package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"prosps/backend/internal/dto"
	"prosps/backend/internal/model"
	"prosps/backend/internal/repository"
	"prosps/backend/pkg/storage"
)

var ErrVisitNotFound = errors.New("巡视记录不存在")

// VisitService 巡视查询业务接口
type VisitService interface {
	Get(ctx context.Context, id string) (*dto.VisitResponse, error)
}

type visitService struct {
	repo   *repository.Repository
	store  storage.Storage
	logger *zap.Logger
}

// NewVisitService 创建 VisitService 实例
func NewVisitService(repo *repository.Repository, store storage.Storage, logger *zap.Logger) VisitService {
	return &visitService{repo: repo, store: store, logger: logger}
}

func (s *visitService) Get(ctx context.Context, id string) (*dto.VisitResponse, error) {
	visit, err := s.repo.Visit.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVisitNotFound
		}
		s.logger.Error("查询巡视记录失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.VisitResponse{
		ID:        visit.VisitID,
		MissionID: visit.MissionID,
		Photos:    make([]dto.PhotoResponse, 0, len(visit.Photos)),
	}
	if visit.VisitedAt != nil {
		v := visit.VisitedAt.Format(time.RFC3339)
		resp.VisitedAt = &v
	}

	for i := range visit.Photos {
		resp.Photos = append(resp.Photos, s.toPhotoResponse(ctx, &visit.Photos[i]))
	}
	return resp, nil
}

func (s *visitService) toPhotoResponse(ctx context.Context, p *model.VisitPhoto) dto.PhotoResponse {
	resp := dto.PhotoResponse{
		ID:             p.PhotoID,
		Comment:        p.Comment,
		Validated:      p.Validated,
		Observation:    p.Observation,
		Recommendation: p.Recommendation,
		RiskLevel:      p.RiskLevel,
		Confidence:     p.Confidence,
	}
	if p.TakenAt != nil {
		v := p.TakenAt.Format(time.RFC3339)
		resp.TakenAt = &v
	}

	url, err := s.store.PresignedGetURL(ctx, p.ObjectKey, presignExpiry)
	if err != nil {
		s.logger.Warn("生成照片链接失败", zap.String("photo_id", p.PhotoID), zap.Error(err))
	} else {
		resp.URL = url
	}
	return resp
}
