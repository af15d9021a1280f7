package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"prosps/backend/internal/dto"
	"prosps/backend/internal/model"
	"prosps/backend/internal/repository"
)

// ActivityLogService 操作日志查询业务接口
type ActivityLogService interface {
	List(ctx context.Context, req *dto.ActivityLogListRequest) ([]dto.ActivityLogEntry, int64, error)
}

type activityLogService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewActivityLogService 创建 ActivityLogService 实例
func NewActivityLogService(repo *repository.Repository, logger *zap.Logger) ActivityLogService {
	return &activityLogService{repo: repo, logger: logger}
}

func (s *activityLogService) List(ctx context.Context, req *dto.ActivityLogListRequest) ([]dto.ActivityLogEntry, int64, error) {
	logs, total, err := s.repo.ActivityLog.List(ctx, req.UserID, req.EntityType, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询操作日志失败", zap.Error(err))
		return nil, 0, err
	}

	// 操作人姓名解析，同一用户只查一次；查不到不影响返回
	names := make(map[string]*string)
	resolve := func(userID *string) *string {
		if userID == nil {
			return nil
		}
		if nom, ok := names[*userID]; ok {
			return nom
		}
		profile, err := s.repo.User.GetByID(ctx, *userID)
		if err != nil {
			names[*userID] = nil
			return nil
		}
		nom := profile.FullName()
		names[*userID] = &nom
		return &nom
	}

	result := make([]dto.ActivityLogEntry, 0, len(logs))
	for i := range logs {
		result = append(result, toActivityLogEntry(&logs[i], resolve(logs[i].UserID)))
	}
	return result, total, nil
}

// toActivityLogEntry 模型转响应
func toActivityLogEntry(log *model.ActivityLog, userNom *string) dto.ActivityLogEntry {
	return dto.ActivityLogEntry{
		ID:         log.LogID,
		UserID:     log.UserID,
		UserNom:    userNom,
		Action:     log.Action,
		EntityType: log.EntityType,
		EntityID:   log.EntityID,
		Details:    log.Details,
		IPAddress:  log.IPAddress,
		CreatedAt:  log.CreatedAt.Format(time.RFC3339),
	}
}
