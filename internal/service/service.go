package service

import (
	"go.uber.org/zap"

	"prosps/backend/config"
	"prosps/backend/internal/repository"
	"prosps/backend/pkg/jwt"
	"prosps/backend/pkg/pdfgen"
	"prosps/backend/pkg/storage"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth        AuthService
	User        UserService
	Mission     MissionService
	Rapport     RapportService
	Dashboard   DashboardService
	Visit       VisitService
	ActivityLog ActivityLogService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	store storage.Storage,
	pdfGen pdfgen.Generator,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:        NewAuthService(cfg, repo, jwtMgr, blacklist, logger),
		User:        NewUserService(repo, logger),
		Mission:     NewMissionService(repo, logger),
		Rapport:     NewRapportService(repo, store, pdfGen, logger),
		Dashboard:   NewDashboardService(repo, logger),
		Visit:       NewVisitService(repo, store, logger),
		ActivityLog: NewActivityLogService(repo, logger),
	}
}
