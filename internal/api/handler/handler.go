package handler

import "prosps/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth        *AuthHandler
	User        *UserHandler
	Mission     *MissionHandler
	Rapport     *RapportHandler
	Dashboard   *DashboardHandler
	Visit       *VisitHandler
	ActivityLog *ActivityLogHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:        NewAuthHandler(svc.Auth),
		User:        NewUserHandler(svc.User),
		Mission:     NewMissionHandler(svc.Mission),
		Rapport:     NewRapportHandler(svc.Rapport),
		Dashboard:   NewDashboardHandler(svc.Dashboard),
		Visit:       NewVisitHandler(svc.Visit),
		ActivityLog: NewActivityLogHandler(svc.ActivityLog),
	}
}
