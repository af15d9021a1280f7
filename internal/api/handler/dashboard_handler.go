package handler

import (
	"github.com/gin-gonic/gin"

	"prosps/backend/internal/model"
	"prosps/backend/internal/service"
	"prosps/backend/pkg/response"
)

// DashboardHandler 仪表盘模块 HTTP 处理器
type DashboardHandler struct {
	dashboardSvc service.DashboardService
}

// NewDashboardHandler 创建 DashboardHandler
func NewDashboardHandler(dashboardSvc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc}
}

// GetStats 仪表盘统计聚合
// GET /api/v1/dashboard/stats
// 管理员看全局统计，协调员只看自己的任务与报告
func (h *DashboardHandler) GetStats(c *gin.Context) {
	coordinatorID := ""
	if GetRole(c) == model.RoleCoordinator {
		userID, ok := MustGetUserID(c)
		if !ok {
			return
		}
		coordinatorID = userID
	}

	result, err := h.dashboardSvc.GetStats(c.Request.Context(), coordinatorID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}
