package handler

import (
	"github.com/gin-gonic/gin"

	"prosps/backend/internal/dto"
	"prosps/backend/internal/service"
	"prosps/backend/pkg/response"
)

// ActivityLogHandler 操作日志模块 HTTP 处理器
type ActivityLogHandler struct {
	logSvc service.ActivityLogService
}

// NewActivityLogHandler 创建 ActivityLogHandler
func NewActivityLogHandler(logSvc service.ActivityLogService) *ActivityLogHandler {
	return &ActivityLogHandler{logSvc: logSvc}
}

// ListActivityLogs 操作日志列表
// GET /api/v1/activity-logs
func (h *ActivityLogHandler) ListActivityLogs(c *gin.Context) {
	var req dto.ActivityLogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.logSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}
