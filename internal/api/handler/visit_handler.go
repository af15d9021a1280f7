package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"prosps/backend/internal/service"
	"prosps/backend/pkg/response"
)

// VisitHandler 巡视模块 HTTP 处理器
type VisitHandler struct {
	visitSvc service.VisitService
}

// NewVisitHandler 创建 VisitHandler
func NewVisitHandler(visitSvc service.VisitService) *VisitHandler {
	return &VisitHandler{visitSvc: visitSvc}
}

// GetVisit 巡视详情（含照片与分析结果）
// GET /api/v1/visits/:id
func (h *VisitHandler) GetVisit(c *gin.Context) {
	result, err := h.visitSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrVisitNotFound) {
			response.NotFound(c, 15001, "巡视记录不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}
