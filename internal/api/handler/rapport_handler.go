package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"prosps/backend/internal/dto"
	"prosps/backend/internal/model"
	"prosps/backend/internal/service"
	"prosps/backend/pkg/response"
)

// RapportHandler 报告模块 HTTP 处理器
type RapportHandler struct {
	rapportSvc service.RapportService
}

// NewRapportHandler 创建 RapportHandler
func NewRapportHandler(rapportSvc service.RapportService) *RapportHandler {
	return &RapportHandler{rapportSvc: rapportSvc}
}

// ListRapports 报告列表
// GET /api/v1/rapports
// 协调员只能查看自己的报告
func (h *RapportHandler) ListRapports(c *gin.Context) {
	var req dto.RapportListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	isCoordinator := GetRole(c) == model.RoleCoordinator
	if isCoordinator {
		userID, ok := MustGetUserID(c)
		if !ok {
			return
		}
		req.CoordinatorID = userID
	}

	list, total, err := h.rapportSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	// 管理员内部备注不对协调员展示
	if isCoordinator {
		for i := range list {
			list[i].RemarquesAdmin = nil
		}
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetRapport 报告详情
// GET /api/v1/rapports/:id
// 协调员只能查看自己的报告
func (h *RapportHandler) GetRapport(c *gin.Context) {
	actorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.rapportSvc.Get(c.Request.Context(), actorID, GetRole(c), c.Param("id"))
	if err != nil {
		h.writeRapportError(c, err)
		return
	}
	response.OK(c, result)
}

// UpdateRapport 编辑报告
// PUT /api/v1/rapports/:id
func (h *RapportHandler) UpdateRapport(c *gin.Context) {
	actorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateRapportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.rapportSvc.Update(c.Request.Context(), actorID, c.Param("id"), &req)
	if err != nil {
		h.writeRapportError(c, err)
		return
	}
	response.OK(c, result)
}

// ValidateRapport 验证报告
// PUT /api/v1/rapports/:id/validate
func (h *RapportHandler) ValidateRapport(c *gin.Context) {
	actorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.rapportSvc.Validate(c.Request.Context(), actorID, c.Param("id"))
	if err != nil {
		h.writeRapportError(c, err)
		return
	}
	response.OK(c, result)
}

// SendRapport 发送报告给客户（生成 PDF 并归档）
// POST /api/v1/rapports/:id/send
func (h *RapportHandler) SendRapport(c *gin.Context) {
	actorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.rapportSvc.SendToClient(c.Request.Context(), actorID, c.Param("id"))
	if err != nil {
		h.writeRapportError(c, err)
		return
	}
	response.OK(c, result)
}

// writeRapportError 报告模块业务错误转 HTTP 响应
func (h *RapportHandler) writeRapportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRapportNotFound):
		response.NotFound(c, 14001, "报告不存在")
	case errors.Is(err, service.ErrRapportLocked):
		response.Conflict(c, 14002, "报告已发送，不可修改")
	case errors.Is(err, service.ErrInvalidTransition):
		response.Conflict(c, 14003, "当前状态不允许该操作")
	case errors.Is(err, service.ErrRapportForbidden):
		response.Forbidden(c, 14004, "无权查看该报告")
	default:
		response.InternalError(c)
	}
}
