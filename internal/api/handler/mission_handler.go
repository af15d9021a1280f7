package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"prosps/backend/internal/dto"
	"prosps/backend/internal/model"
	"prosps/backend/internal/service"
	"prosps/backend/pkg/response"
)

// importFileMaxBytes 导入文件大小上限 (5MB)
const importFileMaxBytes = 5 << 20

// MissionHandler 任务模块 HTTP 处理器
type MissionHandler struct {
	missionSvc service.MissionService
}

// NewMissionHandler 创建 MissionHandler
func NewMissionHandler(missionSvc service.MissionService) *MissionHandler {
	return &MissionHandler{missionSvc: missionSvc}
}

// ListMissions 任务列表
// GET /api/v1/missions
// 协调员只能查看指派给自己的任务
func (h *MissionHandler) ListMissions(c *gin.Context) {
	var req dto.MissionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if GetRole(c) == model.RoleCoordinator {
		userID, ok := MustGetUserID(c)
		if !ok {
			return
		}
		req.CoordinatorID = userID
	}

	list, total, err := h.missionSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// ListDispatchMissions 派遣视图：待指派任务列表
// GET /api/v1/missions/dispatch
func (h *MissionHandler) ListDispatchMissions(c *gin.Context) {
	var req dto.PaginationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.missionSvc.ListDispatch(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetMission 任务详情
// GET /api/v1/missions/:id
func (h *MissionHandler) GetMission(c *gin.Context) {
	result, err := h.missionSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrMissionNotFound) {
			response.NotFound(c, 13001, "任务不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// CreateMission 创建任务
// POST /api/v1/missions
func (h *MissionHandler) CreateMission(c *gin.Context) {
	actorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateMissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.missionSvc.Create(c.Request.Context(), actorID, &req)
	if err != nil {
		h.writeMissionError(c, err)
		return
	}
	response.Created(c, result)
}

// AssignMission 指派/改派协调员
// PUT /api/v1/missions/:id/assign
func (h *MissionHandler) AssignMission(c *gin.Context) {
	actorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.AssignMissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.missionSvc.Assign(c.Request.Context(), actorID, c.Param("id"), &req)
	if err != nil {
		h.writeMissionError(c, err)
		return
	}
	response.OK(c, result)
}

// UpdateMissionStatus 更新任务状态
// PUT /api/v1/missions/:id/status
// 协调员仅可确认或拒绝指派给自己的任务
func (h *MissionHandler) UpdateMissionStatus(c *gin.Context) {
	actorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateMissionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.missionSvc.UpdateStatus(c.Request.Context(), actorID, GetRole(c), c.Param("id"), &req)
	if err != nil {
		h.writeMissionError(c, err)
		return
	}
	response.OK(c, result)
}

// ImportMissions 批量导入任务（CSV / XLSX）
// POST /api/v1/missions/import
func (h *MissionHandler) ImportMissions(c *gin.Context) {
	actorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "缺少导入文件")
		return
	}
	if fileHeader.Size > importFileMaxBytes {
		response.Error(c, http.StatusRequestEntityTooLarge, 10005, "导入文件过大")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.InternalError(c)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.InternalError(c)
		return
	}

	rows, err := h.missionSvc.ParseImportFile(fileHeader.Filename, data)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupportedImportExt):
			response.BadRequest(c, 13003, "仅支持 CSV 或 XLSX 文件")
		case errors.Is(err, service.ErrImportEmpty):
			response.BadRequest(c, 13004, "导入文件为空")
		case errors.Is(err, service.ErrImportHeaderMissing):
			response.BadRequest(c, 13005, err.Error())
		default:
			response.BadRequest(c, 13006, "导入文件解析失败")
		}
		return
	}

	result, err := h.missionSvc.Import(c.Request.Context(), actorID, rows)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// ExportCalendar 导出协调员任务日历
// GET /api/v1/missions/calendar.ics?coordinator_id=xxx
// 协调员只能导出自己的日历，coordinator_id 参数仅管理员可用
func (h *MissionHandler) ExportCalendar(c *gin.Context) {
	coordinatorID := c.Query("coordinator_id")
	if GetRole(c) == model.RoleCoordinator {
		userID, ok := MustGetUserID(c)
		if !ok {
			return
		}
		coordinatorID = userID
	}
	if coordinatorID == "" {
		response.BadRequest(c, 10001, "缺少 coordinator_id 参数")
		return
	}

	cal, err := h.missionSvc.ExportCalendar(c.Request.Context(), coordinatorID)
	if err != nil {
		if errors.Is(err, service.ErrCoordinatorNotFound) {
			response.NotFound(c, 13002, "协调员不存在")
			return
		}
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="missions.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(cal))
}

// writeMissionError 任务模块业务错误转 HTTP 响应
func (h *MissionHandler) writeMissionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMissionNotFound):
		response.NotFound(c, 13001, "任务不存在")
	case errors.Is(err, service.ErrCoordinatorNotFound):
		response.NotFound(c, 13002, "协调员不存在")
	case errors.Is(err, service.ErrNotCoordinator):
		response.BadRequest(c, 13007, "该用户不是协调员")
	case errors.Is(err, service.ErrCoordinatorInactive):
		response.BadRequest(c, 13008, "协调员账号已停用")
	case errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, 13009, "结束日期不能早于开始日期")
	case errors.Is(err, service.ErrInvalidTransition):
		response.Conflict(c, 13010, "当前状态不允许该操作")
	case errors.Is(err, service.ErrMissionForbidden):
		response.Forbidden(c, 13011, "无权操作该任务")
	default:
		response.InternalError(c)
	}
}
