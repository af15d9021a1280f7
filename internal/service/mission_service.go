package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"prosps/backend/internal/dto"
	"prosps/backend/internal/model"
	"prosps/backend/internal/repository"
	"prosps/backend/internal/workflow"
)

var (
	ErrMissionNotFound      = errors.New("任务不存在")
	ErrMissionForbidden     = errors.New("无权操作该任务")
	ErrInvalidTransition    = errors.New("当前状态不允许该操作")
	ErrInvalidDateRange     = errors.New("结束日期不能早于开始日期")
	ErrCoordinatorNotFound  = errors.New("协调员不存在")
	ErrCoordinatorInactive  = errors.New("协调员账号已停用")
	ErrNotCoordinator       = errors.New("该用户不是协调员")
	ErrImportEmpty          = errors.New("导入文件为空")
	ErrImportHeaderMissing  = errors.New("导入文件缺少必需的表头")
	ErrUnsupportedImportExt = errors.New("不支持的导入文件格式")
)

const dateLayout = "2006-01-02"

// MissionService 任务业务接口
type MissionService interface {
	List(ctx context.Context, req *dto.MissionListRequest) ([]dto.MissionResponse, int64, error)
	ListDispatch(ctx context.Context, req *dto.PaginationRequest) ([]dto.MissionResponse, int64, error)
	Get(ctx context.Context, id string) (*dto.MissionResponse, error)
	Create(ctx context.Context, actorID string, req *dto.CreateMissionRequest) (*dto.MissionResponse, error)
	Assign(ctx context.Context, actorID, id string, req *dto.AssignMissionRequest) (*dto.MissionResponse, error)
	UpdateStatus(ctx context.Context, actorID, actorRole, id string, req *dto.UpdateMissionStatusRequest) (*dto.MissionResponse, error)
	ParseImportFile(filename string, data []byte) ([]dto.ImportMissionRow, error)
	Import(ctx context.Context, actorID string, rows []dto.ImportMissionRow) (*dto.ImportMissionResponse, error)
	ExportCalendar(ctx context.Context, coordinatorID string) (string, error)
}

type missionService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewMissionService 创建 MissionService 实例
func NewMissionService(repo *repository.Repository, logger *zap.Logger) MissionService {
	return &missionService{repo: repo, logger: logger}
}

func (s *missionService) List(ctx context.Context, req *dto.MissionListRequest) ([]dto.MissionResponse, int64, error) {
	missions, total, err := s.repo.Mission.List(ctx, req.Statut, req.CoordinatorID, req.Keyword, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询任务列表失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.MissionResponse, 0, len(missions))
	for i := range missions {
		result = append(result, toMissionResponse(&missions[i]))
	}
	return result, total, nil
}

// ListDispatch 派遣视图：待指派任务（pending / assigned / refused）
func (s *missionService) ListDispatch(ctx context.Context, req *dto.PaginationRequest) ([]dto.MissionResponse, int64, error) {
	missions, total, err := s.repo.Mission.ListByStatuts(ctx, workflow.AssignableMissionStatuses(), req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询待派遣任务失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.MissionResponse, 0, len(missions))
	for i := range missions {
		result = append(result, toMissionResponse(&missions[i]))
	}
	return result, total, nil
}

func (s *missionService) Get(ctx context.Context, id string) (*dto.MissionResponse, error) {
	mission, err := s.repo.Mission.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMissionNotFound
		}
		s.logger.Error("查询任务失败", zap.Error(err))
		return nil, err
	}
	resp := toMissionResponse(mission)
	return &resp, nil
}

func (s *missionService) Create(ctx context.Context, actorID string, req *dto.CreateMissionRequest) (*dto.MissionResponse, error) {
	return s.create(ctx, actorID, req, true)
}

// create 创建任务。reuseChantier 为 true 时按「客户+名称+地址」复用已有工地，
// 为 false（批量导入）时每行独立建档。
func (s *missionService) create(ctx context.Context, actorID string, req *dto.CreateMissionRequest, reuseChantier bool) (*dto.MissionResponse, error) {
	dateDebut, err := time.Parse(dateLayout, req.DateDebut)
	if err != nil {
		return nil, fmt.Errorf("开始日期格式错误: %w", err)
	}
	dateFin, err := time.Parse(dateLayout, req.DateFin)
	if err != nil {
		return nil, fmt.Errorf("结束日期格式错误: %w", err)
	}
	if dateFin.Before(dateDebut) {
		return nil, ErrInvalidDateRange
	}

	// 协调员校验（给定时任务直接进入 assigned）
	statut := workflow.MissionPending
	if req.CoordinatorID != nil {
		if err := s.checkCoordinator(ctx, *req.CoordinatorID); err != nil {
			return nil, err
		}
		statut = workflow.MissionAssigned
	}

	chantier, err := s.resolveChantier(ctx, actorID, req, reuseChantier)
	if err != nil {
		return nil, err
	}

	mission := &model.Mission{
		ChantierID:    chantier.ChantierID,
		CoordinatorID: req.CoordinatorID,
		DateDebut:     dateDebut,
		DateFin:       dateFin,
		Statut:        statut,
		Consignes:     req.Consignes,
	}
	mission.CreatedBy = &actorID
	mission.UpdatedBy = &actorID

	if err := s.repo.Mission.Create(ctx, mission); err != nil {
		s.logger.Error("创建任务失败", zap.Error(err))
		return nil, err
	}

	recordActivity(ctx, s.repo.ActivityLog, s.logger, &actorID, "mission_created", "mission", mission.MissionID,
		map[string]string{"chantier": req.ChantierNom, "client": req.ClientNom})

	return s.Get(ctx, mission.MissionID)
}

// Assign 指派或改派协调员，pending/assigned/refused 状态下可用
func (s *missionService) Assign(ctx context.Context, actorID, id string, req *dto.AssignMissionRequest) (*dto.MissionResponse, error) {
	mission, err := s.repo.Mission.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMissionNotFound
		}
		s.logger.Error("查询任务失败", zap.Error(err))
		return nil, err
	}

	if !workflow.CanMissionTransition(mission.Statut, workflow.MissionAssigned) {
		return nil, ErrInvalidTransition
	}
	if err := s.checkCoordinator(ctx, req.CoordinatorID); err != nil {
		return nil, err
	}

	mission.CoordinatorID = &req.CoordinatorID
	mission.Statut = workflow.MissionAssigned
	if req.RemarquesAdmin != nil {
		mission.RemarquesAdmin = req.RemarquesAdmin
	}
	mission.UpdatedBy = &actorID
	mission.Coordinator = nil // 避免 Save 级联写入旧关联

	if err := s.repo.Mission.Update(ctx, mission); err != nil {
		s.logger.Error("指派任务失败", zap.Error(err))
		return nil, err
	}

	recordActivity(ctx, s.repo.ActivityLog, s.logger, &actorID, "mission_assigned", "mission", id,
		map[string]string{"coordinator_id": req.CoordinatorID})

	return s.Get(ctx, id)
}

// UpdateStatus 迁移任务状态。
// 协调员只能操作指派给自己的任务，且仅限确认（in_progress）与拒绝（refused）
func (s *missionService) UpdateStatus(ctx context.Context, actorID, actorRole, id string, req *dto.UpdateMissionStatusRequest) (*dto.MissionResponse, error) {
	mission, err := s.repo.Mission.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMissionNotFound
		}
		s.logger.Error("查询任务失败", zap.Error(err))
		return nil, err
	}

	if actorRole != model.RoleAdmin {
		if mission.CoordinatorID == nil || *mission.CoordinatorID != actorID {
			return nil, ErrMissionForbidden
		}
		if req.Statut != workflow.MissionInProgress && req.Statut != workflow.MissionRefused {
			return nil, ErrMissionForbidden
		}
	}

	if !workflow.CanMissionTransition(mission.Statut, req.Statut) {
		return nil, ErrInvalidTransition
	}

	from := mission.Statut
	mission.Statut = req.Statut
	mission.UpdatedBy = &actorID

	if err := s.repo.Mission.Update(ctx, mission); err != nil {
		s.logger.Error("更新任务状态失败", zap.Error(err))
		return nil, err
	}

	recordActivity(ctx, s.repo.ActivityLog, s.logger, &actorID, "mission_status_changed", "mission", id,
		map[string]string{"from": from, "to": req.Statut})

	return s.Get(ctx, id)
}

// ── 批量导入 ──

// importHeaders 导入文件表头 → 字段映射
var importHeaders = map[string]string{
	"client":             "client",
	"chantier":           "chantier",
	"adresse":            "adresse",
	"ville":              "ville",
	"code_postal":        "code_postal",
	"date_debut":         "date_debut",
	"date_fin":           "date_fin",
	"reference":          "reference",
	"coordinateur_email": "coordinateur_email",
	"consignes":          "consignes",
}

var requiredHeaders = []string{"client", "chantier", "adresse", "ville", "date_debut", "date_fin"}

// ParseImportFile 按扩展名解析 CSV 或 XLSX 导入文件
func (s *missionService) ParseImportFile(filename string, data []byte) ([]dto.ImportMissionRow, error) {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".csv"):
		return parseImportCSV(data)
	case strings.HasSuffix(lower, ".xlsx"):
		return parseImportXLSX(data)
	default:
		return nil, ErrUnsupportedImportExt
	}
}

// parseImportCSV 解析 CSV。
// 注意：按逗号直接切分，不支持带引号的字段值。
func parseImportCSV(data []byte) ([]dto.ImportMissionRow, error) {
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")

	var records [][]string
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		records = append(records, strings.Split(line, ","))
	}
	return buildImportRows(records)
}

// parseImportXLSX 解析 XLSX，取第一个工作表
func parseImportXLSX(data []byte) ([]dto.ImportMissionRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("打开 XLSX 文件失败: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrImportEmpty
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("读取工作表失败: %w", err)
	}
	return buildImportRows(records)
}

// buildImportRows 表头行映射列位置，其余行转为导入条目
func buildImportRows(records [][]string) ([]dto.ImportMissionRow, error) {
	if len(records) < 2 {
		return nil, ErrImportEmpty
	}

	colIndex := make(map[string]int)
	for i, h := range records[0] {
		key := strings.ToLower(strings.TrimSpace(h))
		if field, ok := importHeaders[key]; ok {
			colIndex[field] = i
		}
	}
	for _, h := range requiredHeaders {
		if _, ok := colIndex[h]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrImportHeaderMissing, h)
		}
	}

	cell := func(record []string, field string) string {
		idx, ok := colIndex[field]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	rows := make([]dto.ImportMissionRow, 0, len(records)-1)
	for i, record := range records[1:] {
		rows = append(rows, dto.ImportMissionRow{
			Row:              i + 2, // 首行为表头
			ClientNom:        cell(record, "client"),
			ChantierNom:      cell(record, "chantier"),
			Adresse:          cell(record, "adresse"),
			Ville:            cell(record, "ville"),
			CodePostal:       cell(record, "code_postal"),
			DateDebut:        cell(record, "date_debut"),
			DateFin:          cell(record, "date_fin"),
			ReferenceInterne: cell(record, "reference"),
			CoordinatorEmail: cell(record, "coordinateur_email"),
			Consignes:        cell(record, "consignes"),
		})
	}
	return rows, nil
}

// Import 逐行创建任务。单行失败不影响其他行，结果中带行号与原因。
func (s *missionService) Import(ctx context.Context, actorID string, rows []dto.ImportMissionRow) (*dto.ImportMissionResponse, error) {
	resp := &dto.ImportMissionResponse{Total: len(rows)}

	for _, row := range rows {
		if err := s.importRow(ctx, actorID, row); err != nil {
			resp.Failed++
			resp.Errors = append(resp.Errors, dto.ImportMissionError{Row: row.Row, Reason: err.Error()})
			continue
		}
		resp.Success++
	}

	recordActivity(ctx, s.repo.ActivityLog, s.logger, &actorID, "missions_imported", "mission", "",
		map[string]int{"total": resp.Total, "success": resp.Success, "failed": resp.Failed})

	return resp, nil
}

func (s *missionService) importRow(ctx context.Context, actorID string, row dto.ImportMissionRow) error {
	if row.ClientNom == "" || row.ChantierNom == "" || row.Adresse == "" || row.Ville == "" {
		return errors.New("缺少必填字段 (client/chantier/adresse/ville)")
	}

	req := &dto.CreateMissionRequest{
		ClientNom:   row.ClientNom,
		ChantierNom: row.ChantierNom,
		Adresse:     row.Adresse,
		Ville:       row.Ville,
		DateDebut:   row.DateDebut,
		DateFin:     row.DateFin,
	}
	if row.CodePostal != "" {
		req.CodePostal = &row.CodePostal
	}
	if row.ReferenceInterne != "" {
		req.ReferenceInterne = &row.ReferenceInterne
	}
	if row.Consignes != "" {
		req.Consignes = &row.Consignes
	}

	// 协调员邮箱解析（忽略大小写），可选。
	// 邮箱未匹配到任何账号时任务保持未指派，不算失败行
	if row.CoordinatorEmail != "" {
		coordinator, err := s.repo.User.GetByEmail(ctx, row.CoordinatorEmail)
		switch {
		case err == nil:
			if coordinator.Role != model.RoleCoordinator {
				return ErrNotCoordinator
			}
			if !coordinator.IsActive {
				return ErrCoordinatorInactive
			}
			req.CoordinatorID = &coordinator.ProfileID
		case errors.Is(err, gorm.ErrRecordNotFound):
			s.logger.Warn("导入行协调员邮箱未匹配，任务保持未指派",
				zap.Int("row", row.Row), zap.String("email", row.CoordinatorEmail))
		default:
			return err
		}
	}

	_, err := s.create(ctx, actorID, req, false)
	return err
}

// ── 日历导出 ──

// ExportCalendar 导出协调员任务日历 (iCalendar 格式)
// 仅包含 assigned / in_progress / completed 状态的任务，按全天事件输出
func (s *missionService) ExportCalendar(ctx context.Context, coordinatorID string) (string, error) {
	if err := s.checkCoordinatorExists(ctx, coordinatorID); err != nil {
		return "", err
	}

	missions, err := s.repo.Mission.ListByCoordinator(ctx, coordinatorID)
	if err != nil {
		s.logger.Error("查询协调员任务失败", zap.Error(err))
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//ProSPS//Mission Calendar//FR")

	include := map[string]bool{
		workflow.MissionAssigned:   true,
		workflow.MissionInProgress: true,
		workflow.MissionCompleted:  true,
	}
	for i := range missions {
		m := &missions[i]
		if !include[m.Statut] {
			continue
		}

		event := cal.AddEvent(m.MissionID + "@prosps")
		event.SetAllDayStartAt(m.DateDebut)
		event.SetAllDayEndAt(m.DateFin.AddDate(0, 0, 1)) // DTEND 为不含端点的次日
		event.SetDtStampTime(time.Now())

		summary := ""
		if m.Chantier != nil {
			summary = m.Chantier.Nom
			if m.Chantier.Client != nil {
				summary += " — " + m.Chantier.Client.Nom
			}
			event.SetLocation(m.Chantier.Adresse + ", " + m.Chantier.Ville)
		}
		event.SetSummary(summary)
		if m.Consignes != nil {
			event.SetDescription(*m.Consignes)
		}
	}

	return cal.Serialize(), nil
}

// ── 内部辅助 ──

// resolveChantier 解析客户与工地：
// 客户按名称复用（忽略大小写）；工地在 reuse 为 true 时按「客户+名称+地址」复用，
// 否则总是新建一条工地记录
func (s *missionService) resolveChantier(ctx context.Context, actorID string, req *dto.CreateMissionRequest, reuse bool) (*model.Chantier, error) {
	client, err := s.repo.Client.GetByNom(ctx, req.ClientNom)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("查询客户失败", zap.Error(err))
			return nil, err
		}
		client = &model.Client{Nom: req.ClientNom}
		client.CreatedBy = &actorID
		client.UpdatedBy = &actorID
		if err := s.repo.Client.Create(ctx, client); err != nil {
			s.logger.Error("创建客户失败", zap.Error(err))
			return nil, err
		}
	}

	if reuse {
		chantier, err := s.repo.Chantier.FindMatch(ctx, client.ClientID, req.ChantierNom, req.Adresse)
		if err == nil {
			return chantier, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("查询工地失败", zap.Error(err))
			return nil, err
		}
	}

	chantier := &model.Chantier{
		ClientID:         client.ClientID,
		Nom:              req.ChantierNom,
		Adresse:          req.Adresse,
		Ville:            req.Ville,
		CodePostal:       req.CodePostal,
		ReferenceInterne: req.ReferenceInterne,
	}
	chantier.CreatedBy = &actorID
	chantier.UpdatedBy = &actorID
	if err := s.repo.Chantier.Create(ctx, chantier); err != nil {
		s.logger.Error("创建工地失败", zap.Error(err))
		return nil, err
	}
	return chantier, nil
}

// checkCoordinator 校验协调员存在、角色正确且处于启用状态
func (s *missionService) checkCoordinator(ctx context.Context, id string) error {
	coordinator, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCoordinatorNotFound
		}
		s.logger.Error("查询协调员失败", zap.Error(err))
		return err
	}
	if coordinator.Role != model.RoleCoordinator {
		return ErrNotCoordinator
	}
	if !coordinator.IsActive {
		return ErrCoordinatorInactive
	}
	return nil
}

func (s *missionService) checkCoordinatorExists(ctx context.Context, id string) error {
	if _, err := s.repo.User.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCoordinatorNotFound
		}
		s.logger.Error("查询协调员失败", zap.Error(err))
		return err
	}
	return nil
}

// toMissionResponse 模型转响应（反规范化客户与工地信息）
func toMissionResponse(m *model.Mission) dto.MissionResponse {
	resp := dto.MissionResponse{
		ID:             m.MissionID,
		DateDebut:      m.DateDebut.Format(dateLayout),
		DateFin:        m.DateFin.Format(dateLayout),
		Statut:         m.Statut,
		CoordinatorID:  m.CoordinatorID,
		Consignes:      m.Consignes,
		RemarquesAdmin: m.RemarquesAdmin,
		CreatedAt:      m.CreatedAt.Format(time.RFC3339),
	}
	if m.Chantier != nil {
		resp.ChantierNom = m.Chantier.Nom
		resp.Adresse = m.Chantier.Adresse
		resp.Ville = m.Chantier.Ville
		resp.CodePostal = m.Chantier.CodePostal
		resp.ReferenceInterne = m.Chantier.ReferenceInterne
		if m.Chantier.Client != nil {
			resp.ClientNom = m.Chantier.Client.Nom
		}
	}
	if m.Coordinator != nil {
		nom := m.Coordinator.FullName()
		resp.CoordinatorNom = &nom
	}
	return resp
}
