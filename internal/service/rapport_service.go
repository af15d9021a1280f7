package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"prosps/backend/internal/dto"
	"prosps/backend/internal/model"
	"prosps/backend/internal/repository"
	"prosps/backend/internal/workflow"
	"prosps/backend/pkg/pdfgen"
	"prosps/backend/pkg/storage"
)

var (
	ErrRapportNotFound  = errors.New("报告不存在")
	ErrRapportLocked    = errors.New("报告已发送，不可修改")
	ErrRapportForbidden = errors.New("无权查看该报告")
)

const presignExpiry = time.Hour

// RapportService 报告业务接口
type RapportService interface {
	List(ctx context.Context, req *dto.RapportListRequest) ([]dto.RapportResponse, int64, error)
	Get(ctx context.Context, actorID, actorRole, id string) (*dto.RapportResponse, error)
	Update(ctx context.Context, actorID, id string, req *dto.UpdateRapportRequest) (*dto.RapportResponse, error)
	Validate(ctx context.Context, actorID, id string) (*dto.RapportResponse, error)
	SendToClient(ctx context.Context, actorID, id string) (*dto.RapportResponse, error)
}

type rapportService struct {
	repo   *repository.Repository
	store  storage.Storage
	pdfGen pdfgen.Generator
	logger *zap.Logger
}

// NewRapportService 创建 RapportService 实例
func NewRapportService(repo *repository.Repository, store storage.Storage, pdfGen pdfgen.Generator, logger *zap.Logger) RapportService {
	return &rapportService{repo: repo, store: store, pdfGen: pdfGen, logger: logger}
}

func (s *rapportService) List(ctx context.Context, req *dto.RapportListRequest) ([]dto.RapportResponse, int64, error) {
	rapports, total, err := s.repo.Rapport.List(ctx, req.Statut, req.CoordinatorID, req.Keyword, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询报告列表失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.RapportResponse, 0, len(rapports))
	for i := range rapports {
		result = append(result, toRapportResponse(&rapports[i]))
	}
	return result, total, nil
}

// Get 查询报告详情。
// 协调员只能查看自己的报告，且不返回管理员内部备注
func (s *rapportService) Get(ctx context.Context, actorID, actorRole, id string) (*dto.RapportResponse, error) {
	rapport, err := s.getRapport(ctx, id)
	if err != nil {
		return nil, err
	}
	if actorRole != model.RoleAdmin && rapport.CoordinatorID != actorID {
		return nil, ErrRapportForbidden
	}

	resp := toRapportResponse(rapport)
	if actorRole != model.RoleAdmin {
		resp.RemarquesAdmin = nil
	}

	// 已发送报告附带 PDF 预签名下载链接
	if rapport.PDFObjectKey != nil {
		url, err := s.store.PresignedGetURL(ctx, *rapport.PDFObjectKey, presignExpiry)
		if err != nil {
			s.logger.Warn("生成 PDF 下载链接失败", zap.String("rapport_id", id), zap.Error(err))
		} else {
			resp.PDFURL = &url
		}
	}
	return &resp, nil
}

// Update 管理员编辑报告内容，已发送的报告不可修改
func (s *rapportService) Update(ctx context.Context, actorID, id string, req *dto.UpdateRapportRequest) (*dto.RapportResponse, error) {
	rapport, err := s.getRapport(ctx, id)
	if err != nil {
		return nil, err
	}
	if rapport.Statut == workflow.RapportSentToClient {
		return nil, ErrRapportLocked
	}

	if req.Header != nil {
		rapport.Header = req.Header
	}
	if req.Content != nil {
		rapport.Content = *req.Content
	}
	if req.Footer != nil {
		rapport.Footer = req.Footer
	}
	if req.Observations != nil {
		rapport.Observations = req.Observations
	}
	if req.RemarquesAdmin != nil {
		rapport.RemarquesAdmin = req.RemarquesAdmin
	}
	if req.ConformityPercentage != nil {
		rapport.ConformityPercentage = req.ConformityPercentage
	}
	rapport.UpdatedBy = &actorID

	if err := s.updateRapport(ctx, rapport); err != nil {
		return nil, err
	}

	recordActivity(ctx, s.repo.ActivityLog, s.logger, &actorID, "rapport_updated", "rapport", id, nil)

	// updateRapport 会清空预加载关联，重新查询以返回完整响应
	return s.Get(ctx, actorID, model.RoleAdmin, id)
}

// Validate 验证报告（submitted → validated）
func (s *rapportService) Validate(ctx context.Context, actorID, id string) (*dto.RapportResponse, error) {
	rapport, err := s.getRapport(ctx, id)
	if err != nil {
		return nil, err
	}
	if !workflow.CanRapportTransition(rapport.Statut, workflow.RapportValidated) {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	rapport.Statut = workflow.RapportValidated
	rapport.ValidatedBy = &actorID
	rapport.ValidatedAt = &now
	rapport.UpdatedBy = &actorID

	if err := s.updateRapport(ctx, rapport); err != nil {
		return nil, err
	}

	recordActivity(ctx, s.repo.ActivityLog, s.logger, &actorID, "rapport_validated", "rapport", id, nil)

	return s.Get(ctx, actorID, model.RoleAdmin, id)
}

// SendToClient 发送报告给客户 (validated → sent_to_client)。
// 先生成 PDF 并归档，全部成功后才翻转状态；任一步失败状态保持不变。
func (s *rapportService) SendToClient(ctx context.Context, actorID, id string) (*dto.RapportResponse, error) {
	rapport, err := s.getRapport(ctx, id)
	if err != nil {
		return nil, err
	}
	if !workflow.CanRapportTransition(rapport.Statut, workflow.RapportSentToClient) {
		return nil, ErrInvalidTransition
	}

	payload := s.buildPDFPayload(ctx, rapport)

	pdfBytes, err := s.pdfGen.GenerateReportPDF(ctx, payload)
	if err != nil {
		s.logger.Error("生成报告 PDF 失败", zap.String("rapport_id", id), zap.Error(err))
		return nil, fmt.Errorf("生成报告 PDF 失败: %w", err)
	}

	objectKey := fmt.Sprintf("rapports/%s.pdf", id)
	if err := s.store.PutObject(ctx, objectKey, pdfBytes, "application/pdf"); err != nil {
		s.logger.Error("归档报告 PDF 失败", zap.String("rapport_id", id), zap.Error(err))
		return nil, fmt.Errorf("归档报告 PDF 失败: %w", err)
	}

	now := time.Now()
	rapport.Statut = workflow.RapportSentToClient
	rapport.SentToClientAt = &now
	rapport.PDFObjectKey = &objectKey
	rapport.UpdatedBy = &actorID

	if err := s.updateRapport(ctx, rapport); err != nil {
		return nil, err
	}

	recordActivity(ctx, s.repo.ActivityLog, s.logger, &actorID, "rapport_sent", "rapport", id,
		map[string]string{"object_key": objectKey})

	return s.Get(ctx, actorID, model.RoleAdmin, id)
}

// buildPDFPayload 组装 PDF 服务所需数据。
// 照片加载失败不阻断发送，仅以空列表降级。
func (s *rapportService) buildPDFPayload(ctx context.Context, rapport *model.Rapport) *pdfgen.ReportPayload {
	clientNom, chantierNom := rapportClientChantier(rapport)

	payload := &pdfgen.ReportPayload{
		Title:      "Rapport de visite — " + chantierNom,
		Mission:    chantierNom,
		Client:     clientNom,
		Date:       rapport.CreatedAt.Format(dateLayout),
		Conformity: rapport.ConformityPercentage,
		Content:    rapport.Content,
		Photos:     []pdfgen.Photo{},
	}
	if rapport.Header != nil {
		payload.Header = *rapport.Header
	}
	if rapport.Footer != nil {
		payload.Footer = *rapport.Footer
	}

	if rapport.VisitID == nil {
		return payload
	}

	photos, err := s.repo.Visit.ListPhotosByVisit(ctx, *rapport.VisitID)
	if err != nil {
		s.logger.Warn("加载巡视照片失败，PDF 将不含照片",
			zap.String("rapport_id", rapport.RapportID), zap.Error(err))
		return payload
	}

	for i := range photos {
		payload.Photos = append(payload.Photos, s.toPDFPhoto(ctx, &photos[i]))
	}
	return payload
}

func (s *rapportService) toPDFPhoto(ctx context.Context, p *model.VisitPhoto) pdfgen.Photo {
	photo := pdfgen.Photo{
		ID:        p.PhotoID,
		Validated: p.Validated,
	}
	if p.TakenAt != nil {
		photo.Timestamp = *p.TakenAt
	}
	if p.Comment != nil {
		photo.Comment = *p.Comment
	}

	url, err := s.store.PresignedGetURL(ctx, p.ObjectKey, presignExpiry)
	if err != nil {
		s.logger.Warn("生成照片链接失败", zap.String("photo_id", p.PhotoID), zap.Error(err))
	} else {
		photo.URL = url
	}

	if analysis := toAIAnalysis(p); analysis != nil {
		photo.AIAnalysis = analysis
	}
	return photo
}

// toAIAnalysis 将照片分析字段转为 PDF 服务格式：
// 风险等级法译英，置信度转 0-100 整数，观察/建议按句切分
func toAIAnalysis(p *model.VisitPhoto) *pdfgen.AIAnalysis {
	if p.Observation == nil && p.Recommendation == nil && p.RiskLevel == nil {
		return nil
	}

	analysis := &pdfgen.AIAnalysis{
		Observations:    splitSentences(p.Observation),
		Recommendations: splitSentences(p.Recommendation),
	}
	if p.RiskLevel != nil {
		analysis.RiskLevel = mapRiskLevel(*p.RiskLevel)
	}
	if p.Confidence != nil {
		analysis.Confidence = int(math.Round(*p.Confidence * 100))
	}
	return analysis
}

func mapRiskLevel(fr string) string {
	switch fr {
	case model.RiskFaible:
		return "low"
	case model.RiskMoyen:
		return "medium"
	case model.RiskEleve:
		return "high"
	default:
		return fr
	}
}

func splitSentences(text *string) []string {
	if text == nil || strings.TrimSpace(*text) == "" {
		return nil
	}
	parts := strings.Split(*text, ". ")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// ── 内部辅助 ──

func (s *rapportService) getRapport(ctx context.Context, id string) (*model.Rapport, error) {
	rapport, err := s.repo.Rapport.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRapportNotFound
		}
		s.logger.Error("查询报告失败", zap.Error(err))
		return nil, err
	}
	return rapport, nil
}

func (s *rapportService) updateRapport(ctx context.Context, rapport *model.Rapport) error {
	// 避免 Save 级联写入预加载的关联
	rapport.Mission = nil
	rapport.Coordinator = nil
	rapport.Visit = nil

	if err := s.repo.Rapport.Update(ctx, rapport); err != nil {
		s.logger.Error("更新报告失败", zap.Error(err))
		return err
	}
	return nil
}

func rapportClientChantier(r *model.Rapport) (clientNom, chantierNom string) {
	if r.Mission != nil && r.Mission.Chantier != nil {
		chantierNom = r.Mission.Chantier.Nom
		if r.Mission.Chantier.Client != nil {
			clientNom = r.Mission.Chantier.Client.Nom
		}
	}
	return clientNom, chantierNom
}

// toRapportResponse 模型转响应
func toRapportResponse(r *model.Rapport) dto.RapportResponse {
	clientNom, chantierNom := rapportClientChantier(r)

	resp := dto.RapportResponse{
		ID:                   r.RapportID,
		MissionID:            r.MissionID,
		ClientNom:            clientNom,
		ChantierNom:          chantierNom,
		CoordinatorID:        r.CoordinatorID,
		VisitID:              r.VisitID,
		Header:               r.Header,
		Content:              r.Content,
		Footer:               r.Footer,
		Observations:         r.Observations,
		RemarquesAdmin:       r.RemarquesAdmin,
		ConformityPercentage: r.ConformityPercentage,
		Statut:               r.Statut,
		CreatedAt:            r.CreatedAt.Format(time.RFC3339),
	}
	if r.Coordinator != nil {
		resp.CoordinatorNom = r.Coordinator.FullName()
	}
	if r.ValidatedAt != nil {
		v := r.ValidatedAt.Format(time.RFC3339)
		resp.ValidatedAt = &v
	}
	if r.SentToClientAt != nil {
		v := r.SentToClientAt.Format(time.RFC3339)
		resp.SentToClientAt = &v
	}
	return resp
}
