package dto

// ── 报告模块 DTO ──

// RapportListRequest 报告列表查询参数
type RapportListRequest struct {
	PaginationRequest
	Statut        string `form:"statut"         binding:"omitempty,oneof=draft submitted validated sent_to_client"`
	CoordinatorID string `form:"coordinator_id" binding:"omitempty,uuid"`
	Keyword       string `form:"keyword"        binding:"omitempty,max=100"`
}

// UpdateRapportRequest 管理员编辑报告请求（字段均可选）
type UpdateRapportRequest struct {
	Header               *string `json:"header"`
	Content              *string `json:"content"`
	Footer               *string `json:"footer"`
	Observations         *string `json:"observations"`
	RemarquesAdmin       *string `json:"remarques_admin"`
	ConformityPercentage *int    `json:"conformity_percentage" binding:"omitempty,min=0,max=100"`
}

// RapportResponse 报告列表/详情响应
type RapportResponse struct {
	ID                   string  `json:"id"`
	MissionID            string  `json:"mission_id"`
	ClientNom            string  `json:"client_nom"`
	ChantierNom          string  `json:"chantier_nom"`
	CoordinatorID        string  `json:"coordinator_id"`
	CoordinatorNom       string  `json:"coordinator_nom"`
	VisitID              *string `json:"visit_id,omitempty"`
	Header               *string `json:"header,omitempty"`
	Content              string  `json:"content"`
	Footer               *string `json:"footer,omitempty"`
	Observations         *string `json:"observations,omitempty"`
	RemarquesAdmin       *string `json:"remarques_admin,omitempty"`
	ConformityPercentage *int    `json:"conformity_percentage,omitempty"`
	Statut               string  `json:"statut"`
	ValidatedAt          *string `json:"validated_at,omitempty"`
	SentToClientAt       *string `json:"sent_to_client_at,omitempty"`
	PDFURL               *string `json:"pdf_url,omitempty"` // 已发送报告的预签名下载链接
	CreatedAt            string  `json:"created_at"`
}
