package dto

// ── 任务模块 DTO ──

// MissionListRequest 任务列表查询参数
type MissionListRequest struct {
	PaginationRequest
	Statut        string `form:"statut"         binding:"omitempty,oneof=pending assigned in_progress completed refused cancelled"`
	CoordinatorID string `form:"coordinator_id" binding:"omitempty,uuid"`
	Keyword       string `form:"keyword"        binding:"omitempty,max=100"`
}

// CreateMissionRequest 创建任务请求
// 客户与工地按名称/地址解析，不存在则自动创建
type CreateMissionRequest struct {
	ClientNom        string  `json:"client_nom"        binding:"required,max=200"`
	ChantierNom      string  `json:"chantier_nom"      binding:"required,max=200"`
	Adresse          string  `json:"adresse"           binding:"required,max=255"`
	Ville            string  `json:"ville"             binding:"required,max=100"`
	CodePostal       *string `json:"code_postal"       binding:"omitempty,max=10"`
	ReferenceInterne *string `json:"reference_interne" binding:"omitempty,max=100"`
	DateDebut        string  `json:"date_debut"        binding:"required,datetime=2006-01-02"`
	DateFin          string  `json:"date_fin"          binding:"required,datetime=2006-01-02"`
	CoordinatorID    *string `json:"coordinator_id"    binding:"omitempty,uuid"`
	Consignes        *string `json:"consignes"`
}

// AssignMissionRequest 指派/改派协调员请求
type AssignMissionRequest struct {
	CoordinatorID  string  `json:"coordinator_id"  binding:"required,uuid"`
	RemarquesAdmin *string `json:"remarques_admin"`
}

// UpdateMissionStatusRequest 更新任务状态请求
type UpdateMissionStatusRequest struct {
	Statut string `json:"statut" binding:"required,oneof=pending assigned in_progress completed refused cancelled"`
}

// MissionResponse 任务列表/详情响应（含反规范化的客户与工地信息）
type MissionResponse struct {
	ID               string  `json:"id"`
	ClientNom        string  `json:"client_nom"`
	ChantierNom      string  `json:"chantier_nom"`
	Adresse          string  `json:"adresse"`
	Ville            string  `json:"ville"`
	CodePostal       *string `json:"code_postal,omitempty"`
	DateDebut        string  `json:"date_debut"`
	DateFin          string  `json:"date_fin"`
	Statut           string  `json:"statut"`
	CoordinatorID    *string `json:"coordinator_id,omitempty"`
	CoordinatorNom   *string `json:"coordinator_nom,omitempty"`
	Consignes        *string `json:"consignes,omitempty"`
	RemarquesAdmin   *string `json:"remarques_admin,omitempty"`
	ReferenceInterne *string `json:"reference_interne,omitempty"`
	CreatedAt        string  `json:"created_at"`
}

// ImportMissionResponse 批量导入任务响应
type ImportMissionResponse struct {
	Total   int                  `json:"total"`
	Success int                  `json:"success"`
	Failed  int                  `json:"failed"`
	Errors  []ImportMissionError `json:"errors,omitempty"`
}

// ImportMissionError 导入错误详情
type ImportMissionError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportMissionRow 导入文件中的一行（CSV / XLSX 解析结果）
type ImportMissionRow struct {
	Row              int
	ClientNom        string
	ChantierNom      string
	Adresse          string
	Ville            string
	CodePostal       string
	DateDebut        string
	DateFin          string
	ReferenceInterne string
	CoordinatorEmail string
	Consignes        string
}
