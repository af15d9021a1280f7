package dto

// ── 巡视模块 DTO ──

// VisitResponse 巡视详情响应
type VisitResponse struct {
	ID        string          `json:"id"`
	MissionID string          `json:"mission_id"`
	VisitedAt *string         `json:"visited_at,omitempty"`
	Photos    []PhotoResponse `json:"photos"`
}

// PhotoResponse 巡视照片响应
type PhotoResponse struct {
	ID             string   `json:"id"`
	URL            string   `json:"url"` // 预签名下载链接
	TakenAt        *string  `json:"taken_at,omitempty"`
	Comment        *string  `json:"comment,omitempty"`
	Validated      bool     `json:"validated"`
	Observation    *string  `json:"observation,omitempty"`
	Recommendation *string  `json:"recommendation,omitempty"`
	RiskLevel      *string  `json:"risk_level,omitempty"`
	Confidence     *float64 `json:"confidence,omitempty"`
}
