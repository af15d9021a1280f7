package dto

import "encoding/json"

// ── 操作日志 DTO ──

// ActivityLogListRequest 操作日志查询参数
type ActivityLogListRequest struct {
	PaginationRequest
	UserID     string `form:"user_id"     binding:"omitempty,uuid"`
	EntityType string `form:"entity_type" binding:"omitempty,max=50"`
}

// ActivityLogEntry 操作日志条目
type ActivityLogEntry struct {
	ID         string          `json:"id"`
	UserID     *string         `json:"user_id,omitempty"`
	UserNom    *string         `json:"user_nom,omitempty"`
	Action     string          `json:"action"`
	EntityType *string         `json:"entity_type,omitempty"`
	EntityID   *string         `json:"entity_id,omitempty"`
	Details    json.RawMessage `json:"details,omitempty"`
	IPAddress  *string         `json:"ip_address,omitempty"`
	CreatedAt  string          `json:"created_at"`
}
