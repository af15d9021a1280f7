package model

import (
	"encoding/json"
	"time"
)

// ActivityLog 操作日志表 — 对应 activity_logs（仅追加，不更新）
type ActivityLog struct {
	LogID      string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"log_id"`
	UserID     *string         `gorm:"type:uuid"                                      json:"user_id,omitempty"`
	Action     string          `gorm:"type:varchar(100);not null"                     json:"action"`
	EntityType *string         `gorm:"type:varchar(50)"                               json:"entity_type,omitempty"`
	EntityID   *string         `gorm:"type:uuid"                                      json:"entity_id,omitempty"`
	Details    json.RawMessage `gorm:"type:jsonb"                                     json:"details,omitempty"`
	IPAddress  *string         `gorm:"type:varchar(45)"                               json:"ip_address,omitempty"`
	UserAgent  *string         `gorm:"type:varchar(255)"                              json:"user_agent,omitempty"`
	CreatedAt  time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (ActivityLog) TableName() string { return "activity_logs" }
