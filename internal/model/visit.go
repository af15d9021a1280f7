package model

import "time"

// 照片风险等级（法语原值，PDF 发送前映射为英文）
const (
	RiskFaible = "faible"
	RiskMoyen  = "moyen"
	RiskEleve  = "eleve"
)

// Visit 现场巡视表 — 对应 visits
type Visit struct {
	VisitID   string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"visit_id"`
	MissionID string     `gorm:"type:uuid;not null"                             json:"mission_id"`
	VisitedAt *time.Time `gorm:""                                               json:"visited_at,omitempty"`
	BaseModel

	// 关联
	Photos []VisitPhoto `gorm:"foreignKey:VisitID;references:VisitID" json:"photos,omitempty"`
}

// TableName 指定表名
func (Visit) TableName() string { return "visits" }

// VisitPhoto 巡视照片表 — 对应 visit_photos
type VisitPhoto struct {
	PhotoID        string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"photo_id"`
	VisitID        string     `gorm:"type:uuid;not null"                             json:"visit_id"`
	ObjectKey      string     `gorm:"type:varchar(512);not null"                     json:"object_key"`
	TakenAt        *time.Time `gorm:""                                               json:"taken_at,omitempty"`
	Comment        *string    `gorm:"type:text"                                      json:"comment,omitempty"`
	Validated      bool       `gorm:"not null;default:true"                          json:"validated"`
	Observation    *string    `gorm:"type:text"                                      json:"observation,omitempty"`
	Recommendation *string    `gorm:"type:text"                                      json:"recommendation,omitempty"`
	RiskLevel      *string    `gorm:"type:varchar(10)"                               json:"risk_level,omitempty"`
	Confidence     *float64   `gorm:""                                               json:"confidence,omitempty"`
	BaseModel
}

// TableName 指定表名
func (VisitPhoto) TableName() string { return "visit_photos" }
