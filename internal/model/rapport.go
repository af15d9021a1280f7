package model

import "time"

// Rapport 安全报告表 — 对应 rapports
type Rapport struct {
	RapportID            string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"rapport_id"`
	MissionID            string     `gorm:"type:uuid;not null"                             json:"mission_id"`
	CoordinatorID        string     `gorm:"type:uuid;not null"                             json:"coordinator_id"`
	VisitID              *string    `gorm:"type:uuid"                                      json:"visit_id,omitempty"`
	Header               *string    `gorm:"type:text"                                      json:"header,omitempty"`
	Content              string     `gorm:"type:text;not null;default:''"                  json:"content"`
	Footer               *string    `gorm:"type:text"                                      json:"footer,omitempty"`
	Observations         *string    `gorm:"type:text"                                      json:"observations,omitempty"`
	RemarquesAdmin       *string    `gorm:"type:text"                                      json:"remarques_admin,omitempty"`
	ConformityPercentage *int       `gorm:""                                               json:"conformity_percentage,omitempty"`
	Statut               string     `gorm:"type:varchar(20);not null;default:'draft'"      json:"statut"`
	ValidatedBy          *string    `gorm:"type:uuid"                                      json:"validated_by,omitempty"`
	ValidatedAt          *time.Time `gorm:""                                               json:"validated_at,omitempty"`
	SentToClientAt       *time.Time `gorm:""                                               json:"sent_to_client_at,omitempty"`
	PDFObjectKey         *string    `gorm:"column:pdf_object_key;type:varchar(512)"        json:"pdf_object_key,omitempty"`
	BaseModel

	// 关联
	Mission     *Mission `gorm:"foreignKey:MissionID;references:MissionID"     json:"mission,omitempty"`
	Coordinator *Profile `gorm:"foreignKey:CoordinatorID;references:ProfileID" json:"coordinator,omitempty"`
	Visit       *Visit   `gorm:"foreignKey:VisitID;references:VisitID"         json:"visit,omitempty"`
}

// TableName 指定表名
func (Rapport) TableName() string { return "rapports" }
