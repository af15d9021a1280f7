package model

import "time"

// Mission 任务表 — 对应 missions
type Mission struct {
	MissionID      string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"mission_id"`
	ChantierID     string    `gorm:"type:uuid;not null"                             json:"chantier_id"`
	CoordinatorID  *string   `gorm:"type:uuid"                                      json:"coordinator_id,omitempty"`
	DateDebut      time.Time `gorm:"type:date;not null"                             json:"date_debut"`
	DateFin        time.Time `gorm:"type:date;not null"                             json:"date_fin"`
	Statut         string    `gorm:"type:varchar(20);not null;default:'pending'"    json:"statut"`
	Consignes      *string   `gorm:"type:text"                                      json:"consignes,omitempty"`
	RemarquesAdmin *string   `gorm:"type:text"                                      json:"remarques_admin,omitempty"`
	BaseModel

	// 关联
	Chantier    *Chantier `gorm:"foreignKey:ChantierID;references:ChantierID"      json:"chantier,omitempty"`
	Coordinator *Profile  `gorm:"foreignKey:CoordinatorID;references:ProfileID"    json:"coordinator,omitempty"`
}

// TableName 指定表名
func (Mission) TableName() string { return "missions" }
