package model

// Chantier 工地表 — 对应 chantiers
type Chantier struct {
	ChantierID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"chantier_id"`
	ClientID         string  `gorm:"type:uuid;not null"                             json:"client_id"`
	Nom              string  `gorm:"type:varchar(200);not null"                     json:"nom"`
	Adresse          string  `gorm:"type:varchar(255);not null"                     json:"adresse"`
	Ville            string  `gorm:"type:varchar(100);not null"                     json:"ville"`
	CodePostal       *string `gorm:"type:varchar(10)"                               json:"code_postal,omitempty"`
	ReferenceInterne *string `gorm:"type:varchar(100)"                              json:"reference_interne,omitempty"`
	BaseModel

	// 关联
	Client *Client `gorm:"foreignKey:ClientID;references:ClientID" json:"client,omitempty"`
}

// TableName 指定表名
func (Chantier) TableName() string { return "chantiers" }
