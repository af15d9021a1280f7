package model

// Client 客户表 — 对应 clients
type Client struct {
	ClientID   string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"client_id"`
	Nom        string  `gorm:"type:varchar(200);not null"                     json:"nom"`
	Email      *string `gorm:"type:varchar(255)"                              json:"email,omitempty"`
	Telephone  *string `gorm:"type:varchar(30)"                               json:"telephone,omitempty"`
	Adresse    *string `gorm:"type:varchar(255)"                              json:"adresse,omitempty"`
	Ville      *string `gorm:"type:varchar(100)"                              json:"ville,omitempty"`
	CodePostal *string `gorm:"type:varchar(10)"                               json:"code_postal,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Client) TableName() string { return "clients" }
