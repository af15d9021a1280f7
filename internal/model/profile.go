package model

// 角色常量
const (
	RoleAdmin       = "admin"
	RoleCoordinator = "coordinator"
)

// Profile 用户档案表 — 对应 profiles
type Profile struct {
	ProfileID    string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"  json:"profile_id"`
	Email        string  `gorm:"type:varchar(255);not null;uniqueIndex"          json:"email"`
	PasswordHash string  `gorm:"type:varchar(255);not null"                      json:"-"`
	FirstName    string  `gorm:"type:varchar(100);not null"                      json:"first_name"`
	LastName     string  `gorm:"type:varchar(100);not null"                      json:"last_name"`
	Phone        *string `gorm:"type:varchar(30)"                                json:"phone,omitempty"`
	Role         string  `gorm:"type:varchar(20);not null;default:'coordinator'" json:"role"`
	Zone         *string `gorm:"type:varchar(100)"                               json:"zone,omitempty"`
	Specialite   *string `gorm:"type:varchar(100)"                               json:"specialite,omitempty"`
	IsActive     bool    `gorm:"not null;default:true"                           json:"is_active"`
	BaseModel
}

// TableName 指定表名
func (Profile) TableName() string { return "profiles" }

// FullName 姓名拼接（first_name + last_name）
func (p *Profile) FullName() string {
	return p.FirstName + " " + p.LastName
}
