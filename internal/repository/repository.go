package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User        UserRepository
	Client      ClientRepository
	Chantier    ChantierRepository
	Mission     MissionRepository
	Rapport     RapportRepository
	Visit       VisitRepository
	ActivityLog ActivityLogRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:        NewUserRepo(db),
		Client:      NewClientRepo(db),
		Chantier:    NewChantierRepo(db),
		Mission:     NewMissionRepo(db),
		Rapport:     NewRapportRepo(db),
		Visit:       NewVisitRepo(db),
		ActivityLog: NewActivityLogRepo(db),
	}
}
