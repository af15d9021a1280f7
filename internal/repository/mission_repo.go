package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"prosps/backend/internal/model"
)

// MonthCount 按年月分组的任务计数
type MonthCount struct {
	Year  int   `gorm:"column:year"`
	Month int   `gorm:"column:month"`
	Count int64 `gorm:"column:count"`
}

// CoordinatorCount 协调员任务量统计行
type CoordinatorCount struct {
	CoordinatorID string `gorm:"column:coordinator_id"`
	FirstName     string `gorm:"column:first_name"`
	LastName      string `gorm:"column:last_name"`
	Count         int64  `gorm:"column:count"`
}

// MissionRepository 任务数据访问接口
type MissionRepository interface {
	Create(ctx context.Context, mission *model.Mission) error
	GetByID(ctx context.Context, id string) (*model.Mission, error)
	Update(ctx context.Context, mission *model.Mission) error
	List(ctx context.Context, statut, coordinatorID, keyword string, offset, limit int) ([]model.Mission, int64, error)
	ListByStatuts(ctx context.Context, statuts []string, offset, limit int) ([]model.Mission, int64, error)
	ListByCoordinator(ctx context.Context, coordinatorID string) ([]model.Mission, error)
	Count(ctx context.Context, coordinatorID string) (int64, error)
	CountByStatut(ctx context.Context, coordinatorID string) (map[string]int64, error)
	CountByMonth(ctx context.Context, from time.Time, coordinatorID string) ([]MonthCount, error)
	TopCoordinators(ctx context.Context, limit int) ([]CoordinatorCount, error)
}

// missionRepo MissionRepository 的 GORM 实现
type missionRepo struct {
	db *gorm.DB
}

// NewMissionRepo 创建 MissionRepository 实例
func NewMissionRepo(db *gorm.DB) MissionRepository {
	return &missionRepo{db: db}
}

func (r *missionRepo) Create(ctx context.Context, mission *model.Mission) error {
	return r.db.WithContext(ctx).Create(mission).Error
}

func (r *missionRepo) GetByID(ctx context.Context, id string) (*model.Mission, error) {
	var m model.Mission
	err := r.db.WithContext(ctx).
		Preload("Chantier").
		Preload("Chantier.Client").
		Preload("Coordinator").
		Where("mission_id = ?", id).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *missionRepo) Update(ctx context.Context, mission *model.Mission) error {
	return r.db.WithContext(ctx).Save(mission).Error
}

// List 分页查询任务，keyword 模糊匹配工地名、客户名、地址与城市
func (r *missionRepo) List(ctx context.Context, statut, coordinatorID, keyword string, offset, limit int) ([]model.Mission, int64, error) {
	var missions []model.Mission
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Mission{})
	if statut != "" {
		db = db.Where("statut = ?", statut)
	}
	if coordinatorID != "" {
		db = db.Where("coordinator_id = ?", coordinatorID)
	}
	if keyword != "" {
		like := "%" + keyword + "%"
		db = db.Where(
			"chantier_id IN (?)",
			r.db.Model(&model.Chantier{}).Select("chantier_id").
				Joins("JOIN clients ON clients.client_id = chantiers.client_id").
				Where("chantiers.nom ILIKE ? OR clients.nom ILIKE ? OR chantiers.adresse ILIKE ? OR chantiers.ville ILIKE ?", like, like, like, like),
		)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Chantier").
		Preload("Chantier.Client").
		Preload("Coordinator").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&missions).Error; err != nil {
		return nil, 0, err
	}
	return missions, total, nil
}

// ListByStatuts 分页查询指定状态集合内的任务（派遣视图用）
func (r *missionRepo) ListByStatuts(ctx context.Context, statuts []string, offset, limit int) ([]model.Mission, int64, error) {
	var missions []model.Mission
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Mission{}).Where("statut IN ?", statuts)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Chantier").
		Preload("Chantier.Client").
		Preload("Coordinator").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&missions).Error; err != nil {
		return nil, 0, err
	}
	return missions, total, nil
}

// ListByCoordinator 协调员的全部任务（日历导出用），按开始日期升序
func (r *missionRepo) ListByCoordinator(ctx context.Context, coordinatorID string) ([]model.Mission, error) {
	var missions []model.Mission
	err := r.db.WithContext(ctx).
		Preload("Chantier").
		Preload("Chantier.Client").
		Where("coordinator_id = ?", coordinatorID).
		Order("date_debut ASC").
		Find(&missions).Error
	if err != nil {
		return nil, err
	}
	return missions, nil
}

// Count 任务总数，coordinatorID 非空时仅统计该协调员的任务
func (r *missionRepo) Count(ctx context.Context, coordinatorID string) (int64, error) {
	var total int64
	db := r.db.WithContext(ctx).Model(&model.Mission{})
	if coordinatorID != "" {
		db = db.Where("coordinator_id = ?", coordinatorID)
	}
	err := db.Count(&total).Error
	return total, err
}

func (r *missionRepo) CountByStatut(ctx context.Context, coordinatorID string) (map[string]int64, error) {
	var rows []struct {
		Statut string `gorm:"column:statut"`
		Count  int64  `gorm:"column:count"`
	}
	db := r.db.WithContext(ctx).Model(&model.Mission{})
	if coordinatorID != "" {
		db = db.Where("coordinator_id = ?", coordinatorID)
	}
	err := db.Select("statut, COUNT(*) AS count").
		Group("statut").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		result[row.Statut] = row.Count
	}
	return result, nil
}

// CountByMonth 按创建月份统计 from 之后的任务量
func (r *missionRepo) CountByMonth(ctx context.Context, from time.Time, coordinatorID string) ([]MonthCount, error) {
	var rows []MonthCount
	db := r.db.WithContext(ctx).Model(&model.Mission{}).
		Where("created_at >= ?", from)
	if coordinatorID != "" {
		db = db.Where("coordinator_id = ?", coordinatorID)
	}
	err := db.Select("date_part('year', created_at)::int AS year, date_part('month', created_at)::int AS month, COUNT(*) AS count").
		Group("1, 2").
		Order("1, 2").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// TopCoordinators 任务量最多的协调员，数量相同按 ID 升序保证稳定
func (r *missionRepo) TopCoordinators(ctx context.Context, limit int) ([]CoordinatorCount, error) {
	var rows []CoordinatorCount
	err := r.db.WithContext(ctx).Model(&model.Mission{}).
		Select("missions.coordinator_id, profiles.first_name, profiles.last_name, COUNT(*) AS count").
		Joins("JOIN profiles ON profiles.profile_id = missions.coordinator_id").
		Where("missions.coordinator_id IS NOT NULL").
		Group("missions.coordinator_id, profiles.first_name, profiles.last_name").
		Order("count DESC, missions.coordinator_id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
