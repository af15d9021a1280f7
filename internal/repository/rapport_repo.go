package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"prosps/backend/internal/model"
)

// TurnaroundRow 报告处理时长样本（创建 → 验证）
type TurnaroundRow struct {
	CreatedAt   time.Time  `gorm:"column:created_at"`
	ValidatedAt *time.Time `gorm:"column:validated_at"`
}

// RapportRepository 报告数据访问接口
type RapportRepository interface {
	GetByID(ctx context.Context, id string) (*model.Rapport, error)
	Update(ctx context.Context, rapport *model.Rapport) error
	List(ctx context.Context, statut, coordinatorID, keyword string, offset, limit int) ([]model.Rapport, int64, error)
	Count(ctx context.Context, coordinatorID string) (int64, error)
	CountByStatut(ctx context.Context, coordinatorID string) (map[string]int64, error)
	ListTurnaroundSamples(ctx context.Context, coordinatorID string) ([]TurnaroundRow, error)
}

// rapportRepo RapportRepository 的 GORM 实现
type rapportRepo struct {
	db *gorm.DB
}

// NewRapportRepo 创建 RapportRepository 实例
func NewRapportRepo(db *gorm.DB) RapportRepository {
	return &rapportRepo{db: db}
}

func (r *rapportRepo) GetByID(ctx context.Context, id string) (*model.Rapport, error) {
	var rapport model.Rapport
	err := r.db.WithContext(ctx).
		Preload("Mission").
		Preload("Mission.Chantier").
		Preload("Mission.Chantier.Client").
		Preload("Coordinator").
		Where("rapport_id = ?", id).
		First(&rapport).Error
	if err != nil {
		return nil, err
	}
	return &rapport, nil
}

func (r *rapportRepo) Update(ctx context.Context, rapport *model.Rapport) error {
	return r.db.WithContext(ctx).Save(rapport).Error
}

// List 分页查询报告，keyword 模糊匹配工地名、客户名与地址
func (r *rapportRepo) List(ctx context.Context, statut, coordinatorID, keyword string, offset, limit int) ([]model.Rapport, int64, error) {
	var rapports []model.Rapport
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Rapport{})
	if statut != "" {
		db = db.Where("statut = ?", statut)
	}
	if coordinatorID != "" {
		db = db.Where("coordinator_id = ?", coordinatorID)
	}
	if keyword != "" {
		like := "%" + keyword + "%"
		db = db.Where(
			"mission_id IN (?)",
			r.db.Model(&model.Mission{}).Select("mission_id").
				Joins("JOIN chantiers ON chantiers.chantier_id = missions.chantier_id").
				Joins("JOIN clients ON clients.client_id = chantiers.client_id").
				Where("chantiers.nom ILIKE ? OR clients.nom ILIKE ? OR chantiers.adresse ILIKE ?", like, like, like),
		)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Mission").
		Preload("Mission.Chantier").
		Preload("Mission.Chantier.Client").
		Preload("Coordinator").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&rapports).Error; err != nil {
		return nil, 0, err
	}
	return rapports, total, nil
}

// Count 报告总数，coordinatorID 非空时仅统计该协调员的报告
func (r *rapportRepo) Count(ctx context.Context, coordinatorID string) (int64, error) {
	var total int64
	db := r.db.WithContext(ctx).Model(&model.Rapport{})
	if coordinatorID != "" {
		db = db.Where("coordinator_id = ?", coordinatorID)
	}
	err := db.Count(&total).Error
	return total, err
}

func (r *rapportRepo) CountByStatut(ctx context.Context, coordinatorID string) (map[string]int64, error) {
	var rows []struct {
		Statut string `gorm:"column:statut"`
		Count  int64  `gorm:"column:count"`
	}
	db := r.db.WithContext(ctx).Model(&model.Rapport{})
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

// ListTurnaroundSamples 已验证或已发送报告的时间样本，用于平均处理时长
func (r *rapportRepo) ListTurnaroundSamples(ctx context.Context, coordinatorID string) ([]TurnaroundRow, error) {
	var rows []TurnaroundRow
	db := r.db.WithContext(ctx).Model(&model.Rapport{}).
		Where("statut IN ?", []string{"validated", "sent_to_client"})
	if coordinatorID != "" {
		db = db.Where("coordinator_id = ?", coordinatorID)
	}
	err := db.Select("created_at, validated_at").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
