package repository

import (
	"context"

	"gorm.io/gorm"

	"prosps/backend/internal/model"
)

// ChantierRepository 工地数据访问接口
type ChantierRepository interface {
	Create(ctx context.Context, chantier *model.Chantier) error
	GetByID(ctx context.Context, id string) (*model.Chantier, error)
	FindMatch(ctx context.Context, clientID, nom, adresse string) (*model.Chantier, error)
}

// chantierRepo ChantierRepository 的 GORM 实现
type chantierRepo struct {
	db *gorm.DB
}

// NewChantierRepo 创建 ChantierRepository 实例
func NewChantierRepo(db *gorm.DB) ChantierRepository {
	return &chantierRepo{db: db}
}

func (r *chantierRepo) Create(ctx context.Context, chantier *model.Chantier) error {
	return r.db.WithContext(ctx).Create(chantier).Error
}

func (r *chantierRepo) GetByID(ctx context.Context, id string) (*model.Chantier, error) {
	var c model.Chantier
	err := r.db.WithContext(ctx).
		Preload("Client").
		Where("chantier_id = ?", id).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FindMatch 按「客户 + 名称 + 地址」查找已有工地（忽略大小写），用于创建任务时复用
func (r *chantierRepo) FindMatch(ctx context.Context, clientID, nom, adresse string) (*model.Chantier, error) {
	var c model.Chantier
	err := r.db.WithContext(ctx).
		Where("client_id = ? AND LOWER(nom) = LOWER(?) AND LOWER(adresse) = LOWER(?)", clientID, nom, adresse).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}
