package repository

import (
	"context"

	"gorm.io/gorm"

	"prosps/backend/internal/model"
)

// ClientRepository 客户数据访问接口
type ClientRepository interface {
	Create(ctx context.Context, client *model.Client) error
	GetByID(ctx context.Context, id string) (*model.Client, error)
	GetByNom(ctx context.Context, nom string) (*model.Client, error)
}

// clientRepo ClientRepository 的 GORM 实现
type clientRepo struct {
	db *gorm.DB
}

// NewClientRepo 创建 ClientRepository 实例
func NewClientRepo(db *gorm.DB) ClientRepository {
	return &clientRepo{db: db}
}

func (r *clientRepo) Create(ctx context.Context, client *model.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *clientRepo) GetByID(ctx context.Context, id string) (*model.Client, error) {
	var c model.Client
	err := r.db.WithContext(ctx).
		Where("client_id = ?", id).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByNom 按名称查找客户，忽略大小写
func (r *clientRepo) GetByNom(ctx context.Context, nom string) (*model.Client, error) {
	var c model.Client
	err := r.db.WithContext(ctx).
		Where("LOWER(nom) = LOWER(?)", nom).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}
