package repository

import (
	"context"

	"gorm.io/gorm"

	"prosps/backend/internal/model"
)

// VisitRepository 巡视数据访问接口
type VisitRepository interface {
	GetByID(ctx context.Context, id string) (*model.Visit, error)
	ListPhotosByVisit(ctx context.Context, visitID string) ([]model.VisitPhoto, error)
}

// visitRepo VisitRepository 的 GORM 实现
type visitRepo struct {
	db *gorm.DB
}

// NewVisitRepo 创建 VisitRepository 实例
func NewVisitRepo(db *gorm.DB) VisitRepository {
	return &visitRepo{db: db}
}

func (r *visitRepo) GetByID(ctx context.Context, id string) (*model.Visit, error) {
	var v model.Visit
	err := r.db.WithContext(ctx).
		Preload("Photos", func(db *gorm.DB) *gorm.DB {
			return db.Order("taken_at ASC")
		}).
		Where("visit_id = ?", id).
		First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *visitRepo) ListPhotosByVisit(ctx context.Context, visitID string) ([]model.VisitPhoto, error) {
	var photos []model.VisitPhoto
	err := r.db.WithContext(ctx).
		Where("visit_id = ?", visitID).
		Order("taken_at ASC").
		Find(&photos).Error
	if err != nil {
		return nil, err
	}
	return photos, nil
}
