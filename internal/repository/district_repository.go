package repository

import (
	"context"
	"storefront/internal/models"

	"gorm.io/gorm"
)

type DistrictRepository interface {
	Create(ctx context.Context, district *models.District) error
	GetByID(ctx context.Context, id uint) (*models.District, error)
	GetByName(ctx context.Context, name string) (*models.District, error)
	List(ctx context.Context, activeOnly bool) ([]models.District, error)
	Update(ctx context.Context, district *models.District) error
	Delete(ctx context.Context, id uint) error
}

type districtRepository struct {
	db *gorm.DB
}

func NewDistrictRepository(db *gorm.DB) DistrictRepository {
	return &districtRepository{db: db}
}

func (r *districtRepository) Create(ctx context.Context, district *models.District) error {
	return translate(r.db.WithContext(ctx).Create(district).Error)
}

func (r *districtRepository) GetByID(ctx context.Context, id uint) (*models.District, error) {
	var district models.District
	err := r.db.WithContext(ctx).First(&district, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &district, nil
}

// GetByName matches case-insensitively since orders carry the district as free text.
func (r *districtRepository) GetByName(ctx context.Context, name string) (*models.District, error) {
	var district models.District
	err := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&district).Error
	if err != nil {
		return nil, translate(err)
	}
	return &district, nil
}

func (r *districtRepository) List(ctx context.Context, activeOnly bool) ([]models.District, error) {
	var districts []models.District
	query := r.db.WithContext(ctx)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("name ASC").Find(&districts).Error
	return districts, err
}

func (r *districtRepository) Update(ctx context.Context, district *models.District) error {
	return translate(r.db.WithContext(ctx).Save(district).Error)
}

func (r *districtRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.District{}, id).Error
}
