package repository

import (
	"context"
	"storefront/internal/models"

	"gorm.io/gorm"
)

type SliderRepository interface {
	Create(ctx context.Context, slider *models.Slider) error
	GetByID(ctx context.Context, id uint) (*models.Slider, error)
	GetBySortOrder(ctx context.Context, sortOrder int) (*models.Slider, error)
	List(ctx context.Context, activeOnly bool) ([]models.Slider, error)
	Update(ctx context.Context, slider *models.Slider) error
	Delete(ctx context.Context, id uint) error
}

type sliderRepository struct {
	db *gorm.DB
}

func NewSliderRepository(db *gorm.DB) SliderRepository {
	return &sliderRepository{db: db}
}

func (r *sliderRepository) Create(ctx context.Context, slider *models.Slider) error {
	return translate(r.db.WithContext(ctx).Create(slider).Error)
}

func (r *sliderRepository) GetByID(ctx context.Context, id uint) (*models.Slider, error) {
	var slider models.Slider
	err := r.db.WithContext(ctx).First(&slider, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &slider, nil
}

func (r *sliderRepository) GetBySortOrder(ctx context.Context, sortOrder int) (*models.Slider, error) {
	var slider models.Slider
	err := r.db.WithContext(ctx).Where("sort_order = ?", sortOrder).First(&slider).Error
	if err != nil {
		return nil, translate(err)
	}
	return &slider, nil
}

func (r *sliderRepository) List(ctx context.Context, activeOnly bool) ([]models.Slider, error) {
	var sliders []models.Slider
	query := r.db.WithContext(ctx)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("sort_order ASC").Find(&sliders).Error
	return sliders, err
}

func (r *sliderRepository) Update(ctx context.Context, slider *models.Slider) error {
	return translate(r.db.WithContext(ctx).Save(slider).Error)
}

func (r *sliderRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Slider{}, id).Error
}

type FeatureRepository interface {
	Create(ctx context.Context, feature *models.PromotionalFeature) error
	GetByID(ctx context.Context, id uint) (*models.PromotionalFeature, error)
	List(ctx context.Context, activeOnly bool) ([]models.PromotionalFeature, error)
	Update(ctx context.Context, feature *models.PromotionalFeature) error
	Delete(ctx context.Context, id uint) error
}

type featureRepository struct {
	db *gorm.DB
}

func NewFeatureRepository(db *gorm.DB) FeatureRepository {
	return &featureRepository{db: db}
}

func (r *featureRepository) Create(ctx context.Context, feature *models.PromotionalFeature) error {
	return translate(r.db.WithContext(ctx).Create(feature).Error)
}

func (r *featureRepository) GetByID(ctx context.Context, id uint) (*models.PromotionalFeature, error) {
	var feature models.PromotionalFeature
	err := r.db.WithContext(ctx).First(&feature, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &feature, nil
}

func (r *featureRepository) List(ctx context.Context, activeOnly bool) ([]models.PromotionalFeature, error) {
	var features []models.PromotionalFeature
	query := r.db.WithContext(ctx)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("sort_order ASC, id ASC").Find(&features).Error
	return features, err
}

func (r *featureRepository) Update(ctx context.Context, feature *models.PromotionalFeature) error {
	return translate(r.db.WithContext(ctx).Save(feature).Error)
}

func (r *featureRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.PromotionalFeature{}, id).Error
}
