package services

import (
	"context"
	"storefront/internal/apperr"
	"storefront/internal/models"
	"storefront/internal/repository"
	"time"
)

type SliderInput struct {
	Title     *string `json:"title"`
	Subtitle  *string `json:"subtitle"`
	ImageURL  *string `json:"image_url"`
	LinkURL   *string `json:"link_url"`
	SortOrder *int    `json:"sort_order"`
	IsActive  *bool   `json:"is_active"`
}

type FeatureInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
	SortOrder   *int    `json:"sort_order"`
	IsActive    *bool   `json:"is_active"`
}

// DisplayService manages homepage sliders and promotional features.
type DisplayService interface {
	ListSliders(ctx context.Context, activeOnly bool) ([]models.Slider, error)
	GetSlider(ctx context.Context, id uint) (*models.Slider, error)
	CreateSlider(ctx context.Context, in SliderInput) (*models.Slider, error)
	UpdateSlider(ctx context.Context, id uint, in SliderInput) (*models.Slider, error)
	DeleteSlider(ctx context.Context, id uint) error

	ListFeatures(ctx context.Context, activeOnly bool) ([]models.PromotionalFeature, error)
	GetFeature(ctx context.Context, id uint) (*models.PromotionalFeature, error)
	CreateFeature(ctx context.Context, in FeatureInput) (*models.PromotionalFeature, error)
	UpdateFeature(ctx context.Context, id uint, in FeatureInput) (*models.PromotionalFeature, error)
	DeleteFeature(ctx context.Context, id uint) error
}

type displayService struct {
	sliders  repository.SliderRepository
	features repository.FeatureRepository
	now      func() time.Time
}

func NewDisplayService(sliders repository.SliderRepository, features repository.FeatureRepository) DisplayService {
	return &displayService{sliders: sliders, features: features, now: time.Now}
}

func (s *displayService) ListSliders(ctx context.Context, activeOnly bool) ([]models.Slider, error) {
	sliders, err := s.sliders.List(ctx, activeOnly)
	if err != nil {
		return nil, apperr.Storage(err, "failed to list sliders")
	}
	return sliders, nil
}

func (s *displayService) GetSlider(ctx context.Context, id uint) (*models.Slider, error) {
	slider, err := s.sliders.GetByID(ctx, id)
	if err != nil {
		return nil, loadErr(err, "slider", id)
	}
	return slider, nil
}

func (s *displayService) sortOrderFree(ctx context.Context, sortOrder int, selfID uint) error {
	existing, err := s.sliders.GetBySortOrder(ctx, sortOrder)
	found, err := exists(err)
	if err != nil {
		return apperr.Storage(err, "failed to check slider sort order")
	}
	if found && existing.ID != selfID {
		return apperr.Conflict("a slider with sort order %d already exists", sortOrder)
	}
	return nil
}

// nextSortOrder returns one past the highest slider position.
func (s *displayService) nextSortOrder(ctx context.Context) (int, error) {
	sliders, err := s.sliders.List(ctx, false)
	if err != nil {
		return 0, apperr.Storage(err, "failed to list sliders")
	}
	next := 1
	for _, slider := range sliders {
		if slider.SortOrder >= next {
			next = slider.SortOrder + 1
		}
	}
	return next, nil
}

func (s *displayService) CreateSlider(ctx context.Context, in SliderInput) (*models.Slider, error) {
	details := map[string]string{}
	if trimmed(in.Title) == "" {
		details["title"] = "is required"
	}
	if trimmed(in.ImageURL) == "" {
		details["image_url"] = "is required"
	}
	if len(details) > 0 {
		return nil, apperr.Fields(details)
	}

	var sortOrder int
	if in.SortOrder != nil {
		sortOrder = *in.SortOrder
		if err := s.sortOrderFree(ctx, sortOrder, 0); err != nil {
			return nil, err
		}
	} else {
		next, err := s.nextSortOrder(ctx)
		if err != nil {
			return nil, err
		}
		sortOrder = next
	}

	now := s.now()
	slider := &models.Slider{
		Title:     trimmed(in.Title),
		Subtitle:  optional(in.Subtitle),
		ImageURL:  trimmed(in.ImageURL),
		LinkURL:   optional(in.LinkURL),
		SortOrder: sortOrder,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.IsActive != nil {
		slider.IsActive = *in.IsActive
	}
	if err := s.sliders.Create(ctx, slider); err != nil {
		return nil, writeErr(err, "create slider")
	}
	return slider, nil
}

func (s *displayService) UpdateSlider(ctx context.Context, id uint, in SliderInput) (*models.Slider, error) {
	slider, err := s.GetSlider(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if trimmed(in.Title) == "" {
			return nil, apperr.Fields(map[string]string{"title": "cannot be empty"})
		}
		slider.Title = trimmed(in.Title)
	}
	if in.ImageURL != nil {
		if trimmed(in.ImageURL) == "" {
			return nil, apperr.Fields(map[string]string{"image_url": "cannot be empty"})
		}
		slider.ImageURL = trimmed(in.ImageURL)
	}
	if in.Subtitle != nil {
		slider.Subtitle = optional(in.Subtitle)
	}
	if in.LinkURL != nil {
		slider.LinkURL = optional(in.LinkURL)
	}
	if in.SortOrder != nil && *in.SortOrder != slider.SortOrder {
		if err := s.sortOrderFree(ctx, *in.SortOrder, slider.ID); err != nil {
			return nil, err
		}
		slider.SortOrder = *in.SortOrder
	}
	if in.IsActive != nil {
		slider.IsActive = *in.IsActive
	}
	slider.UpdatedAt = s.now()

	if err := s.sliders.Update(ctx, slider); err != nil {
		return nil, writeErr(err, "update slider")
	}
	return slider, nil
}

func (s *displayService) DeleteSlider(ctx context.Context, id uint) error {
	if _, err := s.GetSlider(ctx, id); err != nil {
		return err
	}
	if err := s.sliders.Delete(ctx, id); err != nil {
		return apperr.Storage(err, "failed to delete slider")
	}
	return nil
}

func (s *displayService) ListFeatures(ctx context.Context, activeOnly bool) ([]models.PromotionalFeature, error) {
	features, err := s.features.List(ctx, activeOnly)
	if err != nil {
		return nil, apperr.Storage(err, "failed to list features")
	}
	return features, nil
}

func (s *displayService) GetFeature(ctx context.Context, id uint) (*models.PromotionalFeature, error) {
	feature, err := s.features.GetByID(ctx, id)
	if err != nil {
		return nil, loadErr(err, "feature", id)
	}
	return feature, nil
}

func (s *displayService) CreateFeature(ctx context.Context, in FeatureInput) (*models.PromotionalFeature, error) {
	if trimmed(in.Title) == "" {
		return nil, apperr.Fields(map[string]string{"title": "is required"})
	}

	now := s.now()
	feature := &models.PromotionalFeature{
		Title:       trimmed(in.Title),
		Description: optional(in.Description),
		Icon:        optional(in.Icon),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.SortOrder != nil {
		feature.SortOrder = *in.SortOrder
	}
	if in.IsActive != nil {
		feature.IsActive = *in.IsActive
	}
	if err := s.features.Create(ctx, feature); err != nil {
		return nil, writeErr(err, "create feature")
	}
	return feature, nil
}

func (s *displayService) UpdateFeature(ctx context.Context, id uint, in FeatureInput) (*models.PromotionalFeature, error) {
	feature, err := s.GetFeature(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if trimmed(in.Title) == "" {
			return nil, apperr.Fields(map[string]string{"title": "cannot be empty"})
		}
		feature.Title = trimmed(in.Title)
	}
	if in.Description != nil {
		feature.Description = optional(in.Description)
	}
	if in.Icon != nil {
		feature.Icon = optional(in.Icon)
	}
	if in.SortOrder != nil {
		feature.SortOrder = *in.SortOrder
	}
	if in.IsActive != nil {
		feature.IsActive = *in.IsActive
	}
	feature.UpdatedAt = s.now()

	if err := s.features.Update(ctx, feature); err != nil {
		return nil, writeErr(err, "update feature")
	}
	return feature, nil
}

func (s *displayService) DeleteFeature(ctx context.Context, id uint) error {
	if _, err := s.GetFeature(ctx, id); err != nil {
		return err
	}
	if err := s.features.Delete(ctx, id); err != nil {
		return apperr.Storage(err, "failed to delete feature")
	}
	return nil
}
