package services

import (
	"context"
	"storefront/internal/apperr"
	"storefront/internal/models"
	"storefront/internal/repository"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type DistrictInput struct {
	Name           *string          `json:"name"`
	DeliveryCharge *decimal.Decimal `json:"delivery_charge"`
	IsActive       *bool            `json:"is_active"`
}

type DistrictService interface {
	List(ctx context.Context, activeOnly bool) ([]models.District, error)
	Get(ctx context.Context, id uint) (*models.District, error)
	Create(ctx context.Context, in DistrictInput) (*models.District, error)
	Update(ctx context.Context, id uint, in DistrictInput) (*models.District, error)
	Delete(ctx context.Context, id uint) error
}

type districtService struct {
	districts repository.DistrictRepository
	now       func() time.Time
}

func NewDistrictService(districts repository.DistrictRepository) DistrictService {
	return &districtService{districts: districts, now: time.Now}
}

func (s *districtService) List(ctx context.Context, activeOnly bool) ([]models.District, error) {
	districts, err := s.districts.List(ctx, activeOnly)
	if err != nil {
		return nil, apperr.Storage(err, "failed to list districts")
	}
	return districts, nil
}

func (s *districtService) Get(ctx context.Context, id uint) (*models.District, error) {
	district, err := s.districts.GetByID(ctx, id)
	if err != nil {
		return nil, loadErr(err, "district", id)
	}
	return district, nil
}

func (s *districtService) nameFree(ctx context.Context, name string, selfID uint) error {
	existing, err := s.districts.GetByName(ctx, name)
	found, err := exists(err)
	if err != nil {
		return apperr.Storage(err, "failed to check district name")
	}
	if found && existing.ID != selfID {
		return apperr.Conflict("district %q already exists", name)
	}
	return nil
}

func (s *districtService) Create(ctx context.Context, in DistrictInput) (*models.District, error) {
	details := map[string]string{}
	name := trimmed(in.Name)
	if name == "" {
		details["name"] = "is required"
	}
	if in.DeliveryCharge == nil {
		details["delivery_charge"] = "is required"
	} else if in.DeliveryCharge.IsNegative() {
		details["delivery_charge"] = "cannot be negative"
	}
	if len(details) > 0 {
		return nil, apperr.Fields(details)
	}
	if err := s.nameFree(ctx, name, 0); err != nil {
		return nil, err
	}

	now := s.now()
	district := &models.District{
		Name:           name,
		DeliveryCharge: *in.DeliveryCharge,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if in.IsActive != nil {
		district.IsActive = *in.IsActive
	}
	if err := s.districts.Create(ctx, district); err != nil {
		return nil, writeErr(err, "create district")
	}
	return district, nil
}

func (s *districtService) Update(ctx context.Context, id uint, in DistrictInput) (*models.District, error) {
	district, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := trimmed(in.Name)
		if name == "" {
			return nil, apperr.Fields(map[string]string{"name": "cannot be empty"})
		}
		if !strings.EqualFold(name, district.Name) {
			if err := s.nameFree(ctx, name, district.ID); err != nil {
				return nil, err
			}
		}
		district.Name = name
	}
	if in.DeliveryCharge != nil {
		if in.DeliveryCharge.IsNegative() {
			return nil, apperr.Fields(map[string]string{"delivery_charge": "cannot be negative"})
		}
		district.DeliveryCharge = *in.DeliveryCharge
	}
	if in.IsActive != nil {
		district.IsActive = *in.IsActive
	}
	district.UpdatedAt = s.now()

	if err := s.districts.Update(ctx, district); err != nil {
		return nil, writeErr(err, "update district")
	}
	return district, nil
}

func (s *districtService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.districts.Delete(ctx, id); err != nil {
		return apperr.Storage(err, "failed to delete district")
	}
	return nil
}
