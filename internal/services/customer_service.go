package services

import (
	"context"
	"log"
	"storefront/internal/apperr"
	"storefront/internal/models"
	"storefront/internal/repository"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type CustomerInput struct {
	Email        *string `json:"email"`
	FirstName    *string `json:"first_name"`
	LastName     *string `json:"last_name"`
	Phone        *string `json:"phone"`
	AddressLine1 *string `json:"address_line_1"`
	AddressLine2 *string `json:"address_line_2"`
	City         *string `json:"city"`
	District     *string `json:"district"`
	PostalCode   *string `json:"postal_code"`
	IsActive     *bool   `json:"is_active"`
}

type CustomerService interface {
	List(ctx context.Context, filter repository.CustomerFilter) ([]models.Customer, int64, error)
	Get(ctx context.Context, id uint) (*models.Customer, error)
	Create(ctx context.Context, in CustomerInput) (*models.Customer, error)
	Update(ctx context.Context, id uint, in CustomerInput) (*models.Customer, error)
	// Delete removes a customer without orders; customers with orders are
	// deactivated instead so their order history stays linked.
	Delete(ctx context.Context, id uint) error
}

type customerService struct {
	store repository.Store
	now   func() time.Time
}

func NewCustomerService(store repository.Store) CustomerService {
	return &customerService{store: store, now: time.Now}
}

func normalizeEmail(raw string) (string, bool) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if err := validate.Var(email, "required,email"); err != nil {
		return email, false
	}
	return email, true
}

func (s *customerService) List(ctx context.Context, filter repository.CustomerFilter) ([]models.Customer, int64, error) {
	customers, total, err := s.store.Customers().List(ctx, filter)
	if err != nil {
		return nil, 0, apperr.Storage(err, "failed to list customers")
	}
	return customers, total, nil
}

func (s *customerService) Get(ctx context.Context, id uint) (*models.Customer, error) {
	customer, err := s.store.Customers().GetByID(ctx, id)
	if err != nil {
		return nil, loadErr(err, "customer", id)
	}
	return customer, nil
}

func (s *customerService) emailFree(ctx context.Context, email string, selfID uint) error {
	existing, err := s.store.Customers().GetByEmail(ctx, email)
	found, err := exists(err)
	if err != nil {
		return apperr.Storage(err, "failed to check customer email")
	}
	if found && existing.ID != selfID {
		return apperr.Conflict("customer with email %s already exists", email)
	}
	return nil
}

func (s *customerService) Create(ctx context.Context, in CustomerInput) (*models.Customer, error) {
	details := map[string]string{}
	email, ok := normalizeEmail(trimmed(in.Email))
	switch {
	case email == "":
		details["email"] = "is required"
	case !ok:
		details["email"] = "is not a valid email address"
	}
	if trimmed(in.FirstName) == "" {
		details["first_name"] = "is required"
	}
	if len(details) > 0 {
		return nil, apperr.Fields(details)
	}
	if err := s.emailFree(ctx, email, 0); err != nil {
		return nil, err
	}

	now := s.now()
	customer := &models.Customer{
		Email:     email,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyCustomerInput(customer, in)
	if err := s.store.Customers().Create(ctx, customer); err != nil {
		return nil, writeErr(err, "create customer")
	}
	return customer, nil
}

func (s *customerService) Update(ctx context.Context, id uint, in CustomerInput) (*models.Customer, error) {
	customer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Email != nil {
		email, ok := normalizeEmail(*in.Email)
		if !ok {
			return nil, apperr.Fields(map[string]string{"email": "is not a valid email address"})
		}
		if email != customer.Email {
			if err := s.emailFree(ctx, email, customer.ID); err != nil {
				return nil, err
			}
			customer.Email = email
		}
	}
	if in.FirstName != nil && trimmed(in.FirstName) == "" {
		return nil, apperr.Fields(map[string]string{"first_name": "cannot be empty"})
	}
	applyCustomerInput(customer, in)
	customer.UpdatedAt = s.now()

	if err := s.store.Customers().Update(ctx, customer); err != nil {
		return nil, writeErr(err, "update customer")
	}
	return customer, nil
}

func applyCustomerInput(customer *models.Customer, in CustomerInput) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&customer.FirstName, in.FirstName)
	set(&customer.LastName, in.LastName)
	set(&customer.Phone, in.Phone)
	set(&customer.AddressLine1, in.AddressLine1)
	set(&customer.AddressLine2, in.AddressLine2)
	set(&customer.City, in.City)
	set(&customer.District, in.District)
	set(&customer.PostalCode, in.PostalCode)
	if in.IsActive != nil {
		customer.IsActive = *in.IsActive
	}
}

func (s *customerService) Delete(ctx context.Context, id uint) error {
	customer, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	orders, err := s.store.Orders().CountByCustomer(ctx, id)
	if err != nil {
		return apperr.Storage(err, "failed to count customer orders")
	}
	if orders > 0 {
		customer.IsActive = false
		customer.UpdatedAt = s.now()
		if err := s.store.Customers().Update(ctx, customer); err != nil {
			return writeErr(err, "deactivate customer")
		}
		log.Printf("Customer %d has %d orders, deactivated instead of deleted", id, orders)
		return nil
	}

	if err := s.store.Customers().Delete(ctx, id); err != nil {
		return apperr.Storage(err, "failed to delete customer")
	}
	return nil
}
