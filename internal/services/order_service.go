package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"storefront/internal/apperr"
	"storefront/internal/events"
	"storefront/internal/models"
	"storefront/internal/repository"
	"storefront/pkg/whatsapp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	orderNumberAttempts = 5
	notifyTimeout       = 5 * time.Second
)

type ItemInput struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type AddressInput struct {
	Line1      string `json:"line_1"`
	Line2      string `json:"line_2"`
	City       string `json:"city"`
	District   string `json:"district"`
	PostalCode string `json:"postal_code"`
}

type PlaceOrderInput struct {
	CustomerName    string       `json:"customer_name"`
	CustomerPhone   string       `json:"customer_phone"`
	CustomerEmail   *string      `json:"customer_email"`
	ShippingAddress AddressInput `json:"shipping_address"`
	Items           []ItemInput  `json:"items"`
	PaymentMethod   *string      `json:"payment_method"`
	PaymentStatus   *string      `json:"payment_status"`
	Notes           *string      `json:"notes"`
}

// CheckoutInput places an order for the contents of a session cart. Items
// is ignored and taken from the cart.
type CheckoutInput struct {
	SessionID string `json:"session_id"`
	PlaceOrderInput
}

type UpdateOrderInput struct {
	Status        *string `json:"status"`
	PaymentStatus *string `json:"payment_status"`
	PaymentMethod *string `json:"payment_method"`
	Notes         *string `json:"notes"`
}

type OrderService interface {
	PlaceOrder(ctx context.Context, in PlaceOrderInput) (*models.Order, error)
	Checkout(ctx context.Context, in CheckoutInput) (*models.Order, error)
	GetOrder(ctx context.Context, id uint) (*models.Order, error)
	TrackOrder(ctx context.Context, orderNumber, phone string) (*models.Order, error)
	ListOrders(ctx context.Context, filter repository.OrderFilter) ([]models.Order, int64, error)
	UpdateOrder(ctx context.Context, id uint, in UpdateOrderInput) (*models.Order, error)
	// CancelOrder is the admin delete: pending orders become cancelled and
	// their stock is restored; cancelling a cancelled order is a no-op.
	CancelOrder(ctx context.Context, id uint) (*models.Order, error)
}

type orderService struct {
	store       repository.Store
	carts       CartService
	publisher   events.Publisher
	notifier    OrderNotifier
	now         func() time.Time
	orderNumber func(now time.Time) string
}

func NewOrderService(store repository.Store, carts CartService, publisher events.Publisher, notifier OrderNotifier) OrderService {
	return &orderService{
		store:       store,
		carts:       carts,
		publisher:   publisher,
		notifier:    notifier,
		now:         time.Now,
		orderNumber: GenerateOrderNumber,
	}
}

// GenerateOrderNumber returns "ORD-<yymmddHHMMSS>-<random>".
func GenerateOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("ORD-%s-%s", now.UTC().Format("060102150405"), suffix)
}

// pricedLine is an order line with the prices captured before any write.
type pricedLine struct {
	product  *models.Product
	quantity int
	unit     decimal.Decimal
	total    decimal.Decimal
}

func validatePlaceOrder(in *PlaceOrderInput) error {
	details := map[string]string{}
	if strings.TrimSpace(in.CustomerName) == "" {
		details["customer_name"] = "is required"
	}
	if strings.TrimSpace(in.CustomerPhone) == "" {
		details["customer_phone"] = "is required"
	}
	if strings.TrimSpace(in.ShippingAddress.Line1) == "" {
		details["shipping_address.line_1"] = "is required"
	}
	if strings.TrimSpace(in.ShippingAddress.City) == "" {
		details["shipping_address.city"] = "is required"
	}
	if strings.TrimSpace(in.ShippingAddress.District) == "" {
		details["shipping_address.district"] = "is required"
	}
	if len(in.Items) == 0 {
		details["items"] = "at least one item is required"
	}
	for i, item := range in.Items {
		if item.ProductID == 0 {
			details[fmt.Sprintf("items[%d].product_id", i)] = "is required"
		}
		if item.Quantity < 1 {
			details[fmt.Sprintf("items[%d].quantity", i)] = "must be at least 1"
		}
	}
	if in.PaymentStatus != nil && !models.PaymentStatus(*in.PaymentStatus).Valid() {
		details["payment_status"] = "is not a valid payment status"
	}
	if len(details) > 0 {
		return apperr.Fields(details)
	}
	return nil
}

// mergeItems folds repeated product ids into one line, keeping first-seen order.
// Quantities saturate at math.MaxInt so an oversized sum still fails the
// stock check.
func mergeItems(items []ItemInput) []ItemInput {
	index := make(map[uint]int, len(items))
	merged := make([]ItemInput, 0, len(items))
	for _, item := range items {
		if i, ok := index[item.ProductID]; ok {
			if merged[i].Quantity > math.MaxInt-item.Quantity {
				merged[i].Quantity = math.MaxInt
			} else {
				merged[i].Quantity += item.Quantity
			}
			continue
		}
		index[item.ProductID] = len(merged)
		merged = append(merged, item)
	}
	return merged
}

func (s *orderService) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*models.Order, error) {
	if err := validatePlaceOrder(&in); err != nil {
		return nil, err
	}

	districtName := strings.TrimSpace(in.ShippingAddress.District)
	district, err := s.store.Districts().GetByName(ctx, districtName)
	if err != nil {
		return nil, loadErr(err, "district", districtName)
	}
	if !district.IsActive {
		return nil, apperr.NotFound("district %s not found", districtName)
	}

	lines := make([]pricedLine, 0, len(in.Items))
	subtotal := decimal.Zero
	for _, item := range mergeItems(in.Items) {
		product, err := s.store.Products().GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, loadErr(err, "product", item.ProductID)
		}
		if !product.IsActive {
			return nil, apperr.NotFound("product %d not found", item.ProductID)
		}
		if item.Quantity > product.StockQuantity {
			return nil, apperr.InsufficientStock("only %d of %s in stock", product.StockQuantity, product.Name)
		}
		unit := product.EffectivePrice()
		total := unit.Mul(decimal.NewFromInt(int64(item.Quantity)))
		lines = append(lines, pricedLine{product: product, quantity: item.Quantity, unit: unit, total: total})
		subtotal = subtotal.Add(total)
	}

	customerID, err := s.linkCustomer(ctx, in.CustomerEmail)
	if err != nil {
		return nil, err
	}

	paymentStatus := string(models.PaymentPending)
	if in.PaymentStatus != nil {
		paymentStatus = *in.PaymentStatus
	}

	now := s.now()
	order := &models.Order{
		CustomerID:           customerID,
		CustomerEmail:        optional(in.CustomerEmail),
		CustomerName:         strings.TrimSpace(in.CustomerName),
		CustomerPhone:        strings.TrimSpace(in.CustomerPhone),
		ShippingAddressLine1: strings.TrimSpace(in.ShippingAddress.Line1),
		ShippingAddressLine2: strings.TrimSpace(in.ShippingAddress.Line2),
		ShippingCity:         strings.TrimSpace(in.ShippingAddress.City),
		ShippingDistrict:     district.Name,
		ShippingPostalCode:   strings.TrimSpace(in.ShippingAddress.PostalCode),
		ShippingCost:         district.DeliveryCharge,
		TotalAmount:          subtotal.Add(district.DeliveryCharge),
		Status:               string(models.OrderPending),
		PaymentStatus:        paymentStatus,
		PaymentMethod:        optional(in.PaymentMethod),
		Notes:                optional(in.Notes),
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		number, err := s.uniqueOrderNumber(ctx, tx, now)
		if err != nil {
			return err
		}
		order.OrderNumber = number

		if err := tx.Orders().Create(ctx, order); err != nil {
			return writeErr(err, "create order")
		}

		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			productID := line.product.ID
			items = append(items, models.OrderItem{
				OrderID:     order.ID,
				ProductID:   &productID,
				ProductName: line.product.Name,
				ProductSKU:  line.product.SKU,
				Quantity:    line.quantity,
				UnitPrice:   line.unit,
				TotalPrice:  line.total,
				CreatedAt:   now,
			})
		}
		if err := tx.OrderItems().CreateBatch(ctx, items); err != nil {
			return apperr.Storage(err, "failed to create order items")
		}

		for _, line := range lines {
			ok, err := tx.Products().DecrementStock(ctx, line.product.ID, line.quantity)
			if err != nil {
				return apperr.Storage(err, "failed to update stock for product %d", line.product.ID)
			}
			if !ok {
				return apperr.InsufficientStock("%s sold out while placing the order", line.product.Name)
			}
		}

		order.Items = items
		return nil
	})
	if err != nil {
		return nil, writeErr(err, "place order")
	}

	log.Printf("Order %s placed: %d items, total %s", order.OrderNumber, len(order.Items), order.TotalAmount.StringFixed(2))
	s.afterCommit(ctx, events.OrderPlaced, order)
	return order, nil
}

// uniqueOrderNumber draws order numbers until one is unused.
func (s *orderService) uniqueOrderNumber(ctx context.Context, tx repository.Store, now time.Time) (string, error) {
	for i := 0; i < orderNumberAttempts; i++ {
		number := s.orderNumber(now)
		_, err := tx.Orders().GetByOrderNumber(ctx, number)
		taken, err := exists(err)
		if err != nil {
			return "", apperr.Storage(err, "failed to check order number")
		}
		if !taken {
			return number, nil
		}
	}
	return "", apperr.Conflict("could not allocate a unique order number")
}

func (s *orderService) linkCustomer(ctx context.Context, email *string) (*uint, error) {
	email = optional(email)
	if email == nil {
		return nil, nil
	}
	customer, err := s.store.Customers().GetByEmail(ctx, strings.ToLower(*email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Storage(err, "failed to look up customer")
	}
	return &customer.ID, nil
}

func (s *orderService) Checkout(ctx context.Context, in CheckoutInput) (*models.Order, error) {
	lines, err := s.carts.List(ctx, in.SessionID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, apperr.Validation("cart is empty")
	}

	place := in.PlaceOrderInput
	place.Items = make([]ItemInput, 0, len(lines))
	for _, line := range lines {
		place.Items = append(place.Items, ItemInput{ProductID: line.ProductID, Quantity: line.Quantity})
	}

	order, err := s.PlaceOrder(ctx, place)
	if err != nil {
		return nil, err
	}
	if err := s.carts.Clear(ctx, in.SessionID); err != nil {
		log.Printf("Warning: order %s placed but cart %s not cleared: %v", order.OrderNumber, in.SessionID, err)
	}
	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.store.Orders().GetByID(ctx, id)
	if err != nil {
		return nil, loadErr(err, "order", id)
	}
	return order, nil
}

func (s *orderService) TrackOrder(ctx context.Context, orderNumber, phone string) (*models.Order, error) {
	order, err := s.store.Orders().GetByOrderNumber(ctx, strings.TrimSpace(orderNumber))
	if err != nil {
		return nil, loadErr(err, "order", orderNumber)
	}
	// Unknown number and wrong phone look the same to the caller.
	if whatsapp.NormalizePhone(phone) == "" || whatsapp.NormalizePhone(phone) != whatsapp.NormalizePhone(order.CustomerPhone) {
		return nil, apperr.NotFound("order %s not found", orderNumber)
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, filter repository.OrderFilter) ([]models.Order, int64, error) {
	if filter.Status != "" && !models.OrderStatus(filter.Status).Valid() {
		return nil, 0, apperr.Validation("unknown order status %q", filter.Status)
	}
	if filter.PaymentStatus != "" && !models.PaymentStatus(filter.PaymentStatus).Valid() {
		return nil, 0, apperr.Validation("unknown payment status %q", filter.PaymentStatus)
	}
	orders, total, err := s.store.Orders().List(ctx, filter)
	if err != nil {
		return nil, 0, apperr.Storage(err, "failed to list orders")
	}
	return orders, total, nil
}

func (s *orderService) UpdateOrder(ctx context.Context, id uint, in UpdateOrderInput) (*models.Order, error) {
	if in.Status != nil && !models.OrderStatus(*in.Status).Valid() {
		return nil, apperr.Fields(map[string]string{"status": "is not a valid order status"})
	}
	if in.PaymentStatus != nil && !models.PaymentStatus(*in.PaymentStatus).Valid() {
		return nil, apperr.Fields(map[string]string{"payment_status": "is not a valid payment status"})
	}

	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	var transition *models.OrderStatus
	if in.Status != nil && *in.Status != order.Status {
		switch {
		case *in.Status == string(models.OrderCancelled):
			if order, err = s.CancelOrder(ctx, id); err != nil {
				return nil, err
			}
		case order.Status == string(models.OrderCancelled):
			return nil, apperr.InvalidState("order %s is cancelled and cannot be reopened", order.OrderNumber)
		default:
			to := models.OrderStatus(*in.Status)
			transition = &to
		}
	}
	if in.PaymentStatus != nil {
		order.PaymentStatus = *in.PaymentStatus
	}
	if in.PaymentMethod != nil {
		order.PaymentMethod = optional(in.PaymentMethod)
	}
	if in.Notes != nil {
		order.Notes = optional(in.Notes)
	}
	order.UpdatedAt = s.now()

	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		if transition != nil {
			changed, err := tx.Orders().TransitionStatus(ctx, id, models.OrderStatus(order.Status), *transition)
			if err != nil {
				return apperr.Storage(err, "failed to update order status")
			}
			if !changed {
				current, err := tx.Orders().GetByID(ctx, id)
				if err != nil {
					return loadErr(err, "order", id)
				}
				return apperr.InvalidState("order %s changed to %s while it was being updated", current.OrderNumber, current.Status)
			}
		}
		if err := tx.Orders().Update(ctx, order); err != nil {
			return writeErr(err, "update order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order, err = s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	s.afterCommit(ctx, events.OrderUpdated, order)
	return order, nil
}

func (s *orderService) CancelOrder(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	switch models.OrderStatus(order.Status) {
	case models.OrderCancelled:
		return order, nil
	case models.OrderPending:
	default:
		return nil, apperr.InvalidState("order %s is %s and can no longer be cancelled", order.OrderNumber, order.Status)
	}

	cancelled := false
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		changed, err := tx.Orders().TransitionStatus(ctx, id, models.OrderPending, models.OrderCancelled)
		if err != nil {
			return apperr.Storage(err, "failed to cancel order")
		}
		if !changed {
			// Someone else moved the order first.
			current, err := tx.Orders().GetByID(ctx, id)
			if err != nil {
				return loadErr(err, "order", id)
			}
			if current.Status == string(models.OrderCancelled) {
				return nil
			}
			return apperr.InvalidState("order %s is %s and can no longer be cancelled", current.OrderNumber, current.Status)
		}

		items, err := tx.OrderItems().GetByOrderID(ctx, id)
		if err != nil {
			return apperr.Storage(err, "failed to load order items")
		}
		for _, item := range items {
			if item.ProductID == nil {
				continue
			}
			if err := tx.Products().IncrementStock(ctx, *item.ProductID, item.Quantity); err != nil {
				return apperr.Storage(err, "failed to restore stock for product %d", *item.ProductID)
			}
		}
		cancelled = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	order, err = s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if cancelled {
		log.Printf("Order %s cancelled, stock restored for %d items", order.OrderNumber, len(order.Items))
		s.afterCommit(ctx, events.OrderCancelled, order)
	}
	return order, nil
}

// afterCommit publishes the event and notifies the customer. Failures are
// logged; the order itself is already committed.
func (s *orderService) afterCommit(ctx context.Context, eventType events.EventType, order *models.Order) {
	if err := s.publisher.Publish(events.NewOrderEvent(eventType, order)); err != nil {
		log.Printf("Warning: failed to publish %s for %s: %v", eventType, order.OrderNumber, err)
	}

	notifyCtx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	var err error
	switch eventType {
	case events.OrderPlaced:
		err = s.notifier.OrderPlaced(notifyCtx, order)
	case events.OrderCancelled:
		err = s.notifier.OrderCancelled(notifyCtx, order)
	}
	if err != nil {
		log.Printf("Warning: failed to notify customer about %s: %v", order.OrderNumber, err)
	}
}
