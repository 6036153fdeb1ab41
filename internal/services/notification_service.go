package services

import (
	"context"
	"fmt"
	"storefront/internal/models"
	"storefront/pkg/whatsapp"
	"strings"
)

// OrderNotifier tells customers about their orders.
type OrderNotifier interface {
	OrderPlaced(ctx context.Context, order *models.Order) error
	OrderCancelled(ctx context.Context, order *models.Order) error
}

type whatsappNotifier struct {
	client *whatsapp.Client
}

func NewWhatsAppNotifier(client *whatsapp.Client) OrderNotifier {
	return &whatsappNotifier{client: client}
}

func (n *whatsappNotifier) OrderPlaced(ctx context.Context, order *models.Order) error {
	return n.client.SendTextMessage(ctx, order.CustomerPhone, FormatOrderPlacedMessage(order))
}

func (n *whatsappNotifier) OrderCancelled(ctx context.Context, order *models.Order) error {
	message := fmt.Sprintf("Hi %s, your order %s has been cancelled. Reply to this message if this was unexpected.",
		order.CustomerName, order.OrderNumber)
	return n.client.SendTextMessage(ctx, order.CustomerPhone, message)
}

// FormatOrderPlacedMessage renders the order confirmation sent to customers.
func FormatOrderPlacedMessage(order *models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s, thank you for your order!\n\n", order.CustomerName)
	fmt.Fprintf(&b, "Order: %s\n", order.OrderNumber)
	for _, item := range order.Items {
		fmt.Fprintf(&b, "- %s x%d: %s\n", item.ProductName, item.Quantity, item.TotalPrice.StringFixed(2))
	}
	fmt.Fprintf(&b, "Delivery (%s): %s\n", order.ShippingDistrict, order.ShippingCost.StringFixed(2))
	fmt.Fprintf(&b, "Total: %s\n", order.TotalAmount.StringFixed(2))
	return b.String()
}

type noopNotifier struct{}

// NewNoopNotifier is used when no messaging gateway is configured.
func NewNoopNotifier() OrderNotifier {
	return noopNotifier{}
}

func (noopNotifier) OrderPlaced(context.Context, *models.Order) error    { return nil }
func (noopNotifier) OrderCancelled(context.Context, *models.Order) error { return nil }
