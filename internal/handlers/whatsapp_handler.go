package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"storefront/internal/apperr"
	"storefront/internal/models"
	"storefront/internal/services"
	"strings"

	"github.com/gin-gonic/gin"
)

// Messenger sends a text message to a phone number.
type Messenger interface {
	SendTextMessage(ctx context.Context, phone, message string) error
}

// WhatsAppHandler answers customer order-status questions sent to the shop's
// WhatsApp number.
type WhatsAppHandler struct {
	orders    services.OrderService
	messenger Messenger
}

func NewWhatsAppHandler(orders services.OrderService, messenger Messenger) *WhatsAppHandler {
	return &WhatsAppHandler{orders: orders, messenger: messenger}
}

type WebhookRequest struct {
	SenderID  string `json:"sender_id"`
	ChatID    string `json:"chat_id"`
	From      string `json:"from"`
	Timestamp string `json:"timestamp"`
	Pushname  string `json:"pushname"`
	Message   struct {
		Text          string `json:"text"`
		ID            string `json:"id"`
		RepliedID     string `json:"replied_id"`
		QuotedMessage string `json:"quoted_message"`
	} `json:"message"`
}

func (h *WhatsAppHandler) HandleWebhook(c *gin.Context) {
	var req WebhookRequest
	if !bindJSON(c, &req) {
		return
	}

	// Gateway sends numbers as 8801712345678@s.whatsapp.net
	phone := req.From
	if phone == "" {
		phone = req.SenderID
	}
	phone = strings.TrimSuffix(phone, "@s.whatsapp.net")
	if phone == "" {
		badRequest(c, "sender is required")
		return
	}

	reply := h.processMessage(c.Request.Context(), phone, req.Message.Text)
	if err := h.messenger.SendTextMessage(c.Request.Context(), phone, reply); err != nil {
		log.Printf("Failed to reply to %s: %v", phone, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to send reply"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "replied"})
}

func (h *WhatsAppHandler) processMessage(ctx context.Context, phone, text string) string {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 {
		return helpMessage()
	}

	switch strings.ToLower(fields[0]) {
	case "status", "track", "order":
		if len(fields) < 2 {
			return "Please send: status <order number>, for example: status ORD-240309140506-1A2B3C"
		}
		return h.orderStatus(ctx, phone, strings.ToUpper(fields[1]))
	default:
		return helpMessage()
	}
}

func (h *WhatsAppHandler) orderStatus(ctx context.Context, phone, number string) string {
	order, err := h.orders.TrackOrder(ctx, number, phone)
	if apperr.Is(err, apperr.KindNotFound) {
		return fmt.Sprintf("We could not find order %s for this number.", number)
	}
	if err != nil {
		log.Printf("Failed to look up order %s: %v", number, err)
		return "Sorry, we could not check your order right now. Please try again later."
	}
	return formatOrderStatus(order)
}

func formatOrderStatus(order *models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order %s\n", order.OrderNumber)
	fmt.Fprintf(&b, "Status: %s\n", order.Status)
	fmt.Fprintf(&b, "Payment: %s\n", order.PaymentStatus)
	fmt.Fprintf(&b, "Total: %s\n", order.TotalAmount.StringFixed(2))
	fmt.Fprintf(&b, "Placed: %s", order.CreatedAt.Format("02 Jan 2006"))
	return b.String()
}

func helpMessage() string {
	return "Hi! To check an order, send: status <order number>"
}
