package services

import (
	"context"
	"sync"
	"time"

	"github.com/Rakhulsr/mellomelt/app/messaging"
	"github.com/Rakhulsr/mellomelt/app/models"
	"go.uber.org/zap"
)

const notifyTimeout = 10 * time.Second

type OrderPlacedEvent struct {
	OrderNumber   string           `json:"orderNumber"`
	UserID        *string          `json:"userId,omitempty"`
	PaymentMethod string           `json:"paymentMethod"`
	Subtotal      string           `json:"subtotal"`
	Total         string           `json:"total"`
	Items         []OrderEventItem `json:"items"`
	PlacedAt      time.Time        `json:"placedAt"`
}

type OrderEventItem struct {
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
	LineTotal string `json:"lineTotal"`
}

type ContactEvent struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Subject string    `json:"subject"`
	SentAt  time.Time `json:"sentAt"`
}

// Notifier fans placed orders and contact messages out to the event broker
// and to email. Delivery runs in the background and never fails the caller.
type Notifier struct {
	publisher    messaging.Publisher
	mailer       EmailSender
	storeName    string
	supportEmail string
	logger       *zap.Logger
	wg           sync.WaitGroup
}

// NewNotifier builds a notifier. mailer may be nil to disable email.
func NewNotifier(publisher messaging.Publisher, mailer EmailSender, storeName, supportEmail string, logger *zap.Logger) *Notifier {
	if publisher == nil {
		publisher = messaging.NewNoopPublisher()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{
		publisher:    publisher,
		mailer:       mailer,
		storeName:    storeName,
		supportEmail: supportEmail,
		logger:       logger,
	}
}

func (n *Notifier) OrderPlaced(ctx context.Context, order *models.Order) {
	event := OrderPlacedEvent{
		OrderNumber:   order.OrderNumber,
		UserID:        order.UserID,
		PaymentMethod: order.PaymentMethod,
		Subtotal:      order.Subtotal.StringFixed(2),
		Total:         order.Total.StringFixed(2),
		PlacedAt:      order.OrderDate,
	}
	for _, item := range order.OrderItems {
		event.Items = append(event.Items, OrderEventItem{
			ProductID: item.ProductID,
			Qty:       item.Qty,
			LineTotal: item.LineTotal.StringFixed(2),
		})
	}

	to := ""
	if order.Customer != nil {
		to = order.Customer.Email
	}
	subject := "Your " + n.storeName + " order " + order.OrderNumber
	body := BuildOrderConfirmationBody(n.storeName, order)

	n.dispatch(ctx, messaging.TopicOrderPlaced, order.OrderNumber, event, to, subject, body)
}

func (n *Notifier) ContactReceived(ctx context.Context, msg *models.ContactMessage) {
	event := ContactEvent{
		ID:      msg.ID,
		Name:    msg.Name,
		Email:   msg.Email,
		Subject: msg.Subject,
		SentAt:  msg.CreatedAt,
	}
	subject := "[" + n.storeName + "] " + msg.Subject
	n.dispatch(ctx, messaging.TopicContactMessages, msg.ID, event, n.supportEmail, subject, BuildContactNotificationBody(msg))
}

func (n *Notifier) dispatch(ctx context.Context, topic, key string, event any, to, subject, body string) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()

		if err := n.publisher.PublishEvent(ctx, topic, key, event); err != nil {
			n.logger.Warn("Notifier.dispatch: publish failed",
				zap.String("topic", topic), zap.String("key", key), zap.Error(err))
		}

		if n.mailer == nil || to == "" {
			return
		}
		if err := n.mailer.SendHTMLEmail(to, subject, body); err != nil {
			n.logger.Warn("Notifier.dispatch: email failed",
				zap.String("topic", topic), zap.String("key", key), zap.Error(err))
		}
	}()
}

// Wait blocks until every background delivery has finished.
func (n *Notifier) Wait() {
	n.wg.Wait()
}
