package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Rakhulsr/mellomelt/app/messaging"
	"github.com/Rakhulsr/mellomelt/app/models"
	"github.com/Rakhulsr/mellomelt/app/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedMail struct {
	to, subject, body string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []capturedMail
	err  error
}

func (m *fakeMailer) SendHTMLEmail(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, capturedMail{to, subject, body})
	return m.err
}

func TestOrderServicePersistsFullOrder(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db, repositories.NewOrderRepository(db), repositories.NewOrderItemRepository(), repositories.NewOrderCustomerRepository())
	catalog := testCatalog(t)
	cart := NewCartStore(repositories.NewMemoryCartStorage(), nil)
	checkout := NewCheckout(cart, CheckoutConfig{Placer: svc, Now: func() time.Time { return fixedNow }})
	ctx := context.Background()

	cart.AddToCart(ctx, product(t, catalog, "3"), 1)
	cart.AddToCart(ctx, product(t, catalog, "8"), 2)
	readyForPayment(t, checkout)
	userID := "user-9"
	order, err := checkout.PlaceOrder(ctx, Customer{UserID: &userID})
	require.NoError(t, err)

	stored, err := svc.FindByNumber(ctx, order.OrderNumber)
	require.NoError(t, err)
	assert.Len(t, stored.OrderItems, 2)
	require.NotNil(t, stored.Customer)
	assert.Equal(t, "Asha Rao", stored.Customer.FullName)
	assert.True(t, stored.Subtotal.Equal(decimal.NewFromInt(1097)), stored.Subtotal.String())
	assert.True(t, stored.TaxPercent.Equal(decimal.NewFromInt(5)), stored.TaxPercent.String())

	history, err := svc.OrdersForUser(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestNotifierPublishesAndMails(t *testing.T) {
	rec := &messaging.Recorder{}
	mailer := &fakeMailer{}
	n := NewNotifier(rec, mailer, "Mello Melt", "support@mellomelt.in", nil)

	order := &models.Order{
		OrderNumber:   "MMTEST",
		PaymentMethod: "upi",
		OrderItems:    []models.OrderItem{{ProductID: "1", ProductName: "Strawberry Bliss Candy", Qty: 2}},
		Customer:      &models.OrderCustomer{FullName: "Asha <b>Rao</b>", Email: "asha@example.com"},
	}
	n.OrderPlaced(context.Background(), order)
	n.ContactReceived(context.Background(), &models.ContactMessage{ID: "c1", Name: "Ravi", Email: "ravi@example.com", Subject: "Hello there", Message: "Hi"})
	n.Wait()

	msgs := rec.Messages()
	require.Len(t, msgs, 2)
	topics := map[string]string{}
	for _, m := range msgs {
		topics[m.Topic] = m.Key
	}
	assert.Equal(t, "MMTEST", topics[messaging.TopicOrderPlaced])
	assert.Equal(t, "c1", topics[messaging.TopicContactMessages])

	for _, m := range msgs {
		if m.Topic != messaging.TopicOrderPlaced {
			continue
		}
		var event OrderPlacedEvent
		require.NoError(t, json.Unmarshal(m.Payload, &event))
		require.Len(t, event.Items, 1)
		assert.Equal(t, 2, event.Items[0].Qty)
	}

	require.Len(t, mailer.sent, 2)
	recipients := []string{mailer.sent[0].to, mailer.sent[1].to}
	assert.ElementsMatch(t, []string{"asha@example.com", "support@mellomelt.in"}, recipients)
	for _, m := range mailer.sent {
		assert.NotContains(t, m.body, "<b>Rao</b>")
	}
}

func TestNotifierSurvivesBrokerFailure(t *testing.T) {
	rec := &messaging.Recorder{Err: errors.New("broker down")}
	mailer := &fakeMailer{}
	n := NewNotifier(rec, mailer, "Mello Melt", "support@mellomelt.in", nil)

	n.OrderPlaced(context.Background(), &models.Order{OrderNumber: "MMX", Customer: &models.OrderCustomer{Email: "a@b.co"}})
	n.Wait()

	assert.Empty(t, rec.Messages())
	assert.Len(t, mailer.sent, 1)
}

func TestAuthRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(repositories.NewUserRepository(db), nil, nil)
	ctx := context.Background()

	form := models.RegisterForm{FirstName: "Asha", LastName: "Rao", Email: "asha@example.com", Password: "sweet-tooth"}
	user, err := svc.Register(ctx, form)
	require.NoError(t, err)
	assert.NotEqual(t, "sweet-tooth", user.Password)

	_, err = svc.Register(ctx, form)
	assert.ErrorIs(t, err, ErrEmailTaken)

	got, err := svc.Login(ctx, models.LoginForm{Email: "ASHA@example.com", Password: "sweet-tooth"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Login(ctx, models.LoginForm{Email: "asha@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, models.LoginForm{Email: "nobody@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Register(ctx, models.RegisterForm{Email: "bad", Password: "123"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "password")
	assert.Contains(t, verr.Fields, "firstName")
}

type contactSink struct {
	got []*models.ContactMessage
}

func (c *contactSink) ContactReceived(ctx context.Context, msg *models.ContactMessage) {
	c.got = append(c.got, msg)
}

func TestContactSubmit(t *testing.T) {
	db := newTestDB(t)
	sink := &contactSink{}
	svc := NewContactService(repositories.NewContactRepository(db), sink, nil, nil)
	ctx := context.Background()

	msg, err := svc.Submit(ctx, models.ContactForm{
		Name:    "Ravi",
		Email:   "ravi@example.com",
		Subject: "Bulk order",
		Message: "We need 200 jars for a wedding.",
	})
	require.NoError(t, err)
	assert.Nil(t, msg.Phone)
	assert.Len(t, sink.got, 1)

	_, err = svc.Submit(ctx, models.ContactForm{Name: "R", Email: "ravi@example.com", Subject: "Hi", Message: "short"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 3)
}

func TestBookingRejectsPastDate(t *testing.T) {
	db := newTestDB(t)
	svc := NewContactService(repositories.NewContactRepository(db), nil, nil, nil)
	svc.now = func() time.Time { return time.Date(2025, 3, 10, 15, 0, 0, 0, time.Local) }
	ctx := context.Background()

	form := models.BookingForm{
		Name:      "Meera",
		Email:     "meera@example.com",
		Phone:     "9876543210",
		Date:      "2025-03-09",
		Time:      "18:00",
		Guests:    "50",
		EventType: "Birthday",
	}
	_, err := svc.Book(ctx, form)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Date cannot be in the past.", verr.Fields["date"])

	form.Date = "2025-03-10"
	msg, err := svc.Book(ctx, form)
	require.NoError(t, err)
	assert.Equal(t, "Booking: Birthday", msg.Subject)
	assert.Contains(t, msg.Message, "Guests: 50")
}

func TestAccountWishlistAndAddresses(t *testing.T) {
	db := newTestDB(t)
	catalog := testCatalog(t)
	svc := NewAccountService(repositories.NewGormAddressRepository(db), repositories.NewWishlistRepository(db), catalog, nil)
	ctx := context.Background()

	_, err := svc.AddToWishlist(ctx, "u1", "404")
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)

	item, err := svc.AddToWishlist(ctx, "u1", "3")
	require.NoError(t, err)
	assert.Equal(t, "Belgian Chocolate Truffle", item.Product.Name)

	list, err := svc.Wishlist(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.NotNil(t, list[0].Product)

	bad := validAddress()
	bad.Pincode = "12"
	_, err = svc.AddAddress(ctx, "u1", bad, false)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	addr, err := svc.AddAddress(ctx, "u1", validAddress(), false)
	require.NoError(t, err)
	assert.True(t, addr.IsPrimary)

	found, err := svc.Address(ctx, "u1", addr.ID)
	require.NoError(t, err)
	assert.Equal(t, validAddress(), found.Form())
}
