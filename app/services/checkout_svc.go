package services

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Rakhulsr/mellomelt/app/helpers"
	"github.com/Rakhulsr/mellomelt/app/models"
	"github.com/Rakhulsr/mellomelt/app/utils/calc"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	orderSuffixLen   = 4
	orderSuffixSpace = 36 * 36 * 36 * 36
)

var (
	ErrSubmissionInProgress = errors.New("an order submission is already in progress")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInvalidAddress       = errors.New("delivery address is invalid")
	ErrWrongStep            = errors.New("checkout is not on the payment step")
	ErrCheckoutComplete     = errors.New("order already placed; start a new checkout")
	ErrSubmissionTimeout    = errors.New("order submission timed out")
	ErrInvalidPayment       = errors.New("unknown payment method")
)

const DefaultSubmitTimeout = 10 * time.Second

// OrderPlacer persists a fully built order. Only success or failure matters
// to the checkout.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, order *models.Order) error
}

// OrderNotifier is told about every placed order after the wizard has
// moved to confirmed. Failures are the notifier's concern.
type OrderNotifier interface {
	OrderPlaced(ctx context.Context, order *models.Order)
}

type CheckoutConfig struct {
	Placer        OrderPlacer
	Notifier      OrderNotifier
	Validator     *validator.Validate
	Pricing       calc.Pricing
	SubmitTimeout time.Duration
	Now           func() time.Time
	Logger        *zap.Logger
}

// Customer identifies who is placing the order. Both fields are optional.
type Customer struct {
	UserID *string
	Email  string
}

// CheckoutState is what the API renders for the wizard.
type CheckoutState struct {
	Draft         models.CheckoutDraft `json:"draft"`
	Errors        map[string]string    `json:"errors"`
	Submitting    bool                 `json:"submitting"`
	Totals        calc.Totals          `json:"totals"`
	DisplayTotals calc.Totals          `json:"displayTotals"`
	OrderNumber   string               `json:"orderNumber,omitempty"`
	Cart          models.CartSnapshot  `json:"cart"`
}

// Checkout is the per-session checkout wizard:
// address -> payment -> confirmed, with payment -> address on Back.
type Checkout struct {
	mu          sync.Mutex
	cart        *CartStore
	draft       models.CheckoutDraft
	errors      map[string]string
	submitting  bool
	orderNumber string
	lastOrder   *models.Order

	placer   OrderPlacer
	notifier OrderNotifier
	validate *validator.Validate
	pricing  calc.Pricing
	timeout  time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

func NewCheckout(cart *CartStore, cfg CheckoutConfig) *Checkout {
	c := &Checkout{
		cart:     cart,
		draft:    models.NewCheckoutDraft(),
		errors:   map[string]string{},
		placer:   cfg.Placer,
		notifier: cfg.Notifier,
		validate: cfg.Validator,
		pricing:  cfg.Pricing,
		timeout:  cfg.SubmitTimeout,
		now:      cfg.Now,
		logger:   cfg.Logger,
	}
	if c.validate == nil {
		c.validate = helpers.NewValidator()
	}
	if c.pricing.IsZero() {
		c.pricing = calc.DefaultPricing()
	}
	if c.timeout <= 0 {
		c.timeout = DefaultSubmitTimeout
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// ValidateAddress checks the draft address and returns one message per bad
// field. It never changes the checkout.
func (c *Checkout) ValidateAddress(form models.AddressForm) map[string]string {
	return helpers.ValidateStruct(c.validate, form)
}

// UpdateAddress replaces the draft address. Editing from the payment step
// sends the wizard back to address so the new value is validated again.
func (c *Checkout) UpdateAddress(form models.AddressForm) (CheckoutState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.draft.Step == models.StepConfirmed {
		return c.stateLocked(), ErrCheckoutComplete
	}
	if c.submitting {
		return c.stateLocked(), ErrSubmissionInProgress
	}
	c.draft.Address = form
	c.errors = map[string]string{}
	if c.draft.Step == models.StepPayment {
		c.draft.Step = models.StepAddress
	}
	return c.stateLocked(), nil
}

func (c *Checkout) SetPaymentMethod(method models.PaymentMethod) (CheckoutState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if method != models.PaymentUPI && method != models.PaymentCOD {
		return c.stateLocked(), ErrInvalidPayment
	}
	if c.draft.Step == models.StepConfirmed {
		return c.stateLocked(), ErrCheckoutComplete
	}
	if c.submitting {
		return c.stateLocked(), ErrSubmissionInProgress
	}
	c.draft.PaymentMethod = method
	return c.stateLocked(), nil
}

// AdvanceToPayment moves address -> payment when the address is valid.
// Otherwise the step is unchanged and the field errors are kept on the
// state and returned with ErrInvalidAddress.
func (c *Checkout) AdvanceToPayment() (CheckoutState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.draft.Step {
	case models.StepConfirmed:
		return c.stateLocked(), ErrCheckoutComplete
	case models.StepPayment:
		return c.stateLocked(), nil
	}

	errs := helpers.ValidateStruct(c.validate, c.draft.Address)
	c.errors = errs
	if len(errs) > 0 {
		return c.stateLocked(), ErrInvalidAddress
	}
	c.draft.Step = models.StepPayment
	return c.stateLocked(), nil
}

// Back returns payment -> address. It is a no-op on the address step.
func (c *Checkout) Back() (CheckoutState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.draft.Step == models.StepConfirmed {
		return c.stateLocked(), ErrCheckoutComplete
	}
	if c.submitting {
		return c.stateLocked(), ErrSubmissionInProgress
	}
	c.draft.Step = models.StepAddress
	return c.stateLocked(), nil
}

// Reset starts over with an empty draft. This is the only way out of
// confirmed.
func (c *Checkout) Reset() (CheckoutState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.submitting {
		return c.stateLocked(), ErrSubmissionInProgress
	}
	c.draft = models.NewCheckoutDraft()
	c.errors = map[string]string{}
	c.orderNumber = ""
	c.lastOrder = nil
	return c.stateLocked(), nil
}

// Totals prices the live cart with the draft's payment method.
func (c *Checkout) Totals() calc.Totals {
	c.mu.Lock()
	method := c.draft.PaymentMethod
	c.mu.Unlock()
	return ComputeTotals(c.cart.TotalPrice(), method, c.pricing)
}

func (c *Checkout) State() CheckoutState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// Submitting reports whether an order submission is in flight.
func (c *Checkout) Submitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

// LastOrder is the order placed by the most recent successful submission.
func (c *Checkout) LastOrder() *models.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastOrder
}

func (c *Checkout) stateLocked() CheckoutState {
	snap := c.cart.Snapshot()
	totals := ComputeTotals(snap.TotalPrice, c.draft.PaymentMethod, c.pricing)
	errs := make(map[string]string, len(c.errors))
	for k, v := range c.errors {
		errs[k] = v
	}
	return CheckoutState{
		Draft:         c.draft,
		Errors:        errs,
		Submitting:    c.submitting,
		Totals:        totals,
		DisplayTotals: totals.Rounded(),
		OrderNumber:   c.orderNumber,
		Cart:          snap,
	}
}

// PlaceOrder submits the order built from the cart as it is right now.
// A second call while one is in flight fails with ErrSubmissionInProgress.
// On failure the wizard stays on payment and the cart is untouched. On
// success the submitted lines leave the cart and the wizard is confirmed.
// The submission outlives the caller's cancellation but not the configured
// timeout.
func (c *Checkout) PlaceOrder(ctx context.Context, customer Customer) (*models.Order, error) {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return nil, ErrSubmissionInProgress
	}
	switch c.draft.Step {
	case models.StepConfirmed:
		c.mu.Unlock()
		return nil, ErrCheckoutComplete
	case models.StepAddress:
		c.mu.Unlock()
		return nil, ErrWrongStep
	}
	if errs := helpers.ValidateStruct(c.validate, c.draft.Address); len(errs) > 0 {
		c.errors = errs
		c.draft.Step = models.StepAddress
		c.mu.Unlock()
		return nil, ErrInvalidAddress
	}

	snap := c.cart.Snapshot()
	if snap.IsEmpty() {
		c.mu.Unlock()
		return nil, ErrEmptyCart
	}
	draft := c.draft
	c.submitting = true
	c.mu.Unlock()

	now := c.now()
	totals := ComputeTotals(snap.TotalPrice, draft.PaymentMethod, c.pricing)
	order := buildOrder(snap, draft, totals, c.pricing, customer, now)

	submitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	err := c.placer.PlaceOrder(submitCtx, order)
	cancel()

	if err != nil {
		c.mu.Lock()
		c.submitting = false
		c.mu.Unlock()

		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w after %s", ErrSubmissionTimeout, c.timeout)
		}
		c.logger.Error("Checkout.PlaceOrder: order submission failed",
			zap.String("order_number", order.OrderNumber),
			zap.Error(err))
		return nil, fmt.Errorf("place order: %w", err)
	}

	c.cart.Settle(context.WithoutCancel(ctx), snap.Lines, snap.Version)

	c.mu.Lock()
	c.submitting = false
	c.draft.Step = models.StepConfirmed
	c.errors = map[string]string{}
	c.orderNumber = order.OrderNumber
	c.lastOrder = order
	c.mu.Unlock()

	c.logger.Info("Checkout.PlaceOrder: order placed",
		zap.String("order_number", order.OrderNumber),
		zap.String("total", order.Total.String()),
		zap.Int("lines", len(order.OrderItems)))

	if c.notifier != nil {
		c.notifier.OrderPlaced(context.WithoutCancel(ctx), order)
	}
	return order, nil
}

// ComputeTotals prices a subtotal for a payment method. Exact values are
// returned; call Rounded for display.
func ComputeTotals(subtotal decimal.Decimal, method models.PaymentMethod, p calc.Pricing) calc.Totals {
	return calc.ComputeTotals(subtotal, method == models.PaymentCOD, p)
}

// OrderNumber is "MM" followed by the submission time in base-36
// milliseconds and four random base-36 characters, upper-cased.
func OrderNumber(at time.Time) string {
	return orderNumber(at, uuid.New())
}

func orderNumber(at time.Time, salt uuid.UUID) string {
	n := binary.BigEndian.Uint32(salt[:4]) % orderSuffixSpace
	suffix := strconv.FormatUint(uint64(n), 36)
	suffix = strings.Repeat("0", orderSuffixLen-len(suffix)) + suffix
	return "MM" + strings.ToUpper(strconv.FormatInt(at.UnixMilli(), 36)+suffix)
}

func buildOrder(snap models.CartSnapshot, draft models.CheckoutDraft, totals calc.Totals, p calc.Pricing, customer Customer, now time.Time) *models.Order {
	items := make([]models.OrderItem, 0, len(snap.Lines))
	for _, l := range snap.Lines {
		items = append(items, models.OrderItem{
			ProductID:   l.Product.ID,
			ProductName: l.Product.Name,
			Qty:         l.Quantity,
			Price:       l.Product.Price,
			MRP:         l.Product.MRP,
			LineTotal:   l.LineTotal(),
		})
	}

	buyer := models.NewOrderCustomer(draft.Address)
	buyer.Email = customer.Email

	return &models.Order{
		UserID:        customer.UserID,
		OrderNumber:   OrderNumber(now),
		OrderDate:     now,
		OrderItems:    items,
		Customer:      buyer,
		Subtotal:      totals.Subtotal,
		TaxAmount:     totals.Tax,
		TaxPercent:    p.TaxPercent(),
		ShippingFee:   totals.DeliveryFee,
		CODFee:        totals.CODSurcharge,
		Total:         totals.GrandTotal,
		PaymentMethod: string(draft.PaymentMethod),
		PaymentStatus: models.PaymentStatusPending,
		Status:        models.OrderStatusPending,
	}
}
