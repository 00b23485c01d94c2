package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/Rakhulsr/mellomelt/app/db/seeders"
	"github.com/Rakhulsr/mellomelt/app/models"
	"github.com/Rakhulsr/mellomelt/app/repositories"
	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"
)

type storefrontContext struct {
	catalog  repositories.ProductRepositoryImpl
	storage  *repositories.MemoryCartStorage
	cart     *CartStore
	checkout *Checkout
	placer   *fakePlacer
	now      time.Time
	orderErr error
}

func (s *storefrontContext) reset() error {
	catalog, err := repositories.NewProductRepository(seeders.Products(), seeders.Categories())
	if err != nil {
		return err
	}
	s.catalog = catalog
	s.storage = repositories.NewMemoryCartStorage()
	s.placer = &fakePlacer{}
	s.now = time.Now()
	s.orderErr = nil
	s.open()
	return nil
}

func (s *storefrontContext) open() {
	s.cart = NewCartStore(s.storage, nil, WithCatalog(s.catalog))
	s.checkout = NewCheckout(s.cart, CheckoutConfig{
		Placer: s.placer,
		Now:    func() time.Time { return s.now },
	})
}

func (s *storefrontContext) anEmptyCart() error {
	return s.cart.Load(context.Background())
}

func (s *storefrontContext) iAddOfProduct(qty int, id string) error {
	p, err := s.catalog.GetByID(context.Background(), id)
	if err != nil {
		return err
	}
	s.cart.AddToCart(context.Background(), *p, qty)
	return nil
}

func (s *storefrontContext) iSetTheQuantityOfProductTo(id string, qty int) error {
	s.cart.UpdateQuantity(context.Background(), id, qty)
	return nil
}

func (s *storefrontContext) iClearTheCart() error {
	s.cart.ClearCart(context.Background())
	return nil
}

func (s *storefrontContext) theSessionRestarts() error {
	s.open()
	return s.cart.Load(context.Background())
}

func (s *storefrontContext) cartStorageIsFailing() error {
	s.storage.SetFailure(errors.New("quota exceeded"))
	return nil
}

func (s *storefrontContext) theCartHasLinesAndItems(lines, items int) error {
	snap := s.cart.Snapshot()
	if snap.DistinctItems != lines || snap.TotalItems != items {
		return fmt.Errorf("cart has %d lines and %d items, want %d and %d", snap.DistinctItems, snap.TotalItems, lines, items)
	}
	return nil
}

func (s *storefrontContext) theLineForProductHasQuantity(id string, qty int) error {
	for _, l := range s.cart.Snapshot().Lines {
		if l.Product.ID == id {
			if l.Quantity != qty {
				return fmt.Errorf("product %s has quantity %d, want %d", id, l.Quantity, qty)
			}
			return nil
		}
	}
	return fmt.Errorf("no line for product %s", id)
}

func (s *storefrontContext) theCartTotalIs(total string) error {
	return sameAmount("cart total", s.cart.TotalPrice(), total)
}

func (s *storefrontContext) theCartIsEmpty() error {
	if n := s.cart.DistinctItems(); n != 0 {
		return fmt.Errorf("cart has %d lines", n)
	}
	return nil
}

func (s *storefrontContext) theCartReportsAStorageWarning() error {
	if s.cart.PersistWarning() == nil {
		return errors.New("expected a storage warning")
	}
	return nil
}

func (s *storefrontContext) theClockReadsMilliseconds(ms string) error {
	n, err := strconv.ParseInt(ms, 10, 64)
	if err != nil {
		return err
	}
	s.now = time.UnixMilli(n)
	return nil
}

func (s *storefrontContext) aCartWithOfProduct(qty int, id string) error {
	return s.iAddOfProduct(qty, id)
}

func (s *storefrontContext) aValidDeliveryAddress() error {
	_, err := s.checkout.UpdateAddress(validAddress())
	return err
}

func (s *storefrontContext) aDeliveryAddressWithPincode(pincode string) error {
	form := validAddress()
	form.Pincode = pincode
	_, err := s.checkout.UpdateAddress(form)
	return err
}

func (s *storefrontContext) theOrderBackendIsFailing() error {
	s.placer.err = errors.New("database unavailable")
	return nil
}

func (s *storefrontContext) iChoosePaymentMethod(method string) error {
	m, ok := models.ParsePaymentMethod(method)
	if !ok {
		return fmt.Errorf("unknown payment method %q", method)
	}
	_, err := s.checkout.SetPaymentMethod(m)
	return err
}

func (s *storefrontContext) iContinueToPayment() error {
	_, err := s.checkout.AdvanceToPayment()
	if err != nil && !errors.Is(err, ErrInvalidAddress) {
		return err
	}
	return nil
}

func (s *storefrontContext) iPlaceTheOrder() error {
	_, s.orderErr = s.checkout.PlaceOrder(context.Background(), Customer{Email: "asha@example.com"})
	return nil
}

func (s *storefrontContext) placingTheOrderFailed() error {
	if s.orderErr == nil {
		return errors.New("expected the order to fail")
	}
	return nil
}

func (s *storefrontContext) placingTheOrderFailedWith(msg string) error {
	if s.orderErr == nil || !strings.Contains(s.orderErr.Error(), msg) {
		return fmt.Errorf("got error %v, want one containing %q", s.orderErr, msg)
	}
	return nil
}

func (s *storefrontContext) theCheckoutStepIs(step string) error {
	if got := s.checkout.State().Draft.Step; string(got) != step {
		return fmt.Errorf("checkout step is %q, want %q", got, step)
	}
	return nil
}

func (s *storefrontContext) theAddressErrorForIs(field, msg string) error {
	if got := s.checkout.State().Errors[field]; got != msg {
		return fmt.Errorf("error for %s is %q, want %q", field, got, msg)
	}
	return nil
}

func (s *storefrontContext) theOrderNumberStartsWith(prefix string) error {
	got := s.checkout.State().OrderNumber
	if !strings.HasPrefix(got, prefix) || len(got) != len(prefix)+4 {
		return fmt.Errorf("order number is %q, want %q followed by four characters", got, prefix)
	}
	return nil
}

func (s *storefrontContext) theTotalsAre(subtotal, tax, delivery, surcharge, grand string) error {
	t := s.checkout.Totals()
	checks := []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{"subtotal", t.Subtotal, subtotal},
		{"tax", t.Tax, tax},
		{"delivery", t.DeliveryFee, delivery},
		{"surcharge", t.CODSurcharge, surcharge},
		{"grand total", t.GrandTotal, grand},
	}
	for _, c := range checks {
		if err := sameAmount(c.name, c.got, c.want); err != nil {
			return err
		}
	}
	return nil
}

func (s *storefrontContext) theDisplayedGrandTotalIs(total string) error {
	return sameAmount("displayed grand total", s.checkout.State().DisplayTotals.GrandTotal, total)
}

func sameAmount(name string, got decimal.Decimal, want string) error {
	w, err := decimal.NewFromString(want)
	if err != nil {
		return err
	}
	if !got.Equal(w) {
		return fmt.Errorf("%s is %s, want %s", name, got, w)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	sc := &storefrontContext{}

	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, sc.reset()
	})

	ctx.Step(`^an empty cart$`, sc.anEmptyCart)
	ctx.Step(`^I add (-?\d+) of product "([^"]*)"$`, sc.iAddOfProduct)
	ctx.Step(`^I set the quantity of product "([^"]*)" to (-?\d+)$`, sc.iSetTheQuantityOfProductTo)
	ctx.Step(`^I clear the cart$`, sc.iClearTheCart)
	ctx.Step(`^the session restarts$`, sc.theSessionRestarts)
	ctx.Step(`^cart storage is failing$`, sc.cartStorageIsFailing)
	ctx.Step(`^the cart has (\d+) lines? and (\d+) items?$`, sc.theCartHasLinesAndItems)
	ctx.Step(`^the line for product "([^"]*)" has quantity (\d+)$`, sc.theLineForProductHasQuantity)
	ctx.Step(`^the cart total is (\d+(?:\.\d+)?)$`, sc.theCartTotalIs)
	ctx.Step(`^the cart is empty$`, sc.theCartIsEmpty)
	ctx.Step(`^the cart reports a storage warning$`, sc.theCartReportsAStorageWarning)

	ctx.Step(`^the clock reads (\d+) milliseconds$`, sc.theClockReadsMilliseconds)
	ctx.Step(`^a cart with (\d+) of product "([^"]*)"$`, sc.aCartWithOfProduct)
	ctx.Step(`^a valid delivery address$`, sc.aValidDeliveryAddress)
	ctx.Step(`^a delivery address with pincode "([^"]*)"$`, sc.aDeliveryAddressWithPincode)
	ctx.Step(`^the order backend is failing$`, sc.theOrderBackendIsFailing)
	ctx.Step(`^I choose payment method "([^"]*)"$`, sc.iChoosePaymentMethod)
	ctx.Step(`^I continue to payment$`, sc.iContinueToPayment)
	ctx.Step(`^I place the order$`, sc.iPlaceTheOrder)
	ctx.Step(`^placing the order failed$`, sc.placingTheOrderFailed)
	ctx.Step(`^placing the order failed with "([^"]*)"$`, sc.placingTheOrderFailedWith)
	ctx.Step(`^the checkout step is "([^"]*)"$`, sc.theCheckoutStepIs)
	ctx.Step(`^the address error for "([^"]*)" is "([^"]*)"$`, sc.theAddressErrorForIs)
	ctx.Step(`^the order number starts with "([^"]*)"$`, sc.theOrderNumberStartsWith)
	ctx.Step(`^the totals are subtotal (\S+), tax (\S+), delivery (\S+), surcharge (\S+) and grand total (\S+)$`, sc.theTotalsAre)
	ctx.Step(`^the displayed grand total is (\S+)$`, sc.theDisplayedGrandTotalIs)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../../features"},
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
