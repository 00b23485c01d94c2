package handlers

import (
	"errors"
	"net/http"

	"github.com/Rakhulsr/mellomelt/app/models"
	"github.com/Rakhulsr/mellomelt/app/services"
	"github.com/Rakhulsr/mellomelt/app/utils/calc"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type CheckoutHandler struct {
	render   *render.Render
	registry *services.SessionRegistry
	account  *services.AccountService
	auth     *services.AuthService
	logger   *zap.Logger
}

func NewCheckoutHandler(r *render.Render, registry *services.SessionRegistry, account *services.AccountService, auth *services.AuthService, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{render: r, registry: registry, account: account, auth: auth, logger: logger}
}

type checkoutResponse struct {
	services.CheckoutState
	Formatted formattedTotals `json:"formattedTotals"`
	Warning   string          `json:"warning,omitempty"`
}

func (h *CheckoutHandler) session(r *http.Request) *services.Session {
	return h.registry.Get(r.Context(), cartIDFrom(r))
}

func (h *CheckoutHandler) respond(w http.ResponseWriter, status int, s *services.Session, state services.CheckoutState) {
	resp := checkoutResponse{CheckoutState: state, Formatted: formatTotals(state.Totals)}
	if s.Cart.PersistWarning() != nil {
		resp.Warning = "Your cart could not be saved on this device."
	}
	_ = h.render.JSON(w, status, resp)
}

// respondStateError reports a wizard error together with the current
// state so the client can redraw the step.
func (h *CheckoutHandler) respondStateError(w http.ResponseWriter, s *services.Session, state services.CheckoutState, err error) {
	status := http.StatusConflict
	switch {
	case errors.Is(err, services.ErrInvalidAddress):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrInvalidPayment), errors.Is(err, services.ErrEmptyCart):
		status = http.StatusBadRequest
	}
	resp := checkoutResponse{CheckoutState: state, Formatted: formatTotals(state.Totals)}
	_ = h.render.JSON(w, status, map[string]any{"error": err.Error(), "errors": state.Errors, "checkout": resp})
}

func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	s := h.session(r)
	h.respond(w, http.StatusOK, s, s.Checkout.State())
}

type addressRequest struct {
	models.AddressForm
	AddressID string `json:"addressId"`
}

// UpdateAddress stores the typed address, or a saved one when addressId is
// given by a signed-in user. Field errors are returned without blocking.
func (h *CheckoutHandler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	var req addressRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(h.render, h.logger, w, err)
		return
	}

	form := req.AddressForm
	if req.AddressID != "" {
		userID := userIDFrom(r)
		if userID == "" {
			_ = h.render.JSON(w, http.StatusUnauthorized, map[string]string{"error": "please sign in to use a saved address"})
			return
		}
		saved, err := h.account.Address(r.Context(), userID, req.AddressID)
		if err != nil {
			respondError(h.render, h.logger, w, err)
			return
		}
		form = saved.Form()
	}

	s := h.session(r)
	state, err := s.Checkout.UpdateAddress(form)
	if err != nil {
		h.respondStateError(w, s, state, err)
		return
	}
	state.Errors = s.Checkout.ValidateAddress(form)
	h.respond(w, http.StatusOK, s, state)
}

type paymentMethodRequest struct {
	Method string `json:"method"`
}

func (h *CheckoutHandler) SetPaymentMethod(w http.ResponseWriter, r *http.Request) {
	var req paymentMethodRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(h.render, h.logger, w, err)
		return
	}

	s := h.session(r)
	method, ok := models.ParsePaymentMethod(req.Method)
	if !ok {
		h.respondStateError(w, s, s.Checkout.State(), services.ErrInvalidPayment)
		return
	}
	state, err := s.Checkout.SetPaymentMethod(method)
	if err != nil {
		h.respondStateError(w, s, state, err)
		return
	}
	h.respond(w, http.StatusOK, s, state)
}

func (h *CheckoutHandler) Advance(w http.ResponseWriter, r *http.Request) {
	s := h.session(r)
	state, err := s.Checkout.AdvanceToPayment()
	if err != nil {
		h.respondStateError(w, s, state, err)
		return
	}
	h.respond(w, http.StatusOK, s, state)
}

func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	s := h.session(r)
	state, err := s.Checkout.Back()
	if err != nil {
		h.respondStateError(w, s, state, err)
		return
	}
	h.respond(w, http.StatusOK, s, state)
}

func (h *CheckoutHandler) Reset(w http.ResponseWriter, r *http.Request) {
	s := h.session(r)
	state, err := s.Checkout.Reset()
	if err != nil {
		h.respondStateError(w, s, state, err)
		return
	}
	h.respond(w, http.StatusOK, s, state)
}

// PlaceOrder submits the order. Backend failures map to 502, or 504 on
// timeout, and leave the cart as it was so the shopper can retry.
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	s := h.session(r)

	customer := services.Customer{}
	if userID := userIDFrom(r); userID != "" {
		customer.UserID = &userID
		if user, err := h.auth.CurrentUser(r.Context(), userID); err == nil {
			customer.Email = user.Email
		} else {
			h.logger.Warn("CheckoutHandler.PlaceOrder: could not load customer email", zap.String("user_id", userID), zap.Error(err))
		}
	}

	order, err := s.Checkout.PlaceOrder(r.Context(), customer)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSubmissionTimeout):
			_ = h.render.JSON(w, http.StatusGatewayTimeout, map[string]string{"error": "the order is taking too long, please try again"})
		case errors.Is(err, services.ErrSubmissionInProgress),
			errors.Is(err, services.ErrCheckoutComplete),
			errors.Is(err, services.ErrWrongStep),
			errors.Is(err, services.ErrEmptyCart),
			errors.Is(err, services.ErrInvalidAddress):
			h.respondStateError(w, s, s.Checkout.State(), err)
		default:
			h.logger.Error("CheckoutHandler.PlaceOrder: order failed", zap.String("session_id", s.ID), zap.Error(err))
			_ = h.render.JSON(w, http.StatusBadGateway, map[string]string{"error": "we could not place your order, please try again"})
		}
		return
	}

	state := s.Checkout.State()
	_ = h.render.JSON(w, http.StatusCreated, map[string]any{
		"orderNumber": order.OrderNumber,
		"order":       order,
		"formatted": formatTotals(calc.Totals{
			Subtotal:     order.Subtotal,
			Tax:          order.TaxAmount,
			DeliveryFee:  order.ShippingFee,
			CODSurcharge: order.CODFee,
			GrandTotal:   order.Total,
		}),
		"checkout": checkoutResponse{CheckoutState: state, Formatted: formatTotals(state.Totals)},
	})
}
