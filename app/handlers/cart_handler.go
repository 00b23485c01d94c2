package handlers

import (
	"net/http"

	"github.com/Rakhulsr/mellomelt/app/services"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type CartHandler struct {
	render   *render.Render
	registry *services.SessionRegistry
	cartSvc  *services.CartService
	logger   *zap.Logger
}

func NewCartHandler(r *render.Render, registry *services.SessionRegistry, cartSvc *services.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{render: r, registry: registry, cartSvc: cartSvc, logger: logger}
}

func (h *CartHandler) cart(r *http.Request) *services.CartStore {
	return h.registry.Get(r.Context(), cartIDFrom(r)).Cart
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart := h.cart(r)
	_ = h.render.JSON(w, http.StatusOK, newCartResponse(cart.Snapshot(), cart))
}

type addItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// AddItem adds a product; a missing or non-positive quantity adds one.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(h.render, h.logger, w, err)
		return
	}
	if req.ProductID == "" {
		_ = h.render.JSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "please correct the highlighted fields",
			"errors": map[string]string{"productId": "Product is required."},
		})
		return
	}

	cart := h.cart(r)
	snap, err := h.cartSvc.AddItem(r.Context(), cart, req.ProductID, req.Quantity)
	if err != nil {
		respondError(h.render, h.logger, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, newCartResponse(snap, cart))
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

// UpdateItem sets a line's quantity. Zero or less removes the line and an
// unknown product id leaves the cart unchanged.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req updateQuantityRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(h.render, h.logger, w, err)
		return
	}
	if req.Quantity == nil {
		_ = h.render.JSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "please correct the highlighted fields",
			"errors": map[string]string{"quantity": "Quantity is required."},
		})
		return
	}

	cart := h.cart(r)
	snap := cart.UpdateQuantity(r.Context(), mux.Vars(r)["id"], *req.Quantity)
	_ = h.render.JSON(w, http.StatusOK, newCartResponse(snap, cart))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cart := h.cart(r)
	snap := cart.RemoveFromCart(r.Context(), mux.Vars(r)["id"])
	_ = h.render.JSON(w, http.StatusOK, newCartResponse(snap, cart))
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	cart := h.cart(r)
	snap := cart.ClearCart(r.Context())
	_ = h.render.JSON(w, http.StatusOK, newCartResponse(snap, cart))
}

type openRequest struct {
	Open bool `json:"open"`
}

func (h *CartHandler) SetOpen(w http.ResponseWriter, r *http.Request) {
	var req openRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(h.render, h.logger, w, err)
		return
	}
	cart := h.cart(r)
	snap := cart.SetIsCartOpen(req.Open)
	_ = h.render.JSON(w, http.StatusOK, newCartResponse(snap, cart))
}

// Sync re-reads the stored cart after another tab changed it.
func (h *CartHandler) Sync(w http.ResponseWriter, r *http.Request) {
	cart := h.cart(r)
	snap, err := cart.Reload(r.Context())
	if err != nil {
		h.logger.Warn("CartHandler.Sync: reload failed, keeping current cart", zap.Error(err))
	}
	_ = h.render.JSON(w, http.StatusOK, newCartResponse(snap, cart))
}
