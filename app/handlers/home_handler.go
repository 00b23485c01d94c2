package handlers

import (
	"net/http"

	"github.com/Rakhulsr/mellomelt/app/configs"
	"github.com/Rakhulsr/mellomelt/app/utils/calc"
	"github.com/Rakhulsr/mellomelt/app/utils/format"
	"github.com/gorilla/csrf"
	"github.com/unrolled/render"
)

type HomeHandler struct {
	render  *render.Render
	store   configs.StoreInfo
	pricing calc.Pricing
}

func NewHomeHandler(r *render.Render, store configs.StoreInfo, pricing calc.Pricing) *HomeHandler {
	return &HomeHandler{render: r, store: store, pricing: pricing}
}

// Store returns what the client needs to explain pricing before checkout.
func (h *HomeHandler) Store(w http.ResponseWriter, r *http.Request) {
	_ = h.render.JSON(w, http.StatusOK, map[string]any{
		"store": h.store,
		"pricing": map[string]any{
			"taxPercent":            h.pricing.TaxPercent(),
			"freeDeliveryThreshold": h.pricing.FreeDeliveryThreshold,
			"deliveryFee":           h.pricing.DeliveryFee,
			"codSurcharge":          h.pricing.CODSurcharge,
			"freeDeliveryLabel":     "Free delivery on orders above " + format.FormatRupee(h.pricing.FreeDeliveryThreshold),
		},
	})
}

// CSRF hands the token to the client, which echoes it in X-CSRF-Token.
// The token is empty when CSRF protection is disabled.
func (h *HomeHandler) CSRF(w http.ResponseWriter, r *http.Request) {
	_ = h.render.JSON(w, http.StatusOK, map[string]string{"csrfToken": csrf.Token(r)})
}

func (h *HomeHandler) Health(w http.ResponseWriter, r *http.Request) {
	_ = h.render.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
