package handlers

import (
	"net/http"

	"github.com/Rakhulsr/mellomelt/app/models"
	"github.com/Rakhulsr/mellomelt/app/services"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

// AccountHandler serves the signed-in account pages. Every route sits
// behind RequireUser.
type AccountHandler struct {
	render  *render.Render
	account *services.AccountService
	orders  *services.OrderService
	logger  *zap.Logger
}

func NewAccountHandler(r *render.Render, account *services.AccountService, orders *services.OrderService, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{render: r, account: account, orders: orders, logger: logger}
}

func (h *AccountHandler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	addresses, err := h.account.Addresses(r.Context(), userFrom(r).ID)
	if err != nil {
		respondError(h.render, h.logger, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, map[string]any{"addresses": addresses})
}

type createAddressRequest struct {
	models.AddressForm
	IsPrimary bool `json:"isPrimary"`
}

func (h *AccountHandler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	var req createAddressRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(h.render, h.logger, w, err)
		return
	}

	address, err := h.account.AddAddress(r.Context(), userFrom(r).ID, req.AddressForm, req.IsPrimary)
	if err != nil {
		respondError(h.render, h.logger, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusCreated, map[string]any{"address": address})
}

func (h *AccountHandler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	if err := h.account.DeleteAddress(r.Context(), userFrom(r).ID, mux.Vars(r)["id"]); err != nil {
		respondError(h.render, h.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AccountHandler) SetPrimaryAddress(w http.ResponseWriter, r *http.Request) {
	userID := userFrom(r).ID
	if err := h.account.SetPrimaryAddress(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		respondError(h.render, h.logger, w, err)
		return
	}
	h.ListAddresses(w, r)
}
