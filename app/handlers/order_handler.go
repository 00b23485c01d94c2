package handlers

import (
	"net/http"

	"github.com/Rakhulsr/mellomelt/app/repositories"
	"github.com/gorilla/mux"
)

// Orders lists the signed-in user's orders, newest first.
func (h *AccountHandler) Orders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.OrdersForUser(r.Context(), userFrom(r).ID)
	if err != nil {
		respondError(h.render, h.logger, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, map[string]any{"orders": orders})
}

// Order shows one order. Orders of other users are reported as missing.
func (h *AccountHandler) Order(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.FindByNumber(r.Context(), mux.Vars(r)["number"])
	if err != nil {
		respondError(h.render, h.logger, w, err)
		return
	}
	if order.UserID == nil || *order.UserID != userFrom(r).ID {
		respondError(h.render, h.logger, w, repositories.ErrOrderNotFound)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, map[string]any{"order": order})
}
