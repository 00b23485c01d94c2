package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (h *AccountHandler) Wishlist(w http.ResponseWriter, r *http.Request) {
	items, err := h.account.Wishlist(r.Context(), userFrom(r).ID)
	if err != nil {
		respondError(h.render, h.logger, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, map[string]any{"items": items})
}

type wishlistRequest struct {
	ProductID string `json:"productId"`
}

func (h *AccountHandler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	var req wishlistRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(h.render, h.logger, w, err)
		return
	}
	item, err := h.account.AddToWishlist(r.Context(), userFrom(r).ID, req.ProductID)
	if err != nil {
		respondError(h.render, h.logger, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusCreated, map[string]any{"item": item})
}

func (h *AccountHandler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	if err := h.account.RemoveFromWishlist(r.Context(), userFrom(r).ID, mux.Vars(r)["productId"]); err != nil {
		respondError(h.render, h.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
