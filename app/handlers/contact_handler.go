package handlers

import (
	"net/http"

	"github.com/Rakhulsr/mellomelt/app/models"
	"github.com/Rakhulsr/mellomelt/app/services"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type ContactHandler struct {
	render  *render.Render
	contact *services.ContactService
	logger  *zap.Logger
}

func NewContactHandler(r *render.Render, contact *services.ContactService, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{render: r, contact: contact, logger: logger}
}

func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var form models.ContactForm
	if err := decodeJSON(r, &form); err != nil {
		respondError(h.render, h.logger, w, err)
		return
	}
	msg, err := h.contact.Submit(r.Context(), form)
	if err != nil {
		respondError(h.render, h.logger, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusCreated, map[string]any{
		"message": "Thanks for reaching out! We'll get back to you soon.",
		"id":      msg.ID,
	})
}

func (h *ContactHandler) Book(w http.ResponseWriter, r *http.Request) {
	var form models.BookingForm
	if err := decodeJSON(r, &form); err != nil {
		respondError(h.render, h.logger, w, err)
		return
	}
	msg, err := h.contact.Book(r.Context(), form)
	if err != nil {
		respondError(h.render, h.logger, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusCreated, map[string]any{
		"message": "Your booking request has been received. We'll confirm it shortly.",
		"id":      msg.ID,
	})
}
