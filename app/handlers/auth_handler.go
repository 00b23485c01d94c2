package handlers

import (
	"errors"
	"net/http"

	"github.com/Rakhulsr/mellomelt/app/models"
	"github.com/Rakhulsr/mellomelt/app/repositories"
	"github.com/Rakhulsr/mellomelt/app/services"
	"github.com/Rakhulsr/mellomelt/app/utils/sessions"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type AuthHandler struct {
	render       *render.Render
	auth         *services.AuthService
	registry     *services.SessionRegistry
	sessionStore sessions.SessionStore
	logger       *zap.Logger
}

func NewAuthHandler(r *render.Render, auth *services.AuthService, registry *services.SessionRegistry, sessionStore sessions.SessionStore, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		render:       r,
		auth:         auth,
		registry:     registry,
		sessionStore: sessionStore,
		logger:       logger,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var form models.RegisterForm
	if err := decodeJSON(r, &form); err != nil {
		respondError(h.render, h.logger, w, err)
		return
	}

	user, err := h.auth.Register(r.Context(), form)
	if err != nil {
		respondError(h.render, h.logger, w, err)
		return
	}
	if err := h.sessionStore.SetUserID(w, r, user.ID); err != nil {
		respondError(h.render, h.logger, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusCreated, map[string]any{"user": user})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var form models.LoginForm
	if err := decodeJSON(r, &form); err != nil {
		respondError(h.render, h.logger, w, err)
		return
	}

	user, err := h.auth.Login(r.Context(), form)
	if err != nil {
		respondError(h.render, h.logger, w, err)
		return
	}
	if err := h.sessionStore.SetUserID(w, r, user.ID); err != nil {
		respondError(h.render, h.logger, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, map[string]any{"user": user})
}

// Logout ends the session and throws away its cart, including the stored
// copy.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cartID := cartIDFrom(r); cartID != "" {
		if err := h.registry.Teardown(r.Context(), cartID); err != nil {
			h.logger.Warn("AuthHandler.Logout: stored cart not removed", zap.String("session_id", cartID), zap.Error(err))
		}
	}
	if err := h.sessionStore.ClearSession(w, r); err != nil {
		respondError(h.render, h.logger, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, map[string]string{"message": "signed out"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	if userID == "" {
		_ = h.render.JSON(w, http.StatusUnauthorized, map[string]string{"error": "not signed in"})
		return
	}
	user, err := h.auth.CurrentUser(r.Context(), userID)
	if errors.Is(err, repositories.ErrUserNotFound) {
		_ = h.render.JSON(w, http.StatusUnauthorized, map[string]string{"error": "not signed in"})
		return
	}
	if err != nil {
		respondError(h.render, h.logger, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, map[string]any{"user": user})
}
