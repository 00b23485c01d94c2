package middlewares

import (
	"context"
	"errors"
	"net/http"

	"github.com/Rakhulsr/mellomelt/app/helpers"
	"github.com/Rakhulsr/mellomelt/app/repositories"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

// RequireUser rejects requests without a signed-in user and loads the user
// onto the context for the handlers behind it.
func RequireUser(userRepo repositories.UserRepositoryImpl, rnd *render.Render, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := r.Context().Value(helpers.ContextKeyUserID).(string)
			if !ok || userID == "" {
				_ = rnd.JSON(w, http.StatusUnauthorized, map[string]string{"error": "please sign in to continue"})
				return
			}

			user, err := userRepo.FindByID(r.Context(), userID)
			if err != nil {
				if errors.Is(err, repositories.ErrUserNotFound) {
					logger.Info("RequireUser: session refers to a missing user", zap.String("user_id", userID))
					_ = rnd.JSON(w, http.StatusUnauthorized, map[string]string{"error": "please sign in to continue"})
					return
				}
				logger.Error("RequireUser: user lookup failed", zap.String("user_id", userID), zap.Error(err))
				_ = rnd.JSON(w, http.StatusInternalServerError, map[string]string{"error": "could not load your account"})
				return
			}

			ctx := context.WithValue(r.Context(), helpers.ContextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
