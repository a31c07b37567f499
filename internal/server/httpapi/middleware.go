package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/dmitrijs2005/quizdeck/internal/common"
	"github.com/dmitrijs2005/quizdeck/internal/server/models"
)

type contextKey string

const userCtxKey contextKey = "user"

// Authenticator turns a verified bearer token into the account it belongs
// to. The account is always re-read from storage, so role decisions rest on
// the server-side record rather than on the claim alone, and deleted users
// lose access the moment the row is gone.
func (h *Handler) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			respondError(w, http.StatusUnauthorized, "Authorization token required")
			return
		}

		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			respondError(w, http.StatusUnauthorized, "Invalid token claims")
			return
		}

		user, err := h.users.GetByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				respondError(w, http.StatusUnauthorized, "Unknown account")
				return
			}
			h.log.Error(r.Context(), "error loading account", "error", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		ctx := context.WithValue(r.Context(), userCtxKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userFromContext returns the account set by Authenticator.
func userFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userCtxKey).(*models.User)
	return user, ok
}
