package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

// NewRouter builds the API surface. Bearer verification covers only the
// routes that need an identity; login, registration and health stay public.
func NewRouter(h *Handler, secretKey []byte) http.Handler {
	tokenAuth := jwtauth.New("HS256", secretKey, nil)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.Health)

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/register", h.Register)

		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(tokenAuth))
			r.Use(h.Authenticator)

			r.Get("/me", h.Me)
			r.Put("/profile", h.UpdateProfile)
		})
	})

	return r
}
