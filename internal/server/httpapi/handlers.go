package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/quizdeck/internal/common"
	"github.com/dmitrijs2005/quizdeck/internal/logging"
	"github.com/dmitrijs2005/quizdeck/internal/server/models"
	"github.com/dmitrijs2005/quizdeck/internal/server/services"
)

const minPasswordLength = 8

type Handler struct {
	users *services.UserService
	log   logging.Logger
}

func NewHandler(users *services.UserService, log logging.Logger) *Handler {
	return &Handler{users: users, log: log.With("module", "httpapi")}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type authData struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

type userData struct {
	User *models.User `json:"user"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var fields []FieldError
	if req.Email == "" {
		fields = append(fields, FieldError{Field: "email", Message: "is required"})
	}
	if req.Password == "" {
		fields = append(fields, FieldError{Field: "password", Message: "is required"})
	}
	if len(fields) > 0 {
		respondError(w, http.StatusUnprocessableEntity, "Validation failed", fields...)
		return
	}

	user, token, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			respondError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		h.log.Error(r.Context(), "login error", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondData(w, http.StatusOK, authData{User: user, Token: token})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var fields []FieldError
	if strings.TrimSpace(req.Name) == "" {
		fields = append(fields, FieldError{Field: "name", Message: "is required"})
	}
	if !validEmail(req.Email) {
		fields = append(fields, FieldError{Field: "email", Message: "must be a valid email address"})
	}
	if len(req.Password) < minPasswordLength {
		fields = append(fields, FieldError{Field: "password", Message: "must be at least 8 characters"})
	}
	if len(fields) > 0 {
		respondError(w, http.StatusUnprocessableEntity, "Validation failed", fields...)
		return
	}

	user, token, err := h.users.Register(r.Context(), strings.TrimSpace(req.Name), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			respondError(w, http.StatusUnprocessableEntity, "Validation failed",
				FieldError{Field: "email", Message: "is already taken"})
			return
		}
		h.log.Error(r.Context(), "register error", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondData(w, http.StatusCreated, authData{User: user, Token: token})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authorization token required")
		return
	}
	respondData(w, http.StatusOK, userData{User: user})
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authorization token required")
		return
	}

	var req profileRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var fields []FieldError
	if strings.TrimSpace(req.Name) == "" {
		fields = append(fields, FieldError{Field: "name", Message: "is required"})
	}
	if !validEmail(req.Email) {
		fields = append(fields, FieldError{Field: "email", Message: "must be a valid email address"})
	}
	if len(fields) > 0 {
		respondError(w, http.StatusUnprocessableEntity, "Validation failed", fields...)
		return
	}

	updated, err := h.users.UpdateProfile(r.Context(), user.ID, strings.TrimSpace(req.Name), req.Email)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			respondError(w, http.StatusUnprocessableEntity, "Validation failed",
				FieldError{Field: "email", Message: "is already taken"})
			return
		}
		h.log.Error(r.Context(), "profile update error", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondData(w, http.StatusOK, userData{User: updated})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, map[string]string{"status": "ok"})
}
