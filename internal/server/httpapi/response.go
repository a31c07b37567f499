// Package httpapi exposes the auth service over a chi router with a uniform
// JSON envelope on every response.
package httpapi

import (
	"encoding/json"
	"net/http"
)

// FieldError is a single field-level rejection in a validation response.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type envelope struct {
	Success bool         `json:"success"`
	Data    any          `json:"data,omitempty"`
	Message string       `json:"message,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

func respondJSON(w http.ResponseWriter, code int, env envelope) {
	body, err := json.Marshal(env)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false,"message":"failed to marshal response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(body)
}

func respondData(w http.ResponseWriter, code int, data any) {
	respondJSON(w, code, envelope{Success: true, Data: data})
}

func respondError(w http.ResponseWriter, code int, message string, fields ...FieldError) {
	respondJSON(w, code, envelope{Success: false, Message: message, Errors: fields})
}
