// Package shared holds the JSON response helpers every handler uses, so the
// error envelope stays identical across features.
package shared

import (
	"encoding/json"
	"net/http"

	dErrors "pokegame/pkg/domainerrors"
)

// WriteJSON writes v as a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ErrorResponse is the error envelope returned by every endpoint.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Error   string `json:"error"`
}

// WriteError maps a domain error onto its HTTP status and the shared error
// envelope. Unknown errors degrade to a bare 500.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	msg := dErrors.MessageOf(err)
	if msg == "" {
		msg = "internal error"
	}
	WriteJSON(w, dErrors.ToHTTPStatus(code), ErrorResponse{
		Success: false,
		Code:    string(code),
		Error:   msg,
	})
}
