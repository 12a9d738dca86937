package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/hse-digital/platform/pkg/serrors"
)

// ErrorEnvelope standardizes JSON error responses for API namespaces.
type ErrorEnvelope struct {
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Meta    map[string]string `json:"meta,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	if w == nil {
		return nil
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, code, message string, meta map[string]string) error {
	return WriteJSON(w, status, &ErrorEnvelope{
		Code:    code,
		Message: message,
		Meta:    meta,
	})
}

// WriteCoded renders a coded error as the standard envelope. The hint goes
// into meta so clients see it without parsing the message.
func WriteCoded(w http.ResponseWriter, status int, err *serrors.Error) error {
	var meta map[string]string
	if err.Hint != "" {
		meta = map[string]string{"hint": err.Hint}
	}
	return WriteError(w, status, err.Code, err.Message, meta)
}
