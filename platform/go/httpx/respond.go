// Package httpx holds the small request/response helpers shared by the HTTP handlers.
package httpx

import (
	"encoding/json"
	"net/http"
	"strings"
)

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Envelope is the {success, message, ...payload} shape of the AJAX endpoints.
type Envelope map[string]any

// OK returns a successful envelope carrying payload.
func OK(message string, payload Envelope) Envelope {
	out := Envelope{"success": true}
	if message != "" {
		out["message"] = message
	}
	for k, v := range payload {
		out[k] = v
	}
	return out
}

// Fail returns an unsuccessful envelope.
func Fail(message string) Envelope {
	return Envelope{"success": false, "message": message}
}

// WantsJSON reports whether the caller is an AJAX or API client rather than a browser navigation.
func WantsJSON(r *http.Request) bool {
	if strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest") {
		return true
	}
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}
