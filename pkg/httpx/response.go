package httpx

import (
	"encoding/json"
	"net/http"
)

// WriteJSON writes a JSON response with the given status code.
// It automatically sets the Content-Type header and Cache-Control headers.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteHTML writes an HTML response with the given status code.
func WriteHTML(w http.ResponseWriter, code int, body []byte) {
	NoCache(w)
	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
// This is commonly required for sensitive responses like tokens.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
