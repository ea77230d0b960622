// Package handler contains the HTTP handlers for the API server.
package handler

import (
	"encoding/json"
	"net/http"
)

// maxBodyBytes caps request bodies. The API only accepts tiny DTOs.
const maxBodyBytes = 1 << 16 // 64 KiB

// respondJSON writes v as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON reads the request body into v. Unknown fields and oversized
// bodies are rejected so malformed client payloads fail loudly.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
