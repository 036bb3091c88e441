package controllers

import (
	"encoding/json"
	"net/http"
)

// writeError sends the generic {"error": ...} envelope used by every
// controller.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
