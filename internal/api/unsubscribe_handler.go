package api

import (
	"log"
	"net/http"

	"github.com/mycofoundr/email-service/internal/service/suppression"
)

// Unsubscribe registers an address on the suppression list. The link is
// opened from mail clients, so the response is always a success
// acknowledgment whether or not the address was already suppressed.
func (h *Handlers) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	email := suppression.Normalize(r.URL.Query().Get("email"))
	if email == "" {
		respondError(w, http.StatusBadRequest, "email is required")
		return
	}

	if _, err := h.suppressions.Unsubscribe(r.Context(), email); err != nil {
		log.Printf("[api] unsubscribe %s: %v", email, err)
		respondError(w, http.StatusInternalServerError, "unsubscribe failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"email":   email,
		"message": "You have been unsubscribed.",
	})
}
