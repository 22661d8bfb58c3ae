package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/mycofoundr/email-service/internal/service/dispatch"
	"github.com/mycofoundr/email-service/internal/service/suppression"
	"github.com/mycofoundr/email-service/internal/template"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	dispatcher   *dispatch.Service
	suppressions *suppression.Service
	renderer     *template.Renderer
	validate     *validator.Validate
	brand        string
}

// NewHandlers creates a new Handlers instance. brand is the display name
// injected into the card template.
func NewHandlers(dispatcher *dispatch.Service, suppressions *suppression.Service, renderer *template.Renderer, brand string) *Handlers {
	return &Handlers{
		dispatcher:   dispatcher,
		suppressions: suppressions,
		renderer:     renderer,
		validate:     validator.New(),
		brand:        brand,
	}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
