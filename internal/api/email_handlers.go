// Designed email endpoints: fixed card layout, flexible content.
package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/mycofoundr/email-service/internal/template"
)

// designedContent is the set of card content fields shared by the designed
// send endpoints. Title and ExpiresMinutes are pointers so that an absent
// field gets the default while an explicit empty value is respected.
type designedContent struct {
	LogoURL        string   `json:"logo_url"`
	Title          *string  `json:"title"`
	Subtitle       string   `json:"subtitle"`
	Greeting       string   `json:"greeting"`
	BodyHTML       string   `json:"body_html"`
	Paragraphs     []string `json:"paragraphs"`
	Bullets        []string `json:"bullets"`
	Code           string   `json:"code"`
	ExpiresMinutes *int     `json:"expires_minutes"`
	CTALabel       string   `json:"cta_label"`
	CTAURL         string   `json:"cta_url"`
	FooterNote     string   `json:"footer_note"`
}

// SendDesignedOneRequest is the payload for /email/send-designed-one.
type SendDesignedOneRequest struct {
	To      string `json:"to" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	designedContent
}

// SendDesignedManyRequest is the payload for /email/send-designed-many.
type SendDesignedManyRequest struct {
	ToList  []string `json:"to_list" validate:"required,min=1,dive,required,email"`
	Subject string   `json:"subject" validate:"required"`
	designedContent
}

const (
	defaultTitle          = "Welcome Aboard! \U0001F44B"
	defaultExpiresMinutes = 5
)

// cardContext maps the request fields onto the card template context.
// Liquid's {% if %} treats empty strings and empty lists as truthy, so
// optional fields are only added when set; keys left out render as nil and
// keep their template blocks hidden.
func (h *Handlers) cardContext(subject string, c designedContent) map[string]interface{} {
	ctx := map[string]interface{}{
		"subject": subject,
		"brand":   h.brand,
	}

	title := defaultTitle
	if c.Title != nil {
		title = *c.Title
	}
	if title != "" {
		ctx["title"] = title
	}
	if c.LogoURL != "" {
		ctx["logo_url"] = c.LogoURL
	}
	if c.Subtitle != "" {
		ctx["subtitle"] = c.Subtitle
	}
	if c.Greeting != "" {
		ctx["greeting"] = c.Greeting
	}
	if c.BodyHTML != "" {
		ctx["body_html"] = c.BodyHTML
	}
	if len(c.Paragraphs) > 0 {
		ctx["paragraphs"] = c.Paragraphs
	}
	if len(c.Bullets) > 0 {
		ctx["bullets"] = c.Bullets
	}
	if c.Code != "" {
		ctx["code"] = c.Code
		expires := defaultExpiresMinutes
		if c.ExpiresMinutes != nil {
			expires = *c.ExpiresMinutes
		}
		ctx["expires_minutes"] = expires
	}
	if c.CTALabel != "" {
		ctx["cta_label"] = c.CTALabel
	}
	if c.CTAURL != "" {
		ctx["cta_url"] = c.CTAURL
	}
	if c.FooterNote != "" {
		ctx["footer_note"] = c.FooterNote
	}
	return ctx
}

// SendDesignedOne renders the branded card and dispatches it to one recipient.
func (h *Handlers) SendDesignedOne(w http.ResponseWriter, r *http.Request) {
	var payload SendDesignedOneRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	html, err := h.renderer.Render(template.CardTemplate, h.cardContext(payload.Subject, payload.designedContent))
	if err != nil {
		log.Printf("[api] render card: %v", err)
		respondError(w, http.StatusInternalServerError, "template render failed")
		return
	}

	res, err := h.dispatcher.SendOne(r.Context(), payload.To, payload.Subject, html)
	if err != nil {
		log.Printf("[api] send-designed-one: %v", err)
		respondError(w, http.StatusBadGateway, "mail transport failed")
		return
	}
	if !res.Sent && !res.Suppressed {
		// Unreachable under the current dispatch contract (errors return
		// above), kept as a guard for the result invariant.
		respondError(w, http.StatusInternalServerError, "failed to send")
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// SendDesignedMany renders the card once and dispatches the identical HTML to
// every recipient as individual sends. No per-recipient personalization, and
// never CC/BCC, so no recipient learns the rest of the list.
func (h *Handlers) SendDesignedMany(w http.ResponseWriter, r *http.Request) {
	var payload SendDesignedManyRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	html, err := h.renderer.Render(template.CardTemplate, h.cardContext(payload.Subject, payload.designedContent))
	if err != nil {
		log.Printf("[api] render card: %v", err)
		respondError(w, http.StatusInternalServerError, "template render failed")
		return
	}

	batch, err := h.dispatcher.SendMany(r.Context(), payload.ToList, payload.Subject, html)
	if err != nil {
		log.Printf("[api] send-designed-many: %v", err)
		respondError(w, http.StatusBadGateway, "mail transport failed")
		return
	}
	respondJSON(w, http.StatusOK, batch)
}
