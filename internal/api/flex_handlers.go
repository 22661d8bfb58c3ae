// Flex batch endpoint: a map of independently specified recipient groups
// with heterogeneous content in one call.
package api

import (
	"encoding/json"
	"errors"
	"html"
	"log"
	"net/http"
	"sort"
	"strings"
)

// FlexBatchItem is one named group inside a flex batch. Content may be
// supplied as raw message + is_html flag, explicit HTML, or explicit plain
// text. Message is a pointer so an explicitly empty message is distinguishable
// from an absent one.
type FlexBatchItem struct {
	EmailAddresses []string `json:"email_addresses" validate:"required,min=1,dive,required,email"`
	Subject        string   `json:"subject"`
	Message        *string  `json:"message"`
	IsHTML         bool     `json:"is_html"`
	MessageHTML    string   `json:"message_html"`
	MessageText    string   `json:"message_text"`
}

// UnmarshalJSON accepts "email_adress" (as seen in real client payloads) as
// an alias for "email_addresses".
func (f *FlexBatchItem) UnmarshalJSON(data []byte) error {
	type alias FlexBatchItem
	aux := struct {
		*alias
		EmailAdress []string `json:"email_adress"`
	}{alias: (*alias)(f)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if f.EmailAddresses == nil {
		f.EmailAddresses = aux.EmailAdress
	}
	return nil
}

// FlexBatchSummary aggregates counts across all groups in one flex call.
type FlexBatchSummary struct {
	Groups          int `json:"groups"`
	TotalRecipients int `json:"total_recipients"`
	SentCount       int `json:"sent_count"`
	SuppressedCount int `json:"suppressed_count"`
}

// FlexBatchResponse is the full flex batch response body. Results maps each
// group key to either a BatchResult or an error entry.
type FlexBatchResponse struct {
	Summary FlexBatchSummary       `json:"summary"`
	Results map[string]interface{} `json:"results"`
}

const defaultFlexSubject = "No subject"

// textToHTML is a simple, email-safe conversion of plain text to HTML: every
// input line becomes an escaped paragraph.
func textToHTML(txt string) string {
	escaped := html.EscapeString(strings.ReplaceAll(txt, "\r\n", "\n"))
	return "<p>" + strings.Join(strings.Split(escaped, "\n"), "</p><p>") + "</p>"
}

// coerceToHTML resolves the one content source of a flex item into HTML.
// Priority: explicit HTML, then explicit text, then the raw message field.
func coerceToHTML(item FlexBatchItem) (string, error) {
	if item.MessageHTML != "" {
		return item.MessageHTML, nil
	}
	if item.MessageText != "" {
		return textToHTML(item.MessageText), nil
	}
	if item.Message != nil {
		if item.IsHTML {
			return *item.Message, nil
		}
		return textToHTML(*item.Message), nil
	}
	return "", errors.New("no message provided")
}

// SendFlexBatch dispatches a map of group-key to FlexBatchItem. The body may
// be either {"batches": {...}} or the map itself at top level. A group that
// fails validation produces an error entry under its key and does not affect
// its siblings; a transport failure aborts the whole request.
func (h *Handlers) SendFlexBatch(w http.ResponseWriter, r *http.Request) {
	var payload map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	groups := payload
	if wrapped, ok := payload["batches"]; ok {
		groups = nil
		if err := json.Unmarshal(wrapped, &groups); err != nil {
			respondError(w, http.StatusBadRequest, "invalid batches object")
			return
		}
	}

	resp := FlexBatchResponse{
		Summary: FlexBatchSummary{Groups: len(groups)},
		Results: make(map[string]interface{}, len(groups)),
	}

	// Sorted key order keeps processing deterministic, so a mid-request
	// transport failure always aborts at the same point.
	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		raw := groups[key]
		var item FlexBatchItem
		if err := json.Unmarshal(raw, &item); err != nil {
			resp.Results[key] = map[string]string{"error": "validation_error", "details": err.Error()}
			continue
		}
		if err := h.validate.Struct(item); err != nil {
			resp.Results[key] = map[string]string{"error": "validation_error", "details": err.Error()}
			continue
		}
		htmlBody, err := coerceToHTML(item)
		if err != nil {
			resp.Results[key] = map[string]string{"error": err.Error()}
			continue
		}
		subject := item.Subject
		if subject == "" {
			subject = defaultFlexSubject
		}

		batch, err := h.dispatcher.SendMany(r.Context(), item.EmailAddresses, subject, htmlBody)
		if err != nil {
			log.Printf("[api] send-flex-batch group %q: %v", key, err)
			respondError(w, http.StatusBadGateway, "mail transport failed")
			return
		}
		resp.Results[key] = batch
		resp.Summary.TotalRecipients += batch.Total
		resp.Summary.SentCount += batch.SentCount
		resp.Summary.SuppressedCount += batch.SuppressedCount
	}

	respondJSON(w, http.StatusOK, resp)
}
