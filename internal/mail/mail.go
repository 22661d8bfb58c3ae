// Package mail defines the outbound message model and the transport
// contract implemented by the provider packages (internal/gmail,
// internal/ses).
package mail

import "context"

// Message is a single outbound email. HTML is the fully rendered body; the
// MIME builder adds the plain-text fallback part and, when
// IncludeUnsubscribeFooter is set, the unsubscribe footer and compliance
// headers.
type Message struct {
	FromHeader               string // "Name <addr>" form
	FromEmail                string // bare address, used in List-Unsubscribe mailto
	To                       string
	Subject                  string
	HTML                     string
	IncludeUnsubscribeFooter bool
}

// Session is an authenticated handle to a mail provider. Sessions are
// acquired once per top-level dispatch operation and reused for every
// recipient in a batch.
type Session interface {
	// Send submits one message and returns the provider receipt (message id).
	Send(ctx context.Context, msg *Message) (receipt string, err error)

	// Close releases the session. Safe to call via defer on every exit path.
	Close() error
}

// Provider acquires authenticated sessions. How a usable session is obtained
// (OAuth2 token refresh, static credentials) is the provider's concern; the
// dispatch engine only sees this interface.
type Provider interface {
	Session(ctx context.Context) (Session, error)
	Name() string
}
