package domain

import "time"

// SuppressedEmail represents a single entry in the suppression list. An
// address with a record here must never receive outbound mail.
//
// Records are created on the first unsubscribe request for an address and are
// never updated or deleted; there is no re-subscribe path.
type SuppressedEmail struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
