package suppression

import (
	"context"

	"github.com/mycofoundr/email-service/internal/domain"
)

// Repository defines the data access contract for the suppression list.
// Implementations store at most one record per normalized (lower-cased)
// address. There are no delete or update operations: once suppressed, an
// address stays suppressed.
type Repository interface {
	// IsSuppressed returns true if the email is on the suppression list.
	// The lookup is an exact match; callers pass a normalized address.
	IsSuppressed(ctx context.Context, email string) (bool, error)

	// AddIfAbsent inserts a suppression record unless one already exists
	// for the address. Returns created=false when the record was already
	// present; a duplicate is never an error.
	AddIfAbsent(ctx context.Context, s *domain.SuppressedEmail) (created bool, err error)
}
