package suppression

import (
	"context"
	"fmt"
	"strings"

	"github.com/mycofoundr/email-service/internal/domain"
)

// Service implements suppression business logic. It is safe for concurrent use.
type Service struct {
	repo Repository
}

// NewService creates a suppression service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Normalize lower-cases and trims an address. Every address crossing the
// service boundary goes through this, so `A@X.com` and `a@x.com` resolve to
// the same record.
func Normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsSuppressed checks whether an email address should be blocked from sending.
// The check is case-insensitive.
func (s *Service) IsSuppressed(ctx context.Context, email string) (bool, error) {
	return s.repo.IsSuppressed(ctx, Normalize(email))
}

// Unsubscribe adds an email to the suppression list. Idempotent: if the
// address is already suppressed the existing record is preserved and
// created=false is returned.
func (s *Service) Unsubscribe(ctx context.Context, email string) (created bool, err error) {
	email = Normalize(email)
	if email == "" {
		return false, fmt.Errorf("email is required")
	}
	return s.repo.AddIfAbsent(ctx, &domain.SuppressedEmail{Email: email})
}
