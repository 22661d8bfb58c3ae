// Package postgres provides lib/pq-backed implementations of the service
// repository interfaces.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/mycofoundr/email-service/internal/domain"
)

// SuppressionRepo implements suppression.Repository against PostgreSQL.
type SuppressionRepo struct{ db *sql.DB }

// NewSuppressionRepo creates a Postgres-backed suppression repository.
func NewSuppressionRepo(db *sql.DB) *SuppressionRepo { return &SuppressionRepo{db: db} }

func (r *SuppressionRepo) IsSuppressed(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM suppressed_emails WHERE email = $1)`,
		email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("suppression lookup: %w", err)
	}
	return exists, nil
}

// AddIfAbsent inserts a suppression record unless the address already has one.
// ON CONFLICT DO NOTHING keeps the first record and its created_at intact, so
// repeat unsubscribes are no-ops rather than errors.
func (r *SuppressionRepo) AddIfAbsent(ctx context.Context, s *domain.SuppressedEmail) (bool, error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO suppressed_emails (id, email, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (email) DO NOTHING
	`, s.ID, s.Email)
	if err != nil {
		return false, fmt.Errorf("add suppression: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("add suppression: %w", err)
	}
	return n > 0, nil
}
