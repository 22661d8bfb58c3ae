package dispatch

import (
	"context"
	"fmt"
	"log"

	"github.com/mycofoundr/email-service/internal/domain"
	"github.com/mycofoundr/email-service/internal/mail"
	"github.com/mycofoundr/email-service/internal/service/suppression"
)

// Service is the dispatch engine. It is safe for concurrent use: each call
// acquires its own transport session and the suppression service is
// read-mostly shared state.
type Service struct {
	suppressions *suppression.Service
	provider     mail.Provider
	fromHeader   string
	fromEmail    string
}

// NewService creates a dispatch engine sending as the given identity.
func NewService(suppressions *suppression.Service, provider mail.Provider, fromHeader, fromEmail string) *Service {
	return &Service{
		suppressions: suppressions,
		provider:     provider,
		fromHeader:   fromHeader,
		fromEmail:    fromEmail,
	}
}

func (s *Service) message(to, subject, html string) *mail.Message {
	return &mail.Message{
		FromHeader:               s.fromHeader,
		FromEmail:                s.fromEmail,
		To:                       to,
		Subject:                  subject,
		HTML:                     html,
		IncludeUnsubscribeFooter: true,
	}
}

// SendOne dispatches a single email. Suppressed recipients short-circuit
// before any transport session is acquired. Transport failures return an
// error; the caller decides how to surface it.
func (s *Service) SendOne(ctx context.Context, to, subject, html string) (domain.DispatchResult, error) {
	to = suppression.Normalize(to)

	suppressed, err := s.suppressions.IsSuppressed(ctx, to)
	if err != nil {
		return domain.DispatchResult{}, fmt.Errorf("suppression check: %w", err)
	}
	if suppressed {
		return domain.DispatchResult{To: to, Suppressed: true}, nil
	}

	sess, err := s.provider.Session(ctx)
	if err != nil {
		return domain.DispatchResult{}, fmt.Errorf("acquire %s session: %w", s.provider.Name(), err)
	}
	defer sess.Close()

	if _, err := sess.Send(ctx, s.message(to, subject, html)); err != nil {
		return domain.DispatchResult{}, fmt.Errorf("send to %s: %w", to, err)
	}

	return domain.DispatchResult{To: to, Sent: true}, nil
}

// SendMany dispatches the same subject and HTML to each recipient in input
// order, one individual send per recipient. One transport session is
// acquired for the whole batch and released on every exit path.
//
// The suppression check runs immediately before each send rather than as an
// up-front batch filter, so an unsubscribe landing mid-batch is honored for
// recipients later in the same run.
//
// A transport failure aborts the batch: the error is returned and remaining
// recipients are never attempted. No partial BatchResult is produced.
func (s *Service) SendMany(ctx context.Context, toList []string, subject, html string) (domain.BatchResult, error) {
	sess, err := s.provider.Session(ctx)
	if err != nil {
		return domain.BatchResult{}, fmt.Errorf("acquire %s session: %w", s.provider.Name(), err)
	}
	defer sess.Close()

	batch := domain.BatchResult{Results: make([]domain.DispatchResult, 0, len(toList))}
	for _, addr := range toList {
		addr = suppression.Normalize(addr)

		suppressed, err := s.suppressions.IsSuppressed(ctx, addr)
		if err != nil {
			return domain.BatchResult{}, fmt.Errorf("suppression check for %s: %w", addr, err)
		}
		if suppressed {
			batch.Results = append(batch.Results, domain.DispatchResult{To: addr, Suppressed: true})
			batch.SuppressedCount++
			batch.Total++
			continue
		}

		if _, err := sess.Send(ctx, s.message(addr, subject, html)); err != nil {
			return domain.BatchResult{}, fmt.Errorf("send to %s: %w", addr, err)
		}
		batch.Results = append(batch.Results, domain.DispatchResult{To: addr, Sent: true})
		batch.SentCount++
		batch.Total++
	}

	log.Printf("[dispatch] batch complete via %s: total=%d sent=%d suppressed=%d",
		s.provider.Name(), batch.Total, batch.SentCount, batch.SuppressedCount)
	return batch, nil
}
