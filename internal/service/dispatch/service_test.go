package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/mycofoundr/email-service/internal/domain"
	"github.com/mycofoundr/email-service/internal/mail"
	"github.com/mycofoundr/email-service/internal/service/suppression"
)

// memRepo is an in-memory suppression repository.
type memRepo struct {
	mu    sync.RWMutex
	store map[string]struct{}
}

func newMemRepo(emails ...string) *memRepo {
	r := &memRepo{store: make(map[string]struct{})}
	for _, e := range emails {
		r.store[e] = struct{}{}
	}
	return r
}

func (m *memRepo) IsSuppressed(_ context.Context, email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.store[email]
	return ok, nil
}

func (m *memRepo) AddIfAbsent(_ context.Context, s *domain.SuppressedEmail) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[s.Email]; ok {
		return false, nil
	}
	m.store[s.Email] = struct{}{}
	return true, nil
}

// fakeProvider records session acquisitions and sends.
type fakeProvider struct {
	sessions []*fakeSession
	failSend map[string]error // per-recipient transport failures
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Session(_ context.Context) (mail.Session, error) {
	s := &fakeSession{failSend: p.failSend}
	p.sessions = append(p.sessions, s)
	return s, nil
}

type fakeSession struct {
	sent     []*mail.Message
	failSend map[string]error
	closed   bool
}

func (s *fakeSession) Send(_ context.Context, msg *mail.Message) (string, error) {
	if err, ok := s.failSend[msg.To]; ok {
		return "", err
	}
	s.sent = append(s.sent, msg)
	return "receipt-" + msg.To, nil
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

func newEngine(repo suppression.Repository, provider mail.Provider) *Service {
	return NewService(suppression.NewService(repo), provider, "My App <no-reply@example.com>", "no-reply@example.com")
}

func TestSendOne_Delivers(t *testing.T) {
	provider := &fakeProvider{}
	svc := newEngine(newMemRepo(), provider)

	res, err := svc.SendOne(context.Background(), "User@Example.com", "Hi", "<p>hi</p>")
	if err != nil {
		t.Fatalf("SendOne: %v", err)
	}
	if !res.Sent || res.Suppressed {
		t.Errorf("unexpected result: %+v", res)
	}
	if res.To != "user@example.com" {
		t.Errorf("expected normalized recipient, got %q", res.To)
	}
	if len(provider.sessions) != 1 || len(provider.sessions[0].sent) != 1 {
		t.Fatalf("expected exactly one send through one session")
	}
	msg := provider.sessions[0].sent[0]
	if !msg.IncludeUnsubscribeFooter {
		t.Error("expected unsubscribe footer enabled")
	}
	if !provider.sessions[0].closed {
		t.Error("expected session to be closed")
	}
}

func TestSendOne_SuppressedSkipsTransport(t *testing.T) {
	provider := &fakeProvider{}
	svc := newEngine(newMemRepo("blocked@example.com"), provider)

	res, err := svc.SendOne(context.Background(), "BLOCKED@example.com", "Hi", "<p>hi</p>")
	if err != nil {
		t.Fatalf("SendOne: %v", err)
	}
	if res.Sent || !res.Suppressed {
		t.Errorf("unexpected result: %+v", res)
	}
	if len(provider.sessions) != 0 {
		t.Error("no transport session should be acquired for a suppressed recipient")
	}
}

func TestSendMany_AllClear(t *testing.T) {
	provider := &fakeProvider{}
	svc := newEngine(newMemRepo(), provider)

	toList := []string{"a@x.com", "b@x.com", "c@x.com"}
	batch, err := svc.SendMany(context.Background(), toList, "Hi", "<p>hi</p>")
	if err != nil {
		t.Fatalf("SendMany: %v", err)
	}
	if batch.Total != 3 || batch.SentCount != 3 || batch.SuppressedCount != 0 {
		t.Errorf("unexpected counts: %+v", batch)
	}
	for i, addr := range toList {
		if batch.Results[i].To != addr {
			t.Errorf("result %d: expected %s (input order), got %s", i, addr, batch.Results[i].To)
		}
		if !batch.Results[i].Sent {
			t.Errorf("result %d: expected sent", i)
		}
	}
}

func TestSendMany_MixedSuppressed(t *testing.T) {
	provider := &fakeProvider{}
	svc := newEngine(newMemRepo("b@x.com"), provider)

	batch, err := svc.SendMany(context.Background(), []string{"a@x.com", "B@X.com", "c@x.com"}, "Hi", "<p>hi</p>")
	if err != nil {
		t.Fatalf("SendMany: %v", err)
	}
	if batch.Total != 3 || batch.SentCount != 2 || batch.SuppressedCount != 1 {
		t.Errorf("unexpected counts: %+v", batch)
	}
	if batch.SentCount+batch.SuppressedCount != batch.Total {
		t.Error("count invariant violated")
	}
	if !batch.Results[1].Suppressed || batch.Results[1].Sent {
		t.Errorf("expected second result suppressed: %+v", batch.Results[1])
	}
	if len(provider.sessions[0].sent) != 2 {
		t.Errorf("expected 2 transport sends, got %d", len(provider.sessions[0].sent))
	}
}

func TestSendMany_OneSessionPerBatch(t *testing.T) {
	provider := &fakeProvider{}
	svc := newEngine(newMemRepo(), provider)

	_, err := svc.SendMany(context.Background(), []string{"a@x.com", "b@x.com", "c@x.com"}, "Hi", "<p>hi</p>")
	if err != nil {
		t.Fatalf("SendMany: %v", err)
	}
	if len(provider.sessions) != 1 {
		t.Errorf("expected exactly one session for the batch, got %d", len(provider.sessions))
	}
	if !provider.sessions[0].closed {
		t.Error("expected session closed after batch")
	}
}

func TestSendMany_TransportFailureAbortsBatch(t *testing.T) {
	provider := &fakeProvider{failSend: map[string]error{"b@x.com": errors.New("auth expired")}}
	svc := newEngine(newMemRepo(), provider)

	_, err := svc.SendMany(context.Background(), []string{"a@x.com", "b@x.com", "c@x.com"}, "Hi", "<p>hi</p>")
	if err == nil {
		t.Fatal("expected transport failure to propagate")
	}
	sess := provider.sessions[0]
	if len(sess.sent) != 1 {
		t.Errorf("expected only the first recipient sent before the abort, got %d", len(sess.sent))
	}
	if !sess.closed {
		t.Error("session must be released on the failure path")
	}
}

// A recipient unsubscribed while the batch is running must be skipped when
// its turn comes, because the suppression check happens per-send.
func TestSendMany_MidBatchUnsubscribeHonored(t *testing.T) {
	repo := newMemRepo()
	provider := &unsubscribingProvider{repo: repo, unsubscribeAfter: "a@x.com", target: "c@x.com"}
	svc := newEngine(repo, provider)

	batch, err := svc.SendMany(context.Background(), []string{"a@x.com", "b@x.com", "c@x.com"}, "Hi", "<p>hi</p>")
	if err != nil {
		t.Fatalf("SendMany: %v", err)
	}
	if !batch.Results[2].Suppressed {
		t.Error("expected mid-batch unsubscribe of c@x.com to be honored")
	}
	if batch.SentCount != 2 || batch.SuppressedCount != 1 {
		t.Errorf("unexpected counts: %+v", batch)
	}
}

// unsubscribingProvider suppresses target after the trigger recipient is sent,
// simulating a concurrent unsubscribe request landing mid-batch.
type unsubscribingProvider struct {
	repo             *memRepo
	unsubscribeAfter string
	target           string
}

func (p *unsubscribingProvider) Name() string { return "fake" }

func (p *unsubscribingProvider) Session(_ context.Context) (mail.Session, error) {
	return &unsubscribingSession{p: p}, nil
}

type unsubscribingSession struct{ p *unsubscribingProvider }

func (s *unsubscribingSession) Send(ctx context.Context, msg *mail.Message) (string, error) {
	if msg.To == s.p.unsubscribeAfter {
		_, _ = s.p.repo.AddIfAbsent(ctx, &domain.SuppressedEmail{Email: s.p.target})
	}
	return "ok", nil
}

func (s *unsubscribingSession) Close() error { return nil }
