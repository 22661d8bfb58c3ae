// Package gmail sends mail through the Gmail API using OAuth2 credentials.
package gmail

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/mycofoundr/email-service/internal/mail"
)

// sendURL is the Gmail API raw-message send endpoint.
const sendURL = "https://gmail.googleapis.com/gmail/v1/users/me/messages/send"

// Provider acquires authenticated Gmail sessions. Credential resolution is
// handled by the chain in creds.go; callers only see mail.Provider.
type Provider struct {
	clientSecretFile string
	tokenFile        string
	publicBaseURL    string
	timeout          time.Duration
}

// NewProvider creates a Gmail provider. clientSecretFile and tokenFile are
// the local developer-setup fallback; env credential sources take priority.
func NewProvider(clientSecretFile, tokenFile, publicBaseURL string, timeout time.Duration) *Provider {
	return &Provider{
		clientSecretFile: clientSecretFile,
		tokenFile:        tokenFile,
		publicBaseURL:    publicBaseURL,
		timeout:          timeout,
	}
}

// Name identifies the provider in logs.
func (p *Provider) Name() string { return "gmail" }

// Session resolves credentials and returns a session whose HTTP client
// refreshes the access token transparently.
func (p *Provider) Session(ctx context.Context) (mail.Session, error) {
	ts, err := p.tokenSource(ctx)
	if err != nil {
		return nil, err
	}
	client := oauth2.NewClient(ctx, ts)
	client.Timeout = p.timeout
	return &session{
		httpClient:    client,
		sendURL:       sendURL,
		publicBaseURL: p.publicBaseURL,
	}, nil
}

// session is an authenticated Gmail transport handle.
type session struct {
	httpClient    *http.Client
	sendURL       string
	publicBaseURL string
}

// newSession builds a session with an explicit client and endpoint, used by
// tests to point at an httptest server.
func newSession(client *http.Client, sendURL, publicBaseURL string) *session {
	return &session{httpClient: client, sendURL: sendURL, publicBaseURL: publicBaseURL}
}

// Send builds the MIME message and submits it urlsafe-base64 encoded, per the
// Gmail API transport requirement. Transport and auth errors propagate to the
// caller; there is no retry.
func (s *session) Send(ctx context.Context, msg *mail.Message) (string, error) {
	raw, err := mail.BuildMIME(msg, s.publicBaseURL)
	if err != nil {
		return "", fmt.Errorf("build message: %w", err)
	}

	payload, err := json.Marshal(map[string]string{
		"raw": base64.URLEncoding.EncodeToString(raw),
	})
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.sendURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gmail API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("parsing response: %w", err)
	}
	return result.ID, nil
}

// Close releases the session. The underlying client holds no connection
// state that outlives the request, so this is a no-op.
func (s *session) Close() error { return nil }
