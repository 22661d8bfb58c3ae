package gmail

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// scopes required for sending mail via the Gmail API.
var scopes = []string{"https://www.googleapis.com/auth/gmail.send"}

// tokenSource resolves OAuth2 credentials using (in order):
//  1. GOOGLE_TOKEN_JSON — full authorized-user token payload in an env var
//     (best for containerized deployments)
//  2. GOOGLE_CLIENT_ID / GOOGLE_CLIENT_SECRET / GOOGLE_REFRESH_TOKEN
//  3. Local token file written during interactive developer setup
//
// Sources are tried strictly in that order; a malformed higher-priority
// source falls through to the next one.
func (p *Provider) tokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	if raw := os.Getenv("GOOGLE_TOKEN_JSON"); raw != "" {
		creds, err := google.CredentialsFromJSON(ctx, []byte(raw), scopes...)
		if err == nil {
			return creds.TokenSource, nil
		}
	}

	refresh := os.Getenv("GOOGLE_REFRESH_TOKEN")
	clientID := os.Getenv("GOOGLE_CLIENT_ID")
	clientSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	if refresh != "" && clientID != "" && clientSecret != "" {
		conf := &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       scopes,
		}
		return conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refresh}), nil
	}

	data, err := os.ReadFile(p.tokenFile)
	if err != nil {
		return nil, fmt.Errorf("no Gmail credentials: set GOOGLE_TOKEN_JSON, the client-id/secret/refresh-token triple, or provision %s (see %s): %w",
			p.tokenFile, p.clientSecretFile, err)
	}
	creds, err := google.CredentialsFromJSON(ctx, data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse token file %s: %w", p.tokenFile, err)
	}
	return creds.TokenSource, nil
}
