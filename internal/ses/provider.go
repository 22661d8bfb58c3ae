// Package ses sends mail through the AWS SES v2 API as an alternative to the
// Gmail transport.
package ses

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	sesv2 "github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/mycofoundr/email-service/internal/config"
	"github.com/mycofoundr/email-service/internal/mail"
)

// SendEmailAPI is the interface for the SES v2 SendEmail operation.
// Used for testing with mock implementations.
type SendEmailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Provider acquires SES sessions. The SES client carries its own credential
// cache, so sessions share one client built at construction time.
type Provider struct {
	client        SendEmailAPI
	publicBaseURL string
}

// NewProvider creates an SES provider. Static credentials from config are
// used when present; otherwise the default AWS credential chain applies.
func NewProvider(ctx context.Context, cfg config.SESConfig, publicBaseURL string) (*Provider, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Provider{
		client:        sesv2.NewFromConfig(awsCfg),
		publicBaseURL: publicBaseURL,
	}, nil
}

// NewProviderWithClient creates a Provider with a custom client, used for testing.
func NewProviderWithClient(client SendEmailAPI, publicBaseURL string) *Provider {
	return &Provider{client: client, publicBaseURL: publicBaseURL}
}

// Name identifies the provider in logs.
func (p *Provider) Name() string { return "ses" }

// Session returns a transport handle bound to the shared SES client.
func (p *Provider) Session(_ context.Context) (mail.Session, error) {
	return &session{client: p.client, publicBaseURL: p.publicBaseURL}, nil
}

type session struct {
	client        SendEmailAPI
	publicBaseURL string
}

// Send submits the raw MIME message via SES v2. Errors propagate uncaught;
// there is no retry.
func (s *session) Send(ctx context.Context, msg *mail.Message) (string, error) {
	raw, err := mail.BuildMIME(msg, s.publicBaseURL)
	if err != nil {
		return "", fmt.Errorf("build message: %w", err)
	}

	out, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		Content: &types.EmailContent{
			Raw: &types.RawMessage{Data: raw},
		},
	})
	if err != nil {
		return "", fmt.Errorf("SES send: %w", err)
	}
	return aws.ToString(out.MessageId), nil
}

func (s *session) Close() error { return nil }
