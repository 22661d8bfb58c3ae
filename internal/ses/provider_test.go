package ses

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	sesv2 "github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mycofoundr/email-service/internal/mail"
)

// mockSESClient implements SendEmailAPI for testing.
type mockSESClient struct {
	sendFn    func(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
	lastInput *sesv2.SendEmailInput
}

func (m *mockSESClient) SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	m.lastInput = params
	if m.sendFn != nil {
		return m.sendFn(ctx, params, optFns...)
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("ses-message-id")}, nil
}

func testMessage() *mail.Message {
	return &mail.Message{
		FromHeader:               "My App <no-reply@example.com>",
		FromEmail:                "no-reply@example.com",
		To:                       "a@example.com",
		Subject:                  "Hello",
		HTML:                     "<p>hello</p>",
		IncludeUnsubscribeFooter: true,
	}
}

func TestSend_RawContent(t *testing.T) {
	mock := &mockSESClient{}
	p := NewProviderWithClient(mock, "https://mail.example.com")

	sess, err := p.Session(context.Background())
	require.NoError(t, err)
	defer sess.Close()

	receipt, err := sess.Send(context.Background(), testMessage())
	require.NoError(t, err)
	assert.Equal(t, "ses-message-id", receipt)

	require.NotNil(t, mock.lastInput)
	require.NotNil(t, mock.lastInput.Content.Raw)
	raw := string(mock.lastInput.Content.Raw.Data)
	assert.Contains(t, raw, "To: a@example.com")
	assert.Contains(t, raw, "List-Unsubscribe-Post: List-Unsubscribe=One-Click")
	assert.Contains(t, raw, "<p>hello</p>")
}

func TestSend_ErrorPropagates(t *testing.T) {
	mock := &mockSESClient{
		sendFn: func(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
			return nil, errors.New("quota exceeded")
		},
	}
	p := NewProviderWithClient(mock, "https://mail.example.com")

	sess, _ := p.Session(context.Background())
	_, err := sess.Send(context.Background(), testMessage())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}
