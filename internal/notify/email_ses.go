package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/roblartech/contact-relay/pkg/logging"
)

type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESSender sends emails via AWS SES.
type SESSender struct {
	client sesAPI
	logger *logging.Logger
}

// NewSESSender creates a new AWS SES email sender.
func NewSESSender(client *sesv2.Client, logger *logging.Logger) *SESSender {
	if client == nil {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SESSender{
		client: client,
		logger: logger,
	}
}

// Provider implements Sender.
func (s *SESSender) Provider() string { return ProviderSES }

// Send sends an email via AWS SES.
func (s *SESSender) Send(ctx context.Context, msg Message) (Receipt, error) {
	if s.client == nil {
		return Receipt{}, fmt.Errorf("notify: SES client not configured")
	}
	email, err := msg.Resolve()
	if err != nil {
		return Receipt{}, err
	}

	output, err := s.client.SendEmail(ctx, buildSESInput(email))
	if err != nil {
		s.logger.Error("SES send failed", "error", err)
		var respErr *awshttp.ResponseError
		if errors.As(err, &respErr) {
			return Receipt{}, &UpstreamError{Provider: ProviderSES, StatusCode: respErr.HTTPStatusCode(), Body: respErr.Error()}
		}
		return Receipt{}, fmt.Errorf("notify: SES send failed: %w", err)
	}

	id := aws.ToString(output.MessageId)
	if id == "" {
		id = DefaultMessageID
	}
	s.logger.Info("email sent via SES", "subject", email.Subject, "message_id", id)
	return Receipt{MessageID: id}, nil
}

func buildSESInput(email *Email) *sesv2.SendEmailInput {
	to := make([]string, 0, len(email.To))
	for _, addr := range email.To {
		to = append(to, formatAddress(addr))
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(formatAddress(email.Sender)),
		Destination: &types.Destination{
			ToAddresses: to,
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(email.Subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(email.HTMLContent),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	if email.TextContent != "" {
		input.Content.Simple.Body.Text = &types.Content{
			Data:    aws.String(email.TextContent),
			Charset: aws.String("UTF-8"),
		}
	}
	if email.ReplyTo != nil && email.ReplyTo.Email != "" {
		input.ReplyToAddresses = []string{formatAddress(*email.ReplyTo)}
	}
	for _, tag := range email.Tags {
		input.EmailTags = append(input.EmailTags, types.MessageTag{
			Name:  aws.String(tag),
			Value: aws.String("true"),
		})
	}
	return input
}

// Ensure interface compliance
var _ Sender = (*SESSender)(nil)
