// internal/common/aws/ses.go
package aws

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

var ErrMissingRecipient = errors.New("email recipient is required")

// SESService is the part of the SES client the sender uses.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type Email struct {
	To      string
	ReplyTo string
	Subject string
	Body    string
}

// EmailSender delivers plain-text email through SES.
type EmailSender struct {
	client SESService
	from   string
}

func NewEmailSender(client SESService, from string) *EmailSender {
	return &EmailSender{client: client, from: from}
}

func NewSESEmailSender(ctx context.Context, region, from string) (*EmailSender, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewEmailSender(ses.NewFromConfig(cfg), from), nil
}

// Send returns the SES message id.
func (s *EmailSender) Send(ctx context.Context, e Email) (string, error) {
	to := strings.TrimSpace(e.To)
	if to == "" {
		return "", ErrMissingRecipient
	}

	input := &ses.SendEmailInput{
		Destination: &types.Destination{ToAddresses: []string{to}},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(e.Subject), Charset: aws.String("UTF-8")},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(e.Body), Charset: aws.String("UTF-8")},
			},
		},
		Source: aws.String(s.from),
	}
	if e.ReplyTo != "" {
		input.ReplyToAddresses = []string{e.ReplyTo}
	}

	out, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return "", fmt.Errorf("ses send to %s: %w", to, err)
	}
	return aws.ToString(out.MessageId), nil
}
