package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// AlertNotifier is the capability the policy engine uses to raise security
// alerts. The engine never talks to a mail provider directly; tests inject a
// no-op or recording implementation.
type AlertNotifier interface {
	NotifyLockout(ctx context.Context, username, ipAddress string, lockedAt time.Time) error
}

// NoopNotifier discards alerts. Used when alerting is disabled and in tests.
type NoopNotifier struct{}

func (NoopNotifier) NotifyLockout(ctx context.Context, username, ipAddress string, lockedAt time.Time) error {
	return nil
}

// SESNotifier sends lockout alerts to the security address using AWS SES.
type SESNotifier struct {
	sesClient   *ses.Client
	fromAddress string
	toAddress   string
	logger      *slog.Logger
}

// NewSESNotifier creates a new SES-backed alert notifier
func NewSESNotifier(region, fromAddress, toAddress string, logger *slog.Logger) (*SESNotifier, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &SESNotifier{
		sesClient:   ses.NewFromConfig(cfg),
		fromAddress: fromAddress,
		toAddress:   toAddress,
		logger:      logger,
	}, nil
}

// NotifyLockout emails the security address about a tripped lockout.
func (n *SESNotifier) NotifyLockout(ctx context.Context, username, ipAddress string, lockedAt time.Time) error {
	subject := fmt.Sprintf("Account lockout: %s", username)
	body := fmt.Sprintf(
		"Account %q was locked at %s after repeated failed login attempts.\n\nLast attempt origin: %s\n",
		username, lockedAt.UTC().Format(time.RFC3339), ipAddress,
	)

	input := &ses.SendEmailInput{
		Source: aws.String(n.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{n.toAddress},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data:    aws.String(body),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}

	if _, err := n.sesClient.SendEmail(ctx, input); err != nil {
		n.logger.Error("failed to send lockout alert",
			slog.String("username", username),
			slog.Any("error", err))
		return fmt.Errorf("failed to send lockout alert: %w", err)
	}

	n.logger.Info("lockout alert sent", slog.String("username", username))
	return nil
}
