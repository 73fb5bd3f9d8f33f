package push

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"github.com/ruddypp/Paramata-System/internal/logger"
)

// Sender pushes a notification to a user's device topic.
type Sender interface {
	Send(ctx context.Context, userID, title, body string) error
}

type fcmSender struct {
	client *messaging.Client
}

// NewFCMSender builds a Sender over Firebase Cloud Messaging. An empty
// credentials file path returns a disabled sender.
func NewFCMSender(ctx context.Context, credentialsFile string) (Sender, error) {
	if credentialsFile == "" {
		logger.Info("FCM not configured, push delivery disabled")
		return &noopSender{}, nil
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("init fcm client: %w", err)
	}
	return &fcmSender{client: client}, nil
}

// Send publishes to the per-user topic; devices subscribe to "user-<id>"
// after login.
func (s *fcmSender) Send(ctx context.Context, userID, title, body string) error {
	msg := &messaging.Message{
		Topic: "user-" + userID,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
	}
	if _, err := s.client.Send(ctx, msg); err != nil {
		return fmt.Errorf("fcm send: %w", err)
	}
	return nil
}

// Noop returns a Sender that drops every message.
func Noop() Sender {
	return &noopSender{}
}

type noopSender struct{}

func (*noopSender) Send(_ context.Context, userID, title, _ string) error {
	logger.Debug("Push delivery disabled, dropping message", "user_id", userID, "title", title)
	return nil
}
