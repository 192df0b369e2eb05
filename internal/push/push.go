package push

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// Sender is the real-time push contract used to notify conversation
// participants of new messages and conversations.
type Sender interface {
	Publish(ctx context.Context, targetUserID string, event string, payload map[string]string) error
}

type fcmSender struct {
	client *messaging.Client
}

func New(ctx context.Context, credentialsPath string) (Sender, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, err
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, err
	}

	return &fcmSender{
		client: client,
	}, nil
}

func (s *fcmSender) Publish(ctx context.Context, targetUserID string, event string, payload map[string]string) error {
	data := map[string]string{
		"event": event,
	}
	for key, value := range payload {
		data[key] = value
	}

	// Clients subscribe to a per-user topic after sign-in.
	_, err := s.client.Send(ctx, &messaging.Message{
		Topic: "user-" + targetUserID,
		Data:  data,
	})
	return err
}
