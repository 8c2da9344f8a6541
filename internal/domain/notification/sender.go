package notification

import "context"

// Message is one outbound email
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// EmailSender delivers messages through an external mail provider
type EmailSender interface {
	Send(ctx context.Context, msg Message) error
}
