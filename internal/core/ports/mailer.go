package ports

import "context"

// EmailMessage is an outbound mail ready for delivery.
type EmailMessage struct {
	To       []string
	Subject  string
	HTMLBody string
}

// Mailer delivers a single message synchronously.
type Mailer interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// MailDispatcher accepts messages for asynchronous delivery. Enqueue never
// reports delivery failure; from the caller's perspective mail is
// fire-and-forget.
type MailDispatcher interface {
	Enqueue(msg EmailMessage)
}
