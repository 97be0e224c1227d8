package sealpost

import "context"

// Attachment is a named file payload included with a message.
type Attachment struct {
	FileName string
	Data     []byte
}

// Message is an outbound email.
type Message struct {
	To         string
	Subject    string
	Body       string
	Attachment *Attachment // optional
}

// Mailer delivers messages. Failures are reported back to the caller;
// delivery is one-shot with no retry.
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}
