package mail

import (
	"context"
	"sync"

	"sealpost/internal/sealpost"
)

// MemoryMailer records messages instead of delivering them. Use in tests
// and for dry runs. Safe for concurrent use.
type MemoryMailer struct {
	mu   sync.Mutex
	sent []*sealpost.Message

	// FailWith, when non-nil, is returned by every Send after recording
	// the attempt.
	FailWith error
}

// NewMemoryMailer creates an empty recording mailer.
func NewMemoryMailer() *MemoryMailer {
	return &MemoryMailer{}
}

// Send records the message.
func (m *MemoryMailer) Send(_ context.Context, msg *sealpost.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sent = append(m.sent, msg)
	return m.FailWith
}

// Sent returns a copy of the recorded messages in send order.
func (m *MemoryMailer) Sent() []*sealpost.Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*sealpost.Message, len(m.sent))
	copy(out, m.sent)
	return out
}

// Compile-time check that MemoryMailer implements the Mailer interface.
var _ sealpost.Mailer = (*MemoryMailer)(nil)
