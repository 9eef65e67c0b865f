package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/examplecore/account-service/internal/core/ports"
)

type recordingMailer struct {
	mu       sync.Mutex
	sent     []ports.EmailMessage
	attempts int
	err      error
}

func (m *recordingMailer) Send(_ context.Context, msg ports.EmailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts++
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *recordingMailer) tries() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attempts
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met in time")
}

func TestMailDispatcher_Delivers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := &recordingMailer{}
	d := NewMailDispatcher(2, mailer, zerolog.Nop())
	d.Start(ctx)

	for _, to := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		d.Enqueue(ports.EmailMessage{To: []string{to}, Subject: "hello", HTMLBody: "<p>hi</p>"})
	}

	waitFor(t, func() bool { return mailer.count() == 3 })
}

func TestMailDispatcher_SwallowsFailures(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := &recordingMailer{err: errors.New("relay down")}
	d := NewMailDispatcher(1, mailer, zerolog.Nop())
	d.Start(ctx)

	// Enqueue never blocks or reports the failure; a later message on the
	// same worker still gets attempted.
	d.Enqueue(ports.EmailMessage{To: []string{"a@example.com"}, Subject: "one"})
	waitFor(t, func() bool { return mailer.tries() == 1 })

	mailer.mu.Lock()
	mailer.err = nil
	mailer.mu.Unlock()

	d.Enqueue(ports.EmailMessage{To: []string{"a@example.com"}, Subject: "two"})
	waitFor(t, func() bool { return mailer.count() == 1 })

	if got := mailer.sent[0].Subject; got != "two" {
		t.Fatalf("delivered subject = %q, want %q", got, "two")
	}
}

func TestMailDispatcher_DropsEmptyRecipients(t *testing.T) {
	d := NewMailDispatcher(1, &recordingMailer{}, zerolog.Nop())
	// No worker running: an enqueue without recipients must not block or
	// panic, it is silently dropped.
	d.Enqueue(ports.EmailMessage{Subject: "nobody"})
}
