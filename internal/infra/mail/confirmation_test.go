package mail

import (
	"context"
	"errors"
	"testing"
	"time"
)

type recordingSender struct {
	sent []Message
	err  error
}

func (s *recordingSender) Send(_ context.Context, msg Message) error {
	s.sent = append(s.sent, msg)
	return s.err
}

func TestSendConfirmation(t *testing.T) {
	s := &recordingSender{}
	c := NewConfirmations(s, time.UTC)

	at := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	if err := c.SendConfirmation(context.Background(), "client@example.com", at); err != nil {
		t.Fatal(err)
	}

	if len(s.sent) != 1 {
		t.Fatalf("sent %d messages", len(s.sent))
	}
	got := s.sent[0]
	if got.ToEmail != "client@example.com" || got.Subject != ConfirmationSubject {
		t.Fatalf("message = %+v", got)
	}
	if want := "Your session is booked for Wed, Jan 1 2025 at 10:00 UTC."; got.Text != want {
		t.Fatalf("text = %q, want %q", got.Text, want)
	}
}

func TestSendConfirmationPropagatesError(t *testing.T) {
	boom := errors.New("smtp down")
	c := NewConfirmations(&recordingSender{err: boom}, nil)

	if err := c.SendConfirmation(context.Background(), "a@b.co", time.Now()); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}
