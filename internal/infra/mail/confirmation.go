package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/BruksfildServices01/auralynk/internal/timezone"
)

const ConfirmationSubject = "Booking Confirmed"

// Confirmations composes and sends session confirmation mails.
type Confirmations struct {
	sender Sender
	loc    *time.Location
}

func NewConfirmations(sender Sender, loc *time.Location) *Confirmations {
	if loc == nil {
		loc = time.UTC
	}
	return &Confirmations{sender: sender, loc: loc}
}

func (c *Confirmations) Build(email string, at time.Time) Message {
	return Message{
		ToEmail: email,
		Subject: ConfirmationSubject,
		Text:    fmt.Sprintf("Your session is booked for %s.", timezone.Display(at, c.loc)),
	}
}

func (c *Confirmations) SendConfirmation(ctx context.Context, email string, at time.Time) error {
	return c.sender.Send(ctx, c.Build(email, at))
}
