package notification

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/auralynk/internal/domain/booking"
	domain "github.com/BruksfildServices01/auralynk/internal/domain/notification"
	"github.com/BruksfildServices01/auralynk/internal/infra/events"
	"github.com/BruksfildServices01/auralynk/internal/models"
	"github.com/BruksfildServices01/auralynk/internal/timezone"
)

// Recorder turns booking events into user notifications. It is the
// consumer side of the booking event stream.
type Recorder struct {
	repo domain.Repository
	loc  *time.Location
	log  *zap.Logger
}

func NewRecorder(repo domain.Repository, loc *time.Location, log *zap.Logger) *Recorder {
	if loc == nil {
		loc = time.UTC
	}
	return &Recorder{
		repo: repo,
		loc:  loc,
		log:  log,
	}
}

func (r *Recorder) Handle(ctx context.Context, key string, body []byte) error {
	ev, err := events.Decode[events.BookingEvent](body)
	if err != nil {
		return err
	}

	names, err := r.repo.GetUsersByIDs(ctx, []string{ev.ClientID, ev.ReaderID})
	if err != nil {
		return fmt.Errorf("resolve names: %w", err)
	}
	name := func(id string) string {
		if u, ok := names[id]; ok {
			return u.NameOrID()
		}
		return id
	}

	when := ev.SelectedTime
	if at, err := booking.ParseSlot(ev.SelectedTime); err == nil {
		when = timezone.Display(at, r.loc)
	}

	var to, msg string
	switch key {
	case events.RKBookingCreated:
		to = ev.ReaderID
		msg = fmt.Sprintf("New booking request from %s for %s.", name(ev.ClientID), when)
	case events.RKBookingAccepted:
		to = ev.ClientID
		msg = fmt.Sprintf("%s accepted your booking for %s.", name(ev.ReaderID), when)
	case events.RKBookingRejected:
		to = ev.ClientID
		msg = fmt.Sprintf("%s declined your booking for %s.", name(ev.ReaderID), when)
	case events.RKBookingCancelled:
		b := models.Booking{ClientID: ev.ClientID, ReaderID: ev.ReaderID}
		to = b.Counterpart(ev.ActorID)
		msg = fmt.Sprintf("%s cancelled the booking for %s.", name(ev.ActorID), when)
	default:
		r.log.Debug("ignoring event", zap.String("key", key))
		return nil
	}

	if err := r.repo.AppendNotification(ctx, &models.Notification{
		UserID:  to,
		Message: msg,
	}); err != nil {
		return fmt.Errorf("append notification: %w", err)
	}
	return nil
}
