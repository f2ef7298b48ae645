package booking

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/auralynk/internal/audit"
	"github.com/BruksfildServices01/auralynk/internal/httperr"
	"github.com/BruksfildServices01/auralynk/internal/infra/events"
	"github.com/BruksfildServices01/auralynk/internal/infra/realtime"
	"github.com/BruksfildServices01/auralynk/internal/models"
)

var tracer = otel.Tracer("github.com/BruksfildServices01/auralynk/internal/usecase/booking")

// ======================================================
// PORTS
// ======================================================

// AvailabilityCache fills are versioned: Version is read before the store
// and Set drops the entry if an Invalidate happened in between.
type AvailabilityCache interface {
	Get(ctx context.Context, readerID string) ([]string, bool)
	Version(ctx context.Context, readerID string) int64
	Set(ctx context.Context, readerID string, version int64, slots []string)
	Invalidate(ctx context.Context, readerIDs ...string)
}

type ChangePublisher interface {
	Publish(ctx context.Context, userID string, ch realtime.Change) error
}

type Confirmer interface {
	SendConfirmation(ctx context.Context, email string, at time.Time) error
}

type Provisioner interface {
	CreateRoom(ctx context.Context) (string, error)
}

// ======================================================
// FAN-OUT
// ======================================================

// Fanout runs the side effects every booking mutation shares: the reader's
// cached availability is dropped, both participants get a live change, a
// domain event is published and an audit entry is queued. None of them can
// fail the mutation.
type Fanout struct {
	cache  AvailabilityCache
	hub    ChangePublisher
	events events.Publisher
	audit  *audit.Dispatcher
	log    *zap.Logger
	now    func() time.Time
}

func NewFanout(
	cache AvailabilityCache,
	hub ChangePublisher,
	pub events.Publisher,
	dispatcher *audit.Dispatcher,
	log *zap.Logger,
) *Fanout {
	return &Fanout{
		cache:  cache,
		hub:    hub,
		events: pub,
		audit:  dispatcher,
		log:    log,
		now:    time.Now,
	}
}

func (f *Fanout) BookingChanged(
	ctx context.Context,
	key string,
	b *models.Booking,
	actorID string,
) {
	f.cache.Invalidate(ctx, b.ReaderID)

	change := realtime.Change{
		Type:      key,
		BookingID: b.ID,
		ReaderID:  b.ReaderID,
		ClientID:  b.ClientID,
		Status:    b.Status,
		At:        f.now().UTC(),
	}
	for _, uid := range []string{b.ClientID, b.ReaderID} {
		if err := f.hub.Publish(ctx, uid, change); err != nil {
			f.log.Warn("live change publish failed",
				zap.String("user_id", uid),
				zap.String("booking_id", b.ID),
				zap.Error(err),
			)
		}
	}

	ev := events.BookingEvent{
		BookingID:    b.ID,
		ClientID:     b.ClientID,
		ReaderID:     b.ReaderID,
		SelectedTime: b.SelectedTime,
		Status:       b.Status,
		ActorID:      actorID,
	}
	if err := f.events.Publish(ctx, key, ev); err != nil {
		f.log.Warn("booking event publish failed",
			zap.String("key", key),
			zap.String("booking_id", b.ID),
			zap.Error(err),
		)
	}

	f.audit.Dispatch(audit.Event{
		ActorID:  actorID,
		Action:   key,
		Entity:   "booking",
		EntityID: b.ID,
		Metadata: map[string]any{
			"reader_id":     b.ReaderID,
			"client_id":     b.ClientID,
			"selected_time": b.SelectedTime,
			"status":        b.Status,
		},
	})
}

// ======================================================
// HELPERS
// ======================================================

func notFound(err error, code string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrBusiness(code)
	}
	return err
}
