package booking

import (
	"context"
	"time"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/auralynk/internal/domain/booking"
	"github.com/BruksfildServices01/auralynk/internal/httperr"
	"github.com/BruksfildServices01/auralynk/internal/infra/events"
	"github.com/BruksfildServices01/auralynk/internal/models"
)

type AcceptBooking struct {
	repo    domain.Repository
	confirm Confirmer
	fanout  *Fanout
	log     *zap.Logger
	now     func() time.Time
}

func NewAcceptBooking(
	repo domain.Repository,
	confirm Confirmer,
	fanout *Fanout,
	log *zap.Logger,
) *AcceptBooking {
	return &AcceptBooking{
		repo:    repo,
		confirm: confirm,
		fanout:  fanout,
		log:     log,
		now:     time.Now,
	}
}

// Execute accepts a pending booking on behalf of its reader. The slot is
// removed from the reader in the same transaction. The confirmation mail is
// sent after commit and its failure only gets logged.
func (uc *AcceptBooking) Execute(
	ctx context.Context,
	readerID string,
	bookingID string,
) (*models.Booking, error) {

	ctx, span := tracer.Start(ctx, "booking.Accept")
	defer span.End()

	b, err := uc.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, notFound(err, "booking_not_found")
	}
	if b.ReaderID != readerID {
		return nil, httperr.ErrBusiness("forbidden")
	}

	if err := domain.Accept(b, uc.now().UTC()); err != nil {
		return nil, err
	}

	if err := uc.repo.AcceptBooking(ctx, b); err != nil {
		if httperr.IsUniqueViolation(err) {
			return nil, httperr.ErrBusiness("slot_already_booked")
		}
		return nil, notFound(err, "booking_not_found")
	}

	uc.fanout.BookingChanged(ctx, events.RKBookingAccepted, b, readerID)
	uc.sendConfirmation(ctx, b)

	return b, nil
}

func (uc *AcceptBooking) sendConfirmation(ctx context.Context, b *models.Booking) {
	log := uc.log.With(zap.String("booking_id", b.ID))

	client, err := uc.repo.GetUser(ctx, b.ClientID)
	if err != nil {
		log.Warn("confirmation skipped: client lookup failed", zap.Error(err))
		return
	}
	if client.Email == "" {
		log.Info("confirmation skipped: client has no email")
		return
	}

	at, err := domain.ParseSlot(b.SelectedTime)
	if err != nil {
		log.Warn("confirmation skipped: bad slot", zap.Error(err))
		return
	}

	if err := uc.confirm.SendConfirmation(ctx, client.Email, at); err != nil {
		log.Error("confirmation email failed", zap.Error(err))
	}
}
