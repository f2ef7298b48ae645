package booking

import (
	"context"
	"time"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/auralynk/internal/domain/booking"
	"github.com/BruksfildServices01/auralynk/internal/httperr"
	"github.com/BruksfildServices01/auralynk/internal/infra/realtime"
	"github.com/BruksfildServices01/auralynk/internal/models"
)

const ChangeRoomReady = "booking.room_ready"

type SessionView struct {
	BookingID    string    `json:"bookingId"`
	SelectedTime string    `json:"selectedTime"`
	Status       string    `json:"status"`
	RoomURL      string    `json:"roomUrl,omitempty"`
	Joinable     bool      `json:"joinable"`
	OpensAt      time.Time `json:"opensAt"`
	ClosesAt     time.Time `json:"closesAt"`
}

func sessionView(b *models.Booking, now time.Time) (*SessionView, error) {
	at, err := domain.ParseSlot(b.SelectedTime)
	if err != nil {
		return nil, err
	}
	return &SessionView{
		BookingID:    b.ID,
		SelectedTime: b.SelectedTime,
		Status:       b.Status,
		RoomURL:      b.RoomURL,
		Joinable:     b.Status == string(domain.StatusAccepted) && domain.IsJoinable(at, b.RoomURL, now),
		OpensAt:      at.Add(-domain.JoinOpensBefore),
		ClosesAt:     at.Add(domain.JoinClosesAfter),
	}, nil
}

func participantBooking(
	ctx context.Context,
	repo domain.Repository,
	userID string,
	bookingID string,
) (*models.Booking, error) {
	b, err := repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, notFound(err, "booking_not_found")
	}
	if !b.IsParticipant(userID) {
		return nil, httperr.ErrBusiness("forbidden")
	}
	return b, nil
}

// ======================================================
// GET SESSION
// ======================================================

type GetSession struct {
	repo domain.Repository
	now  func() time.Time
}

func NewGetSession(repo domain.Repository) *GetSession {
	return &GetSession{
		repo: repo,
		now:  time.Now,
	}
}

func (uc *GetSession) Execute(
	ctx context.Context,
	userID string,
	bookingID string,
) (*SessionView, error) {

	b, err := participantBooking(ctx, uc.repo, userID, bookingID)
	if err != nil {
		return nil, err
	}
	return sessionView(b, uc.now())
}

// ======================================================
// JOIN SESSION
// ======================================================

// JoinSession provisions the video room of an accepted booking the first
// time a participant asks for it. Concurrent first joins may both mint a
// room; only the first stored URL is kept and returned to both.
type JoinSession struct {
	repo        domain.Repository
	provisioner Provisioner
	hub         ChangePublisher
	log         *zap.Logger
	now         func() time.Time
}

func NewJoinSession(
	repo domain.Repository,
	provisioner Provisioner,
	hub ChangePublisher,
	log *zap.Logger,
) *JoinSession {
	return &JoinSession{
		repo:        repo,
		provisioner: provisioner,
		hub:         hub,
		log:         log,
		now:         time.Now,
	}
}

func (uc *JoinSession) Execute(
	ctx context.Context,
	userID string,
	bookingID string,
) (*SessionView, error) {

	ctx, span := tracer.Start(ctx, "booking.JoinSession")
	defer span.End()

	b, err := participantBooking(ctx, uc.repo, userID, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != string(domain.StatusAccepted) {
		return nil, httperr.ErrBusiness("booking_not_accepted")
	}

	if b.RoomURL == "" {
		url, err := uc.provisioner.CreateRoom(ctx)
		if err != nil {
			uc.log.Error("room provisioning failed",
				zap.String("booking_id", b.ID),
				zap.Error(err),
			)
			return nil, httperr.ErrBusiness("room_provision_failed")
		}

		stored, err := uc.repo.SetRoomURLIfEmpty(ctx, b.ID, url)
		if err != nil {
			return nil, notFound(err, "booking_not_found")
		}
		b.RoomURL = stored

		uc.announce(ctx, b)
	}

	return sessionView(b, uc.now())
}

func (uc *JoinSession) announce(ctx context.Context, b *models.Booking) {
	change := realtime.Change{
		Type:      ChangeRoomReady,
		BookingID: b.ID,
		ReaderID:  b.ReaderID,
		ClientID:  b.ClientID,
		Status:    b.Status,
		At:        uc.now().UTC(),
	}
	for _, uid := range []string{b.ClientID, b.ReaderID} {
		if err := uc.hub.Publish(ctx, uid, change); err != nil {
			uc.log.Warn("live change publish failed", zap.String("user_id", uid), zap.Error(err))
		}
	}
}
