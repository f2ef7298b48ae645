package booking

import (
	"time"

	"github.com/BruksfildServices01/auralynk/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Accept(b *models.Booking, now time.Time) error {
	if err := CanAccept(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusAccepted)
	b.AcceptedAt = &now
	return nil
}

func Reject(b *models.Booking, now time.Time) error {
	if err := CanReject(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusRejected)
	b.RejectedAt = &now
	return nil
}

// New builds a pending booking for a canonical slot.
func New(clientID, readerID, slot string) *models.Booking {
	return &models.Booking{
		ClientID:     clientID,
		ReaderID:     readerID,
		SelectedTime: slot,
		Status:       string(InitialStatus()),
	}
}
