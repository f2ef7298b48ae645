package booking

import "github.com/BruksfildServices01/auralynk/internal/models"

// BlockPolicy decides which bookings take a slot out of availability.
// Rejected bookings never block.
type BlockPolicy struct {
	PendingBlocks bool
}

func DefaultPolicy() BlockPolicy {
	return BlockPolicy{PendingBlocks: true}
}

func (p BlockPolicy) Blocks(s Status) bool {
	if !s.Valid() || !s.Active() {
		return false
	}
	if s == StatusPending {
		return p.PendingBlocks
	}
	return true
}

// Reconcile returns the declared slots that no blocking booking holds,
// in declaration order. Slots compare by exact string equality, so both
// sides must be canonical.
func Reconcile(slots []string, bookings []models.Booking, policy BlockPolicy) []string {
	held := make(map[string]struct{}, len(bookings))
	for _, b := range bookings {
		if policy.Blocks(Status(b.Status)) {
			held[b.SelectedTime] = struct{}{}
		}
	}

	out := make([]string, 0, len(slots))
	for _, s := range slots {
		if _, ok := held[s]; ok {
			continue
		}
		out = append(out, s)
	}
	return out
}
