package booking

import (
	"context"
	"fmt"
	"time"

	domain "github.com/BruksfildServices01/auralynk/internal/domain/booking"
	"github.com/BruksfildServices01/auralynk/internal/models"
)

type FeedOptions struct {
	Upcoming   bool
	GroupByDay bool
}

type ReaderCard struct {
	ID             string            `json:"id"`
	DisplayName    string            `json:"displayName"`
	Bio            string            `json:"bio"`
	AvatarURL      string            `json:"avatarUrl,omitempty"`
	Services       []string          `json:"services"`
	AvailableSlots []string          `json:"availableSlots"`
	Days           []domain.DayGroup `json:"days,omitempty"`
}

// ReaderFeed lists every reader who declared slots, each with their
// reconciled availability.
type ReaderFeed struct {
	repo         domain.Repository
	availability *GetAvailability
	loc          *time.Location
	now          func() time.Time
}

func NewReaderFeed(
	repo domain.Repository,
	availability *GetAvailability,
	loc *time.Location,
) *ReaderFeed {
	if loc == nil {
		loc = time.UTC
	}
	return &ReaderFeed{
		repo:         repo,
		availability: availability,
		loc:          loc,
		now:          time.Now,
	}
}

func (uc *ReaderFeed) Execute(
	ctx context.Context,
	opts FeedOptions,
) ([]ReaderCard, error) {

	ctx, span := tracer.Start(ctx, "booking.ReaderFeed")
	defer span.End()

	readers, err := uc.repo.ListReadersWithSlots(ctx)
	if err != nil {
		return nil, fmt.Errorf("list readers: %w", err)
	}

	slots, err := uc.reconcileAll(ctx, readers)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	cards := make([]ReaderCard, 0, len(readers))
	for _, r := range readers {
		free := slots[r.ID]
		if opts.Upcoming {
			free = domain.UpcomingOnly(free, now)
		}

		card := ReaderCard{
			ID:             r.ID,
			DisplayName:    r.NameOrID(),
			Bio:            r.Bio,
			AvatarURL:      r.AvatarURL,
			Services:       nonNil(r.Services),
			AvailableSlots: nonNil(free),
		}
		if opts.GroupByDay {
			card.Days = domain.GroupByDay(free, uc.loc)
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// reconcileAll serves cached readers from the cache and loads the bookings
// of all the others in one query. Missed readers are re-read after their
// cache version is taken so a fill never carries slots older than it.
func (uc *ReaderFeed) reconcileAll(
	ctx context.Context,
	readers []models.User,
) (map[string][]string, error) {

	out := make(map[string][]string, len(readers))
	versions := make(map[string]int64)
	var misses []string
	for _, r := range readers {
		if cached, ok := uc.availability.cache.Get(ctx, r.ID); ok {
			out[r.ID] = cached
			continue
		}
		versions[r.ID] = uc.availability.cache.Version(ctx, r.ID)
		misses = append(misses, r.ID)
	}
	if len(misses) == 0 {
		return out, nil
	}

	fresh, err := uc.repo.GetUsersByIDs(ctx, misses)
	if err != nil {
		return nil, fmt.Errorf("reload readers: %w", err)
	}
	bookings, err := uc.repo.ListBookingsForReaders(ctx, misses)
	if err != nil {
		return nil, fmt.Errorf("list bookings for readers: %w", err)
	}
	byReader := make(map[string][]models.Booking, len(misses))
	for _, b := range bookings {
		byReader[b.ReaderID] = append(byReader[b.ReaderID], b)
	}

	for _, r := range readers {
		if _, done := out[r.ID]; done {
			continue
		}
		slots := r.AvailableSlots
		if u, ok := fresh[r.ID]; ok {
			slots = u.AvailableSlots
		}
		free := domain.Reconcile(slots, byReader[r.ID], uc.availability.policy)
		uc.availability.cache.Set(ctx, r.ID, versions[r.ID], free)
		out[r.ID] = free
	}
	return out, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
