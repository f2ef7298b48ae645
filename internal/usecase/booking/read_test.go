package booking

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/auralynk/internal/models"
)

func seedBooking(t *testing.T, repo *fakeRepo, id, client, slot, status string) {
	t.Helper()
	if err := repo.CreateBooking(context.Background(), &models.Booking{
		ID:           id,
		ClientID:     client,
		ReaderID:     "reader1",
		SelectedTime: slot,
		Status:       status,
	}); err != nil {
		t.Fatal(err)
	}
}

func TestListBookings(t *testing.T) {
	f := newFixture(t)
	seedBooking(t, f.repo, "p2", "client2", slotC, "pending")
	seedBooking(t, f.repo, "p1", "client1", slotB, "pending")
	seedBooking(t, f.repo, "past", "client1", "2024-12-30T10:00:00Z", "accepted")
	seedBooking(t, f.repo, "up", "client1", slotA, "accepted")
	seedBooking(t, f.repo, "no", "client1", slotA, "rejected")

	uc := NewListBookings(f.repo)
	uc.now = func() time.Time { return fixedNow }
	ctx := context.Background()

	pending, err := uc.Execute(ctx, "reader1", ViewPending)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 2 || pending[0].ID != "p1" || pending[1].ID != "p2" {
		t.Fatalf("pending = %+v", pending)
	}
	if pending[0].ClientName != "Ann" || pending[1].ClientName != "client2" {
		t.Fatalf("names = %q, %q", pending[0].ClientName, pending[1].ClientName)
	}

	readerUpcoming, err := uc.Execute(ctx, "reader1", ViewUpcoming)
	if err != nil {
		t.Fatal(err)
	}
	if len(readerUpcoming) != 1 || readerUpcoming[0].ID != "up" {
		t.Fatalf("reader upcoming = %+v", readerUpcoming)
	}

	clientUpcoming, err := uc.Execute(ctx, "client1", ViewUpcoming)
	if err != nil {
		t.Fatal(err)
	}
	if len(clientUpcoming) != 1 || clientUpcoming[0].ReaderName != "Madame Zora" {
		t.Fatalf("client upcoming = %+v", clientUpcoming)
	}

	clientPending, err := uc.Execute(ctx, "client1", ViewPending)
	if err != nil {
		t.Fatal(err)
	}
	if clientPending == nil || len(clientPending) != 0 {
		t.Fatalf("client pending = %#v", clientPending)
	}

	_, err = uc.Execute(ctx, "reader1", View("everything"))
	assertCode(t, err, "invalid_view")

	count, err := NewPendingCount(f.repo).Execute(ctx, "reader1")
	if err != nil || count != 2 {
		t.Fatalf("count = %d, %v", count, err)
	}
}

func TestUpcomingIncludesReaderBookingsAsClient(t *testing.T) {
	f := newFixture(t)
	f.repo.users["reader2"] = &models.User{ID: "reader2", Role: models.RoleReader, DisplayName: "Orion"}

	seedBooking(t, f.repo, "mine", "client1", slotA, "accepted")
	if err := f.repo.CreateBooking(context.Background(), &models.Booking{
		ID:           "booked",
		ClientID:     "reader1",
		ReaderID:     "reader2",
		SelectedTime: slotB,
		Status:       "accepted",
	}); err != nil {
		t.Fatal(err)
	}

	uc := NewListBookings(f.repo)
	uc.now = func() time.Time { return fixedNow }

	got, err := uc.Execute(context.Background(), "reader1", ViewUpcoming)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != "mine" || got[1].ID != "booked" {
		t.Fatalf("upcoming = %+v", got)
	}
	if got[1].ReaderName != "Orion" || got[1].ClientName != "Madame Zora" {
		t.Fatalf("names = %q / %q", got[1].ReaderName, got[1].ClientName)
	}
}

func TestReaderFeed(t *testing.T) {
	f := newFixture(t)
	f.repo.users["reader2"] = &models.User{ID: "reader2", Role: models.RoleReader, AvailableSlots: []string{"2024-12-31T10:00:00Z"}}
	seedBooking(t, f.repo, "p1", "client1", slotB, "pending")

	uc := NewReaderFeed(f.repo, f.availability, time.UTC)
	uc.now = func() time.Time { return fixedNow }

	cards, err := uc.Execute(context.Background(), FeedOptions{Upcoming: true, GroupByDay: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(cards) != 2 {
		t.Fatalf("cards = %+v", cards)
	}

	zora := cards[0]
	if !reflect.DeepEqual(zora.AvailableSlots, []string{slotA, slotC}) {
		t.Fatalf("reader1 slots = %v", zora.AvailableSlots)
	}
	if len(zora.Days) != 2 || zora.Days[0].Day != "2025-01-01" {
		t.Fatalf("reader1 days = %+v", zora.Days)
	}

	if r2 := cards[1]; len(r2.AvailableSlots) != 0 || r2.DisplayName != "reader2" {
		t.Fatalf("reader2 = %+v", r2)
	}

	// second call is served from the cache
	before := f.repo.calls
	if _, err := uc.Execute(context.Background(), FeedOptions{}); err != nil {
		t.Fatal(err)
	}
	if got := f.repo.calls - before; got != 1 {
		t.Fatalf("store calls on warm cache = %d, want 1", got)
	}
}

type fakeProvisioner struct {
	calls int
	url   string
	err   error
}

func (p *fakeProvisioner) CreateRoom(context.Context) (string, error) {
	p.calls++
	return p.url, p.err
}

func TestJoinSession(t *testing.T) {
	f := newFixture(t)
	seedBooking(t, f.repo, "acc", "client1", slotA, "accepted")
	seedBooking(t, f.repo, "pen", "client1", slotB, "pending")

	prov := &fakeProvisioner{url: "https://example.daily.co/r1"}
	join := NewJoinSession(f.repo, prov, f.hub, zap.NewNop())
	join.now = func() time.Time { return time.Date(2025, 1, 1, 9, 50, 0, 0, time.UTC) }
	ctx := context.Background()

	view, err := join.Execute(ctx, "client1", "acc")
	if err != nil {
		t.Fatal(err)
	}
	if view.RoomURL != prov.url || !view.Joinable {
		t.Fatalf("view = %+v", view)
	}

	if _, err := join.Execute(ctx, "reader1", "acc"); err != nil {
		t.Fatal(err)
	}
	if prov.calls != 1 {
		t.Fatalf("provisioned %d rooms, want 1", prov.calls)
	}
	if len(f.hub.sent["reader1"]) != 1 {
		t.Fatalf("room ready not announced: %v", f.hub.sent)
	}

	_, err = join.Execute(ctx, "client1", "pen")
	assertCode(t, err, "booking_not_accepted")

	_, err = join.Execute(ctx, "client2", "acc")
	assertCode(t, err, "forbidden")
}

func TestJoinSessionProvisionFailure(t *testing.T) {
	f := newFixture(t)
	seedBooking(t, f.repo, "acc", "client1", slotA, "accepted")

	join := NewJoinSession(f.repo, &fakeProvisioner{err: errors.New("502")}, f.hub, zap.NewNop())
	_, err := join.Execute(context.Background(), "client1", "acc")
	assertCode(t, err, "room_provision_failed")

	if got := f.repo.bookings["acc"].RoomURL; got != "" {
		t.Fatalf("room url stored on failure: %q", got)
	}
}

func TestGetSessionJoinWindow(t *testing.T) {
	f := newFixture(t)
	seedBooking(t, f.repo, "acc", "client1", slotA, "accepted")
	f.repo.bookings["acc"].RoomURL = "https://example.daily.co/r1"

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"too early", time.Date(2025, 1, 1, 9, 44, 59, 0, time.UTC), false},
		{"opens", time.Date(2025, 1, 1, 9, 45, 0, 0, time.UTC), true},
		{"closes", time.Date(2025, 1, 1, 11, 0, 0, 0, time.UTC), true},
		{"too late", time.Date(2025, 1, 1, 11, 0, 1, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewGetSession(f.repo)
			uc.now = func() time.Time { return tt.now }

			view, err := uc.Execute(context.Background(), "reader1", "acc")
			if err != nil {
				t.Fatal(err)
			}
			if view.Joinable != tt.want {
				t.Fatalf("joinable = %v, want %v", view.Joinable, tt.want)
			}
		})
	}
}
