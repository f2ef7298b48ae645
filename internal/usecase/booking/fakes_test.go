package booking

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/auralynk/internal/audit"
	domain "github.com/BruksfildServices01/auralynk/internal/domain/booking"
	"github.com/BruksfildServices01/auralynk/internal/httperr"
	"github.com/BruksfildServices01/auralynk/internal/infra/realtime"
	"github.com/BruksfildServices01/auralynk/internal/models"
)

// --------------------------------------------------
// Repository
// --------------------------------------------------

type fakeRepo struct {
	mu       sync.Mutex
	users    map[string]*models.User
	bookings map[string]*models.Booking
	seq      int

	calls     int
	mutations int

	acceptErr error
}

func newFakeRepo(users ...*models.User) *fakeRepo {
	r := &fakeRepo{
		users:    map[string]*models.User{},
		bookings: map[string]*models.Booking{},
	}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeRepo) touch(mutating bool) {
	r.calls++
	if mutating {
		r.mutations++
	}
}

func (r *fakeRepo) GetUser(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch(false)
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	cp.AvailableSlots = append([]string(nil), u.AvailableSlots...)
	return &cp, nil
}

func (r *fakeRepo) GetUsersByIDs(_ context.Context, ids []string) (map[string]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch(false)
	out := map[string]models.User{}
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out[id] = *u
		}
	}
	return out, nil
}

func (r *fakeRepo) ListReadersWithSlots(context.Context) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch(false)
	var out []models.User
	for _, u := range r.users {
		if u.IsReader() && len(u.AvailableSlots) > 0 {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeRepo) CreateBooking(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch(true)
	if b.ID == "" {
		r.seq++
		b.ID = "b" + string(rune('0'+r.seq))
	}
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *fakeRepo) GetBooking(_ context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch(false)
	b, ok := r.bookings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeRepo) filter(match func(*models.Booking) bool, statuses []domain.Status) []models.Booking {
	out := []models.Booking{}
	for _, b := range r.bookings {
		if !match(b) {
			continue
		}
		if len(statuses) > 0 {
			ok := false
			for _, s := range statuses {
				if string(s) == b.Status {
					ok = true
				}
			}
			if !ok {
				continue
			}
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SelectedTime < out[j].SelectedTime })
	return out
}

func (r *fakeRepo) ListBookingsForReader(_ context.Context, readerID string, statuses ...domain.Status) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch(false)
	return r.filter(func(b *models.Booking) bool { return b.ReaderID == readerID }, statuses), nil
}

func (r *fakeRepo) ListBookingsForReaders(_ context.Context, ids []string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch(false)
	set := map[string]bool{}
	for _, id := range ids {
		set[id] = true
	}
	return r.filter(func(b *models.Booking) bool { return set[b.ReaderID] }, nil), nil
}

func (r *fakeRepo) ListBookingsForClient(_ context.Context, clientID string, statuses ...domain.Status) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch(false)
	return r.filter(func(b *models.Booking) bool { return b.ClientID == clientID }, statuses), nil
}

func (r *fakeRepo) CountBookingsForReader(_ context.Context, readerID string, status domain.Status) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch(false)
	return int64(len(r.filter(func(b *models.Booking) bool { return b.ReaderID == readerID }, []domain.Status{status}))), nil
}

func (r *fakeRepo) AcceptBooking(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch(true)
	if r.acceptErr != nil {
		return r.acceptErr
	}
	cur, ok := r.bookings[b.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if cur.Status != string(domain.StatusPending) {
		return httperr.ErrBusiness("invalid_state")
	}
	cur.Status = b.Status
	cur.AcceptedAt = b.AcceptedAt
	reader := r.users[b.ReaderID]
	reader.AvailableSlots = domain.RemoveSlot(reader.AvailableSlots, b.SelectedTime)
	return nil
}

func (r *fakeRepo) RejectBooking(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch(true)
	cur, ok := r.bookings[b.ID]
	if !ok || cur.Status != string(domain.StatusPending) {
		return httperr.ErrBusiness("invalid_state")
	}
	cur.Status = b.Status
	cur.RejectedAt = b.RejectedAt
	return nil
}

func (r *fakeRepo) DeleteBooking(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch(true)
	cur, ok := r.bookings[b.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.bookings, b.ID)
	reader := r.users[cur.ReaderID]
	reader.AvailableSlots = domain.RestoreSlot(reader.AvailableSlots, cur.SelectedTime)
	return nil
}

func (r *fakeRepo) SetRoomURLIfEmpty(_ context.Context, id string, url string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch(true)
	b, ok := r.bookings[id]
	if !ok {
		return "", gorm.ErrRecordNotFound
	}
	if b.RoomURL == "" {
		b.RoomURL = url
	}
	return b.RoomURL, nil
}

func (r *fakeRepo) slotsOf(id string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.users[id].AvailableSlots...)
}

// --------------------------------------------------
// Side-effect fakes
// --------------------------------------------------

type fakeCache struct {
	mu          sync.Mutex
	entries     map[string][]string
	versions    map[string]int64
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]string{}, versions: map[string]int64{}}
}

func (c *fakeCache) Get(_ context.Context, id string) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.entries[id]
	return s, ok
}

func (c *fakeCache) Version(_ context.Context, id string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.versions[id]
}

func (c *fakeCache) Set(_ context.Context, id string, version int64, slots []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if version != c.versions[id] {
		return
	}
	c.entries[id] = slots
}

func (c *fakeCache) Invalidate(_ context.Context, ids ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		delete(c.entries, id)
		c.versions[id]++
		c.invalidated = append(c.invalidated, id)
	}
}

type fakeHub struct {
	mu   sync.Mutex
	sent map[string][]realtime.Change
}

func (h *fakeHub) Publish(_ context.Context, userID string, ch realtime.Change) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sent == nil {
		h.sent = map[string][]realtime.Change{}
	}
	h.sent[userID] = append(h.sent[userID], ch)
	return nil
}

type fakeEvents struct {
	mu   sync.Mutex
	keys []string
}

func (p *fakeEvents) Publish(_ context.Context, key string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	return nil
}

type fakeConfirmer struct {
	to  []string
	err error
}

func (c *fakeConfirmer) SendConfirmation(_ context.Context, email string, _ time.Time) error {
	c.to = append(c.to, email)
	return c.err
}

type nopSink struct{}

func (nopSink) Log(context.Context, audit.Event) error { return nil }

// --------------------------------------------------
// Fixture
// --------------------------------------------------

var fixedNow = time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)

const (
	slotA = "2025-01-01T10:00:00Z"
	slotB = "2025-01-01T11:00:00Z"
	slotC = "2025-01-02T09:00:00Z"
)

type fixture struct {
	repo    *fakeRepo
	cache   *fakeCache
	hub     *fakeHub
	events  *fakeEvents
	confirm *fakeConfirmer

	availability *GetAvailability
	request      *RequestBooking
	accept       *AcceptBooking
	reject       *RejectBooking
	cancel       *CancelBooking
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := newFakeRepo(
		&models.User{ID: "reader1", Role: models.RoleReader, DisplayName: "Madame Zora", AvailableSlots: []string{slotA, slotB, slotC}},
		&models.User{ID: "client1", Role: models.RoleClient, DisplayName: "Ann", Email: "ann@example.com"},
		&models.User{ID: "client2", Role: models.RoleClient},
	)

	dispatcher := audit.NewDispatcher(nopSink{}, zap.NewNop())
	t.Cleanup(dispatcher.Close)

	f := &fixture{
		repo:    repo,
		cache:   newFakeCache(),
		hub:     &fakeHub{},
		events:  &fakeEvents{},
		confirm: &fakeConfirmer{},
	}

	fanout := NewFanout(f.cache, f.hub, f.events, dispatcher, zap.NewNop())
	fanout.now = func() time.Time { return fixedNow }

	f.availability = NewGetAvailability(repo, f.cache, domain.DefaultPolicy())

	f.request = NewRequestBooking(repo, f.availability, fanout)
	f.request.now = func() time.Time { return fixedNow }

	f.accept = NewAcceptBooking(repo, f.confirm, fanout, zap.NewNop())
	f.accept.now = func() time.Time { return fixedNow }

	f.reject = NewRejectBooking(repo, fanout)
	f.reject.now = func() time.Time { return fixedNow }

	f.cancel = NewCancelBooking(repo, fanout)

	return f
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	if !httperr.IsBusiness(err, code) {
		t.Fatalf("err = %v, want business error %q", err, code)
	}
}
