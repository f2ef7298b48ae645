package repository_test

import (
	"context"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	dbpkg "github.com/BruksfildServices01/auralynk/internal/db"
	domain "github.com/BruksfildServices01/auralynk/internal/domain/booking"
	"github.com/BruksfildServices01/auralynk/internal/httperr"
	"github.com/BruksfildServices01/auralynk/internal/infra/repository"
	"github.com/BruksfildServices01/auralynk/internal/models"
)

func setup(t *testing.T) *gorm.DB {
	t.Helper()
	_ = godotenv.Load("../../../.env")
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}
	db, err := gorm.Open(postgres.Open(dbURL), &gorm.Config{})
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	if err := dbpkg.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedReader(t *testing.T, db *gorm.DB, slots ...string) *models.User {
	t.Helper()
	u := &models.User{
		ID:             "reader-" + uuid.NewString()[:8],
		Role:           models.RoleReader,
		DisplayName:    "Test Reader",
		AvailableSlots: slots,
		Services:       []string{"tarot"},
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed reader: %v", err)
	}
	t.Cleanup(func() {
		db.Where("reader_id = ?", u.ID).Delete(&models.Booking{})
		db.Delete(&models.User{}, "id = ?", u.ID)
	})
	return u
}

func slotsOf(t *testing.T, repo *repository.BookingGormRepository, id string) []string {
	t.Helper()
	u, err := repo.GetUser(context.Background(), id)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	return []string(u.AvailableSlots)
}

func TestAcceptThenDeleteRestoresSlotOnce(t *testing.T) {
	db := setup(t)
	repo := repository.NewBookingGormRepository(db)
	ctx := context.Background()

	const ten, two = "2030-01-01T10:00:00Z", "2030-01-01T14:00:00Z"
	reader := seedReader(t, db, ten, two)

	b := domain.New("client-1", reader.ID, ten)
	if err := repo.CreateBooking(ctx, b); err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.ID == "" {
		t.Fatal("booking id not generated")
	}

	if err := domain.Accept(b, time.Now()); err != nil {
		t.Fatal(err)
	}
	if err := repo.AcceptBooking(ctx, b); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if got := slotsOf(t, repo, reader.ID); !reflect.DeepEqual(got, []string{two}) {
		t.Fatalf("slots after accept = %v", got)
	}

	if err := repo.DeleteBooking(ctx, b); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := slotsOf(t, repo, reader.ID); !reflect.DeepEqual(got, []string{two, ten}) {
		t.Fatalf("slots after delete = %v", got)
	}

	if _, err := repo.GetBooking(ctx, b.ID); err == nil {
		t.Fatal("booking still present after delete")
	}
}

func TestAcceptTwiceIsInvalidState(t *testing.T) {
	db := setup(t)
	repo := repository.NewBookingGormRepository(db)
	ctx := context.Background()

	const ten = "2030-01-01T10:00:00Z"
	reader := seedReader(t, db, ten)

	b := domain.New("client-1", reader.ID, ten)
	if err := repo.CreateBooking(ctx, b); err != nil {
		t.Fatal(err)
	}
	_ = domain.Accept(b, time.Now())
	if err := repo.AcceptBooking(ctx, b); err != nil {
		t.Fatal(err)
	}

	if err := repo.AcceptBooking(ctx, b); !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("second accept err = %v, want invalid_state", err)
	}
}

func TestSecondAcceptedBookingOnSlotViolatesIndex(t *testing.T) {
	db := setup(t)
	repo := repository.NewBookingGormRepository(db)
	ctx := context.Background()

	const ten = "2030-01-01T10:00:00Z"
	reader := seedReader(t, db, ten)

	first := domain.New("client-1", reader.ID, ten)
	second := domain.New("client-2", reader.ID, ten)
	for _, b := range []*models.Booking{first, second} {
		if err := repo.CreateBooking(ctx, b); err != nil {
			t.Fatal(err)
		}
		_ = domain.Accept(b, time.Now())
	}

	if err := repo.AcceptBooking(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := repo.AcceptBooking(ctx, second); !httperr.IsUniqueViolation(err) {
		t.Fatalf("err = %v, want unique violation", err)
	}
}

func TestSetRoomURLIfEmptyKeepsFirst(t *testing.T) {
	db := setup(t)
	repo := repository.NewBookingGormRepository(db)
	ctx := context.Background()

	reader := seedReader(t, db, "2030-01-01T10:00:00Z")
	b := domain.New("client-1", reader.ID, "2030-01-01T10:00:00Z")
	if err := repo.CreateBooking(ctx, b); err != nil {
		t.Fatal(err)
	}

	got, err := repo.SetRoomURLIfEmpty(ctx, b.ID, "https://x.daily.co/first")
	if err != nil || got != "https://x.daily.co/first" {
		t.Fatalf("first set = %q, %v", got, err)
	}
	got, err = repo.SetRoomURLIfEmpty(ctx, b.ID, "https://x.daily.co/second")
	if err != nil || got != "https://x.daily.co/first" {
		t.Fatalf("second set = %q, %v", got, err)
	}
}
