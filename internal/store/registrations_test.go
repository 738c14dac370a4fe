package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/aarambh-bootcamp/registration-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access underlying database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.SiteConfig{}, &models.Registration{}, &models.Admin{}); err != nil {
		t.Fatalf("failed to auto migrate: %v", err)
	}
	return db
}

func strPtr(s string) *string { return &s }

func TestCreateAndDuplicateEmail(t *testing.T) {
	s := NewRegistrationStore(setupDB(t))
	ctx := context.Background()

	first, err := s.Create(ctx, map[string]any{"email": "a@x.com"}, strPtr("a@x.com"), true, 10)
	if err != nil {
		t.Fatalf("first Create returned error: %v", err)
	}
	if first.Status != models.StatusPending {
		t.Errorf("new registration status = %s, want pending", first.Status)
	}
	if first.RegisteredAt.IsZero() {
		t.Error("RegisteredAt not set")
	}

	_, err = s.Create(ctx, map[string]any{"email": "a@x.com"}, strPtr("a@x.com"), true, 10)
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("second Create error = %v, want ErrDuplicateEmail", err)
	}

	var count int64
	s.db.Model(&models.Registration{}).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 registration in DB, got %d", count)
	}
}

func TestCreateWithoutEmailField(t *testing.T) {
	s := NewRegistrationStore(setupDB(t))
	ctx := context.Background()

	// a schema without an email field yields nil emails, which must not
	// collide on the unique index
	for i := 0; i < 3; i++ {
		if _, err := s.Create(ctx, map[string]any{"full_name": fmt.Sprintf("p%d", i)}, nil, true, 10); err != nil {
			t.Fatalf("Create %d returned error: %v", i, err)
		}
	}
}

func TestCreateClosedAndFull(t *testing.T) {
	s := NewRegistrationStore(setupDB(t))
	ctx := context.Background()

	if _, err := s.Create(ctx, map[string]any{}, strPtr("a@x.com"), false, 10); !errors.Is(err, ErrRegistrationClosed) {
		t.Fatalf("closed Create error = %v, want ErrRegistrationClosed", err)
	}

	if _, err := s.Create(ctx, map[string]any{}, strPtr("a@x.com"), true, 1); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	_, err := s.Create(ctx, map[string]any{}, strPtr("b@x.com"), true, 1)
	if !errors.Is(err, ErrCapacityFull) {
		t.Fatalf("over-capacity Create error = %v, want ErrCapacityFull", err)
	}

	// a duplicate email outranks the full event
	_, err = s.Create(ctx, map[string]any{}, strPtr("a@x.com"), true, 1)
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("duplicate-when-full Create error = %v, want ErrDuplicateEmail", err)
	}
}

func TestCancelledFreesSeat(t *testing.T) {
	s := NewRegistrationStore(setupDB(t))
	ctx := context.Background()

	reg, err := s.Create(ctx, map[string]any{}, strPtr("a@x.com"), true, 1)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if _, err := s.UpdateStatus(ctx, reg.ID, models.StatusCancelled); err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}

	if _, err := s.Create(ctx, map[string]any{}, strPtr("b@x.com"), true, 1); err != nil {
		t.Fatalf("Create after cancellation returned error: %v", err)
	}
}

func TestCapacityUnderConcurrency(t *testing.T) {
	s := NewRegistrationStore(setupDB(t))
	ctx := context.Background()

	maxParticipants := 5
	numRequests := 50
	var successCount, fullCount, errorCount int32

	var wg sync.WaitGroup
	wg.Add(numRequests)
	for i := 0; i < numRequests; i++ {
		go func(n int) {
			defer wg.Done()
			email := fmt.Sprintf("gopher%d@example.com", n)
			_, err := s.Create(ctx, map[string]any{"email": email}, &email, true, maxParticipants)
			switch {
			case err == nil:
				atomic.AddInt32(&successCount, 1)
			case errors.Is(err, ErrCapacityFull):
				atomic.AddInt32(&fullCount, 1)
			default:
				t.Logf("unexpected error for request %d: %v", n, err)
				atomic.AddInt32(&errorCount, 1)
			}
		}(i)
	}
	wg.Wait()

	// Strict cap: the count check and insert share a transaction, so the
	// accepted count must be exactly the configured maximum.
	if successCount != int32(maxParticipants) {
		t.Errorf("expected exactly %d successes, got %d", maxParticipants, successCount)
	}
	if errorCount != 0 {
		t.Errorf("expected no unexpected errors, got %d", errorCount)
	}

	var count int64
	s.db.Model(&models.Registration{}).Count(&count)
	if count != int64(maxParticipants) {
		t.Errorf("expected %d rows, got %d", maxParticipants, count)
	}
}

func TestListFilterAndPagination(t *testing.T) {
	s := NewRegistrationStore(setupDB(t))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		exp := "Beginner"
		if i%2 == 1 {
			exp = "Advanced"
		}
		email := fmt.Sprintf("p%d@x.com", i)
		if _, err := s.Create(ctx, map[string]any{"email": email, "experience": exp}, &email, true, 0); err != nil {
			t.Fatalf("Create %d returned error: %v", i, err)
		}
	}

	regs, total, err := s.List(ctx, ListOptions{Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(regs) != 2 {
		t.Errorf("page size = %d, want 2", len(regs))
	}

	regs, total, err = s.List(ctx, ListOptions{Page: 1, Limit: 10, Fields: map[string]string{"experience": "Advanced"}})
	if err != nil {
		t.Fatalf("filtered List returned error: %v", err)
	}
	if total != 2 {
		t.Errorf("filtered total = %d, want 2", total)
	}
	for _, r := range regs {
		if r.Answers["experience"] != "Advanced" {
			t.Errorf("filter leaked registration %v", r.Answers)
		}
	}

	regs, _, err = s.List(ctx, ListOptions{Page: 1, Limit: 10, Status: models.StatusPending})
	if err != nil {
		t.Fatalf("status List returned error: %v", err)
	}
	if len(regs) != 5 {
		t.Errorf("status filter returned %d rows, want 5", len(regs))
	}
}

func TestListNewestFirst(t *testing.T) {
	s := NewRegistrationStore(setupDB(t))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		email := fmt.Sprintf("p%d@x.com", i)
		if _, err := s.Create(ctx, map[string]any{}, &email, true, 0); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	regs, _, err := s.List(ctx, ListOptions{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	for i := 1; i < len(regs); i++ {
		if regs[i].RegisteredAt.After(regs[i-1].RegisteredAt) {
			t.Errorf("registrations not sorted newest first at index %d", i)
		}
	}
}

func TestUpdateStatus(t *testing.T) {
	s := NewRegistrationStore(setupDB(t))
	ctx := context.Background()

	reg, err := s.Create(ctx, map[string]any{}, strPtr("a@x.com"), true, 0)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	updated, err := s.UpdateStatus(ctx, reg.ID, models.StatusConfirmed)
	if err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if updated.Status != models.StatusConfirmed {
		t.Errorf("status = %s, want confirmed", updated.Status)
	}

	// any-to-any transitions are allowed
	if _, err := s.UpdateStatus(ctx, reg.ID, models.StatusPending); err != nil {
		t.Errorf("confirmed -> pending returned error: %v", err)
	}

	if _, err := s.UpdateStatus(ctx, reg.ID, models.RegistrationStatus("archived")); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("bad status error = %v, want ErrInvalidStatus", err)
	}
	if _, err := s.UpdateStatus(ctx, 9999, models.StatusConfirmed); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing id error = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	s := NewRegistrationStore(setupDB(t))
	ctx := context.Background()

	reg, err := s.Create(ctx, map[string]any{}, strPtr("a@x.com"), true, 0)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := s.Delete(ctx, reg.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := s.Delete(ctx, reg.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete error = %v, want ErrNotFound", err)
	}

	// a hard delete frees the email for re-registration
	if _, err := s.Create(ctx, map[string]any{}, strPtr("a@x.com"), true, 0); err != nil {
		t.Errorf("re-registration after delete returned error: %v", err)
	}
}

func TestStats(t *testing.T) {
	s := NewRegistrationStore(setupDB(t))
	ctx := context.Background()

	var ids []uint
	for i := 0; i < 4; i++ {
		email := fmt.Sprintf("p%d@x.com", i)
		reg, err := s.Create(ctx, map[string]any{}, &email, true, 0)
		if err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
		ids = append(ids, reg.ID)
	}
	s.UpdateStatus(ctx, ids[0], models.StatusConfirmed)
	s.UpdateStatus(ctx, ids[1], models.StatusCancelled)

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	want := Stats{Total: 4, Pending: 2, Confirmed: 1, Cancelled: 1}
	if stats != want {
		t.Errorf("Stats = %+v, want %+v", stats, want)
	}
}

func TestCapacity(t *testing.T) {
	info := models.SiteInfo{RegistrationOpen: true, MaxParticipants: 10}

	status := Capacity(info, 4)
	if status.RemainingSeats != 6 || status.IsFull {
		t.Errorf("Capacity(10, 4) = %+v", status)
	}

	status = Capacity(info, 10)
	if !status.IsFull || status.RemainingSeats != 0 {
		t.Errorf("Capacity(10, 10) = %+v", status)
	}

	// overshoot never reports negative seats
	status = Capacity(info, 12)
	if status.RemainingSeats != 0 {
		t.Errorf("Capacity(10, 12).RemainingSeats = %d", status.RemainingSeats)
	}

	// zero means unlimited
	status = Capacity(models.SiteInfo{RegistrationOpen: true, MaxParticipants: 0}, 500)
	if status.IsFull {
		t.Error("unlimited capacity reported full")
	}
}
