package lease

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rentfolio/rentfolio/internal/db"
)

func testRepo(t *testing.T) *Repository {
	t.Helper()
	pool := db.NewPool(filepath.Join(t.TempDir(), "test.db"))
	t.Cleanup(func() {
		if err := pool.Close(); err != nil {
			t.Errorf("close pool: %v", err)
		}
	})
	return NewRepository(pool)
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestInsertAndGetByID(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	saved, err := repo.Insert(ctx, &Lease{
		PropertyID:      7,
		TenantCognitoID: "tenant-1",
		StartDate:       day("2026-01-01"),
		EndDate:         day("2027-01-01"),
		Rent:            1500,
		Deposit:         1500,
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if saved.ID == 0 {
		t.Error("expected non-zero ID")
	}

	got, err := repo.GetByID(ctx, saved.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.PropertyID != 7 || got.TenantCognitoID != "tenant-1" || got.Rent != 1500 {
		t.Errorf("got %+v", got)
	}
}

func TestInsertInvalidDates(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	tests := []struct {
		name       string
		start, end time.Time
	}{
		{"end before start", day("2026-06-01"), day("2026-01-01")},
		{"end equals start", day("2026-06-01"), day("2026-06-01")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.Insert(ctx, &Lease{
				PropertyID: 1, TenantCognitoID: "t", StartDate: tt.start, EndDate: tt.end,
			})
			if !errors.Is(err, ErrInvalidDates) {
				t.Fatalf("err = %v, want ErrInvalidDates", err)
			}
		})
	}
}

func TestListByProperty(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	for _, propertyID := range []int64{1, 1, 2} {
		if _, err := repo.Insert(ctx, &Lease{
			PropertyID: propertyID, TenantCognitoID: "t",
			StartDate: day("2026-01-01"), EndDate: day("2027-01-01"),
		}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	leases, err := repo.ListByProperty(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(leases) != 2 {
		t.Errorf("got %d leases, want 2", len(leases))
	}
}

func TestListActiveByTenantWindow(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	now := day("2026-06-15")

	fixtures := []struct {
		name       string
		start, end time.Time
		active     bool
	}{
		{"contains now", day("2026-01-01"), day("2027-01-01"), true},
		{"starts exactly now", now, day("2027-01-01"), true},
		{"ends exactly now", day("2026-01-01"), now, false},
		{"already over", day("2025-01-01"), day("2025-12-31"), false},
		{"not started", day("2026-09-01"), day("2027-09-01"), false},
	}

	wantActive := 0
	for i, f := range fixtures {
		if _, err := repo.Insert(ctx, &Lease{
			PropertyID: int64(i + 1), TenantCognitoID: "tenant-w",
			StartDate: f.start, EndDate: f.end,
		}); err != nil {
			t.Fatalf("insert %s: %v", f.name, err)
		}
		if f.active {
			wantActive++
		}
	}

	active, err := repo.ListActiveByTenant(ctx, "tenant-w", now)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != wantActive {
		t.Errorf("got %d active leases, want %d", len(active), wantActive)
	}
	for _, l := range active {
		if !l.ActiveAt(now) {
			t.Errorf("lease %d reported active but window is %v–%v", l.ID, l.StartDate, l.EndDate)
		}
	}
}

func TestListActiveByTenantOtherTenant(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	if _, err := repo.Insert(ctx, &Lease{
		PropertyID: 1, TenantCognitoID: "someone-else",
		StartDate: day("2026-01-01"), EndDate: day("2027-01-01"),
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	active, err := repo.ListActiveByTenant(ctx, "tenant-x", day("2026-06-15"))
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("got %d leases, want 0", len(active))
	}
}
