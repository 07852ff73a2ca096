package account

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

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

func TestCreateAndGet(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &Account{
		CognitoID: "abc-123",
		Role:      RoleTenant,
		Name:      "Jo",
		Email:     "jo@x.com",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 {
		t.Error("expected non-zero ID")
	}

	got, err := repo.GetByCognitoID(ctx, "abc-123")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Jo" || got.Email != "jo@x.com" || got.Role != RoleTenant {
		t.Errorf("got %+v", got)
	}
}

func TestCreateDuplicateIdentity(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	a := &Account{CognitoID: "dupe-1", Role: RoleTenant, Name: "Jo", Email: "jo@x.com"}
	if _, err := repo.Create(ctx, a); err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err := repo.Create(ctx, a)
	if !errors.Is(err, ErrDuplicateIdentity) {
		t.Fatalf("err = %v, want ErrDuplicateIdentity", err)
	}
}

func TestGetByCognitoIDNotFound(t *testing.T) {
	repo := testRepo(t)

	_, err := repo.GetByCognitoID(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateSettings(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	if _, err := repo.Create(ctx, &Account{
		CognitoID: "settings-1", Role: RoleManager, Name: "Pat", Email: "pat@x.com", PhoneNumber: "555-0100",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := repo.UpdateSettings(ctx, "settings-1", "Patricia", "patricia@x.com", "555-0199")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Patricia" || updated.Email != "patricia@x.com" || updated.PhoneNumber != "555-0199" {
		t.Errorf("got %+v", updated)
	}
}

func TestUpdateSettingsNotFound(t *testing.T) {
	repo := testRepo(t)

	_, err := repo.UpdateSettings(context.Background(), "missing", "A", "a@x.com", "")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestAddFavoriteIdempotent(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	a, err := repo.Create(ctx, &Account{CognitoID: "fav-1", Role: RoleTenant, Name: "Jo", Email: "jo@x.com"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	changed, err := repo.AddFavorite(ctx, a.ID, 42)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !changed {
		t.Error("first add should report a change")
	}

	changed, err = repo.AddFavorite(ctx, a.ID, 42)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if changed {
		t.Error("second add should be a no-op")
	}

	ids, err := repo.FavoriteIDs(ctx, a.ID)
	if err != nil {
		t.Fatalf("favorite ids: %v", err)
	}
	if len(ids) != 1 || ids[0] != 42 {
		t.Errorf("ids = %v, want [42]", ids)
	}
}

func TestRemoveFavoriteAbsent(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	a, err := repo.Create(ctx, &Account{CognitoID: "fav-2", Role: RoleBuyer, Name: "Jo", Email: "jo@x.com"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	changed, err := repo.RemoveFavorite(ctx, a.ID, 99)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if changed {
		t.Error("removing an absent favorite should be a no-op")
	}
}

func TestRemoveFavorite(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	a, err := repo.Create(ctx, &Account{CognitoID: "fav-3", Role: RoleTenant, Name: "Jo", Email: "jo@x.com"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for _, id := range []int64{1, 2, 3} {
		if _, err := repo.AddFavorite(ctx, a.ID, id); err != nil {
			t.Fatalf("add %d: %v", id, err)
		}
	}

	changed, err := repo.RemoveFavorite(ctx, a.ID, 2)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !changed {
		t.Error("remove should report a change")
	}

	ids, err := repo.FavoriteIDs(ctx, a.ID)
	if err != nil {
		t.Fatalf("favorite ids: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("ids = %v, want two entries", ids)
	}
}

func TestFindManyByCognitoIDs(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := repo.Create(ctx, &Account{
			CognitoID: fmt.Sprintf("many-%d", i),
			Role:      RoleTenant,
			Name:      fmt.Sprintf("User %d", i),
			Email:     fmt.Sprintf("u%d@x.com", i),
		}); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	found, err := repo.FindManyByCognitoIDs(ctx, []string{"many-0", "many-2", "missing"})
	if err != nil {
		t.Fatalf("find many: %v", err)
	}
	if len(found) != 2 {
		t.Errorf("got %d accounts, want 2", len(found))
	}
	if _, ok := found["missing"]; ok {
		t.Error("missing identity should be absent from the map")
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{"tenant", "buyer", "landlord", "manager"} {
		if !ValidRole(role) {
			t.Errorf("ValidRole(%q) = false", role)
		}
	}
	if ValidRole("admin") {
		t.Error("ValidRole(admin) = true")
	}
}
