package resolver

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rentfolio/rentfolio/internal/account"
	"github.com/rentfolio/rentfolio/internal/db"
	"github.com/rentfolio/rentfolio/internal/lease"
	"github.com/rentfolio/rentfolio/internal/location"
	"github.com/rentfolio/rentfolio/internal/property"
)

type fixture struct {
	resolver   *Resolver
	accounts   *account.Repository
	properties *property.Repository
	locations  *location.Repository
	leases     *lease.Repository
}

func testFixture(t *testing.T) *fixture {
	t.Helper()
	pool := db.NewPool(filepath.Join(t.TempDir(), "test.db"))
	t.Cleanup(func() {
		if err := pool.Close(); err != nil {
			t.Errorf("close pool: %v", err)
		}
	})

	accounts := account.NewRepository(pool)
	properties := property.NewRepository(pool)
	locations := location.NewRepository(pool)
	return &fixture{
		resolver:   New(accounts, properties, locations),
		accounts:   accounts,
		properties: properties,
		locations:  locations,
		leases:     lease.NewRepository(pool),
	}
}

func (f *fixture) createProperty(t *testing.T, name, address string) *property.Property {
	t.Helper()
	p, _, err := f.properties.CreateWithLocation(context.Background(),
		&property.Property{Name: name, PricePerMonth: 1200},
		&location.Location{Address: address, City: "Austin", Coordinates: "POINT(-97.74 30.27)"},
	)
	if err != nil {
		t.Fatalf("create property: %v", err)
	}
	return p
}

func TestPropertiesAttachLocation(t *testing.T) {
	f := testFixture(t)
	p := f.createProperty(t, "Oak Flat", "12 Oak St")

	enriched, err := f.resolver.Properties(context.Background(), []*property.Property{p})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(enriched) != 1 {
		t.Fatalf("got %d records, want 1", len(enriched))
	}
	if enriched[0].Location == nil {
		t.Fatal("expected location")
	}
	if enriched[0].Location.Address != "12 Oak St" {
		t.Errorf("address = %q", enriched[0].Location.Address)
	}
	if enriched[0].Location.Coordinates == nil {
		t.Error("expected parsed coordinates")
	}
}

func TestPropertiesDanglingLocation(t *testing.T) {
	f := testFixture(t)
	p := f.createProperty(t, "Oak Flat", "12 Oak St")

	// A property whose locationId has no matching location still appears in
	// the output, with a null location.
	dangling := &property.Property{ID: p.ID + 100, LocationID: 999999, Name: "Ghost"}

	enriched, err := f.resolver.Properties(context.Background(), []*property.Property{p, dangling})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(enriched) != 2 {
		t.Fatalf("got %d records, want 2 (cardinality preserved)", len(enriched))
	}
	if enriched[0].Location == nil {
		t.Error("first record should have a location")
	}
	if enriched[1].Location != nil {
		t.Error("dangling record should have a null location")
	}
	if enriched[1].Name != "Ghost" {
		t.Error("output order not preserved")
	}
}

func TestLeasesAttachTenantAndProperty(t *testing.T) {
	f := testFixture(t)
	ctx := context.Background()

	p := f.createProperty(t, "Oak Flat", "12 Oak St")
	if _, err := f.accounts.Create(ctx, &account.Account{
		CognitoID: "tenant-1", Role: account.RoleTenant, Name: "Jo", Email: "jo@x.com",
	}); err != nil {
		t.Fatalf("create tenant: %v", err)
	}

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l, err := f.leases.Insert(ctx, &lease.Lease{
		PropertyID: p.ID, TenantCognitoID: "tenant-1",
		StartDate: start, EndDate: start.AddDate(1, 0, 0), Rent: 1200,
	})
	if err != nil {
		t.Fatalf("create lease: %v", err)
	}

	enriched, err := f.resolver.Leases(ctx, []*lease.Lease{l})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(enriched) != 1 {
		t.Fatalf("got %d records, want 1", len(enriched))
	}
	if enriched[0].Tenant == nil || enriched[0].Tenant.CognitoID != "tenant-1" {
		t.Errorf("tenant = %+v", enriched[0].Tenant)
	}
	if enriched[0].Property == nil || enriched[0].Property.ID != p.ID {
		t.Errorf("property = %+v", enriched[0].Property)
	}
	if enriched[0].Property.Location == nil {
		t.Error("lease property should be enriched with its location")
	}
}

func TestLeasesDanglingReferences(t *testing.T) {
	f := testFixture(t)

	orphan := &lease.Lease{ID: 1, PropertyID: 999999, TenantCognitoID: "nobody"}
	enriched, err := f.resolver.Leases(context.Background(), []*lease.Lease{orphan})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(enriched) != 1 {
		t.Fatalf("got %d records, want 1", len(enriched))
	}
	if enriched[0].Tenant != nil || enriched[0].Property != nil {
		t.Errorf("dangling references should resolve to null, got %+v", enriched[0])
	}
}

func TestFavoritePropertiesDropsStaleIDs(t *testing.T) {
	f := testFixture(t)
	ctx := context.Background()

	a, err := f.accounts.Create(ctx, &account.Account{
		CognitoID: "buyer-1", Role: account.RoleBuyer, Name: "Sam", Email: "sam@x.com",
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	p := f.createProperty(t, "Oak Flat", "12 Oak St")
	for _, id := range []int64{p.ID, 999999} {
		if _, err := f.accounts.AddFavorite(ctx, a.ID, id); err != nil {
			t.Fatalf("add favorite %d: %v", id, err)
		}
	}

	favorites, err := f.resolver.FavoriteProperties(ctx, a.ID)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if len(favorites) != 1 {
		t.Fatalf("got %d favorites, want 1 (stale id dropped)", len(favorites))
	}
	if favorites[0].ID != p.ID {
		t.Errorf("favorite id = %d, want %d", favorites[0].ID, p.ID)
	}
}

func TestPropertiesEmptyInput(t *testing.T) {
	f := testFixture(t)

	enriched, err := f.resolver.Properties(context.Background(), nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(enriched) != 0 {
		t.Errorf("got %d records, want 0", len(enriched))
	}
}
