package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rentfolio/rentfolio/internal/account"
	"github.com/rentfolio/rentfolio/internal/db"
	"github.com/rentfolio/rentfolio/internal/lease"
	"github.com/rentfolio/rentfolio/internal/location"
	"github.com/rentfolio/rentfolio/internal/property"
)

// env bundles a server (auth disabled) with direct repository access for
// seeding and verification.
type env struct {
	srv        *Server
	accounts   *account.Repository
	properties *property.Repository
	leases     *lease.Repository
}

func testEnv(t *testing.T) *env {
	t.Helper()
	pool := db.NewPool(filepath.Join(t.TempDir(), "test.db"))
	t.Cleanup(func() {
		if err := pool.Close(); err != nil {
			t.Errorf("close pool: %v", err)
		}
	})

	return &env{
		srv:        NewServer(pool, nil),
		accounts:   account.NewRepository(pool),
		properties: property.NewRepository(pool),
		leases:     lease.NewRepository(pool),
	}
}

func (e *env) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	r := httptest.NewRequest(method, path, reader)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.srv.ServeHTTP(w, r)
	return w
}

func (e *env) seedAccount(t *testing.T, cognitoID string, role account.Role) *account.Account {
	t.Helper()
	a, err := e.accounts.Create(context.Background(), &account.Account{
		CognitoID: cognitoID, Role: role, Name: "Test User", Email: cognitoID + "@x.com", PhoneNumber: "555-0100",
	})
	if err != nil {
		t.Fatalf("seed account %s: %v", cognitoID, err)
	}
	return a
}

func (e *env) seedProperty(t *testing.T, name string) *property.Property {
	t.Helper()
	p, _, err := e.properties.CreateWithLocation(context.Background(),
		&property.Property{Name: name, PricePerMonth: 1500, ManagerCognitoID: "mgr-seed"},
		&location.Location{Address: "1 " + name + " St", City: "Austin", Coordinates: "POINT(-97.74 30.27)"},
	)
	if err != nil {
		t.Fatalf("seed property %s: %v", name, err)
	}
	return p
}

func (e *env) seedLease(t *testing.T, propertyID int64, tenantID string, start, end time.Time) *lease.Lease {
	t.Helper()
	l, err := e.leases.Insert(context.Background(), &lease.Lease{
		PropertyID: propertyID, TenantCognitoID: tenantID,
		StartDate: start, EndDate: end, Rent: 1500, Deposit: 1500,
	})
	if err != nil {
		t.Fatalf("seed lease: %v", err)
	}
	return l
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(dest); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func TestHealthEndpoint(t *testing.T) {
	e := testEnv(t)

	w := e.do(t, "GET", "/health", nil)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type = %q, want application/json", ct)
	}

	var resp map[string]string
	decodeJSON(t, w, &resp)
	if resp["status"] != "ok" {
		t.Errorf("status field = %q, want ok", resp["status"])
	}
}

func TestIsPublicRequest(t *testing.T) {
	tests := []struct {
		method, path string
		want         bool
	}{
		{"GET", "/health", true},
		{"GET", "/properties", true},
		{"GET", "/properties/12", true},
		{"GET", "/properties/12/leases", false},
		{"POST", "/properties", false},
		{"GET", "/leases", false},
		{"POST", "/tenants", false},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(tt.method, tt.path, nil)
		if got := isPublicRequest(r); got != tt.want {
			t.Errorf("isPublicRequest(%s %s) = %v, want %v", tt.method, tt.path, got, tt.want)
		}
	}
}
