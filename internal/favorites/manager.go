// Package favorites implements add/remove of favorite properties and the
// read-side expansion of the favorites set into full property documents.
package favorites

import (
	"context"

	"github.com/rentfolio/rentfolio/internal/account"
	"github.com/rentfolio/rentfolio/internal/property"
	"github.com/rentfolio/rentfolio/internal/resolver"
)

// Result is the full user document returned by favorites operations and
// reads, with the favorites set expanded into enriched property documents.
type Result struct {
	*account.Account
	Favorites []*resolver.Property `json:"favorites"`
}

// Manager coordinates favorites mutations with the entity repositories.
type Manager struct {
	accounts   *account.Repository
	properties *property.Repository
	resolver   *resolver.Resolver
}

// NewManager creates a favorites manager.
func NewManager(accounts *account.Repository, properties *property.Repository, res *resolver.Resolver) *Manager {
	return &Manager{accounts: accounts, properties: properties, resolver: res}
}

// Add inserts propertyID into the user's favorites set. The property must
// exist (independent of the set's contents); adding an id already present
// is a no-op. Returns the user with favorites expanded.
func (m *Manager) Add(ctx context.Context, cognitoID string, propertyID int64) (*Result, error) {
	a, err := m.accounts.GetByCognitoID(ctx, cognitoID)
	if err != nil {
		return nil, err
	}

	if _, err := m.properties.GetByID(ctx, propertyID); err != nil {
		return nil, err
	}

	if _, err := m.accounts.AddFavorite(ctx, a.ID, propertyID); err != nil {
		return nil, err
	}

	return m.expand(ctx, a)
}

// Remove deletes propertyID from the user's favorites set. The property
// must exist; removing an id not in the set is a no-op. Returns the user
// with favorites expanded.
func (m *Manager) Remove(ctx context.Context, cognitoID string, propertyID int64) (*Result, error) {
	a, err := m.accounts.GetByCognitoID(ctx, cognitoID)
	if err != nil {
		return nil, err
	}

	if _, err := m.properties.GetByID(ctx, propertyID); err != nil {
		return nil, err
	}

	if _, err := m.accounts.RemoveFavorite(ctx, a.ID, propertyID); err != nil {
		return nil, err
	}

	return m.expand(ctx, a)
}

// Get returns the user document with favorites expanded, without mutating
// anything.
func (m *Manager) Get(ctx context.Context, cognitoID string) (*Result, error) {
	a, err := m.accounts.GetByCognitoID(ctx, cognitoID)
	if err != nil {
		return nil, err
	}
	return m.expand(ctx, a)
}

func (m *Manager) expand(ctx context.Context, a *account.Account) (*Result, error) {
	expanded, err := m.resolver.FavoriteProperties(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	if expanded == nil {
		expanded = make([]*resolver.Property, 0)
	}
	return &Result{Account: a, Favorites: expanded}, nil
}
