// Package resolver assembles denormalized read models by resolving the
// numeric cross-collection references stored on entities. A missing
// reference never drops the root record or fails the batch; the joined
// field is simply null.
package resolver

import (
	"context"

	"github.com/rentfolio/rentfolio/internal/account"
	"github.com/rentfolio/rentfolio/internal/lease"
	"github.com/rentfolio/rentfolio/internal/location"
	"github.com/rentfolio/rentfolio/internal/property"
)

// Property is a property with its location attached (null when the
// locationId dangles).
type Property struct {
	*property.Property
	Location *location.View `json:"location"`
}

// Lease is a lease with its tenant and property attached (null when the
// reference dangles). The property is itself enriched with its location.
type Lease struct {
	*lease.Lease
	Tenant   *account.Account `json:"tenant"`
	Property *Property        `json:"property"`
}

// Resolver performs batched lookups across the entity repositories.
type Resolver struct {
	accounts   *account.Repository
	properties *property.Repository
	locations  *location.Repository
}

// New creates a resolver over the given repositories.
func New(accounts *account.Repository, properties *property.Repository, locations *location.Repository) *Resolver {
	return &Resolver{accounts: accounts, properties: properties, locations: locations}
}

// Properties attaches each property's location. The output preserves the
// order and cardinality of the input.
func (r *Resolver) Properties(ctx context.Context, props []*property.Property) ([]*Property, error) {
	ids := make([]int64, 0, len(props))
	seen := make(map[int64]bool, len(props))
	for _, p := range props {
		if !seen[p.LocationID] {
			seen[p.LocationID] = true
			ids = append(ids, p.LocationID)
		}
	}

	locations, err := r.locations.FindManyByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	enriched := make([]*Property, len(props))
	for i, p := range props {
		ep := &Property{Property: p}
		if l, ok := locations[p.LocationID]; ok {
			ep.Location = l.View()
		}
		enriched[i] = ep
	}
	return enriched, nil
}

// Property attaches a single property's location.
func (r *Resolver) Property(ctx context.Context, p *property.Property) (*Property, error) {
	enriched, err := r.Properties(ctx, []*property.Property{p})
	if err != nil {
		return nil, err
	}
	return enriched[0], nil
}

// Leases attaches each lease's tenant and enriched property. The output
// preserves the order and cardinality of the input.
func (r *Resolver) Leases(ctx context.Context, leases []*lease.Lease) ([]*Lease, error) {
	tenantIDs := make([]string, 0, len(leases))
	propertyIDs := make([]int64, 0, len(leases))
	seenTenant := make(map[string]bool, len(leases))
	seenProperty := make(map[int64]bool, len(leases))
	for _, l := range leases {
		if !seenTenant[l.TenantCognitoID] {
			seenTenant[l.TenantCognitoID] = true
			tenantIDs = append(tenantIDs, l.TenantCognitoID)
		}
		if !seenProperty[l.PropertyID] {
			seenProperty[l.PropertyID] = true
			propertyIDs = append(propertyIDs, l.PropertyID)
		}
	}

	tenants, err := r.accounts.FindManyByCognitoIDs(ctx, tenantIDs)
	if err != nil {
		return nil, err
	}
	properties, err := r.properties.FindManyByIDs(ctx, propertyIDs)
	if err != nil {
		return nil, err
	}

	// Enrich the found properties with their locations in one more batch.
	found := make([]*property.Property, 0, len(properties))
	for _, id := range propertyIDs {
		if p, ok := properties[id]; ok {
			found = append(found, p)
		}
	}
	enrichedProps, err := r.Properties(ctx, found)
	if err != nil {
		return nil, err
	}
	propertyByID := make(map[int64]*Property, len(enrichedProps))
	for _, ep := range enrichedProps {
		propertyByID[ep.ID] = ep
	}

	enriched := make([]*Lease, len(leases))
	for i, l := range leases {
		el := &Lease{Lease: l}
		if t, ok := tenants[l.TenantCognitoID]; ok {
			el.Tenant = t
		}
		if p, ok := propertyByID[l.PropertyID]; ok {
			el.Property = p
		}
		enriched[i] = el
	}
	return enriched, nil
}

// FavoriteProperties expands an account's favorite ids into enriched
// property documents. Ids that no longer resolve are dropped silently.
func (r *Resolver) FavoriteProperties(ctx context.Context, accountID int64) ([]*Property, error) {
	ids, err := r.accounts.FavoriteIDs(ctx, accountID)
	if err != nil {
		return nil, err
	}

	properties, err := r.properties.FindManyByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	// Keep the favorites' stored order, skipping stale ids.
	found := make([]*property.Property, 0, len(ids))
	for _, id := range ids {
		if p, ok := properties[id]; ok {
			found = append(found, p)
		}
	}

	return r.Properties(ctx, found)
}
