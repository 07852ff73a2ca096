package lease

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rentfolio/rentfolio/internal/db"
)

// ErrNotFound is returned when no lease matches the lookup.
var ErrNotFound = errors.New("lease not found")

// ErrInvalidDates is returned when a lease's end date is not after its
// start date. The invariant is checked at write time only.
var ErrInvalidDates = errors.New("lease end date must be after start date")

// Repository provides CRUD operations for leases.
type Repository struct {
	pool *db.Pool
}

// NewRepository creates a lease repository.
func NewRepository(pool *db.Pool) *Repository {
	return &Repository{pool: pool}
}

const selectColumns = `id, property_id, tenant_cognito_id, start_date, end_date, rent, deposit`

// Insert adds a new lease and returns it with its generated ID.
// Dates are normalized to UTC before storage so range comparisons are
// consistent regardless of the caller's zone.
func (r *Repository) Insert(ctx context.Context, l *Lease) (*Lease, error) {
	if !l.EndDate.After(l.StartDate) {
		return nil, ErrInvalidDates
	}

	conn, err := r.pool.Get(ctx)
	if err != nil {
		return nil, err
	}

	result, err := conn.ExecContext(ctx,
		`INSERT INTO leases (property_id, tenant_cognito_id, start_date, end_date, rent, deposit)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		l.PropertyID, l.TenantCognitoID, l.StartDate.UTC(), l.EndDate.UTC(), l.Rent, l.Deposit,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting lease: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetByID returns a lease by its ID.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Lease, error) {
	conn, err := r.pool.Get(ctx)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM leases WHERE id = ?", selectColumns)
	l, err := scanLease(conn.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lease %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying lease %d: %w", id, err)
	}

	return l, nil
}

// List returns all leases, newest first.
func (r *Repository) List(ctx context.Context) ([]*Lease, error) {
	query := fmt.Sprintf("SELECT %s FROM leases ORDER BY id DESC", selectColumns)
	return r.query(ctx, query)
}

// ListByProperty returns all leases for a property.
func (r *Repository) ListByProperty(ctx context.Context, propertyID int64) ([]*Lease, error) {
	query := fmt.Sprintf("SELECT %s FROM leases WHERE property_id = ? ORDER BY start_date DESC", selectColumns)
	return r.query(ctx, query, propertyID)
}

// ListActiveByTenant returns the tenant's leases whose window contains now:
// start_date <= now < end_date.
func (r *Repository) ListActiveByTenant(ctx context.Context, cognitoID string, now time.Time) ([]*Lease, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM leases WHERE tenant_cognito_id = ? AND start_date <= ? AND end_date > ? ORDER BY start_date DESC",
		selectColumns,
	)
	return r.query(ctx, query, cognitoID, now.UTC(), now.UTC())
}

func (r *Repository) query(ctx context.Context, query string, args ...interface{}) ([]*Lease, error) {
	conn, err := r.pool.Get(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing leases: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			err = fmt.Errorf("closing rows: %w", cerr)
		}
	}()

	var leases []*Lease
	for rows.Next() {
		l, err := scanLease(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning lease: %w", err)
		}
		leases = append(leases, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating leases: %w", err)
	}

	return leases, nil
}

// scanLease scans a lease from a database row.
func scanLease(row interface{ Scan(...interface{}) error }) (*Lease, error) {
	var l Lease
	err := row.Scan(&l.ID, &l.PropertyID, &l.TenantCognitoID, &l.StartDate, &l.EndDate, &l.Rent, &l.Deposit)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
