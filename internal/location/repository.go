package location

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rentfolio/rentfolio/internal/db"
)

// ErrNotFound is returned when no location matches the lookup.
var ErrNotFound = errors.New("location not found")

// Repository provides CRUD operations for locations.
type Repository struct {
	pool *db.Pool
}

// NewRepository creates a location repository.
func NewRepository(pool *db.Pool) *Repository {
	return &Repository{pool: pool}
}

const selectColumns = `id, address, city, state, country, postal_code, coordinates`

const insertSQL = `INSERT INTO locations (address, city, state, country, postal_code, coordinates)
	VALUES (?, ?, ?, ?, ?, ?)`

// Insert adds a new location and returns it with its generated ID.
func (r *Repository) Insert(ctx context.Context, l *Location) (*Location, error) {
	conn, err := r.pool.Get(ctx)
	if err != nil {
		return nil, err
	}

	id, err := InsertTx(ctx, conn, l)
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

// InsertTx inserts a location using the given executor, which may be a
// transaction shared with a property insert. It returns the generated ID.
func InsertTx(ctx context.Context, execer interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
}, l *Location) (int64, error) {
	result, err := execer.ExecContext(ctx, insertSQL,
		l.Address, l.City, l.State, l.Country, l.PostalCode, l.Coordinates,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting location: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting insert id: %w", err)
	}
	return id, nil
}

// GetByID returns a location by its ID.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Location, error) {
	conn, err := r.pool.Get(ctx)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM locations WHERE id = ?", selectColumns)
	l, err := scanLocation(conn.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("location %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying location %d: %w", id, err)
	}

	return l, nil
}

// FindManyByIDs returns the locations matching the given ids, keyed by id.
// Missing ids are simply absent from the map.
func (r *Repository) FindManyByIDs(ctx context.Context, ids []int64) (map[int64]*Location, error) {
	found := make(map[int64]*Location, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	conn, err := r.pool.Get(ctx)
	if err != nil {
		return nil, err
	}

	placeholders := strings.Repeat("?,", len(ids)-1) + "?"
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	query := fmt.Sprintf("SELECT %s FROM locations WHERE id IN (%s)", selectColumns, placeholders)
	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying locations: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			err = fmt.Errorf("closing rows: %w", cerr)
		}
	}()

	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning location: %w", err)
		}
		found[l.ID] = l
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating locations: %w", err)
	}

	return found, nil
}

// scanLocation scans a location from a database row.
func scanLocation(row interface{ Scan(...interface{}) error }) (*Location, error) {
	var l Location
	err := row.Scan(&l.ID, &l.Address, &l.City, &l.State, &l.Country, &l.PostalCode, &l.Coordinates)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
