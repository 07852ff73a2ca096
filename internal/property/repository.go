package property

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rentfolio/rentfolio/internal/db"
	"github.com/rentfolio/rentfolio/internal/location"
)

// ErrNotFound is returned when no property matches the lookup.
var ErrNotFound = errors.New("property not found")

// Repository provides CRUD operations for properties.
type Repository struct {
	pool *db.Pool
}

// NewRepository creates a property repository.
func NewRepository(pool *db.Pool) *Repository {
	return &Repository{pool: pool}
}

const selectColumns = `id, location_id, manager_cognito_id, name, description, property_type,
	beds, baths, square_feet, price_per_month, security_deposit, application_fee,
	created_at, updated_at`

const insertSQL = `INSERT INTO properties
	(location_id, manager_cognito_id, name, description, property_type,
	 beds, baths, square_feet, price_per_month, security_deposit, application_fee)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// CreateWithLocation inserts the location and the property referencing it
// inside one transaction, then returns both with their generated ids.
func (r *Repository) CreateWithLocation(ctx context.Context, p *Property, l *location.Location) (*Property, *location.Location, error) {
	conn, err := r.pool.Get(ctx)
	if err != nil {
		return nil, nil, err
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	locationID, err := location.InsertTx(ctx, tx, l)
	if err != nil {
		return nil, nil, err
	}

	p.LocationID = locationID
	result, err := tx.ExecContext(ctx, insertSQL,
		p.LocationID, p.ManagerCognitoID, p.Name, p.Description, p.PropertyType,
		p.Beds, p.Baths, p.SquareFeet, p.PricePerMonth, p.SecurityDeposit, p.ApplicationFee,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("inserting property: %w", err)
	}

	propertyID, err := result.LastInsertId()
	if err != nil {
		return nil, nil, fmt.Errorf("getting insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("committing: %w", err)
	}

	saved, err := r.GetByID(ctx, propertyID)
	if err != nil {
		return nil, nil, err
	}

	l.ID = locationID
	return saved, l, nil
}

// GetByID returns a property by its ID.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Property, error) {
	conn, err := r.pool.Get(ctx)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM properties WHERE id = ?", selectColumns)
	p, err := scanProperty(conn.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("property %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying property %d: %w", id, err)
	}

	return p, nil
}

// FindManyByIDs returns the properties matching the given ids, keyed by id.
// Missing ids are simply absent from the map.
func (r *Repository) FindManyByIDs(ctx context.Context, ids []int64) (map[int64]*Property, error) {
	found := make(map[int64]*Property, len(ids))
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

	query := fmt.Sprintf("SELECT %s FROM properties WHERE id IN (%s)", selectColumns, placeholders)
	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying properties: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			err = fmt.Errorf("closing rows: %w", cerr)
		}
	}()

	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning property: %w", err)
		}
		found[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating properties: %w", err)
	}

	return found, nil
}

// ListOptions controls filtering for List.
type ListOptions struct {
	MinPrice         *float64
	MaxPrice         *float64
	MinBeds          *float64
	MinBaths         *float64
	PropertyType     string // empty = all
	ManagerCognitoID string // empty = all
}

// List returns all properties, optionally filtered.
func (r *Repository) List(ctx context.Context, opts ListOptions) ([]*Property, error) {
	conn, err := r.pool.Get(ctx)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM properties", selectColumns)
	var args []interface{}
	var conditions []string

	if opts.MinPrice != nil {
		conditions = append(conditions, "price_per_month >= ?")
		args = append(args, *opts.MinPrice)
	}
	if opts.MaxPrice != nil {
		conditions = append(conditions, "price_per_month <= ?")
		args = append(args, *opts.MaxPrice)
	}
	if opts.MinBeds != nil {
		conditions = append(conditions, "beds >= ?")
		args = append(args, *opts.MinBeds)
	}
	if opts.MinBaths != nil {
		conditions = append(conditions, "baths >= ?")
		args = append(args, *opts.MinBaths)
	}
	if opts.PropertyType != "" {
		conditions = append(conditions, "property_type = ?")
		args = append(args, opts.PropertyType)
	}
	if opts.ManagerCognitoID != "" {
		conditions = append(conditions, "manager_cognito_id = ?")
		args = append(args, opts.ManagerCognitoID)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY created_at DESC, id DESC"

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing properties: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			err = fmt.Errorf("closing rows: %w", cerr)
		}
	}()

	var properties []*Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning property: %w", err)
		}
		properties = append(properties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating properties: %w", err)
	}

	return properties, nil
}

// ListByManager returns the properties managed by the given account.
func (r *Repository) ListByManager(ctx context.Context, cognitoID string) ([]*Property, error) {
	return r.List(ctx, ListOptions{ManagerCognitoID: cognitoID})
}

// scanProperty scans a property from a database row.
func scanProperty(row interface{ Scan(...interface{}) error }) (*Property, error) {
	var p Property
	var propertyType sql.NullString
	var beds, baths, securityDeposit, applicationFee sql.NullFloat64
	var squareFeet sql.NullInt64

	err := row.Scan(
		&p.ID, &p.LocationID, &p.ManagerCognitoID, &p.Name, &p.Description, &propertyType,
		&beds, &baths, &squareFeet, &p.PricePerMonth, &securityDeposit, &applicationFee,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if propertyType.Valid {
		p.PropertyType = &propertyType.String
	}
	if beds.Valid {
		p.Beds = &beds.Float64
	}
	if baths.Valid {
		p.Baths = &baths.Float64
	}
	if squareFeet.Valid {
		p.SquareFeet = &squareFeet.Int64
	}
	if securityDeposit.Valid {
		p.SecurityDeposit = &securityDeposit.Float64
	}
	if applicationFee.Valid {
		p.ApplicationFee = &applicationFee.Float64
	}

	return &p, nil
}
