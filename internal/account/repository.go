package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/rentfolio/rentfolio/internal/db"
)

// ErrNotFound is returned when no account matches the lookup.
var ErrNotFound = errors.New("account not found")

// ErrDuplicateIdentity is returned when an account with the same cognito id
// already exists.
var ErrDuplicateIdentity = errors.New("an account with this identity already exists")

// Repository provides CRUD and favorites operations for accounts.
type Repository struct {
	pool *db.Pool
}

// NewRepository creates an account repository.
func NewRepository(pool *db.Pool) *Repository {
	return &Repository{pool: pool}
}

const selectColumns = `id, cognito_id, role, name, email, phone_number, created_at, updated_at`

// Create adds a new account and returns it with its generated ID.
// A second account with the same cognito id fails with ErrDuplicateIdentity.
func (r *Repository) Create(ctx context.Context, a *Account) (*Account, error) {
	conn, err := r.pool.Get(ctx)
	if err != nil {
		return nil, err
	}

	// Fail fast before attempting the insert; the UNIQUE constraint below
	// still catches a concurrent registration that slips past this check.
	var existing int64
	err = conn.QueryRowContext(ctx,
		"SELECT id FROM accounts WHERE cognito_id = ?", a.CognitoID,
	).Scan(&existing)
	if err == nil {
		return nil, ErrDuplicateIdentity
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("checking identity %s: %w", a.CognitoID, err)
	}

	result, err := conn.ExecContext(ctx,
		`INSERT INTO accounts (cognito_id, role, name, email, phone_number)
		 VALUES (?, ?, ?, ?, ?)`,
		a.CognitoID, string(a.Role), a.Name, a.Email, a.PhoneNumber,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return nil, ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("inserting account: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}

	return r.getByID(ctx, conn, id)
}

// GetByCognitoID returns the account with the given external identity.
func (r *Repository) GetByCognitoID(ctx context.Context, cognitoID string) (*Account, error) {
	conn, err := r.pool.Get(ctx)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM accounts WHERE cognito_id = ?", selectColumns)
	a, err := scanAccount(conn.QueryRowContext(ctx, query, cognitoID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", cognitoID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying account %s: %w", cognitoID, err)
	}

	return a, nil
}

// FindManyByCognitoIDs returns the accounts matching the given identities,
// keyed by cognito id. Missing identities are simply absent from the map.
func (r *Repository) FindManyByCognitoIDs(ctx context.Context, cognitoIDs []string) (map[string]*Account, error) {
	found := make(map[string]*Account, len(cognitoIDs))
	if len(cognitoIDs) == 0 {
		return found, nil
	}

	conn, err := r.pool.Get(ctx)
	if err != nil {
		return nil, err
	}

	placeholders := strings.Repeat("?,", len(cognitoIDs)-1) + "?"
	args := make([]interface{}, len(cognitoIDs))
	for i, id := range cognitoIDs {
		args[i] = id
	}

	query := fmt.Sprintf("SELECT %s FROM accounts WHERE cognito_id IN (%s)", selectColumns, placeholders)
	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying accounts: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			err = fmt.Errorf("closing rows: %w", cerr)
		}
	}()

	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}
		found[a.CognitoID] = a
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating accounts: %w", err)
	}

	return found, nil
}

// UpdateSettings updates the account's contact details.
func (r *Repository) UpdateSettings(ctx context.Context, cognitoID, name, email, phoneNumber string) (*Account, error) {
	conn, err := r.pool.Get(ctx)
	if err != nil {
		return nil, err
	}

	result, err := conn.ExecContext(ctx,
		`UPDATE accounts
		 SET name = ?, email = ?, phone_number = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE cognito_id = ?`,
		name, email, phoneNumber, cognitoID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating account %s: %w", cognitoID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("%s: %w", cognitoID, ErrNotFound)
	}

	return r.GetByCognitoID(ctx, cognitoID)
}

// AddFavorite inserts propertyID into the account's favorites set.
// The insert is a single atomic statement with set semantics; it reports
// whether the set actually changed.
func (r *Repository) AddFavorite(ctx context.Context, accountID, propertyID int64) (bool, error) {
	conn, err := r.pool.Get(ctx)
	if err != nil {
		return false, err
	}

	result, err := conn.ExecContext(ctx,
		"INSERT OR IGNORE INTO favorites (account_id, property_id) VALUES (?, ?)",
		accountID, propertyID,
	)
	if err != nil {
		return false, fmt.Errorf("adding favorite: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking rows affected: %w", err)
	}
	return rows > 0, nil
}

// RemoveFavorite deletes propertyID from the account's favorites set and
// reports whether the set actually shrank.
func (r *Repository) RemoveFavorite(ctx context.Context, accountID, propertyID int64) (bool, error) {
	conn, err := r.pool.Get(ctx)
	if err != nil {
		return false, err
	}

	result, err := conn.ExecContext(ctx,
		"DELETE FROM favorites WHERE account_id = ? AND property_id = ?",
		accountID, propertyID,
	)
	if err != nil {
		return false, fmt.Errorf("removing favorite: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking rows affected: %w", err)
	}
	return rows > 0, nil
}

// FavoriteIDs returns the account's favorite property ids in the order they
// were added. Ids may reference properties that no longer exist.
func (r *Repository) FavoriteIDs(ctx context.Context, accountID int64) ([]int64, error) {
	conn, err := r.pool.Get(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := conn.QueryContext(ctx,
		"SELECT property_id FROM favorites WHERE account_id = ? ORDER BY created_at, property_id",
		accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying favorites: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			err = fmt.Errorf("closing rows: %w", cerr)
		}
	}()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning favorite: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating favorites: %w", err)
	}

	return ids, nil
}

func (r *Repository) getByID(ctx context.Context, conn *sql.DB, id int64) (*Account, error) {
	query := fmt.Sprintf("SELECT %s FROM accounts WHERE id = ?", selectColumns)
	a, err := scanAccount(conn.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying account %d: %w", id, err)
	}
	return a, nil
}

// scanAccount scans an account from a database row.
func scanAccount(row interface{ Scan(...interface{}) error }) (*Account, error) {
	var a Account
	var role string
	err := row.Scan(
		&a.ID, &a.CognitoID, &role, &a.Name, &a.Email, &a.PhoneNumber,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Role = Role(role)
	return &a, nil
}
