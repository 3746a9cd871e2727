package profile

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	id "formprefill/pkg/domain"
	"formprefill/pkg/platform/sentinel"
)

// PostgresStore reads profiles from the fe_users table. Every column is
// returned as a string field; the gatekeeper decides what may leave.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed profile store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const findProfileQuery = `SELECT * FROM fe_users WHERE uid = $1 AND deleted = 0 AND disable = 0`

func (s *PostgresStore) FindByID(ctx context.Context, userID id.UserID) (Profile, error) {
	rows, err := s.db.QueryContext(ctx, findProfileQuery, int64(userID))
	if err != nil {
		return nil, fmt.Errorf("find profile %s: %w", userID, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("find profile %s: %w", userID, err)
		}
		return nil, fmt.Errorf("profile %s: %w", userID, sentinel.ErrNotFound)
	}

	p, err := scanProfile(rows)
	if err != nil {
		return nil, fmt.Errorf("scan profile %s: %w", userID, err)
	}
	return p, rows.Err()
}

// Save inserts or replaces the listed columns for a user. Used for seeding.
func (s *PostgresStore) Save(ctx context.Context, userID id.UserID, p Profile) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO fe_users (uid, username, name, title, first_name, middle_name, last_name,
			company, address, zip, city, country, telephone, fax, email, www, password)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (uid) DO UPDATE SET
			username = EXCLUDED.username, name = EXCLUDED.name, title = EXCLUDED.title,
			first_name = EXCLUDED.first_name, middle_name = EXCLUDED.middle_name,
			last_name = EXCLUDED.last_name, company = EXCLUDED.company, address = EXCLUDED.address,
			zip = EXCLUDED.zip, city = EXCLUDED.city, country = EXCLUDED.country,
			telephone = EXCLUDED.telephone, fax = EXCLUDED.fax, email = EXCLUDED.email,
			www = EXCLUDED.www, password = EXCLUDED.password`,
		int64(userID), p["username"], p["name"], p["title"], p["first_name"], p["middle_name"],
		p["last_name"], p["company"], p["address"], p["zip"], p["city"], p["country"],
		p["telephone"], p["fax"], p["email"], p["www"], p["password"],
	)
	if err != nil {
		return fmt.Errorf("save profile %s: %w", userID, err)
	}
	return nil
}

func scanProfile(rows *sql.Rows) (Profile, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}

	p := make(Profile, len(cols))
	for i, col := range cols {
		if s, ok := columnString(values[i]); ok {
			p[col] = s
		}
	}
	return p, nil
}

func columnString(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case []byte:
		return string(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(val), true
	case time.Time:
		return val.UTC().Format(time.RFC3339), true
	default:
		return "", false
	}
}
