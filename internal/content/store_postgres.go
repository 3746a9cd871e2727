package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	id "formprefill/pkg/domain"
	"formprefill/pkg/platform/sentinel"
)

// PostgresStore reads elements from the tt_content table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed content store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const elementColumns = `uid, pid, sys_language_uid, ctype, hidden, deleted, settings`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanElement(row rowScanner) (Element, error) {
	var (
		e               Element
		ctype           string
		hidden, deleted int
		settings        []byte
	)
	if err := row.Scan(&e.UID, &e.PID, &e.LanguageID, &ctype, &hidden, &deleted, &settings); err != nil {
		return Element{}, err
	}
	e.ContentType = id.ContentType(ctype)
	e.Hidden = hidden != 0
	e.Deleted = deleted != 0
	e.RawSettings = settings
	return e, nil
}

func (s *PostgresStore) FindForms(ctx context.Context, q FormQuery) ([]Element, error) {
	types := make([]string, 0, 2)
	for _, t := range id.FormContentTypes() {
		types = append(types, t.String())
	}

	query := `SELECT ` + elementColumns + ` FROM tt_content
		WHERE pid = $1 AND ctype = ANY($2) AND hidden = 0 AND deleted = 0
			AND ($3 OR sys_language_uid = $4)
		ORDER BY uid`
	rows, err := s.db.QueryContext(ctx, query, int64(q.PageID), pq.Array(types), q.AllLanguages, int64(q.LanguageID))
	if err != nil {
		return nil, fmt.Errorf("find forms on page %s: %w", q.PageID, err)
	}
	defer rows.Close()

	var out []Element
	for rows.Next() {
		e, err := scanElement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan content element: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find forms on page %s: %w", q.PageID, err)
	}
	return out, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, uid id.ContentID) (Element, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+elementColumns+` FROM tt_content WHERE uid = $1 AND hidden = 0 AND deleted = 0`,
		int64(uid),
	)
	e, err := scanElement(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Element{}, fmt.Errorf("content element %s: %w", uid, sentinel.ErrNotFound)
		}
		return Element{}, fmt.Errorf("find content element %s: %w", uid, err)
	}
	return e, nil
}

// Save inserts or replaces an element. Used for seeding.
func (s *PostgresStore) Save(ctx context.Context, e Element) error {
	settings := []byte(e.RawSettings)
	if len(settings) == 0 {
		settings = []byte("{}")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tt_content (`+elementColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (uid) DO UPDATE SET
			pid = EXCLUDED.pid,
			sys_language_uid = EXCLUDED.sys_language_uid,
			ctype = EXCLUDED.ctype,
			hidden = EXCLUDED.hidden,
			deleted = EXCLUDED.deleted,
			settings = EXCLUDED.settings
	`, int64(e.UID), int64(e.PID), int64(e.LanguageID), e.ContentType.String(),
		boolToInt(e.Hidden), boolToInt(e.Deleted), string(settings))
	if err != nil {
		return fmt.Errorf("save content element %s: %w", e.UID, err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
