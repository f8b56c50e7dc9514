package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"conversor/domain/datalogger"
	"conversor/internal/errors"
	"conversor/internal/logger"
	"conversor/internal/session"
	"conversor/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ResultRows is the JSONB form of a result table's rows.
type ResultRows []datalogger.ResultRow

// Value implements driver.Valuer interface
func (r ResultRows) Value() (driver.Value, error) {
	if r == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(r)
}

// Scan implements sql.Scanner interface
func (r *ResultRows) Scan(value interface{}) error {
	var bytes []byte
	switch v := value.(type) {
	case nil:
		*r = ResultRows{}
		return nil
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into ResultRows", value)
	}

	if len(bytes) == 0 {
		*r = ResultRows{}
		return nil
	}
	var rows ResultRows
	if err := json.Unmarshal(bytes, &rows); err != nil {
		return err
	}
	*r = rows
	return nil
}

type resultRecord struct {
	ID        uuid.UUID  `db:"id"`
	Filename  string     `db:"filename"`
	Layout    string     `db:"layout"`
	Rows      ResultRows `db:"rows"`
	CreatedAt time.Time  `db:"created_at"`
	ExpiresAt *time.Time `db:"expires_at"`
}

func (rec resultRecord) conversion() *datalogger.Conversion {
	table := datalogger.NewResultTable(nil)
	table.Rows = []datalogger.ResultRow(rec.Rows)
	conv := &datalogger.Conversion{
		ID:        rec.ID,
		Filename:  rec.Filename,
		Layout:    datalogger.LayoutTag(rec.Layout),
		Table:     table,
		CreatedAt: rec.CreatedAt,
	}
	if rec.ExpiresAt != nil {
		conv.ExpiresAt = *rec.ExpiresAt
	}
	return conv
}

// ResultRepository implements ports.ResultStore on the conversion_results table.
type ResultRepository struct {
	db  *sqlx.DB
	ttl time.Duration
}

var _ ports.ResultStore = (*ResultRepository)(nil)

// NewResultRepository creates a new PostgreSQL result repository
func NewResultRepository(db *sqlx.DB, ttl time.Duration) *ResultRepository {
	return &ResultRepository{db: db, ttl: ttl}
}

// Save inserts conv, or replaces the row with the same ID.
func (r *ResultRepository) Save(ctx context.Context, conv *datalogger.Conversion) (uuid.UUID, error) {
	if conv == nil {
		return uuid.Nil, errors.InvalidInput("nil conversion")
	}
	stored := *conv
	if err := session.Stamp(&stored, time.Now().UTC(), r.ttl); err != nil {
		return uuid.Nil, err
	}

	var expiresAt *time.Time
	if !stored.ExpiresAt.IsZero() {
		expiresAt = &stored.ExpiresAt
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO conversion_results (id, filename, layout, rows, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET filename = EXCLUDED.filename, layout = EXCLUDED.layout, rows = EXCLUDED.rows,
			created_at = EXCLUDED.created_at, expires_at = EXCLUDED.expires_at
	`, stored.ID, stored.Filename, string(stored.Layout), ResultRows(stored.Table.Rows), stored.CreatedAt, expiresAt)
	if err != nil {
		return uuid.Nil, errors.DatabaseError("failed to save conversion result", err)
	}

	logger.Debugf("[ResultRepository] Saved %s (%d rows)", stored.ID, stored.Table.Len())
	return stored.ID, nil
}

// Get returns the unexpired result stored under id.
func (r *ResultRepository) Get(ctx context.Context, id uuid.UUID) (*datalogger.Conversion, error) {
	var rec resultRecord
	err := r.db.GetContext(ctx, &rec, `
		SELECT id, filename, layout, rows, created_at, expires_at
		FROM conversion_results
		WHERE id = $1 AND (expires_at IS NULL OR expires_at > NOW())
	`, id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrResultNotFound
	}
	if err != nil {
		return nil, errors.DatabaseError("failed to load conversion result", err)
	}
	return rec.conversion(), nil
}

// Delete removes the result stored under id.
func (r *ResultRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM conversion_results WHERE id = $1`, id); err != nil {
		return errors.DatabaseError("failed to delete conversion result", err)
	}
	return nil
}

// Purge deletes every result expired at now.
func (r *ResultRepository) Purge(ctx context.Context, now time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM conversion_results
		WHERE expires_at IS NOT NULL AND expires_at <= $1
	`, now)
	if err != nil {
		return 0, errors.DatabaseError("failed to purge conversion results", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.DatabaseError("failed to count purged results", err)
	}
	return int(n), nil
}
