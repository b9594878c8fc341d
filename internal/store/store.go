package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

var (
	ErrMusicianNotFound = errors.New("musician not found")
	ErrBandNotFound     = errors.New("band not found")
	ErrVenueNotFound    = errors.New("venue not found")
	ErrAdNotFound       = errors.New("seeking ad not found")
	ErrUserNotFound     = errors.New("user not found")
	// ErrDuplicateRoom signals a room name already used in the same venue.
	ErrDuplicateRoom = errors.New("room already exists in venue")
)

// Store provides persistence backed by Postgres.
type Store struct {
	db *sql.DB
}

// New sets up a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// withTx runs fn inside a transaction, committing when it returns nil.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	tx = nil
	return nil
}

// isUniqueViolation recognises 23505 from either Postgres driver: the server
// runs on pgx, the maintenance CLI on lib/pq.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

func nullableID(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}

// expectOne maps a zero-row write to notFound.
func expectOne(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

// Counts summarises table sizes for the staff console.
type Counts struct {
	Users     int
	Musicians int
	Bands     int
	Venues    int
	Ads       int
	Promoters int
}

// Counts returns row counts for the main tables.
func (s *Store) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM musicians),
			(SELECT COUNT(*) FROM bands),
			(SELECT COUNT(*) FROM venues),
			(SELECT COUNT(*) FROM seeking_ads),
			(SELECT COUNT(*) FROM promoters)
	`).Scan(&c.Users, &c.Musicians, &c.Bands, &c.Venues, &c.Ads, &c.Promoters)
	if err != nil {
		return Counts{}, fmt.Errorf("count rows: %w", err)
	}
	return c, nil
}
