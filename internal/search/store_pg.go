package search

import (
	"context"
	"database/sql"
	"fmt"

	"riffmates/internal/models"
	"riffmates/internal/store"
)

// Store defines the persistence operations behind ad search.
type Store interface {
	Count(ctx context.Context, terms []string) (int, error)
	Search(ctx context.Context, terms []string, limit, offset int) ([]models.SeekingAd, error)
}

// PGStore implements Store using PostgreSQL.
type PGStore struct {
	db *sql.DB
}

// NewPGStore creates a Store backed by the supplied database handle.
func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

// Count returns how many ads match terms.
func (s *PGStore) Count(ctx context.Context, terms []string) (int, error) {
	where, args := Predicate(terms, 1)

	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM seeking_ads a
		JOIN users u ON u.id = a.owner_id
		LEFT JOIN musicians m ON m.id = a.musician_id
		LEFT JOIN bands b ON b.id = a.band_id
		`+where, args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count ads: %w", err)
	}
	return n, nil
}

// Search returns one page of matching ads ordered by date.
func (s *PGStore) Search(ctx context.Context, terms []string, limit, offset int) ([]models.SeekingAd, error) {
	where, args := Predicate(terms, 1)
	args = append(args, limit, offset)

	query := store.AdSelect + `
		` + where + fmt.Sprintf(`
		ORDER BY a.date, a.id
		LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search ads: %w", err)
	}
	defer rows.Close()

	results := make([]models.SeekingAd, 0)
	for rows.Next() {
		ad, err := store.ScanAd(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ad: %w", err)
		}
		results = append(results, ad)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ads: %w", err)
	}
	return results, nil
}
