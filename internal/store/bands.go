package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"riffmates/internal/models"
)

// CountBands returns the number of bands.
func (s *Store) CountBands(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bands`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count bands: %w", err)
	}
	return n, nil
}

// ListBands returns one page of bands ordered by name, without members.
func (s *Store) ListBands(ctx context.Context, limit, offset int) ([]models.Band, error) {
	return s.queryBands(ctx, `
		SELECT id, name
		FROM bands
		ORDER BY name, id
		LIMIT $1 OFFSET $2
	`, limit, offset)
}

// AllBands returns every band ordered by name, without members.
func (s *Store) AllBands(ctx context.Context) ([]models.Band, error) {
	return s.queryBands(ctx, `
		SELECT id, name
		FROM bands
		ORDER BY name, id
	`)
}

// ListBandsByNamePrefix returns bands whose name starts with prefix
// (case-insensitive), each with its members.
func (s *Store) ListBandsByNamePrefix(ctx context.Context, prefix string) ([]models.Band, error) {
	bands, err := s.queryBands(ctx, `
		SELECT id, name
		FROM bands
		WHERE name ILIKE $1 ESCAPE '\'
		ORDER BY name, id
	`, EscapeLike(prefix)+"%")
	if err != nil {
		return nil, err
	}
	if err := s.attachMembers(ctx, bands); err != nil {
		return nil, err
	}
	return bands, nil
}

// GetBand loads a band and its members.
func (s *Store) GetBand(ctx context.Context, id int64) (*models.Band, error) {
	var b models.Band
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name
		FROM bands
		WHERE id = $1
	`, id).Scan(&b.ID, &b.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBandNotFound
		}
		return nil, fmt.Errorf("select band: %w", err)
	}

	bands := []models.Band{b}
	if err := s.attachMembers(ctx, bands); err != nil {
		return nil, err
	}
	return &bands[0], nil
}

func (s *Store) queryBands(ctx context.Context, query string, args ...any) ([]models.Band, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select bands: %w", err)
	}
	defer rows.Close()

	bands := make([]models.Band, 0)
	for rows.Next() {
		var b models.Band
		if err := rows.Scan(&b.ID, &b.Name); err != nil {
			return nil, fmt.Errorf("scan band: %w", err)
		}
		bands = append(bands, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bands: %w", err)
	}
	return bands, nil
}

// attachMembers fills Musicians on each band with one query.
func (s *Store) attachMembers(ctx context.Context, bands []models.Band) error {
	if len(bands) == 0 {
		return nil
	}

	ids := make([]int64, len(bands))
	index := make(map[int64]int, len(bands))
	for i := range bands {
		ids[i] = bands[i].ID
		index[bands[i].ID] = i
		bands[i].Musicians = make([]models.Musician, 0)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT bm.band_id, `+musicianColumns+`
		FROM band_musicians bm
		JOIN musicians m ON m.id = bm.musician_id
		WHERE bm.band_id = ANY($1)
		ORDER BY m.last_name, m.first_name, m.id
	`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("select band members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			bandID int64
			m      models.Musician
		)
		if err := rows.Scan(&bandID, &m.ID, &m.FirstName, &m.LastName, &m.Birth, &m.Description, &m.Picture); err != nil {
			return fmt.Errorf("scan band member: %w", err)
		}
		if i, ok := index[bandID]; ok {
			bands[i].Musicians = append(bands[i].Musicians, m)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate band members: %w", err)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE wildcards so raw is matched literally.
func EscapeLike(raw string) string {
	return likeEscaper.Replace(raw)
}
