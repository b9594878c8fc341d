package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"riffmates/internal/models"
)

const musicianColumns = `m.id, m.first_name, m.last_name, m.birth, m.description, m.picture`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMusician(row rowScanner) (models.Musician, error) {
	var m models.Musician
	err := row.Scan(&m.ID, &m.FirstName, &m.LastName, &m.Birth, &m.Description, &m.Picture)
	return m, err
}

// CountMusicians returns the number of musicians.
func (s *Store) CountMusicians(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM musicians`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count musicians: %w", err)
	}
	return n, nil
}

// ListMusicians returns one page of musicians ordered by name.
func (s *Store) ListMusicians(ctx context.Context, limit, offset int) ([]models.Musician, error) {
	return s.queryMusicians(ctx, `
		SELECT `+musicianColumns+`
		FROM musicians m
		ORDER BY m.last_name, m.first_name, m.id
		LIMIT $1 OFFSET $2
	`, limit, offset)
}

// ListMusiciansBornBetween returns musicians with from <= birth < to. Zero
// bounds are open.
func (s *Store) ListMusiciansBornBetween(ctx context.Context, from, to models.Date) ([]models.Musician, error) {
	return s.queryMusicians(ctx, `
		SELECT `+musicianColumns+`
		FROM musicians m
		WHERE ($1::date IS NULL OR m.birth >= $1::date)
		  AND ($2::date IS NULL OR m.birth < $2::date)
		ORDER BY m.last_name, m.first_name, m.id
	`, from, to)
}

// MusiciansByIDs loads the given musicians ordered by name.
func (s *Store) MusiciansByIDs(ctx context.Context, ids []int64) ([]models.Musician, error) {
	if len(ids) == 0 {
		return []models.Musician{}, nil
	}
	return s.queryMusicians(ctx, `
		SELECT `+musicianColumns+`
		FROM musicians m
		WHERE m.id = ANY($1)
		ORDER BY m.last_name, m.first_name, m.id
	`, pq.Array(ids))
}

// AllMusicians returns every musician ordered by name.
func (s *Store) AllMusicians(ctx context.Context) ([]models.Musician, error) {
	return s.queryMusicians(ctx, `
		SELECT `+musicianColumns+`
		FROM musicians m
		ORDER BY m.last_name, m.first_name, m.id
	`)
}

func (s *Store) queryMusicians(ctx context.Context, query string, args ...any) ([]models.Musician, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select musicians: %w", err)
	}
	defer rows.Close()

	musicians := make([]models.Musician, 0)
	for rows.Next() {
		m, err := scanMusician(rows)
		if err != nil {
			return nil, fmt.Errorf("scan musician: %w", err)
		}
		musicians = append(musicians, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate musicians: %w", err)
	}
	return musicians, nil
}

// GetMusician loads a musician and the bands they play in.
func (s *Store) GetMusician(ctx context.Context, id int64) (*models.Musician, error) {
	m, err := scanMusician(s.db.QueryRowContext(ctx, `
		SELECT `+musicianColumns+`
		FROM musicians m
		WHERE m.id = $1
	`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMusicianNotFound
		}
		return nil, fmt.Errorf("select musician: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT b.id, b.name
		FROM bands b
		JOIN band_musicians bm ON bm.band_id = b.id
		WHERE bm.musician_id = $1
		ORDER BY b.name, b.id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("select musician bands: %w", err)
	}
	defer rows.Close()

	m.Bands = make([]models.Band, 0)
	for rows.Next() {
		var b models.Band
		if err := rows.Scan(&b.ID, &b.Name); err != nil {
			return nil, fmt.Errorf("scan band: %w", err)
		}
		m.Bands = append(m.Bands, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate musician bands: %w", err)
	}
	return &m, nil
}

// CreateMusician inserts m and sets its ID.
func (s *Store) CreateMusician(ctx context.Context, m *models.Musician) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO musicians (first_name, last_name, birth, description, picture)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, m.FirstName, m.LastName, m.Birth, m.Description, m.Picture).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("insert musician: %w", err)
	}
	return nil
}

// UpdateMusician overwrites the stored musician with m.
func (s *Store) UpdateMusician(ctx context.Context, m *models.Musician) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE musicians
		SET first_name = $1, last_name = $2, birth = $3, description = $4, picture = $5
		WHERE id = $6
	`, m.FirstName, m.LastName, m.Birth, m.Description, m.Picture, m.ID)
	if err != nil {
		return fmt.Errorf("update musician: %w", err)
	}
	return expectOne(res, ErrMusicianNotFound)
}
