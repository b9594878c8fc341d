package store

import (
	"context"
	"database/sql"
	"fmt"
)

type seedMusician struct {
	First, Last, Birth, Description string
}

type seedBand struct {
	Name    string
	Members []int // indexes into the musician list
}

type seedVenue struct {
	Name        string
	Description string
	Rooms       []string
}

var (
	demoMusicians = []seedMusician{
		{"Jimmy", "Page", "1944-01-09", "Guitarist and producer."},
		{"Robert", "Plant", "1948-08-20", "Singer and songwriter."},
		{"John Paul", "Jones", "1946-01-03", "Bass, keyboards and arrangements."},
		{"John", "Bonham", "1948-05-31", "Drums."},
		{"Suzi", "Quatro", "1950-06-03", "Bass and vocals."},
		{"Nile", "Rodgers", "1952-09-19", "Rhythm guitar."},
	}
	demoBands = []seedBand{
		{"Led Zeppelin", []int{0, 1, 2, 3}},
		{"Chic", []int{5}},
	}
	demoVenues = []seedVenue{
		{"Café Wha?", "Greenwich Village basement club.", []string{"Main Stage"}},
		{"The Roxy", "Sunset Strip nightclub.", []string{"Main Stage", "Green Room"}},
		{"Bluebird Cafe", "Listening room in Nashville.", nil},
	}
)

// SeedDemo loads a small catalogue of musicians, bands, venues and rooms in a
// single transaction. It does nothing and reports false when any musician
// already exists.
func (s *Store) SeedDemo(ctx context.Context) (bool, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM musicians`).Scan(&count); err != nil {
		return false, fmt.Errorf("count musicians: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		musicianIDs := make([]int64, len(demoMusicians))
		for i, m := range demoMusicians {
			if err := tx.QueryRowContext(ctx, `
				INSERT INTO musicians (first_name, last_name, birth, description)
				VALUES ($1, $2, $3, $4)
				RETURNING id
			`, m.First, m.Last, m.Birth, m.Description).Scan(&musicianIDs[i]); err != nil {
				return fmt.Errorf("insert demo musician %s %s: %w", m.First, m.Last, err)
			}
		}

		for _, b := range demoBands {
			var bandID int64
			if err := tx.QueryRowContext(ctx, `
				INSERT INTO bands (name) VALUES ($1) RETURNING id
			`, b.Name).Scan(&bandID); err != nil {
				return fmt.Errorf("insert demo band %q: %w", b.Name, err)
			}
			for _, idx := range b.Members {
				if _, err := tx.ExecContext(ctx, `
					INSERT INTO band_musicians (band_id, musician_id) VALUES ($1, $2)
				`, bandID, musicianIDs[idx]); err != nil {
					return fmt.Errorf("insert demo band member for %q: %w", b.Name, err)
				}
			}
		}

		for _, v := range demoVenues {
			var venueID int64
			if err := tx.QueryRowContext(ctx, `
				INSERT INTO venues (name, description) VALUES ($1, $2) RETURNING id
			`, v.Name, v.Description).Scan(&venueID); err != nil {
				return fmt.Errorf("insert demo venue %q: %w", v.Name, err)
			}
			for _, room := range v.Rooms {
				if _, err := tx.ExecContext(ctx, `
					INSERT INTO rooms (name, venue_id) VALUES ($1, $2)
				`, room, venueID); err != nil {
					return fmt.Errorf("insert demo room %q: %w", room, err)
				}
			}
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO promoters (common_name, full_name, famous_for, birth, death)
			VALUES ($1, $2, $3, $4, $5)
		`, "Bill Graham", "Wolodia Grajonca", "Fillmore concerts", "1931-01-08", "1991-10-25"); err != nil {
			return fmt.Errorf("insert demo promoter: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
