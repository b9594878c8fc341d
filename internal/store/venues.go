package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"riffmates/internal/models"
)

// ListVenues returns venues ordered by name with their rooms. A non-empty
// prefix restricts the result to names starting with it (case-insensitive).
func (s *Store) ListVenues(ctx context.Context, prefix string) ([]models.Venue, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, picture
		FROM venues
		WHERE name ILIKE $1 ESCAPE '\'
		ORDER BY name, id
	`, EscapeLike(prefix)+"%")
	if err != nil {
		return nil, fmt.Errorf("select venues: %w", err)
	}
	defer rows.Close()

	venues := make([]models.Venue, 0)
	for rows.Next() {
		var v models.Venue
		if err := rows.Scan(&v.ID, &v.Name, &v.Description, &v.Picture); err != nil {
			return nil, fmt.Errorf("scan venue: %w", err)
		}
		venues = append(venues, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate venues: %w", err)
	}

	if err := s.attachRooms(ctx, venues); err != nil {
		return nil, err
	}
	return venues, nil
}

// GetVenue loads a venue and its rooms.
func (s *Store) GetVenue(ctx context.Context, id int64) (*models.Venue, error) {
	var v models.Venue
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, picture
		FROM venues
		WHERE id = $1
	`, id).Scan(&v.ID, &v.Name, &v.Description, &v.Picture)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, fmt.Errorf("select venue: %w", err)
	}

	venues := []models.Venue{v}
	if err := s.attachRooms(ctx, venues); err != nil {
		return nil, err
	}
	return &venues[0], nil
}

// CreateVenue inserts v and sets its ID.
func (s *Store) CreateVenue(ctx context.Context, v *models.Venue) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO venues (name, description, picture)
		VALUES ($1, $2, $3)
		RETURNING id
	`, v.Name, v.Description, v.Picture).Scan(&v.ID)
	if err != nil {
		return fmt.Errorf("insert venue: %w", err)
	}
	return nil
}

// UpdateVenue overwrites the stored venue fields with v.
func (s *Store) UpdateVenue(ctx context.Context, v *models.Venue) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE venues
		SET name = $1, description = $2, picture = $3
		WHERE id = $4
	`, v.Name, v.Description, v.Picture, v.ID)
	if err != nil {
		return fmt.Errorf("update venue: %w", err)
	}
	return expectOne(res, ErrVenueNotFound)
}

// DeleteVenue removes a venue. Rooms and profile links cascade.
func (s *Store) DeleteVenue(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM venues WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete venue: %w", err)
	}
	return expectOne(res, ErrVenueNotFound)
}

// AddRoom creates a room in a venue.
func (s *Store) AddRoom(ctx context.Context, r *models.Room) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO rooms (name, venue_id)
		VALUES ($1, $2)
		RETURNING id
	`, r.Name, r.VenueID).Scan(&r.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateRoom
		}
		return fmt.Errorf("insert room: %w", err)
	}
	return nil
}

func (s *Store) attachRooms(ctx context.Context, venues []models.Venue) error {
	if len(venues) == 0 {
		return nil
	}

	ids := make([]int64, len(venues))
	index := make(map[int64]int, len(venues))
	for i := range venues {
		ids[i] = venues[i].ID
		index[venues[i].ID] = i
		venues[i].Rooms = make([]models.Room, 0)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, venue_id
		FROM rooms
		WHERE venue_id = ANY($1)
		ORDER BY name, id
	`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("select rooms: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r models.Room
		if err := rows.Scan(&r.ID, &r.Name, &r.VenueID); err != nil {
			return fmt.Errorf("scan room: %w", err)
		}
		if i, ok := index[r.VenueID]; ok {
			venues[i].Rooms = append(venues[i].Rooms, r)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate rooms: %w", err)
	}
	return nil
}
