package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"riffmates/internal/models"
)

// ErrUnknownKind is returned for control lookups on kinds without a profile link.
var ErrUnknownKind = errors.New("record kind has no profile link")

// EnsureProfile returns the profile id for userID, creating the row if needed.
func (s *Store) EnsureProfile(ctx context.Context, userID int64) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO user_profiles (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id
	`, userID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ensure profile: %w", err)
	}
	return id, nil
}

// GrantControl links a musician or venue to the user's profile.
func (s *Store) GrantControl(ctx context.Context, userID int64, kind models.Kind, recordID int64) error {
	table, column, err := controlTable(kind)
	if err != nil {
		return err
	}

	profileID, err := s.EnsureProfile(ctx, userID)
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO `+table+` (profile_id, `+column+`)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, profileID, recordID); err != nil {
		return fmt.Errorf("grant %s control: %w", kind, err)
	}
	return nil
}

// Controls reports whether the user's profile controls the record.
func (s *Store) Controls(ctx context.Context, userID int64, kind models.Kind, recordID int64) (bool, error) {
	table, column, err := controlTable(kind)
	if err != nil {
		return false, err
	}

	var ok bool
	err = s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM `+table+` c
			JOIN user_profiles p ON p.id = c.profile_id
			WHERE p.user_id = $1 AND c.`+column+` = $2
		)
	`, userID, recordID).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check %s control: %w", kind, err)
	}
	return ok, nil
}

// ControlsBandmate reports whether the user controls any musician sharing a
// band with musicianID.
func (s *Store) ControlsBandmate(ctx context.Context, userID, musicianID int64) (bool, error) {
	var ok bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM profile_musicians pm
			JOIN user_profiles p ON p.id = pm.profile_id
			JOIN band_musicians mine ON mine.musician_id = pm.musician_id
			JOIN band_musicians theirs ON theirs.band_id = mine.band_id
			WHERE p.user_id = $1 AND theirs.musician_id = $2
		)
	`, userID, musicianID).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check bandmate control: %w", err)
	}
	return ok, nil
}

// Profile loads the user's profile with the ids of controlled records. A user
// without a profile row yields an empty profile with ID 0.
func (s *Store) Profile(ctx context.Context, userID int64) (*models.Profile, error) {
	p := models.Profile{UserID: userID}
	var musicians, venues pq.Int64Array
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COALESCE((SELECT id FROM user_profiles WHERE user_id = $1), 0),
			COALESCE(ARRAY(
				SELECT pm.musician_id FROM profile_musicians pm
				JOIN user_profiles up ON up.id = pm.profile_id
				WHERE up.user_id = $1 ORDER BY pm.musician_id
			), '{}'),
			COALESCE(ARRAY(
				SELECT pv.venue_id FROM profile_venues pv
				JOIN user_profiles up ON up.id = pv.profile_id
				WHERE up.user_id = $1 ORDER BY pv.venue_id
			), '{}')
	`, userID).Scan(&p.ID, &musicians, &venues)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	p.ControlledMusicians = []int64(musicians)
	p.ControlledVenues = []int64(venues)
	return &p, nil
}

func controlTable(kind models.Kind) (table, column string, err error) {
	switch kind {
	case models.KindMusician:
		return "profile_musicians", "musician_id", nil
	case models.KindVenue:
		return "profile_venues", "venue_id", nil
	default:
		return "", "", fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
}
