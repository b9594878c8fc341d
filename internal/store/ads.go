package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"riffmates/internal/models"
)

// AdSelect is the joined projection shared by ad listings and search.
const AdSelect = `
		SELECT a.id, a.date, a.owner_id, a.seeking, a.musician_id, a.band_id, a.content,
		       u.username,
		       COALESCE(m.first_name || ' ' || m.last_name, ''),
		       COALESCE(b.name, '')
		FROM seeking_ads a
		JOIN users u ON u.id = a.owner_id
		LEFT JOIN musicians m ON m.id = a.musician_id
		LEFT JOIN bands b ON b.id = a.band_id`

// ScanAd reads one row of AdSelect.
func ScanAd(row interface{ Scan(...any) error }) (models.SeekingAd, error) {
	var (
		ad       models.SeekingAd
		musician sql.NullInt64
		band     sql.NullInt64
	)
	err := row.Scan(&ad.ID, &ad.Date, &ad.OwnerID, &ad.Seeking, &musician, &band, &ad.Content,
		&ad.OwnerName, &ad.MusicianName, &ad.BandName)
	if err != nil {
		return models.SeekingAd{}, err
	}
	ad.MusicianID = nullableID(musician)
	ad.BandID = nullableID(band)
	return ad, nil
}

// ListAds returns every ad ordered by date.
func (s *Store) ListAds(ctx context.Context) ([]models.SeekingAd, error) {
	rows, err := s.db.QueryContext(ctx, AdSelect+`
		ORDER BY a.date, a.id
	`)
	if err != nil {
		return nil, fmt.Errorf("select ads: %w", err)
	}
	defer rows.Close()

	ads := make([]models.SeekingAd, 0)
	for rows.Next() {
		ad, err := ScanAd(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ad: %w", err)
		}
		ads = append(ads, ad)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ads: %w", err)
	}
	return ads, nil
}

// GetAd loads one ad.
func (s *Store) GetAd(ctx context.Context, id int64) (*models.SeekingAd, error) {
	ad, err := ScanAd(s.db.QueryRowContext(ctx, AdSelect+`
		WHERE a.id = $1
	`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdNotFound
		}
		return nil, fmt.Errorf("select ad: %w", err)
	}
	return &ad, nil
}

// CreateAd inserts ad, dating it today, and sets ID and Date.
func (s *Store) CreateAd(ctx context.Context, ad *models.SeekingAd) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO seeking_ads (owner_id, seeking, musician_id, band_id, content)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, date
	`, ad.OwnerID, string(ad.Seeking), ad.MusicianID, ad.BandID, ad.Content).Scan(&ad.ID, &ad.Date)
	if err != nil {
		return fmt.Errorf("insert ad: %w", err)
	}
	return nil
}

// UpdateAd overwrites the editable ad fields. Owner and date are kept.
func (s *Store) UpdateAd(ctx context.Context, ad *models.SeekingAd) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE seeking_ads
		SET seeking = $1, musician_id = $2, band_id = $3, content = $4
		WHERE id = $5
	`, string(ad.Seeking), ad.MusicianID, ad.BandID, ad.Content, ad.ID)
	if err != nil {
		return fmt.Errorf("update ad: %w", err)
	}
	return expectOne(res, ErrAdNotFound)
}
