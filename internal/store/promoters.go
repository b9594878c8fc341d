package store

import (
	"context"
	"fmt"

	"riffmates/internal/models"
)

// ListPromoters returns all promoters ordered by common name.
func (s *Store) ListPromoters(ctx context.Context) ([]models.Promoter, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, common_name, full_name, famous_for, birth, death,
		       street_address, city, province_state, country, postal_zip_code
		FROM promoters
		ORDER BY common_name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("select promoters: %w", err)
	}
	defer rows.Close()

	promoters := make([]models.Promoter, 0)
	for rows.Next() {
		var p models.Promoter
		if err := rows.Scan(&p.ID, &p.CommonName, &p.FullName, &p.FamousFor, &p.Birth, &p.Death,
			&p.StreetAddress, &p.City, &p.ProvinceState, &p.Country, &p.PostalZipCode); err != nil {
			return nil, fmt.Errorf("scan promoter: %w", err)
		}
		promoters = append(promoters, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate promoters: %w", err)
	}
	return promoters, nil
}

// ReferencedPictures returns every picture path stored on musicians and venues.
func (s *Store) ReferencedPictures(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT picture FROM musicians WHERE picture <> ''
		UNION
		SELECT picture FROM venues WHERE picture <> ''
	`)
	if err != nil {
		return nil, fmt.Errorf("select pictures: %w", err)
	}
	defer rows.Close()

	paths := make([]string, 0)
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan picture: %w", err)
		}
		paths = append(paths, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pictures: %w", err)
	}
	return paths, nil
}
