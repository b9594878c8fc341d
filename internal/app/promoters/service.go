package promoters

import (
	"context"
	"time"

	"riffmates/internal/app"
	"riffmates/internal/models"
)

// Store defines persistence operations for promoters.
type Store interface {
	ListPromoters(ctx context.Context) ([]models.Promoter, error)
}

// Service exposes the promoter directory.
type Service interface {
	List(ctx context.Context) ([]models.Promoter, error)
	// ListSlow is List after the configured artificial delay. It returns early
	// with the context error if the request goes away.
	ListSlow(ctx context.Context) ([]models.Promoter, error)
}

type service struct {
	store Store
	delay time.Duration
}

// New constructs a promoter Service. delay applies to ListSlow only.
func New(store Store, delay time.Duration) Service {
	return &service{store: store, delay: delay}
}

func (s *service) List(ctx context.Context) ([]models.Promoter, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListPromoters(ctx)
}

func (s *service) ListSlow(ctx context.Context) ([]models.Promoter, error) {
	if err := app.Delay(ctx, s.delay); err != nil {
		return nil, err
	}
	return s.List(ctx)
}
