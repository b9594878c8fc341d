package bands

import (
	"context"

	"riffmates/internal/models"
	"riffmates/internal/pagination"
)

// Store defines persistence operations for bands.
type Store interface {
	CountBands(ctx context.Context) (int, error)
	ListBands(ctx context.Context, limit, offset int) ([]models.Band, error)
	AllBands(ctx context.Context) ([]models.Band, error)
	ListBandsByNamePrefix(ctx context.Context, prefix string) ([]models.Band, error)
	GetBand(ctx context.Context, id int64) (*models.Band, error)
}

// Service exposes band lookups.
type Service interface {
	List(ctx context.Context, p pagination.Params) (pagination.Result[models.Band], error)
	All(ctx context.Context) ([]models.Band, error)
	Get(ctx context.Context, id int64) (*models.Band, error)
	ByNamePrefix(ctx context.Context, prefix string) ([]models.Band, error)
}

type service struct {
	store Store
}

// New constructs a band Service.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) List(ctx context.Context, p pagination.Params) (pagination.Result[models.Band], error) {
	if err := ctx.Err(); err != nil {
		return pagination.Result[models.Band]{}, err
	}
	total, err := s.store.CountBands(ctx)
	if err != nil {
		return pagination.Result[models.Band]{}, err
	}
	page := pagination.New(p, total)
	items, err := s.store.ListBands(ctx, page.Limit(), page.Offset())
	if err != nil {
		return pagination.Result[models.Band]{}, err
	}
	return pagination.Result[models.Band]{Items: items, Page: page}, nil
}

func (s *service) All(ctx context.Context) ([]models.Band, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.AllBands(ctx)
}

func (s *service) Get(ctx context.Context, id int64) (*models.Band, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.GetBand(ctx, id)
}

func (s *service) ByNamePrefix(ctx context.Context, prefix string) ([]models.Band, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListBandsByNamePrefix(ctx, prefix)
}
