package musicians

import (
	"context"
	"fmt"
	"time"

	"riffmates/internal/authz"
	"riffmates/internal/events"
	"riffmates/internal/media"
	"riffmates/internal/models"
	"riffmates/internal/pagination"
)

// Store defines persistence operations for musicians.
type Store interface {
	CountMusicians(ctx context.Context) (int, error)
	ListMusicians(ctx context.Context, limit, offset int) ([]models.Musician, error)
	ListMusiciansBornBetween(ctx context.Context, from, to models.Date) ([]models.Musician, error)
	GetMusician(ctx context.Context, id int64) (*models.Musician, error)
	CreateMusician(ctx context.Context, m *models.Musician) error
	UpdateMusician(ctx context.Context, m *models.Musician) error
}

// Authorizer answers ownership questions.
type Authorizer interface {
	RequireEdit(ctx context.Context, actor authz.Actor, res authz.Resource) error
	CanViewRestricted(ctx context.Context, actor authz.Actor, musicianID int64) (bool, error)
}

// Pictures saves uploaded images.
type Pictures interface {
	Save(dir string, up media.Upload) (string, error)
}

// Publisher emits domain events.
type Publisher interface {
	Publish(ctx context.Context, e events.Event) error
}

// Service coordinates musician operations.
type Service interface {
	List(ctx context.Context, p pagination.Params) (pagination.Result[models.Musician], error)
	Get(ctx context.Context, id int64) (*models.Musician, error)
	// Editable returns the musician actor may edit; id 0 yields a blank record.
	Editable(ctx context.Context, actor authz.Actor, id int64) (*models.Musician, error)
	// Save creates (id 0) or updates a musician. A nil picture keeps the current one.
	Save(ctx context.Context, actor authz.Actor, id int64, in models.MusicianInput, picture *media.Upload) (*models.Musician, error)
	Restricted(ctx context.Context, actor authz.Actor, id int64) (*models.Musician, error)
	// ByDecade lists musicians born in the decade starting at year; 0 lists all.
	ByDecade(ctx context.Context, year int) ([]models.Musician, error)
}

type service struct {
	store    Store
	authz    Authorizer
	pictures Pictures
	events   Publisher
}

// New constructs a musician Service.
func New(store Store, az Authorizer, pictures Pictures, events Publisher) Service {
	return &service{store: store, authz: az, pictures: pictures, events: events}
}

func (s *service) List(ctx context.Context, p pagination.Params) (pagination.Result[models.Musician], error) {
	if err := ctx.Err(); err != nil {
		return pagination.Result[models.Musician]{}, err
	}
	total, err := s.store.CountMusicians(ctx)
	if err != nil {
		return pagination.Result[models.Musician]{}, err
	}
	page := pagination.New(p, total)
	items, err := s.store.ListMusicians(ctx, page.Limit(), page.Offset())
	if err != nil {
		return pagination.Result[models.Musician]{}, err
	}
	return pagination.Result[models.Musician]{Items: items, Page: page}, nil
}

func (s *service) Get(ctx context.Context, id int64) (*models.Musician, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.GetMusician(ctx, id)
}

func (s *service) Editable(ctx context.Context, actor authz.Actor, id int64) (*models.Musician, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.authz.RequireEdit(ctx, actor, authz.Resource{Kind: models.KindMusician, ID: id}); err != nil {
		return nil, err
	}
	if id == 0 {
		return &models.Musician{}, nil
	}
	return s.store.GetMusician(ctx, id)
}

func (s *service) Save(ctx context.Context, actor authz.Actor, id int64, in models.MusicianInput, picture *media.Upload) (*models.Musician, error) {
	m, err := s.Editable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	in.Apply(m)

	if picture != nil {
		rel, err := s.pictures.Save(media.MusicianPictures, *picture)
		if err != nil {
			return nil, media.FormError("picture", err)
		}
		m.Picture = rel
	}

	if id != 0 {
		if err := s.store.UpdateMusician(ctx, m); err != nil {
			return nil, err
		}
		return m, nil
	}

	if err := s.store.CreateMusician(ctx, m); err != nil {
		return nil, err
	}
	if err := s.events.Publish(ctx, events.RecordCreated{UserID: actor.UserID, Kind: models.KindMusician, RecordID: m.ID}); err != nil {
		return nil, fmt.Errorf("musician %d created: %w", m.ID, err)
	}
	return m, nil
}

func (s *service) Restricted(ctx context.Context, actor authz.Actor, id int64) (*models.Musician, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, err := s.store.GetMusician(ctx, id)
	if err != nil {
		return nil, err
	}
	ok, err := s.authz.CanViewRestricted(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, authz.ErrDenied
	}
	return m, nil
}

func (s *service) ByDecade(ctx context.Context, year int) ([]models.Musician, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var from, to models.Date
	if year != 0 {
		year -= year % 10
		from = models.NewDate(year, time.January, 1)
		to = models.NewDate(year+10, time.January, 1)
	}
	return s.store.ListMusiciansBornBetween(ctx, from, to)
}
