package ads

import (
	"context"
	"time"

	"riffmates/internal/app"
	"riffmates/internal/authz"
	"riffmates/internal/models"
	"riffmates/internal/pagination"
	"riffmates/internal/search"
)

// Store defines persistence operations for seeking ads.
type Store interface {
	ListAds(ctx context.Context) ([]models.SeekingAd, error)
	GetAd(ctx context.Context, id int64) (*models.SeekingAd, error)
	CreateAd(ctx context.Context, ad *models.SeekingAd) error
	UpdateAd(ctx context.Context, ad *models.SeekingAd) error
	Profile(ctx context.Context, userID int64) (*models.Profile, error)
	MusiciansByIDs(ctx context.Context, ids []int64) ([]models.Musician, error)
	AllMusicians(ctx context.Context) ([]models.Musician, error)
}

// Authorizer answers ownership questions.
type Authorizer interface {
	RequireEdit(ctx context.Context, actor authz.Actor, res authz.Resource) error
}

// Grouped splits ads by what they are seeking.
type Grouped struct {
	SeekingMusician []models.SeekingAd
	SeekingBand     []models.SeekingAd
}

// Service coordinates seeking-ad operations.
type Service interface {
	ListGrouped(ctx context.Context) (Grouped, error)
	Get(ctx context.Context, id int64) (*models.SeekingAd, error)
	// Editable returns the ad actor may edit; id 0 yields a blank ad.
	Editable(ctx context.Context, actor authz.Actor, id int64) (*models.SeekingAd, error)
	Save(ctx context.Context, actor authz.Actor, id int64, in models.AdInput) (*models.SeekingAd, error)
	// MusicianChoices lists the musicians actor may name on an ad.
	MusicianChoices(ctx context.Context, actor authz.Actor) ([]models.Musician, error)
	// Search pages through ads matching any whitespace-separated term.
	Search(ctx context.Context, query string, p pagination.Params) (pagination.Result[models.SeekingAd], error)
}

type service struct {
	store     Store
	authz     Authorizer
	search    search.Store
	pageDelay time.Duration
}

// New constructs an ad Service. pageDelay is applied to explicitly paged
// search requests.
func New(store Store, az Authorizer, searcher search.Store, pageDelay time.Duration) Service {
	return &service{store: store, authz: az, search: searcher, pageDelay: pageDelay}
}

func (s *service) ListGrouped(ctx context.Context) (Grouped, error) {
	if err := ctx.Err(); err != nil {
		return Grouped{}, err
	}
	all, err := s.store.ListAds(ctx)
	if err != nil {
		return Grouped{}, err
	}

	g := Grouped{SeekingMusician: []models.SeekingAd{}, SeekingBand: []models.SeekingAd{}}
	for _, ad := range all {
		switch ad.Seeking {
		case models.SeekingMusician:
			g.SeekingMusician = append(g.SeekingMusician, ad)
		case models.SeekingBand:
			g.SeekingBand = append(g.SeekingBand, ad)
		}
	}
	return g, nil
}

func (s *service) Get(ctx context.Context, id int64) (*models.SeekingAd, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.GetAd(ctx, id)
}

func (s *service) Editable(ctx context.Context, actor authz.Actor, id int64) (*models.SeekingAd, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := authz.Resource{Kind: models.KindSeekingAd}
	ad := &models.SeekingAd{}
	if id != 0 {
		existing, err := s.store.GetAd(ctx, id)
		if err != nil {
			return nil, err
		}
		ad = existing
		res.ID = existing.ID
		res.OwnerID = existing.OwnerID
	}

	if err := s.authz.RequireEdit(ctx, actor, res); err != nil {
		return nil, err
	}
	return ad, nil
}

func (s *service) Save(ctx context.Context, actor authz.Actor, id int64, in models.AdInput) (*models.SeekingAd, error) {
	ad, err := s.Editable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if in.MusicianID != nil {
		if err := s.checkMusicianChoice(ctx, actor, *in.MusicianID); err != nil {
			return nil, err
		}
	}
	in.Apply(ad)

	if id != 0 {
		if err := s.store.UpdateAd(ctx, ad); err != nil {
			return nil, err
		}
		return ad, nil
	}

	ad.OwnerID = actor.UserID
	if err := s.store.CreateAd(ctx, ad); err != nil {
		return nil, err
	}
	return ad, nil
}

func (s *service) checkMusicianChoice(ctx context.Context, actor authz.Actor, musicianID int64) error {
	choices, err := s.MusicianChoices(ctx, actor)
	if err != nil {
		return err
	}
	for _, m := range choices {
		if m.ID == musicianID {
			return nil
		}
	}
	return models.FieldError("musician", "Select a valid choice. That choice is not one of the available choices.")
}

func (s *service) MusicianChoices(ctx context.Context, actor authz.Actor) ([]models.Musician, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if actor.Privileged() {
		return s.store.AllMusicians(ctx)
	}
	if !actor.Authenticated() {
		return []models.Musician{}, nil
	}
	profile, err := s.store.Profile(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return s.store.MusiciansByIDs(ctx, profile.ControlledMusicians)
}

func (s *service) Search(ctx context.Context, query string, p pagination.Params) (pagination.Result[models.SeekingAd], error) {
	if err := ctx.Err(); err != nil {
		return pagination.Result[models.SeekingAd]{}, err
	}
	if p.Paged {
		if err := app.Delay(ctx, s.pageDelay); err != nil {
			return pagination.Result[models.SeekingAd]{}, err
		}
	}

	terms := search.Terms(query)
	total, err := s.search.Count(ctx, terms)
	if err != nil {
		return pagination.Result[models.SeekingAd]{}, err
	}
	page := pagination.New(p, total)
	items, err := s.search.Search(ctx, terms, page.Limit(), page.Offset())
	if err != nil {
		return pagination.Result[models.SeekingAd]{}, err
	}
	return pagination.Result[models.SeekingAd]{Items: items, Page: page}, nil
}
