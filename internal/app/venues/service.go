package venues

import (
	"context"
	"errors"
	"fmt"

	"riffmates/internal/authz"
	"riffmates/internal/events"
	"riffmates/internal/media"
	"riffmates/internal/models"
	"riffmates/internal/store"
)

// Store defines persistence operations for venues.
type Store interface {
	ListVenues(ctx context.Context, prefix string) ([]models.Venue, error)
	GetVenue(ctx context.Context, id int64) (*models.Venue, error)
	CreateVenue(ctx context.Context, v *models.Venue) error
	UpdateVenue(ctx context.Context, v *models.Venue) error
	DeleteVenue(ctx context.Context, id int64) error
	AddRoom(ctx context.Context, r *models.Room) error
	Profile(ctx context.Context, userID int64) (*models.Profile, error)
}

// Authorizer answers ownership questions.
type Authorizer interface {
	RequireEdit(ctx context.Context, actor authz.Actor, res authz.Resource) error
}

// Pictures saves uploaded images.
type Pictures interface {
	Save(dir string, up media.Upload) (string, error)
}

// Publisher emits domain events.
type Publisher interface {
	Publish(ctx context.Context, e events.Event) error
}

// Service coordinates venue operations.
type Service interface {
	// List returns venues whose name starts with prefix, with rooms.
	List(ctx context.Context, prefix string) ([]models.Venue, error)
	// ListForActor flags each venue the actor may edit as Controlled.
	ListForActor(ctx context.Context, actor authz.Actor) ([]models.Venue, error)
	Get(ctx context.Context, id int64) (*models.Venue, error)
	Editable(ctx context.Context, actor authz.Actor, id int64) (*models.Venue, error)
	Save(ctx context.Context, actor authz.Actor, id int64, in models.VenueInput, picture *media.Upload) (*models.Venue, error)
	Delete(ctx context.Context, actor authz.Actor, id int64) error
	// AddRoom creates a room in a venue the actor controls.
	AddRoom(ctx context.Context, actor authz.Actor, venueID int64, in models.RoomInput) (*models.Room, error)
}

type service struct {
	store    Store
	authz    Authorizer
	pictures Pictures
	events   Publisher
}

// New constructs a venue Service.
func New(store Store, az Authorizer, pictures Pictures, events Publisher) Service {
	return &service{store: store, authz: az, pictures: pictures, events: events}
}

func (s *service) List(ctx context.Context, prefix string) ([]models.Venue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListVenues(ctx, prefix)
}

func (s *service) ListForActor(ctx context.Context, actor authz.Actor) ([]models.Venue, error) {
	venues, err := s.List(ctx, "")
	if err != nil {
		return nil, err
	}
	if !actor.Authenticated() {
		return venues, nil
	}
	if actor.Privileged() {
		for i := range venues {
			venues[i].Controlled = true
		}
		return venues, nil
	}

	profile, err := s.store.Profile(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	controlled := make(map[int64]bool, len(profile.ControlledVenues))
	for _, id := range profile.ControlledVenues {
		controlled[id] = true
	}
	for i := range venues {
		venues[i].Controlled = controlled[venues[i].ID]
	}
	return venues, nil
}

func (s *service) Get(ctx context.Context, id int64) (*models.Venue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.GetVenue(ctx, id)
}

func (s *service) Editable(ctx context.Context, actor authz.Actor, id int64) (*models.Venue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.authz.RequireEdit(ctx, actor, authz.Resource{Kind: models.KindVenue, ID: id}); err != nil {
		return nil, err
	}
	if id == 0 {
		return &models.Venue{}, nil
	}
	return s.store.GetVenue(ctx, id)
}

func (s *service) Save(ctx context.Context, actor authz.Actor, id int64, in models.VenueInput, picture *media.Upload) (*models.Venue, error) {
	v, err := s.Editable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	in.Apply(v)

	if picture != nil {
		rel, err := s.pictures.Save(media.VenuePictures, *picture)
		if err != nil {
			return nil, media.FormError("picture", err)
		}
		v.Picture = rel
	}

	if id != 0 {
		if err := s.store.UpdateVenue(ctx, v); err != nil {
			return nil, err
		}
		return v, nil
	}

	if err := s.store.CreateVenue(ctx, v); err != nil {
		return nil, err
	}
	if err := s.events.Publish(ctx, events.RecordCreated{UserID: actor.UserID, Kind: models.KindVenue, RecordID: v.ID}); err != nil {
		return nil, fmt.Errorf("venue %d created: %w", v.ID, err)
	}
	return v, nil
}

func (s *service) Delete(ctx context.Context, actor authz.Actor, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.authz.RequireEdit(ctx, actor, authz.Resource{Kind: models.KindVenue, ID: id}); err != nil {
		return err
	}
	return s.store.DeleteVenue(ctx, id)
}

func (s *service) AddRoom(ctx context.Context, actor authz.Actor, venueID int64, in models.RoomInput) (*models.Room, error) {
	if venueID == 0 {
		return nil, store.ErrVenueNotFound
	}
	if _, err := s.Editable(ctx, actor, venueID); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	room := &models.Room{Name: in.Name, VenueID: venueID}
	if err := s.store.AddRoom(ctx, room); err != nil {
		if errors.Is(err, store.ErrDuplicateRoom) {
			return nil, models.FieldError("name", "Room with this Name and Venue already exists.")
		}
		return nil, err
	}
	return room, nil
}
