package venues

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riffmates/internal/authz"
	"riffmates/internal/events"
	"riffmates/internal/media"
	"riffmates/internal/models"
	"riffmates/internal/store"
)

type fakeStore struct {
	venues   []models.Venue
	profiles map[int64]*models.Profile
	deleted  []int64
	created  *models.Venue
	updated  *models.Venue
	rooms    []models.Room
}

func (f *fakeStore) ListVenues(context.Context, string) ([]models.Venue, error) {
	out := make([]models.Venue, len(f.venues))
	copy(out, f.venues)
	return out, nil
}

func (f *fakeStore) GetVenue(_ context.Context, id int64) (*models.Venue, error) {
	for _, v := range f.venues {
		if v.ID == id {
			cp := v
			return &cp, nil
		}
	}
	return nil, store.ErrVenueNotFound
}

func (f *fakeStore) CreateVenue(_ context.Context, v *models.Venue) error {
	v.ID = 50
	f.created = v
	return nil
}

func (f *fakeStore) UpdateVenue(_ context.Context, v *models.Venue) error {
	f.updated = v
	return nil
}

func (f *fakeStore) DeleteVenue(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeStore) AddRoom(_ context.Context, r *models.Room) error {
	for _, existing := range f.rooms {
		if existing.VenueID == r.VenueID && existing.Name == r.Name {
			return store.ErrDuplicateRoom
		}
	}
	r.ID = int64(len(f.rooms) + 1)
	f.rooms = append(f.rooms, *r)
	return nil
}

func (f *fakeStore) Profile(_ context.Context, userID int64) (*models.Profile, error) {
	if p, ok := f.profiles[userID]; ok {
		return p, nil
	}
	return &models.Profile{UserID: userID}, nil
}

type controlsOnly map[int64]bool

func (c controlsOnly) RequireEdit(_ context.Context, actor authz.Actor, res authz.Resource) error {
	if actor.Authenticated() && (res.ID == 0 || actor.Privileged() || c[res.ID]) {
		return nil
	}
	return authz.ErrDenied
}

type noPictures struct{}

func (noPictures) Save(string, media.Upload) (string, error) { return "", nil }

type recorder struct{ got []events.Event }

func (r *recorder) Publish(_ context.Context, e events.Event) error {
	r.got = append(r.got, e)
	return nil
}

func newFixture() (*fakeStore, *recorder, Service) {
	st := &fakeStore{
		venues: []models.Venue{{ID: 1, Name: "Cavern"}, {ID: 2, Name: "Marquee"}},
		profiles: map[int64]*models.Profile{
			7: {UserID: 7, ControlledVenues: []int64{2}},
		},
	}
	rec := &recorder{}
	return st, rec, New(st, controlsOnly{2: true}, noPictures{}, rec)
}

func TestListForActorFlagsControlled(t *testing.T) {
	_, _, svc := newFixture()
	ctx := context.Background()

	anon, err := svc.ListForActor(ctx, authz.Anonymous)
	require.NoError(t, err)
	assert.False(t, anon[0].Controlled)
	assert.False(t, anon[1].Controlled)

	owner, err := svc.ListForActor(ctx, authz.Actor{UserID: 7})
	require.NoError(t, err)
	assert.False(t, owner[0].Controlled)
	assert.True(t, owner[1].Controlled)

	staff, err := svc.ListForActor(ctx, authz.Actor{UserID: 8, Staff: true})
	require.NoError(t, err)
	assert.True(t, staff[0].Controlled)
	assert.True(t, staff[1].Controlled)
}

func TestSaveCreateGrantsCreator(t *testing.T) {
	st, rec, svc := newFixture()

	v, err := svc.Save(context.Background(), authz.Actor{UserID: 7}, 0, models.VenueInput{Name: " Roxy "}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Roxy", st.created.Name)
	require.Len(t, rec.got, 1)
	assert.Equal(t, events.RecordCreated{UserID: 7, Kind: models.KindVenue, RecordID: v.ID}, rec.got[0])
}

func TestSaveDenied(t *testing.T) {
	st, rec, svc := newFixture()
	ctx := context.Background()

	_, err := svc.Save(ctx, authz.Actor{UserID: 7}, 1, models.VenueInput{Name: "Hijacked"}, nil)
	assert.ErrorIs(t, err, authz.ErrDenied)

	_, err = svc.Save(ctx, authz.Anonymous, 2, models.VenueInput{Name: "Hijacked"}, nil)
	assert.ErrorIs(t, err, authz.ErrDenied)

	_, err = svc.Save(ctx, authz.Anonymous, 0, models.VenueInput{Name: "Roxy"}, nil)
	assert.ErrorIs(t, err, authz.ErrDenied)

	assert.Nil(t, st.updated)
	assert.Nil(t, st.created)
	assert.Empty(t, rec.got)

	v, err := svc.Save(ctx, authz.Actor{UserID: 7}, 2, models.VenueInput{Name: "Marquee Club"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Marquee Club", v.Name)
	assert.Same(t, v, st.updated)
}

func TestSaveRejectsLongName(t *testing.T) {
	_, _, svc := newFixture()

	_, err := svc.Save(context.Background(), authz.Actor{UserID: 7}, 2, models.VenueInput{Name: "a name that is far too long"}, nil)
	assert.True(t, models.IsValidation(err))
}

func TestDelete(t *testing.T) {
	st, _, svc := newFixture()

	assert.ErrorIs(t, svc.Delete(context.Background(), authz.Actor{UserID: 7}, 1), authz.ErrDenied)
	require.NoError(t, svc.Delete(context.Background(), authz.APIClient, 1))
	assert.Equal(t, []int64{1}, st.deleted)
}

func TestAddRoom(t *testing.T) {
	st, _, svc := newFixture()
	owner := authz.Actor{UserID: 7}
	ctx := context.Background()

	room, err := svc.AddRoom(ctx, owner, 2, models.RoomInput{Name: " Main Stage "})
	require.NoError(t, err)
	assert.Equal(t, "Main Stage", room.Name)
	assert.Equal(t, int64(2), room.VenueID)
	require.Len(t, st.rooms, 1)

	_, err = svc.AddRoom(ctx, owner, 2, models.RoomInput{Name: "Main Stage"})
	require.True(t, models.IsValidation(err))
	assert.Contains(t, err.Error(), "already exists")

	_, err = svc.AddRoom(ctx, owner, 1, models.RoomInput{Name: "Bar"})
	assert.ErrorIs(t, err, authz.ErrDenied)

	_, err = svc.AddRoom(ctx, owner, 0, models.RoomInput{Name: "Bar"})
	assert.ErrorIs(t, err, store.ErrVenueNotFound)
}
