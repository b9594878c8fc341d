package accounts

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riffmates/internal/events"
	"riffmates/internal/models"
	"riffmates/internal/store"
)

type fakeStore struct {
	created   models.NewAccount
	deleted   []int64
	deleteErr error
}

func (f *fakeStore) CreateUser(_ context.Context, acct models.NewAccount) (*models.User, error) {
	f.created = acct
	return &models.User{ID: 3, Username: acct.Username, IsStaff: acct.IsStaff}, nil
}

func (f *fakeStore) Authenticate(_ context.Context, username, password string) (*models.User, error) {
	if username == "ann" && password == "correct-horse" {
		return &models.User{ID: 3, Username: "ann"}, nil
	}
	return nil, store.ErrInvalidCredentials
}

func (f *fakeStore) UserByID(context.Context, int64) (*models.User, error) {
	return nil, store.ErrUserNotFound
}

func (f *fakeStore) DeleteUser(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

type recorder struct {
	got []events.Event
	err error
}

func (r *recorder) Publish(_ context.Context, e events.Event) error {
	r.got = append(r.got, e)
	return r.err
}

func TestSignupPublishesAccountCreated(t *testing.T) {
	st := &fakeStore{}
	rec := &recorder{}
	svc := New(st, rec)

	u, err := svc.Signup(context.Background(), models.NewAccount{Username: "ann", Password: "correct-horse", IsStaff: true})
	require.NoError(t, err)
	assert.False(t, st.created.IsStaff, "signup never grants staff")
	assert.Equal(t, []events.Event{events.AccountCreated{UserID: u.ID}}, rec.got)
}

func TestCreateUserRaw(t *testing.T) {
	rec := &recorder{}
	svc := New(&fakeStore{}, rec)

	_, err := svc.CreateUser(context.Background(), models.NewAccount{Username: "fixture", Password: "long-enough"}, true)
	require.NoError(t, err)
	assert.Equal(t, []events.Event{events.AccountCreated{UserID: 3, Raw: true}}, rec.got)
}

func TestSignupValidates(t *testing.T) {
	rec := &recorder{}
	svc := New(&fakeStore{}, rec)

	_, err := svc.Signup(context.Background(), models.NewAccount{Username: "ann", Password: "short"})
	assert.True(t, models.IsValidation(err))
	assert.Empty(t, rec.got)
}

func TestAuthenticateFailurePublishesLoginFailed(t *testing.T) {
	rec := &recorder{}
	svc := New(&fakeStore{}, rec)

	_, err := svc.Authenticate(context.Background(), "ann", "wrong", "/accounts/login/")
	assert.ErrorIs(t, err, store.ErrInvalidCredentials)
	assert.Equal(t, []events.Event{events.LoginFailed{Username: "ann", Path: "/accounts/login/"}}, rec.got)

	rec.got = nil
	u, err := svc.Authenticate(context.Background(), "ann", "correct-horse", "/accounts/login/")
	require.NoError(t, err)
	assert.Equal(t, "ann", u.Username)
	assert.Empty(t, rec.got)
}

func TestSignupSurfacesSubscriberError(t *testing.T) {
	st := &fakeStore{}
	rec := &recorder{err: errors.New("profile insert failed")}
	svc := New(st, rec)

	_, err := svc.Signup(context.Background(), models.NewAccount{Username: "ann", Password: "correct-horse"})
	assert.ErrorContains(t, err, "profile insert failed")
	assert.Equal(t, []int64{3}, st.deleted, "failed provisioning removes the new account")
}

func TestSignupReportsFailedRollback(t *testing.T) {
	st := &fakeStore{deleteErr: errors.New("connection lost")}
	svc := New(st, &recorder{err: errors.New("profile insert failed")})

	_, err := svc.Signup(context.Background(), models.NewAccount{Username: "ann", Password: "correct-horse"})
	assert.ErrorContains(t, err, "profile insert failed")
	assert.ErrorContains(t, err, "connection lost")
}
