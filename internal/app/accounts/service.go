package accounts

import (
	"context"
	"errors"
	"fmt"

	"riffmates/internal/events"
	"riffmates/internal/models"
)

// Store describes the persistence operations required by the account service.
type Store interface {
	CreateUser(ctx context.Context, acct models.NewAccount) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	UserByID(ctx context.Context, id int64) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// Publisher emits domain events.
type Publisher interface {
	Publish(ctx context.Context, e events.Event) error
}

// Service exposes account workflows.
type Service interface {
	// Signup validates and creates a regular account.
	Signup(ctx context.Context, acct models.NewAccount) (*models.User, error)
	// CreateUser creates any account. Raw skips profile provisioning.
	CreateUser(ctx context.Context, acct models.NewAccount, raw bool) (*models.User, error)
	// Authenticate checks credentials; path is recorded on failure.
	Authenticate(ctx context.Context, username, password, path string) (*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
}

type service struct {
	store  Store
	events Publisher
}

// New wires a Service backed by the provided Store.
func New(store Store, events Publisher) Service {
	return &service{store: store, events: events}
}

func (s *service) Signup(ctx context.Context, acct models.NewAccount) (*models.User, error) {
	acct.IsStaff = false
	acct.IsSuperuser = false
	return s.CreateUser(ctx, acct, false)
}

func (s *service) CreateUser(ctx context.Context, acct models.NewAccount, raw bool) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := acct.Validate(); err != nil {
		return nil, err
	}

	u, err := s.store.CreateUser(ctx, acct)
	if err != nil {
		return nil, err
	}
	if err := s.events.Publish(ctx, events.AccountCreated{UserID: u.ID, Raw: raw}); err != nil {
		// Undo the insert so the username stays free for a retry.
		if delErr := s.store.DeleteUser(context.WithoutCancel(ctx), u.ID); delErr != nil {
			return nil, errors.Join(fmt.Errorf("provision account %d: %w", u.ID, err), delErr)
		}
		return nil, fmt.Errorf("provision account %q: %w", u.Username, err)
	}
	return u, nil
}

func (s *service) Authenticate(ctx context.Context, username, password, path string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u, err := s.store.Authenticate(ctx, username, password)
	if err == nil {
		return u, nil
	}
	if pubErr := s.events.Publish(ctx, events.LoginFailed{Username: username, Path: path}); pubErr != nil {
		return nil, errors.Join(err, pubErr)
	}
	return nil, err
}

func (s *service) Get(ctx context.Context, id int64) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.UserByID(ctx, id)
}
