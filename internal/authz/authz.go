// Package authz decides whether an actor may edit or view a record. All
// ownership rules live here so that handlers share one predicate.
package authz

import (
	"context"
	"errors"
	"fmt"

	"riffmates/internal/models"
)

// ErrDenied is returned by Require* helpers. Handlers render it as 404 so
// that denial does not reveal whether a record exists.
var ErrDenied = errors.New("permission denied")

// Actor is the account behind a request. The zero Actor is anonymous.
type Actor struct {
	UserID    int64
	Username  string
	Staff     bool
	Superuser bool
	// Service marks a trusted machine client holding the API key. It has no
	// account, so nothing is linked to a profile on its behalf.
	Service bool
}

// Anonymous is the actor for signed-out requests.
var Anonymous = Actor{}

// APIClient is the actor for requests carrying a valid API key.
var APIClient = Actor{Username: "api", Service: true}

// Authenticated reports whether the actor is signed in.
func (a Actor) Authenticated() bool { return a.UserID != 0 || a.Service }

// Privileged reports whether the actor bypasses ownership checks.
func (a Actor) Privileged() bool { return a.Staff || a.Superuser || a.Service }

// Resource identifies the record being acted on. ID 0 means a record that
// does not exist yet. OwnerID is only meaningful for seeking ads.
type Resource struct {
	Kind    models.Kind
	ID      int64
	OwnerID int64
}

// ControlStore answers profile-link questions.
type ControlStore interface {
	Controls(ctx context.Context, userID int64, kind models.Kind, recordID int64) (bool, error)
	ControlsBandmate(ctx context.Context, userID, musicianID int64) (bool, error)
}

// Authorizer evaluates the ownership rules.
type Authorizer struct {
	store ControlStore
}

// New builds an Authorizer backed by store.
func New(store ControlStore) *Authorizer {
	return &Authorizer{store: store}
}

// CanEdit reports whether actor may create or modify res.
func (a *Authorizer) CanEdit(ctx context.Context, actor Actor, res Resource) (bool, error) {
	if !actor.Authenticated() {
		return false, nil
	}
	if res.ID == 0 || actor.Privileged() {
		return true, nil
	}

	switch res.Kind {
	case models.KindMusician, models.KindVenue:
		ok, err := a.store.Controls(ctx, actor.UserID, res.Kind, res.ID)
		if err != nil {
			return false, fmt.Errorf("check %s control: %w", res.Kind, err)
		}
		return ok, nil
	case models.KindSeekingAd:
		return res.OwnerID == actor.UserID, nil
	default:
		return false, nil
	}
}

// RequireEdit is CanEdit returning ErrDenied on refusal.
func (a *Authorizer) RequireEdit(ctx context.Context, actor Actor, res Resource) error {
	ok, err := a.CanEdit(ctx, actor, res)
	if err != nil {
		return err
	}
	if !ok {
		return ErrDenied
	}
	return nil
}

// CanViewRestricted reports whether actor may see the restricted page of a
// musician: they control the musician, or control someone who shares a band
// with them.
func (a *Authorizer) CanViewRestricted(ctx context.Context, actor Actor, musicianID int64) (bool, error) {
	if !actor.Authenticated() {
		return false, nil
	}

	ok, err := a.store.Controls(ctx, actor.UserID, models.KindMusician, musicianID)
	if err != nil {
		return false, fmt.Errorf("check musician control: %w", err)
	}
	if ok {
		return true, nil
	}

	ok, err = a.store.ControlsBandmate(ctx, actor.UserID, musicianID)
	if err != nil {
		return false, fmt.Errorf("check bandmate control: %w", err)
	}
	return ok, nil
}
