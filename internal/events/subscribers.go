package events

import (
	"context"

	"riffmates/internal/logging"
	"riffmates/internal/models"
)

// ProfileStore is the persistence needed by the built-in subscribers.
type ProfileStore interface {
	EnsureProfile(ctx context.Context, userID int64) (int64, error)
	GrantControl(ctx context.Context, userID int64, kind models.Kind, recordID int64) error
}

// ProvisionProfile creates a profile for every new, non-raw account. It is
// idempotent: an existing profile is left untouched.
func ProvisionProfile(store ProfileStore) Handler {
	return func(ctx context.Context, e Event) error {
		created, ok := e.(AccountCreated)
		if !ok || created.Raw {
			return nil
		}
		_, err := store.EnsureProfile(ctx, created.UserID)
		return err
	}
}

// GrantCreatorControl links a freshly created musician or venue to the
// creator's profile.
func GrantCreatorControl(store ProfileStore) Handler {
	return func(ctx context.Context, e Event) error {
		created, ok := e.(RecordCreated)
		if !ok || created.UserID == 0 {
			return nil
		}
		return store.GrantControl(ctx, created.UserID, created.Kind, created.RecordID)
	}
}

// LogFailedLogin writes a warning for rejected sign-ins.
func LogFailedLogin() Handler {
	return func(ctx context.Context, e Event) error {
		failed, ok := e.(LoginFailed)
		if !ok {
			return nil
		}
		username := failed.Username
		if username == "" {
			username = "<unknown>"
		}
		logging.WithContext(ctx).Warn().
			Str("username", username).
			Str("path", failed.Path).
			Msg("login failed")
		return nil
	}
}

// Register wires the default subscriber list onto b.
func Register(b *Bus, store ProfileStore) {
	b.Subscribe("profile-provisioner", ProvisionProfile(store))
	b.Subscribe("creator-control", GrantCreatorControl(store))
	b.Subscribe("login-audit", LogFailedLogin())
}
