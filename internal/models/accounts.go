package models

import "time"

// User is an account that can sign in.
type User struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	IsStaff     bool      `json:"is_staff"`
	IsSuperuser bool      `json:"is_superuser"`
	CreatedAt   time.Time `json:"created_at"`
}

// Profile links an account to the musicians and venues it controls.
type Profile struct {
	ID                  int64   `json:"id"`
	UserID              int64   `json:"user_id"`
	ControlledMusicians []int64 `json:"musician_profiles"`
	ControlledVenues    []int64 `json:"venues_controlled"`
}

// NewAccount describes an account to be created.
type NewAccount struct {
	Username    string `json:"username" validate:"required,max=150"`
	Password    string `json:"password" validate:"required,min=8"`
	Email       string `json:"email" validate:"omitempty,email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
}

// Validate checks the account fields.
func (a *NewAccount) Validate() error {
	return checkStruct(a).orNil()
}

// Kind names a record type subject to ownership checks.
type Kind string

const (
	KindMusician  Kind = "musician"
	KindVenue     Kind = "venue"
	KindSeekingAd Kind = "seeking_ad"
)
