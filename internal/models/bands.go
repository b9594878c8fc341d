package models

// Musician represents a performer listed in the directory.
type Musician struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Birth       Date   `json:"birth"`
	Description string `json:"description"`
	Picture     string `json:"picture,omitempty"` // path relative to the media root

	// Populated on detail lookups only
	Bands []Band `json:"bands,omitempty"`
}

// FullName joins first and last name.
func (m Musician) FullName() string {
	switch {
	case m.FirstName == "":
		return m.LastName
	case m.LastName == "":
		return m.FirstName
	default:
		return m.FirstName + " " + m.LastName
	}
}

// Band groups musicians under a name.
type Band struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Musicians []Musician `json:"musicians,omitempty"`
}

// Venue represents a place that hosts performances.
type Venue struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Picture     string `json:"picture,omitempty"`
	Rooms       []Room `json:"rooms,omitempty"`

	// Controlled is set for listings rendered for a signed-in account.
	Controlled bool `json:"-"`
}

// Room is a performance space inside a Venue. (Name, VenueID) is unique.
type Room struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	VenueID int64  `json:"-"`
}

// MusicianInput carries editable musician fields from forms and the API.
type MusicianInput struct {
	FirstName   string `json:"first_name" validate:"required,max=50"`
	LastName    string `json:"last_name" validate:"required,max=50"`
	Birth       Date   `json:"birth"`
	Description string `json:"description"`
}

// Apply copies the input onto m.
func (in MusicianInput) Apply(m *Musician) {
	m.FirstName = in.FirstName
	m.LastName = in.LastName
	m.Birth = in.Birth
	m.Description = in.Description
}

// VenueInput carries editable venue fields from forms and the API.
type VenueInput struct {
	Name        string `json:"name" validate:"required,max=20"`
	Description string `json:"description"`
}

// Apply copies the input onto v.
func (in VenueInput) Apply(v *Venue) {
	v.Name = in.Name
	v.Description = in.Description
}

// RoomInput names a new room.
type RoomInput struct {
	Name string `json:"name" validate:"required,max=20"`
}
