package models

import "strings"

// Seeking is the intent of a classified ad.
type Seeking string

const (
	// SeekingMusician is posted by a band looking for a musician.
	SeekingMusician Seeking = "M"
	// SeekingBand is posted by a musician looking for a band.
	SeekingBand Seeking = "B"
)

// Label is the human-readable form used on pages.
func (s Seeking) Label() string {
	switch s {
	case SeekingMusician:
		return "Musician"
	case SeekingBand:
		return "Band"
	default:
		return string(s)
	}
}

// SeekingAd is a classified posting.
type SeekingAd struct {
	ID         int64   `json:"id"`
	Date       Date    `json:"date"`
	OwnerID    int64   `json:"owner_id"`
	Seeking    Seeking `json:"seeking"`
	MusicianID *int64  `json:"musician_id,omitempty"`
	BandID     *int64  `json:"band_id,omitempty"`
	Content    string  `json:"content"`

	// Display fields filled from joins
	OwnerName    string `json:"owner_name,omitempty"`
	MusicianName string `json:"musician_name,omitempty"`
	BandName     string `json:"band_name,omitempty"`
}

// AdInput carries the editable fields of a SeekingAd.
type AdInput struct {
	Seeking    Seeking `json:"seeking" validate:"required,oneof=M B"`
	MusicianID *int64  `json:"musician"`
	BandID     *int64  `json:"band"`
	Content    string  `json:"content" validate:"required"`
}

// Apply copies the input onto ad.
func (in AdInput) Apply(ad *SeekingAd) {
	ad.Seeking = in.Seeking
	ad.MusicianID = in.MusicianID
	ad.BandID = in.BandID
	ad.Content = in.Content
}

// Validate enforces that exactly one of musician or band is referenced and
// that it matches the seeking flag.
func (in *AdInput) Validate() error {
	in.Content = strings.TrimSpace(in.Content)

	ve := checkStruct(in)
	if len(ve.Problems) > 0 {
		return ve
	}

	switch in.Seeking {
	case SeekingMusician:
		if in.BandID == nil {
			ve.add("band", "Band field required when seeking a musician")
		}
		if in.MusicianID != nil {
			ve.add("musician", "Musician field should be empty for a band seeking a musician")
		}
	case SeekingBand:
		if in.MusicianID == nil {
			ve.add("musician", "Musician field required when seeking a band")
		}
		if in.BandID != nil {
			ve.add("band", "Band field should be empty for a musician seeking a band")
		}
	}
	return ve.orNil()
}

// Promoter is an event promoter.
type Promoter struct {
	ID            int64   `json:"id"`
	CommonName    string  `json:"common_name"`
	FullName      string  `json:"full_name"`
	FamousFor     string  `json:"famous_for"`
	Birth         Date    `json:"birth"`
	Death         Date    `json:"death"`
	StreetAddress *string `json:"street_address,omitempty"`
	City          *string `json:"city,omitempty"`
	ProvinceState *string `json:"province_state,omitempty"`
	Country       *string `json:"country,omitempty"`
	PostalZipCode *string `json:"postal_zip_code,omitempty"`
}
