package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func idPtr(v int64) *int64 { return &v }

func TestAdInputValidate(t *testing.T) {
	tests := []struct {
		name   string
		in     AdInput
		fields []string
	}{
		{
			name: "band seeking musician",
			in:   AdInput{Seeking: SeekingMusician, BandID: idPtr(1), Content: "need a drummer"},
		},
		{
			name: "musician seeking band",
			in:   AdInput{Seeking: SeekingBand, MusicianID: idPtr(2), Content: "bassist for hire"},
		},
		{
			name:   "seeking musician without band",
			in:     AdInput{Seeking: SeekingMusician, Content: "x"},
			fields: []string{"band"},
		},
		{
			name:   "seeking musician with musician set",
			in:     AdInput{Seeking: SeekingMusician, BandID: idPtr(1), MusicianID: idPtr(2), Content: "x"},
			fields: []string{"musician"},
		},
		{
			name:   "seeking band without musician but with band",
			in:     AdInput{Seeking: SeekingBand, BandID: idPtr(1), Content: "x"},
			fields: []string{"musician", "band"},
		},
		{
			name:   "blank content",
			in:     AdInput{Seeking: SeekingBand, MusicianID: idPtr(2), Content: "   "},
			fields: []string{"content"},
		},
		{
			name:   "unknown seeking",
			in:     AdInput{Seeking: "X", Content: "x"},
			fields: []string{"seeking"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if len(tt.fields) == 0 {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.True(t, IsValidation(err))

			var got []string
			for _, p := range err.(*ValidationError).Problems {
				got = append(got, p.Field)
			}
			assert.ElementsMatch(t, tt.fields, got)
		})
	}
}

func TestMusicianInputValidate(t *testing.T) {
	in := MusicianInput{FirstName: "  Jimmy ", LastName: "Page", Birth: NewDate(1944, time.January, 9)}
	require.NoError(t, in.Validate())
	assert.Equal(t, "Jimmy", in.FirstName)

	missing := MusicianInput{LastName: strings.Repeat("x", 51)}
	err := missing.Validate()
	require.Error(t, err)

	fields := err.(*ValidationError).FieldErrors()
	assert.Equal(t, "This field is required.", fields["first_name"])
	assert.Equal(t, "Ensure this value has at most 50 characters.", fields["last_name"])
	assert.Equal(t, "This field is required.", fields["birth"])
}

func TestVenueInputValidate(t *testing.T) {
	ok := VenueInput{Name: "Roxy"}
	require.NoError(t, ok.Validate())

	long := VenueInput{Name: "The Extremely Long Venue Name"}
	err := long.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name: Ensure this value has at most 20 characters.")
}

func TestNewAccountValidate(t *testing.T) {
	acct := NewAccount{Username: "ruairi", Password: "short", Email: "nope"}
	err := acct.Validate()
	require.Error(t, err)

	fields := err.(*ValidationError).FieldErrors()
	assert.Contains(t, fields, "password")
	assert.Contains(t, fields, "email")
}

func TestDateJSON(t *testing.T) {
	var payload struct {
		Birth Date `json:"birth"`
		Death Date `json:"death"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"birth":"1948-08-20","death":null}`), &payload))
	assert.Equal(t, NewDate(1948, time.August, 20), payload.Birth)
	assert.True(t, payload.Death.IsZero())

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"birth":"1948-08-20","death":null}`, string(out))

	err = json.Unmarshal([]byte(`{"birth":"20/08/1948"}`), &payload)
	assert.Error(t, err)
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(1970, 5, 4, 13, 0, 0, 0, time.FixedZone("x", 3600))))
	assert.Equal(t, "1970-05-04", d.String())

	require.NoError(t, d.Scan([]byte("2001-02-03T00:00:00Z")))
	assert.Equal(t, "2001-02-03", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	v, err := d.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestMusicianFullName(t *testing.T) {
	assert.Equal(t, "Jimmy Page", Musician{FirstName: "Jimmy", LastName: "Page"}.FullName())
	assert.Equal(t, "Prince", Musician{FirstName: "Prince"}.FullName())
	assert.Equal(t, "Band", SeekingBand.Label())
}
