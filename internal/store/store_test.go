package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"riffmates/internal/models"
)

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		db.Close()
	})
	return New(db), mock
}

func TestCreateUserSuccess(t *testing.T) {
	s, mock := newMock(t)
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (username, password_hash`)).
		WithArgs("alice", sqlmock.AnyArg(), "Alice", "", "", false, false).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), created))

	u, err := s.CreateUser(context.Background(), models.NewAccount{
		Username:  "  alice ",
		Password:  "secret-password",
		FirstName: "Alice",
	})
	if err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}
	if u.ID != 7 || u.Username != "alice" {
		t.Fatalf("unexpected user %+v", u)
	}
	if !u.CreatedAt.Equal(created) {
		t.Fatalf("expected created_at %v, got %v", created, u.CreatedAt)
	}
}

func TestCreateUserDuplicate(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := s.CreateUser(context.Background(), models.NewAccount{Username: "alice", Password: "secret-password"})
	if !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestCreateUserDuplicateLibPQ(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := s.CreateUser(context.Background(), models.NewAccount{Username: "alice", Password: "secret-password"})
	if !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestDeleteUser(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE id = $1`)).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE id = $1`)).
		WithArgs(int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.DeleteUser(context.Background(), 7); err != nil {
		t.Fatalf("DeleteUser error: %v", err)
	}
	if err := s.DeleteUser(context.Background(), 8); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestCreateUserRequiresFields(t *testing.T) {
	s, _ := newMock(t)

	if _, err := s.CreateUser(context.Background(), models.NewAccount{Username: " "}); err == nil {
		t.Fatal("expected error for empty username")
	}
}

func TestAuthenticate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("right-password"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	columns := []string{"id", "username", "first_name", "last_name", "email", "is_staff", "is_superuser", "created_at", "password_hash"}

	t.Run("valid", func(t *testing.T) {
		s, mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(`FROM users`)).
			WithArgs("bob").
			WillReturnRows(sqlmock.NewRows(columns).AddRow(int64(3), "bob", "", "", "", true, false, time.Now(), hash))

		u, err := s.Authenticate(context.Background(), "bob", "right-password")
		if err != nil {
			t.Fatalf("Authenticate error: %v", err)
		}
		if u.ID != 3 || !u.IsStaff {
			t.Fatalf("unexpected user %+v", u)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		s, mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(`FROM users`)).
			WithArgs("bob").
			WillReturnRows(sqlmock.NewRows(columns).AddRow(int64(3), "bob", "", "", "", false, false, time.Now(), hash))

		if _, err := s.Authenticate(context.Background(), "bob", "nope"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		s, mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(`FROM users`)).
			WithArgs("ghost").
			WillReturnError(sql.ErrNoRows)

		if _, err := s.Authenticate(context.Background(), "ghost", "x"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestGrantControl(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO user_profiles (user_id)`)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO profile_venues (profile_id, venue_id)`)).
		WithArgs(int64(11), int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.GrantControl(context.Background(), 5, models.KindVenue, 9); err != nil {
		t.Fatalf("GrantControl error: %v", err)
	}
}

func TestGrantControlUnknownKind(t *testing.T) {
	s, _ := newMock(t)

	err := s.GrantControl(context.Background(), 5, models.KindSeekingAd, 9)
	if !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestControls(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM profile_musicians c`)).
		WithArgs(int64(2), int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := s.Controls(context.Background(), 2, models.KindMusician, 4)
	if err != nil {
		t.Fatalf("Controls error: %v", err)
	}
	if !ok {
		t.Fatal("expected control")
	}
}

func TestGetMusicianNotFound(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM musicians m`)).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	if _, err := s.GetMusician(context.Background(), 404); !errors.Is(err, ErrMusicianNotFound) {
		t.Fatalf("expected ErrMusicianNotFound, got %v", err)
	}
}

func TestGetMusicianWithBands(t *testing.T) {
	s, mock := newMock(t)
	birth := time.Date(1970, 5, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM musicians m`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "birth", "description", "picture"}).
			AddRow(int64(1), "Steve", "Vai", birth, "", "musician_pictures/a.png"))
	mock.ExpectQuery(regexp.QuoteMeta(`JOIN band_musicians bm ON bm.band_id = b.id`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(2), "Whitesnake"))

	m, err := s.GetMusician(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetMusician error: %v", err)
	}
	if m.Birth.String() != "1970-05-01" {
		t.Fatalf("expected birth 1970-05-01, got %s", m.Birth)
	}
	if len(m.Bands) != 1 || m.Bands[0].Name != "Whitesnake" {
		t.Fatalf("unexpected bands %+v", m.Bands)
	}
}

func TestListBandsByNamePrefixAttachesMembers(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE name ILIKE $1`)).
		WithArgs(`the\_%`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(int64(1), "The_Band").
			AddRow(int64(2), "the_others"))
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE bm.band_id = ANY($1)`)).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"band_id", "id", "first_name", "last_name", "birth", "description", "picture"}).
			AddRow(int64(2), int64(8), "Joe", "Doe", time.Now(), "", ""))

	bands, err := s.ListBandsByNamePrefix(context.Background(), "the_")
	if err != nil {
		t.Fatalf("ListBandsByNamePrefix error: %v", err)
	}
	if len(bands) != 2 {
		t.Fatalf("expected 2 bands, got %d", len(bands))
	}
	if len(bands[0].Musicians) != 0 {
		t.Fatalf("expected no members on first band, got %+v", bands[0].Musicians)
	}
	if len(bands[1].Musicians) != 1 || bands[1].Musicians[0].ID != 8 {
		t.Fatalf("unexpected members %+v", bands[1].Musicians)
	}
}

func TestUpdateVenueNotFound(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE venues`)).
		WithArgs("Hall", "", "", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.UpdateVenue(context.Background(), &models.Venue{ID: 3, Name: "Hall"})
	if !errors.Is(err, ErrVenueNotFound) {
		t.Fatalf("expected ErrVenueNotFound, got %v", err)
	}
}

func TestAddRoomDuplicate(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO rooms`)).
		WithArgs("Main", int64(1)).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	if err := s.AddRoom(context.Background(), &models.Room{Name: "Main", VenueID: 1}); !errors.Is(err, ErrDuplicateRoom) {
		t.Fatalf("expected ErrDuplicateRoom, got %v", err)
	}
}

func TestAddRoomDuplicateLibPQ(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO rooms`)).
		WithArgs("Main", int64(1)).
		WillReturnError(&pq.Error{Code: "23505"})

	if err := s.AddRoom(context.Background(), &models.Room{Name: "Main", VenueID: 1}); !errors.Is(err, ErrDuplicateRoom) {
		t.Fatalf("expected ErrDuplicateRoom, got %v", err)
	}
}

func TestGetAdNullReferences(t *testing.T) {
	s, mock := newMock(t)
	date := time.Date(2023, 3, 9, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM seeking_ads a`)).
		WithArgs(int64(6)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "date", "owner_id", "seeking", "musician_id", "band_id", "content", "username", "musician", "band"}).
			AddRow(int64(6), date, int64(1), "M", nil, int64(4), "need a drummer", "carol", "", "Beatles"))

	ad, err := s.GetAd(context.Background(), 6)
	if err != nil {
		t.Fatalf("GetAd error: %v", err)
	}
	if ad.MusicianID != nil {
		t.Fatalf("expected nil musician, got %d", *ad.MusicianID)
	}
	if ad.BandID == nil || *ad.BandID != 4 {
		t.Fatalf("expected band 4, got %v", ad.BandID)
	}
	if ad.Seeking != models.SeekingMusician || ad.OwnerName != "carol" {
		t.Fatalf("unexpected ad %+v", ad)
	}
}

func TestCreateAd(t *testing.T) {
	s, mock := newMock(t)
	band := int64(4)
	date := time.Date(2023, 3, 9, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO seeking_ads`)).
		WithArgs(int64(1), "M", nil, int64(4), "need a drummer").
		WillReturnRows(sqlmock.NewRows([]string{"id", "date"}).AddRow(int64(12), date))

	ad := &models.SeekingAd{OwnerID: 1, Seeking: models.SeekingMusician, BandID: &band, Content: "need a drummer"}
	if err := s.CreateAd(context.Background(), ad); err != nil {
		t.Fatalf("CreateAd error: %v", err)
	}
	if ad.ID != 12 || ad.Date.String() != "2023-03-09" {
		t.Fatalf("unexpected ad %+v", ad)
	}
}

func TestReferencedPictures(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT picture FROM musicians`)).
		WillReturnRows(sqlmock.NewRows([]string{"picture"}).
			AddRow("musician_pictures/a.png").
			AddRow("venue_pictures/b.jpg"))

	paths, err := s.ReferencedPictures(context.Background())
	if err != nil {
		t.Fatalf("ReferencedPictures error: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 paths, got %v", paths)
	}
}

func TestEscapeLike(t *testing.T) {
	tests := map[string]string{
		"plain":   "plain",
		"50%":     `50\%`,
		"a_b":     `a\_b`,
		`back\sl`: `back\\sl`,
	}
	for in, want := range tests {
		if got := EscapeLike(in); got != want {
			t.Errorf("EscapeLike(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSeedDemoSkipsPopulatedDatabase(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM musicians`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	seeded, err := s.SeedDemo(context.Background())
	if err != nil {
		t.Fatalf("SeedDemo error: %v", err)
	}
	if seeded {
		t.Fatal("expected no seeding when musicians exist")
	}
}

func TestSeedDemoRollsBackOnFailure(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM musicians`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO musicians`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO musicians`)).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	seeded, err := s.SeedDemo(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if seeded {
		t.Fatal("expected seeded to be false on failure")
	}
}
