// Package web serves the server-rendered RiffMates pages.
package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"riffmates/internal/app/accounts"
	"riffmates/internal/app/ads"
	"riffmates/internal/app/bands"
	"riffmates/internal/app/comments"
	"riffmates/internal/app/musicians"
	"riffmates/internal/app/promoters"
	"riffmates/internal/app/venues"
	"riffmates/internal/authz"
	"riffmates/internal/logging"
	"riffmates/internal/media"
	"riffmates/internal/store"
)

// Authorizer answers edit-permission questions for page decorations.
type Authorizer interface {
	CanEdit(ctx context.Context, actor authz.Actor, res authz.Resource) (bool, error)
}

// StatsSource reports table sizes for the staff console.
type StatsSource interface {
	Counts(ctx context.Context) (store.Counts, error)
}

// Services bundles the domain services the pages call.
type Services struct {
	Accounts  accounts.Service
	Musicians musicians.Service
	Bands     bands.Service
	Venues    venues.Service
	Ads       ads.Service
	Promoters promoters.Service
	Comments  comments.Service
	Authz     Authorizer
	Stats     StatsSource
}

// Config holds page-level settings.
type Config struct {
	// MediaRoot and MediaURL locate uploaded pictures. Files are served
	// from MediaRoot only when Debug is set.
	MediaRoot string
	MediaURL  string
	Debug     bool
	Version   string
}

// Server renders HTML pages.
type Server struct {
	cfg      Config
	svc      Services
	sessions *Sessions
	views    *renderer
	pictures *media.Storage
}

// New parses the embedded templates and returns a Server.
func New(cfg Config, svc Services, sessions *Sessions) (*Server, error) {
	if cfg.MediaURL == "" {
		cfg.MediaURL = "/media/"
	}
	if !strings.HasSuffix(cfg.MediaURL, "/") {
		cfg.MediaURL += "/"
	}
	pictures := media.NewStorage(cfg.MediaRoot, cfg.MediaURL)
	views, err := newRenderer(pictures.URL)
	if err != nil {
		return nil, err
	}
	return &Server{cfg: cfg, svc: svc, sessions: sessions, views: views, pictures: pictures}, nil
}

// Routes returns a mux serving only the pages.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	s.Register(mux)
	return mux
}

// Register adds every page route to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.public(s.handleHome))
	mux.HandleFunc("GET /credits/{$}", s.handleCredits)
	mux.HandleFunc("GET /about/{$}", s.handleAbout)
	mux.HandleFunc("GET /version_info/{$}", s.handleVersionInfo)

	mux.HandleFunc("GET /accounts/login/{$}", s.public(s.handleLoginForm))
	mux.HandleFunc("POST /accounts/login/{$}", s.public(s.handleLogin))
	getPost(mux, "/accounts/logout/{$}", s.public(s.handleLogout))
	mux.HandleFunc("GET /accounts/signup/{$}", s.public(s.handleSignupForm))
	mux.HandleFunc("POST /accounts/signup/{$}", s.public(s.handleSignup))

	mux.HandleFunc("GET /bands/musicians/{$}", s.public(s.handleMusicians))
	mux.HandleFunc("GET /bands/musician/{id}/{$}", s.public(s.handleMusician))
	getPost(mux, "/bands/musician/add/{$}", s.login(s.handleEditMusician))
	getPost(mux, "/bands/musician/{id}/edit/{$}", s.login(s.handleEditMusician))
	mux.HandleFunc("GET /bands/musician_restricted/{id}/{$}", s.login(s.handleMusicianRestricted))
	mux.HandleFunc("GET /bands/bands/{$}", s.public(s.handleBands))
	mux.HandleFunc("GET /bands/band/{id}/{$}", s.public(s.handleBand))
	mux.HandleFunc("GET /bands/venues/{$}", s.public(s.handleVenues))
	getPost(mux, "/bands/venue/add/{$}", s.login(s.handleEditVenue))
	getPost(mux, "/bands/venue/{id}/edit/{$}", s.login(s.handleEditVenue))
	mux.HandleFunc("POST /bands/venue/{id}/rooms/{$}", s.login(s.handleAddRoom))
	mux.HandleFunc("GET /bands/restricted_page/{$}", s.login(s.handleRestrictedPage))

	getPost(mux, "/content/comment/{$}", s.public(s.handleComment))
	mux.HandleFunc("GET /content/comment-accepted/{$}", s.public(s.handleCommentAccepted))
	mux.HandleFunc("GET /content/list-ads/{$}", s.public(s.handleListAds))
	getPost(mux, "/content/seeking-ad/{$}", s.login(s.handleSeekingAd))
	getPost(mux, "/content/edit-seeking-ad/{id}", s.login(s.handleSeekingAd))
	mux.HandleFunc("GET /content/search-ads/{$}", s.public(s.handleSearchAds))

	mux.HandleFunc("GET /promoters/{$}", s.public(s.handlePromoters))
	mux.HandleFunc("GET /promoters/partial-promoters/{$}", s.public(s.handlePartialPromoters))

	mux.HandleFunc("GET /admin/{$}", s.staff(s.handleAdmin))

	if s.cfg.Debug && s.cfg.MediaRoot != "" {
		mux.Handle("GET "+s.cfg.MediaURL, http.StripPrefix(s.cfg.MediaURL, http.FileServer(http.Dir(s.pictures.Root()))))
	}
}

// getPost registers h for GET and POST on pattern.
func getPost(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.HandleFunc("GET "+pattern, h)
	mux.HandleFunc("POST "+pattern, h)
}

// pageHandler is a handler that has already resolved the signed-in actor.
type pageHandler func(w http.ResponseWriter, r *http.Request, actor authz.Actor)

// public resolves the actor, falling back to anonymous.
func (s *Server) public(h pageHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, r := s.resolveActor(w, r)
		h(w, r, actor)
	}
}

// login sends anonymous visitors to the sign-in page.
func (s *Server) login(h pageHandler) http.HandlerFunc {
	return s.public(func(w http.ResponseWriter, r *http.Request, actor authz.Actor) {
		if !actor.Authenticated() {
			redirectToLogin(w, r)
			return
		}
		h(w, r, actor)
	})
}

// staff additionally hides the page from accounts without staff rights.
func (s *Server) staff(h pageHandler) http.HandlerFunc {
	return s.login(func(w http.ResponseWriter, r *http.Request, actor authz.Actor) {
		if !actor.Staff && !actor.Superuser {
			s.notFound(w, r, actor)
			return
		}
		h(w, r, actor)
	})
}

func (s *Server) resolveActor(w http.ResponseWriter, r *http.Request) (authz.Actor, *http.Request) {
	id, err := s.sessions.UserID(r)
	if err != nil {
		if !errors.Is(err, errNoSession) {
			s.sessions.Clear(w)
		}
		return authz.Anonymous, r
	}

	u, err := s.svc.Accounts.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.sessions.Clear(w)
		} else {
			logging.WithContext(r.Context()).Error().Err(err).Int64("user_id", id).Msg("load session user")
		}
		return authz.Anonymous, r
	}

	ctx := logging.WithUserID(r.Context(), u.ID)
	return authz.Actor{
		UserID:    u.ID,
		Username:  u.Username,
		Staff:     u.IsStaff,
		Superuser: u.IsSuperuser,
	}, r.WithContext(ctx)
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/accounts/login/?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
}

// safeNext accepts only local absolute paths.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

func pathID(r *http.Request) (int64, bool) {
	raw := r.PathValue("id")
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// fail renders err. Missing records and refused permissions look the same.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, actor authz.Actor, err error) {
	switch {
	case errors.Is(err, authz.ErrDenied),
		errors.Is(err, store.ErrMusicianNotFound),
		errors.Is(err, store.ErrBandNotFound),
		errors.Is(err, store.ErrVenueNotFound),
		errors.Is(err, store.ErrAdNotFound):
		s.notFound(w, r, actor)
	case errors.Is(err, context.Canceled):
	default:
		logging.WithContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("page request failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request, actor authz.Actor) {
	s.render(w, r, http.StatusNotFound, "not_found.html", view{Title: "Not Found", Actor: actor})
}
