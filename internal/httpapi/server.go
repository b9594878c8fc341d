package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"riffmates/internal/authz"
	"riffmates/internal/http/middleware"
	"riffmates/internal/logging"
	"riffmates/internal/media"
	"riffmates/internal/models"
	"riffmates/internal/store"
)

// Version is reported by the version endpoints.
const Version = "1.0"

// VenueService captures the venue operations exposed over the API.
type VenueService interface {
	List(ctx context.Context, prefix string) ([]models.Venue, error)
	Get(ctx context.Context, id int64) (*models.Venue, error)
	Save(ctx context.Context, actor authz.Actor, id int64, in models.VenueInput, picture *media.Upload) (*models.Venue, error)
	Delete(ctx context.Context, actor authz.Actor, id int64) error
}

// MusicianService captures musician updates.
type MusicianService interface {
	Save(ctx context.Context, actor authz.Actor, id int64, in models.MusicianInput, picture *media.Upload) (*models.Musician, error)
}

// BandService describes band lookups.
type BandService interface {
	Get(ctx context.Context, id int64) (*models.Band, error)
	ByNamePrefix(ctx context.Context, prefix string) ([]models.Band, error)
}

// PromoterService lists promoters.
type PromoterService interface {
	List(ctx context.Context) ([]models.Promoter, error)
}

// Config holds the API key settings.
type Config struct {
	APIKey string
	// FailureRate is the sustained rate of rejected keys tolerated per client.
	FailureRate  float64
	FailureBurst int
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	venues    VenueService
	musicians MusicianService
	bands     BandService
	promoters PromoterService

	apiKey   []byte
	failures *middleware.RateLimiter
}

// New configures a Server.
func New(cfg Config, venues VenueService, musicians MusicianService, bands BandService, promoters PromoterService) *Server {
	burst := cfg.FailureBurst
	if burst <= 0 {
		burst = 5
	}
	return &Server{
		venues:    venues,
		musicians: musicians,
		bands:     bands,
		promoters: promoters,
		apiKey:    []byte(cfg.APIKey),
		failures:  middleware.NewRateLimiter(cfg.FailureRate, burst, 0),
	}
}

// Routes returns a mux serving only the API.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	s.Register(mux)
	return mux
}

// Register adds the API, health and metrics routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	const bands = "/api/v1/bands"
	handle(mux, "GET "+bands+"/venue/{id}", s.handleGetVenue)
	handle(mux, "GET "+bands+"/venues", s.handleListVenues)
	handle(mux, "POST "+bands+"/venue", s.requireKey(s.handleCreateVenue))
	handle(mux, "PUT "+bands+"/venue/{id}", s.requireKey(s.handleUpdateVenue))
	handle(mux, "DELETE "+bands+"/venue/{id}", s.requireKey(s.handleDeleteVenue))
	handle(mux, "PUT "+bands+"/musician/{id}", s.requireKey(s.handleUpdateMusician))
	handle(mux, "GET "+bands+"/band/{id}", s.handleGetBand)
	handle(mux, "GET "+bands+"/bands", s.handleListBands)

	handle(mux, "GET /api/v1/promoters/promoters", s.handleListPromoters)
	handle(mux, "GET /api/v1/home/version", s.handleVersion)
}

// handle registers pattern with and without a trailing slash.
func handle(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.HandleFunc(pattern, h)
	mux.HandleFunc(pattern+"/{$}", h)
}

type errorResponse struct {
	Error    string           `json:"error"`
	Problems []models.Problem `json:"detail,omitempty"`
}

type roomOut struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type venueOut struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Slug        string    `json:"slug"`
	URL         string    `json:"url"`
	Rooms       []roomOut `json:"rooms"`
}

type musicianOut struct {
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	Birth       models.Date `json:"birth"`
	Description string      `json:"description"`
}

type bandOut struct {
	Name      string        `json:"name"`
	Slug      string        `json:"slug"`
	URL       string        `json:"url"`
	Musicians []musicianOut `json:"musicians"`
}

func toVenueOut(v models.Venue) venueOut {
	out := venueOut{
		ID:          v.ID,
		Name:        v.Name,
		Description: v.Description,
		Slug:        recordSlug(v.Name, v.ID),
		URL:         "/api/v1/bands/venue/" + strconv.FormatInt(v.ID, 10) + "/",
		Rooms:       make([]roomOut, 0, len(v.Rooms)),
	}
	for _, room := range v.Rooms {
		out.Rooms = append(out.Rooms, roomOut{ID: room.ID, Name: room.Name})
	}
	return out
}

func toMusicianOut(m models.Musician) musicianOut {
	return musicianOut{FirstName: m.FirstName, LastName: m.LastName, Birth: m.Birth, Description: m.Description}
}

func toBandOut(b models.Band) bandOut {
	out := bandOut{
		Name:      b.Name,
		Slug:      recordSlug(b.Name, b.ID),
		URL:       "/api/v1/bands/band/" + strconv.FormatInt(b.ID, 10),
		Musicians: make([]musicianOut, 0, len(b.Musicians)),
	}
	for _, m := range b.Musicians {
		out.Musicians = append(out.Musicians, toMusicianOut(m))
	}
	return out
}

func (s *Server) handleGetVenue(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	venue, err := s.venues.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toVenueOut(*venue))
}

func (s *Server) handleListVenues(w http.ResponseWriter, r *http.Request) {
	venues, err := s.venues.List(r.Context(), strings.TrimSpace(r.URL.Query().Get("name")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]venueOut, 0, len(venues))
	for _, v := range venues {
		out = append(out, toVenueOut(v))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateVenue(w http.ResponseWriter, r *http.Request) {
	var in models.VenueInput
	if !decode(w, r, &in) {
		return
	}
	venue, err := s.venues.Save(r.Context(), authz.APIClient, 0, in, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toVenueOut(*venue))
}

func (s *Server) handleUpdateVenue(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in models.VenueInput
	if !decode(w, r, &in) {
		return
	}
	venue, err := s.venues.Save(r.Context(), authz.APIClient, id, in, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toVenueOut(*venue))
}

func (s *Server) handleDeleteVenue(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.venues.Delete(r.Context(), authz.APIClient, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
	}{Success: true})
}

func (s *Server) handleUpdateMusician(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in models.MusicianInput
	if !decode(w, r, &in) {
		return
	}
	musician, err := s.musicians.Save(r.Context(), authz.APIClient, id, in, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toMusicianOut(*musician))
}

func (s *Server) handleGetBand(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	band, err := s.bands.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBandOut(*band))
}

func (s *Server) handleListBands(w http.ResponseWriter, r *http.Request) {
	bands, err := s.bands.ByNamePrefix(r.Context(), strings.TrimSpace(r.URL.Query().Get("name")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]bandOut, 0, len(bands))
	for _, b := range bands {
		out = append(out, toBandOut(b))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListPromoters(w http.ResponseWriter, r *http.Request) {
	promoters, err := s.promoters.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, promoters)
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": Version})
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Not Found"})
		return 0, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "invalid JSON payload: " + err.Error()})
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: ve.Error(), Problems: ve.Problems})
	case errors.Is(err, store.ErrVenueNotFound),
		errors.Is(err, store.ErrMusicianNotFound),
		errors.Is(err, store.ErrBandNotFound),
		errors.Is(err, authz.ErrDenied):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Not Found"})
	case errors.Is(err, context.Canceled):
		// client went away
	default:
		logging.WithContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("api request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}
