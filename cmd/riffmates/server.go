package main

import (
	"database/sql"
	"net/http"

	"github.com/rs/zerolog/log"

	"riffmates/internal/app/accounts"
	"riffmates/internal/app/ads"
	"riffmates/internal/app/bands"
	"riffmates/internal/app/comments"
	"riffmates/internal/app/musicians"
	"riffmates/internal/app/promoters"
	"riffmates/internal/app/venues"
	"riffmates/internal/authz"
	"riffmates/internal/config"
	"riffmates/internal/events"
	"riffmates/internal/http/middleware"
	"riffmates/internal/httpapi"
	"riffmates/internal/mail"
	"riffmates/internal/media"
	"riffmates/internal/search"
	"riffmates/internal/store"
	"riffmates/internal/web"
)

func newHTTPHandler(cfg *config.Config, db *sql.DB, dataStore *store.Store) (http.Handler, error) {
	bus := events.NewBus()
	events.Register(bus, dataStore)

	az := authz.New(dataStore)
	pictures := media.NewStorage(cfg.Media.Root, cfg.Media.URL)

	accountSvc := accounts.New(dataStore, bus)
	musicianSvc := musicians.New(dataStore, az, pictures, bus)
	bandSvc := bands.New(dataStore)
	venueSvc := venues.New(dataStore, az, pictures, bus)
	adSvc := ads.New(dataStore, az, search.NewPGStore(db), cfg.Latency.SearchPage)
	promoterSvc := promoters.New(dataStore, cfg.Latency.Partial)
	if !cfg.MailEnabled() {
		log.Warn().Msg("EMAIL_HOST not set; comment notifications are only logged")
	}
	commentSvc := comments.New(mail.New(cfg.Mail))

	pages, err := web.New(web.Config{
		MediaRoot: cfg.Media.Root,
		MediaURL:  cfg.Media.URL,
		Debug:     cfg.Debug,
		Version:   httpapi.Version,
	}, web.Services{
		Accounts:  accountSvc,
		Musicians: musicianSvc,
		Bands:     bandSvc,
		Venues:    venueSvc,
		Ads:       adSvc,
		Promoters: promoterSvc,
		Comments:  commentSvc,
		Authz:     az,
		Stats:     dataStore,
	}, web.NewSessions(cfg.Security.JWTSecret, 0, !cfg.Debug))
	if err != nil {
		return nil, err
	}

	api := httpapi.New(httpapi.Config{
		APIKey:      cfg.Security.APIKey,
		FailureRate: cfg.Security.APIRateLimit,
	}, venueSvc, musicianSvc, bandSvc, promoterSvc)

	mux := http.NewServeMux()
	pages.Register(mux)
	api.Register(mux)

	// Metrics sits innermost so the matched route pattern is visible to it.
	return middleware.Chain(
		middleware.Metrics()(mux),
		middleware.RequestLogging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	), nil
}
