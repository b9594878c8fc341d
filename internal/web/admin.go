package web

import (
	"net/http"
	"strconv"

	"riffmates/internal/authz"
	"riffmates/internal/models"
	"riffmates/internal/store"
)

// adminDecades are the birth-decade filters offered on the console.
var adminDecades = []int{1900, 1910, 1920, 1930, 1940, 1950, 1960, 1970, 1980, 1990, 2000, 2010}

type adminPage struct {
	Counts    store.Counts
	Musicians []models.Musician
	Decades   []int
	Decade    int
}

func (s *Server) handleAdmin(w http.ResponseWriter, r *http.Request, actor authz.Actor) {
	decade, err := strconv.Atoi(r.URL.Query().Get("decade"))
	if err != nil || decade < 0 {
		decade = 0
	}
	decade -= decade % 10

	counts, err := s.svc.Stats.Counts(r.Context())
	if err != nil {
		s.fail(w, r, actor, err)
		return
	}
	musicians, err := s.svc.Musicians.ByDecade(r.Context(), decade)
	if err != nil {
		s.fail(w, r, actor, err)
		return
	}

	s.render(w, r, http.StatusOK, "admin.html", view{
		Title: "Site administration",
		Actor: actor,
		Data:  adminPage{Counts: counts, Musicians: musicians, Decades: adminDecades, Decade: decade},
	})
}
