package web

import (
	"encoding/json"
	"net/http"

	"riffmates/internal/authz"
)

// generalPage is a heading plus a paragraph, used by the small fixed pages.
type generalPage struct {
	Heading string
	Body    string
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request, actor authz.Actor) {
	s.render(w, r, http.StatusOK, "home.html", view{Title: "RiffMates", Actor: actor})
}

func (s *Server) handleCredits(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Nicky\nRuairi"))
}

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte("<h1>About Me!</h1>"))
}

func (s *Server) handleVersionInfo(w http.ResponseWriter, r *http.Request) {
	version := s.cfg.Version
	if version == "" {
		version = "1.0"
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"version": version})
}

func (s *Server) handleRestrictedPage(w http.ResponseWriter, r *http.Request, actor authz.Actor) {
	s.render(w, r, http.StatusOK, "general.html", view{
		Title: "Restricted Page",
		Actor: actor,
		Data:  generalPage{Heading: "You are logged in"},
	})
}
