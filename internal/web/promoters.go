package web

import (
	"net/http"

	"riffmates/internal/authz"
)

func (s *Server) handlePromoters(w http.ResponseWriter, r *http.Request, actor authz.Actor) {
	s.render(w, r, http.StatusOK, "promoters.html", view{Title: "Promoters", Actor: actor})
}

// handlePartialPromoters returns the table body loaded into the promoters
// page after it renders.
func (s *Server) handlePartialPromoters(w http.ResponseWriter, r *http.Request, actor authz.Actor) {
	promoters, err := s.svc.Promoters.ListSlow(r.Context())
	if err != nil {
		s.fail(w, r, actor, err)
		return
	}
	s.renderPartial(w, r, "promoter_rows", promoters)
}
