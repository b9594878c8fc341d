package web

import (
	"net/http"
	"strconv"
	"strings"

	"riffmates/internal/authz"
	"riffmates/internal/models"
	"riffmates/internal/pagination"
)

type musiciansPage struct {
	Page pagination.Result[models.Musician]
}

type musicianPage struct {
	Musician *models.Musician
	CanEdit  bool
}

type musicianForm struct {
	Form     *form
	Musician *models.Musician
}

type bandsPage struct {
	Page pagination.Result[models.Band]
}

type venueForm struct {
	Form     *form
	RoomForm *form
	Venue    *models.Venue
}

func (s *Server) handleMusicians(w http.ResponseWriter, r *http.Request, actor authz.Actor) {
	res, err := s.svc.Musicians.List(r.Context(), pagination.ParseQuery(r.URL.Query()))
	if err != nil {
		s.fail(w, r, actor, err)
		return
	}
	s.render(w, r, http.StatusOK, "musicians.html", view{Title: "Musicians", Actor: actor, Data: musiciansPage{Page: res}})
}

func (s *Server) handleMusician(w http.ResponseWriter, r *http.Request, actor authz.Actor) {
	id, ok := pathID(r)
	if !ok {
		s.notFound(w, r, actor)
		return
	}
	m, err := s.svc.Musicians.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, actor, err)
		return
	}
	canEdit, err := s.svc.Authz.CanEdit(r.Context(), actor, authz.Resource{Kind: models.KindMusician, ID: id})
	if err != nil {
		s.fail(w, r, actor, err)
		return
	}
	s.render(w, r, http.StatusOK, "musician.html", view{
		Title: m.FullName(),
		Actor: actor,
		Data:  musicianPage{Musician: m, CanEdit: canEdit},
	})
}

func (s *Server) handleEditMusician(w http.ResponseWriter, r *http.Request, actor authz.Actor) {
	id, ok := pathID(r)
	if !ok {
		s.notFound(w, r, actor)
		return
	}
	m, err := s.svc.Musicians.Editable(r.Context(), actor, id)
	if err != nil {
		s.fail(w, r, actor, err)
		return
	}

	f := newForm()
	page := func() {
		s.render(w, r, http.StatusOK, "edit_musician.html", view{Title: "Edit Musician", Actor: actor, Data: musicianForm{Form: f, Musician: m}})
	}

	if r.Method == http.MethodGet {
		f.Values["first_name"] = m.FirstName
		f.Values["last_name"] = m.LastName
		f.Values["birth"] = m.Birth.String()
		f.Values["description"] = m.Description
		page()
		return
	}

	upload, cleanup, err := readSubmission(w, r)
	defer cleanup()
	if err != nil {
		if !f.absorb(err) {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		page()
		return
	}

	for _, field := range []string{"first_name", "last_name", "birth", "description"} {
		f.Values[field] = r.PostForm.Get(field)
	}
	in := models.MusicianInput{
		FirstName:   f.Values["first_name"],
		LastName:    f.Values["last_name"],
		Description: f.Values["description"],
	}
	if raw := strings.TrimSpace(f.Values["birth"]); raw != "" {
		birth, err := models.ParseDate(raw)
		if err != nil {
			f.Errors["birth"] = "Enter a valid date."
			page()
			return
		}
		in.Birth = birth
	}

	saved, err := s.svc.Musicians.Save(r.Context(), actor, id, in, upload)
	if err != nil {
		if !f.absorb(err) {
			s.fail(w, r, actor, err)
			return
		}
		page()
		return
	}
	http.Redirect(w, r, "/bands/musician/"+strconv.FormatInt(saved.ID, 10)+"/", http.StatusFound)
}

func (s *Server) handleMusicianRestricted(w http.ResponseWriter, r *http.Request, actor authz.Actor) {
	id, ok := pathID(r)
	if !ok {
		s.notFound(w, r, actor)
		return
	}
	m, err := s.svc.Musicians.Restricted(r.Context(), actor, id)
	if err != nil {
		s.fail(w, r, actor, err)
		return
	}
	s.render(w, r, http.StatusOK, "general.html", view{
		Title: "Musician Restricted",
		Actor: actor,
		Data:  generalPage{Heading: "Musician Page: " + m.LastName},
	})
}

func (s *Server) handleBands(w http.ResponseWriter, r *http.Request, actor authz.Actor) {
	res, err := s.svc.Bands.List(r.Context(), pagination.ParseQuery(r.URL.Query()))
	if err != nil {
		s.fail(w, r, actor, err)
		return
	}
	s.render(w, r, http.StatusOK, "bands.html", view{Title: "Bands", Actor: actor, Data: bandsPage{Page: res}})
}

func (s *Server) handleBand(w http.ResponseWriter, r *http.Request, actor authz.Actor) {
	id, ok := pathID(r)
	if !ok {
		s.notFound(w, r, actor)
		return
	}
	b, err := s.svc.Bands.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, actor, err)
		return
	}
	s.render(w, r, http.StatusOK, "band.html", view{Title: b.Name, Actor: actor, Data: b})
}

func (s *Server) handleVenues(w http.ResponseWriter, r *http.Request, actor authz.Actor) {
	venues, err := s.svc.Venues.ListForActor(r.Context(), actor)
	if err != nil {
		s.fail(w, r, actor, err)
		return
	}
	s.render(w, r, http.StatusOK, "venues.html", view{Title: "Venues", Actor: actor, Data: venues})
}

func (s *Server) handleEditVenue(w http.ResponseWriter, r *http.Request, actor authz.Actor) {
	id, ok := pathID(r)
	if !ok {
		s.notFound(w, r, actor)
		return
	}
	v, err := s.svc.Venues.Editable(r.Context(), actor, id)
	if err != nil {
		s.fail(w, r, actor, err)
		return
	}

	f := newForm()
	page := func() {
		s.render(w, r, http.StatusOK, "edit_venue.html", view{Title: "Edit Venue", Actor: actor, Data: venueForm{Form: f, RoomForm: newForm(), Venue: v}})
	}

	if r.Method == http.MethodGet {
		f.Values["name"] = v.Name
		f.Values["description"] = v.Description
		page()
		return
	}

	upload, cleanup, err := readSubmission(w, r)
	defer cleanup()
	if err != nil {
		if !f.absorb(err) {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		page()
		return
	}

	f.Values["name"] = r.PostForm.Get("name")
	f.Values["description"] = r.PostForm.Get("description")
	in := models.VenueInput{Name: f.Values["name"], Description: f.Values["description"]}

	if _, err := s.svc.Venues.Save(r.Context(), actor, id, in, upload); err != nil {
		if !f.absorb(err) {
			s.fail(w, r, actor, err)
			return
		}
		page()
		return
	}
	http.Redirect(w, r, "/bands/venues/", http.StatusFound)
}

func (s *Server) handleAddRoom(w http.ResponseWriter, r *http.Request, actor authz.Actor) {
	id, ok := pathID(r)
	if !ok {
		s.notFound(w, r, actor)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	roomForm := newForm()
	roomForm.Values["name"] = r.PostForm.Get("name")
	_, err := s.svc.Venues.AddRoom(r.Context(), actor, id, models.RoomInput{Name: roomForm.Values["name"]})
	if err == nil {
		http.Redirect(w, r, "/bands/venue/"+strconv.FormatInt(id, 10)+"/edit/", http.StatusFound)
		return
	}
	if !roomForm.absorb(err) {
		s.fail(w, r, actor, err)
		return
	}

	v, err := s.svc.Venues.Editable(r.Context(), actor, id)
	if err != nil {
		s.fail(w, r, actor, err)
		return
	}
	f := newForm()
	f.Values["name"] = v.Name
	f.Values["description"] = v.Description
	s.render(w, r, http.StatusOK, "edit_venue.html", view{Title: "Edit Venue", Actor: actor, Data: venueForm{Form: f, RoomForm: roomForm, Venue: v}})
}
