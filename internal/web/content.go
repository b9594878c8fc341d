package web

import (
	"net/http"
	"net/url"
	"strconv"

	"riffmates/internal/app/ads"
	"riffmates/internal/app/comments"
	"riffmates/internal/authz"
	"riffmates/internal/models"
	"riffmates/internal/pagination"
)

type adsPage struct {
	Grouped ads.Grouped
}

type adForm struct {
	Form      *form
	Ad        *models.SeekingAd
	Musicians []models.Musician
	Bands     []models.Band
}

type searchPage struct {
	Query   string
	Page    pagination.Result[models.SeekingAd]
	NextURL string
}

func (s *Server) handleComment(w http.ResponseWriter, r *http.Request, actor authz.Actor) {
	f := newForm()
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		f.Values["name"] = r.PostForm.Get("name")
		f.Values["comment"] = r.PostForm.Get("comment")

		err := s.svc.Comments.Submit(r.Context(), comments.Comment{Name: f.Values["name"], Comment: f.Values["comment"]})
		if err == nil {
			http.Redirect(w, r, "/content/comment-accepted/", http.StatusFound)
			return
		}
		if !f.absorb(err) {
			s.fail(w, r, actor, err)
			return
		}
	}
	s.render(w, r, http.StatusOK, "comment.html", view{Title: "Comment", Actor: actor, Data: f})
}

func (s *Server) handleCommentAccepted(w http.ResponseWriter, r *http.Request, actor authz.Actor) {
	s.render(w, r, http.StatusOK, "general.html", view{
		Title: "Comment Accepted",
		Actor: actor,
		Data:  generalPage{Heading: "Comment Accepted", Body: "Thanks for submitting a comment to RiffMates"},
	})
}

func (s *Server) handleListAds(w http.ResponseWriter, r *http.Request, actor authz.Actor) {
	grouped, err := s.svc.Ads.ListGrouped(r.Context())
	if err != nil {
		s.fail(w, r, actor, err)
		return
	}
	s.render(w, r, http.StatusOK, "list_ads.html", view{Title: "Seeking Ads", Actor: actor, Data: adsPage{Grouped: grouped}})
}

func (s *Server) handleSeekingAd(w http.ResponseWriter, r *http.Request, actor authz.Actor) {
	id, ok := pathID(r)
	if !ok {
		s.notFound(w, r, actor)
		return
	}
	ctx := r.Context()

	ad, err := s.svc.Ads.Editable(ctx, actor, id)
	if err != nil {
		s.fail(w, r, actor, err)
		return
	}
	musicians, err := s.svc.Ads.MusicianChoices(ctx, actor)
	if err != nil {
		s.fail(w, r, actor, err)
		return
	}
	bands, err := s.svc.Bands.All(ctx)
	if err != nil {
		s.fail(w, r, actor, err)
		return
	}

	f := newForm()
	page := func() {
		s.render(w, r, http.StatusOK, "seeking_ad.html", view{
			Title: "Seeking Ad",
			Actor: actor,
			Data:  adForm{Form: f, Ad: ad, Musicians: musicians, Bands: bands},
		})
	}

	if r.Method == http.MethodGet {
		f.Values["seeking"] = string(ad.Seeking)
		f.Values["musician"] = formatID(ad.MusicianID)
		f.Values["band"] = formatID(ad.BandID)
		f.Values["content"] = ad.Content
		page()
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	for _, field := range []string{"seeking", "musician", "band", "content"} {
		f.Values[field] = r.PostForm.Get(field)
	}

	in := models.AdInput{Seeking: models.Seeking(f.Values["seeking"]), Content: f.Values["content"]}
	var valid bool
	if in.MusicianID, valid = choiceID(f.Values["musician"]); !valid {
		f.Errors["musician"] = "Select a valid choice. That choice is not one of the available choices."
	}
	if in.BandID, valid = choiceID(f.Values["band"]); !valid || !knownBand(bands, in.BandID) {
		f.Errors["band"] = "Select a valid choice. That choice is not one of the available choices."
	}
	if len(f.Errors) > 0 {
		page()
		return
	}

	if _, err := s.svc.Ads.Save(ctx, actor, id, in); err != nil {
		if !f.absorb(err) {
			s.fail(w, r, actor, err)
			return
		}
		page()
		return
	}
	http.Redirect(w, r, "/content/list-ads/", http.StatusFound)
}

func knownBand(bands []models.Band, id *int64) bool {
	if id == nil {
		return true
	}
	for _, b := range bands {
		if b.ID == *id {
			return true
		}
	}
	return false
}

// handleSearchAds renders the full results page, or only the next batch of
// rows when the request comes from the page's "load more" control.
func (s *Server) handleSearchAds(w http.ResponseWriter, r *http.Request, actor authz.Actor) {
	q := r.URL.Query()
	p := pagination.ParseQuery(q)
	query := q.Get("q")

	res, err := s.svc.Ads.Search(r.Context(), query, p)
	if err != nil {
		s.fail(w, r, actor, err)
		return
	}

	data := searchPage{Query: query, Page: res}
	if res.Page.HasNext() {
		next := url.Values{}
		next.Set("q", query)
		next.Set("per_page", strconv.Itoa(res.Page.PerPage))
		next.Set("page", strconv.Itoa(res.Page.NextPageNumber()))
		data.NextURL = "/content/search-ads/?" + next.Encode()
	}

	if r.Header.Get("HX-Request") != "" {
		s.renderPartial(w, r, "ad_rows", data)
		return
	}
	s.render(w, r, http.StatusOK, "search_ads.html", view{Title: "Search Ads", Actor: actor, Data: data})
}
