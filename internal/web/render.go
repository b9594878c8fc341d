package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"

	"riffmates/internal/authz"
	"riffmates/internal/logging"
	"riffmates/internal/models"
)

//go:embed templates
var templateFS embed.FS

// view is the data every page template receives.
type view struct {
	Title string
	Actor authz.Actor
	Data  any
}

// form carries submitted values and inline errors back to a page.
type form struct {
	Values map[string]string
	Errors map[string]string
	// Error is shown above the form for problems not tied to a field.
	Error string
}

func newForm() *form {
	return &form{Values: map[string]string{}, Errors: map[string]string{}}
}

// Get returns the submitted value of field.
func (f *form) Get(field string) string { return f.Values[field] }

// Err returns the error message for field.
func (f *form) Err(field string) string { return f.Errors[field] }

// absorb copies validation problems onto f. It reports false for any other
// kind of error.
func (f *form) absorb(err error) bool {
	var ve *models.ValidationError
	if !errors.As(err, &ve) {
		return false
	}
	for field, msg := range ve.FieldErrors() {
		if field == "" {
			f.Error = msg
			continue
		}
		f.Errors[field] = msg
	}
	return true
}

type renderer struct {
	pages    map[string]*template.Template
	partials *template.Template
}

func newRenderer(mediaURL func(rel string) string) (*renderer, error) {
	funcs := template.FuncMap{
		"media": mediaURL,
		"add":   func(a, b int) int { return a + b },
	}

	common, err := template.New("common").Funcs(funcs).ParseFS(templateFS, "templates/layout/*.html", "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	names, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}

	r := &renderer{pages: make(map[string]*template.Template, len(names)), partials: common}
	for _, name := range names {
		t, err := common.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout: %w", err)
		}
		if _, err := t.ParseFS(templateFS, name); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[path.Base(name)] = t
	}
	return r, nil
}

// render executes a page template into a buffer first so that template
// errors never produce half-written pages.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, v view) {
	t, ok := s.views.pages[page]
	if !ok {
		logging.WithContext(r.Context()).Error().Str("page", page).Msg("unknown template")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	s.write(w, r, status, func(buf *bytes.Buffer) error { return t.ExecuteTemplate(buf, page, v) })
}

// renderPartial executes a named fragment without the page layout.
func (s *Server) renderPartial(w http.ResponseWriter, r *http.Request, name string, data any) {
	s.write(w, r, http.StatusOK, func(buf *bytes.Buffer) error { return s.views.partials.ExecuteTemplate(buf, name, data) })
}

func (s *Server) write(w http.ResponseWriter, r *http.Request, status int, exec func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := exec(&buf); err != nil {
		logging.WithContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("render template")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
