package web

import (
	"errors"
	"net/http"
	"strings"

	"riffmates/internal/authz"
	"riffmates/internal/models"
	"riffmates/internal/store"
)

type loginPage struct {
	Form *form
	Next string
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request, actor authz.Actor) {
	s.render(w, r, http.StatusOK, "login.html", view{
		Title: "Log in",
		Actor: actor,
		Data:  loginPage{Form: newForm(), Next: safeNext(r.URL.Query().Get("next"))},
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request, actor authz.Actor) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	f := newForm()
	f.Values["username"] = strings.TrimSpace(r.PostForm.Get("username"))
	next := safeNext(r.PostForm.Get("next"))

	u, err := s.svc.Accounts.Authenticate(r.Context(), f.Values["username"], r.PostForm.Get("password"), r.URL.Path)
	if err != nil {
		if !errors.Is(err, store.ErrInvalidCredentials) {
			s.fail(w, r, actor, err)
			return
		}
		f.Error = "Please enter a correct username and password. Note that both fields may be case-sensitive."
		s.render(w, r, http.StatusOK, "login.html", view{Title: "Log in", Actor: actor, Data: loginPage{Form: f, Next: next}})
		return
	}

	if err := s.sessions.Issue(w, u); err != nil {
		s.fail(w, r, actor, err)
		return
	}
	http.Redirect(w, r, next, http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request, _ authz.Actor) {
	s.sessions.Clear(w)
	s.render(w, r, http.StatusOK, "general.html", view{
		Title: "Logged out",
		Actor: authz.Anonymous,
		Data:  generalPage{Heading: "Logged out", Body: "Thanks for spending some quality time with RiffMates today."},
	})
}

func (s *Server) handleSignupForm(w http.ResponseWriter, r *http.Request, actor authz.Actor) {
	s.render(w, r, http.StatusOK, "signup.html", view{Title: "Sign up", Actor: actor, Data: newForm()})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request, actor authz.Actor) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	f := newForm()
	for _, field := range []string{"username", "email", "first_name", "last_name"} {
		f.Values[field] = strings.TrimSpace(r.PostForm.Get(field))
	}
	password := r.PostForm.Get("password")

	if password != r.PostForm.Get("password2") {
		f.Errors["password2"] = "The two password fields didn't match."
		s.render(w, r, http.StatusOK, "signup.html", view{Title: "Sign up", Actor: actor, Data: f})
		return
	}

	u, err := s.svc.Accounts.Signup(r.Context(), models.NewAccount{
		Username:  f.Values["username"],
		Password:  password,
		Email:     f.Values["email"],
		FirstName: f.Values["first_name"],
		LastName:  f.Values["last_name"],
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrUserExists):
			f.Errors["username"] = "A user with that username already exists."
		case f.absorb(err):
		default:
			s.fail(w, r, actor, err)
			return
		}
		s.render(w, r, http.StatusOK, "signup.html", view{Title: "Sign up", Actor: actor, Data: f})
		return
	}

	if err := s.sessions.Issue(w, u); err != nil {
		s.fail(w, r, actor, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}
