package web

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/erazemk/unifind/internal/dispatch"
	"github.com/erazemk/unifind/internal/gateway"
	"github.com/erazemk/unifind/internal/store"
)

type loginPage struct {
	PageData
	Email string
	Next  string
}

// LoginPage handles GET /login.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	v := getVisit(r.Context())
	if v.signedIn {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.Templates.Render(w, http.StatusOK, "login.html", &loginPage{
		PageData: s.page(v, "Login", "login"),
		Next:     safeNext(r.URL.Query().Get("next"), ""),
	})
}

// LoginSubmit handles POST /login. A successful login moves the browser to
// a new session id so state from before the login is not carried over.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	v := getVisit(r.Context())
	form := parseLoginForm(r)
	next := safeNext(r.PostFormValue("next"), "/")

	fail := func(msg string) {
		p := &loginPage{PageData: s.page(v, "Login", "login"), Email: form.Email, Next: next}
		p.Error = msg
		s.Templates.Render(w, http.StatusUnprocessableEntity, "login.html", p)
	}

	if msg := check(form); msg != "" {
		fail(msg)
		return
	}

	id := uuid.NewString()
	user, err := s.Sessions.Login(r.Context(), id, form.Email, form.Password)
	if err != nil {
		s.Logger.Warn("login failed", zap.String("email", form.Email), zap.Error(err))
		fail(gateway.Message(err))
		return
	}

	nv, err := s.issueCookie(w, id)
	if err != nil {
		s.Logger.Error("failed to issue session cookie", zap.Error(err))
		fail(gateway.GenericMessage)
		return
	}
	if err := store.RevokeCookie(r.Context(), s.DB, v.jti, v.expires); err != nil {
		s.Logger.Warn("failed to revoke previous cookie", zap.Error(err))
	}
	s.forget(v)

	st := s.States.Get(nv.id)
	st.MarkVerified(s.now())
	st.SetFlash(dispatch.LevelSuccess.String(), "Welcome back, "+user.FullName+"!")

	http.Redirect(w, r, next, http.StatusSeeOther)
}

type signupPage struct {
	PageData
	Form signupForm
}

// SignupPage handles GET /signup.
func (s *Server) SignupPage(w http.ResponseWriter, r *http.Request) {
	v := getVisit(r.Context())
	s.Templates.Render(w, http.StatusOK, "signup.html", &signupPage{
		PageData: s.page(v, "Sign Up", "signup"),
	})
}

// SignupSubmit handles POST /signup.
func (s *Server) SignupSubmit(w http.ResponseWriter, r *http.Request) {
	v := getVisit(r.Context())
	form := parseSignupForm(r)

	msg := check(form)
	if msg == "" {
		if err := s.Gateway.Signup(r.Context(), form.payload()); err != nil {
			s.Logger.Warn("signup failed", zap.String("email", form.Email), zap.Error(err))
			msg = gateway.Message(err)
		}
	}
	if msg != "" {
		form.Password, form.Confirm = "", ""
		p := &signupPage{PageData: s.page(v, "Sign Up", "signup"), Form: form}
		p.Error = msg
		s.Templates.Render(w, http.StatusUnprocessableEntity, "signup.html", p)
		return
	}

	flashSuccess(v, "Account created! Please verify your email.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Logout handles POST /logout.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	s.endSession(w, r, getVisit(r.Context()))
}
