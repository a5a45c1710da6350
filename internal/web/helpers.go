package web

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/erazemk/unifind/internal/collection"
	"github.com/erazemk/unifind/internal/dispatch"
	"github.com/erazemk/unifind/internal/gateway"
)

// page returns the base page data and consumes the pending flash.
func (s *Server) page(v *visit, title, nav string) PageData {
	return PageData{
		Title:  title,
		Nav:    nav,
		User:   v.user(),
		Notice: v.state.TakeFlash(),
	}
}

func flash(v *visit, n *dispatch.Notice) {
	if n != nil {
		v.state.SetFlash(n.Level.String(), n.Message)
	}
}

func flashError(v *visit, msg string) {
	v.state.SetFlash(dispatch.LevelError.String(), msg)
}

func flashSuccess(v *visit, msg string) {
	v.state.SetFlash(dispatch.LevelSuccess.String(), msg)
}

// partial renders a view partial, logging failures.
func (s *Server) partial(name string, data any) template.HTML {
	html, err := s.Renderer.Render(name, data)
	if err != nil {
		s.Logger.Error("failed to render partial", zap.String("partial", name), zap.Error(err))
		return ""
	}
	return html
}

// load fetches the named collections in order. When refresh is false,
// collections already loaded are reused. It returns false after ending the
// session on a rejected credential; the response is then already written.
func (s *Server) load(w http.ResponseWriter, r *http.Request, v *visit, refresh bool, names ...collection.Name) bool {
	env := s.env(v)
	for _, name := range names {
		var err error
		if refresh {
			err = s.Refresher.Refresh(r.Context(), env, name)
		} else {
			err = s.Refresher.EnsureLoaded(r.Context(), env, name)
		}
		if gateway.IsUnauthorized(err) && v.signedIn {
			s.endSession(w, r, v)
			return false
		}
	}
	return true
}

// act submits an action from a button form and redirects. Destructive
// actions go to the confirmation page first.
func (s *Server) act(w http.ResponseWriter, r *http.Request, v *visit, a dispatch.Action, back string) {
	out, err := s.Dispatcher.Submit(r.Context(), s.env(v), a)
	s.finish(w, r, v, out, err, back)
}

func (s *Server) finish(w http.ResponseWriter, r *http.Request, v *visit, out dispatch.Outcome, err error, back string) {
	switch {
	case errors.Is(err, dispatch.ErrInFlight):
		flashError(v, "That action is already in progress.")
	case err != nil:
		s.Logger.Error("action dispatch failed", zap.Error(err))
		flashError(v, gateway.GenericMessage)
	case out.Confirmation != nil:
		http.Redirect(w, r, "/confirm/"+out.Confirmation.ID+"?next="+url.QueryEscape(back), http.StatusSeeOther)
		return
	case gateway.IsUnauthorized(out.Err) && v.signedIn:
		s.endSession(w, r, v)
		return
	default:
		flash(v, out.Notice)
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// submitForm runs a non-destructive action for a form. It returns the
// failure message to re-render the form with, or "" on success. done is
// true when the response was already written.
func (s *Server) submitForm(w http.ResponseWriter, r *http.Request, v *visit, a dispatch.Action) (msg string, done bool) {
	out, err := s.Dispatcher.Submit(r.Context(), s.env(v), a)
	switch {
	case errors.Is(err, dispatch.ErrInFlight):
		return "That action is already in progress.", false
	case err != nil:
		s.Logger.Error("form dispatch failed", zap.Error(err))
		return gateway.GenericMessage, false
	case gateway.IsUnauthorized(out.Err) && v.signedIn:
		s.endSession(w, r, v)
		return "", true
	case out.Notice != nil && out.Notice.Level == dispatch.LevelError:
		return out.Notice.Message, false
	}
	flash(v, out.Notice)
	return "", false
}

// safeNext accepts only local absolute paths.
func safeNext(raw, fallback string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.Contains(raw, `\`) {
		return fallback
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host != "" || u.Scheme != "" {
		return fallback
	}
	return u.RequestURI()
}

// backTo returns the same-site referring page, or fallback.
func backTo(r *http.Request, fallback string) string {
	ref := r.Referer()
	if ref == "" {
		return fallback
	}
	u, err := url.Parse(ref)
	if err != nil || (u.Host != "" && u.Host != r.Host) {
		return fallback
	}
	return safeNext(u.RequestURI(), fallback)
}
