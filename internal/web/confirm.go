package web

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/erazemk/unifind/internal/dispatch"
)

type confirmPage struct {
	PageData
	ID     string
	Prompt string
	Next   string
}

// ConfirmPage handles GET /confirm/{id}.
func (s *Server) ConfirmPage(w http.ResponseWriter, r *http.Request) {
	v := getVisit(r.Context())
	next := safeNext(r.URL.Query().Get("next"), "/")
	c, err := s.Dispatcher.Pending(v.id, r.PathValue("id"))
	if err != nil {
		flashError(v, "That request has expired. Please try again.")
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}
	s.Templates.Render(w, http.StatusOK, "confirm.html", &confirmPage{
		PageData: s.page(v, "Confirm", ""),
		ID:       c.ID,
		Prompt:   c.Prompt,
		Next:     next,
	})
}

// ConfirmSubmit handles POST /confirm/{id} with decision=confirm|cancel.
func (s *Server) ConfirmSubmit(w http.ResponseWriter, r *http.Request) {
	v := getVisit(r.Context())
	id := r.PathValue("id")
	next := safeNext(r.PostFormValue("next"), "/")

	switch r.PostFormValue("decision") {
	case "confirm":
		out, err := s.Dispatcher.Confirm(r.Context(), s.env(v), id)
		if errors.Is(err, dispatch.ErrConfirmationNotFound) {
			flashError(v, "That request has expired. Please try again.")
			http.Redirect(w, r, next, http.StatusSeeOther)
			return
		}
		s.finish(w, r, v, out, err, next)
	case "cancel":
		if err := s.Dispatcher.Cancel(v.id, id); err != nil && !errors.Is(err, dispatch.ErrConfirmationNotFound) {
			s.Logger.Warn("failed to cancel confirmation", zap.Error(err))
		}
		http.Redirect(w, r, next, http.StatusSeeOther)
	default:
		http.Error(w, "invalid decision", http.StatusBadRequest)
	}
}
