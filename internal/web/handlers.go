package web

import (
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/language"

	"github.com/rshade/usertable/internal/logging"
	"github.com/rshade/usertable/internal/render"
	"github.com/rshade/usertable/internal/source"
	"github.com/rshade/usertable/internal/table"
	"github.com/rshade/usertable/internal/web/templates"
)

// withSession locks the caller's session, brings it up to date with the
// shared query and runs fn.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(*session)) {
	sess := s.sessions.get(w, r)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	res := s.client.Result(s.opts.QueryKey)
	if res.Status == source.StatusIdle {
		// Nothing in flight and nothing cached, for example after a failed
		// startup fetch was invalidated.
		s.client.Prefetch(logging.ContextWithTraceID(s.baseCtx, logging.TraceIDFromContext(r.Context())), s.opts.QueryKey)
	}
	sess.sync(res)
	fn(sess)
}

// mutate applies fn to the session controller and redirects to the page.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, fn func(*table.Controller)) {
	s.withSession(w, r, func(sess *session) {
		fn(sess.ctrl)
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) language(r *http.Request) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err != nil || len(tags) == 0 {
		return s.opts.Language
	}
	return tags[0]
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var view templates.PageView
	s.withSession(w, r, func(sess *session) {
		snap := sess.ctrl.Snapshot()
		view = templates.PageView{
			Snap:       snap,
			Search:     sess.ctrl.GlobalFilter(),
			NameFilter: sess.ctrl.ColumnFilter("name"),
			PageLabel:  render.PageLabel(s.language(r), snap.PageIndex, snap.PageCount),
			Options:    sess.ctrl.PageSizeOptions(),
		}
	})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := templates.IndexPage(view).Render(r.Context(), w); err != nil {
		ctx := r.Context()
		logging.FromContext(ctx).Error().Ctx(ctx).Err(err).Msg("rendering page failed")
	}
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.PostFormValue("q")
	s.mutate(w, r, func(c *table.Controller) { c.SetGlobalFilter(q) })
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	field := chi.URLParam(r, "field")
	value := r.PostFormValue("value")

	if !s.fields.IsValidFilterField(field) {
		respondError(w, r, fmt.Errorf("%w: %q", ErrUnknownField, field), http.StatusBadRequest)
		return
	}
	s.mutate(w, r, func(c *table.Controller) { c.SetColumnFilter(field, value) })
}

func (s *Server) handleSort(w http.ResponseWriter, r *http.Request) {
	field := chi.URLParam(r, "field")

	if !s.fields.IsValidField(field) {
		respondError(w, r, fmt.Errorf("%w: %q (valid: %s)", ErrUnknownField, field,
			strings.Join(s.fields.GetValidFields(), ", ")), http.StatusBadRequest)
		return
	}
	s.mutate(w, r, func(c *table.Controller) { c.ToggleSort(field) })
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	var move func(*table.Controller)
	switch action := chi.URLParam(r, "action"); action {
	case "first":
		move = (*table.Controller).FirstPage
	case "previous":
		move = (*table.Controller).PreviousPage
	case "next":
		move = (*table.Controller).NextPage
	case "last":
		move = (*table.Controller).LastPage
	default:
		respondError(w, r, fmt.Errorf("%w: %q", ErrUnknownAction, action), http.StatusNotFound)
		return
	}
	s.mutate(w, r, move)
}

func (s *Server) handlePageSize(w http.ResponseWriter, r *http.Request) {
	raw := r.PostFormValue("size")
	n, err := strconv.Atoi(raw)
	if err != nil || !slices.Contains(s.pageSizes, n) {
		respondError(w, r, fmt.Errorf("%w: %q", ErrInvalidSize, raw), http.StatusBadRequest)
		return
	}
	s.mutate(w, r, func(c *table.Controller) { c.SetPageSize(n) })
}

func (s *Server) handleAPIView(w http.ResponseWriter, r *http.Request) {
	var snap table.Snapshot
	s.withSession(w, r, func(sess *session) {
		snap = sess.ctrl.Snapshot()
	})
	writeJSON(w, r, http.StatusOK, render.NewDocument(snap))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{
		"status": "ok",
		"source": s.client.Result(s.opts.QueryKey).Status.String(),
	})
}
