// Package web serves the portfolio viewer: the access gate and the guided
// walkthrough rendered as server-side HTML, one session per browser.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/alfredjeanlab/folio/internal/gate"
	"github.com/alfredjeanlab/folio/internal/server"
	"github.com/alfredjeanlab/folio/internal/session"
	"github.com/alfredjeanlab/folio/internal/walkthrough"
	"github.com/alfredjeanlab/folio/internal/web/views"
)

// CookieName is the cookie that maps a browser to its session.
const CookieName = "folio_session"

// Options configures the viewer.
type Options struct {
	// SecureCookie marks the session cookie Secure (HTTPS deployments).
	SecureCookie bool
	// AdminToken enables GET /debug/sessions behind bearer auth. Empty
	// leaves the route unregistered.
	AdminToken string
	// SessionTTL is the cookie lifetime. Zero means a browser-session cookie.
	SessionTTL time.Duration
}

// Viewer is the HTTP front end over a session registry.
type Viewer struct {
	sessions *session.Registry
	opts     Options
}

// New returns a viewer serving sessions from reg.
func New(reg *session.Registry, opts Options) *Viewer {
	return &Viewer{sessions: reg, opts: opts}
}

type ctxKey struct{}

// sessionFrom returns the session attached by withSession.
func sessionFrom(ctx context.Context) *session.Session {
	s, _ := ctx.Value(ctxKey{}).(*session.Session)
	return s
}

// Handler returns the viewer's routes.
func (v *Viewer) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(server.LoggingMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	if v.opts.AdminToken != "" {
		r.Method(http.MethodGet, "/debug/sessions", server.AuthMiddleware(v.opts.AdminToken, http.HandlerFunc(v.handleSessions)))
	}

	r.Group(func(r chi.Router) {
		r.Use(v.withSession)
		r.Get("/", v.handleIndex)
		for _, path := range actionPaths {
			r.Get(path, redirectHome)
		}
		r.Get("/{code}", v.handleDeepLink)
		r.Post("/open", v.handleOpen)
		r.Post("/proceed", v.action(func(*http.Request) (walkthrough.Action, bool) {
			return walkthrough.Proceed(), true
		}))
		r.Post("/select/{section}", v.action(func(r *http.Request) (walkthrough.Action, bool) {
			s, ok := walkthrough.ParseSection(chi.URLParam(r, "section"))
			return walkthrough.Select(s), ok
		}))
		r.Post("/next", v.action(func(*http.Request) (walkthrough.Action, bool) {
			return walkthrough.Advance(), true
		}))
		r.Post("/menu", v.action(func(*http.Request) (walkthrough.Action, bool) {
			return walkthrough.Return(), true
		}))
		r.Post("/reset", v.handleReset)
	})
	return r
}

// withSession loads the session named by the cookie, creating one (and
// setting the cookie) when it is missing or has expired.
func (v *Viewer) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(CookieName); err == nil {
			id = c.Value
		}
		s, created, err := v.sessions.GetOrCreate(id)
		if err != nil {
			slog.Error("web: create session", "err", err)
			http.Error(w, "session unavailable", http.StatusInternalServerError)
			return
		}
		if created {
			c := &http.Cookie{
				Name:     CookieName,
				Value:    s.ID,
				Path:     "/",
				HttpOnly: true,
				Secure:   v.opts.SecureCookie,
				SameSite: http.SameSiteLaxMode,
			}
			if v.opts.SessionTTL > 0 {
				c.MaxAge = int(v.opts.SessionTTL.Seconds())
			}
			http.SetCookie(w, c)
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, s)))
	})
}

// render writes the session's current screen with the given status.
func (v *Viewer) render(w http.ResponseWriter, r *http.Request, status int) {
	view := sessionFrom(r.Context()).View()
	var body templ.Component
	if view.Screen == nil {
		body = views.Gate(view.Gate)
	} else {
		body = views.Screen(*view.Screen)
	}
	w.Header().Set("Cache-Control", "no-store")
	templ.Handler(views.Page(views.Title(view.Screen), body), templ.WithStatus(status)).ServeHTTP(w, r)
}

// actionPaths are POST-only. A GET of one (a reload or a history entry)
// goes back to the current screen instead of being read as a deep link.
var actionPaths = []string{"/open", "/proceed", "/select", "/select/{section}", "/next", "/menu", "/reset"}

// redirectHome finishes a POST so a reload does not repeat it.
func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (v *Viewer) handleIndex(w http.ResponseWriter, r *http.Request) {
	v.render(w, r, http.StatusOK)
}

// handleDeepLink opens /{code} exactly like submitting the form.
func (v *Viewer) handleDeepLink(w http.ResponseWriter, r *http.Request) {
	v.submit(w, r, chi.URLParam(r, "code"))
}

func (v *Viewer) handleOpen(w http.ResponseWriter, r *http.Request) {
	v.submit(w, r, r.PostFormValue("code"))
}

func (v *Viewer) submit(w http.ResponseWriter, r *http.Request, code string) {
	err := sessionFrom(r.Context()).Submit(r.Context(), code)
	if errors.Is(err, gate.ErrBusy) {
		v.render(w, r, http.StatusConflict)
		return
	}
	if err != nil && gate.KindOf(err) == gate.Unavailable {
		slog.Warn("web: resolve failed", "err", err)
	}
	// The gate keeps a failure until the next submit, so / shows it.
	redirectHome(w, r)
}

// action adapts a walkthrough action to a POST handler. Rejected actions
// leave the session untouched and re-render it with 409.
func (v *Viewer) action(parse func(*http.Request) (walkthrough.Action, bool)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := parse(r)
		if !ok {
			v.render(w, r, http.StatusNotFound)
			return
		}
		if err := sessionFrom(r.Context()).Apply(a); err != nil {
			v.render(w, r, http.StatusConflict)
			return
		}
		redirectHome(w, r)
	}
}

func (v *Viewer) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := sessionFrom(r.Context()).Reset(); err != nil {
		v.render(w, r, http.StatusConflict)
		return
	}
	redirectHome(w, r)
}

func (v *Viewer) handleSessions(w http.ResponseWriter, _ *http.Request) {
	list := v.sessions.List()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"sessions": list, "total": len(list)})
}
