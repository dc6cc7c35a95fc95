package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"flash-gen/internal/services"
	"flash-gen/internal/session"
	"flash-gen/internal/web"
)

const (
	maxMultipartMemory = 8 << 20 // 8 MB
	sessionCookieName  = "flashgen_session"
	sessionMaxIdle     = 12 * time.Hour
)

// Options are the form defaults and limits of the server.
type Options struct {
	DefaultCards    int
	DefaultLanguage string
	MaxUploadBytes  int64
}

type Server struct {
	router    chi.Router
	generator *services.GeneratorService
	events    *services.EventService
	sessions  *session.Store
	validate  *validator.Validate
	log       *zap.Logger
	opts      Options
}

// NewServer wires the HTML and JSON routes. events may be nil, which disables
// the usage endpoint.
func NewServer(
	generator *services.GeneratorService,
	events *services.EventService,
	log *zap.Logger,
	opts Options,
) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.DefaultCards == 0 {
		opts.DefaultCards = 5
	}
	if opts.DefaultLanguage == "" {
		opts.DefaultLanguage = "auto"
	}
	if opts.MaxUploadBytes == 0 {
		opts.MaxUploadBytes = 10 << 20
	}

	s := &Server{
		router:    chi.NewRouter(),
		generator: generator,
		events:    events,
		sessions:  session.NewStore(sessionMaxIdle),
		validate:  validator.New(),
		log:       log,
		opts:      opts,
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		methodNotAllowed(w)
	})

	r.Handle("/assets/*", http.StripPrefix("/assets/", web.Assets()))

	r.Group(func(r chi.Router) {
		r.Use(s.withSession)
		r.Get("/", s.handleIndex)
		r.Post("/generate", s.handleGenerateForm)
		r.Post("/cards/{index}/toggle", s.handleToggleForm)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/usage", s.handleUsage)

		r.Group(func(r chi.Router) {
			r.Use(s.withSession)
			r.Get("/session", s.handleGetSession)
			r.Post("/generate", s.handleGenerate)
			r.Post("/cards/{index}/toggle", s.handleToggle)
			r.Post("/cards/{index}/review", s.handleReview)
		})
	})
}

type contextKey string

const sessionKey contextKey = "session"

// withSession resolves the caller's session from its cookie, creating one when
// the cookie is missing or stale.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(sessionCookieName); err == nil {
			id = c.Value
		}

		sess, created := s.sessions.GetOrCreate(id)
		if created {
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookieName,
				Value:    sess.ID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), sessionKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionKey).(*session.Session)
	return sess
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func parseIndex(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "index"))
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
