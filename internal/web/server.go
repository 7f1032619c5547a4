package web

import (
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"social-web/internal/apiclient"
	"social-web/internal/auth"
	"social-web/internal/comment"
	"social-web/internal/events"
	"social-web/internal/images"
	"social-web/internal/post"
	"social-web/internal/ratelimit"
	"social-web/internal/session"
)

type Options struct {
	API             *apiclient.Client
	Sessions        *session.Manager
	Images          images.Sink
	Events          events.Publisher
	Limiter         *ratelimit.Limiter
	Locale          string
	MaxCommentDepth int
	MaxImageBytes   int64
	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	// Only set it when a proxy in front of the service overwrites them.
	TrustProxy bool
	Log        *logrus.Entry
}

// Server renders the pages and turns form posts into API calls on behalf of
// the browser session.
type Server struct {
	api       *apiclient.Client
	sessions  *session.Manager
	sink      images.Sink
	pub       events.Publisher
	limiter   *ratelimit.Limiter
	msgs      Catalog
	maxDepth  int
	maxImage  int64
	trustIP   bool
	templates map[string]*template.Template
	log       *logrus.Entry
}

func New(o Options) (*Server, error) {
	if o.API == nil || o.Sessions == nil {
		return nil, errors.New("web: API client and session manager are required")
	}
	if o.Images == nil {
		o.Images = images.DataURL{}
	}
	if o.Events == nil {
		o.Events = events.Nop{}
	}
	if o.MaxImageBytes <= 0 {
		o.MaxImageBytes = images.DefaultMaxBytes
	}
	msgs := NewCatalog(o.Locale)
	tmpls, err := parseTemplates(msgs)
	if err != nil {
		return nil, err
	}
	return &Server{
		api:       o.API,
		sessions:  o.Sessions,
		sink:      o.Images,
		pub:       o.Events,
		limiter:   o.Limiter,
		msgs:      msgs,
		maxDepth:  o.MaxCommentDepth,
		maxImage:  o.MaxImageBytes,
		trustIP:   o.TrustProxy,
		templates: tmpls,
		log:       o.Log.WithField("component", "web"),
	}, nil
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if s.trustIP {
		r.Use(middleware.RealIP)
	}
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	r.Handle("/static/*", staticHandler())

	r.Group(func(r chi.Router) {
		r.Use(s.sessions.Middleware)
		limit := s.rateLimit

		r.Get("/", s.home)
		r.Get("/login", s.loginForm)
		r.With(limit).Post("/login", s.login)
		r.Get("/register", s.registerForm)
		r.With(limit).Post("/register", s.register)
		r.Get("/forgot-password", s.forgotForm)
		r.With(limit).Post("/forgot-password", s.forgot)
		r.Post("/logout", s.logout)

		r.Route("/dashboard", func(r chi.Router) {
			r.Use(s.requireToken)
			r.Get("/", s.dashboard)
			r.Get("/create", s.createForm)
			r.With(limit).Post("/create", s.createPost)
			r.Route("/posts/{id}", func(r chi.Router) {
				r.Get("/", s.showPost)
				r.With(limit).Post("/", s.updatePost)
				r.With(limit).Post("/delete", s.deletePost)
				r.With(limit).Post("/comments", s.submitComment)
				r.With(limit).Post("/comments/{cid}", s.updateComment)
				r.With(limit).Post("/comments/{cid}/delete", s.deleteComment)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.renderError(w, http.StatusNotFound, s.msgs.T("error.not_found"))
	})
	return r
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	if s.limiter == nil {
		return next
	}
	denied := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.log.WithField("ip", ratelimit.ClientIP(r)).Warn("rate limited")
		s.renderError(w, http.StatusTooManyRequests, s.msgs.T("error.rate_limited"))
	})
	return s.limiter.LimitHTTP(nil, denied)(next)
}

// requireToken sends browsers without an access token back to the start page.
func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !session.FromContext(r.Context()).Authenticated(r.Context()) {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestLogger(log *logrus.Entry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			started := time.Now()
			next.ServeHTTP(ww, r)
			log.WithFields(logrus.Fields{
				"request_id": middleware.GetReqID(r.Context()),
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"bytes":      ww.BytesWritten(),
				"duration":   time.Since(started).String(),
			}).Info("request")
		})
	}
}

// handlers bundles the per-request services bound to the browser's session.
type handlers struct {
	sess     *session.Session
	auth     *auth.Service
	posts    *post.Service
	comments *comment.Service
}

func (s *Server) bind(r *http.Request) handlers {
	sess := session.FromContext(r.Context())
	client := s.api.WithTokens(sess)
	return handlers{
		sess:     sess,
		auth:     auth.NewService(client, sess, s.log),
		posts:    post.NewService(client, s.sink, s.pub, s.log),
		comments: comment.NewService(client, s.pub, s.log),
	}
}

// describe turns a failed call into the text shown to the user: the server's
// own message when it answered, fallback when it answered without one, and
// unknown when it never answered.
func (s *Server) describe(err error, fallback, unknown string) string {
	if apiErr, ok := apiclient.AsError(err); ok && apiErr.HTTP() {
		return apiErr.MessageOr(s.msgs.T(fallback))
	}
	return s.msgs.T(unknown)
}

func statusFor(err error) int {
	apiErr, ok := apiclient.AsError(err)
	switch {
	case !ok:
		return http.StatusInternalServerError
	case apiErr.HTTP() && apiErr.Status >= 400 && apiErr.Status < 500:
		return apiErr.Status
	default:
		return http.StatusBadGateway
	}
}

// toLogin handles a 401: the client already dropped the tokens.
func toLogin(w http.ResponseWriter, r *http.Request, err error) bool {
	if !apiclient.IsUnauthorized(err) {
		return false
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
	return true
}
