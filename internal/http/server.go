package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"budget/internal/core"
	applog "budget/internal/log"
	"budget/internal/middleware/ratelimit"
	"budget/internal/middleware/security"
	appweb "budget/web"
)

// ExpenseStore is the part of the expense store the handlers use.
type ExpenseStore interface {
	AddExpense(ctx context.Context, in core.NewExpense) core.Expense
	RemoveExpense(ctx context.Context, id string) bool
	ExpensesByCategory(c core.Category) []core.Expense
	Summary(recent int) core.Summary
}

// ThemeStore is the part of the theme store the handlers use.
type ThemeStore interface {
	IsDarkMode() bool
	Toggle(ctx context.Context) bool
}

// Server wraps http.Server with the budget routes and middleware.
type Server struct {
	http.Server

	templates   *template.Template
	expenses    ExpenseStore
	theme       ThemeStore
	logger      *applog.Logger
	limiter     *ratelimit.Limiter
	clientIP    *security.ClientIPResolver
	ready       func(ctx context.Context) error
	now         func() time.Time
	started     time.Time
	recentLimit int
	ratePerMin  int

	shutdownOnce sync.Once
}

// Option configures a Server.
type Option func(*Server)

// WithRecentLimit sets how many records the summary card lists.
func WithRecentLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.recentLimit = n
		}
	}
}

// WithRateLimit sets the per-client budget for mutating requests.
func WithRateLimit(perMinute int) Option {
	return func(s *Server) { s.ratePerMin = perMinute }
}

// WithReadinessCheck sets the probe used by /readyz.
func WithReadinessCheck(check func(ctx context.Context) error) Option {
	return func(s *Server) { s.ready = check }
}

func WithLogger(logger *applog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the clock used for the form's default date.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(addr string, expenses ExpenseStore, theme ThemeStore, opts ...Option) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       2 * time.Minute,
		},
		expenses:    expenses,
		theme:       theme,
		logger:      applog.Default(applog.ComponentHTTP),
		clientIP:    security.NewClientIPResolver(),
		now:         time.Now,
		recentLimit: 5,
		ratePerMin:  ratelimit.DefaultConfig().RequestsPerMinute,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.started = s.now()
	s.limiter = ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: s.ratePerMin})

	t, err := parseTemplates()
	if err != nil {
		s.logger.Error("Failed parsing templates", applog.FieldError, err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("POST /expenses", s.handleCreateExpense)
	mux.HandleFunc("POST /expenses/delete", s.handleDeleteExpense)
	mux.HandleFunc("DELETE /expenses/delete", s.handleDeleteExpense)
	mux.HandleFunc("GET /ui/summary", s.handleSummary)
	mux.HandleFunc("POST /theme/toggle", s.handleThemeToggle)

	var handler http.Handler = mux
	handler = s.limiter.Middleware(s.clientIP.ClientIP, ratelimit.SafeMethod, s.onRateLimited)(handler)
	handler = s.withRequestLogging(handler)
	handler = applog.Middleware(s.logger, requestID)(handler)
	handler = withRequestID(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	s.Handler = handler

	return s
}

// Shutdown stops the rate limiter and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

const requestIDHeader = "X-Request-ID"

func requestID(r *http.Request) string {
	return r.Header.Get(requestIDHeader)
}

// withRequestID keeps an incoming X-Request-ID or assigns one, and echoes
// it on the response.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" || len(id) > 64 {
			id = generateRequestID()
			r.Header.Set(requestIDHeader, id)
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := s.clientIP.ClientIP(r)

		applog.RequestStarted(r.Context(), r, clientIP)
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		applog.RequestFinished(r.Context(), r, rw.statusCode, time.Since(start), clientIP)
	})
}

func (s *Server) onRateLimited(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WithComponent(applog.ComponentRateLimit).WarnContext(r.Context(), "Rate limit exceeded",
		applog.NewFields().WithClientIP(s.clientIP.ClientIP(r)).WithHTTPRequest(r.Method, r.URL.Path, "").ToSlice()...)
	msg := "요청이 너무 많습니다. 잠시 후 다시 시도해주세요."
	TooManyRequestsError(msg).TriggerErrorNotification(msg).Write(w)
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
