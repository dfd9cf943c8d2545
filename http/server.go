package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/schemadex"
	"github.com/gorilla/mux"
)

// ShutdownTimeout bounds graceful shutdown of the API server.
const ShutdownTimeout = 5 * time.Second

// Server exposes a schemadex.Browser as a JSON API.
type Server struct {
	router  *mux.Router
	browser schemadex.Browser
	metrics http.Handler
	logger  *slog.Logger
	mw      []mux.MiddlewareFunc
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithMetricsHandler serves h on /metrics.
func WithMetricsHandler(h http.Handler) ServerOption {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithServerLogger sets the logger for request and error logging.
func WithServerLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMiddleware wraps every route in mw, outermost first.
func WithMiddleware(mw ...func(http.Handler) http.Handler) ServerOption {
	return func(s *Server) {
		for _, m := range mw {
			s.mw = append(s.mw, m)
		}
	}
}

// NewServer creates a Server answering from browser.
func NewServer(browser schemadex.Browser, opts ...ServerOption) *Server {
	s := &Server{
		router:  mux.NewRouter(),
		browser: browser,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}

	s.router.Use(s.logRequests)
	s.router.Use(s.mw...)
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Error(w, r, schemadex.Errorf(schemadex.ENOTFOUND, "no route for %s", r.URL.Path))
	})

	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/api/entities", s.handleListEntities).Methods("GET")
	s.router.HandleFunc("/api/entities/{name}", s.handleGetEntity).Methods("GET")
	s.router.HandleFunc("/api/format/hex", s.handleFormatHex).Methods("GET")
	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics).Methods("GET")
	}

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Serve accepts connections on ln until ctx is canceled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type entityListResponse struct {
	Query    string               `json:"query"`
	Mode     string               `json:"mode"`
	Items    []schemadex.ListItem `json:"items"`
	Count    int                  `json:"count"`
	Selected string               `json:"selected,omitempty"`
}

func (s *Server) handleListEntities(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	q := schemadex.ParseQuery(query)
	items := s.browser.ListEntities(query)

	resp := entityListResponse{
		Query: query,
		Mode:  q.Mode.String(),
		Items: items,
		Count: len(items),
	}
	if q.Term != "" && len(items) > 0 {
		resp.Selected = items[0].Name
	}
	s.writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleGetEntity(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	e := s.browser.GetEntity(name)
	if e == nil {
		s.Error(w, r, schemadex.Errorf(schemadex.ENOTFOUND, "entity %q not found", name))
		return
	}
	s.writeJSON(w, r, http.StatusOK, newEntityView(e))
}

func (s *Server) handleFormatHex(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	var in any
	if values.Has("v") {
		in = values.Get("v")
	}
	s.writeJSON(w, r, http.StatusOK, map[string]string{
		"value": values.Get("v"),
		"hex":   schemadex.FormatHex(in),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// Error writes err as a JSON error body with the status matching its code.
// Internal errors are logged and their message is hidden.
func (s *Server) Error(w http.ResponseWriter, r *http.Request, err error) {
	code, message := schemadex.ErrorCode(err), schemadex.ErrorMessage(err)
	if code == schemadex.EINTERNAL {
		s.logger.Error("http error", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	s.writeJSON(w, r, ErrorStatusCode(code), map[string]string{"error": message, "code": code})
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debug("write response", "path", r.URL.Path, "err", err)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		begin := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(begin))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

var codes = map[string]int{
	schemadex.ECONFLICT:    http.StatusConflict,
	schemadex.EINVALID:     http.StatusBadRequest,
	schemadex.ENOTFOUND:    http.StatusNotFound,
	schemadex.EUNAVAILABLE: http.StatusServiceUnavailable,
	schemadex.EPARSE:       http.StatusUnprocessableEntity,
	schemadex.EINTERNAL:    http.StatusInternalServerError,
}

// ErrorStatusCode maps an application error code to an HTTP status.
func ErrorStatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}
