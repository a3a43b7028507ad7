package microblog

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/felixge/httpsnoop"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// DefaultAllowedOrigin is the only origin allowed to call the API
	// cross-origin unless overridden via SetAllowedOrigin.
	DefaultAllowedOrigin = "http://localhost:1234"

	CreatedPostMessage = "Successfully created post"
)

type ResponseMessage struct {
	Message string `json:"message"`
}

// Server exposes the post collection over HTTP. Listing and creating posts
// are the only operations; every storage, codec or request-body failure on
// either endpoint collapses to a bare 422 so clients learn nothing about
// the failure class. The real error is logged and counted server-side.
type Server struct {
	storage  Storage
	handler  http.Handler
	logger   *slog.Logger
	origin   string
	registry *prometheus.Registry
	requests *prometheus.CounterVec
}

func NewServer(storage Storage) *Server {
	s := &Server{
		storage:  storage,
		logger:   slog.Default(),
		origin:   DefaultAllowedOrigin,
		registry: prometheus.NewRegistry(),
	}

	s.requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "microblog_http_requests_total",
		Help: "HTTP requests handled, by method, path and status code.",
	}, []string{"method", "path", "code"})
	s.registry.MustRegister(s.requests)

	r := mux.NewRouter()
	r.Methods(http.MethodGet).Path("/posts").HandlerFunc(s.getPostsHandler)
	r.Methods(http.MethodPost).Path("/posts").HandlerFunc(s.storePostHandler)
	r.Methods(http.MethodGet).Path("/healthz").HandlerFunc(s.healthHandler)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	r.MethodNotAllowedHandler = http.HandlerFunc(s.methodNotAllowedHandler)

	s.handler = s.withCORS(s.withRequestLog(r))
	return s
}

// SetLogger replaces the request and error logger.
func (s *Server) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// SetAllowedOrigin replaces the origin admitted by the cross-origin policy.
func (s *Server) SetAllowedOrigin(origin string) error {
	u, err := url.Parse(origin)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("allowed origin must be an absolute URL")
	}
	s.origin = origin
	return nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// withCORS admits exactly one origin, methods GET and POST and the
// Content-Type header, and answers preflight requests itself.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin == s.origin {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		m := httpsnoop.CaptureMetrics(next, w, r)
		s.requests.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(m.Code)).Inc()
		s.logger.Info("handled",
			"request_id", id,
			"method", r.Method,
			"url", r.URL.String(),
			"status", m.Code,
			"duration", m.Duration,
		)
	})
}

func (s *Server) getPostsHandler(w http.ResponseWriter, r *http.Request) {
	posts, err := s.storage.GetPosts()
	if err != nil {
		s.logger.Error("list posts", "err", err)
		w.WriteHeader(http.StatusUnprocessableEntity)
		return
	}
	text, err := EncodePosts(posts)
	if err != nil {
		s.logger.Error("encode posts", "err", err)
		w.WriteHeader(http.StatusUnprocessableEntity)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(text)
}

func (s *Server) storePostHandler(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		return
	}
	draft, err := DecodeCreatePostRequest(body)
	if err != nil {
		s.logger.Warn("create post", "err", err)
		w.WriteHeader(http.StatusUnprocessableEntity)
		return
	}
	if _, err := s.storage.CreatePost(draft); err != nil {
		s.logger.Error("create post", "err", err)
		w.WriteHeader(http.StatusUnprocessableEntity)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	toJSON(w, ResponseMessage{Message: CreatedPostMessage})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	toJSON(w, ResponseMessage{Message: "ok"})
}

func (s *Server) methodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/posts" {
		w.Header().Set("Allow", "GET, POST")
	} else {
		w.Header().Set("Allow", http.MethodGet)
	}
	w.WriteHeader(http.StatusMethodNotAllowed)
}

func toJSON(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}
