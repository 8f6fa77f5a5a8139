package dashboard

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/hupe1980/agentbus/logging"
	"github.com/hupe1980/agentbus/tracelog"
)

// TraceSource lists and reads trace logs. *tracelog.Dir and
// *tracelog.Watcher satisfy it; Read must wrap tracelog.ErrTraceNotFound for
// unknown traces.
type TraceSource interface {
	Traces() ([]string, error)
	Read(traceID string) (string, error)
}

// Options configures a Server.
type Options struct {
	// Logger receives request failures. Defaults to NoOp logger if nil.
	Logger logging.Logger

	// AllowedOrigins is passed to the CORS middleware. Defaults to "*".
	AllowedOrigins []string
}

// Server is the trace API http.Handler.
type Server struct {
	source  TraceSource
	logger  logging.Logger
	router  *mux.Router
	handler http.Handler
}

type errorBody struct {
	Error string `json:"error"`
}

type messagesBody struct {
	Content string `json:"content"`
}

// New creates a Server reading from source.
func New(source TraceSource, optFns ...func(o *Options)) *Server {
	opts := Options{
		Logger:         logging.NoOpLogger{},
		AllowedOrigins: []string{"*"},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	s := &Server{
		source: source,
		logger: logging.OrNoOp(opts.Logger),
		router: mux.NewRouter(),
	}
	s.registerRoutes()

	c := cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"Content-Length", "Content-Type"},
	})
	s.handler = c.Handler(s.router)
	return s
}

// Handler returns the CORS-wrapped router.
func (s *Server) Handler() http.Handler { return s.handler }

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) registerRoutes() {
	s.router.HandleFunc("/api/traces", s.handleListTraces).Methods(http.MethodGet)
	s.router.HandleFunc("/api/traces/{traceId}/messages", s.handleGetMessages).Methods(http.MethodGet)
}

func (s *Server) handleListTraces(w http.ResponseWriter, r *http.Request) {
	traces, err := s.source.Traces()
	if err != nil {
		s.logger.Error("Error reading traces", "path", r.URL.Path, "error", err)
		s.writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Failed to read traces"})
		return
	}
	if traces == nil {
		traces = []string{}
	}
	s.writeJSON(w, http.StatusOK, traces)
}

func (s *Server) handleGetMessages(w http.ResponseWriter, r *http.Request) {
	traceID := mux.Vars(r)["traceId"]

	content, err := s.source.Read(traceID)
	switch {
	case errors.Is(err, tracelog.ErrTraceNotFound):
		s.writeJSON(w, http.StatusNotFound, errorBody{Error: "Log file not found"})
	case err != nil:
		s.logger.Error("Error reading messages", "trace_id", traceID, "error", err)
		s.writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Failed to read messages"})
	default:
		s.writeJSON(w, http.StatusOK, messagesBody{Content: content})
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to encode response", "error", err)
	}
}
