package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/triplet"
	"github.com/aretw0/triplet/pkg/domain"
	"github.com/aretw0/triplet/pkg/ports"
	"github.com/aretw0/triplet/pkg/runner"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"
)

// Server exposes one desk over HTTP.
type Server struct {
	Desk    runner.Desk
	Store   ports.AnnotationStore
	Streams *StreamManager
	Logger  *slog.Logger
	spec    *openapi3.T
	metrics http.Handler
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.Logger = logger
		}
	}
}

// WithMetrics mounts a Prometheus handler at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// NewHandler creates the HTTP handler for desk. Store serves /records/{id}.
func NewHandler(desk runner.Desk, store ports.AnnotationStore, opts ...Option) (http.Handler, error) {
	spec, err := GetSwagger()
	if err != nil {
		return nil, err
	}
	s := &Server{
		Desk:    desk,
		Store:   store,
		Streams: NewStreamManager(),
		Logger:  slog.New(slog.DiscardHandler),
		spec:    spec,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(validateRequests(spec))

		r.Get("/health", s.GetHealth)
		r.Get("/info", s.GetInfo)
		r.Get("/view", s.GetView)
		r.Post("/focus", s.command(runner.OpFocus))
		r.Post("/assign", s.command(runner.OpAssign))
		r.Post("/move", s.command(runner.OpMove))
		r.Post("/next", s.command(runner.OpNext))
		r.Post("/skip", s.command(runner.OpSkip))
		r.Post("/back", s.command(runner.OpBack))
		r.Get("/record", s.GetCurrentRecord)
		r.Get("/records/{id}", s.GetRecord)
		r.Get("/status", s.GetStatus)
		r.Get("/events", s.SubscribeEvents)
	})
	return r, nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// command decodes the body (if any) into a runner.Command for op and applies it.
func (s *Server) command(op string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cmd := runner.Command{}
		if r.ContentLength != 0 && r.Body != nil {
			if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
				writeError(w, http.StatusBadRequest, op, fmt.Errorf("invalid request body: %w", err))
				return
			}
		}
		cmd.Op = op

		resp, err := runner.Apply(r.Context(), s.Desk, cmd)
		if resp.View != nil {
			if data, merr := json.Marshal(resp.View); merr == nil {
				s.Streams.Broadcast(string(data))
			}
		}
		if err != nil {
			status := statusFor(err)
			if status >= http.StatusInternalServerError {
				s.Logger.Error("Command Failed", "op", op, "err", err)
			}
			writeJSON(w, status, resp)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNoFocus):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidSlot),
		errors.Is(err, domain.ErrTokenOutOfRange),
		errors.Is(err, runner.ErrInvalidDirection),
		errors.Is(err, runner.ErrUnknownCommand):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if s.spec.Info != nil {
		apiVersion = s.spec.Info.Version
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "triplet-http",
		"version":     strings.TrimSpace(triplet.Version),
		"api_version": apiVersion,
	})
}

// GetView handles GET /view.
func (s *Server) GetView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Desk.View())
}

// GetCurrentRecord handles GET /record: the grid as it would be stored by next.
func (s *Server) GetCurrentRecord(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Desk.Record(false))
}

// GetRecord handles GET /records/{id}.
func (s *Server) GetRecord(w http.ResponseWriter, r *http.Request) {
	var id string
	err := runtime.BindStyledParameterWithLocation("simple", false, "id", runtime.ParamLocationPath, chi.URLParam(r, "id"), &id)
	if err != nil {
		writeError(w, http.StatusBadRequest, "", fmt.Errorf("invalid format for parameter id: %w", err))
		return
	}

	rec, err := s.Store.Load(r.Context(), id)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			s.Logger.Error("Load Failed", "item_id", id, "err", err)
		}
		writeError(w, status, "", err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// GetStatus handles GET /status.
func (s *Server) GetStatus(w http.ResponseWriter, r *http.Request) {
	done, err := s.Desk.Done(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "", err)
		return
	}
	v := s.Desk.View()
	writeJSON(w, http.StatusOK, map[string]any{
		"summary": v.Summary,
		"index":   v.Index,
		"total":   v.Total,
		"done":    done,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encode failed", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, op string, err error) {
	writeJSON(w, status, runner.Response{Op: op, Error: err.Error()})
}
