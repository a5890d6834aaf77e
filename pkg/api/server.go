// Package api serves guard log analysis over HTTP.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/guardlog/pkg/analysis"
	"github.com/codeGROOVE-dev/guardlog/pkg/guardlog"
	"github.com/codeGROOVE-dev/guardlog/pkg/reportcache"
	"github.com/google/uuid"
)

// maxLogSize caps request bodies.
const maxLogSize = 1 << 20

// Server answers analysis requests. A nil cache disables caching.
type Server struct {
	logger *slog.Logger
	cache  *reportcache.Cache
}

// New creates a Server.
func New(logger *slog.Logger, cache *reportcache.Cache) *Server {
	return &Server{logger: logger, cache: cache}
}

// Handler returns the routed, wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/analyze", s.handleAnalyze)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return s.wrap(mux)
}

func (s *Server) wrap(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		defer func() {
			if err := recover(); err != nil {
				const size = 64 << 10
				buf := make([]byte, size)
				buf = buf[:runtime.Stack(buf, false)]
				s.logger.Error("PANIC: Request handler crashed",
					"error", err,
					"path", r.URL.Path,
					"method", r.Method,
					"request_id", requestID,
					"stack", string(buf))
				http.Error(w, "Internal server error", http.StatusInternalServerError)
			}
		}()

		w.Header().Set("X-Content-Type-Options", "nosniff")
		if strings.HasPrefix(r.URL.Path, "/api/") {
			w.Header().Set("Cache-Control", "no-store")
		}

		handler.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	if _, err := io.WriteString(w, "ok\n"); err != nil {
		s.logger.Debug("failed to write health response", "error", err)
	}
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Code    string `json:"code"`
}

type analyzeResponse struct {
	*analysis.Report
	SleepiestAnswer int `json:"sleepiest_answer"`
	FrequentAnswer  int `json:"frequent_answer"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := w.Header().Get("X-Request-ID")

	strategyName := r.URL.Query().Get("strategy")
	if strategyName == "" {
		strategyName = analysis.Histogram{}.Name()
	}
	strategy, err := analysis.StrategyByName(strategyName)
	if err != nil {
		s.writeError(w, requestID, http.StatusBadRequest, errorResponse{
			Error: "Unknown strategy", Details: err.Error(), Code: "BAD_STRATEGY",
		})
		return
	}
	crossCheck, _ := strconv.ParseBool(r.URL.Query().Get("verify"))

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxLogSize))
	if err != nil {
		s.writeError(w, requestID, http.StatusRequestEntityTooLarge, errorResponse{
			Error: "Log too large", Details: err.Error(), Code: "TOO_LARGE",
		})
		return
	}

	cacheKey := reportcache.Key(body, fmt.Sprintf("%s:%t", strategy.Name(), crossCheck))
	if s.cache != nil {
		if data, found := s.cache.Get(cacheKey); found {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "memory-hit")
			if _, err := w.Write(data); err != nil {
				s.logger.Error("Failed to write cached response", "request_id", requestID, "error", err)
			}
			s.logger.Info("Analysis request completed (memory cache)",
				"request_id", requestID,
				"duration_ms", time.Since(start).Milliseconds())
			return
		}
	}

	report, err := analysis.AnalyzeReader(bytes.NewReader(body),
		analysis.WithLogger(s.logger.With("request_id", requestID)),
		analysis.WithStrategy(strategy),
		analysis.WithCrossCheck(crossCheck))
	if err != nil {
		status, resp := classify(err)
		s.writeError(w, requestID, status, resp)
		return
	}

	data, err := json.Marshal(analyzeResponse{
		Report:          report,
		SleepiestAnswer: report.SleepiestGuard.Answer(),
		FrequentAnswer:  report.FrequentMinute.Answer(),
	})
	if err != nil {
		s.writeError(w, requestID, http.StatusInternalServerError, errorResponse{
			Error: "Encoding failed", Details: err.Error(), Code: "INTERNAL",
		})
		return
	}
	if s.cache != nil {
		s.cache.Set(cacheKey, data)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "miss")
	if _, err := w.Write(data); err != nil {
		s.logger.Error("Failed to write response", "request_id", requestID, "error", err)
	}
	s.logger.Info("Analysis request completed",
		"request_id", requestID,
		"strategy", strategy.Name(),
		"events", report.Events,
		"intervals", report.Intervals,
		"duration_ms", time.Since(start).Milliseconds())
}

// classify maps an analysis failure to a status code and response body.
func classify(err error) (int, errorResponse) {
	var (
		pe *guardlog.ParseError
		se *guardlog.SequenceError
		de *analysis.DisagreementError
	)
	switch {
	case errors.As(err, &pe):
		return http.StatusBadRequest, errorResponse{Error: "Malformed log line", Details: err.Error(), Code: "PARSE_ERROR"}
	case errors.As(err, &se):
		return http.StatusUnprocessableEntity, errorResponse{Error: "Events out of sequence", Details: err.Error(), Code: "SEQUENCE_ERROR"}
	case errors.Is(err, analysis.ErrNoSleep):
		return http.StatusUnprocessableEntity, errorResponse{Error: "No guard slept in the window", Details: err.Error(), Code: "NO_SLEEP"}
	case errors.As(err, &de):
		return http.StatusInternalServerError, errorResponse{Error: "Strategies disagree", Details: err.Error(), Code: "DISAGREEMENT"}
	default:
		return http.StatusInternalServerError, errorResponse{Error: "Analysis failed", Details: err.Error(), Code: "INTERNAL"}
	}
}

func (s *Server) writeError(w http.ResponseWriter, requestID string, status int, resp errorResponse) {
	s.logger.Error("Analysis request failed",
		"request_id", requestID,
		"status", status,
		"code", resp.Code,
		"details", resp.Details)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("Failed to encode error response", "request_id", requestID, "error", err)
	}
}
