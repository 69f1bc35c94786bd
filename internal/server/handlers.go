package server

import (
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/jonathan/smile-fortune/internal/fortune"
	"github.com/jonathan/smile-fortune/internal/logging"
	"github.com/jonathan/smile-fortune/internal/metrics"
	"github.com/jonathan/smile-fortune/internal/server/ratelimit"
	"github.com/jonathan/smile-fortune/internal/types"
)

// maxBodyBytes caps the fortune request body.
const maxBodyBytes = 100 << 10

// handleGetPokemon classifies the caller's smile and returns a Pokemon fortune.
func (s *Server) handleGetPokemon(w http.ResponseWriter, r *http.Request) {
	var req types.FortuneRequest
	if err := decodeBody(w, r, &req); err != nil {
		metrics.FortuneErrors.WithLabelValues(string(fortune.KindValidation)).Inc()
		s.errorResponse(w, r, HTTPStatus(err), fortune.MessageInvalidInput, err)
		return
	}

	result, err := s.fortunes.Tell(r.Context(), req)
	if err != nil {
		s.errorResponse(w, r, HTTPStatus(err), fortune.UserMessage(err), err)
		return
	}

	s.jsonResponse(w, r, http.StatusOK, types.NewFortuneResponse(result))
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", http.MethodPost)
	s.errorResponse(w, r, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
}

// handleRoot serves the static frontend when configured, and JSON 404s otherwise.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if s.static != nil && (r.Method == http.MethodGet || r.Method == http.MethodHead) {
		s.static.ServeHTTP(w, r)
		return
	}
	s.handleNotFound(w, r)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.errorResponse(w, r, http.StatusNotFound, "Not Found", nil)
}

// decodeBody reads the JSON body into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, dst *types.FortuneRequest) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return &ErrBadRequest{Message: "failed to read request body", Cause: err}
	}
	if len(body) == 0 {
		// An empty body is a request with no score; validation reports it.
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return &ErrBadRequest{Message: "invalid JSON body", Cause: err}
	}
	return nil
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to encode JSON response")
	}
}

// errorResponse writes the error envelope. Internal details are included only
// in development.
func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string, cause error) {
	resp := types.ErrorResponse{
		Status: types.StatusError,
		Error:  message,
	}
	if s.development && cause != nil {
		resp.Details = cause.Error()
	}
	s.jsonResponse(w, r, status, resp)
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	if info.RetryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(info.RetryAfter.Seconds()))))
	}

	logging.Ctx(r.Context()).Warn().
		Str("client", clientID(r)).
		Str("path", r.URL.Path).
		Int("limit", info.Limit).
		Str("reset", info.ResetTime.Format(time.RFC3339)).
		Msg("rate limit exceeded")

	s.errorResponse(w, r, http.StatusTooManyRequests, "リクエストが多すぎます。しばらくしてから再度お試しください。", errors.New("rate limit exceeded"))
}
