package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/career-assistant/internal/db"
	"github.com/jonathan/career-assistant/internal/server/middleware"
	"github.com/jonathan/career-assistant/internal/types"
)

// ResultResponse wraps a successful feature response. ID is set when the
// result was stored.
type ResultResponse struct {
	ID     string `json:"id,omitempty"`
	Result any    `json:"result"`
}

// handleAI decodes a Req, runs call under the request timeout, stores the
// result and writes it.
func handleAI[Req any, Res any](s *Server, feature string, call func(context.Context, Req) (Res, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req Req
		if err := s.decode(w, r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
		defer cancel()

		res, err := call(ctx, req)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		resp := ResultResponse{Result: res}
		if s.store != nil {
			id, err := s.store.SaveResult(r.Context(), feature, res)
			if err != nil {
				s.logger.Warn("failed to store result",
					zap.String("feature", feature),
					zap.String("request_id", middleware.GetRequestID(r.Context())),
					zap.Error(err))
			} else {
				resp.ID = id.String()
			}
		}
		s.jsonResponse(w, http.StatusOK, resp)
	}
}

// decode reads a JSON body into v, rejecting unknown fields and oversize bodies.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", types.ErrInvalidRequest, err)
	}
	return nil
}

// writeError logs err and writes the mapped error response.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := classify(err)
	body.RequestID = middleware.GetRequestID(r.Context())

	fields := []zap.Field{
		zap.String("request_id", body.RequestID),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", fields...)
	} else {
		s.logger.Info("request rejected", fields...)
	}
	s.jsonResponse(w, status, body)
}

// handleGetResult returns one stored result.
func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.storageDisabled(w, r)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: invalid result id", types.ErrInvalidRequest))
		return
	}

	result, err := s.store.GetResult(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if result == nil {
		s.jsonResponse(w, http.StatusNotFound, ErrorResponse{
			Error:     CodeNotFound,
			Message:   "result not found",
			RequestID: middleware.GetRequestID(r.Context()),
		})
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleListResults returns the newest results for ?feature=, up to ?limit=.
func (s *Server) handleListResults(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.storageDisabled(w, r)
		return
	}

	feature := r.URL.Query().Get("feature")
	if feature == "" {
		s.writeError(w, r, fmt.Errorf("%w: feature is required", types.ErrInvalidRequest))
		return
	}
	limit := db.DefaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, r, fmt.Errorf("%w: limit must be a number", types.ErrInvalidRequest))
			return
		}
		limit = n
	}

	results, err := s.store.ListResults(r.Context(), feature, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"results": results})
}

func (s *Server) storageDisabled(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusServiceUnavailable, ErrorResponse{
		Error:     CodeStorageDisabled,
		Message:   "result storage is not configured",
		RequestID: middleware.GetRequestID(r.Context()),
	})
}

// pinger is implemented by stores that can report connectivity.
type pinger interface {
	Ping(ctx context.Context) error
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok", "database": "disabled"}
	if p, ok := s.store.(pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			resp["database"] = "unavailable"
		} else {
			resp["database"] = "ok"
		}
	}
	s.jsonResponse(w, http.StatusOK, resp)
}
