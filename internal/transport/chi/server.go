// Package chi is the HTTP API surface: extraction submission, usage, and
// health, with the domain-error-to-status mapping chain.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/decklens/decklens/internal/domain"
	"github.com/decklens/decklens/internal/usecase/extraction"
	healthuc "github.com/decklens/decklens/internal/usecase/health"
	usageuc "github.com/decklens/decklens/internal/usecase/usage"
)

// Error codes returned in the JSON error envelope.
const (
	CodeBadRequest          = "bad_request"
	CodeInsufficientContent = "insufficient_content"
	CodeNoValidChunks       = "no_valid_chunks"
	CodeLocatorParseFailed  = "locator_parse_failed"
	CodeQuotaExceeded       = "quota_exceeded"
	CodePermissionDenied    = "capability_permission_denied"
	CodeTimeout             = "timeout"
	CodeInternalError       = "internal_error"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// ExtractRequest is the extraction submission body. Either text or locator
// must be present; locator-only submissions are resolved and rejected before
// the pipeline starts, byte fetching is a collaborator concern.
type ExtractRequest struct {
	DocumentID string `json:"documentId"`
	Text       string `json:"text"`
	Locator    string `json:"locator,omitempty"`
}

// Server exposes the extraction pipeline over HTTP.
type Server struct {
	extractions   *extraction.Service
	usage         *usageuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	extractions *extraction.Service,
	usage *usageuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		extractions: extractions,
		usage:       usage,
		health:      health,
		logger:      logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInsufficientContent, http.StatusUnprocessableEntity, CodeInsufficientContent),
		sentinelHandler(domain.ErrNoValidChunks, http.StatusUnprocessableEntity, CodeNoValidChunks),
		sentinelHandler(domain.ErrLocatorParse, http.StatusBadRequest, CodeLocatorParseFailed),
		sentinelHandler(domain.ErrQuotaExceeded, http.StatusPaymentRequired, CodeQuotaExceeded),
		sentinelHandler(domain.ErrPermissionDenied, http.StatusBadGateway, CodePermissionDenied),
		contextHandler(),
	}
	return s
}

// CreateExtraction handles POST /api/v1/extractions.
func (s *Server) CreateExtraction(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.Text == "" {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Document text is required")
		return
	}

	// A locator, when present, must be well-formed even though byte
	// resolution happens upstream of this service.
	if req.Locator != "" {
		if _, err := domain.ResolveLocator(req.Locator); err != nil {
			s.handleDomainError(w, err)
			return
		}
	}

	result, err := s.extractions.Extract(r.Context(), extraction.Input{
		DocumentID: req.DocumentID,
		Text:       req.Text,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GetUsage handles GET /api/v1/usage.
func (s *Server) GetUsage(w http.ResponseWriter, r *http.Request) {
	period := usageuc.Period(r.URL.Query().Get("period"))
	report := s.usage.GetReport(r.Context(), period)
	writeJSON(w, http.StatusOK, report)
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

// handleDomainError walks the handler chain; unmatched errors become 500.
func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}

	s.logger.Error("Unhandled domain error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}

// sentinelHandler maps one sentinel error to a status and code.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, err.Error())
		return true
	}
}

// contextHandler maps an elapsed pipeline deadline to 504.
func contextHandler() errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
			return false
		}
		writeError(w, http.StatusGatewayTimeout, CodeTimeout, "extraction did not complete within the request deadline")
		return true
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}
