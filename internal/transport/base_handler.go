package transport

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/frahmantamala/task-management/internal"
	"github.com/frahmantamala/task-management/pkg/logger"
	"github.com/go-chi/chi"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope is the uniform body of every API response.
type Envelope struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &BaseHandler{Logger: lg}
}

// StatusCode maps a service failure kind to its HTTP status.
func StatusCode(err error) int {
	switch internal.KindOf(err) {
	case internal.ErrorTypeValidation:
		return http.StatusBadRequest
	case internal.ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case internal.ErrorTypePermission:
		return http.StatusForbidden
	case internal.ErrorTypeNotFound:
		return http.StatusNotFound
	case internal.ErrorTypeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteSuccess wraps data in a success envelope.
func (h *BaseHandler) WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	h.WriteJSON(w, status, Envelope{Status: StatusSuccess, Data: data})
}

// WriteError writes an error envelope
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.Logger.Warn("http error", "status", status, "message", message)
	h.WriteJSON(w, status, Envelope{Status: StatusError, Message: message})
}

// HandleServiceError writes the envelope for a failed service call.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, err error) {
	status := StatusCode(err)

	appErr, ok := internal.IsAppError(err)
	if !ok || status == http.StatusInternalServerError {
		h.Logger.Error("service error", "error", err)
		message := "internal server error"
		if ok {
			message = appErr.Message
		}
		h.WriteJSON(w, status, Envelope{Status: StatusError, Message: message})
		return
	}

	envelope := Envelope{Status: StatusError, Message: appErr.GetDetailedMessage()}
	if appErr.Details != nil {
		envelope.Data = appErr.Details
	}
	h.WriteJSON(w, status, envelope)
}

// UserID returns the authenticated caller id, writing 401 when absent.
func (h *BaseHandler) UserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := internal.UserIDFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return 0, false
	}
	return userID, true
}

// DecodeJSON reads the request body into dst, writing 400 on malformed input.
func (h *BaseHandler) DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if r.Body == nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.Logger.Debug("invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// PathID parses a positive integer URL parameter, writing 400 when invalid.
func (h *BaseHandler) PathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.WriteError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

// QueryInt returns the integer query value for key, or def when missing or malformed.
func QueryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// QueryInt64Ptr parses an optional integer query value.
func QueryInt64Ptr(r *http.Request, key string) (*int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, errors.New("invalid " + key)
	}
	return &v, nil
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[7:])
}
