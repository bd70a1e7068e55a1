// Package whoami implements the caller identity diagnostic endpoint.
package whoami

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/smithy-go"
	"go.uber.org/zap"
)

const (
	// Path is the diagnostic route.
	Path = "/whoami"

	// MessageResolved is the fixed success message.
	MessageResolved = "caller identity resolved"
	// MessageFailed is the fixed failure message.
	MessageFailed = "failed to resolve caller identity"

	// HeaderRequestContext carries the trust context the hosting
	// boundary attaches to a request, when available.
	HeaderRequestContext = "X-Amzn-Request-Context"
)

// Response is the diagnostic endpoint response body.
type Response struct {
	Message        string          `json:"message"`
	CallerIdentity *CallerIdentity `json:"callerIdentity,omitempty"`
	Error          string          `json:"error,omitempty"`
}

// Handler handles one diagnostic request. Stateless across requests;
// the resolver's client handle is the only shared state.
type Handler struct {
	lg       *zap.Logger
	resolver Resolver
}

// NewHandler creates a diagnostic request handler.
func NewHandler(lg *zap.Logger, resolver Resolver) *Handler {
	return &Handler{lg: lg, resolver: resolver}
}

// NewMux returns a new HTTP request multiplexer with the diagnostic
// route registered.
func NewMux(lg *zap.Logger, resolver Resolver) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle(Path, NewHandler(lg, resolver))
	lg.Info("registered handler", zap.String("path", Path))
	return mux
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", 405)
		return
	}

	h.trace(req)

	// a resolver fault must surface as a structured 500,
	// never escape the handler
	defer func() {
		if r := recover(); r != nil {
			h.lg.Error("recovered from resolver fault", zap.String("fault", fmt.Sprintf("%v", r)))
			h.write(w, http.StatusInternalServerError, Response{
				Message: MessageFailed,
				Error:   fmt.Sprintf("%v", r),
			})
		}
	}()

	identity, err := h.resolver.Resolve(req.Context())
	if err != nil {
		msg := normalizeError(err)
		h.lg.Error("failed to resolve caller identity",
			zap.String("error-message", msg),
			zap.Error(err),
		)
		h.write(w, http.StatusInternalServerError, Response{
			Message: MessageFailed,
			Error:   msg,
		})
		return
	}

	h.lg.Info("resolved caller identity",
		zap.String("account-id", identity.AccountID),
		zap.String("arn", identity.ARN),
		zap.String("user-id", identity.UserID),
		zap.String("request-id", identity.RequestID),
	)
	h.write(w, http.StatusOK, Response{
		Message:        MessageResolved,
		CallerIdentity: &identity,
	})
}

// trace records request metadata; it never fails the request.
func (h *Handler) trace(req *http.Request) {
	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Any("headers", req.Header),
	}
	if tc := req.Header.Get(HeaderRequestContext); tc != "" {
		fields = append(fields, zap.String("trust-context", tc))
	}
	h.lg.Info("received diagnostic request", fields...)
}

func (h *Handler) write(w http.ResponseWriter, code int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.lg.Warn("failed to write response", zap.Error(err))
	}
}

// normalizeError extracts the service error message when the failure
// carries one, else falls back to the error string.
func normalizeError(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if msg := apiErr.ErrorMessage(); msg != "" {
			return msg
		}
	}
	return err.Error()
}
