package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// ErrorHandler turns errors into RFC 7807 problem responses for the
// dashboard API. One instance is shared by the handlers and the recoverer
// middleware.
type ErrorHandler struct {
	logger       *slog.Logger
	includeStack bool
}

// NewErrorHandler creates the handler. includeStack attaches stack traces
// to problem responses and belongs in development setups only.
func NewErrorHandler(logger *slog.Logger, includeStack bool) *ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorHandler{
		logger:       logger.With(slog.String("component", "error_handler")),
		includeStack: includeStack,
	}
}

// HandleError logs err and renders it as a problem response.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	h.logger.ErrorContext(r.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("remote_addr", r.RemoteAddr),
	)

	problem := h.ErrorToProblem(err, r)
	if h.includeStack {
		problem.WithExtension("stack", string(debug.Stack()))
	}
	h.renderProblem(w, r, problem)
}

// ErrorToProblem picks the problem shape for err: context cancellation maps
// to 504, AppError types map per the pipeline taxonomy, anything else is a
// plain 500.
func (h *ErrorHandler) ErrorToProblem(err error, r *http.Request) *ProblemDetails {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewProblemDetails(
			http.StatusGatewayTimeout,
			TypeTimeout,
			"Request Timeout",
			"The request took too long to process and was cancelled",
			r.URL.Path,
		)
	}

	var appErr *AppError
	if !errors.As(err, &appErr) {
		return h.internalProblem(r)
	}

	status, problemType, title := problemShape(appErr.Type)
	problem := NewProblemDetails(status, problemType, title, appErr.Message, r.URL.Path).
		WithExtension("error_type", string(appErr.Type))
	for k, v := range appErr.Context {
		problem.WithExtension(k, v)
	}
	return problem
}

// problemShape maps the error taxonomy onto status, problem type and title.
func problemShape(t ErrorType) (int, string, string) {
	switch t {
	case ErrTypeNotFound:
		return http.StatusNotFound, TypeNotFound, "Resource Not Found"
	case ErrTypeValidation:
		return http.StatusBadRequest, TypeValidation, "Validation Failed"
	case ErrTypeFileAccess:
		return http.StatusServiceUnavailable, TypeDataMissing, "Dataset Unavailable"
	case ErrTypeEmptyDataset:
		return http.StatusServiceUnavailable, TypeDataEmpty, "Dataset Empty"
	case ErrTypeParse:
		return http.StatusInternalServerError, TypeDataParse, "Dataset Parse Failure"
	default:
		return http.StatusInternalServerError, TypeInternal, "Internal Server Error"
	}
}

// HandlePanic is the recoverer's sink: it logs the panic with its stack and
// answers with a plain 500 problem.
func (h *ErrorHandler) HandlePanic(w http.ResponseWriter, r *http.Request, recovered any) {
	stack := string(debug.Stack())

	h.logger.ErrorContext(r.Context(), "panic recovered",
		slog.Any("panic", recovered),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("stack", stack),
	)

	problem := h.internalProblem(r)
	if h.includeStack {
		problem.WithExtension("panic", fmt.Sprintf("%v", recovered))
		problem.WithExtension("stack", stack)
	}
	h.renderProblem(w, r, problem)
}

// NotFound answers requests for unknown routes.
func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderProblem(w, r, NewProblemDetails(
		http.StatusNotFound,
		TypeNotFound,
		"Not Found",
		"The requested resource was not found",
		r.URL.Path,
	))
}

// MethodNotAllowed answers requests with an unsupported verb.
func (h *ErrorHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.renderProblem(w, r, NewProblemDetails(
		http.StatusMethodNotAllowed,
		TypeInternal,
		"Method Not Allowed",
		fmt.Sprintf("Method %s is not allowed for this endpoint", r.Method),
		r.URL.Path,
	))
}

func (h *ErrorHandler) internalProblem(r *http.Request) *ProblemDetails {
	return NewProblemDetails(
		http.StatusInternalServerError,
		TypeInternal,
		"Internal Server Error",
		"An unexpected error occurred while processing your request",
		r.URL.Path,
	)
}

// renderProblem stamps the request trace ID onto the problem and writes it.
func (h *ErrorHandler) renderProblem(w http.ResponseWriter, r *http.Request, problem *ProblemDetails) {
	if reqID := middleware.GetReqID(r.Context()); reqID != "" {
		problem.WithExtension("trace_id", reqID)
	}
	render.Render(w, r, problem)
}
