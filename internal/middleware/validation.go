package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	apierrors "epipulse/internal/errors"
)

// ValidationMiddleware validates request parameters using struct tags.
type ValidationMiddleware struct {
	validator    *validator.Validate
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewValidationMiddleware creates a validation middleware.
func NewValidationMiddleware(logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ValidationMiddleware {
	if logger == nil {
		logger = slog.Default()
	}

	v := validator.New()
	v.RegisterValidation("location", isValidLocation)

	// Use JSON tag names in error messages.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &ValidationMiddleware{
		validator:    v,
		logger:       logger.With(slog.String("component", "validation_middleware")),
		errorHandler: errorHandler,
	}
}

// locationParams carries the URL parameters of the country series endpoint.
type locationParams struct {
	Location string `json:"location" validate:"required,min=2,max=64,location"`
}

// ValidateLocation guards the {location} URL parameter before the handler
// runs: present, bounded length, free of path and control characters.
func (m *ValidationMiddleware) ValidateLocation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		params := locationParams{Location: chi.URLParam(r, "location")}

		if err := m.validator.Struct(params); err != nil {
			m.logger.WarnContext(r.Context(), "invalid location parameter",
				slog.String("location", params.Location),
				slog.String("error", err.Error()))

			message := "location parameter is invalid"
			var fieldErrs validator.ValidationErrors
			if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
				message = formatValidationError(fieldErrs[0])
			}

			m.errorHandler.HandleError(w, r,
				apierrors.NewAppValidationError(message).WithContext("parameter", "location"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// formatValidationError turns a field error into a readable message.
func formatValidationError(err validator.FieldError) string {
	field := err.Field()
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, err.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, err.Param())
	case "location":
		return fmt.Sprintf("%s contains characters that are not allowed", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}

// isValidLocation accepts human-readable country names ("France",
// "Cote d'Ivoire") and rejects control characters and path separators.
func isValidLocation(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	for _, ch := range name {
		if ch < 0x20 || ch == 0x7f {
			return false
		}
	}
	return !strings.ContainsAny(name, `/\`)
}
