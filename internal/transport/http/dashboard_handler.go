package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "epipulse/internal/errors"
	appmiddleware "epipulse/internal/middleware"
	"epipulse/internal/services"
)

// DashboardHandler handles the dashboard API requests.
type DashboardHandler struct {
	service      DashboardServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validation   *appmiddleware.ValidationMiddleware
}

// NewDashboardHandler creates a dashboard handler.
func NewDashboardHandler(
	service DashboardServiceInterface,
	logger *slog.Logger,
	errorHandler *apierrors.ErrorHandler,
	validation *appmiddleware.ValidationMiddleware,
) *DashboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
		validation:   validation,
	}
}

// Routes returns the API routes mounted under /api.
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/countries", h.GetCountries)
	r.Route("/countries/{location}", func(r chi.Router) {
		r.Use(h.validation.ValidateLocation)
		r.Get("/series", h.GetCountrySeries)
	})
	r.Get("/trends", h.GetTrends)
	r.Get("/healthz", h.GetHealthz)

	return r
}

// GetCountries handles GET /api/countries.
func (h *DashboardHandler) GetCountries(w http.ResponseWriter, r *http.Request) {
	options, err := h.service.Countries(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err, "")
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   options,
		"count":  len(options),
	})
}

// GetCountrySeries handles GET /api/countries/{location}/series.
func (h *DashboardHandler) GetCountrySeries(w http.ResponseWriter, r *http.Request) {
	location := chi.URLParam(r, "location")

	series, err := h.service.Series(r.Context(), location)
	if err != nil {
		h.handleServiceError(w, r, err, location)
		return
	}

	render.JSON(w, r, series)
}

// GetTrends handles GET /api/trends.
func (h *DashboardHandler) GetTrends(w http.ResponseWriter, r *http.Request) {
	trends, err := h.service.Trends(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err, "")
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   trends,
		"count":  len(trends),
	})
}

// GetHealthz handles GET /api/healthz. It always answers 200; the payload
// carries the readiness detail.
func (h *DashboardHandler) GetHealthz(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Health(r.Context()))
}

// handleServiceError maps service sentinels onto problem responses.
func (h *DashboardHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error, location string) {
	h.logger.ErrorContext(r.Context(), "dashboard request failed",
		slog.String("error", err.Error()),
		slog.String("request_id", appmiddleware.GetRequestID(r.Context())),
		slog.String("path", r.URL.Path),
	)

	switch {
	case errors.Is(err, services.ErrCountryNotFound):
		h.errorHandler.HandleError(w, r, apierrors.NewNotFoundError(fmt.Sprintf("country %q", location)))
	case errors.Is(err, services.ErrNoTrendData):
		h.errorHandler.HandleError(w, r, apierrors.NewNotFoundError("trend data"))
	case errors.Is(err, services.ErrDataNotReady):
		h.errorHandler.HandleError(w, r, apierrors.NewAppError(
			apierrors.ErrTypeFileAccess, "dataset is not loaded yet", err))
	default:
		h.errorHandler.HandleError(w, r, err)
	}
}
