package http

import (
	"context"

	"epipulse/internal/services"
	"epipulse/pkg/contracts/domain"
)

// DashboardServiceInterface defines the service surface the dashboard
// handlers depend on.
type DashboardServiceInterface interface {
	Countries(ctx context.Context) ([]services.CountryOption, error)
	Series(ctx context.Context, location string) (*services.CountrySeries, error)
	Trends(ctx context.Context) ([]domain.TrendPoint, error)
	Health(ctx context.Context) services.HealthStatus
}
