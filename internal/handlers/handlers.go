// Package handlers serves the dashboard over JSON, datastar SSE and
// go-echarts chart pages.
package handlers

import (
	stderrors "errors"
	"log/slog"
	"net/http"

	"exec-dashboard/internal/errors"
	"exec-dashboard/internal/observability"
	"exec-dashboard/internal/services"
)

const (
	cacheMaxAge = "public, max-age=300"

	// maxCityLength bounds the city parameter; no real city name comes close.
	maxCityLength = 128
)

// cityParam reads the ?city= selection. An empty value means all cities.
func cityParam(r *http.Request) (string, error) {
	city := r.URL.Query().Get("city")
	if err := validateCity(city); err != nil {
		return "", err
	}
	return services.NormalizeCity(city), nil
}

func validateCity(city string) error {
	if len(city) > maxCityLength {
		return errors.Validation("city parameter is too long")
	}
	return nil
}

func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	if stderrors.Is(err, services.ErrNotLoaded) {
		err = errors.DatasetUnavailable(err)
	}
	errors.WriteError(w, logger, err, observability.GetRequestID(r.Context()))
}
