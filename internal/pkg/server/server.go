package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/anicoll/forecast-service/internal/pkg/model"
)

type forecastService interface {
	Submit(ctx context.Context, plantID string, forecastTimestamp time.Time, valueMWh float64) (*model.ForecastEstimate, error)
	GetForecast(ctx context.Context, plantID string, from, to time.Time) (model.ForecastEstimates, error)
	GetCompanyPosition(ctx context.Context, from, to time.Time) (model.PositionReport, error)
}

type server struct {
	forecasts    forecastService
	logger       *zap.Logger
	queryTimeout time.Duration
}

func New(fs forecastService, queryTimeout time.Duration) *server {
	return &server{forecasts: fs, logger: zap.L(), queryTimeout: queryTimeout}
}

// Handler mounts the API under /api/v1 and wraps it with request logging.
func (s *server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /api/v1/forecasts", s.putForecast)
	mux.HandleFunc("GET /api/v1/forecasts/company/position", s.getCompanyPosition)
	mux.HandleFunc("GET /api/v1/forecasts/{plant_id}", s.getForecast)
	mux.HandleFunc("GET /{$}", s.root)
	return LoggingMiddleware(mux)
}

type submitForecastPayload struct {
	PlantID                string   `json:"plant_id"`
	ForecastTimestamp      FlexTime `json:"forecast_timestamp"`
	EstimatedProductionMWh *float64 `json:"estimated_production_mwh"`
}

func (p *submitForecastPayload) validate() error {
	if p.PlantID == "" {
		return fmt.Errorf("%w: plant_id is required", model.ErrValidation)
	}
	if p.ForecastTimestamp.IsZero() {
		return fmt.Errorf("%w: forecast_timestamp is required", model.ErrValidation)
	}
	if p.EstimatedProductionMWh == nil {
		return fmt.Errorf("%w: estimated_production_mwh is required", model.ErrValidation)
	}
	if math.IsNaN(*p.EstimatedProductionMWh) || math.IsInf(*p.EstimatedProductionMWh, 0) {
		return fmt.Errorf("%w: estimated_production_mwh must be a finite number", model.ErrValidation)
	}
	return nil
}

func (s *server) putForecast(w http.ResponseWriter, r *http.Request) {
	payload, err := unmarshalPayload[submitForecastPayload](r)
	if err != nil {
		handleError(w, err)
		return
	}
	if err := payload.validate(); err != nil {
		handleError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.queryTimeout)
	defer cancel()

	estimate, err := s.forecasts.Submit(ctx, payload.PlantID, payload.ForecastTimestamp.Time, *payload.EstimatedProductionMWh)
	if err != nil && !errors.Is(err, model.ErrNotify) {
		handleError(w, err)
		return
	}
	if err != nil {
		// The write committed; notification is an observability side channel
		// and its failure stays invisible to the caller.
		s.logger.Warn("change notification failed", zap.String("plant_id", payload.PlantID), zap.Error(err))
	}

	writeJSON(w, http.StatusOK, estimate)
}

func (s *server) getForecast(w http.ResponseWriter, r *http.Request) {
	plantID := r.PathValue("plant_id")
	from, to, err := parseRange(r)
	if err != nil {
		handleError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.queryTimeout)
	defer cancel()

	estimates, err := s.forecasts.GetForecast(ctx, plantID, from, to)
	if err != nil {
		handleError(w, err)
		return
	}
	if estimates == nil {
		estimates = model.ForecastEstimates{}
	}

	writeJSON(w, http.StatusOK, estimates)
}

func (s *server) getCompanyPosition(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseRange(r)
	if err != nil {
		handleError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.queryTimeout)
	defer cancel()

	report, err := s.forecasts.GetCompanyPosition(ctx, from, to)
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (s *server) root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Forecast Service API"})
}

func parseRange(r *http.Request) (time.Time, time.Time, error) {
	from, err := parseTimestamp(r.URL.Query().Get("start_date"))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start_date: %v", model.ErrValidation, err)
	}
	to, err := parseTimestamp(r.URL.Query().Get("end_date"))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end_date: %v", model.ErrValidation, err)
	}
	return from, to, nil
}

func handleError(w http.ResponseWriter, err error) {
	if errors.Is(err, model.ErrValidation) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(err.Error()))
		return
	}
	w.WriteHeader(http.StatusInternalServerError)
	w.Write([]byte(err.Error()))
}

func unmarshalPayload[T any](r *http.Request) (*T, error) {
	var out T
	if err := json.NewDecoder(r.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrValidation, err)
	}
	return &out, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
