package forecast

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/anicoll/forecast-service/internal/pkg/model"
	"github.com/anicoll/forecast-service/internal/pkg/position"
)

type estimateStore interface {
	UpsertEstimate(ctx context.Context, plantID string, forecastTimestamp time.Time, valueMWh float64) (*model.ForecastEstimate, error)
	GetEstimatesByPlantAndRange(ctx context.Context, plantID string, from, to time.Time) (model.ForecastEstimates, error)
	GetEstimatesByRange(ctx context.Context, from, to time.Time) (model.ForecastEstimates, error)
	GetPlants(ctx context.Context) (model.PowerPlants, error)
}

type changeNotifier interface {
	Notify(ctx context.Context, event model.PositionChangedEvent) error
}

// Service orchestrates the estimate store, the position aggregation and the
// change notifier. One instance serves all requests.
type Service struct {
	store    estimateStore
	notifier changeNotifier
	logger   *zap.Logger
}

func New(store estimateStore, notifier changeNotifier) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		logger:   zap.L(),
	}
}

// Submit upserts the estimate and, only after the write committed, publishes
// a PositionChanged event with the post-write state. A failed publish never
// unwinds the write: the stored estimate is returned alongside an
// ErrNotify-wrapped error so callers can tell persisted-but-unannounced
// apart from a write failure.
func (s *Service) Submit(ctx context.Context, plantID string, forecastTimestamp time.Time, valueMWh float64) (*model.ForecastEstimate, error) {
	estimate, err := s.store.UpsertEstimate(ctx, plantID, forecastTimestamp, valueMWh)
	if err != nil {
		return nil, err
	}

	event := model.PositionChangedEvent{
		Type:           model.EventTypePositionChanged,
		Timestamp:      time.Now().UTC(),
		PlantID:        estimate.PlantID,
		ForecastHour:   estimate.ForecastTimestamp,
		NewEstimateMWh: estimate.EstimatedProductionMWh,
	}
	if err := s.notifier.Notify(ctx, event); err != nil {
		s.logger.Warn("estimate stored but change event not published",
			zap.String("plant_id", estimate.PlantID),
			zap.Time("forecast_hour", estimate.ForecastTimestamp),
			zap.Error(err))
		return estimate, err
	}

	return estimate, nil
}

// GetForecast returns the plant's estimates in [from, to), ascending by
// forecast hour. A malformed range (to <= from) yields an empty result.
func (s *Service) GetForecast(ctx context.Context, plantID string, from, to time.Time) (model.ForecastEstimates, error) {
	if !to.After(from) {
		return model.ForecastEstimates{}, nil
	}
	return s.store.GetEstimatesByPlantAndRange(ctx, plantID, from, to)
}

// GetCompanyPosition aggregates all estimates in [from, to) against a fresh
// registry snapshot.
func (s *Service) GetCompanyPosition(ctx context.Context, from, to time.Time) (model.PositionReport, error) {
	plants, err := s.store.GetPlants(ctx)
	if err != nil {
		return model.PositionReport{}, err
	}

	if !to.After(from) {
		return position.Aggregate(nil, plants, from, to), nil
	}

	estimates, err := s.store.GetEstimatesByRange(ctx, from, to)
	if err != nil {
		return model.PositionReport{}, err
	}

	return position.Aggregate(estimates, plants, from, to), nil
}
