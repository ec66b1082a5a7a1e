package model

import "time"

// PowerPlant is static reference data mapping a plant to its location.
// Seeded once at startup, read-only afterwards.
type PowerPlant struct {
	ID          int64   `json:"id"`
	PlantID     string  `json:"plant_id"`
	Name        string  `json:"name"`
	Location    string  `json:"location"`
	CapacityMWh float64 `json:"capacity_mwh"`
}

type PowerPlants []PowerPlant

// ForecastEstimate is one hourly production estimate for a plant.
// ForecastTimestamp is the hour the estimate applies to, not when it was
// submitted; SubmissionTimestamp is refreshed on every write for the same
// (plant_id, forecast_timestamp) key.
type ForecastEstimate struct {
	ID                     int64     `json:"id"`
	PlantID                string    `json:"plant_id"`
	ForecastTimestamp      time.Time `json:"forecast_timestamp"`
	EstimatedProductionMWh float64   `json:"estimated_production_mwh"`
	SubmissionTimestamp    time.Time `json:"submission_timestamp"`
}

type ForecastEstimates []ForecastEstimate

// PositionReport is the aggregated expected production for a time window.
type PositionReport struct {
	StartDate        time.Time          `json:"start_date"`
	EndDate          time.Time          `json:"end_date"`
	TotalForecastMWh float64            `json:"total_forecast_mwh"`
	ByLocation       map[string]float64 `json:"by_location"`
}

const EventTypePositionChanged = "PositionChanged"

// PositionChangedEvent is published once per accepted write. Timestamp is
// the emission time, ForecastHour the hour the revised estimate applies to.
type PositionChangedEvent struct {
	Type           string    `json:"type"`
	Timestamp      time.Time `json:"timestamp"`
	PlantID        string    `json:"plant_id"`
	ForecastHour   time.Time `json:"forecast_hour"`
	NewEstimateMWh float64   `json:"new_estimate_mwh"`
}
