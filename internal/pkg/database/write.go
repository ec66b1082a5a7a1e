package database

import (
	"context"
	"time"

	"github.com/anicoll/forecast-service/internal/pkg/model"
)

// UpsertEstimate writes the estimate for (plantID, forecastTimestamp),
// creating the row on first submission and overwriting value and submission
// time on every later one. A single INSERT .. ON CONFLICT statement keeps
// concurrent writes to the same key atomic: the unique constraint guarantees
// one row per key and the last committed write wins. The stored row id never
// changes on update.
func (db *Database) UpsertEstimate(ctx context.Context, plantID string, forecastTimestamp time.Time, valueMWh float64) (*model.ForecastEstimate, error) {
	const upsertSQL = `
	INSERT INTO forecast_estimates (plant_id, forecast_timestamp, estimated_production_mwh, submission_timestamp)
	VALUES ($1, $2, $3, now())
	ON CONFLICT (plant_id, forecast_timestamp) DO UPDATE
	SET estimated_production_mwh = EXCLUDED.estimated_production_mwh,
	    submission_timestamp = now()
	RETURNING id, plant_id, forecast_timestamp, estimated_production_mwh, submission_timestamp;
	`

	estimate := &model.ForecastEstimate{}
	row := db.pool.QueryRow(ctx, upsertSQL, plantID, forecastTimestamp, valueMWh)
	if err := row.Scan(&estimate.ID, &estimate.PlantID, &estimate.ForecastTimestamp, &estimate.EstimatedProductionMWh, &estimate.SubmissionTimestamp); err != nil {
		return nil, storageError("upsert estimate", err)
	}
	return estimate, nil
}

var seedPlants = model.PowerPlants{
	{PlantID: "TR_001", Name: "Turkey Plant", Location: "Turkey", CapacityMWh: 100.0},
	{PlantID: "BG_001", Name: "Bulgaria Plant", Location: "Bulgaria", CapacityMWh: 80.0},
	{PlantID: "ES_001", Name: "Spain Plant", Location: "Spain", CapacityMWh: 120.0},
}

// SeedPlants loads the initial plant registry on an empty table. Called once
// at startup; a no-op when any plant already exists.
func (db *Database) SeedPlants(ctx context.Context) error {
	var count int
	if err := db.pool.QueryRow(ctx, "SELECT count(*) FROM plants").Scan(&count); err != nil {
		return storageError("count plants", err)
	}
	if count > 0 {
		return nil
	}

	for _, plant := range seedPlants {
		if _, err := db.pool.Exec(ctx, `
		INSERT INTO plants (plant_id, name, location, capacity_mwh)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT DO NOTHING;`, plant.PlantID, plant.Name, plant.Location, plant.CapacityMWh); err != nil {
			return storageError("seed plants", err)
		}
	}
	return nil
}
