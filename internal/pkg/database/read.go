package database

import (
	"context"
	"time"

	"github.com/anicoll/forecast-service/internal/pkg/model"
	"github.com/jackc/pgx/v5"
)

// GetEstimatesByPlantAndRange returns the plant's estimates whose forecast
// hour falls in [from, to), ascending by forecast hour. No matches yields an
// empty result, not an error.
func (db *Database) GetEstimatesByPlantAndRange(ctx context.Context, plantID string, from, to time.Time) (model.ForecastEstimates, error) {
	const query = `
	SELECT id, plant_id, forecast_timestamp, estimated_production_mwh, submission_timestamp
	FROM forecast_estimates
	WHERE plant_id = $1 AND forecast_timestamp >= $2 AND forecast_timestamp < $3
	ORDER BY forecast_timestamp ASC;
	`

	rows, err := db.pool.Query(ctx, query, plantID, from, to)
	if err != nil {
		return nil, storageError("query estimates by plant", err)
	}
	defer rows.Close()

	return scanEstimates(rows)
}

// GetEstimatesByRange is GetEstimatesByPlantAndRange across all plants.
func (db *Database) GetEstimatesByRange(ctx context.Context, from, to time.Time) (model.ForecastEstimates, error) {
	const query = `
	SELECT id, plant_id, forecast_timestamp, estimated_production_mwh, submission_timestamp
	FROM forecast_estimates
	WHERE forecast_timestamp >= $1 AND forecast_timestamp < $2
	ORDER BY forecast_timestamp ASC;
	`

	rows, err := db.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, storageError("query estimates", err)
	}
	defer rows.Close()

	return scanEstimates(rows)
}

func scanEstimates(rows pgx.Rows) (model.ForecastEstimates, error) {
	var estimates model.ForecastEstimates
	for rows.Next() {
		var estimate model.ForecastEstimate
		if err := rows.Scan(&estimate.ID, &estimate.PlantID, &estimate.ForecastTimestamp, &estimate.EstimatedProductionMWh, &estimate.SubmissionTimestamp); err != nil {
			return nil, storageError("scan estimate", err)
		}
		estimates = append(estimates, estimate)
	}

	if err := rows.Err(); err != nil {
		if err == pgx.ErrNoRows {
			return estimates, nil
		}
		return nil, storageError("read estimates", err)
	}

	return estimates, nil
}

// GetPlants returns the full registry snapshot.
func (db *Database) GetPlants(ctx context.Context) (model.PowerPlants, error) {
	const query = `
	SELECT id, plant_id, name, location, capacity_mwh
	FROM plants
	ORDER BY plant_id ASC;
	`

	rows, err := db.pool.Query(ctx, query)
	if err != nil {
		return nil, storageError("query plants", err)
	}
	defer rows.Close()

	var plants model.PowerPlants
	for rows.Next() {
		var plant model.PowerPlant
		if err := rows.Scan(&plant.ID, &plant.PlantID, &plant.Name, &plant.Location, &plant.CapacityMWh); err != nil {
			return nil, storageError("scan plant", err)
		}
		plants = append(plants, plant)
	}

	if err := rows.Err(); err != nil {
		if err == pgx.ErrNoRows {
			return plants, nil
		}
		return nil, storageError("read plants", err)
	}

	return plants, nil
}
