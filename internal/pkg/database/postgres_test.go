package database

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/anicoll/forecast-service/internal/pkg/database/migration"
)

func setupDatabase(t *testing.T) *Database {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	ctx := context.Background()
	container, err := pgcontainer.Run(ctx, "postgres:16-alpine",
		pgcontainer.WithDatabase("forecastdb"),
		pgcontainer.WithUsername("user"),
		pgcontainer.WithPassword("password"),
		pgcontainer.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, migration.Migrate(dsn, "../../../migrations"))

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return NewDatabase(pool)
}

func TestDatabase(t *testing.T) {
	db := setupDatabase(t)
	ctx := context.Background()
	hour := time.Date(2025, 11, 14, 0, 0, 0, 0, time.UTC)

	t.Run("upsert creates then overwrites in place", func(t *testing.T) {
		first, err := db.UpsertEstimate(ctx, "TR_001", hour, 50.0)
		require.NoError(t, err)
		assert.Equal(t, "TR_001", first.PlantID)
		assert.True(t, hour.Equal(first.ForecastTimestamp))
		assert.Equal(t, 50.0, first.EstimatedProductionMWh)
		assert.False(t, first.SubmissionTimestamp.IsZero())

		second, err := db.UpsertEstimate(ctx, "TR_001", hour, 55.0)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID, "stored identity must survive an update")
		assert.Equal(t, 55.0, second.EstimatedProductionMWh)
		assert.False(t, second.SubmissionTimestamp.Before(first.SubmissionTimestamp))

		rows, err := db.GetEstimatesByPlantAndRange(ctx, "TR_001", hour, hour.Add(time.Hour))
		require.NoError(t, err)
		require.Len(t, rows, 1, "two submissions for one key must leave one row")
		assert.Equal(t, 55.0, rows[0].EstimatedProductionMWh)
	})

	t.Run("range is start-inclusive end-exclusive and ordered", func(t *testing.T) {
		for i := 0; i < 4; i++ {
			_, err := db.UpsertEstimate(ctx, "BG_001", hour.Add(time.Duration(i)*time.Hour), 30.0+float64(i))
			require.NoError(t, err)
		}

		rows, err := db.GetEstimatesByPlantAndRange(ctx, "BG_001", hour, hour.Add(3*time.Hour))
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.True(t, hour.Equal(rows[0].ForecastTimestamp), "row at start must be included")
		for i := 1; i < len(rows); i++ {
			assert.False(t, rows[i].ForecastTimestamp.Before(rows[i-1].ForecastTimestamp))
		}
		for _, row := range rows {
			assert.True(t, row.ForecastTimestamp.Before(hour.Add(3*time.Hour)), "row at end must be excluded")
		}
	})

	t.Run("range across all plants", func(t *testing.T) {
		_, err := db.UpsertEstimate(ctx, "ES_001", hour, 20.0)
		require.NoError(t, err)

		rows, err := db.GetEstimatesByRange(ctx, hour, hour.Add(time.Hour))
		require.NoError(t, err)

		plantIDs := make(map[string]bool)
		for _, row := range rows {
			plantIDs[row.PlantID] = true
		}
		assert.True(t, plantIDs["TR_001"])
		assert.True(t, plantIDs["BG_001"])
		assert.True(t, plantIDs["ES_001"])
		for i := 1; i < len(rows); i++ {
			assert.False(t, rows[i].ForecastTimestamp.Before(rows[i-1].ForecastTimestamp))
		}
	})

	t.Run("empty range yields empty result", func(t *testing.T) {
		rows, err := db.GetEstimatesByPlantAndRange(ctx, "TR_001", hour.AddDate(1, 0, 0), hour.AddDate(1, 0, 1))
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("seed plants is idempotent", func(t *testing.T) {
		require.NoError(t, db.SeedPlants(ctx))
		require.NoError(t, db.SeedPlants(ctx))

		plants, err := db.GetPlants(ctx)
		require.NoError(t, err)
		require.Len(t, plants, 3)

		locations := make(map[string]string)
		for _, plant := range plants {
			locations[plant.PlantID] = plant.Location
		}
		assert.Equal(t, map[string]string{
			"TR_001": "Turkey",
			"BG_001": "Bulgaria",
			"ES_001": "Spain",
		}, locations)
	})
}

func TestDatabase_ConcurrentUpserts(t *testing.T) {
	db := setupDatabase(t)
	ctx := context.Background()
	hour := time.Date(2025, 11, 14, 0, 0, 0, 0, time.UTC)

	const writers = 8
	done := make(chan error, writers)
	for i := 0; i < writers; i++ {
		go func(value float64) {
			_, err := db.UpsertEstimate(ctx, "TR_001", hour, value)
			done <- err
		}(float64(i))
	}
	for i := 0; i < writers; i++ {
		require.NoError(t, <-done)
	}

	rows, err := db.GetEstimatesByPlantAndRange(ctx, "TR_001", hour, hour.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, rows, 1, "concurrent upserts to one key must not produce two rows")
}
