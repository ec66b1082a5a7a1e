package position

import (
	"math"
	"time"

	"github.com/samber/lo"

	"github.com/anicoll/forecast-service/internal/pkg/model"
)

// Aggregate folds a range of estimates into the company position for
// [from, to). Pure function of its inputs: no hidden state, safe to call
// concurrently.
//
// Every location known to the registry gets an entry, zeroed when nothing in
// range matched it. An estimate whose plant is missing from the registry
// still counts towards the total but is left out of the per-location
// breakdown. The total is rounded to 2 decimals, per-location sums are not.
func Aggregate(estimates model.ForecastEstimates, plants model.PowerPlants, from, to time.Time) model.PositionReport {
	locationByPlant := lo.Associate(plants, func(plant model.PowerPlant) (string, string) {
		return plant.PlantID, plant.Location
	})

	byLocation := make(map[string]float64, len(plants))
	for _, location := range lo.Values(locationByPlant) {
		byLocation[location] = 0.0
	}

	totalMWh := 0.0
	for _, estimate := range estimates {
		totalMWh += estimate.EstimatedProductionMWh

		location, known := locationByPlant[estimate.PlantID]
		if !known {
			continue
		}
		byLocation[location] += estimate.EstimatedProductionMWh
	}

	return model.PositionReport{
		StartDate:        from,
		EndDate:          to,
		TotalForecastMWh: round2(totalMWh),
		ByLocation:       byLocation,
	}
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
