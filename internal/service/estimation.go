package service

import (
	"math"
	"math/rand"
	"time"
)

// Preparation-time model: a base slot, a per-item slot and a kitchen-load
// penalty, each drawn uniformly from a small range so estimates feel human.
const (
	baseTimeMin = 6.0
	baseTimeMax = 8.0

	perItemMin = 1.0
	perItemMax = 2.0

	loadFactorMin = 1.0
	loadFactorMax = 3.0
)

// Estimate is the preparation forecast returned with a created order.
type Estimate struct {
	EstimatedMinutes        int       `json:"estimated_minutes"`
	EstimatedCompletionTime time.Time `json:"estimated_completion_time"`
}

func randomInRange(min, max float64) float64 {
	return min + rand.Float64()*(max-min)
}

// EstimatePreparation computes the estimated preparation time for an order
// with the given total item quantity while activeOrders are already being
// prepared.
func EstimatePreparation(totalQuantity int, activeOrders int64, now time.Time) Estimate {
	baseTime := randomInRange(baseTimeMin, baseTimeMax)
	itemTime := float64(totalQuantity) * randomInRange(perItemMin, perItemMax)
	loadTime := float64(activeOrders) * randomInRange(loadFactorMin, loadFactorMax)

	minutes := int(math.Round(baseTime + itemTime + loadTime))
	return Estimate{
		EstimatedMinutes:        minutes,
		EstimatedCompletionTime: now.Add(time.Duration(minutes) * time.Minute),
	}
}
