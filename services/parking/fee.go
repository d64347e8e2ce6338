package parking

import (
	"math"
	"time"
)

// Tiered parking tariff. The first four hours plus a ten minute grace window
// cost the flat base rate; time beyond that is billed in ten minute blocks,
// the first three blocks at the low rate and every block after at the high
// rate.
const (
	BaseRate           = 40.0
	BaseHours          = 4
	GracePeriodMinutes = 10
	FineRate1          = 5.0
	FineRate2          = 10.0
)

// FeeBreakdown is the result of a fee calculation at exit.
type FeeBreakdown struct {
	BaseAmount      float64 `json:"baseAmount"`
	FineAmount      float64 `json:"fineAmount"`
	TotalAmount     float64 `json:"totalAmount"`
	DurationMinutes int     `json:"durationMinutes"`
	OverageMinutes  int     `json:"overageMinutes"`
}

// CalculateFee maps an entry/exit time pair to a fee. Pure and deterministic:
// identical inputs always yield identical output. Duration is rounded up to
// the next whole minute before any tier is applied.
func CalculateFee(entryTime, exitTime time.Time) (FeeBreakdown, error) {
	if exitTime.Before(entryTime) {
		return FeeBreakdown{}, &ValidationError{Field: "exitTime", Reason: "before entry time"}
	}

	totalMinutes := int(math.Ceil(float64(exitTime.Sub(entryTime).Milliseconds()) / 60000.0))
	baseMinutes := BaseHours * 60

	if totalMinutes <= baseMinutes+GracePeriodMinutes {
		return FeeBreakdown{
			BaseAmount:      BaseRate,
			FineAmount:      0,
			TotalAmount:     BaseRate,
			DurationMinutes: totalMinutes,
			OverageMinutes:  0,
		}, nil
	}

	// Overage is measured from the end of the grace window, not the end of
	// the base period.
	overageMinutes := totalMinutes - baseMinutes - GracePeriodMinutes

	var fineAmount float64
	if overageMinutes <= 30 {
		fineAmount = math.Ceil(float64(overageMinutes)/10.0) * FineRate1
	} else {
		// The first 30 overage minutes are always billed as three full
		// low-rate blocks, however the boundary was crossed.
		fineAmount = 3*FineRate1 + math.Ceil(float64(overageMinutes-30)/10.0)*FineRate2
	}

	return FeeBreakdown{
		BaseAmount:      BaseRate,
		FineAmount:      fineAmount,
		TotalAmount:     BaseRate + fineAmount,
		DurationMinutes: totalMinutes,
		OverageMinutes:  overageMinutes,
	}, nil
}
