package hours

import (
	"math"
	"time"
)

// Tier boundaries for the fixed regular/overtime/double-time split,
// applied to the net worked duration (wall-clock span minus break).
const (
	regularCapHours  = 8.0
	overtimeCapHours = 12.0
)

// Breakdown is the derived hour set for a closed time entry.
// Total always equals Regular + Overtime + DoubleTime: each tier is
// rounded to 2 decimal places first and Total is the sum of the rounded
// tiers, so the components never drift from the total.
type Breakdown struct {
	Regular     float64
	Overtime    float64
	DoubleTime  float64
	Total       float64
	Billable    float64
	NonBillable float64
}

type Calculator struct{}

func NewCalculator() *Calculator {
	return &Calculator{}
}

// Calculate maps a clock-in/clock-out pair plus break minutes to the hour
// tiers and the billable split. billable is true when the entry has a
// project association. Timezone plays no role here beyond what the
// timestamps already encode.
func (c *Calculator) Calculate(clockIn, clockOut time.Time, breakMinutes int, billable bool) Breakdown {
	net := clockOut.Sub(clockIn).Hours() - float64(breakMinutes)/60.0
	if net < 0 {
		net = 0
	}

	var regular, overtime, doubleTime float64
	switch {
	case net <= regularCapHours:
		regular = net
	case net <= overtimeCapHours:
		regular = regularCapHours
		overtime = net - regularCapHours
	default:
		regular = regularCapHours
		overtime = overtimeCapHours - regularCapHours
		doubleTime = net - overtimeCapHours
	}

	b := Breakdown{
		Regular:    round2(regular),
		Overtime:   round2(overtime),
		DoubleTime: round2(doubleTime),
	}
	b.Total = round2(b.Regular + b.Overtime + b.DoubleTime)
	if billable {
		b.Billable = b.Total
	}
	b.NonBillable = round2(b.Total - b.Billable)
	return b
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
