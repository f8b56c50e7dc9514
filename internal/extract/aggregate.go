package extract

import (
	"math"
	"sort"
	"time"

	"conversor/domain/datalogger"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
)

type dayBucket struct {
	temps  stats.Float64Data
	humids stats.Float64Data
}

// Aggregate groups readings by calendar day and returns one row per day,
// ascending by date, with every extreme rounded to two decimals.
func Aggregate(readings []datalogger.Reading) []datalogger.DailyAggregate {
	buckets := make(map[time.Time]*dayBucket)
	for _, r := range readings {
		y, m, d := r.Timestamp.Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		b, ok := buckets[day]
		if !ok {
			b = &dayBucket{}
			buckets[day] = b
		}
		b.temps = append(b.temps, r.Temperature)
		b.humids = append(b.humids, r.Humidity)
	}

	days := make([]time.Time, 0, len(buckets))
	for day := range buckets {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	out := make([]datalogger.DailyAggregate, len(days))
	for i, day := range days {
		b := buckets[day]
		tMax, _ := b.temps.Max()
		tMin, _ := b.temps.Min()
		hMax, _ := b.humids.Max()
		hMin, _ := b.humids.Min()
		out[i] = datalogger.DailyAggregate{
			Date:        day,
			TempMax:     round2(tMax),
			TempMin:     round2(tMin),
			HumidityMax: round2(hMax),
			HumidityMin: round2(hMin),
		}
	}
	return out
}

// round2 rounds the way numpy does: scale by 100 in floating point, round
// half to even, scale back. 0.125 becomes 0.12 while 2.675 becomes 2.68,
// since 2.675*100 is exactly 267.5.
func round2(v float64) float64 {
	scaled := v * 100
	if math.IsInf(scaled, 0) || math.IsNaN(scaled) {
		return v
	}
	f, _ := decimal.NewFromFloat(math.RoundToEven(scaled)).Shift(-2).Float64()
	return f
}
