package extract

import (
	"testing"
	"time"

	"conversor/domain/datalogger"

	"github.com/stretchr/testify/assert"
)

func at(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func TestAggregateDailyExtremes(t *testing.T) {
	readings := []datalogger.Reading{
		{Timestamp: at(2024, 1, 1, 8), Temperature: 20.0, Humidity: 50.0},
		{Timestamp: at(2024, 1, 1, 14), Temperature: 25.0, Humidity: 60.0},
		{Timestamp: at(2024, 1, 2, 9), Temperature: 18.0, Humidity: 45.0},
	}

	table := datalogger.NewResultTable(Aggregate(readings))

	assert.Equal(t, datalogger.Columns, table.Columns)
	assert.Equal(t, []datalogger.ResultRow{
		{Date: "01/01/2024", TempMax: 25.0, TempMin: 20.0, HumidityMax: 60.0, HumidityMin: 50.0},
		{Date: "02/01/2024", TempMax: 18.0, TempMin: 18.0, HumidityMax: 45.0, HumidityMin: 45.0},
	}, table.Rows)
}

func TestAggregateSortsDaysAscending(t *testing.T) {
	readings := []datalogger.Reading{
		{Timestamp: at(2024, 3, 1, 0), Temperature: 1, Humidity: 1},
		{Timestamp: at(2023, 12, 31, 23), Temperature: 2, Humidity: 2},
		{Timestamp: at(2024, 1, 15, 12), Temperature: 3, Humidity: 3},
		{Timestamp: at(2023, 12, 31, 1), Temperature: 4, Humidity: 4},
	}

	days := Aggregate(readings)

	assert.Len(t, days, 3)
	assert.Equal(t, at(2023, 12, 31, 0), days[0].Date)
	assert.Equal(t, at(2024, 1, 15, 0), days[1].Date)
	assert.Equal(t, at(2024, 3, 1, 0), days[2].Date)
	assert.Equal(t, 4.0, days[0].TempMax)
	assert.Equal(t, 2.0, days[0].TempMin)
}

func TestAggregateRoundsToTwoDecimals(t *testing.T) {
	readings := []datalogger.Reading{
		{Timestamp: at(2024, 1, 1, 0), Temperature: 21.456, Humidity: 60.004},
		{Timestamp: at(2024, 1, 1, 1), Temperature: -0.125, Humidity: 59.995},
	}

	day := Aggregate(readings)[0]

	assert.Equal(t, 21.46, day.TempMax)
	assert.Equal(t, -0.12, day.TempMin)
	assert.Equal(t, 60.0, day.HumidityMax)
	assert.Equal(t, 60.0, day.HumidityMin)
	assert.LessOrEqual(t, day.TempMin, day.TempMax)
}

func TestRound2HalfToEvenOnScaledValue(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.125, 0.12},
		{-0.125, -0.12},
		{0.375, 0.38},
		{2.675, 2.68},
		{1.005, 1},
		{59.995, 60},
		{21.456, 21.46},
		{-4, -4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, round2(tt.in), "round2(%v)", tt.in)
	}
}

func TestAggregateEmpty(t *testing.T) {
	assert.Empty(t, Aggregate(nil))
}
