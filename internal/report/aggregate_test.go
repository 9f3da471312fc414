package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"covid-report/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMonthlyGlobalTrendSumsAcrossCountries(t *testing.T) {
	ts := model.TimeSeriesTable{
		{Country: "Freedonia", Date: day(2020, 1, 15), Confirmed: 100, Deaths: 5, Recovered: 10},
		{Country: "Sylvania", Date: day(2020, 1, 20), Confirmed: 100, Deaths: 3, Recovered: 20},
		{Country: "Osterlich", Date: day(2020, 1, 31), Confirmed: 100, Deaths: 2, Recovered: 30},
		{Country: "Freedonia", Date: day(2020, 2, 1), Confirmed: 150, Deaths: 8, Recovered: 40},
	}

	monthly := MonthlyGlobalTrend(ts)

	require.Len(t, monthly, 2)
	assert.Equal(t, day(2020, 1, 1), monthly[0].Month)
	assert.Equal(t, int64(300), monthly[0].SumConfirmed)
	assert.Equal(t, int64(10), monthly[0].SumDeaths)
	assert.Equal(t, int64(60), monthly[0].SumRecovered)
	assert.Equal(t, day(2020, 2, 1), monthly[1].Month)
	assert.Equal(t, int64(150), monthly[1].SumConfirmed)
}

func TestMonthlyGlobalTrendSortedNoDuplicates(t *testing.T) {
	ts := model.TimeSeriesTable{
		{Country: "A", Date: day(2020, 3, 1), Confirmed: 1},
		{Country: "A", Date: day(2020, 1, 1), Confirmed: 1},
		{Country: "A", Date: day(2020, 2, 1), Confirmed: 1},
		{Country: "B", Date: day(2020, 1, 20), Confirmed: 1},
	}

	monthly := MonthlyGlobalTrend(ts)

	require.Len(t, monthly, 3)
	seen := map[time.Time]bool{}
	for i, m := range monthly {
		assert.False(t, seen[m.Month], "duplicate month %v", m.Month)
		seen[m.Month] = true
		if i > 0 {
			assert.True(t, monthly[i-1].Month.Before(m.Month), "months not ascending")
		}
	}
}

func TestMonthlyGlobalTrendEmpty(t *testing.T) {
	assert.Empty(t, MonthlyGlobalTrend(nil))
}

func TestTopNDescendingAndBounded(t *testing.T) {
	snap := model.SnapshotTable{
		{Country: "A", TotalCases: 10},
		{Country: "B", TotalCases: 50},
		{Country: "C", TotalCases: 30},
		{Country: "D", TotalCases: 20},
	}

	top := TopN(snap, TotalCases, 2)

	require.Len(t, top, 2)
	assert.Equal(t, "B", top[0].Country)
	assert.Equal(t, "C", top[1].Country)

	// Every returned value is >= every value left out.
	assert.GreaterOrEqual(t, top[1].Value, int64(20))
}

func TestTopNStableTieBreak(t *testing.T) {
	snap := model.SnapshotTable{
		{Country: "First", TotalDeaths: 7},
		{Country: "Second", TotalDeaths: 7},
		{Country: "Third", TotalDeaths: 9},
	}

	top := TopN(snap, TotalDeaths, 3)

	require.Len(t, top, 3)
	assert.Equal(t, "Third", top[0].Country)
	assert.Equal(t, "First", top[1].Country)
	assert.Equal(t, "Second", top[2].Country)
}

func TestTopNSmallerTable(t *testing.T) {
	snap := model.SnapshotTable{{Country: "A", TotalCases: 1}}
	assert.Len(t, TopN(snap, TotalCases, 10), 1)
	assert.Empty(t, TopN(nil, TotalCases, 10))
}

func TestContinentMeanExcludesUndefinedRatios(t *testing.T) {
	snap := model.SnapshotTable{
		{Country: "NoCases", Continent: "A", TotalCases: 0, TotalDeaths: 5},
		{Country: "SomeCases", Continent: "A", TotalCases: 100, TotalDeaths: 10},
	}

	means := ContinentMean(snap, CaseFatality)

	require.Len(t, means, 1)
	assert.Equal(t, "A", means[0].Continent)
	assert.InDelta(t, 10.0, means[0].Mean, 1e-9)
	assert.Equal(t, 1, means[0].SampleSize)
}

func TestContinentMeanOrderedDescending(t *testing.T) {
	snap := model.SnapshotTable{
		{Country: "A1", Continent: "Low", TotalCases: 100, TotalRecovered: 10},
		{Country: "B1", Continent: "High", TotalCases: 100, TotalRecovered: 90},
		{Country: "B2", Continent: "High", TotalCases: 100, TotalRecovered: 70},
	}

	means := ContinentMean(snap, Recovery)

	require.Len(t, means, 2)
	assert.Equal(t, "High", means[0].Continent)
	assert.InDelta(t, 80.0, means[0].Mean, 1e-9)
	assert.Equal(t, "Low", means[1].Continent)
}

func TestContinentMeanAllUndefined(t *testing.T) {
	snap := model.SnapshotTable{
		{Country: "NoCases", Continent: "A", TotalCases: 0},
	}
	assert.Empty(t, ContinentMean(snap, CaseFatality))
}

func TestCountryRatioOmitsUndefined(t *testing.T) {
	snap := model.SnapshotTable{
		{Country: "Freedonia", TotalCases: 200, TotalDeaths: 10},
		{Country: "NoCases", TotalCases: 0, TotalDeaths: 5},
		{Country: "Sylvania", TotalCases: 100, TotalDeaths: 1},
	}

	rates := CountryRatio(snap, CaseFatality)

	require.Len(t, rates, 2)
	assert.Equal(t, "Freedonia", rates[0].Country)
	assert.InDelta(t, 5.0, rates[0].Value, 1e-9)
	assert.Equal(t, "Sylvania", rates[1].Country)
	assert.InDelta(t, 1.0, rates[1].Value, 1e-9)
}

func TestDailyGlobalNewCountsSums(t *testing.T) {
	ts := model.TimeSeriesTable{
		{Country: "A", Date: day(2020, 4, 2), NewCases: 5, NewDeaths: 1},
		{Country: "B", Date: day(2020, 4, 1), NewCases: 3, NewDeaths: 0},
		{Country: "A", Date: day(2020, 4, 1), NewCases: 2, NewDeaths: 1},
	}

	daily := DailyGlobalNewCounts(ts)

	require.Len(t, daily, 2)
	assert.Equal(t, day(2020, 4, 1), daily[0].Date)
	assert.Equal(t, int64(5), daily[0].NewCases)
	assert.Equal(t, int64(1), daily[0].NewDeaths)
	assert.Equal(t, day(2020, 4, 2), daily[1].Date)
	assert.Equal(t, int64(5), daily[1].NewCases)
}

func TestLogTransformMonotonic(t *testing.T) {
	snap := model.SnapshotTable{
		{Country: "A", TotalTests: 0},
		{Country: "B", TotalTests: 9},
		{Country: "C", TotalTests: 99},
		{Country: "D", TotalTests: 999},
	}

	values := LogTransform(snap, TotalTests)

	require.Len(t, values, 4)
	assert.InDelta(t, 0.0, values[0], 1e-9)
	assert.InDelta(t, 1.0, values[1], 1e-9)
	for i := 1; i < len(values); i++ {
		assert.GreaterOrEqual(t, values[i], values[i-1])
	}
}

func TestFitLineKnownSlope(t *testing.T) {
	points := []model.ScatterPoint{
		{LogTests: 1, LogCases: 3},
		{LogTests: 2, LogCases: 5},
		{LogTests: 3, LogCases: 7},
	}

	fit, ok := FitLine(points)

	require.True(t, ok)
	assert.InDelta(t, 2.0, fit.Slope, 1e-9)
	assert.InDelta(t, 1.0, fit.Intercept, 1e-9)
	assert.Equal(t, 3, fit.N)
}

func TestFitLineDegenerate(t *testing.T) {
	_, ok := FitLine(nil)
	assert.False(t, ok)

	_, ok = FitLine([]model.ScatterPoint{{LogTests: 1, LogCases: 1}})
	assert.False(t, ok)

	// No spread on the x axis.
	_, ok = FitLine([]model.ScatterPoint{
		{LogTests: 2, LogCases: 1},
		{LogTests: 2, LogCases: 5},
	})
	assert.False(t, ok)
}

func TestTestsVersusCasesKeepsTableOrder(t *testing.T) {
	snap := model.SnapshotTable{
		{Country: "A", Continent: "Asia", TotalCases: 99, TotalTests: 999},
		{Country: "B", Continent: "Europe", TotalCases: 9, TotalTests: 99},
	}

	points := TestsVersusCases(snap)

	require.Len(t, points, 2)
	assert.Equal(t, "A", points[0].Country)
	assert.InDelta(t, 3.0, points[0].LogTests, 1e-9)
	assert.InDelta(t, 2.0, points[0].LogCases, 1e-9)
	assert.Equal(t, "Europe", points[1].Continent)
}
