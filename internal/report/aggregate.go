// Package report derives the aggregate tables and assembles view payloads
// from the cleaned datasets.
package report

import (
	"math"
	"sort"
	"time"

	"github.com/samber/lo"

	"covid-report/internal/model"
)

// CountField selects one of the snapshot count columns.
type CountField int

const (
	TotalCases CountField = iota
	TotalDeaths
	TotalRecovered
	TotalTests
)

func (f CountField) String() string {
	switch f {
	case TotalCases:
		return "total_cases"
	case TotalDeaths:
		return "total_deaths"
	case TotalRecovered:
		return "total_recovered"
	case TotalTests:
		return "total_tests"
	}
	return "unknown"
}

func (f CountField) of(s model.CountrySnapshot) int64 {
	switch f {
	case TotalCases:
		return s.TotalCases
	case TotalDeaths:
		return s.TotalDeaths
	case TotalRecovered:
		return s.TotalRecovered
	case TotalTests:
		return s.TotalTests
	}
	return 0
}

// RatioField selects one of the derived ratio columns. Both are undefined for
// rows with zero confirmed cases.
type RatioField int

const (
	CaseFatality RatioField = iota
	Recovery
)

func (f RatioField) String() string {
	if f == Recovery {
		return "recovery_rate"
	}
	return "case_fatality_rate"
}

func (f RatioField) of(s model.CountrySnapshot) (float64, bool) {
	if f == Recovery {
		return s.RecoveryRate()
	}
	return s.CaseFatalityRate()
}

// MonthlyGlobalTrend groups the time series by calendar month and sums the
// cumulative counts across all countries, ordered ascending by month.
func MonthlyGlobalTrend(ts model.TimeSeriesTable) []model.MonthlyAggregate {
	groups := lo.GroupBy(ts, func(r model.CountryDay) time.Time {
		return monthOf(r.Date)
	})

	months := lo.Keys(groups)
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	out := make([]model.MonthlyAggregate, 0, len(months))
	for _, month := range months {
		rows := groups[month]
		out = append(out, model.MonthlyAggregate{
			Month:        month,
			SumConfirmed: lo.SumBy(rows, func(r model.CountryDay) int64 { return r.Confirmed }),
			SumDeaths:    lo.SumBy(rows, func(r model.CountryDay) int64 { return r.Deaths }),
			SumRecovered: lo.SumBy(rows, func(r model.CountryDay) int64 { return r.Recovered }),
		})
	}
	return out
}

func monthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// TopN returns the n rows with the largest value of field, descending.
// Ties keep the original row order; fewer than n rows come back only when the
// table is smaller than n.
func TopN(snap model.SnapshotTable, field CountField, n int) []model.CountryRanking {
	ranked := make([]model.CountryRanking, 0, len(snap))
	for _, row := range snap {
		ranked = append(ranked, model.CountryRanking{Country: row.Country, Value: field.of(row)})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Value > ranked[j].Value })
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// ContinentMean groups the snapshot by continent and averages the ratio field,
// skipping rows where the ratio is undefined. Ordered descending by mean.
func ContinentMean(snap model.SnapshotTable, ratio RatioField) []model.ContinentAggregate {
	groups := lo.GroupBy(snap, func(r model.CountrySnapshot) string { return r.Continent })

	out := make([]model.ContinentAggregate, 0, len(groups))
	for continent, rows := range groups {
		var sum float64
		var n int
		for _, row := range rows {
			if v, ok := ratio.of(row); ok {
				sum += v
				n++
			}
		}
		if n == 0 {
			continue
		}
		out = append(out, model.ContinentAggregate{
			Continent:  continent,
			Mean:       sum / float64(n),
			SampleSize: n,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Mean != out[j].Mean {
			return out[i].Mean > out[j].Mean
		}
		return out[i].Continent < out[j].Continent
	})
	return out
}

// CountryRatio returns each country's value of a ratio field in table order,
// omitting countries where the ratio is undefined.
func CountryRatio(snap model.SnapshotTable, ratio RatioField) []model.CountryRate {
	out := make([]model.CountryRate, 0, len(snap))
	for _, row := range snap {
		if v, ok := ratio.of(row); ok {
			out = append(out, model.CountryRate{Country: row.Country, Value: v})
		}
	}
	return out
}

// DailyGlobalNewCounts groups the time series by exact date and sums the
// incremental counts across all countries, ordered ascending by date.
func DailyGlobalNewCounts(ts model.TimeSeriesTable) []model.DailyNewCounts {
	groups := lo.GroupBy(ts, func(r model.CountryDay) time.Time { return r.Date })

	dates := lo.Keys(groups)
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	out := make([]model.DailyNewCounts, 0, len(dates))
	for _, date := range dates {
		rows := groups[date]
		out = append(out, model.DailyNewCounts{
			Date:      date,
			NewCases:  lo.SumBy(rows, func(r model.CountryDay) int64 { return r.NewCases }),
			NewDeaths: lo.SumBy(rows, func(r model.CountryDay) int64 { return r.NewDeaths }),
		})
	}
	return out
}

// LogTransform maps each row's count to log10(v + 1), in table order.
// Cleaning guarantees v >= 0.
func LogTransform(snap model.SnapshotTable, field CountField) []float64 {
	return lo.Map(snap, func(row model.CountrySnapshot, _ int) float64 {
		return math.Log10(float64(field.of(row)) + 1)
	})
}

// TestsVersusCases builds the per-country scatter series of log-scaled tests
// against log-scaled cases, labeled by continent.
func TestsVersusCases(snap model.SnapshotTable) []model.ScatterPoint {
	return lo.Map(snap, func(row model.CountrySnapshot, _ int) model.ScatterPoint {
		return model.ScatterPoint{
			Country:   row.Country,
			Continent: row.Continent,
			LogTests:  row.LogTests(),
			LogCases:  row.LogCases(),
		}
	})
}

// FitLine computes the least-squares regression of LogCases on LogTests.
// ok is false when there are fewer than two points or no spread on the x axis.
func FitLine(points []model.ScatterPoint) (model.RegressionLine, bool) {
	n := len(points)
	if n < 2 {
		return model.RegressionLine{}, false
	}

	var sumX, sumY, sumXX, sumXY float64
	for _, p := range points {
		sumX += p.LogTests
		sumY += p.LogCases
		sumXX += p.LogTests * p.LogTests
		sumXY += p.LogTests * p.LogCases
	}

	fn := float64(n)
	denom := fn*sumXX - sumX*sumX
	if denom == 0 {
		return model.RegressionLine{}, false
	}

	slope := (fn*sumXY - sumX*sumY) / denom
	return model.RegressionLine{
		Slope:     slope,
		Intercept: (sumY - slope*sumX) / fn,
		N:         n,
	}, true
}
