package model

import "time"

// MonthlyAggregate is one row per calendar month: global sums across all countries.
// Month is the first day of the month in UTC.
type MonthlyAggregate struct {
	Month        time.Time `json:"month"`
	SumConfirmed int64     `json:"sum_confirmed"`
	SumDeaths    int64     `json:"sum_deaths"`
	SumRecovered int64     `json:"sum_recovered"`
}

// ContinentAggregate is the arithmetic mean of a ratio field over one continent.
// SampleSize counts only the rows where the ratio was defined.
type ContinentAggregate struct {
	Continent  string  `json:"continent"`
	Mean       float64 `json:"mean"`
	SampleSize int     `json:"sample_size"`
}

// DailyNewCounts is the global sum of incremental counts for one date.
type DailyNewCounts struct {
	Date      time.Time `json:"date"`
	NewCases  int64     `json:"new_cases"`
	NewDeaths int64     `json:"new_deaths"`
}

// CountryRanking is one row of a top-N ranking.
type CountryRanking struct {
	Country string `json:"country"`
	Value   int64  `json:"value"`
}

// CountryRate is one country's value of a derived ratio, the series behind
// map-style views. Countries where the ratio is undefined are omitted.
type CountryRate struct {
	Country string  `json:"country"`
	Value   float64 `json:"value"`
}

// ScatterPoint is one country in the tests-versus-cases scatter series,
// both axes log10-transformed.
type ScatterPoint struct {
	Country   string  `json:"country"`
	Continent string  `json:"continent"`
	LogTests  float64 `json:"log_tests"`
	LogCases  float64 `json:"log_cases"`
}

// RegressionLine is a least-squares fit over scatter points.
type RegressionLine struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	N         int     `json:"n"`
}
