package model

import (
	"math"
	"time"
)

// RawCountryDay is one time-series row as read from storage, before cleaning.
// The incremental counts are nil when the source left them blank.
type RawCountryDay struct {
	Country      string    `json:"country"`
	Date         time.Time `json:"date"`
	Confirmed    int64     `json:"confirmed"`
	Deaths       int64     `json:"deaths"`
	Recovered    int64     `json:"recovered"`
	NewCases     *int64    `json:"new_cases,omitempty"`
	NewDeaths    *int64    `json:"new_deaths,omitempty"`
	NewRecovered *int64    `json:"new_recovered,omitempty"`
}

// RawCountrySnapshot is one snapshot row as read from storage, before cleaning.
// TotalDeaths/TotalRecovered/TotalTests are nil when the source left them blank.
// WHORegion carries the redundant grouping column so the cleaning stage can
// report it as dropped.
type RawCountrySnapshot struct {
	Country        string `json:"country"`
	Continent      string `json:"continent"`
	WHORegion      string `json:"who_region,omitempty"`
	TotalCases     int64  `json:"total_cases"`
	TotalDeaths    *int64 `json:"total_deaths,omitempty"`
	TotalRecovered *int64 `json:"total_recovered,omitempty"`
	TotalTests     *int64 `json:"total_tests,omitempty"`
}

// CountryDay is a cleaned time-series record: one row per (country, date).
// Cleaning guarantees all counts are present and non-negative.
type CountryDay struct {
	Country      string    `json:"country"`
	Date         time.Time `json:"date"`
	Confirmed    int64     `json:"confirmed"`
	Deaths       int64     `json:"deaths"`
	Recovered    int64     `json:"recovered"`
	NewCases     int64     `json:"new_cases"`
	NewDeaths    int64     `json:"new_deaths"`
	NewRecovered int64     `json:"new_recovered"`
}

// CountrySnapshot is a cleaned per-country snapshot record.
type CountrySnapshot struct {
	Country        string `json:"country"`
	Continent      string `json:"continent"`
	TotalCases     int64  `json:"total_cases"`
	TotalDeaths    int64  `json:"total_deaths"`
	TotalRecovered int64  `json:"total_recovered"`
	TotalTests     int64  `json:"total_tests"`
}

// CaseFatalityRate returns deaths per confirmed case as a percentage.
// Undefined (ok=false) when the country reported no cases.
func (s CountrySnapshot) CaseFatalityRate() (float64, bool) {
	if s.TotalCases == 0 {
		return 0, false
	}
	return float64(s.TotalDeaths) / float64(s.TotalCases) * 100, true
}

// RecoveryRate returns recoveries per confirmed case as a percentage,
// with the same zero-case guard as CaseFatalityRate.
func (s CountrySnapshot) RecoveryRate() (float64, bool) {
	if s.TotalCases == 0 {
		return 0, false
	}
	return float64(s.TotalRecovered) / float64(s.TotalCases) * 100, true
}

// LogTests returns log10(total_tests + 1).
func (s CountrySnapshot) LogTests() float64 {
	return math.Log10(float64(s.TotalTests) + 1)
}

// LogCases returns log10(total_cases + 1).
func (s CountrySnapshot) LogCases() float64 {
	return math.Log10(float64(s.TotalCases) + 1)
}

// RawTimeSeries and RawSnapshot are the loader's output tables.
type (
	RawTimeSeries []RawCountryDay
	RawSnapshot   []RawCountrySnapshot
)

// TimeSeriesTable and SnapshotTable are cleaned tables, read-only once built.
type (
	TimeSeriesTable []CountryDay
	SnapshotTable   []CountrySnapshot
)
