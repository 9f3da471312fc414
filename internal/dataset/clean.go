package dataset

import (
	"fmt"
	"strconv"

	"github.com/samber/lo"

	"covid-report/internal/logging"
	"covid-report/internal/model"
)

// excludedEntries lists named non-country rows (cruise ships) present in the
// source snapshots.
var excludedEntries = []string{
	"Diamond Princess",
	"MS Zaandam",
}

// whoRegionColumn is the redundant grouping column dropped from the snapshot
// table; the Continent column already classifies regions.
const whoRegionColumn = "WHO Region"

// Clean applies the fixed cleaning rules, in order:
//
//  1. drop snapshot rows with any negative total,
//  2. drop snapshot rows on the non-country exclusion list,
//  3. drop snapshot rows missing deaths, tests or recovered,
//  4. zero-fill missing (or negative) incremental counts in the time series,
//  5. drop the redundant WHO Region grouping column.
//
// Time-series rows with negative cumulative counts are dropped as well, and
// excluded entries are removed from both tables. Inputs are not mutated; the
// report records what every rule did.
func Clean(ts model.RawTimeSeries, snap model.RawSnapshot) (model.TimeSeriesTable, model.SnapshotTable, model.CleaningReport) {
	report := model.CleaningReport{
		SnapshotRowsIn:          len(snap),
		TimeSeriesRowsIn:        len(ts),
		DuplicateSnapshotRows:   duplicateRows(lo.Map(snap, func(r model.RawCountrySnapshot, _ int) string { return snapshotKey(r) })),
		DuplicateTimeSeriesRows: duplicateRows(lo.Map(ts, func(r model.RawCountryDay, _ int) string { return dayKey(r) })),
	}

	cleanSnap := make(model.SnapshotTable, 0, len(snap))
	for _, row := range snap {
		if row.TotalCases < 0 ||
			(row.TotalDeaths != nil && *row.TotalDeaths < 0) ||
			(row.TotalRecovered != nil && *row.TotalRecovered < 0) ||
			(row.TotalTests != nil && *row.TotalTests < 0) {
			report.DroppedNegative++
			continue
		}
		if lo.Contains(excludedEntries, row.Country) {
			report.DroppedExcluded++
			continue
		}
		if row.TotalDeaths == nil || row.TotalTests == nil || row.TotalRecovered == nil {
			report.DroppedMissing++
			continue
		}
		if row.WHORegion != "" && !lo.Contains(report.DroppedColumns, whoRegionColumn) {
			report.DroppedColumns = append(report.DroppedColumns, whoRegionColumn)
		}
		cleanSnap = append(cleanSnap, model.CountrySnapshot{
			Country:        row.Country,
			Continent:      row.Continent,
			TotalCases:     row.TotalCases,
			TotalDeaths:    *row.TotalDeaths,
			TotalRecovered: *row.TotalRecovered,
			TotalTests:     *row.TotalTests,
		})
	}

	cleanTS := make(model.TimeSeriesTable, 0, len(ts))
	for _, row := range ts {
		if row.Confirmed < 0 || row.Deaths < 0 || row.Recovered < 0 {
			report.DroppedNegativeCumulative++
			continue
		}
		if lo.Contains(excludedEntries, row.Country) {
			report.DroppedExcluded++
			continue
		}
		cleanTS = append(cleanTS, model.CountryDay{
			Country:      row.Country,
			Date:         row.Date,
			Confirmed:    row.Confirmed,
			Deaths:       row.Deaths,
			Recovered:    row.Recovered,
			NewCases:     zeroFill(row.NewCases, &report),
			NewDeaths:    zeroFill(row.NewDeaths, &report),
			NewRecovered: zeroFill(row.NewRecovered, &report),
		})
	}

	report.SnapshotRowsOut = len(cleanSnap)
	report.TimeSeriesRowsOut = len(cleanTS)

	logging.Info().
		Int("snapshot_dropped", report.SnapshotRowsIn-report.SnapshotRowsOut).
		Int("time_series_dropped", report.TimeSeriesRowsIn-report.TimeSeriesRowsOut).
		Int("zero_filled", report.ZeroFilledIncrements).
		Msg("cleaning complete")
	return cleanTS, cleanSnap, report
}

// duplicateRows counts every non-first occurrence of a row key.
func duplicateRows(keys []string) int {
	seen := make(map[string]bool, len(keys))
	dups := 0
	for _, key := range keys {
		if seen[key] {
			dups++
		}
		seen[key] = true
	}
	return dups
}

func snapshotKey(r model.RawCountrySnapshot) string {
	return fmt.Sprintf("%s|%s|%s|%d|%s|%s|%s",
		r.Country, r.Continent, r.WHORegion, r.TotalCases,
		optKey(r.TotalDeaths), optKey(r.TotalRecovered), optKey(r.TotalTests))
}

func dayKey(r model.RawCountryDay) string {
	return fmt.Sprintf("%s|%s|%d|%d|%d|%s|%s|%s",
		r.Country, r.Date.Format("2006-01-02"), r.Confirmed, r.Deaths, r.Recovered,
		optKey(r.NewCases), optKey(r.NewDeaths), optKey(r.NewRecovered))
}

func optKey(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

// zeroFill treats a missing incremental count as "no change reported".
// Negative increments (reporting corrections) are clamped the same way so the
// cleaned table carries no negative values.
func zeroFill(v *int64, report *model.CleaningReport) int64 {
	if v == nil || *v < 0 {
		report.ZeroFilledIncrements++
		return 0
	}
	return *v
}
