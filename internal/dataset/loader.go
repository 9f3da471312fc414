// Package dataset loads the two source snapshots and applies the cleaning
// rules that make them safe to aggregate.
package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"covid-report/internal/logging"
	"covid-report/internal/model"
	"covid-report/pkg/utils"
)

// Loader reads the time-series and snapshot CSVs into typed tables.
// The first successful load is memoized; concurrent first access is collapsed
// into a single read through a singleflight group. Tables handed out are
// shared and must be treated as read-only.
type Loader struct {
	timeSeriesPath string
	snapshotPath   string

	group  singleflight.Group
	mu     sync.RWMutex
	ts     model.RawTimeSeries
	snap   model.RawSnapshot
	loaded bool
	gen    uint64
}

// loadResult carries one generation's tables out of the singleflight group.
type loadResult struct {
	ts   model.RawTimeSeries
	snap model.RawSnapshot
}

// NewLoader creates a loader for the two configured source files.
func NewLoader(timeSeriesPath, snapshotPath string) *Loader {
	return &Loader{
		timeSeriesPath: timeSeriesPath,
		snapshotPath:   snapshotPath,
	}
}

// Load returns both raw tables, reading storage at most once per process
// lifetime. Fails with model.ErrDataUnavailable if either source cannot be
// read or lacks a required column.
func (l *Loader) Load(ctx context.Context) (model.RawTimeSeries, model.RawSnapshot, error) {
	l.mu.RLock()
	if l.loaded {
		ts, snap := l.ts, l.snap
		l.mu.RUnlock()
		return ts, snap, nil
	}
	gen := l.gen
	l.mu.RUnlock()

	// The generation number keys the flight: a Reload bumps it, so callers
	// that invalidated the cache never join a read started before then.
	v, err, _ := l.group.Do(strconv.FormatUint(gen, 10), func() (interface{}, error) {
		ts, snap, err := l.read(ctx)
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		if l.gen == gen {
			l.ts, l.snap, l.loaded = ts, snap, true
		}
		l.mu.Unlock()
		return loadResult{ts: ts, snap: snap}, nil
	})
	if err != nil {
		return nil, nil, err
	}
	result := v.(loadResult)
	return result.ts, result.snap, nil
}

// Reload discards the memoized tables and reads storage again.
func (l *Loader) Reload(ctx context.Context) (model.RawTimeSeries, model.RawSnapshot, error) {
	l.mu.Lock()
	l.loaded = false
	l.gen++
	l.mu.Unlock()
	return l.Load(ctx)
}

// read reads both files in parallel, one goroutine per source.
func (l *Loader) read(ctx context.Context) (model.RawTimeSeries, model.RawSnapshot, error) {
	var (
		ts   model.RawTimeSeries
		snap model.RawSnapshot
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ts, err = readTimeSeries(ctx, l.timeSeriesPath)
		return err
	})
	g.Go(func() error {
		var err error
		snap, err = readSnapshot(ctx, l.snapshotPath)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	logging.Info().
		Int("time_series_rows", len(ts)).
		Int("snapshot_rows", len(snap)).
		Msg("datasets loaded")
	return ts, snap, nil
}

// columnIndex maps cleaned header names to their positions.
type columnIndex map[string]int

// require returns the index of the first present alternative name.
func (c columnIndex) require(names ...string) (int, error) {
	for _, name := range names {
		if i, ok := c[name]; ok {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: missing required column %q", model.ErrDataUnavailable, names[0])
}

func readHeader(r *csv.Reader, path string) (columnIndex, error) {
	headers, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading header of %s: %v", model.ErrDataUnavailable, path, err)
	}
	cols := make(columnIndex, len(headers))
	for i, h := range headers {
		cols[utils.CleanHeader(h)] = i
	}
	return cols, nil
}

func cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return record[i]
}

func readTimeSeries(ctx context.Context, path string) (model.RawTimeSeries, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", model.ErrDataUnavailable, path, err)
	}
	defer file.Close()

	csvReader := csv.NewReader(file)
	csvReader.LazyQuotes = true

	cols, err := readHeader(csvReader, path)
	if err != nil {
		return nil, err
	}

	var idx struct{ country, date, confirmed, deaths, recovered, newCases, newDeaths, newRecovered int }
	for _, col := range []struct {
		dst   *int
		names []string
	}{
		{&idx.country, []string{"Country/Region", "Country"}},
		{&idx.date, []string{"Date"}},
		{&idx.confirmed, []string{"Confirmed"}},
		{&idx.deaths, []string{"Deaths"}},
		{&idx.recovered, []string{"Recovered"}},
		{&idx.newCases, []string{"New cases", "NewCases"}},
		{&idx.newDeaths, []string{"New deaths", "NewDeaths"}},
		{&idx.newRecovered, []string{"New recovered", "NewRecovered"}},
	} {
		if *col.dst, err = cols.require(col.names...); err != nil {
			return nil, err
		}
	}

	var rows model.RawTimeSeries
	for line := 2; ; line++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		record, err := csvReader.Read()
		if err == io.EOF {
			return rows, nil
		} else if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", model.ErrDataUnavailable, path, line, err)
		}

		date, err := utils.ParseDate(cell(record, idx.date))
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: bad date %q", model.ErrDataUnavailable, path, line, cell(record, idx.date))
		}

		confirmed, _ := utils.ParseCount(cell(record, idx.confirmed))
		deaths, _ := utils.ParseCount(cell(record, idx.deaths))
		recovered, _ := utils.ParseCount(cell(record, idx.recovered))

		rows = append(rows, model.RawCountryDay{
			Country:      utils.CleanHeader(cell(record, idx.country)),
			Date:         date,
			Confirmed:    confirmed,
			Deaths:       deaths,
			Recovered:    recovered,
			NewCases:     utils.ParseOptionalCount(cell(record, idx.newCases)),
			NewDeaths:    utils.ParseOptionalCount(cell(record, idx.newDeaths)),
			NewRecovered: utils.ParseOptionalCount(cell(record, idx.newRecovered)),
		})
	}
}

func readSnapshot(ctx context.Context, path string) (model.RawSnapshot, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", model.ErrDataUnavailable, path, err)
	}
	defer file.Close()

	csvReader := csv.NewReader(file)
	csvReader.LazyQuotes = true

	cols, err := readHeader(csvReader, path)
	if err != nil {
		return nil, err
	}

	var idx struct{ country, continent, cases, deaths, recovered, tests int }
	for _, col := range []struct {
		dst   *int
		names []string
	}{
		{&idx.country, []string{"Country/Region", "Country"}},
		{&idx.continent, []string{"Continent"}},
		{&idx.cases, []string{"TotalCases"}},
		{&idx.deaths, []string{"TotalDeaths"}},
		{&idx.recovered, []string{"TotalRecovered"}},
		{&idx.tests, []string{"TotalTests"}},
	} {
		if *col.dst, err = cols.require(col.names...); err != nil {
			return nil, err
		}
	}
	// Redundant grouping column, kept raw so cleaning can report dropping it.
	whoRegion, hasWHORegion := cols["WHO Region"]

	var rows model.RawSnapshot
	for line := 2; ; line++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		record, err := csvReader.Read()
		if err == io.EOF {
			return rows, nil
		} else if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", model.ErrDataUnavailable, path, line, err)
		}

		cases, _ := utils.ParseCount(cell(record, idx.cases))
		row := model.RawCountrySnapshot{
			Country:        utils.CleanHeader(cell(record, idx.country)),
			Continent:      utils.CleanHeader(cell(record, idx.continent)),
			TotalCases:     cases,
			TotalDeaths:    utils.ParseOptionalCount(cell(record, idx.deaths)),
			TotalRecovered: utils.ParseOptionalCount(cell(record, idx.recovered)),
			TotalTests:     utils.ParseOptionalCount(cell(record, idx.tests)),
		}
		if hasWHORegion {
			row.WHORegion = utils.CleanHeader(cell(record, whoRegion))
		}
		rows = append(rows, row)
	}
}
