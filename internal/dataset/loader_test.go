package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"covid-report/internal/model"
)

const timeSeriesFixture = `Date,Country/Region,Confirmed,Deaths,Recovered,Active,New cases,New deaths,New recovered,WHO Region
2020-01-22,Afghanistan,100,5,10,85,10,1,2,Eastern Mediterranean
2020-01-22,Albania,50,2,5,43,,,"",Europe
2020-01-23,Afghanistan,110,6,12,92,10,1,2,Eastern Mediterranean
`

const snapshotFixture = `Country/Region,Continent,Population,TotalCases,TotalDeaths,TotalRecovered,TotalTests,WHO Region
USA,North America,331000000,5000000,160000,2500000,60000000,Americas
Yemen,Asia,29825964,1760,506,862,,EasternMediterranean
`

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newFixtureLoader(t *testing.T) *Loader {
	t.Helper()
	dir := t.TempDir()
	return NewLoader(
		writeFixture(t, dir, "full_grouped.csv", timeSeriesFixture),
		writeFixture(t, dir, "worldometer_data.csv", snapshotFixture),
	)
}

func TestLoadReadsBothTables(t *testing.T) {
	loader := newFixtureLoader(t)

	ts, snap, err := loader.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, ts, 3)
	assert.Equal(t, "Afghanistan", ts[0].Country)
	assert.Equal(t, int64(100), ts[0].Confirmed)
	assert.Equal(t, int64(5), ts[0].Deaths)
	require.NotNil(t, ts[0].NewCases)
	assert.Equal(t, int64(10), *ts[0].NewCases)
	assert.Equal(t, "2020-01-22", ts[0].Date.Format("2006-01-02"))

	// Blank incremental cells stay nil until cleaning zero-fills them.
	assert.Nil(t, ts[1].NewCases)
	assert.Nil(t, ts[1].NewDeaths)
	assert.Nil(t, ts[1].NewRecovered)

	require.Len(t, snap, 2)
	assert.Equal(t, "USA", snap[0].Country)
	assert.Equal(t, "North America", snap[0].Continent)
	assert.Equal(t, int64(5000000), snap[0].TotalCases)
	require.NotNil(t, snap[0].TotalTests)
	assert.Equal(t, int64(60000000), *snap[0].TotalTests)
	assert.Nil(t, snap[1].TotalTests)
	assert.Equal(t, "Americas", snap[0].WHORegion)
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader(
		filepath.Join(dir, "nope.csv"),
		writeFixture(t, dir, "worldometer_data.csv", snapshotFixture),
	)

	_, _, err := loader.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrDataUnavailable)
}

func TestLoadMissingRequiredColumn(t *testing.T) {
	dir := t.TempDir()
	noContinent := `Country/Region,TotalCases,TotalDeaths,TotalRecovered,TotalTests
USA,5000000,160000,2500000,60000000
`
	loader := NewLoader(
		writeFixture(t, dir, "full_grouped.csv", timeSeriesFixture),
		writeFixture(t, dir, "worldometer_data.csv", noContinent),
	)

	_, _, err := loader.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrDataUnavailable)
}

func TestLoadMalformedDate(t *testing.T) {
	dir := t.TempDir()
	badDate := `Date,Country/Region,Confirmed,Deaths,Recovered,New cases,New deaths,New recovered
not-a-date,Afghanistan,100,5,10,10,1,2
`
	loader := NewLoader(
		writeFixture(t, dir, "full_grouped.csv", badDate),
		writeFixture(t, dir, "worldometer_data.csv", snapshotFixture),
	)

	_, _, err := loader.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrDataUnavailable)
}

func TestLoadMemoizes(t *testing.T) {
	dir := t.TempDir()
	tsPath := writeFixture(t, dir, "full_grouped.csv", timeSeriesFixture)
	loader := NewLoader(tsPath, writeFixture(t, dir, "worldometer_data.csv", snapshotFixture))

	ts, _, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, ts, 3)

	// Rewriting the backing file must not affect a memoized loader.
	extra := timeSeriesFixture + "2020-01-24,Afghanistan,120,7,15,98,10,1,3,Eastern Mediterranean\n"
	require.NoError(t, os.WriteFile(tsPath, []byte(extra), 0644))

	ts, _, err = loader.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, ts, 3)

	ts, _, err = loader.Reload(context.Background())
	require.NoError(t, err)
	assert.Len(t, ts, 4)
}

func TestLoadConcurrentFirstAccess(t *testing.T) {
	loader := newFixtureLoader(t)

	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			_, _, err := loader.Load(context.Background())
			done <- err
		}()
	}
	for i := 0; i < 8; i++ {
		require.NoError(t, <-done)
	}
}

func TestReloadNotSatisfiedByEarlierLoad(t *testing.T) {
	dir := t.TempDir()
	tsPath := writeFixture(t, dir, "full_grouped.csv", timeSeriesFixture)
	loader := NewLoader(tsPath, writeFixture(t, dir, "worldometer_data.csv", snapshotFixture))

	// Loads racing with the reload must not hand it pre-invalidation tables.
	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			_, _, err := loader.Load(context.Background())
			done <- err
		}()
	}

	// Swap the file atomically so racing readers never see a partial write.
	extra := timeSeriesFixture + "2020-01-24,Afghanistan,120,7,15,98,10,1,3,Eastern Mediterranean\n"
	extraPath := writeFixture(t, dir, "full_grouped_next.csv", extra)
	require.NoError(t, os.Rename(extraPath, tsPath))

	ts, _, err := loader.Reload(context.Background())
	require.NoError(t, err)
	assert.Len(t, ts, 4)

	for i := 0; i < 8; i++ {
		require.NoError(t, <-done)
	}

	// The reloaded tables stay memoized; an earlier in-flight read must not
	// have overwritten them.
	ts, _, err = loader.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, ts, 4)
}
