package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"covid-report/internal/model"
)

func sampleTable() Table {
	return Table{
		Name:    "top_confirmed",
		Columns: []string{"country", "value"},
		Rows: [][]string{
			{"Freedonia", "5000000"},
			{"Sylvania", "1760"},
		},
	}
}

func TestExportCSV(t *testing.T) {
	exporter := New(t.TempDir())

	results, err := exporter.Export("run-1", []Table{sampleTable()}, "csv")
	require.NoError(t, err)
	require.Len(t, results, 1)

	res := results[0]
	assert.True(t, res.Success)
	assert.Equal(t, "csv", res.Type)
	assert.Equal(t, 2, res.RecordCount)
	assert.Equal(t, "/api/v1/download/run-1/top_confirmed.csv", res.DownloadURL)
	assert.Positive(t, res.SizeBytes)

	file, err := os.Open(res.Path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"country", "value"}, rows[0])
	assert.Equal(t, []string{"Freedonia", "5000000"}, rows[1])
}

func TestExportJSON(t *testing.T) {
	exporter := New(t.TempDir())

	results, err := exporter.Export("run-2", []Table{sampleTable()}, "json")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.True(t, results[0].Success)

	raw, err := os.ReadFile(results[0].Path)
	require.NoError(t, err)

	var records []map[string]string
	require.NoError(t, json.Unmarshal(raw, &records))
	require.Len(t, records, 2)
	assert.Equal(t, "Sylvania", records[1]["country"])
	assert.Equal(t, "1760", records[1]["value"])
}

func TestExportUnsupportedFormat(t *testing.T) {
	exporter := New(t.TempDir())

	_, err := exporter.Export("run-3", []Table{sampleTable()}, "xml")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExportMultipleTables(t *testing.T) {
	exporter := New(t.TempDir())
	second := sampleTable()
	second.Name = "top_deaths"

	results, err := exporter.Export("run-4", []Table{sampleTable(), second}, "csv")
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, res := range results {
		assert.True(t, res.Success)
		assert.FileExists(t, res.Path)
	}
}

func TestTablesForOverview(t *testing.T) {
	payload := model.ViewPayload{
		Name: model.ViewOverview,
		Previews: []model.DatasetPreview{
			{Name: "full_grouped", Columns: []string{"Country/Region"}, Rows: [][]string{{"Freedonia"}}},
			{Name: "worldometer_data", Columns: []string{"Country/Region"}, Rows: [][]string{{"Sylvania"}}},
		},
	}

	tables := TablesFor(payload)

	require.Len(t, tables, 2)
	assert.Equal(t, "full_grouped_preview", tables[0].Name)
	assert.Equal(t, "worldometer_data_preview", tables[1].Name)
}

func TestTablesForCleaning(t *testing.T) {
	payload := model.ViewPayload{
		Name: model.ViewCleaning,
		Cleaning: &model.CleaningReport{
			SnapshotRowsIn:        10,
			SnapshotRowsOut:       8,
			DuplicateSnapshotRows: 2,
			DroppedColumns:        []string{"WHO Region"},
		},
	}

	tables := TablesFor(payload)

	require.Len(t, tables, 1)
	assert.Equal(t, "cleaning_report", tables[0].Name)
	assert.Contains(t, tables[0].Rows, []string{"snapshot_rows_in", "10"})
	assert.Contains(t, tables[0].Rows, []string{"duplicate_snapshot_rows", "2"})
	assert.Contains(t, tables[0].Rows, []string{"dropped_column", "WHO Region"})
}

func TestTablesForEDA(t *testing.T) {
	fit := model.RegressionLine{Slope: 0.9, Intercept: 0.1, N: 2}
	payload := model.ViewPayload{
		Name: model.ViewEDA,
		EDA: &model.EDATables{
			MonthlyTrend:  []model.MonthlyAggregate{{SumConfirmed: 300}},
			TopConfirmed:  []model.CountryRanking{{Country: "Freedonia", Value: 300}},
			CountryCFR:    []model.CountryRate{{Country: "Freedonia", Value: 3.2}},
			TestsCasesFit: &fit,
		},
		Narrative: []model.NarrativeItem{{Heading: "Trend", Body: "Cases rose."}},
	}

	tables := TablesFor(payload)

	names := make([]string, 0, len(tables))
	for _, table := range tables {
		names = append(names, table.Name)
	}
	assert.Contains(t, names, "monthly_trend")
	assert.Contains(t, names, "top_confirmed")
	assert.Contains(t, names, "country_cfr")
	assert.Contains(t, names, "tests_cases_fit")
	assert.Contains(t, names, "daily_new")
	assert.Contains(t, names, "eda_narrative")
}

func TestTablesForNarrativeOnly(t *testing.T) {
	payload := model.ViewPayload{
		Name:      model.ViewInsights,
		Narrative: []model.NarrativeItem{{Heading: "Q", Body: "A"}},
	}

	tables := TablesFor(payload)

	require.Len(t, tables, 1)
	assert.Equal(t, "insights_narrative", tables[0].Name)
	assert.Equal(t, [][]string{{"Q", "A"}}, tables[0].Rows)
}
