// Package export writes derived tables to CSV or JSON files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"covid-report/internal/logging"
	"covid-report/internal/model"
	"covid-report/pkg/utils"
)

// ErrUnsupportedFormat means the requested export format is not csv or json.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Table is one derived table flattened to strings for export.
type Table struct {
	Name    string     `json:"name"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Result describes one export operation.
type Result struct {
	Type        string    `json:"type"` // "csv" or "json"
	Table       string    `json:"table"`
	Path        string    `json:"path"`
	DownloadURL string    `json:"download_url,omitempty"`
	RecordCount int       `json:"record_count"`
	SizeBytes   int64     `json:"size_bytes,omitempty"`
	Success     bool      `json:"success"`
	Error       string    `json:"error,omitempty"`
	ExportedAt  time.Time `json:"exported_at"`
}

// Exporter writes tables under a per-export directory.
type Exporter struct {
	output *utils.OutputManager
}

func New(baseOutputDir string) *Exporter {
	return &Exporter{output: utils.NewOutputManager(baseOutputDir)}
}

// Export writes every table in the requested format, one file per table.
// A failed table does not stop the others; each gets its own Result.
func (e *Exporter) Export(exportID string, tables []Table, format string) ([]Result, error) {
	if format != "csv" && format != "json" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	results := make([]Result, 0, len(tables))
	for _, table := range tables {
		fileName := table.Name + "." + format
		path, err := e.output.GetOutputFilePath(exportID, fileName)
		if err == nil {
			if format == "csv" {
				err = writeCSV(path, table)
			} else {
				err = writeJSON(path, table)
			}
		}

		result := Result{
			Type:        e.output.GetFileType(fileName),
			Table:       table.Name,
			Path:        path,
			RecordCount: len(table.Rows),
			Success:     err == nil,
			ExportedAt:  time.Now().UTC(),
		}
		if err != nil {
			result.Error = err.Error()
			logging.Error().Err(err).Str("table", table.Name).Msg("export failed")
		} else {
			result.DownloadURL = e.output.GetDownloadURL(exportID, fileName)
			result.SizeBytes, _ = e.output.GetFileSize(path)
			logging.Info().Str("table", table.Name).Str("path", path).Int("rows", len(table.Rows)).Msg("table exported")
		}
		results = append(results, result)
	}
	return results, nil
}

// FilePath resolves an exported file for download, confined to the export dir.
func (e *Exporter) FilePath(exportID, fileName string) (string, error) {
	return e.output.GetOutputFilePath(exportID, fileName)
}

func writeCSV(path string, table Table) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(table.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range table.Rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}

func writeJSON(path string, table Table) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	records := make([]map[string]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		record := make(map[string]string, len(table.Columns))
		for i, col := range table.Columns {
			if i < len(row) {
				record[col] = row[i]
			}
		}
		records = append(records, record)
	}

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// TablesFor flattens a view payload into exportable tables.
func TablesFor(p model.ViewPayload) []Table {
	var tables []Table

	for _, preview := range p.Previews {
		tables = append(tables, Table{
			Name:    preview.Name + "_preview",
			Columns: preview.Columns,
			Rows:    preview.Rows,
		})
	}

	if p.Cleaning != nil {
		tables = append(tables, cleaningTable(*p.Cleaning))
	}

	if p.EDA != nil {
		tables = append(tables, edaTables(p.EDA)...)
	}

	if len(p.Narrative) > 0 {
		rows := make([][]string, 0, len(p.Narrative))
		for _, item := range p.Narrative {
			rows = append(rows, []string{item.Heading, item.Body})
		}
		tables = append(tables, Table{
			Name:    string(p.Name) + "_narrative",
			Columns: []string{"heading", "body"},
			Rows:    rows,
		})
	}

	return tables
}

func cleaningTable(c model.CleaningReport) Table {
	rows := [][]string{
		{"snapshot_rows_in", strconv.Itoa(c.SnapshotRowsIn)},
		{"snapshot_rows_out", strconv.Itoa(c.SnapshotRowsOut)},
		{"time_series_rows_in", strconv.Itoa(c.TimeSeriesRowsIn)},
		{"time_series_rows_out", strconv.Itoa(c.TimeSeriesRowsOut)},
		{"dropped_negative", strconv.Itoa(c.DroppedNegative)},
		{"dropped_excluded", strconv.Itoa(c.DroppedExcluded)},
		{"dropped_missing", strconv.Itoa(c.DroppedMissing)},
		{"dropped_negative_cumulative", strconv.Itoa(c.DroppedNegativeCumulative)},
		{"zero_filled_increments", strconv.Itoa(c.ZeroFilledIncrements)},
		{"duplicate_snapshot_rows", strconv.Itoa(c.DuplicateSnapshotRows)},
		{"duplicate_time_series_rows", strconv.Itoa(c.DuplicateTimeSeriesRows)},
	}
	for _, col := range c.DroppedColumns {
		rows = append(rows, []string{"dropped_column", col})
	}
	return Table{
		Name:    "cleaning_report",
		Columns: []string{"rule", "value"},
		Rows:    rows,
	}
}

func edaTables(eda *model.EDATables) []Table {
	tables := make([]Table, 0, 10)

	monthly := Table{
		Name:    "monthly_trend",
		Columns: []string{"month", "sum_confirmed", "sum_deaths", "sum_recovered"},
	}
	for _, m := range eda.MonthlyTrend {
		monthly.Rows = append(monthly.Rows, []string{
			m.Month.Format("2006-01"),
			strconv.FormatInt(m.SumConfirmed, 10),
			strconv.FormatInt(m.SumDeaths, 10),
			strconv.FormatInt(m.SumRecovered, 10),
		})
	}
	tables = append(tables, monthly)

	for _, ranking := range []struct {
		name string
		rows []model.CountryRanking
	}{
		{"top_confirmed", eda.TopConfirmed},
		{"top_deaths", eda.TopDeaths},
		{"top_recovered", eda.TopRecovered},
	} {
		table := Table{Name: ranking.name, Columns: []string{"country", "value"}}
		for _, r := range ranking.rows {
			table.Rows = append(table.Rows, []string{r.Country, strconv.FormatInt(r.Value, 10)})
		}
		tables = append(tables, table)
	}

	for _, continent := range []struct {
		name string
		rows []model.ContinentAggregate
	}{
		{"continent_cfr", eda.ContinentCFR},
		{"continent_recovery", eda.ContinentRecovery},
	} {
		table := Table{Name: continent.name, Columns: []string{"continent", "mean", "sample_size"}}
		for _, c := range continent.rows {
			table.Rows = append(table.Rows, []string{
				c.Continent,
				strconv.FormatFloat(c.Mean, 'f', 4, 64),
				strconv.Itoa(c.SampleSize),
			})
		}
		tables = append(tables, table)
	}

	countryCFR := Table{
		Name:    "country_cfr",
		Columns: []string{"country", "cfr"},
	}
	for _, r := range eda.CountryCFR {
		countryCFR.Rows = append(countryCFR.Rows, []string{
			r.Country,
			strconv.FormatFloat(r.Value, 'f', 4, 64),
		})
	}
	tables = append(tables, countryCFR)

	scatter := Table{
		Name:    "tests_versus_cases",
		Columns: []string{"country", "continent", "log_tests", "log_cases"},
	}
	for _, p := range eda.TestsVersusCases {
		scatter.Rows = append(scatter.Rows, []string{
			p.Country,
			p.Continent,
			strconv.FormatFloat(p.LogTests, 'f', 4, 64),
			strconv.FormatFloat(p.LogCases, 'f', 4, 64),
		})
	}
	tables = append(tables, scatter)

	if eda.TestsCasesFit != nil {
		tables = append(tables, Table{
			Name:    "tests_cases_fit",
			Columns: []string{"slope", "intercept", "n"},
			Rows: [][]string{{
				strconv.FormatFloat(eda.TestsCasesFit.Slope, 'f', 6, 64),
				strconv.FormatFloat(eda.TestsCasesFit.Intercept, 'f', 6, 64),
				strconv.Itoa(eda.TestsCasesFit.N),
			}},
		})
	}

	daily := Table{
		Name:    "daily_new",
		Columns: []string{"date", "new_cases", "new_deaths"},
	}
	for _, d := range eda.DailyNew {
		daily.Rows = append(daily.Rows, []string{
			d.Date.Format("2006-01-02"),
			strconv.FormatInt(d.NewCases, 10),
			strconv.FormatInt(d.NewDeaths, 10),
		})
	}
	tables = append(tables, daily)

	return tables
}
