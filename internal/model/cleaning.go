package model

// CleaningReport records what each cleaning rule did to the raw tables.
// The counts feed the Cleaning view and the refresh-run audit trail.
type CleaningReport struct {
	SnapshotRowsIn    int `json:"snapshot_rows_in"`
	SnapshotRowsOut   int `json:"snapshot_rows_out"`
	TimeSeriesRowsIn  int `json:"time_series_rows_in"`
	TimeSeriesRowsOut int `json:"time_series_rows_out"`

	// Snapshot rule counters, applied in this order.
	DroppedNegative int `json:"dropped_negative"`
	DroppedExcluded int `json:"dropped_excluded"`
	DroppedMissing  int `json:"dropped_missing"`

	// Time-series counters.
	DroppedNegativeCumulative int `json:"dropped_negative_cumulative"`
	ZeroFilledIncrements      int `json:"zero_filled_increments"`

	// Exact-duplicate rows observed in the raw tables. Reported only, not
	// dropped: every non-first occurrence counts once.
	DuplicateSnapshotRows   int `json:"duplicate_snapshot_rows"`
	DuplicateTimeSeriesRows int `json:"duplicate_time_series_rows"`

	// Columns removed entirely, e.g. the redundant regional grouping column.
	DroppedColumns []string `json:"dropped_columns,omitempty"`
}
