package model

import "time"

// Refresh run statuses, in execution order.
const (
	RunPending     = "pending"
	RunLoading     = "loading"
	RunCleaning    = "cleaning"
	RunAggregating = "aggregating"
	RunCompleted   = "completed"
	RunFailed      = "failed"
)

// RefreshRun is one load → clean → aggregate execution.
type RefreshRun struct {
	ID        string          `json:"id"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Cleaning  *CleaningReport `json:"cleaning,omitempty"`
}

// RunError is one error recorded against a refresh run.
type RunError struct {
	RunID     string    `json:"run_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
