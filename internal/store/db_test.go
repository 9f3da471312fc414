package store

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"covid-report/internal/model"
)

func initTestDB(t *testing.T) {
	t.Helper()
	require.NoError(t, InitDB(filepath.Join(t.TempDir(), "runs.db")))
	t.Cleanup(func() { db.Close() })
}

func TestSaveAndGetRun(t *testing.T) {
	initTestDB(t)

	require.NoError(t, SaveRun("run-1"))

	run, err := GetRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, model.RunPending, run.Status)
	assert.Nil(t, run.Cleaning)
}

func TestUpdateRunStatus(t *testing.T) {
	initTestDB(t)
	require.NoError(t, SaveRun("run-1"))

	require.NoError(t, UpdateRunStatus("run-1", model.RunCompleted))

	run, err := GetRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, model.RunCompleted, run.Status)
}

func TestSaveRunCleaning(t *testing.T) {
	initTestDB(t)
	require.NoError(t, SaveRun("run-1"))

	report := model.CleaningReport{
		SnapshotRowsIn:       10,
		SnapshotRowsOut:      8,
		ZeroFilledIncrements: 3,
		DroppedColumns:       []string{"WHO Region"},
	}
	require.NoError(t, SaveRunCleaning("run-1", report))

	run, err := GetRun("run-1")
	require.NoError(t, err)
	require.NotNil(t, run.Cleaning)
	assert.Equal(t, report, *run.Cleaning)
}

func TestUpdateRunStatusSurfacesStoreFailure(t *testing.T) {
	initTestDB(t)
	require.NoError(t, SaveRun("run-1"))
	require.NoError(t, db.Close())

	err := UpdateRunStatus("run-1", model.RunLoading)
	assert.Error(t, err)
}

func TestGetRunMissing(t *testing.T) {
	initTestDB(t)

	_, err := GetRun("no-such-run")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestListRunsNewestFirst(t *testing.T) {
	initTestDB(t)
	require.NoError(t, SaveRun("run-1"))
	require.NoError(t, SaveRun("run-2"))

	runs, err := ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.False(t, runs[0].CreatedAt.Before(runs[1].CreatedAt))
}

func TestRunErrors(t *testing.T) {
	initTestDB(t)
	require.NoError(t, SaveRun("run-1"))

	require.NoError(t, SaveRunError("run-1", errors.New("source file missing")))
	require.NoError(t, SaveRunError("run-1", nil)) // nil errors are ignored

	errs, err := GetRunErrors("run-1")
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "run-1", errs[0].RunID)
	assert.Equal(t, "source file missing", errs[0].Message)

	other, err := GetRunErrors("run-2")
	require.NoError(t, err)
	assert.Empty(t, other)
}
