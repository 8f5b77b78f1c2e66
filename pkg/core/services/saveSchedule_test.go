package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mkorsakov/dutyroster/internal/config"
	"github.com/mkorsakov/dutyroster/pkg/db"
	"github.com/mkorsakov/dutyroster/pkg/report"
)

// mockScheduleStore implements db.ScheduleStore
type mockScheduleStore struct {
	runs      []*db.ScheduleRun
	insertErr error
	latestErr error
}

func (m *mockScheduleStore) InsertScheduleRun(ctx context.Context, run *db.ScheduleRun) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.runs = append(m.runs, run)
	return nil
}

func (m *mockScheduleStore) GetLatestScheduleRun(ctx context.Context) (*db.ScheduleRun, error) {
	if m.latestErr != nil {
		return nil, m.latestErr
	}
	if len(m.runs) == 0 {
		return nil, db.ErrNoScheduleRun
	}
	return m.runs[len(m.runs)-1], nil
}

func (m *mockScheduleStore) GetScheduleRun(ctx context.Context, month, year int) (*db.ScheduleRun, error) {
	for _, run := range m.runs {
		if run.Month == month && run.Year == year {
			return run, nil
		}
	}
	return nil, db.ErrNoScheduleRun
}

func generateResult(t *testing.T) *ScheduleResult {
	t.Helper()
	result, err := GenerateSchedule(config.Default().Roster(), 0, 2025, rand.New(rand.NewSource(1)), zap.NewNop())
	require.NoError(t, err)
	return result
}

func TestSaveSchedule_PersistsRun(t *testing.T) {
	store := &mockScheduleStore{}
	result := generateResult(t)

	run, err := SaveSchedule(context.Background(), store, zap.NewNop(), result, "tester@example.com")
	require.NoError(t, err)
	require.Len(t, store.runs, 1)

	assert.NotEmpty(t, run.ID)
	assert.Equal(t, 0, run.Month)
	assert.Equal(t, 2025, run.Year)
	assert.Equal(t, "tester@example.com", run.SavedBy)
	assert.False(t, run.SavedAt.IsZero())

	assert.True(t, strings.HasPrefix(run.CSV, "\ufeff"))
	assert.Contains(t, run.CSV, "Employee,Timezone,Day")

	var stats []report.EmployeeStats
	require.NoError(t, json.Unmarshal([]byte(run.StatsJSON), &stats))
	assert.Len(t, stats, len(result.Stats))
}

func TestSaveSchedule_InsertError(t *testing.T) {
	store := &mockScheduleStore{insertErr: fmt.Errorf("connection refused")}
	result := generateResult(t)

	_, err := SaveSchedule(context.Background(), store, zap.NewNop(), result, "tester@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save schedule run")
}

func TestLatestSchedule(t *testing.T) {
	store := &mockScheduleStore{}

	_, err := LatestSchedule(context.Background(), store)
	require.Error(t, err)
	assert.ErrorIs(t, err, db.ErrNoScheduleRun)

	result := generateResult(t)
	saved, err := SaveSchedule(context.Background(), store, zap.NewNop(), result, "tester@example.com")
	require.NoError(t, err)

	latest, err := LatestSchedule(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, latest.ID)
}
