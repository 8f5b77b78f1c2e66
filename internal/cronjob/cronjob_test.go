package cronjob

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/mkorsakov/dutyroster/internal/config"
)

func TestNextMonth(t *testing.T) {
	tests := []struct {
		name      string
		now       time.Time
		wantMonth int
		wantYear  int
	}{
		{"mid-year", time.Date(2025, time.June, 25, 9, 0, 0, 0, time.UTC), 6, 2025},
		{"january", time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), 1, 2025},
		{"december rolls over", time.Date(2025, time.December, 25, 9, 0, 0, 0, time.UTC), 0, 2026},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			month, year := NextMonth(tt.now)
			assert.Equal(t, tt.wantMonth, month)
			assert.Equal(t, tt.wantYear, year)
		})
	}
}

func TestRunner_StartRejectsBadSpec(t *testing.T) {
	runner := New("not a spec", config.Default().Roster(), nil, zap.NewNop())
	assert.Error(t, runner.Start())
}

func TestRunner_StartStop(t *testing.T) {
	runner := New("0 9 25 * *", config.Default().Roster(), nil, zap.NewNop())
	assert.NoError(t, runner.Start())
	runner.Stop()
}
