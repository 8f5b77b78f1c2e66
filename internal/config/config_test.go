package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), configFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validYAML = `
regions:
  - name: Brazil
    timezone: America/Sao_Paulo
    timezoneOffset: -3
    allocationWeight: 15
    onCall:
      start: 17
      end: 1
      crossesMidnight: true
    employees:
      - name: Ana
      - name: Bruno
  - name: Europe
    timezone: Europe/Berlin
    timezoneOffset: 1
    allocationWeight: 25
    onCall:
      start: 8
      end: 18
    employees:
      - name: Clara
server:
  port: "9090"
  cronSpec: "0 9 25 * *"
`

func TestLoadFromPath_Valid(t *testing.T) {
	cfg, err := LoadFromPath(writeConfig(t, validYAML))
	require.NoError(t, err)

	require.Len(t, cfg.Regions, 2)
	assert.Equal(t, "Brazil", cfg.Regions[0].Name)
	assert.True(t, cfg.Regions[0].OnCall.CrossesMidnight)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "0 9 25 * *", cfg.Server.CronSpec)
}

func TestLoadFromPath_MissingFile(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadFromPath_InvalidYAML(t *testing.T) {
	_, err := LoadFromPath(writeConfig(t, "regions: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestValidate_RequiresRegions(t *testing.T) {
	err := Validate(&Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidate_RequiresEmployees(t *testing.T) {
	cfg := Default()
	cfg.Regions[0].Employees = nil
	assert.Error(t, Validate(cfg))
}

func TestValidate_CrossesMidnightMismatch(t *testing.T) {
	cfg := Default()

	// Window 17-01 with the flag cleared
	cfg.Regions[0].OnCall.CrossesMidnight = false
	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "crossesMidnight")

	// Window 08-18 with the flag set
	cfg = Default()
	cfg.Regions[2].OnCall.CrossesMidnight = true
	assert.Error(t, Validate(cfg))
}

func TestValidate_BadCronSpec(t *testing.T) {
	cfg := Default()
	cfg.Server.CronSpec = "not a cron spec"
	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cronSpec")
}

func TestValidate_TimezoneOffsetRange(t *testing.T) {
	cfg := Default()
	cfg.Regions[0].TimezoneOffset = -13
	assert.Error(t, Validate(cfg))
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))

	roster := cfg.Roster()
	require.Len(t, roster.Regions, 3)
	assert.Len(t, roster.AllEmployees(), 11)

	brazil, err := roster.RegionByName("Brazil")
	require.NoError(t, err)
	assert.True(t, brazil.OnCall.CrossesMidnight)
	assert.Equal(t, 8, brazil.OnCall.Hours())

	europe, err := roster.RegionByName("Europe")
	require.NoError(t, err)
	assert.Equal(t, 25, europe.AllocationWeight)
	assert.Equal(t, 10, europe.OnCall.Hours())
	assert.Len(t, europe.Employees, 7)
}

func TestRoster_EmployeeFields(t *testing.T) {
	roster := Default().Roster()
	emp := roster.Regions[0].Employees[0]

	assert.Equal(t, "Brazil 1", emp.Name)
	assert.Equal(t, "Brazil", emp.Region)
	assert.Equal(t, "America/Sao_Paulo", emp.Timezone)
	assert.Equal(t, -3, emp.TimezoneOffset)
	assert.Equal(t, 9, emp.WorkStart)
	assert.Equal(t, 18, emp.WorkEnd)
}
