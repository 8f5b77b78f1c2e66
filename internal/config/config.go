// Package config loads and validates the roster and server configuration.
// A built-in default roster mirrors the standing three-region team, so the
// CLI works without a config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/mkorsakov/dutyroster/pkg/core/model"
)

const configFileName = "dutyroster.yaml"

// Default local working window for employees that don't override it.
const (
	defaultWorkStart = 9
	defaultWorkEnd   = 18
)

// EmployeeConfig is one roster member entry.
type EmployeeConfig struct {
	Name string `yaml:"name" validate:"required"`
}

// OnCallWindowConfig is a region's coverage window in reference-zone hours.
type OnCallWindowConfig struct {
	Start           int  `yaml:"start" validate:"min=0,max=23"`
	End             int  `yaml:"end" validate:"min=0,max=24"`
	CrossesMidnight bool `yaml:"crossesMidnight"`
}

// RegionConfig is one region with its employees and on-call window.
type RegionConfig struct {
	Name             string             `yaml:"name" validate:"required"`
	Timezone         string             `yaml:"timezone" validate:"required"`
	TimezoneOffset   int                `yaml:"timezoneOffset" validate:"min=-12,max=14"`
	AllocationWeight int                `yaml:"allocationWeight" validate:"min=0"`
	OnCall           OnCallWindowConfig `yaml:"onCall"`
	Employees        []EmployeeConfig   `yaml:"employees" validate:"min=1,dive"`
}

// ServerConfig configures the schedule viewer HTTP server.
type ServerConfig struct {
	Port               string   `yaml:"port"`
	SessionSecret      string   `yaml:"sessionSecret"`
	AllowedUsers       []string `yaml:"allowedUsers"`
	GoogleClientID     string   `yaml:"googleClientID"`
	GoogleClientSecret string   `yaml:"googleClientSecret"`
	CallbackURL        string   `yaml:"callbackURL"`
	DatabaseURL        string   `yaml:"databaseURL"`
	CORSAllowedOrigins string   `yaml:"corsAllowedOrigins"`

	// CronSpec, when set, auto-generates and saves next month's schedule
	// on that cron schedule (e.g. "0 9 25 * *")
	CronSpec string `yaml:"cronSpec"`
}

// Config is the application configuration.
type Config struct {
	Regions []RegionConfig `yaml:"regions" validate:"min=1,dive"`
	Server  ServerConfig   `yaml:"server"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads the configuration from dutyroster.yaml, looking in the current
// directory first and then the user's home directory. When no file exists,
// the built-in default roster is returned.
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return Default(), nil
	}
	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct, on-call window consistency
// and cron spec syntax.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	for i, region := range cfg.Regions {
		crossing := region.OnCall.End < region.OnCall.Start
		if crossing != region.OnCall.CrossesMidnight {
			return fmt.Errorf("regions[%d] (%s): crossesMidnight flag does not match the %02d-%02d window",
				i, region.Name, region.OnCall.Start, region.OnCall.End)
		}
	}

	if cfg.Server.CronSpec != "" {
		if _, err := cron.ParseStandard(cfg.Server.CronSpec); err != nil {
			return fmt.Errorf("invalid server.cronSpec: %w", err)
		}
	}

	return nil
}

// Roster converts the configuration into the immutable roster value the
// engines consume.
func (c *Config) Roster() model.Roster {
	roster := model.Roster{}
	for _, rc := range c.Regions {
		region := model.Region{
			Name:             rc.Name,
			TimezoneOffset:   rc.TimezoneOffset,
			AllocationWeight: rc.AllocationWeight,
			OnCall: model.OnCallWindow{
				StartRef:        rc.OnCall.Start,
				EndRef:          rc.OnCall.End,
				CrossesMidnight: rc.OnCall.CrossesMidnight,
			},
		}
		for _, ec := range rc.Employees {
			region.Employees = append(region.Employees, model.Employee{
				Name:           ec.Name,
				Region:         rc.Name,
				Timezone:       rc.Timezone,
				TimezoneOffset: rc.TimezoneOffset,
				WorkStart:      defaultWorkStart,
				WorkEnd:        defaultWorkEnd,
			})
		}
		roster.Regions = append(roster.Regions, region)
	}
	return roster
}

// Default returns the built-in configuration: the standing Brazil (2),
// Australia (2), Europe (7) roster with the handover-overlapping on-call
// windows.
func Default() *Config {
	return &Config{
		Regions: []RegionConfig{
			{
				Name:             "Brazil",
				Timezone:         "America/Sao_Paulo",
				TimezoneOffset:   -3,
				AllocationWeight: 15,
				OnCall:           OnCallWindowConfig{Start: 17, End: 1, CrossesMidnight: true},
				Employees:        namedEmployees("Brazil", 2),
			},
			{
				Name:             "Australia",
				Timezone:         "Australia/Sydney",
				TimezoneOffset:   10,
				AllocationWeight: 15,
				OnCall:           OnCallWindowConfig{Start: 0, End: 9},
				Employees:        namedEmployees("Australia", 2),
			},
			{
				Name:             "Europe",
				Timezone:         "Europe/Berlin",
				TimezoneOffset:   1,
				AllocationWeight: 25,
				OnCall:           OnCallWindowConfig{Start: 8, End: 18},
				Employees:        namedEmployees("Europe", 7),
			},
		},
		Server: ServerConfig{
			Port:               "8080",
			CORSAllowedOrigins: "*",
		},
	}
}

func namedEmployees(prefix string, count int) []EmployeeConfig {
	employees := make([]EmployeeConfig, count)
	for i := range employees {
		employees[i] = EmployeeConfig{Name: fmt.Sprintf("%s %d", prefix, i+1)}
	}
	return employees
}

// findConfigFile searches for dutyroster.yaml in the current directory and
// the home directory.
func findConfigFile() (string, error) {
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
