package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/ingwaneorg/coffee/pkg/core/pairings"
)

// Storage backends.
const (
	StorageJSON     = "json"
	StoragePostgres = "postgres"
)

// WeightOverrides optionally overrides individual scoring weights.
// Unset fields keep their defaults.
type WeightOverrides struct {
	FirstTimeMeeting     *float64 `yaml:"firstTimeMeeting,omitempty"`
	RecentPairingPenalty *float64 `yaml:"recentPairingPenalty,omitempty"`
	OldPairingPenalty    *float64 `yaml:"oldPairingPenalty,omitempty"`
	FairnessBonus        *float64 `yaml:"fairnessBonus,omitempty"`
}

// Config represents the application configuration.
type Config struct {
	// Storage selects the persistence backend.
	Storage string `yaml:"storage" validate:"required,oneof=json postgres"`

	// DataFile is the JSON data file path (json storage). Defaults to
	// coffee.json next to the config file's directory of use.
	DataFile string `yaml:"dataFile,omitempty"`

	// PostgresURL is the connection string (postgres storage).
	PostgresURL string `yaml:"postgresURL,omitempty"`

	// CadenceRRule describes the pairing cadence; the next occurrence
	// determines the target week when none is given explicitly.
	CadenceRRule string `yaml:"cadenceRRule" validate:"required"`

	// TopN is the number of ranked solutions shown by generatePairings.
	TopN int `yaml:"topN,omitempty" validate:"omitempty,min=1"`

	// GmailSender is the From address for pairing announcements.
	GmailSender string `yaml:"gmailSender,omitempty"`

	Weights WeightOverrides `yaml:"weights,omitempty"`
}

// ScoringWeights returns the default scoring weights with any configured
// overrides applied.
func (c *Config) ScoringWeights() pairings.Weights {
	weights := pairings.DefaultWeights()
	if c.Weights.FirstTimeMeeting != nil {
		weights.FirstTimeMeeting = *c.Weights.FirstTimeMeeting
	}
	if c.Weights.RecentPairingPenalty != nil {
		weights.RecentPairingPenalty = *c.Weights.RecentPairingPenalty
	}
	if c.Weights.OldPairingPenalty != nil {
		weights.OldPairingPenalty = *c.Weights.OldPairingPenalty
	}
	if c.Weights.FairnessBonus != nil {
		weights.FairnessBonus = *c.Weights.FairnessBonus
	}
	return weights
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// LoadWithEnv loads and validates the configuration for the given
// environment. For example, env="test" looks for "coffee_config.test.yaml".
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
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

	if cfg.Storage == StorageJSON && cfg.DataFile == "" {
		cfg.DataFile = "coffee.json"
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct, the cadence rrule syntax and
// the storage-specific requirements.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if _, err := rrule.StrToRRule(cfg.CadenceRRule); err != nil {
		return fmt.Errorf("invalid cadenceRRule: %w", err)
	}

	if cfg.Storage == StoragePostgres && cfg.PostgresURL == "" {
		return fmt.Errorf("postgresURL is required for postgres storage")
	}

	return nil
}

// findConfigFile searches for the config file in the current directory and
// the user's home directory. env, when set, is added as a file extension
// (e.g. "coffee_config.test.yaml").
func findConfigFile(env string) (string, error) {
	configFileName := "coffee_config.yaml"
	if env != "" {
		configFileName = "coffee_config." + env + ".yaml"
	}

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file %s not found in current directory or home directory", configFileName)
}
