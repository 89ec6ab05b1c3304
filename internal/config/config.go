package config

import (
	"os"
	"strconv"

	"pairpower/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Study      StudyConfig
	Simulation SimulationConfig
}

// StudyConfig holds the assumed study parameters
type StudyConfig struct {
	Prevalence   float64
	SensitivityA float64
	SensitivityB float64
	Alpha        float64
	Power        float64
	Confidence   float64
}

// SimulationConfig holds Monte Carlo settings
type SimulationConfig struct {
	Trials            int
	Seed              int64
	MaxConcurrent     int
	ScaleByPrevalence bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Study:      loadStudyConfig(),
		Simulation: loadSimulationConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadStudyConfig() StudyConfig {
	return StudyConfig{
		Prevalence:   getEnvFloatOrDefault("STUDY_PREVALENCE", 0.7),
		SensitivityA: getEnvFloatOrDefault("STUDY_SENSITIVITY_A", 0.82),
		SensitivityB: getEnvFloatOrDefault("STUDY_SENSITIVITY_B", 0.73),
		Alpha:        getEnvFloatOrDefault("STUDY_ALPHA", 0.05),
		Power:        getEnvFloatOrDefault("STUDY_POWER", 0.8),
		Confidence:   getEnvFloatOrDefault("STUDY_CONFIDENCE", 0.95),
	}
}

func loadSimulationConfig() SimulationConfig {
	return SimulationConfig{
		Trials:            getEnvIntOrDefault("SIM_TRIALS", 1000),
		Seed:              getEnvInt64OrDefault("SIM_SEED", 42),
		MaxConcurrent:     getEnvIntOrDefault("SIM_MAX_CONCURRENT", 0), // 0 = NumCPU
		ScaleByPrevalence: getEnvBoolOrDefault("SIM_SCALE_BY_PREVALENCE", true),
	}
}

func validateConfig(config *Config) error {
	for name, p := range map[string]float64{
		"STUDY_PREVALENCE":    config.Study.Prevalence,
		"STUDY_SENSITIVITY_A": config.Study.SensitivityA,
		"STUDY_SENSITIVITY_B": config.Study.SensitivityB,
	} {
		if p < 0 || p > 1 {
			return errors.ConfigInvalid(name + " must be within [0,1]")
		}
	}
	// Alpha, power, and confidence of exactly 0 or 1 make the design
	// degenerate (no rejection region, or an unreachable target).
	for name, p := range map[string]float64{
		"STUDY_ALPHA":      config.Study.Alpha,
		"STUDY_POWER":      config.Study.Power,
		"STUDY_CONFIDENCE": config.Study.Confidence,
	} {
		if p <= 0 || p >= 1 {
			return errors.ConfigInvalid(name + " must be within (0,1)")
		}
	}
	if config.Simulation.Trials <= 0 {
		return errors.ConfigInvalid("SIM_TRIALS must be positive")
	}
	if config.Simulation.MaxConcurrent < 0 {
		return errors.ConfigInvalid("SIM_MAX_CONCURRENT cannot be negative")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
