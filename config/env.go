package config

import (
	"os"

	"gorm.io/gorm/logger"
)

// Environment represents the current runtime environment
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// GetEnvironment determines the current environment
func GetEnvironment() Environment {
	// CI environment is automatically detected
	if os.Getenv("CI") == "true" {
		return CI
	}

	switch env := os.Getenv("ENV"); env {
	case "production":
		return Production
	case "test":
		return Test
	default:
		return Development
	}
}

// SQLLogLevel picks how chatty gorm is in each environment.
func (e Environment) SQLLogLevel() logger.LogLevel {
	switch e {
	case Production:
		return logger.Error
	case Test, CI:
		return logger.Silent
	default:
		return logger.Warn
	}
}

// GinMode maps the environment onto gin's run modes.
func (e Environment) GinMode() string {
	switch e {
	case Production:
		return "release"
	case Test, CI:
		return "test"
	default:
		return "debug"
	}
}
