package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConfigRequirements defines required configuration for each environment
type ConfigRequirements struct {
	RequiredFields  []string
	RequiredSecrets []string
}

var (
	// Environment-specific requirements
	requirements = map[Environment]ConfigRequirements{
		Development: {
			RequiredFields: []string{"SERVER_PORT", "DB_DRIVER"},
			RequiredSecrets: []string{
				"jwt_secret",
			},
		},
		Test: {
			RequiredFields: []string{"SERVER_PORT", "DB_DRIVER"},
		},
		CI: {
			RequiredFields: []string{
				"SERVER_PORT",
				"DB_DRIVER",
				"DB_HOST",
				"DB_PORT",
				"DB_USER",
				"DB_NAME",
			},
			RequiredSecrets: []string{
				"db_password",
				"jwt_secret",
			},
		},
		Production: {
			RequiredFields: []string{
				"SERVER_PORT",
				"SERVER_HOST",
				"DB_DRIVER",
				"DB_HOST",
				"DB_PORT",
				"DB_USER",
				"DB_NAME",
				"DB_SSL_MODE",
			},
			RequiredSecrets: []string{
				"db_password",
				"jwt_secret",
			},
		},
	}
)

func fieldValue(cfg *Config, name string) string {
	switch name {
	case "SERVER_PORT":
		return cfg.ServerPort
	case "SERVER_HOST":
		return cfg.ServerHost
	case "DB_DRIVER":
		return cfg.DBDriver
	case "DB_HOST":
		return cfg.DBHost
	case "DB_PORT":
		return cfg.DBPort
	case "DB_USER":
		return cfg.DBUser
	case "DB_NAME":
		return cfg.DBName
	case "DB_SSL_MODE":
		return cfg.DBSSLMode
	case "db_password":
		return cfg.DBPassword
	case "jwt_secret":
		return cfg.JWTSecret
	}
	return ""
}

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	reqs := requirements[cfg.Environment]

	var errors []string

	for _, name := range reqs.RequiredFields {
		if fieldValue(cfg, name) == "" {
			errors = append(errors, ValidationError{Field: name, Message: "required setting is not set"}.Error())
		}
	}

	for _, name := range reqs.RequiredSecrets {
		// sqlite has no password to check
		if name == "db_password" && cfg.DBDriver == "sqlite" {
			continue
		}
		if fieldValue(cfg, name) == "" {
			errors = append(errors, ValidationError{Field: name, Message: "required secret is not set"}.Error())
		}
	}

	if cfg.DBDriver != "postgres" && cfg.DBDriver != "sqlite" {
		errors = append(errors, ValidationError{Field: "DB_DRIVER", Message: "must be postgres or sqlite"}.Error())
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}
