// Package config loads and validates application configuration.
package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"      validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains access-control settings. Access to the API is gated by
// a single access code whose bcrypt hash is configured here; validating the
// code issues a JWT signed with JWTSecret.
type AuthConfig struct {
	AccessCodeHash       string `mapstructure:"access_code_hash"       validate:"required"`
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// LLMConfig contains LLM vendor integration settings.
type LLMConfig struct {
	// DefaultModel selects the vendor strategy for all LLM calls. Changing
	// it requires a restart.
	DefaultModel string `mapstructure:"default_model" validate:"required,oneof=doubao kimi tongyi gemini"`

	// APIKey authenticates against the selected vendor.
	APIKey string `mapstructure:"api_key" validate:"required"`

	// BaseURL overrides the vendor's default endpoint. Optional; mainly for
	// tests and proxies.
	BaseURL string `mapstructure:"base_url"`

	// ModelName overrides the vendor's default model identifier.
	ModelName string `mapstructure:"model_name"`

	// TimeoutSeconds bounds each outbound vendor call. Individual tasks are
	// never cancelled mid-flight by the orchestrator; this client-level
	// timeout is the only abort mechanism.
	TimeoutSeconds int `mapstructure:"timeout_seconds" validate:"gte=0"`
}
