package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	DatabasePath      string        `mapstructure:"database_path" yaml:"database_path"`
	ScenariosPath     string        `mapstructure:"scenarios_path" yaml:"scenarios_path"`
	JWTSecret         string        `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	JWTIssuer         string        `mapstructure:"jwt_issuer" yaml:"jwt_issuer"`
	JWTAudience       string        `mapstructure:"jwt_audience" yaml:"jwt_audience"`
	GeneratorURL      string        `mapstructure:"generator_url" yaml:"generator_url"`
	GeneratorTimeout  time.Duration `mapstructure:"generator_timeout" yaml:"generator_timeout"`
	APIRateLimit      int           `mapstructure:"api_rate_limit" yaml:"api_rate_limit"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		DatabasePath:      "floorcast.db",
		ScenariosPath:     "scenarios.yaml",
		JWTSecret:         "dev-secret-change-me",
		JWTIssuer:         "floorcast",
		JWTAudience:       "floorcast-clients",
		GeneratorTimeout:  30 * time.Second,
		APIRateLimit:      120,
	}
}
