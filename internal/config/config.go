// Package config loads and validates the application configuration from
// defaults, an optional .env file, command-line flags, and environment
// variables, in that order of increasing priority.
package config

import (
	"flag"
	"log"
	"time"

	env "github.com/caarlos0/env/v6"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all runtime settings of the service.
type Config struct {
	// RunAddr is the address and port the HTTP server listens on.
	RunAddr string `env:"SERVER_ADDRESS" validate:"hostname_port"`

	// LogLevel is the global zap log level.
	LogLevel string `env:"LOG_LEVEL" validate:"loglevel"`

	// TrustedSubnet is a CIDR restricting access to the internal stats
	// endpoint. An empty value disables the endpoint entirely.
	TrustedSubnet string `env:"TRUSTED_SUBNET" validate:"omitempty,cidr"`

	// ShutdownTimeout bounds the graceful shutdown of the HTTP server.
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`
}

func validateLogLevel(fieldLevel validator.FieldLevel) bool {
	value := fieldLevel.Field().String()

	allowedLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"fatal": true,
	}

	return allowedLogLevels[value]
}

func validate(cfg *Config) error {
	validate := validator.New()

	err := validate.RegisterValidation("loglevel", validateLogLevel)
	if err != nil {
		return err
	}

	return validate.Struct(cfg)
}

// InitOption customizes the behavior of New.
type InitOption func(*initOptions)

type initOptions struct {
	disableFlagsParsing bool
}

// WithDisableFlagsParsing disables command-line flag parsing.
// It is meant for tests, where the test binary owns the flag set.
func WithDisableFlagsParsing(disableFlagsParsing bool) InitOption {
	return func(options *initOptions) {
		options.disableFlagsParsing = disableFlagsParsing
	}
}

// New builds a validated Config.
func New(optionsProto ...InitOption) (*Config, error) {
	options := &initOptions{}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	if err := godotenv.Load(); err != nil {
		log.Printf("Unable to load .env file: %v", err)
	}

	cfg := &Config{
		RunAddr:         ":3000",
		LogLevel:        "info",
		TrustedSubnet:   "",
		ShutdownTimeout: 10 * time.Second,
	}

	if !options.disableFlagsParsing {
		flag.StringVar(&cfg.RunAddr, "a", cfg.RunAddr, "address and port to run server")
		flag.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "logger level")
		flag.StringVar(&cfg.TrustedSubnet, "t", cfg.TrustedSubnet, "trusted subnet (CIDR) for the internal stats endpoint")
		flag.DurationVar(&cfg.ShutdownTimeout, "s", cfg.ShutdownTimeout, "graceful shutdown timeout")
		flag.Parse()
	}

	var valuesFromEnv Config
	if err := env.Parse(&valuesFromEnv); err != nil {
		return nil, err
	}

	if valuesFromEnv.RunAddr != "" {
		cfg.RunAddr = valuesFromEnv.RunAddr
	}

	if valuesFromEnv.LogLevel != "" {
		cfg.LogLevel = valuesFromEnv.LogLevel
	}

	if valuesFromEnv.TrustedSubnet != "" {
		cfg.TrustedSubnet = valuesFromEnv.TrustedSubnet
	}

	if valuesFromEnv.ShutdownTimeout != 0 {
		cfg.ShutdownTimeout = valuesFromEnv.ShutdownTimeout
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
