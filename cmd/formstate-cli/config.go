package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// config holds the CLI settings. Environment variables provide defaults and
// flags override them.
type config struct {
	Schema      string        `env:"FORMSTATE_SCHEMA"`
	OpenAPI     string        `env:"FORMSTATE_OPENAPI"`
	Operation   string        `env:"FORMSTATE_OPERATION"`
	Output      string        `env:"FORMSTATE_OUTPUT"`
	Format      string        `env:"FORMSTATE_FORMAT" envDefault:"json"`
	Secret      []string      `env:"FORMSTATE_SECRET" envSeparator:","`
	ValidateOn  string        `env:"FORMSTATE_VALIDATE_ON"`
	MaxAttempts int           `env:"FORMSTATE_MAX_ATTEMPTS" envDefault:"0"`
	HTTPTimeout time.Duration `env:"FORMSTATE_HTTP_TIMEOUT" envDefault:"10s"`
	LogLevel    string        `env:"FORMSTATE_LOG_LEVEL" envDefault:"warn"`
	LogFormat   string        `env:"FORMSTATE_LOG_FORMAT" envDefault:"text"`
}

func loadConfig(args []string, environ map[string]string, usage io.Writer) (config, error) {
	var cfg config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return config{}, fmt.Errorf("environment: %w", err)
	}

	fs := flag.NewFlagSet("formstate-cli", flag.ContinueOnError)
	fs.SetOutput(usage)
	fs.StringVar(&cfg.Schema, "schema", cfg.Schema, "YAML or JSON schema document")
	fs.StringVar(&cfg.OpenAPI, "openapi", cfg.OpenAPI, "OpenAPI document path or URL")
	fs.StringVar(&cfg.Operation, "operation", cfg.Operation, "operation ID whose request body backs the form")
	fs.StringVar(&cfg.Output, "output", cfg.Output, "output file (stdout if empty)")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "output format: json, form or pretty")
	fs.StringVar(&cfg.ValidateOn, "validate-on", cfg.ValidateOn, "override the trigger: blur or change")
	fs.IntVar(&cfg.MaxAttempts, "max-attempts", cfg.MaxAttempts, "attempts per field before giving up (0 = unlimited)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	secret := fs.String("secret", strings.Join(cfg.Secret, ","), "comma separated fields prompted without echo")
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}
	cfg.Secret = splitList(*secret)

	switch {
	case cfg.Schema == "" && cfg.OpenAPI == "":
		return config{}, errors.New("one of -schema or -openapi is required")
	case cfg.Schema != "" && cfg.OpenAPI != "":
		return config{}, errors.New("-schema and -openapi are mutually exclusive")
	}
	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
