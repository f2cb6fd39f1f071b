package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/goliatone/go-formstate"
	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/logger"
	pkgopenapi "github.com/goliatone/go-formstate/pkg/openapi"
	"github.com/goliatone/go-formstate/pkg/orchestrator"
	"github.com/goliatone/go-formstate/pkg/renderers/tui"
	"github.com/goliatone/go-formstate/pkg/schema"
)

const exitAborted = 130

func main() {
	// a missing .env is fine
	_ = godotenv.Load()

	cfg, err := loadConfig(os.Args[1:], env.ToMap(os.Environ()), os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "formstate-cli: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// prompts share stderr so stdout only carries the submitted form
	driver := tui.NewSurveyDriver(os.Stderr, survey.WithStdio(os.Stdin, os.Stderr, os.Stderr))
	err = run(ctx, cfg, driver, os.Stdout, os.Stderr)
	switch {
	case err == nil:
	case errors.Is(err, tui.ErrAborted), errors.Is(err, context.Canceled):
		fmt.Fprintln(os.Stderr, "aborted")
		os.Exit(exitAborted)
	default:
		fmt.Fprintf(os.Stderr, "formstate-cli: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config, driver tui.PromptDriver, stdout, stderr io.Writer) error {
	log, err := newLogger(cfg, stderr)
	if err != nil {
		return err
	}
	format, ok := tui.ParseOutputFormat(cfg.Format)
	if !ok {
		return fmt.Errorf("unsupported format %q", cfg.Format)
	}

	f, err := buildForm(ctx, cfg, log)
	if err != nil {
		return err
	}
	if err := f.SetInitialModel(nil); err != nil {
		return err
	}

	renderer, err := tui.New(
		tui.WithPromptDriver(driver),
		tui.WithOutputFormat(format),
		tui.WithSecretFields(cfg.Secret...),
		tui.WithMaxAttempts(cfg.MaxAttempts),
		tui.WithTheme(tui.Theme{ErrorPrefix: "  ✗ "}),
		tui.WithLogger(log),
	)
	if err != nil {
		return err
	}

	out, err := renderer.Render(ctx, f)
	if err != nil {
		return err
	}

	if cfg.Output == "" {
		_, err := fmt.Fprintln(stdout, string(out))
		return err
	}
	if err := os.WriteFile(cfg.Output, out, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	log.Info("form written", slog.String("path", cfg.Output))
	return nil
}

func buildForm(ctx context.Context, cfg config, log *slog.Logger) (*form.Form, error) {
	trigger := form.Trigger(cfg.ValidateOn)

	if cfg.Schema != "" {
		doc, err := schema.LoadFile(cfg.Schema)
		if err != nil {
			return nil, err
		}
		log.Debug("schema loaded", logger.Source(cfg.Schema), slog.Int("fields", len(doc.Fields)))
		return form.New(form.Config{ValidateOn: trigger, Schema: doc}, form.WithLogger(log))
	}

	src, err := pkgopenapi.SourceFromLocation(cfg.OpenAPI)
	if err != nil {
		return nil, err
	}
	orch := orchestrator.New(
		orchestrator.WithLoader(newLoader(cfg)),
		orchestrator.WithFormOptions(form.WithLogger(log)),
	)
	req := orchestrator.Request{Source: src, OperationID: cfg.Operation, ValidateOn: trigger}

	if cfg.Operation == "" {
		ids, err := orch.Operations(ctx, req)
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("-operation is required; available: %s", strings.Join(ids, ", "))
	}
	log.Debug("building form from operation", logger.Source(cfg.OpenAPI), slog.String("operation", cfg.Operation))
	return orch.Form(ctx, req)
}

func newLoader(cfg config) pkgopenapi.Loader {
	return formstate.NewLoader(pkgopenapi.WithHTTPFallback(cfg.HTTPTimeout))
}

func newLogger(cfg config, w io.Writer) (*slog.Logger, error) {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	format, err := logger.ParseFormat(cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	return logger.New(
		logger.WithLevel(level),
		logger.WithFormat(format),
		logger.WithOutput(w),
		logger.WithAttr(logger.Component("formstate-cli")),
	), nil
}
