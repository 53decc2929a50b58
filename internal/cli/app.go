package cli

import (
	"fmt"

	"docvet/internal/config"
	"docvet/internal/email/noop"
	"docvet/internal/email/ses"
	"docvet/internal/port"
	"docvet/internal/repository"
	"docvet/internal/service"
	"docvet/internal/source"
	"docvet/internal/validator"
	"docvet/internal/validator/kinds"
)

// app is the wired runner and the resources it holds.
type app struct {
	registry *validator.Registry
	runRepo  port.RunRepository
	svc      service.ValidationService
}

func (a *app) Close() error {
	return a.runRepo.Close()
}

// newApp wires the registry, run store, notifier, and runner from cfg.
func newApp(cfg *config.Config) (*app, error) {
	src := source.New(appFs)

	registry, err := kinds.Load(cfg, src)
	if err != nil {
		return nil, fmt.Errorf("loading document kinds: %w", err)
	}

	notifier, err := newNotifier(&cfg.Email)
	if err != nil {
		return nil, err
	}

	runRepo, err := repository.Open(&cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("opening run store: %w", err)
	}

	svc := service.NewValidationService(registry, src, runRepo, notifier, service.ValidationConfig{
		Concurrency: cfg.Validate.Concurrency,
	})
	return &app{registry: registry, runRepo: runRepo, svc: svc}, nil
}

func newNotifier(cfg *config.EmailConfig) (port.RunNotifier, error) {
	switch cfg.Provider {
	case "", "noop":
		return noop.NewNoopNotifier(), nil
	case "ses":
		n, err := ses.NewSESNotifier(cfg.Region, cfg.FromAddress, cfg.FromName, cfg.Recipients)
		if err != nil {
			return nil, fmt.Errorf("creating SES notifier: %w", err)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}
