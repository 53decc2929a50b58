package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"docvet/internal/domain"
	"docvet/internal/logger"
	"docvet/internal/metrics"
	"docvet/internal/parser"
	"docvet/internal/port"
	"docvet/internal/source"
	"docvet/internal/validator"
)

// Target selects documents of one kind: a single Path, or every file in Dir
// ending with Ext.
type Target struct {
	Kind string
	Path string
	Dir  string
	Ext  string
}

// Where describes the target location for messages.
func (t Target) Where() string {
	if t.Path != "" {
		return t.Path
	}
	return t.Dir
}

// TargetFor returns the default target of a registered kind.
func TargetFor(k *validator.Kind) Target {
	return Target{Kind: k.Name, Path: k.Path, Dir: k.Dir, Ext: k.Ext}
}

// ValidationService runs batches of documents through their kind's rule set.
type ValidationService interface {
	// Run validates every document the targets resolve to. Documents that cannot
	// be loaded become failed reports; the run itself fails only when a listing
	// directory is missing or no documents were found at all.
	Run(ctx context.Context, targets []Target) (*domain.RunResult, error)
	ValidateBytes(ctx context.Context, kind, id string, raw []byte) (*domain.ValidationReport, error)
	Kinds() []*validator.Kind
	ListRuns(ctx context.Context, limit int) ([]domain.RunSummary, error)
	GetRun(ctx context.Context, id uuid.UUID) (*domain.RunSummary, error)
}

// ValidationConfig tunes the runner.
type ValidationConfig struct {
	// Concurrency bounds how many documents are validated at once; values below 1 mean 1.
	Concurrency int
}

type validationService struct {
	registry *validator.Registry
	engine   *validator.Engine
	src      source.DocumentSource
	runRepo  port.RunRepository
	notifier port.RunNotifier
	cfg      ValidationConfig
	log      *zap.SugaredLogger
}

// NewValidationService creates a new ValidationService implementation.
func NewValidationService(
	registry *validator.Registry,
	src source.DocumentSource,
	runRepo port.RunRepository,
	notifier port.RunNotifier,
	cfg ValidationConfig,
) ValidationService {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &validationService{
		registry: registry,
		engine:   validator.NewEngine(),
		src:      src,
		runRepo:  runRepo,
		notifier: notifier,
		cfg:      cfg,
		log:      logger.For(logger.ComponentRunner),
	}
}

type job struct {
	kind *validator.Kind
	path string
}

func (s *validationService) Run(ctx context.Context, targets []Target) (*domain.RunResult, error) {
	started := time.Now().UTC()

	jobs, err := s.discover(targets)
	if errors.Is(err, domain.ErrNoDocumentsFound) {
		metrics.ObserveNoDocuments()
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		metrics.ObserveNoDocuments()
		return nil, domain.ErrNoDocumentsFound
	}
	s.log.Debugw("validating documents", "documents", len(jobs), "concurrency", s.cfg.Concurrency)

	reports := make([]domain.ValidationReport, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for i := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report, err := s.validateFile(jobs[i].kind, jobs[i].path)
			if err != nil {
				return err
			}
			reports[i] = *report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	run := &domain.RunResult{
		ID:         uuid.New(),
		StartedAt:  started,
		FinishedAt: time.Now().UTC(),
		Reports:    reports,
		Passed:     true,
	}
	for i := range reports {
		if !reports[i].Passed {
			run.Passed = false
		}
	}

	metrics.ObserveRun(run)
	s.record(ctx, run)
	return run, nil
}

// discover resolves targets to documents in target order, listings sorted by name.
// Every listing must match at least one document.
func (s *validationService) discover(targets []Target) ([]job, error) {
	var jobs []job
	for _, t := range targets {
		k, err := s.registry.Get(t.Kind)
		if err != nil {
			return nil, err
		}
		if t.Path != "" {
			jobs = append(jobs, job{kind: k, path: t.Path})
			continue
		}
		ext := t.Ext
		if ext == "" {
			ext = k.Ext
		}
		paths, err := s.src.List(t.Dir, ext)
		if err != nil {
			return nil, fmt.Errorf("listing %s documents: %w", k.Name, err)
		}
		if len(paths) == 0 {
			return nil, &domain.NoDocumentsError{Kind: k.Name, Dir: t.Dir}
		}
		for _, p := range paths {
			jobs = append(jobs, job{kind: k, path: p})
		}
	}
	return jobs, nil
}

func (s *validationService) validateFile(k *validator.Kind, path string) (*domain.ValidationReport, error) {
	raw, err := s.src.Read(path)
	if err != nil {
		kind := domain.LoadReadError
		if errors.Is(err, domain.ErrNotFound) {
			kind = domain.LoadNotFound
		}
		s.log.Debugw("document not loaded", "path", path, "error", err)
		return validator.Failed(path, k.Name, 0, domain.LoadFailure{Kind: kind, Message: err.Error()}), nil
	}
	return s.validate(k, path, raw)
}

func (s *validationService) validate(k *validator.Kind, id string, raw []byte) (*domain.ValidationReport, error) {
	doc, err := parser.Parse(id, raw, k.Format)
	if err != nil {
		if errors.Is(err, domain.ErrSyntax) && k.TextRules {
			s.log.Debugw("checking unparsed document as text", "document", id, "error", err)
			doc = &domain.Document{ID: id, Format: k.Format, Raw: raw, Size: len(raw)}
			return s.engine.Validate(doc, k.Rules)
		}
		if errors.Is(err, domain.ErrSyntax) {
			return validator.Failed(id, k.Name, len(raw), domain.LoadFailure{
				Kind:    domain.LoadSyntaxError,
				Message: err.Error(),
			}), nil
		}
		return nil, err
	}
	return s.engine.Validate(doc, k.Rules)
}

// record persists the run and notifies on failure. Neither step can fail the run.
func (s *validationService) record(ctx context.Context, run *domain.RunResult) {
	if err := s.runRepo.Save(ctx, run); err != nil {
		s.log.Warnw("failed to store validation run", "run_id", run.ID, "error", err)
	}
	if run.Passed {
		return
	}
	if err := s.notifier.NotifyRunFailed(ctx, run); err != nil {
		s.log.Warnw("failed to send failed-run notification", "run_id", run.ID, "error", err)
	}
}

func (s *validationService) ValidateBytes(_ context.Context, kind, id string, raw []byte) (*domain.ValidationReport, error) {
	k, err := s.registry.Get(kind)
	if err != nil {
		return nil, err
	}
	report, err := s.validate(k, id, raw)
	if err != nil {
		return nil, err
	}
	metrics.ObserveReport(report)
	return report, nil
}

func (s *validationService) Kinds() []*validator.Kind {
	return s.registry.All()
}

func (s *validationService) ListRuns(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.runRepo.List(ctx, limit)
}

func (s *validationService) GetRun(ctx context.Context, id uuid.UUID) (*domain.RunSummary, error) {
	return s.runRepo.GetByID(ctx, id)
}
