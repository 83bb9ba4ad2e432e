// Package pipeline sequences the detect, build, test and deploy stages for
// one project directory.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Azure/automata/pkg/config"
	"github.com/Azure/automata/pkg/domain/errors"
	"github.com/Azure/automata/pkg/logger"
	"github.com/Azure/automata/pkg/stage"
	"github.com/rs/zerolog"
)

// Pipeline runs Detect → Build → Test → Deploy in that order, once.
type Pipeline struct {
	deps    Dependencies
	out     io.Writer
	lock    bool
	lockDir string
	logger  zerolog.Logger
}

type Option func(*Pipeline)

// WithOutput sets where the detect scope writes its JSON result.
func WithOutput(out io.Writer) Option {
	return func(p *Pipeline) {
		p.out = out
	}
}

// WithoutLock lets concurrent runs against the same project proceed.
func WithoutLock() Option {
	return func(p *Pipeline) {
		p.lock = false
	}
}

// WithLockDir overrides the directory lock files are kept in.
func WithLockDir(dir string) Option {
	return func(p *Pipeline) {
		p.lockDir = dir
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = l
	}
}

// New constructs a Pipeline. Every dependency must be set.
func New(deps Dependencies, opts ...Option) *Pipeline {
	if deps.LoadConfig == nil || deps.Detector == nil || deps.Builder == nil || deps.Tester == nil || deps.Deployer == nil {
		panic("pipeline dependencies must all be non-nil")
	}
	p := &Pipeline{
		deps:    deps,
		out:     os.Stdout,
		lock:    true,
		lockDir: os.TempDir(),
		logger:  logger.Logger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With().Str("component", "pipeline").Logger()
	return p
}

// Run executes one pipeline invocation. The report is returned even when
// the run fails so the caller can persist what happened.
//
// Scope detect stops after printing the detection result. Scope build
// returns once Build completes and scope test once Test completes. Stages
// before the selected one are still invoked, with Skip set.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Report, error) {
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, errors.New(errors.CodeInvalidParameter, "pipeline", fmt.Sprintf("resolving %s", opts.Root), err)
	}
	scope := opts.Scope
	if scope == "" {
		scope = stage.ScopeAll
	}

	report := newReport(root, scope)
	err = p.run(ctx, root, opts.ConfigPath, scope, report)
	report.finish(ctx, err)

	log := p.logger.Info()
	if err != nil {
		log = p.logger.Error().Err(err)
	}
	log.Str("run_id", report.RunID).
		Str("outcome", string(report.Outcome)).
		Int("suppressed_failures", report.Suppressed()).
		Msg("Pipeline finished")
	return report, err
}

func (p *Pipeline) run(ctx context.Context, root, configPath string, scope stage.Scope, report *Report) error {
	if configPath == "" {
		configPath = filepath.Join(root, config.DefaultFileName)
	}
	settings, err := p.deps.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if p.lock {
		l, err := acquireLock(LockPath(p.lockDir, root))
		if err != nil {
			return err
		}
		defer func() {
			if err := l.release(); err != nil {
				p.logger.Warn().Err(err).Msg("Releasing run lock")
			}
		}()
	}

	report.Revision = headRevision(root)
	p.logger.Info().
		Str("run_id", report.RunID).
		Str("root", root).
		Str("scope", string(scope)).
		Str("revision", report.Revision).
		Msg("Starting pipeline")

	detection, err := p.deps.Detector.Detect(root, settings)
	if err != nil {
		return errors.New(errors.CodeIoError, "pipeline", fmt.Sprintf("detecting ecosystems in %s", root), err)
	}
	report.Detection = detection
	report.record(stage.Succeeded(stage.Detect, nil))
	if err := interrupted(ctx, stage.Detect); err != nil {
		return err
	}

	if scope == stage.ScopeDetect {
		data, err := json.MarshalIndent(detection, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling detection result: %w", err)
		}
		fmt.Fprintln(p.out, string(data))
		return nil
	}

	req := func(name stage.Name) stage.Request {
		return stage.Request{
			Root:      root,
			Settings:  settings,
			Detection: detection,
			Skip:      scope.Skips(name),
		}
	}

	report.record(p.deps.Builder.Build(ctx, req(stage.Build)))
	if err := interrupted(ctx, stage.Build); err != nil || scope == stage.ScopeBuild {
		return err
	}

	report.record(p.deps.Tester.Test(ctx, req(stage.Test)))
	if err := interrupted(ctx, stage.Test); err != nil || scope == stage.ScopeTest {
		return err
	}

	outcome, err := p.deps.Deployer.Deploy(ctx, req(stage.Deploy))
	if err != nil {
		return fmt.Errorf("deploy: %w", err)
	}
	report.record(outcome)
	return interrupted(ctx, stage.Deploy)
}

// interrupted reports a cancelled or expired run context. Build and test
// turn the resulting tool failures into diagnostics, so the context is the
// only place the timeout is visible.
func interrupted(ctx context.Context, after stage.Name) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("run interrupted after %s: %w", after, err)
	}
	return nil
}
