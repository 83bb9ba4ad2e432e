package toolchain

import (
	"context"
	"runtime"

	"github.com/Azure/automata/pkg/config"
	"github.com/Azure/automata/pkg/core/analysis"
	"github.com/Azure/automata/pkg/runner"
	"github.com/Azure/automata/pkg/stage"
	"github.com/rs/zerolog"
)

// Toolchain is the build and test adapter.
type Toolchain struct {
	executor *Executor
	recipes  map[analysis.Ecosystem]Recipe
	goos     string
	logger   zerolog.Logger
}

type Option func(*Toolchain)

// WithGOOS selects the platform variant of the recipe table.
func WithGOOS(goos string) Option {
	return func(t *Toolchain) {
		t.goos = goos
	}
}

func New(r runner.CommandRunner, logger zerolog.Logger, opts ...Option) *Toolchain {
	t := &Toolchain{
		goos:   runtime.GOOS,
		logger: logger.With().Str("component", "toolchain").Logger(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.recipes = Recipes(t.goos)
	t.executor = NewExecutor(r, t.logger)
	return t
}

// Build runs every detected ecosystem's install and build steps in
// detection order. The outcome is success once the loop completes; failed
// commands are reported as diagnostics only.
func (t *Toolchain) Build(ctx context.Context, req stage.Request) stage.Outcome {
	return t.run(ctx, stage.Build, req, func(r Recipe) []Step { return r.Build })
}

// Test runs every detected ecosystem's test command with the same failure
// policy as Build.
func (t *Toolchain) Test(ctx context.Context, req stage.Request) stage.Outcome {
	return t.run(ctx, stage.Test, req, func(r Recipe) []Step { return r.Test })
}

func (t *Toolchain) run(ctx context.Context, phase stage.Name, req stage.Request, steps func(Recipe) []Step) stage.Outcome {
	if req.Skip {
		t.logger.Debug().Str("stage", string(phase)).Msg("Stage skipped")
		return stage.Skipped(phase)
	}

	var diags []stage.Diagnostic
	for _, eco := range req.Detection.Ecosystems() {
		if line, ok := config.CommandOverride(req.Settings, string(phase), string(eco)); ok {
			t.logger.Info().Str("ecosystem", string(eco)).Msgf("Using configured %s command", phase)
			if diag, ok := t.executor.Run(ctx, req.Root, string(eco), string(phase), shell(t.goos, line)); !ok {
				diags = append(diags, diag)
			}
			continue
		}

		recipe, ok := t.recipes[eco]
		if !ok {
			continue
		}
		for _, step := range steps(recipe) {
			diags = append(diags, t.executor.RunStep(ctx, req.Root, string(eco), step)...)
		}
	}

	t.logger.Info().
		Str("stage", string(phase)).
		Int("suppressed_failures", len(diags)).
		Msg("Stage completed")
	return stage.Succeeded(phase, diags)
}
