package toolchain

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/Azure/automata/pkg/domain/errors"
	"github.com/Azure/automata/pkg/runner"
	"github.com/Azure/automata/pkg/stage"
	"github.com/rs/zerolog"
)

// maxDiagnosticOutput bounds how much tool output is kept per diagnostic.
const maxDiagnosticOutput = 2048

// Executor runs steps on a best-effort basis: tool failures never propagate
// to the caller, they come back as diagnostics.
type Executor struct {
	runner runner.CommandRunner
	logger zerolog.Logger
}

func NewExecutor(r runner.CommandRunner, logger zerolog.Logger) *Executor {
	return &Executor{runner: r, logger: logger}
}

// Select returns the first alternative whose markers are present at root.
func Select(root string, step Step) (Alternative, bool) {
	for _, alt := range step.Alternatives {
		if len(alt.Markers) == 0 {
			return alt, true
		}
		for _, m := range alt.Markers {
			if _, err := os.Stat(filepath.Join(root, m)); err == nil {
				return alt, true
			}
		}
	}
	return Alternative{}, false
}

// RunStep performs one step for one ecosystem.
func (e *Executor) RunStep(ctx context.Context, root, ecosystem string, step Step) []stage.Diagnostic {
	alt, ok := Select(root, step)
	if !ok {
		e.logger.Debug().Str("ecosystem", ecosystem).Str("step", step.Name).Msg("No applicable command, skipping step")
		return nil
	}

	var diags []stage.Diagnostic
	for _, c := range append([]Command{alt.Command}, alt.Fallbacks...) {
		diag, ok := e.Run(ctx, root, ecosystem, step.Name, c)
		if ok {
			return diags
		}
		diags = append(diags, diag)
	}
	return diags
}

// Run invokes a single command and converts a failure into a diagnostic.
func (e *Executor) Run(ctx context.Context, root, ecosystem, stepName string, c Command) (stage.Diagnostic, bool) {
	e.logger.Debug().Str("ecosystem", ecosystem).Str("step", stepName).Msgf("Running %s", c)

	output, err := e.runner.RunCommand(ctx, root, c.Argv()...)
	if err == nil {
		return stage.Diagnostic{}, true
	}

	e.logger.Warn().
		Err(err).
		Str("ecosystem", ecosystem).
		Str("step", stepName).
		Str("command", c.String()).
		Msg("Command failed, continuing")

	message := err.Error()
	if tail := tailOutput(output); tail != "" {
		message += ": " + tail
	}
	return stage.Diagnostic{
		Ecosystem: ecosystem,
		Step:      stepName,
		Command:   c.String(),
		Code:      errors.CodeToolExecutionFailed,
		Message:   message,
	}, false
}

func tailOutput(output string) string {
	output = strings.TrimSpace(output)
	if len(output) > maxDiagnosticOutput {
		output = "..." + output[len(output)-maxDiagnosticOutput:]
	}
	return output
}
