package pipeline

import (
	"context"

	"github.com/Azure/automata/pkg/config"
	"github.com/Azure/automata/pkg/core/analysis"
	"github.com/Azure/automata/pkg/stage"
)

// Detector scans the project tree for ecosystem markers.
type Detector interface {
	Detect(root string, settings config.Settings) (analysis.Result, error)
}

// Builder performs the build stage. Tool failures are reported on the
// outcome, never returned.
type Builder interface {
	Build(ctx context.Context, req stage.Request) stage.Outcome
}

// Tester performs the test stage with the same failure policy as Builder.
type Tester interface {
	Test(ctx context.Context, req stage.Request) stage.Outcome
}

// Deployer performs the deploy stage. Only image build and push failures
// come back as errors.
type Deployer interface {
	Deploy(ctx context.Context, req stage.Request) (stage.Outcome, error)
}

// ConfigLoader reads the settings file at path.
type ConfigLoader func(path string) (config.Settings, error)

// Dependencies are the collaborators a Pipeline drives.
type Dependencies struct {
	LoadConfig ConfigLoader
	Detector   Detector
	Builder    Builder
	Tester     Tester
	Deployer   Deployer
}

// Options select what a single run does.
type Options struct {
	Root string
	// ConfigPath defaults to automata.yml in Root.
	ConfigPath string
	Scope      stage.Scope
}
