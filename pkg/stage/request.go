package stage

import (
	"github.com/Azure/automata/pkg/config"
	"github.com/Azure/automata/pkg/core/analysis"
)

// Request is the read-only context handed to the build, test and deploy
// adapters. Skip asks the adapter to return a skipped outcome without
// touching the filesystem or spawning processes.
type Request struct {
	Root      string
	Settings  config.Settings
	Detection analysis.Result
	Skip      bool
}
