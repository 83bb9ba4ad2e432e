// Package stage holds the vocabulary shared by the pipeline and its adapters:
// stage names, the caller-selected scope, and per-stage outcomes.
package stage

import (
	"fmt"
	"strings"

	"github.com/Azure/automata/pkg/domain/errors"
)

// Name identifies one phase of the pipeline.
type Name string

const (
	Detect Name = "detect"
	Build  Name = "build"
	Test   Name = "test"
	Deploy Name = "deploy"
)

// Scope is the caller-selected subset of stages for one invocation.
type Scope string

const (
	ScopeAll    Scope = "all"
	ScopeDetect Scope = Scope(Detect)
	ScopeBuild  Scope = Scope(Build)
	ScopeTest   Scope = Scope(Test)
	ScopeDeploy Scope = Scope(Deploy)
)

// Scopes lists every accepted scope value in pipeline order.
var Scopes = []Scope{ScopeAll, ScopeDetect, ScopeBuild, ScopeTest, ScopeDeploy}

// ParseScope accepts the scope names case-insensitively. An empty string
// means ScopeAll.
func ParseScope(s string) (Scope, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ScopeAll, nil
	}
	for _, scope := range Scopes {
		if string(scope) == s {
			return scope, nil
		}
	}
	return "", errors.New(errors.CodeInvalidParameter, "pipeline",
		fmt.Sprintf("unknown stage %q, expected one of all, detect, build, test, deploy", s), nil)
}

// Skips reports whether the named stage runs with skip=true under this scope.
func (s Scope) Skips(name Name) bool {
	return s != ScopeAll && s != Scope(name)
}

// Status is the coarse result of a stage.
type Status string

const (
	StatusSkipped Status = "skipped"
	StatusSuccess Status = "success"
)

// Diagnostic records one suppressed tool failure.
type Diagnostic struct {
	Ecosystem string      `json:"ecosystem,omitempty"`
	Step      string      `json:"step"`
	Command   string      `json:"command"`
	Code      errors.Code `json:"code"`
	Message   string      `json:"message"`
}

// Outcome is what every adapter returns to the orchestrator.
type Outcome struct {
	Stage       Name         `json:"stage"`
	Status      Status       `json:"status"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// Skipped builds the outcome of a bypassed stage.
func Skipped(name Name) Outcome {
	return Outcome{Stage: name, Status: StatusSkipped}
}

// Succeeded builds a success outcome carrying any suppressed failures.
func Succeeded(name Name, diags []Diagnostic) Outcome {
	return Outcome{Stage: name, Status: StatusSuccess, Diagnostics: diags}
}

// Suppressed reports how many failures were swallowed during the stage.
func (o Outcome) Suppressed() int {
	return len(o.Diagnostics)
}
