// Package analysis maps the files of a project tree to the set of language
// ecosystems the pipeline knows how to build, test and deploy.
package analysis

import (
	"fmt"
	"time"

	"github.com/Azure/automata/pkg/config"
	"github.com/Azure/automata/pkg/filetree"
	"github.com/rs/zerolog"
)

// Ecosystem is a tag from the fixed detection vocabulary.
type Ecosystem string

const (
	Node   Ecosystem = "node"
	Python Ecosystem = "python"
	Java   Ecosystem = "java"
	Go     Ecosystem = "go"
	Rust   Ecosystem = "rust"
	// Docker is a pseudo-ecosystem. It never drives build or test dispatch,
	// only deploy planning.
	Docker Ecosystem = "docker"
)

// marker ties a set of characteristic file names to an ecosystem. Rows are
// evaluated in order, which fixes the tag order of every Result.
type marker struct {
	ecosystem Ecosystem
	files     []string
}

var markers = []marker{
	{Node, []string{"package.json"}},
	{Python, []string{"requirements.txt", "pyproject.toml"}},
	{Java, []string{"pom.xml", "build.gradle", "build.gradle.kts"}},
	{Go, []string{"go.mod"}},
	{Rust, []string{"Cargo.toml"}},
	{Docker, []string{"Dockerfile"}},
}

// Result is the immutable output of detection.
type Result struct {
	Languages []Ecosystem `json:"languages"`
	Files     []string    `json:"files"`
}

// Has reports whether the tag was detected.
func (r Result) Has(e Ecosystem) bool {
	for _, l := range r.Languages {
		if l == e {
			return true
		}
	}
	return false
}

// Ecosystems returns the detected tags that have build and test recipes,
// in detection order.
func (r Result) Ecosystems() []Ecosystem {
	out := make([]Ecosystem, 0, len(r.Languages))
	for _, l := range r.Languages {
		if l != Docker {
			out = append(out, l)
		}
	}
	return out
}

// Detector scans project trees.
type Detector struct {
	logger  zerolog.Logger
	ignores []string
}

// NewDetector creates a detector that skips version-control metadata and
// dependency caches.
func NewDetector(logger zerolog.Logger) *Detector {
	return &Detector{
		logger:  logger.With().Str("component", "ecosystem_detector").Logger(),
		ignores: filetree.DefaultIgnores,
	}
}

// Detect enumerates every regular file under root and tags each ecosystem
// whose marker file name is a case-insensitive suffix of some scanned path.
// Settings are accepted for future override hooks and do not alter the
// result today.
func (d *Detector) Detect(root string, _ config.Settings) (Result, error) {
	startTime := time.Now()

	files, err := filetree.Walk(root, d.ignores)
	if err != nil {
		return Result{}, fmt.Errorf("scanning %s: %w", root, err)
	}
	if files == nil {
		files = []string{}
	}

	languages := []Ecosystem{}
	for _, m := range markers {
		for _, name := range m.files {
			if filetree.HasSuffixFold(files, name) {
				languages = append(languages, m.ecosystem)
				break
			}
		}
	}

	d.logger.Debug().
		Str("root", root).
		Int("files", len(files)).
		Interface("languages", languages).
		Dur("elapsed", time.Since(startTime)).
		Msg("Ecosystem detection completed")

	return Result{Languages: languages, Files: files}, nil
}
