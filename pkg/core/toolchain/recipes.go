// Package toolchain dispatches the build and test stages to each detected
// ecosystem's canonical tools. Dispatch is a fixed table: every ecosystem
// maps to an ordered list of steps, and every step to the alternatives that
// may perform it.
package toolchain

import (
	"strings"

	"github.com/Azure/automata/pkg/core/analysis"
)

// Command is one external tool invocation.
type Command struct {
	Name string
	Args []string
}

func cmd(name string, args ...string) Command {
	return Command{Name: name, Args: args}
}

// Argv returns the full argument vector.
func (c Command) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

func (c Command) String() string {
	return strings.Join(c.Argv(), " ")
}

// Alternative is one way of performing a step. It is eligible when any of
// its marker files exists at the project root; no markers means always
// eligible. Fallbacks run in order after Command fails, stopping at the
// first success.
type Alternative struct {
	Markers   []string
	Command   Command
	Fallbacks []Command
}

// Step is a named unit of work. The first eligible alternative is the one
// that runs; marker preference is decided here, never by command failure.
// A step with no eligible alternative does nothing.
type Step struct {
	Name         string
	Alternatives []Alternative
}

// Recipe lists the build and test steps of one ecosystem.
type Recipe struct {
	Build []Step
	Test  []Step
}

// Recipes returns the dispatch table for the given GOOS. Windows uses the
// .cmd/.bat wrapper variants.
func Recipes(goos string) map[analysis.Ecosystem]Recipe {
	windows := goos == "windows"

	npm := "npm"
	mvnw, gradlew := "./mvnw", "./gradlew"
	if windows {
		npm = "npm.cmd"
		mvnw, gradlew = `.\mvnw.cmd`, `.\gradlew.bat`
	}

	pipInstall := cmd("pip", "install", "-r", "requirements.txt")

	return map[analysis.Ecosystem]Recipe{
		analysis.Node: {
			Build: []Step{
				{Name: "install", Alternatives: []Alternative{
					{Markers: []string{"pnpm-lock.yaml"}, Command: cmd("pnpm", "install", "--frozen-lockfile"), Fallbacks: []Command{cmd(npm, "ci")}},
					{Markers: []string{"yarn.lock"}, Command: cmd("yarn", "install", "--frozen-lockfile"), Fallbacks: []Command{cmd(npm, "ci")}},
					{Markers: []string{"package-lock.json"}, Command: cmd(npm, "ci"), Fallbacks: []Command{cmd(npm, "install")}},
					{Command: cmd(npm, "install")},
				}},
				{Name: "build", Alternatives: []Alternative{
					{Command: cmd(npm, "run", "build", "--if-present")},
				}},
			},
			Test: []Step{
				{Name: "test", Alternatives: []Alternative{
					{Command: cmd(npm, "test", "--silent", "--if-present")},
				}},
			},
		},
		analysis.Python: {
			Build: []Step{
				{Name: "install", Alternatives: []Alternative{
					{Markers: []string{"uv.lock"}, Command: cmd("uv", "sync")},
					{Markers: []string{"poetry.lock", "pyproject.toml"}, Command: cmd("poetry", "install", "--no-root"), Fallbacks: []Command{pipInstall}},
					{Markers: []string{"requirements.txt"}, Command: pipInstall},
				}},
			},
			Test: []Step{
				{Name: "test", Alternatives: []Alternative{
					{Command: cmd("pytest", "-q"), Fallbacks: []Command{cmd("python", "-m", "unittest", "discover")}},
				}},
			},
		},
		analysis.Java: {
			Build: []Step{
				{Name: "package", Alternatives: []Alternative{
					{Markers: []string{"mvnw"}, Command: cmd(mvnw, "-B", "package", "-DskipTests")},
					{Markers: []string{"pom.xml"}, Command: cmd("mvn", "-B", "package", "-DskipTests")},
					{Markers: []string{"gradlew"}, Command: cmd(gradlew, "build", "-x", "test")},
					{Markers: []string{"build.gradle", "build.gradle.kts"}, Command: cmd("gradle", "build", "-x", "test")},
				}},
			},
			Test: []Step{
				{Name: "test", Alternatives: []Alternative{
					{Command: cmd("mvn", "-B", "test"), Fallbacks: []Command{cmd("gradle", "test")}},
				}},
			},
		},
		analysis.Go: {
			Build: []Step{{Name: "build", Alternatives: []Alternative{{Command: cmd("go", "build", "./...")}}}},
			Test:  []Step{{Name: "test", Alternatives: []Alternative{{Command: cmd("go", "test", "./...")}}}},
		},
		analysis.Rust: {
			Build: []Step{{Name: "build", Alternatives: []Alternative{{Command: cmd("cargo", "build", "--release")}}}},
			Test:  []Step{{Name: "test", Alternatives: []Alternative{{Command: cmd("cargo", "test", "--all")}}}},
		},
	}
}

// shell wraps a free-form command line for the platform shell.
func shell(goos, line string) Command {
	if goos == "windows" {
		return cmd("cmd", "/C", line)
	}
	return cmd("sh", "-c", line)
}
