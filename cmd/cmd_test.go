package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Azure/automata/pkg/config"
	"github.com/Azure/automata/pkg/core/analysis"
	"github.com/Azure/automata/pkg/domain/errors"
	"github.com/Azure/automata/pkg/logger"
	"github.com/Azure/automata/pkg/pipeline"
	"github.com/Azure/automata/pkg/stage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestResolveDir(t *testing.T) {
	dir := t.TempDir()
	got, err := resolveDir(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	_, err = resolveDir(filepath.Join(dir, "missing"))
	assert.True(t, errors.HasCode(err, errors.CodeFileNotFound))

	file := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = resolveDir(file)
	assert.True(t, errors.HasCode(err, errors.CodeInvalidParameter))
}

func TestResolveConfigPath(t *testing.T) {
	dir := filepath.FromSlash("/work/app")
	tests := []struct {
		name       string
		configPath string
		want       string
	}{
		{name: "empty uses default", configPath: "", want: filepath.Join(dir, config.DefaultFileName)},
		{name: "relative to project", configPath: "ci/automata.toml", want: filepath.Join(dir, "ci/automata.toml")},
		{name: "absolute kept", configPath: filepath.Join(os.TempDir(), "a.json"), want: filepath.Join(os.TempDir(), "a.json")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveConfigPath(dir, tt.configPath))
		})
	}
}

func TestLoadEnv(t *testing.T) {
	const key = "AUTOMATA_CMD_TEST_REGISTRY_TOKEN"
	t.Cleanup(func() { os.Unsetenv(key) })

	dir := t.TempDir()
	require.NoError(t, loadEnv(dir, ""), "missing default .env is fine")

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(key+"=from-dotenv\n"), 0o600))
	require.NoError(t, loadEnv(dir, ""))
	assert.Equal(t, "from-dotenv", os.Getenv(key))

	assert.Error(t, loadEnv(dir, "missing.env"), "explicit env file must exist")
}

func TestDetectCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Cargo.toml"), []byte("[package]\n"), 0o644))

	out, err := execute(t, "detect", "--cwd", dir, "--no-lock")
	require.NoError(t, err)

	var result analysis.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, []analysis.Ecosystem{analysis.Rust}, result.Languages)
	assert.Equal(t, []string{"Cargo.toml"}, result.Files)
}

// captureProcessOutput swaps os.Stdout and os.Stderr for pipes while fn runs.
func captureProcessOutput(t *testing.T, fn func() error) (string, string, error) {
	t.Helper()
	outR, outW, err := os.Pipe()
	require.NoError(t, err)
	errR, errW, err := os.Pipe()
	require.NoError(t, err)

	read := func(r *os.File, ch chan<- string) {
		data, _ := io.ReadAll(r)
		ch <- string(data)
	}
	outCh, errCh := make(chan string), make(chan string)
	go read(outR, outCh)
	go read(errR, errCh)

	oldOut, oldErr := os.Stdout, os.Stderr
	os.Stdout, os.Stderr = outW, errW
	runErr := fn()
	os.Stdout, os.Stderr = oldOut, oldErr
	outW.Close()
	errW.Close()

	return <-outCh, <-errCh, runErr
}

func TestDetectCommandProcessStdoutIsJSON(t *testing.T) {
	t.Cleanup(func() {
		logger.SetOutput(os.Stderr)
		logger.SetLevel("info")
	})
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Cargo.toml"), []byte("[package]\n"), 0o644))

	stdout, stderr, err := captureProcessOutput(t, func() error {
		root := NewRootCmd()
		root.SetArgs([]string{"detect", "--cwd", dir, "--no-lock", "--log-level", "debug"})
		return root.Execute()
	})
	require.NoError(t, err)

	var result analysis.Result
	require.NoError(t, json.Unmarshal([]byte(stdout), &result), "stdout: %q", stdout)
	assert.Equal(t, []analysis.Ecosystem{analysis.Rust}, result.Languages)
	assert.Contains(t, stderr, "Starting pipeline")
	assert.Contains(t, stderr, "Pipeline finished")
}

func TestRunStageDetectWritesReport(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module x\n"), 0o644))

	_, err := execute(t, "run", "--cwd", dir, "--stage", "DETECT", "--no-lock", "--report-dir", "out")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "out", pipeline.RunReportFileName))
	assert.FileExists(t, filepath.Join(dir, "out", pipeline.ReportMarkdownFileName))
}

func TestRunRejectsBadInput(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, "run", "--cwd", dir, "--stage", "release")
	assert.True(t, errors.HasCode(err, errors.CodeInvalidParameter))

	_, err = execute(t, "run", "--cwd", filepath.Join(dir, "nope"))
	assert.True(t, errors.HasCode(err, errors.CodeFileNotFound))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "automata.json"), []byte("{not json"), 0o644))
	_, err = execute(t, "detect", "--cwd", dir, "--config", "automata.json", "--no-lock")
	assert.True(t, errors.HasCode(err, errors.CodeConfigurationInvalid))
}

func TestGenerateCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "webshop")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte("{}"), 0o644))

	out, err := execute(t, "generate", "--cwd", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "automata.yml")
	assert.Contains(t, out, "detected: node")

	settings, err := config.Load(filepath.Join(dir, config.DefaultFileName))
	require.NoError(t, err)
	assert.Equal(t, "webshop", settings.String("name", ""))
	assert.Equal(t, "webshop:latest", config.DeployDirectives(settings).Docker.Image)

	dockerfile, err := os.ReadFile(filepath.Join(dir, "Dockerfile"))
	require.NoError(t, err)
	assert.Contains(t, string(dockerfile), "FROM node:18-alpine")

	out, err = execute(t, "generate", "--cwd", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")

	out, err = execute(t, "generate", "--cwd", dir, "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote")
}

func TestRenderSummary(t *testing.T) {
	started := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	report := &pipeline.Report{
		RunID:     "run-1",
		Detection: analysis.Result{Languages: []analysis.Ecosystem{analysis.Python}},
		Stages: []stage.Outcome{
			stage.Succeeded(stage.Detect, nil),
			stage.Succeeded(stage.Build, []stage.Diagnostic{{Ecosystem: "python", Step: "install", Command: "uv sync"}}),
			stage.Skipped(stage.Test),
		},
		Outcome:  pipeline.RunOutcomeSuccess,
		Started:  started,
		Finished: started.Add(1500 * time.Millisecond),
	}

	summary := renderSummary(report)
	assert.Contains(t, summary, "run-1")
	assert.Contains(t, summary, "detected: python")
	assert.Contains(t, summary, "1 suppressed failure(s)")
	assert.Contains(t, summary, "python install: uv sync")
	assert.Contains(t, summary, "skipped")
	assert.Contains(t, summary, "1.5s")
}
