package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Azure/automata/pkg/core/analysis"
	"github.com/Azure/automata/pkg/domain/errors"
	"github.com/Azure/automata/pkg/stage"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *Report {
	r := newReport("/work/shop", stage.ScopeAll)
	r.Detection = analysis.Result{Languages: []analysis.Ecosystem{analysis.Node, analysis.Docker}, Files: []string{"Dockerfile", "package.json"}}
	r.record(stage.Succeeded(stage.Detect, nil))
	r.record(stage.Succeeded(stage.Build, []stage.Diagnostic{{
		Ecosystem: "node",
		Step:      "install",
		Command:   "yarn install --frozen-lockfile",
		Code:      errors.CodeToolExecutionFailed,
		Message:   "yarn: not found",
	}}))
	r.record(stage.Succeeded(stage.Test, nil))
	r.record(stage.Succeeded(stage.Deploy, nil))
	r.finish(context.Background(), nil)
	return r
}

func TestWriteReport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	report := sampleReport()

	require.NoError(t, WriteReport(report, dir))

	data, err := os.ReadFile(filepath.Join(dir, RunReportFileName))
	require.NoError(t, err)
	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, report.RunID, decoded.RunID)
	assert.Equal(t, RunOutcomeSuccess, decoded.Outcome)
	assert.Equal(t, report.Detection, decoded.Detection)
	require.Len(t, decoded.Stages, 4)
	assert.Equal(t, report.Stages[1].Diagnostics, decoded.Stages[1].Diagnostics)

	md, err := os.ReadFile(filepath.Join(dir, ReportMarkdownFileName))
	require.NoError(t, err)
	content := string(md)
	assert.Contains(t, content, "**Outcome:** success")
	assert.Contains(t, content, "- node\n- docker\n")
	assert.Contains(t, content, "| build | success | 1 |")
	assert.Contains(t, content, "| deploy | success | 0 |")
	assert.Contains(t, content, "## Suppressed Failures")
	assert.Contains(t, content, "`yarn install --frozen-lockfile`")
}

func TestReportFinish(t *testing.T) {
	r := newReport("/x", stage.ScopeBuild)
	r.finish(context.Background(), assert.AnError)
	assert.Equal(t, RunOutcomeFailure, r.Outcome)
	assert.Equal(t, assert.AnError.Error(), r.Error)

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()
	r = newReport("/x", stage.ScopeBuild)
	r.finish(ctx, ctx.Err())
	assert.Equal(t, RunOutcomeTimeout, r.Outcome)
}

func TestReportFinishExpiredContextWithoutError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	r := newReport("/x", stage.ScopeAll)
	r.finish(ctx, nil)
	assert.Equal(t, RunOutcomeTimeout, r.Outcome)
	assert.Equal(t, context.DeadlineExceeded.Error(), r.Error)
}

func TestMarkdownWithoutStages(t *testing.T) {
	r := newReport("/x", stage.ScopeDetect)
	r.finish(context.Background(), nil)
	md := formatMarkdownReport(r)
	assert.Contains(t, md, "No ecosystems detected.")
	assert.Contains(t, md, "No stages ran.")
	assert.NotContains(t, md, "Suppressed Failures")
}

func TestHeadRevision(t *testing.T) {
	dir := t.TempDir()
	assert.Empty(t, headRevision(dir))

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	assert.Empty(t, headRevision(dir), "no commits yet")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("hi"), 0o644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("README.md")
	require.NoError(t, err)
	hash, err := wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "dev", Email: "dev@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	assert.Equal(t, hash.String(), headRevision(dir))

	sub := filepath.Join(dir, "services", "api")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	assert.Equal(t, hash.String(), headRevision(sub))
}
