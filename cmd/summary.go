package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/Azure/automata/pkg/pipeline"
	"github.com/Azure/automata/pkg/stage"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	faintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	skippedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	stageColumn  = lipgloss.NewStyle().Width(8)
	statusColumn = lipgloss.NewStyle().Width(9)
)

// renderSummary lays out one line per invoked stage followed by the run
// outcome.
func renderSummary(report *pipeline.Report) string {
	var b strings.Builder

	langs := make([]string, 0, len(report.Detection.Languages))
	for _, l := range report.Detection.Languages {
		langs = append(langs, string(l))
	}
	detected := "none"
	if len(langs) > 0 {
		detected = strings.Join(langs, ", ")
	}
	b.WriteString(titleStyle.Render("automata run "+report.RunID) + "\n")
	b.WriteString(faintStyle.Render("detected: "+detected) + "\n")

	for _, o := range report.Stages {
		status := skippedStyle.Render(string(o.Status))
		if o.Status == stage.StatusSuccess {
			status = successStyle.Render(string(o.Status))
		}
		line := stageColumn.Render(string(o.Stage)) + statusColumn.Render(status)
		if n := o.Suppressed(); n > 0 {
			line += warnStyle.Render(fmt.Sprintf("%d suppressed failure(s)", n))
		}
		b.WriteString(line + "\n")
		for _, d := range o.Diagnostics {
			b.WriteString(faintStyle.Render(fmt.Sprintf("  %s %s: %s", d.Ecosystem, d.Step, d.Command)) + "\n")
		}
	}

	outcome := successStyle.Render(string(report.Outcome))
	if report.Outcome != pipeline.RunOutcomeSuccess {
		outcome = failureStyle.Render(string(report.Outcome))
	}
	b.WriteString(fmt.Sprintf("%s in %s", outcome, report.Finished.Sub(report.Started).Round(time.Millisecond)))
	return b.String()
}
