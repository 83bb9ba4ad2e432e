package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Azure/automata/pkg/logger"
)

const RunReportFileName = "run_report.json"

const ReportMarkdownFileName = "report.md"

func formatMarkdownReport(report *Report) string {
	var md strings.Builder

	md.WriteString(fmt.Sprintf("# Run %s\n\n", report.RunID))
	md.WriteString(fmt.Sprintf("**Outcome:** %s\n\n", report.Outcome))
	md.WriteString(fmt.Sprintf("**Project:** %s\n\n", report.Root))
	md.WriteString(fmt.Sprintf("**Scope:** %s\n\n", report.Scope))
	if report.Revision != "" {
		md.WriteString(fmt.Sprintf("**Revision:** %s\n\n", report.Revision))
	}
	md.WriteString(fmt.Sprintf("**Duration:** %s\n\n", report.Finished.Sub(report.Started).Round(time.Millisecond)))
	if report.Error != "" {
		md.WriteString(fmt.Sprintf("**Error:** %s\n\n", report.Error))
	}

	md.WriteString("## Detected Ecosystems\n\n")
	if len(report.Detection.Languages) == 0 {
		md.WriteString("No ecosystems detected.\n")
	} else {
		for _, eco := range report.Detection.Languages {
			md.WriteString(fmt.Sprintf("- %s\n", eco))
		}
	}

	md.WriteString("\n## Stages\n\n")
	if len(report.Stages) == 0 {
		md.WriteString("No stages ran.\n")
	} else {
		md.WriteString("| Stage | Status | Suppressed Failures |\n")
		md.WriteString("|-------|--------|---------------------|\n")
		for _, o := range report.Stages {
			md.WriteString(fmt.Sprintf("| %s | %s | %d |\n", o.Stage, o.Status, o.Suppressed()))
		}
	}

	if report.Suppressed() > 0 {
		md.WriteString("\n## Suppressed Failures\n\n")
		md.WriteString("| Stage | Ecosystem | Step | Command | Code |\n")
		md.WriteString("|-------|-----------|------|---------|------|\n")
		for _, o := range report.Stages {
			for _, d := range o.Diagnostics {
				md.WriteString(fmt.Sprintf("| %s | %s | %s | `%s` | %s |\n", o.Stage, d.Ecosystem, d.Step, d.Command, d.Code))
			}
		}
	}

	return md.String()
}

// WriteReport writes run_report.json and report.md into dir, creating it
// if needed.
func WriteReport(report *Report, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		logger.Errorf("Error creating report directory %s: %v", dir, err)
		return fmt.Errorf("creating report directory: %w", err)
	}

	reportJSON, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling run report: %w", err)
	}
	reportFile := filepath.Join(dir, RunReportFileName)
	logger.Debugf("Writing run report to %s", reportFile)
	if err := os.WriteFile(reportFile, reportJSON, 0644); err != nil {
		logger.Errorf("Error writing run report to file: %v", err)
		return fmt.Errorf("writing run report to file: %w", err)
	}

	reportMarkdownFile := filepath.Join(dir, ReportMarkdownFileName)
	logger.Debugf("Writing markdown report to %s", reportMarkdownFile)
	if err := os.WriteFile(reportMarkdownFile, []byte(formatMarkdownReport(report)), 0644); err != nil {
		logger.Errorf("Error writing markdown report to file: %v", err)
		return fmt.Errorf("writing markdown report to file: %w", err)
	}

	return nil
}
