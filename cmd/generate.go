package cmd

import (
	"fmt"
	"strings"

	"github.com/Azure/automata/pkg/config"
	"github.com/Azure/automata/pkg/core/analysis"
	"github.com/Azure/automata/pkg/logger"
	"github.com/spf13/cobra"
)

func generate(cmd *cobra.Command, opts *rootOptions) error {
	dir, err := resolveDir(opts.cwd)
	if err != nil {
		return err
	}
	logger.Debugf("Generating config in directory: %s", dir)

	detection, err := analysis.NewDetector(logger.Logger()).Detect(dir, config.Settings{})
	if err != nil {
		return fmt.Errorf("detecting ecosystems: %w", err)
	}
	languages := make([]string, 0, len(detection.Languages))
	for _, eco := range detection.Languages {
		languages = append(languages, string(eco))
	}

	out := cmd.OutOrStdout()
	settings := config.Generate(dir, languages, config.ProjectName(dir))
	path, written, err := config.WriteGenerated(dir, settings, opts.force)
	if err != nil {
		return err
	}
	if written {
		fmt.Fprintf(out, "Wrote %s (detected: %s)\n", path, strings.Join(languages, ", "))
	} else {
		fmt.Fprintf(out, "%s already exists, use --force to overwrite\n", path)
	}

	path, written, err = config.WriteDockerfile(dir, languages)
	if err != nil {
		return err
	}
	if written {
		fmt.Fprintf(out, "Wrote %s\n", path)
	}
	return nil
}
