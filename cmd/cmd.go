package cmd

import (
	"context"
	"time"

	"github.com/Azure/automata/pkg/config"
	"github.com/Azure/automata/pkg/logger"
	"github.com/spf13/cobra"
)

// rootOptions carries every flag value. Each command tree gets its own copy.
type rootOptions struct {
	cwd        string
	configPath string
	stage      string
	logLevel   string
	reportDir  string
	timeout    time.Duration
	noLock     bool
	envFile    string
	force      bool
}

// NewRootCmd builds the automata command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "automata",
		Short:         "Detect, build, test and deploy a project with its own toolchain",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// stdout carries only command results such as the detect JSON.
			logger.SetOutput(cmd.ErrOrStderr())
			logger.SetLevel(opts.logLevel)
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the pipeline",
		Long: `The run command detects the project's ecosystems, builds and tests them with their
canonical tools and performs the deployments configured in automata.yml.
Use --stage to limit the run to one stage.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, opts, opts.stage)
		},
	}

	detectCmd := &cobra.Command{
		Use:   "detect",
		Short: "Print the detected ecosystems as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, opts, "detect")
		},
	}

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate an example automata.yml and Dockerfile",
		Long:  `The generate command writes an automata.yml describing the detected ecosystems and, when missing, a starter Dockerfile.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return generate(cmd, opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.cwd, "cwd", "C", ".", "Project directory")
	flags.StringVarP(&opts.logLevel, "log-level", "l", "info", "Log level: debug, info, warn, error")
	flags.StringVar(&opts.envFile, "env-file", "", "Environment file loaded before running tools (default <cwd>/.env)")

	for _, c := range []*cobra.Command{runCmd, detectCmd} {
		c.Flags().StringVarP(&opts.configPath, "config", "c", config.DefaultFileName, "Config file, relative to --cwd unless absolute")
		c.Flags().StringVarP(&opts.reportDir, "report-dir", "r", "", "Write run_report.json and report.md to this directory")
		c.Flags().DurationVarP(&opts.timeout, "timeout", "t", 0, "Timeout for the whole run, 0 for none")
		c.Flags().BoolVar(&opts.noLock, "no-lock", false, "Allow concurrent runs against the same project")
	}
	runCmd.Flags().StringVarP(&opts.stage, "stage", "s", "all", "Stage to run: all, detect, build, test, deploy")
	generateCmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Overwrite an existing automata.yml")

	rootCmd.AddCommand(runCmd, detectCmd, generateCmd)
	return rootCmd
}

// Execute runs the CLI and returns the first error so main can exit non-zero.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		printErrorHelp(err)
		return err
	}
	return nil
}
