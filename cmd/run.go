package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Azure/automata/pkg/config"
	"github.com/Azure/automata/pkg/core/analysis"
	"github.com/Azure/automata/pkg/core/deploy"
	"github.com/Azure/automata/pkg/core/toolchain"
	"github.com/Azure/automata/pkg/domain/errors"
	"github.com/Azure/automata/pkg/logger"
	"github.com/Azure/automata/pkg/pipeline"
	"github.com/Azure/automata/pkg/runner"
	"github.com/Azure/automata/pkg/stage"
	"github.com/spf13/cobra"
)

// resolveDir returns the absolute project directory, failing when it does
// not exist or is not a directory.
func resolveDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.New(errors.CodeInvalidParameter, "cli", fmt.Sprintf("resolving %s", dir), err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.New(errors.CodeFileNotFound, "cli", fmt.Sprintf("directory %s does not exist", abs), err)
		}
		return "", errors.New(errors.CodeIoError, "cli", fmt.Sprintf("cannot stat %s", abs), err)
	}
	if !info.IsDir() {
		return "", errors.New(errors.CodeInvalidParameter, "cli", fmt.Sprintf("%s is not a directory", abs), nil)
	}
	return abs, nil
}

func resolveConfigPath(dir, configPath string) string {
	if configPath == "" {
		return filepath.Join(dir, config.DefaultFileName)
	}
	if filepath.IsAbs(configPath) {
		return configPath
	}
	return filepath.Join(dir, configPath)
}

func newPipeline(cmd *cobra.Command, opts *rootOptions) *pipeline.Pipeline {
	log := logger.Logger()
	cmdRunner := &runner.DefaultCommandRunner{
		Stdout: cmd.ErrOrStderr(),
		Stderr: cmd.ErrOrStderr(),
	}
	tc := toolchain.New(cmdRunner, log)

	deps := pipeline.Dependencies{
		LoadConfig: config.Load,
		Detector:   analysis.NewDetector(log),
		Builder:    tc,
		Tester:     tc,
		Deployer:   deploy.NewDeployer(runner.NewDockerCmdRunner(cmdRunner), runner.NewSSHCmdRunner(cmdRunner), log),
	}
	pipelineOpts := []pipeline.Option{pipeline.WithOutput(cmd.OutOrStdout()), pipeline.WithLogger(log)}
	if opts.noLock {
		pipelineOpts = append(pipelineOpts, pipeline.WithoutLock())
	}
	return pipeline.New(deps, pipelineOpts...)
}

func runPipeline(cmd *cobra.Command, opts *rootOptions, stageName string) error {
	dir, err := resolveDir(opts.cwd)
	if err != nil {
		return err
	}
	scope, err := stage.ParseScope(stageName)
	if err != nil {
		return err
	}
	if err := loadEnv(dir, opts.envFile); err != nil {
		return err
	}

	ctx := cmd.Context()
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	report, err := newPipeline(cmd, opts).Run(ctx, pipeline.Options{
		Root:       dir,
		ConfigPath: resolveConfigPath(dir, opts.configPath),
		Scope:      scope,
	})
	if report == nil {
		return err
	}

	if opts.reportDir != "" {
		reportDir := opts.reportDir
		if !filepath.IsAbs(reportDir) {
			reportDir = filepath.Join(dir, reportDir)
		}
		if werr := pipeline.WriteReport(report, reportDir); werr != nil {
			logger.Warnf("Could not write run report: %v", werr)
		} else {
			logger.Infof("Run report written to %s", reportDir)
		}
	}

	if scope != stage.ScopeDetect {
		fmt.Fprintln(cmd.OutOrStdout(), renderSummary(report))
	}
	return err
}
