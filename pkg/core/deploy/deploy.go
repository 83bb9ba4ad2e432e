// Package deploy performs the optional container and remote-host
// deliveries described by the deploy section of the project settings.
package deploy

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Azure/automata/pkg/config"
	"github.com/Azure/automata/pkg/domain/errors"
	"github.com/Azure/automata/pkg/runner"
	"github.com/Azure/automata/pkg/stage"
	"github.com/rs/zerolog"
)

// Deployer runs the container sub-deployment first, then the remote one.
type Deployer struct {
	docker runner.DockerRunner
	remote runner.RemoteRunner
	logger zerolog.Logger
}

func NewDeployer(docker runner.DockerRunner, remote runner.RemoteRunner, logger zerolog.Logger) *Deployer {
	return &Deployer{
		docker: docker,
		remote: remote,
		logger: logger.With().Str("component", "deploy").Logger(),
	}
}

// Deploy returns an error only when the image build or push fails. Failures
// of the local container start and of the remote chain come back as
// diagnostics on a success outcome.
func (d *Deployer) Deploy(ctx context.Context, req stage.Request) (stage.Outcome, error) {
	if req.Skip {
		d.logger.Debug().Msg("Stage skipped")
		return stage.Skipped(stage.Deploy), nil
	}

	directives := config.DeployDirectives(req.Settings)
	if directives.Docker == nil && directives.SSH == nil {
		d.logger.Info().Msg("No deploy directives configured")
		return stage.Succeeded(stage.Deploy, nil), nil
	}

	var diags []stage.Diagnostic
	if directives.Docker != nil {
		containerDiags, err := d.deployContainer(ctx, req.Root, *directives.Docker)
		if err != nil {
			return stage.Outcome{}, err
		}
		diags = append(diags, containerDiags...)
	}
	if directives.SSH != nil {
		diags = append(diags, d.deployRemote(ctx, req.Root, *directives.SSH)...)
	}
	return stage.Succeeded(stage.Deploy, diags), nil
}

// ResolveDockerfile returns the Dockerfile to build from, relative to root,
// or false when there is none.
func ResolveDockerfile(root string, directive config.DockerDirective) (string, bool) {
	if directive.File != "" {
		return directive.File, true
	}
	if _, err := os.Stat(filepath.Join(root, "Dockerfile")); err == nil {
		return "Dockerfile", true
	}
	return "", false
}

// ContainerName is the name a locally started image runs under.
func ContainerName(root string) string {
	return filepath.Base(filepath.Clean(root)) + "-app"
}

func (d *Deployer) deployContainer(ctx context.Context, root string, directive config.DockerDirective) ([]stage.Diagnostic, error) {
	dockerfile, ok := ResolveDockerfile(root, directive)
	if !ok {
		d.logger.Info().Msg("No Dockerfile found, skipping container deployment")
		return nil, nil
	}

	d.logger.Info().Str("image", directive.Image).Str("dockerfile", dockerfile).Msg("Building docker image")
	if output, err := d.docker.Build(ctx, root, dockerfile, directive.Image, "."); err != nil {
		d.logger.Error().Err(err).Str("image", directive.Image).Msg("Docker build failed")
		return nil, errors.New(errors.CodeImageBuildFailed, "deploy",
			fmt.Sprintf("docker build of %s failed: %s", directive.Image, tailOf(output, err)), err)
	}

	if directive.Push {
		d.logger.Info().Str("image", directive.Image).Msg("Pushing docker image")
		if output, err := d.docker.Push(ctx, root, directive.Image); err != nil {
			d.logger.Error().Err(err).Str("image", directive.Image).Msg("Docker push failed")
			return nil, errors.New(errors.CodeImagePushFailed, "deploy",
				fmt.Sprintf("docker push of %s failed: %s", directive.Image, tailOf(output, err)), err)
		}
	}

	if !directive.Run {
		return nil, nil
	}

	name := ContainerName(root)
	// A previous container may or may not exist.
	if _, err := d.docker.Stop(ctx, root, name); err != nil {
		d.logger.Debug().Err(err).Str("container", name).Msg("No running container to stop")
	}
	if _, err := d.docker.Remove(ctx, root, name); err != nil {
		d.logger.Debug().Err(err).Str("container", name).Msg("No container to remove")
	}

	opts := runner.RunOptions{
		Image: directive.Image,
		Name:  name,
		Port:  directive.Port,
		Env:   directive.SortedEnv(),
	}
	d.logger.Info().Str("container", name).Int("port", opts.Port).Msg("Starting container")
	if output, err := d.docker.Run(ctx, root, opts); err != nil {
		d.logger.Warn().Err(err).Str("container", name).Msg("Container start failed, continuing")
		return []stage.Diagnostic{{
			Step:    "run",
			Command: "docker run " + name,
			Code:    errors.CodeContainerStartFailed,
			Message: tailOf(output, err),
		}}, nil
	}
	return nil, nil
}

// RemoteCommand is what runs on the host after the archive lands.
func RemoteCommand(directive config.SSHDirective) string {
	return fmt.Sprintf("cd %s && tar -xzf %s && %s", directive.Path, ArchiveName, directive.Restart)
}

func (d *Deployer) deployRemote(ctx context.Context, root string, directive config.SSHDirective) []stage.Diagnostic {
	if directive.Host == "" {
		d.logger.Info().Msg("SSH directive has no host, skipping remote deployment")
		return nil
	}
	target := runner.Target{User: directive.User, Host: directive.Host, Path: directive.Path}
	log := d.logger.With().Str("target", target.Login()).Logger()

	var diags []stage.Diagnostic
	suppress := func(step, command string, code errors.Code, output string, err error) {
		log.Warn().Err(err).Str("step", step).Msg("Remote deployment step failed, continuing")
		diags = append(diags, stage.Diagnostic{
			Step:    step,
			Command: command,
			Code:    code,
			Message: tailOf(output, err),
		})
	}

	tmpDir, err := os.MkdirTemp("", "automata-deploy-*")
	if err != nil {
		suppress("archive", "", errors.CodeIoError, "", err)
		return diags
	}
	defer os.RemoveAll(tmpDir)

	archive := filepath.Join(tmpDir, ArchiveName)
	count, err := WriteArchive(root, archive)
	if err != nil {
		// The transfer and remote steps still run against whatever is there.
		suppress("archive", "", errors.CodeIoError, "", err)
	} else {
		log.Info().Int("files", count).Msg("Packed project archive")
	}

	log.Info().Str("path", target.Path).Msg("Copying archive")
	if output, err := d.remote.Copy(ctx, root, archive, target); err != nil {
		suppress("copy", "scp "+ArchiveName, errors.CodeDeploymentFailed, output, err)
	}

	command := RemoteCommand(directive)
	log.Info().Str("command", command).Msg("Running remote command")
	if output, err := d.remote.Exec(ctx, root, target, command); err != nil {
		suppress("exec", "ssh "+command, errors.CodeDeploymentFailed, output, err)
	}
	return diags
}

func tailOf(output string, err error) string {
	output = strings.TrimSpace(output)
	if output == "" {
		return err.Error()
	}
	const limit = 2048
	if len(output) > limit {
		output = "..." + output[len(output)-limit:]
	}
	return output
}
