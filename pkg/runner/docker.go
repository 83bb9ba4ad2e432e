package runner

import (
	"context"
	"fmt"
)

type DockerRunner interface {
	Build(ctx context.Context, dir, dockerfilePath, imageTag, contextPath string) (string, error)
	Push(ctx context.Context, dir, imageTag string) (string, error)
	Run(ctx context.Context, dir string, opts RunOptions) (string, error)
	Stop(ctx context.Context, dir, container string) (string, error)
	Remove(ctx context.Context, dir, container string) (string, error)
}

// RunOptions describes a detached `docker run`.
type RunOptions struct {
	Image string
	Name  string
	Port  int
	// Env is rendered as -e KEY=VALUE in the given order.
	Env []string
}

type DockerCmdRunner struct {
	runner CommandRunner
}

var _ DockerRunner = &DockerCmdRunner{}

func NewDockerCmdRunner(runner CommandRunner) DockerRunner {
	return &DockerCmdRunner{
		runner: runner,
	}
}

func (d *DockerCmdRunner) Build(ctx context.Context, dir, dockerfilePath, imageTag, contextPath string) (string, error) {
	return d.runner.RunCommandStderr(ctx, dir, "docker", "build", "-f", dockerfilePath, "-t", imageTag, contextPath)
}

func (d *DockerCmdRunner) Push(ctx context.Context, dir, image string) (string, error) {
	return d.runner.RunCommand(ctx, dir, "docker", "push", image)
}

func (d *DockerCmdRunner) Run(ctx context.Context, dir string, opts RunOptions) (string, error) {
	args := []string{"docker", "run", "-d", "--rm", "--name", opts.Name}
	if opts.Port > 0 {
		args = append(args, fmt.Sprintf("-p%d:%d", opts.Port, opts.Port))
	}
	for _, kv := range opts.Env {
		args = append(args, "-e", kv)
	}
	args = append(args, opts.Image)
	return d.runner.RunCommand(ctx, dir, args...)
}

func (d *DockerCmdRunner) Stop(ctx context.Context, dir, container string) (string, error) {
	return d.runner.RunCommand(ctx, dir, "docker", "stop", container)
}

func (d *DockerCmdRunner) Remove(ctx context.Context, dir, container string) (string, error) {
	return d.runner.RunCommand(ctx, dir, "docker", "rm", container)
}
