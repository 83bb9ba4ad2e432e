package runner

import (
	"context"
	"fmt"
)

// RemoteRunner delivers files to and runs commands on another host.
type RemoteRunner interface {
	Copy(ctx context.Context, dir, localPath string, target Target) (string, error)
	Exec(ctx context.Context, dir string, target Target, command string) (string, error)
}

// Target is a user@host pair plus the remote directory files land in.
type Target struct {
	User string
	Host string
	Path string
}

func (t Target) Login() string {
	return fmt.Sprintf("%s@%s", t.User, t.Host)
}

type SSHCmdRunner struct {
	runner CommandRunner
}

var _ RemoteRunner = &SSHCmdRunner{}

func NewSSHCmdRunner(runner CommandRunner) RemoteRunner {
	return &SSHCmdRunner{
		runner: runner,
	}
}

func (s *SSHCmdRunner) Copy(ctx context.Context, dir, localPath string, target Target) (string, error) {
	return s.runner.RunCommand(ctx, dir, "scp", "-o", "StrictHostKeyChecking=no", localPath, fmt.Sprintf("%s:%s/", target.Login(), target.Path))
}

func (s *SSHCmdRunner) Exec(ctx context.Context, dir string, target Target, command string) (string, error) {
	return s.runner.RunCommand(ctx, dir, "ssh", target.Login(), command)
}
