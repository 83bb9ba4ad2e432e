package config

import "sort"

const (
	DefaultImage       = "app:auto"
	DefaultSSHUser     = "root"
	DefaultSSHPath     = "/opt/app"
	DefaultSSHRestart  = `echo "deployed"`
	DefaultServicePort = 8000
)

// DockerDirective is the optional deploy.docker section.
type DockerDirective struct {
	Image string
	// File is the Dockerfile path relative to the project root. Empty means
	// fall back to a root-level Dockerfile if there is one.
	File string
	Push bool
	// Run starts the built image locally after the build.
	Run  bool
	Port int
	Env  map[string]string
}

// SortedEnv renders Env as KEY=VALUE pairs ordered by key.
func (d DockerDirective) SortedEnv() []string {
	keys := make([]string, 0, len(d.Env))
	for k := range d.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+d.Env[k])
	}
	return out
}

// SSHDirective is the optional deploy.ssh section.
type SSHDirective struct {
	Host    string
	User    string
	Path    string
	Restart string
}

// Deploy holds both deploy directives. Either, neither or both may be set.
type Deploy struct {
	Docker *DockerDirective
	SSH    *SSHDirective
}

// DeployDirectives decodes the deploy section, applying defaults. A
// directive is present when its key holds a mapping (even an empty one) or
// the literal true.
func DeployDirectives(s Settings) Deploy {
	deploy := s.Section("deploy")

	var d Deploy
	if docker, ok := directive(deploy, "docker"); ok {
		d.Docker = &DockerDirective{
			Image: docker.String("image", DefaultImage),
			File:  docker.String("file", ""),
			Push:  docker.Bool("push"),
			Run:   docker.Bool("run"),
			Port:  docker.Int("port", DefaultServicePort),
			Env:   docker.StringMap("env"),
		}
	}
	if ssh, ok := directive(deploy, "ssh"); ok {
		d.SSH = &SSHDirective{
			Host:    ssh.String("host", ""),
			User:    ssh.String("user", DefaultSSHUser),
			Path:    ssh.String("path", DefaultSSHPath),
			Restart: ssh.String("restart", DefaultSSHRestart),
		}
	}
	return d
}

func directive(s Settings, key string) (Settings, bool) {
	switch v := s[key].(type) {
	case map[string]any, Settings:
		return s.Section(key), true
	case bool:
		return Settings{}, v
	}
	return nil, false
}
