package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Azure/automata/pkg/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadEmptyDocuments(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{name: "empty yaml", file: "automata.yml", content: ""},
		{name: "yaml null", file: "automata.yaml", content: "~\n"},
		{name: "yaml empty map", file: "automata.yml", content: "{}\n"},
		{name: "empty toml", file: "automata.toml", content: ""},
		{name: "empty json", file: "automata.json", content: ""},
		{name: "json empty object", file: "automata.json", content: "{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings, err := Load(writeConfig(t, tt.file, tt.content))
			require.NoError(t, err)
			assert.NotNil(t, settings)
			assert.Empty(t, settings)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	settings, err := Load(filepath.Join(t.TempDir(), "automata.yml"))
	require.NoError(t, err)
	assert.Equal(t, Settings{}, settings)
}

func TestLoadUnrecognizedExtension(t *testing.T) {
	settings, err := Load(writeConfig(t, "automata.ini", "[deploy]\nbroken = = ="))
	require.NoError(t, err)
	assert.Equal(t, Settings{}, settings)
}

func TestLoadParseFailures(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{name: "yaml", file: "automata.yml", content: "deploy: [unclosed"},
		{name: "yaml list at top level", file: "automata.yml", content: "- a\n- b\n"},
		{name: "toml", file: "automata.toml", content: "deploy = = 1"},
		{name: "json", file: "automata.json", content: `{"deploy": `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.file, tt.content))
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.CodeConfigurationInvalid), "got %v", err)
		})
	}
}

func TestLoadFormatsAgree(t *testing.T) {
	files := map[string]string{
		"automata.yml": `
deploy:
  docker:
    image: shop:1.2
    push: true
    port: 9000
    env:
      MODE: prod
  ssh:
    host: example.com
`,
		"automata.toml": `
[deploy.docker]
image = "shop:1.2"
push = true
port = 9000

[deploy.docker.env]
MODE = "prod"

[deploy.ssh]
host = "example.com"
`,
		"automata.json": `{"deploy": {"docker": {"image": "shop:1.2", "push": true, "port": 9000, "env": {"MODE": "prod"}}, "ssh": {"host": "example.com"}}}`,
	}

	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			settings, err := Load(writeConfig(t, name, content))
			require.NoError(t, err)

			d := DeployDirectives(settings)
			require.NotNil(t, d.Docker)
			assert.Equal(t, "shop:1.2", d.Docker.Image)
			assert.True(t, d.Docker.Push)
			assert.Equal(t, 9000, d.Docker.Port)
			assert.Equal(t, map[string]string{"MODE": "prod"}, d.Docker.Env)

			require.NotNil(t, d.SSH)
			assert.Equal(t, "example.com", d.SSH.Host)
			assert.Equal(t, DefaultSSHUser, d.SSH.User)
		})
	}
}

func TestLoadExtensionIsCaseInsensitive(t *testing.T) {
	settings, err := Load(writeConfig(t, "AUTOMATA.YML", "name: demo\n"))
	require.NoError(t, err)
	assert.Equal(t, "demo", settings.String("name", ""))
}
