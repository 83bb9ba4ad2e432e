package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Azure/automata/pkg/domain/errors"
	"sigs.k8s.io/yaml"
)

// Per-ecosystem hints written into generated configs. They never carry a
// "command" key, which would replace the built-in recipe.
var (
	generatedBuild = map[string]Settings{
		"python": {"output": "dist/"},
		"node":   {"output": "dist/"},
		"java":   {"output": "target/*.jar"},
		"go":     {"output": "bin/"},
		"rust":   {"output": "target/release/"},
	}
	generatedTest = map[string]Settings{
		"python": {"coverage": true},
		"node":   {"coverage": true},
		"java":   {"coverage": true},
	}
)

// ProjectName derives a config-friendly name from the project directory.
func ProjectName(root string) string {
	name := strings.ToLower(filepath.Base(filepath.Clean(root)))
	return strings.NewReplacer(" ", "-", "_", "-").Replace(name)
}

// Generate builds an example Settings tree for a project with the given
// ecosystem tags. name defaults to ProjectName(root).
func Generate(root string, languages []string, name string) Settings {
	if name == "" {
		name = ProjectName(root)
	}

	build := Settings{}
	test := Settings{}
	for _, lang := range languages {
		if hint, ok := generatedBuild[lang]; ok {
			build[lang] = hint
		}
		if hint, ok := generatedTest[lang]; ok {
			test[lang] = hint
		}
	}

	env := Settings{}
	if contains(languages, "node") {
		env["NODE_ENV"] = "production"
		env["PORT"] = fmt.Sprint(DefaultServicePort)
	}
	if contains(languages, "python") {
		env["PYTHONUNBUFFERED"] = "1"
		env["PORT"] = fmt.Sprint(DefaultServicePort)
	}

	return Settings{
		"name":        name,
		"version":     "1.0.0",
		"description": fmt.Sprintf("Auto-generated config for %s", name),
		"build":       build,
		"test":        test,
		"deploy": Settings{
			"docker": Settings{
				"image": name + ":latest",
				"file":  "Dockerfile",
				"port":  DefaultServicePort,
				"push":  false,
				"env":   env,
			},
		},
	}
}

// WriteGenerated writes settings as YAML to <root>/automata.yml. An existing
// file is left alone unless force is set; the returned bool reports whether
// the file was written.
func WriteGenerated(root string, settings Settings, force bool) (string, bool, error) {
	path := filepath.Join(root, DefaultFileName)
	if _, err := os.Stat(path); err == nil && !force {
		return path, false, nil
	}

	data, err := yaml.Marshal(map[string]any(settings))
	if err != nil {
		return path, false, errors.New(errors.CodeConfigurationInvalid, "config", "rendering generated config", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return path, false, errors.New(errors.CodeIoError, "config", fmt.Sprintf("writing %s", path), err)
	}
	return path, true, nil
}

const (
	pythonDockerfile = `FROM python:3.11-slim
WORKDIR /app
COPY requirements.txt ./
RUN pip install --no-cache-dir -r requirements.txt
COPY . .
EXPOSE 8000
CMD ["python", "-m", "app"]
`
	nodeDockerfile = `FROM node:18-alpine
WORKDIR /app
COPY package*.json ./
RUN npm ci --only=production
COPY . .
EXPOSE 8000
CMD ["node", "index.js"]
`
	baseDockerfile = `FROM ubuntu:22.04
WORKDIR /app
COPY . .
EXPOSE 8000
CMD ["echo", "Hello from container"]
`
)

// WriteDockerfile writes a starter Dockerfile when the project root has
// none. Python wins over node when both are detected.
func WriteDockerfile(root string, languages []string) (string, bool, error) {
	path := filepath.Join(root, "Dockerfile")
	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	}

	content := baseDockerfile
	for _, candidate := range []struct {
		tag     string
		content string
	}{{"python", pythonDockerfile}, {"node", nodeDockerfile}} {
		if contains(languages, candidate.tag) {
			content = candidate.content
			break
		}
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return path, false, errors.New(errors.CodeIoError, "config", fmt.Sprintf("writing %s", path), err)
	}
	return path, true, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
