package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Azure/automata/pkg/domain/errors"
	"github.com/Azure/automata/pkg/logger"
	"github.com/BurntSushi/toml"
	"sigs.k8s.io/yaml"
)

// DefaultFileName is the config file looked up in the project root when the
// caller does not name one.
const DefaultFileName = "automata.yml"

type decoder func(data []byte) (map[string]any, error)

var decoders = map[string]decoder{
	".yml":  decodeYAML,
	".yaml": decodeYAML,
	".toml": decodeTOML,
	".json": decodeJSON,
}

// Load reads the config file at path. A missing file or an unrecognized
// extension yields an empty Settings and no error. A parse failure for a
// recognized format is returned as CodeConfigurationInvalid.
func Load(path string) (Settings, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			logger.Debugf("No config file at %s, using defaults", path)
			return Settings{}, nil
		}
		return nil, errors.New(errors.CodeIoError, "config", fmt.Sprintf("cannot stat %s", path), err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	decode, ok := decoders[ext]
	if !ok {
		logger.Debugf("Config file %s has unrecognized extension %q, ignoring", path, ext)
		return Settings{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.CodeIoError, "config", fmt.Sprintf("reading %s", path), err)
	}

	tree, err := decode(data)
	if err != nil {
		return nil, errors.New(errors.CodeConfigurationInvalid, "config", fmt.Sprintf("parsing %s", path), err)
	}
	if tree == nil {
		return Settings{}, nil
	}
	logger.Debugf("Loaded config %s with keys %v", path, Settings(tree).Keys())
	return Settings(tree), nil
}

func decodeYAML(data []byte) (map[string]any, error) {
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	return tree, nil
}

func decodeTOML(data []byte) (map[string]any, error) {
	tree := map[string]any{}
	if err := toml.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	return tree, nil
}

func decodeJSON(data []byte) (map[string]any, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return map[string]any{}, nil
	}
	var tree map[string]any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	return tree, nil
}
