package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Azure/automata/pkg/logger"
	"github.com/joho/godotenv"
)

// loadEnv loads credentials for the child tools. An explicit envFile must
// exist; the default <dir>/.env is optional. Variables already set in the
// environment win.
func loadEnv(dir, envFile string) error {
	if envFile != "" {
		if !filepath.IsAbs(envFile) {
			envFile = filepath.Join(dir, envFile)
		}
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
		logger.Debugf("Loaded environment from %s", envFile)
		return nil
	}

	defaultFile := filepath.Join(dir, ".env")
	if _, err := os.Stat(defaultFile); err == nil {
		if err := godotenv.Load(defaultFile); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", defaultFile, err)
		}
		logger.Debugf("Loaded environment from %s", defaultFile)
	}
	return nil
}
