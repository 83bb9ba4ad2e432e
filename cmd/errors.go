package cmd

import (
	"github.com/Azure/automata/pkg/domain/errors"
	"github.com/Azure/automata/pkg/logger"
)

// printErrorHelp logs the error and, for the failures users can fix
// themselves, a hint on what to check.
func printErrorHelp(err error) {
	if err == nil {
		return
	}
	logger.Errorf("%v", err)

	switch errors.CodeOf(err) {
	case errors.CodeConfigurationInvalid:
		logger.Error("   Check the syntax of the config file, or pass --config to use another one")
	case errors.CodeImageBuildFailed:
		logger.Error("   The docker build log above shows the failing instruction")
	case errors.CodeImagePushFailed:
		logger.Error("   Make sure you are logged in to the registry (docker login) and the image name includes it")
	case errors.CodeResourceExhausted:
		logger.Error("   Wait for the other run to finish, or pass --no-lock")
	case errors.CodeFileNotFound:
		logger.Error("   Pass an existing project directory with --cwd")
	}
}
