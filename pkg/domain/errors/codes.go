package errors

// Code represents an error code
type Code string

const (
	CodeUnknown              Code = "UNKNOWN"                // Unknown error occurred
	CodeInvalidParameter     Code = "INVALID_PARAMETER"      // Invalid parameter provided
	CodeIoError              Code = "IO_ERROR"               // Input/output operation failed
	CodeFileNotFound         Code = "FILE_NOT_FOUND"         // File not found
	CodeResourceExhausted    Code = "RESOURCE_EXHAUSTED"     // Resource exhausted or held by another run
	CodeConfigurationInvalid Code = "CONFIGURATION_INVALID"  // Configuration file could not be parsed
	CodeImageBuildFailed     Code = "IMAGE_BUILD_FAILED"     // Image build failed
	CodeImagePushFailed      Code = "IMAGE_PUSH_FAILED"      // Image push failed
	CodeContainerStartFailed Code = "CONTAINER_START_FAILED" // Container start failed
	CodeToolExecutionFailed  Code = "TOOL_EXECUTION_FAILED"  // External tool exited with an error
	CodeDeploymentFailed     Code = "DEPLOYMENT_FAILED"      // Remote delivery step failed
)
