package shell

import "fmt"

const (
	CodeValidation     = "VALIDATION"
	CodeTabNotFound    = "TAB_NOT_FOUND"
	CodeSurfaceFailure = "SURFACE_FAILURE"
	CodeHostNotFound   = "HOST_NOT_FOUND"

	CodeScreenshotNotFound = "SCREENSHOT_NOT_FOUND"
)

// CodedError is a typed error used for stable API mapping.
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *CodedError) Unwrap() error { return e.Cause }

// ContainerNotFoundError is returned by Init when the configured surface host
// cannot be resolved. It is the only fault Init propagates; all later
// anomalies are absorbed into shell state.
type ContainerNotFoundError struct {
	Target string
	Cause  error
}

func (e *ContainerNotFoundError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("container not found: %s", e.Target)
	}
	return fmt.Sprintf("container not found: %s: %v", e.Target, e.Cause)
}

func (e *ContainerNotFoundError) Unwrap() error { return e.Cause }
