package generator

import "fmt"

// ValidationError reports user input that was rejected before any API call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// UpstreamError wraps a failed call to one of the AI services.
type UpstreamError struct {
	Stage Stage
	Err   error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: upstream service failed: %v", e.Stage, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// DataQualityError reports a well-formed response that does not satisfy the
// contract of its stage, e.g. fewer than five resources.
type DataQualityError struct {
	Stage  Stage
	Detail string
}

func (e *DataQualityError) Error() string {
	return fmt.Sprintf("%s: unusable response: %s", e.Stage, e.Detail)
}
