package assistant

import "fmt"

// ServiceError means the language-model service is unavailable or not
// configured. The feature degrades to an explicit error payload; nothing is
// silently substituted.
type ServiceError struct {
	Reason string
	Err    error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("language model service: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("language model service: %s", e.Reason)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// InterpretationError means the model's completion did not match the
// requested JSON contract. Raw holds the diagnostic so callers can surface
// it instead of guessing an intent.
type InterpretationError struct {
	Reason string
	Raw    string
}

func (e *InterpretationError) Error() string {
	return fmt.Sprintf("interpreting model output: %s", e.Reason)
}
