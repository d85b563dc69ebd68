package models

import (
	"errors"
	"fmt"
	"strings"
)

// InvalidDomainValueError reports a categorical value outside the enumerated
// or fetched vocabulary. The allowed set is embedded in the message so the
// agent can re-plan with a corrected value.
type InvalidDomainValueError struct {
	Category string
	Value    string
	Allowed  []string
}

func (e *InvalidDomainValueError) Error() string {
	return fmt.Sprintf("invalid %s: %s\nThe %s must be one of [%s]\nPlease specify a %s from documentation",
		e.Category, e.Value, e.Category, strings.Join(e.Allowed, ", "), e.Category)
}

// InvalidRangeError reports a non-positive or inverted date/count range.
type InvalidRangeError struct {
	Message string
}

func (e *InvalidRangeError) Error() string {
	return e.Message
}

// UpstreamError reports a failed call to a remote collaborator. StatusCode is
// zero when the request never produced a response (timeout, connection error).
type UpstreamError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// ArithmeticError reports an invalid arithmetic operation such as division by
// zero or aggregation over an empty list.
type ArithmeticError struct {
	Operation string
	Message   string
}

func (e *ArithmeticError) Error() string {
	return fmt.Sprintf("arithmetic error in %s: %s", e.Operation, e.Message)
}

// ErrToolIterationLimit terminates an agent turn whose planning/executing loop
// exceeded the configured cap.
var ErrToolIterationLimit = errors.New("tool iteration limit exceeded")
