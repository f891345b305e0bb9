package pipeline

import (
	"fmt"
)

// ConfigError reports an invalid parameter combination. It is detected
// while validating a transform or colour table configuration, before any
// pixel is touched, and fails the whole tile request.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "configuration error: " + e.Reason
}

func configErrorf(format string, args ...interface{}) error {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// ShapeError reports an input buffer whose band count or mask shape does
// not match what a transform expects.
type ShapeError struct {
	Reason string
}

func (e *ShapeError) Error() string {
	return "shape error: " + e.Reason
}

func shapeErrorf(format string, args ...interface{}) error {
	return &ShapeError{Reason: fmt.Sprintf(format, args...)}
}
