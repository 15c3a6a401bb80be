// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"fmt"
	"strings"
)

// InvalidRequestError represents a submission rejected before any state
// mutation because its envelope fields are invalid.
type InvalidRequestError struct {
	Err error
}

// Error returns the error message.
func (e InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid request: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e InvalidRequestError) Unwrap() error {
	return e.Err
}

// UnsupportedContentError represents a submission carrying a message part
// kind the agent cannot process.
type UnsupportedContentError struct {
	PartType string
}

// Error returns the error message.
func (e UnsupportedContentError) Error() string {
	if e.PartType == "" {
		return "unsupported content: message contains no text part"
	}
	return fmt.Sprintf("unsupported content: part type %q is not accepted", e.PartType)
}

// UnsupportedOutputModeError represents a submission whose accepted output
// modes have no overlap with the modes the agent produces.
type UnsupportedOutputModeError struct {
	Accepted  []string
	Supported []string
}

// Error returns the error message.
func (e UnsupportedOutputModeError) Error() string {
	return fmt.Sprintf("unsupported output modes: accepted [%s], supported [%s]",
		strings.Join(e.Accepted, ", "), strings.Join(e.Supported, ", "))
}

// PipelineError represents a pipeline failure while processing a task. The
// task has been recorded in the failed state before this error surfaces.
type PipelineError struct {
	TaskID string
	Err    error
}

// Error returns the error message.
func (e PipelineError) Error() string {
	return fmt.Sprintf("pipeline failed for task %s: %v", e.TaskID, e.Err)
}

// Unwrap returns the underlying error.
func (e PipelineError) Unwrap() error {
	return e.Err
}

// NewInvalidRequestError creates a new InvalidRequestError.
func NewInvalidRequestError(err error) InvalidRequestError {
	return InvalidRequestError{
		Err: err,
	}
}

// NewUnsupportedContentError creates a new UnsupportedContentError.
func NewUnsupportedContentError(partType string) UnsupportedContentError {
	return UnsupportedContentError{
		PartType: partType,
	}
}

// NewUnsupportedOutputModeError creates a new UnsupportedOutputModeError.
func NewUnsupportedOutputModeError(accepted, supported []string) UnsupportedOutputModeError {
	return UnsupportedOutputModeError{
		Accepted:  accepted,
		Supported: supported,
	}
}

// NewPipelineError creates a new PipelineError.
func NewPipelineError(taskID string, err error) PipelineError {
	return PipelineError{
		TaskID: taskID,
		Err:    err,
	}
}
