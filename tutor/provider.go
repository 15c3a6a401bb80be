// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package tutor

import (
	"context"
	"fmt"
)

// Provider generates text from a language model. A Provider call is the
// unit of work a pipeline stage performs; implementations live under
// tutor/provider.
type Provider interface {
	// Generate produces a completion for contextText under the given
	// system instruction. An empty completion is an error.
	Generate(ctx context.Context, systemInstruction, contextText string) (string, error)
}

// Pipeline stage names used in errors, logs and trace attributes.
const (
	StageGapAssessment   = "gap_assessment"
	StageMaterialsDesign = "materials_design"
)

// CapabilityError represents a failure of a pipeline stage's provider call.
type CapabilityError struct {
	Stage string
	Err   error
}

// Error returns the error message.
func (e CapabilityError) Error() string {
	return fmt.Sprintf("capability %s failed: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e CapabilityError) Unwrap() error {
	return e.Err
}

// NewCapabilityError creates a new CapabilityError.
func NewCapabilityError(stage string, err error) CapabilityError {
	return CapabilityError{
		Stage: stage,
		Err:   err,
	}
}
