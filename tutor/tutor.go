// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package tutor implements the learning-gap-assessment pipeline: parsing
// a student query, running the gap assessment and materials design stages
// against a language model provider, and assembling the learning plan.
package tutor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// SupportedContentTypes lists the content types the tutor agent accepts
// and produces.
var SupportedContentTypes = []string{"text", "text/plain"}

// DefaultStageTimeout bounds a single provider call when no timeout is
// configured.
const DefaultStageTimeout = 120 * time.Second

// Agent runs the two-stage tutoring pipeline. Stages execute strictly in
// order; the materials design stage consumes the gap assessment output.
// An Agent is stateless across invocations and safe for concurrent use.
type Agent struct {
	provider     Provider
	stageTimeout time.Duration

	// Logger is the logger for the agent.
	Logger *slog.Logger

	// Tracer is the tracer for the agent.
	Tracer trace.Tracer
}

// NewAgent creates a new Agent backed by the given provider.
func NewAgent(provider Provider) *Agent {
	return &Agent{
		provider:     provider,
		stageTimeout: DefaultStageTimeout,
		Logger:       slog.Default(),
		Tracer:       otel.GetTracerProvider().Tracer("github.com/go-a2a/tutor-agent/tutor"),
	}
}

// WithLogger sets the logger for the Agent.
func (a *Agent) WithLogger(logger *slog.Logger) *Agent {
	a.Logger = logger
	return a
}

// WithTracer sets the tracer for the Agent.
func (a *Agent) WithTracer(tracer trace.Tracer) *Agent {
	a.Tracer = tracer
	return a
}

// WithStageTimeout sets the per-stage provider call timeout.
func (a *Agent) WithStageTimeout(timeout time.Duration) *Agent {
	if timeout > 0 {
		a.stageTimeout = timeout
	}
	return a
}

// Invoke processes a student query and returns the learning plan as a
// markdown document. The query is parsed best effort; a query without the
// labeled convention is forwarded to the pipeline as freeform text. Any
// stage failure aborts the pipeline with a CapabilityError.
func (a *Agent) Invoke(ctx context.Context, query, sessionID string) (string, error) {
	ctx, span := a.Tracer.Start(ctx, "tutor.agent.Invoke",
		trace.WithAttributes(attribute.String("tutor.session_id", sessionID)))
	defer span.End()

	profile := ParseStudentProfile(query).withDefaults()

	a.Logger.InfoContext(ctx, "processing student query",
		slog.String("session_id", sessionID),
		slog.String("topic", profile.Topic),
		slog.Bool("structured", profile.Structured()))

	assessment, err := a.runStage(ctx, StageGapAssessment, assessorInstruction, assessmentPrompt(profile, query))
	if err != nil {
		return "", err
	}

	plan, err := a.runStage(ctx, StageMaterialsDesign, designerInstruction, materialsPrompt(profile, assessment))
	if err != nil {
		return "", err
	}

	return formatLearningPlan(assessment, plan), nil
}

// runStage executes one provider call under the stage timeout.
func (a *Agent) runStage(ctx context.Context, stage, instruction, prompt string) (string, error) {
	ctx, span := a.Tracer.Start(ctx, "tutor.agent.runStage",
		trace.WithAttributes(attribute.String("tutor.stage", stage)))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, a.stageTimeout)
	defer cancel()

	output, err := a.provider.Generate(ctx, instruction, prompt)
	if err != nil {
		a.Logger.ErrorContext(ctx, "pipeline stage failed",
			slog.String("stage", stage),
			slog.Any("error", err))
		return "", NewCapabilityError(stage, err)
	}
	if strings.TrimSpace(output) == "" {
		a.Logger.ErrorContext(ctx, "pipeline stage returned empty output",
			slog.String("stage", stage))
		return "", NewCapabilityError(stage, fmt.Errorf("provider returned empty output"))
	}

	return output, nil
}

// formatLearningPlan assembles the final markdown document from the two
// stage outputs. The layout is fixed: the gap assessment section followed
// by the learning materials section.
func formatLearningPlan(assessment, plan string) string {
	var b strings.Builder
	b.WriteString("# Personalized Learning Plan\n\n")
	b.WriteString("## Learning Gap Assessment\n")
	b.WriteString(strings.TrimSpace(assessment))
	b.WriteString("\n\n## Personalized Learning Materials\n")
	b.WriteString(strings.TrimSpace(plan))
	b.WriteString("\n")
	return b.String()
}
