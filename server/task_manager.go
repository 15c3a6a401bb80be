// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package server implements the A2A server side of the tutor agent: the
// task lifecycle manager and the HTTP JSON-RPC transport.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/go-a2a/tutor-agent/a2a"
	"github.com/go-a2a/tutor-agent/server/task"
	"github.com/go-a2a/tutor-agent/tutor"
)

// Invoker runs the tutoring pipeline for a submitted query.
// *tutor.Agent is the production implementation.
type Invoker interface {
	Invoke(ctx context.Context, query, sessionID string) (string, error)
}

// TaskManager is the interface that task managers must implement.
type TaskManager interface {
	// OnSendTask handles a task submission.
	OnSendTask(ctx context.Context, params a2a.TaskSendParams) (*a2a.Task, error)

	// OnGetTask retrieves a task.
	OnGetTask(ctx context.Context, params a2a.TaskQueryParams) (*a2a.Task, error)
}

// TutorTaskManager drives tasks through the submitted → working →
// {completed|failed} lifecycle, running the tutoring pipeline once per
// task ID.
type TutorTaskManager struct {
	store   task.TaskStore
	invoker Invoker
	group   singleflight.Group

	// Logger is the logger for the task manager.
	Logger *slog.Logger

	// Tracer is the tracer for the task manager.
	Tracer trace.Tracer
}

var _ TaskManager = (*TutorTaskManager)(nil)

// NewTutorTaskManager creates a new TutorTaskManager.
func NewTutorTaskManager(store task.TaskStore, invoker Invoker) *TutorTaskManager {
	return &TutorTaskManager{
		store:   store,
		invoker: invoker,
		Logger:  slog.Default(),
		Tracer:  otel.GetTracerProvider().Tracer("github.com/go-a2a/tutor-agent/server/task_manager"),
	}
}

// WithLogger sets the logger for the TaskManager.
func (tm *TutorTaskManager) WithLogger(logger *slog.Logger) *TutorTaskManager {
	tm.Logger = logger
	return tm
}

// WithTracer sets the tracer for the TaskManager.
func (tm *TutorTaskManager) WithTracer(tracer trace.Tracer) *TutorTaskManager {
	tm.Tracer = tracer
	return tm
}

// OnSendTask handles a task submission. Validation happens before any
// state mutation, so a rejected submission leaves no task record behind.
// Submissions sharing a task ID are collapsed into a single pipeline
// execution; a resubmitted terminal task replays its stored result
// without invoking the pipeline again.
func (tm *TutorTaskManager) OnSendTask(ctx context.Context, params a2a.TaskSendParams) (*a2a.Task, error) {
	ctx, span := tm.Tracer.Start(ctx, "a2a.task_manager.OnSendTask",
		trace.WithAttributes(attribute.String("a2a.task_id", params.ID)))
	defer span.End()

	if params.ID == "" {
		return nil, NewInvalidRequestError(fmt.Errorf("task ID cannot be empty"))
	}
	if params.SessionID == "" {
		return nil, NewInvalidRequestError(fmt.Errorf("session ID cannot be empty"))
	}
	for _, part := range params.Message.Parts {
		if part.PartType() != a2a.PartTypeText {
			return nil, NewUnsupportedContentError(part.PartType())
		}
	}
	if !params.Message.HasTextPart() {
		return nil, NewUnsupportedContentError("")
	}
	if err := params.Validate(); err != nil {
		return nil, NewInvalidRequestError(err)
	}
	if !a2a.CompatibleModes(params.AcceptedOutputModes, tutor.SupportedContentTypes) {
		return nil, NewUnsupportedOutputModeError(params.AcceptedOutputModes, tutor.SupportedContentTypes)
	}

	// The flight outlives the submitting request: once dispatched, the
	// pipeline runs to completion or failure even if the initiating
	// caller disconnects, so joined callers observe its real outcome.
	// The stage timeout remains the only bound on the provider call.
	v, err, shared := tm.group.Do(params.ID, func() (any, error) {
		return tm.processTask(context.WithoutCancel(ctx), params)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		tm.Logger.DebugContext(ctx, "submission joined in-flight task",
			slog.String("task_id", params.ID))
	}

	return v.(*a2a.Task), nil
}

// processTask runs inside the single flight for a task ID.
func (tm *TutorTaskManager) processTask(ctx context.Context, params a2a.TaskSendParams) (*a2a.Task, error) {
	existing, err := tm.store.Get(ctx, params.ID)
	var notFound task.TaskNotFoundError
	switch {
	case err == nil:
		if existing.Status.State.Terminal() {
			tm.Logger.InfoContext(ctx, "replaying stored result for terminal task",
				slog.String("task_id", params.ID),
				slog.String("state", string(existing.Status.State)))
			return existing, nil
		}
		// A stale non-terminal record from an interrupted run; the new
		// submission takes it over.
		if _, err := tm.store.Update(ctx, params.ID, func(t *a2a.Task) error {
			t.History = append(t.History, params.Message)
			return nil
		}); err != nil {
			return nil, err
		}
	case errors.As(err, &notFound):
		if _, err := tm.store.Create(ctx, params.ID, params.SessionID, params.Message); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if _, err := tm.store.Update(ctx, params.ID, func(t *a2a.Task) error {
		t.Status = a2a.TaskStatus{
			State:     a2a.TaskStateWorking,
			Timestamp: time.Now().UTC(),
		}
		return nil
	}); err != nil {
		return nil, err
	}

	tm.Logger.InfoContext(ctx, "task working",
		slog.String("task_id", params.ID),
		slog.String("session_id", params.SessionID))

	result, invokeErr := tm.invoker.Invoke(ctx, params.Message.TextContent(), params.SessionID)
	if invokeErr != nil {
		failMsg := a2a.NewAgentTextMessage(fmt.Sprintf("Error: failed to generate learning plan: %v", invokeErr))
		if _, err := tm.store.Update(ctx, params.ID, func(t *a2a.Task) error {
			t.History = append(t.History, failMsg)
			t.Status = a2a.TaskStatus{
				State:     a2a.TaskStateFailed,
				Message:   &failMsg,
				Timestamp: time.Now().UTC(),
			}
			return nil
		}); err != nil {
			tm.Logger.ErrorContext(ctx, "failed to record task failure",
				slog.String("task_id", params.ID),
				slog.Any("error", err))
		}
		return nil, NewPipelineError(params.ID, invokeErr)
	}

	resultMsg := a2a.NewAgentTextMessage(result)
	completed, err := tm.store.Update(ctx, params.ID, func(t *a2a.Task) error {
		t.History = append(t.History, resultMsg)
		t.Status = a2a.TaskStatus{
			State:     a2a.TaskStateCompleted,
			Message:   &resultMsg,
			Timestamp: time.Now().UTC(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	tm.Logger.InfoContext(ctx, "task completed",
		slog.String("task_id", params.ID))

	return completed, nil
}

// OnGetTask retrieves a task, optionally truncating its history to the
// most recent HistoryLength messages.
func (tm *TutorTaskManager) OnGetTask(ctx context.Context, params a2a.TaskQueryParams) (*a2a.Task, error) {
	ctx, span := tm.Tracer.Start(ctx, "a2a.task_manager.OnGetTask",
		trace.WithAttributes(attribute.String("a2a.task_id", params.ID)))
	defer span.End()

	if params.ID == "" {
		return nil, NewInvalidRequestError(fmt.Errorf("task ID cannot be empty"))
	}
	if params.HistoryLength != nil && *params.HistoryLength < 0 {
		return nil, NewInvalidRequestError(fmt.Errorf("history length cannot be negative"))
	}

	t, err := tm.store.Get(ctx, params.ID)
	if err != nil {
		return nil, err
	}

	if params.HistoryLength != nil {
		n := *params.HistoryLength
		if n == 0 {
			t.History = nil
		} else if len(t.History) > n {
			t.History = t.History[len(t.History)-n:]
		}
	}

	return t, nil
}
