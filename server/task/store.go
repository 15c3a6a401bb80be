// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package task provides task persistence for the tutor agent server.
package task

import (
	"context"

	"github.com/go-a2a/tutor-agent/a2a"
)

// TaskStore defines the interface for task persistence operations.
// This interface abstracts the storage mechanism to allow different
// implementations (database, in-memory, etc.) while maintaining a
// consistent API for task management operations.
type TaskStore interface {
	// Create persists a new task in the Submitted state, seeded with the
	// submitting message as the first history entry.
	// Returns DuplicateTaskError if a task with the same ID already exists.
	Create(ctx context.Context, taskID, sessionID string, msg a2a.Message) (*a2a.Task, error)

	// Get retrieves a task by its ID from the storage backend.
	// Returns TaskNotFoundError if the task doesn't exist.
	Get(ctx context.Context, taskID string) (*a2a.Task, error)

	// Update applies mutate to the stored task as a single atomic
	// read-modify-write. No concurrent Update on the same task can
	// interleave with it. The updated task is returned.
	// Returns TaskNotFoundError if the task doesn't exist.
	Update(ctx context.Context, taskID string, mutate func(*a2a.Task) error) (*a2a.Task, error)

	// Exists reports whether a task with the given ID is stored.
	Exists(ctx context.Context, taskID string) (bool, error)

	// List retrieves tasks with optional filtering.
	// The sessionID parameter can be used to filter tasks by session.
	// If sessionID is empty, all tasks are returned.
	List(ctx context.Context, sessionID string, limit, offset int) ([]*a2a.Task, error)

	// Count returns the total number of tasks in the storage backend.
	// The sessionID parameter can be used to count tasks by session.
	Count(ctx context.Context, sessionID string) (int64, error)

	// Initialize prepares the storage backend for use.
	// This may involve creating tables, indexes, or other setup operations.
	Initialize(ctx context.Context) error

	// Close cleanly shuts down the storage backend.
	// This should be called when the store is no longer needed.
	Close(ctx context.Context) error
}
