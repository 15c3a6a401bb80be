// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-a2a/tutor-agent/a2a"
)

// InMemoryTaskStore is an in-memory implementation of TaskStore.
// Task data is lost when the server process stops.
// All operations are thread-safe using sync.RWMutex.
type InMemoryTaskStore struct {
	mu    sync.RWMutex
	tasks map[string]*a2a.Task
}

var _ TaskStore = (*InMemoryTaskStore)(nil)

// NewInMemoryTaskStore creates a new InMemoryTaskStore.
func NewInMemoryTaskStore() *InMemoryTaskStore {
	return &InMemoryTaskStore{
		tasks: make(map[string]*a2a.Task),
	}
}

// Create persists a new task in the Submitted state.
func (s *InMemoryTaskStore) Create(ctx context.Context, taskID, sessionID string, msg a2a.Message) (*a2a.Task, error) {
	if taskID == "" {
		return nil, fmt.Errorf("task ID cannot be empty")
	}
	if err := msg.Validate(); err != nil {
		return nil, NewTaskValidationError(taskID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[taskID]; exists {
		return nil, NewDuplicateTaskError(taskID)
	}

	task := &a2a.Task{
		ID:        taskID,
		SessionID: sessionID,
		Status: a2a.TaskStatus{
			State:     a2a.TaskStateSubmitted,
			Timestamp: time.Now().UTC(),
		},
		History: []a2a.Message{msg},
	}
	s.tasks[taskID] = task

	return s.copyTask(task), nil
}

// Get retrieves a task by its ID from the in-memory storage.
func (s *InMemoryTaskStore) Get(ctx context.Context, taskID string) (*a2a.Task, error) {
	if taskID == "" {
		return nil, fmt.Errorf("task ID cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	task, exists := s.tasks[taskID]
	if !exists {
		return nil, NewTaskNotFoundError(taskID)
	}

	// Return a deep copy to avoid race conditions
	return s.copyTask(task), nil
}

// Update applies mutate to the stored task under the write lock, so no
// concurrent Update on the same task can interleave.
func (s *InMemoryTaskStore) Update(ctx context.Context, taskID string, mutate func(*a2a.Task) error) (*a2a.Task, error) {
	if taskID == "" {
		return nil, fmt.Errorf("task ID cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task, exists := s.tasks[taskID]
	if !exists {
		return nil, NewTaskNotFoundError(taskID)
	}

	// Mutate a copy so a failed mutation leaves the stored task untouched.
	updated := s.copyTask(task)
	if err := mutate(updated); err != nil {
		return nil, NewTaskStoreError("update", taskID, err)
	}
	if err := updated.Validate(); err != nil {
		return nil, NewTaskValidationError(taskID, err)
	}

	s.tasks[taskID] = updated
	return s.copyTask(updated), nil
}

// Exists reports whether a task with the given ID is stored.
func (s *InMemoryTaskStore) Exists(ctx context.Context, taskID string) (bool, error) {
	if taskID == "" {
		return false, fmt.Errorf("task ID cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.tasks[taskID]
	return exists, nil
}

// List retrieves tasks with optional filtering.
func (s *InMemoryTaskStore) List(ctx context.Context, sessionID string, limit, offset int) ([]*a2a.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tasks []*a2a.Task
	count := 0

	for _, task := range s.tasks {
		// Filter by session ID if provided
		if sessionID != "" && task.SessionID != sessionID {
			continue
		}

		// Apply offset
		if count < offset {
			count++
			continue
		}

		// Apply limit
		if limit > 0 && len(tasks) >= limit {
			break
		}

		tasks = append(tasks, s.copyTask(task))
		count++
	}

	return tasks, nil
}

// Count returns the total number of tasks in the in-memory storage.
func (s *InMemoryTaskStore) Count(ctx context.Context, sessionID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if sessionID == "" {
		return int64(len(s.tasks)), nil
	}

	count := int64(0)
	for _, task := range s.tasks {
		if task.SessionID == sessionID {
			count++
		}
	}

	return count, nil
}

// Initialize prepares the in-memory storage for use.
func (s *InMemoryTaskStore) Initialize(ctx context.Context) error {
	// No initialization needed for in-memory storage
	return nil
}

// Close cleanly shuts down the in-memory storage.
func (s *InMemoryTaskStore) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Clear all tasks
	s.tasks = make(map[string]*a2a.Task)
	return nil
}

// copyTask creates a deep copy of a task to avoid race conditions.
func (s *InMemoryTaskStore) copyTask(task *a2a.Task) *a2a.Task {
	if task == nil {
		return nil
	}

	copy := &a2a.Task{
		ID:        task.ID,
		SessionID: task.SessionID,
		Status: a2a.TaskStatus{
			State:     task.Status.State,
			Message:   s.copyMessage(task.Status.Message),
			Timestamp: task.Status.Timestamp,
		},
		Metadata: s.copyMetadata(task.Metadata),
	}

	if task.History != nil {
		copy.History = make([]a2a.Message, len(task.History))
		for i, message := range task.History {
			copy.History[i] = *s.copyMessage(&message)
		}
	}

	return copy
}

// copyMessage creates a deep copy of a message. Part values are immutable
// once constructed, so the parts slice is copied but not its elements.
func (s *InMemoryTaskStore) copyMessage(message *a2a.Message) *a2a.Message {
	if message == nil {
		return nil
	}

	copy := &a2a.Message{
		Role:     message.Role,
		Metadata: s.copyMetadata(message.Metadata),
	}
	if message.Parts != nil {
		copy.Parts = make([]a2a.Part, len(message.Parts))
		for i, part := range message.Parts {
			copy.Parts[i] = part
		}
	}
	return copy
}

// copyMetadata creates a deep copy of metadata map.
func (s *InMemoryTaskStore) copyMetadata(metadata map[string]any) map[string]any {
	if metadata == nil {
		return nil
	}

	copy := make(map[string]any, len(metadata))
	for k, v := range metadata {
		copy[k] = v
	}
	return copy
}

// Clear removes all tasks from the in-memory storage.
// This is useful for testing purposes.
func (s *InMemoryTaskStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = make(map[string]*a2a.Task)
}

// Size returns the current number of tasks in the in-memory storage.
// This is useful for testing and monitoring purposes.
func (s *InMemoryTaskStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.tasks)
}
