// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/go-a2a/tutor-agent/a2a"
)

func TestInMemoryTaskStoreCreate(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryTaskStore()

	created, err := store.Create(ctx, "task-1", "session-1", a2a.NewUserTextMessage("Topic: Go"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.Status.State != a2a.TaskStateSubmitted {
		t.Errorf("state = %q, want %q", created.Status.State, a2a.TaskStateSubmitted)
	}
	if len(created.History) != 1 {
		t.Errorf("got %d history entries, want 1", len(created.History))
	}
	if created.Status.Timestamp.IsZero() {
		t.Error("timestamp not set on create")
	}

	// Duplicate IDs are rejected
	_, err = store.Create(ctx, "task-1", "session-1", a2a.NewUserTextMessage("again"))
	var dup DuplicateTaskError
	if !errors.As(err, &dup) {
		t.Errorf("duplicate create error = %v, want DuplicateTaskError", err)
	}
}

func TestInMemoryTaskStoreGetNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryTaskStore()

	_, err := store.Get(ctx, "missing")
	var notFound TaskNotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("Get error = %v, want TaskNotFoundError", err)
	}
	if notFound.TaskID != "missing" {
		t.Errorf("error task ID = %q, want %q", notFound.TaskID, "missing")
	}
}

func TestInMemoryTaskStoreUpdate(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryTaskStore()

	if _, err := store.Create(ctx, "task-1", "session-1", a2a.NewUserTextMessage("Topic: Go")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := store.Update(ctx, "task-1", func(task *a2a.Task) error {
		task.Status.State = a2a.TaskStateWorking
		return nil
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Status.State != a2a.TaskStateWorking {
		t.Errorf("state = %q, want %q", updated.Status.State, a2a.TaskStateWorking)
	}

	stored, err := store.Get(ctx, "task-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if stored.Status.State != a2a.TaskStateWorking {
		t.Errorf("stored state = %q, want %q", stored.Status.State, a2a.TaskStateWorking)
	}
}

func TestInMemoryTaskStoreUpdateFailureLeavesTaskUntouched(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryTaskStore()

	if _, err := store.Create(ctx, "task-1", "session-1", a2a.NewUserTextMessage("Topic: Go")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err := store.Update(ctx, "task-1", func(task *a2a.Task) error {
		task.Status.State = a2a.TaskStateCompleted
		return fmt.Errorf("mutation rejected")
	})
	if err == nil {
		t.Fatal("Update with failing mutator succeeded")
	}

	stored, err := store.Get(ctx, "task-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if stored.Status.State != a2a.TaskStateSubmitted {
		t.Errorf("stored state changed to %q after failed mutation", stored.Status.State)
	}
}

func TestInMemoryTaskStoreCopies(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryTaskStore()

	if _, err := store.Create(ctx, "task-1", "session-1", a2a.NewUserTextMessage("Topic: Go")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Mutations of a returned task must not leak into the store
	got, err := store.Get(ctx, "task-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	got.Status.State = a2a.TaskStateFailed
	got.History = append(got.History, a2a.NewAgentTextMessage("tampered"))

	stored, err := store.Get(ctx, "task-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if stored.Status.State != a2a.TaskStateSubmitted {
		t.Errorf("stored state mutated through returned copy: %q", stored.Status.State)
	}
	if len(stored.History) != 1 {
		t.Errorf("stored history mutated through returned copy: %d entries", len(stored.History))
	}
}

func TestInMemoryTaskStoreExists(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryTaskStore()

	exists, err := store.Exists(ctx, "task-1")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("Exists reported true for missing task")
	}

	if _, err := store.Create(ctx, "task-1", "session-1", a2a.NewUserTextMessage("Topic: Go")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	exists, err = store.Exists(ctx, "task-1")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("Exists reported false for stored task")
	}
}

func TestInMemoryTaskStoreListAndCount(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryTaskStore()

	for i := range 3 {
		sessionID := "session-a"
		if i == 2 {
			sessionID = "session-b"
		}
		id := fmt.Sprintf("task-%d", i)
		if _, err := store.Create(ctx, id, sessionID, a2a.NewUserTextMessage("Topic: Go")); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	all, err := store.List(ctx, "", 0, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("got %d tasks, want 3", len(all))
	}

	filtered, err := store.List(ctx, "session-a", 0, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(filtered) != 2 {
		t.Errorf("got %d tasks for session-a, want 2", len(filtered))
	}

	count, err := store.Count(ctx, "session-b")
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestInMemoryTaskStoreConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryTaskStore()

	if _, err := store.Create(ctx, "task-1", "session-1", a2a.NewUserTextMessage("Topic: Go")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	const workers = 16
	done := make(chan error, workers)
	for range workers {
		go func() {
			_, err := store.Update(ctx, "task-1", func(task *a2a.Task) error {
				task.History = append(task.History, a2a.NewAgentTextMessage("entry"))
				return nil
			})
			done <- err
		}()
	}
	for range workers {
		if err := <-done; err != nil {
			t.Fatalf("concurrent Update failed: %v", err)
		}
	}

	stored, err := store.Get(ctx, "task-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	// Initial message plus one appended per worker; lost updates would
	// leave fewer entries.
	if len(stored.History) != workers+1 {
		t.Errorf("got %d history entries, want %d", len(stored.History), workers+1)
	}
}
