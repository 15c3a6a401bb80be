// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/go-a2a/tutor-agent/a2a"
)

// DatabaseTaskStore is a database implementation of TaskStore using GORM.
type DatabaseTaskStore struct {
	db          *gorm.DB
	createTable bool
}

var _ TaskStore = (*DatabaseTaskStore)(nil)

// DatabaseTaskStoreConfig holds configuration for DatabaseTaskStore.
type DatabaseTaskStoreConfig struct {
	DB          *gorm.DB
	CreateTable bool // Whether to create the table if it doesn't exist
}

// NewDatabaseTaskStore creates a new DatabaseTaskStore.
func NewDatabaseTaskStore(config DatabaseTaskStoreConfig) (*DatabaseTaskStore, error) {
	if config.DB == nil {
		return nil, fmt.Errorf("database connection cannot be nil")
	}

	return &DatabaseTaskStore{
		db:          config.DB,
		createTable: config.CreateTable,
	}, nil
}

// Create persists a new task in the Submitted state.
func (s *DatabaseTaskStore) Create(ctx context.Context, taskID, sessionID string, msg a2a.Message) (*a2a.Task, error) {
	if taskID == "" {
		return nil, fmt.Errorf("task ID cannot be empty")
	}
	if err := msg.Validate(); err != nil {
		return nil, NewTaskValidationError(taskID, err)
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

	model, err := NewTaskModelFromTask(task)
	if err != nil {
		return nil, NewTaskStoreError("create", taskID, fmt.Errorf("failed to convert task to model: %w", err))
	}

	if err := s.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, NewDuplicateTaskError(taskID)
		}
		return nil, NewTaskStoreError("create", taskID, err)
	}

	return task, nil
}

// Get retrieves a task by its ID from the database.
func (s *DatabaseTaskStore) Get(ctx context.Context, taskID string) (*a2a.Task, error) {
	if taskID == "" {
		return nil, fmt.Errorf("task ID cannot be empty")
	}

	var model TaskModel
	if err := s.db.WithContext(ctx).Where("id = ?", taskID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewTaskNotFoundError(taskID)
		}
		return nil, NewTaskStoreError("get", taskID, err)
	}

	task, err := model.ToTask()
	if err != nil {
		return nil, NewTaskStoreError("get", taskID, fmt.Errorf("failed to convert model to task: %w", err))
	}

	return task, nil
}

// Update applies mutate inside a database transaction with the row locked,
// so no concurrent Update on the same task can interleave.
func (s *DatabaseTaskStore) Update(ctx context.Context, taskID string, mutate func(*a2a.Task) error) (*a2a.Task, error) {
	if taskID == "" {
		return nil, fmt.Errorf("task ID cannot be empty")
	}

	var updated *a2a.Task
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model TaskModel
		if err := tx.Where("id = ?", taskID).First(&model).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewTaskNotFoundError(taskID)
			}
			return NewTaskStoreError("update", taskID, err)
		}

		task, err := model.ToTask()
		if err != nil {
			return NewTaskStoreError("update", taskID, fmt.Errorf("failed to convert model to task: %w", err))
		}

		if err := mutate(task); err != nil {
			return NewTaskStoreError("update", taskID, err)
		}
		if err := task.Validate(); err != nil {
			return NewTaskValidationError(taskID, err)
		}

		next, err := NewTaskModelFromTask(task)
		if err != nil {
			return NewTaskStoreError("update", taskID, fmt.Errorf("failed to convert task to model: %w", err))
		}
		if err := tx.Save(next).Error; err != nil {
			return NewTaskStoreError("update", taskID, err)
		}

		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Exists reports whether a task with the given ID is stored.
func (s *DatabaseTaskStore) Exists(ctx context.Context, taskID string) (bool, error) {
	if taskID == "" {
		return false, fmt.Errorf("task ID cannot be empty")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&TaskModel{}).Where("id = ?", taskID).Count(&count).Error; err != nil {
		return false, NewTaskStoreError("exists", taskID, err)
	}
	return count > 0, nil
}

// List retrieves tasks with optional filtering.
func (s *DatabaseTaskStore) List(ctx context.Context, sessionID string, limit, offset int) ([]*a2a.Task, error) {
	var models []TaskModel
	db := s.db.WithContext(ctx)

	// Apply session filter if provided
	if sessionID != "" {
		db = db.Where("session_id = ?", sessionID)
	}

	if limit > 0 {
		db = db.Limit(limit)
	}
	if offset > 0 {
		db = db.Offset(offset)
	}

	if err := db.Order("id").Find(&models).Error; err != nil {
		return nil, NewTaskStoreError("list", "", err)
	}

	tasks := make([]*a2a.Task, len(models))
	for i, model := range models {
		task, err := model.ToTask()
		if err != nil {
			return nil, NewTaskStoreError("list", model.ID, fmt.Errorf("failed to convert model to task: %w", err))
		}
		tasks[i] = task
	}

	return tasks, nil
}

// Count returns the total number of tasks in the database.
func (s *DatabaseTaskStore) Count(ctx context.Context, sessionID string) (int64, error) {
	var count int64
	query := s.db.WithContext(ctx).Model(&TaskModel{})

	if sessionID != "" {
		query = query.Where("session_id = ?", sessionID)
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, NewTaskStoreError("count", "", err)
	}

	return count, nil
}

// Initialize prepares the database for use.
func (s *DatabaseTaskStore) Initialize(ctx context.Context) error {
	if !s.createTable {
		return nil
	}

	if err := s.db.WithContext(ctx).AutoMigrate(&TaskModel{}); err != nil {
		return NewTaskStoreError("initialize", "", err)
	}

	return nil
}

// Close cleanly shuts down the database store.
func (s *DatabaseTaskStore) Close(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return NewTaskStoreError("close", "", err)
	}
	return sqlDB.Close()
}
