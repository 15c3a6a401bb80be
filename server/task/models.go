// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"database/sql/driver"
	"fmt"

	json "github.com/bytedance/sonic"

	"github.com/go-a2a/tutor-agent/a2a"
)

// TaskStatusJSON provides JSON serialization for TaskStatus in database columns.
type TaskStatusJSON struct {
	a2a.TaskStatus
}

// Value implements the driver.Valuer interface for database storage.
func (ts TaskStatusJSON) Value() (driver.Value, error) {
	return json.ConfigFastest.Marshal(ts.TaskStatus)
}

// Scan implements the sql.Scanner interface for database retrieval.
func (ts *TaskStatusJSON) Scan(value any) error {
	if value == nil {
		*ts = TaskStatusJSON{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into TaskStatusJSON", value)
	}

	var status a2a.TaskStatus
	if err := json.ConfigFastest.Unmarshal(bytes, &status); err != nil {
		return fmt.Errorf("cannot unmarshal TaskStatusJSON: %w", err)
	}

	ts.TaskStatus = status
	return nil
}

// MessageSliceJSON provides JSON serialization for []Message in database columns.
type MessageSliceJSON struct {
	Messages []a2a.Message
}

// Value implements the driver.Valuer interface for database storage.
func (ms MessageSliceJSON) Value() (driver.Value, error) {
	if ms.Messages == nil {
		return nil, nil
	}
	return json.ConfigFastest.Marshal(ms.Messages)
}

// Scan implements the sql.Scanner interface for database retrieval.
func (ms *MessageSliceJSON) Scan(value any) error {
	if value == nil {
		*ms = MessageSliceJSON{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into MessageSliceJSON", value)
	}

	var messages []a2a.Message
	if err := json.ConfigFastest.Unmarshal(bytes, &messages); err != nil {
		return fmt.Errorf("cannot unmarshal MessageSliceJSON: %w", err)
	}

	ms.Messages = messages
	return nil
}

// TaskModel is the database representation of a task.
type TaskModel struct {
	ID        string           `gorm:"primaryKey;size:64" json:"id"`
	SessionID string           `gorm:"size:64;index" json:"sessionId"`
	Status    TaskStatusJSON   `gorm:"type:json" json:"status"`
	History   MessageSliceJSON `gorm:"type:json" json:"history"`
	Metadata  map[string]any   `gorm:"serializer:json" json:"metadata"`
}

// TableName returns the table name for the TaskModel.
func (TaskModel) TableName() string {
	return "tasks"
}

// NewTaskModelFromTask converts a task to its database representation.
func NewTaskModelFromTask(task *a2a.Task) (*TaskModel, error) {
	if task == nil {
		return nil, fmt.Errorf("task cannot be nil")
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}

	return &TaskModel{
		ID:        task.ID,
		SessionID: task.SessionID,
		Status:    TaskStatusJSON{TaskStatus: task.Status},
		History:   MessageSliceJSON{Messages: task.History},
		Metadata:  task.Metadata,
	}, nil
}

// ToTask converts the database representation back to a task.
func (m *TaskModel) ToTask() (*a2a.Task, error) {
	task := &a2a.Task{
		ID:        m.ID,
		SessionID: m.SessionID,
		Status:    m.Status.TaskStatus,
		History:   m.History.Messages,
		Metadata:  m.Metadata,
	}
	if err := task.Validate(); err != nil {
		return nil, fmt.Errorf("stored task %s is invalid: %w", m.ID, err)
	}
	return task, nil
}
