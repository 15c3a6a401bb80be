// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package a2a provides the Agent-to-Agent (A2A) protocol types used by the
// tutor agent: tasks, messages, parts, agent cards and the JSON-RPC 2.0
// envelope they travel in.
package a2a

import (
	"fmt"
	"time"
)

// Version is the current version of the A2A protocol implementation.
const Version = "0.1.0"

// AgentCardWellKnownPath is the standard path for retrieving an agent's
// public AgentCard.
const AgentCardWellKnownPath = "/.well-known/agent.json"

// TaskState represents the state of a Task.
type TaskState string

const (
	// TaskStateSubmitted indicates the task has been received but work has
	// not started.
	TaskStateSubmitted TaskState = "submitted"

	// TaskStateWorking indicates the task is being worked on.
	TaskStateWorking TaskState = "working"

	// TaskStateCompleted indicates the task has completed successfully.
	TaskStateCompleted TaskState = "completed"

	// TaskStateCanceled indicates the task has been canceled.
	TaskStateCanceled TaskState = "canceled"

	// TaskStateFailed indicates the task has failed.
	TaskStateFailed TaskState = "failed"
)

// Terminal reports whether the state is final. Tasks in a terminal state
// never transition again; a retry is a new submission with a new task ID.
func (s TaskState) Terminal() bool {
	switch s {
	case TaskStateCompleted, TaskStateFailed, TaskStateCanceled:
		return true
	default:
		return false
	}
}

// Role represents the role of a message sender.
type Role string

// Role constants for message senders.
const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// Part type discriminators used on the wire.
const (
	PartTypeText = "text"
	PartTypeFile = "file"
	PartTypeData = "data"
)

// Part represents a part of a message's content. It is a tagged union
// discriminated by the "type" JSON field.
type Part interface {
	PartType() string
	Validate() error
}

// TextPart represents a plain-text segment within message parts.
type TextPart struct {
	Type     string         `json:"type"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

var _ Part = TextPart{}

// NewTextPart creates a new TextPart with the given text.
func NewTextPart(text string) TextPart {
	return TextPart{
		Type: PartTypeText,
		Text: text,
	}
}

// PartType implements [Part].
func (TextPart) PartType() string { return PartTypeText }

// Validate ensures the TextPart is valid.
func (p TextPart) Validate() error {
	if p.Type != PartTypeText {
		return fmt.Errorf("text part has wrong type discriminator: %q", p.Type)
	}
	return nil
}

// FilePart represents a file segment within message parts. The tutor agent
// does not accept file parts; the type exists for wire compatibility.
type FilePart struct {
	Type     string         `json:"type"`
	File     FileContent    `json:"file"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

var _ Part = FilePart{}

// PartType implements [Part].
func (FilePart) PartType() string { return PartTypeFile }

// Validate ensures the FilePart is valid.
func (p FilePart) Validate() error {
	if p.Type != PartTypeFile {
		return fmt.Errorf("file part has wrong type discriminator: %q", p.Type)
	}
	if p.File.URI == "" && p.File.Bytes == "" {
		return fmt.Errorf("file part must carry a URI or inline bytes")
	}
	return nil
}

// FileContent carries a file either by URI or as base64-encoded bytes.
type FileContent struct {
	Name     string `json:"name,omitempty"`
	MIMEType string `json:"mimeType,omitempty"`
	URI      string `json:"uri,omitempty"`
	Bytes    string `json:"bytes,omitempty"`
}

// DataPart represents a structured-data segment within message parts. Like
// FilePart it is not accepted by the tutor agent.
type DataPart struct {
	Type     string         `json:"type"`
	Data     map[string]any `json:"data"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

var _ Part = DataPart{}

// PartType implements [Part].
func (DataPart) PartType() string { return PartTypeData }

// Validate ensures the DataPart is valid.
func (p DataPart) Validate() error {
	if p.Type != PartTypeData {
		return fmt.Errorf("data part has wrong type discriminator: %q", p.Type)
	}
	return nil
}

// Message represents a single exchange between a user and an agent.
type Message struct {
	Role     Role           `json:"role"`
	Parts    []Part         `json:"parts"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// NewUserTextMessage creates a user message containing a single TextPart.
func NewUserTextMessage(text string) Message {
	return Message{
		Role:  RoleUser,
		Parts: []Part{NewTextPart(text)},
	}
}

// NewAgentTextMessage creates an agent message containing a single TextPart.
func NewAgentTextMessage(text string) Message {
	return Message{
		Role:  RoleAgent,
		Parts: []Part{NewTextPart(text)},
	}
}

// Validate ensures the Message is valid.
func (m Message) Validate() error {
	if m.Role != RoleUser && m.Role != RoleAgent {
		return fmt.Errorf("invalid message role: %q", m.Role)
	}
	if len(m.Parts) == 0 {
		return fmt.Errorf("message must contain at least one part")
	}
	for i, part := range m.Parts {
		if part == nil {
			return fmt.Errorf("message part at index %d cannot be nil", i)
		}
		if err := part.Validate(); err != nil {
			return fmt.Errorf("message part at index %d is invalid: %w", i, err)
		}
	}
	return nil
}

// TextContent extracts and joins the text of all TextParts in the message,
// separated by newlines. Non-text parts are skipped.
func (m Message) TextContent() string {
	var text string
	for _, part := range m.Parts {
		tp, ok := part.(TextPart)
		if !ok {
			continue
		}
		if text != "" {
			text += "\n"
		}
		text += tp.Text
	}
	return text
}

// HasTextPart reports whether the message contains at least one TextPart.
func (m Message) HasTextPart() bool {
	for _, part := range m.Parts {
		if _, ok := part.(TextPart); ok {
			return true
		}
	}
	return false
}

// TaskStatus represents the current status of a task, optionally carrying
// a message describing the status (the task result in terminal states).
type TaskStatus struct {
	State     TaskState `json:"state"`
	Message   *Message  `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp,omitzero"`
}

// Validate ensures the TaskStatus is valid.
func (s TaskStatus) Validate() error {
	switch s.State {
	case TaskStateSubmitted, TaskStateWorking, TaskStateCompleted, TaskStateCanceled, TaskStateFailed:
	default:
		return fmt.Errorf("invalid task state: %q", s.State)
	}
	if s.Message != nil {
		if err := s.Message.Validate(); err != nil {
			return fmt.Errorf("status message is invalid: %w", err)
		}
	}
	return nil
}

// Task represents a unit of work in the A2A protocol, tracked through the
// submitted → working → {completed|failed} state machine.
type Task struct {
	ID        string         `json:"id"`
	SessionID string         `json:"sessionId,omitempty"`
	Status    TaskStatus     `json:"status"`
	History   []Message      `json:"history,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Validate ensures the Task is valid.
func (t Task) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("task ID cannot be empty")
	}
	if err := t.Status.Validate(); err != nil {
		return fmt.Errorf("task status is invalid: %w", err)
	}
	for i, msg := range t.History {
		if err := msg.Validate(); err != nil {
			return fmt.Errorf("history message at index %d is invalid: %w", i, err)
		}
	}
	return nil
}

// Result returns the task's result message, or nil when the task has not
// reached a terminal state.
func (t Task) Result() *Message {
	if !t.Status.State.Terminal() {
		return nil
	}
	return t.Status.Message
}

// TaskSendParams represents the parameters of a tasks/send request.
type TaskSendParams struct {
	ID                  string         `json:"id"`
	SessionID           string         `json:"sessionId"`
	AcceptedOutputModes []string       `json:"acceptedOutputModes,omitempty"`
	Message             Message        `json:"message"`
	Metadata            map[string]any `json:"metadata,omitempty"`
}

// Validate ensures the TaskSendParams carry the fields every submission
// must have. Output-mode and content-kind checks are the task manager's
// responsibility.
func (p TaskSendParams) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("task ID cannot be empty")
	}
	if p.SessionID == "" {
		return fmt.Errorf("session ID cannot be empty")
	}
	if err := p.Message.Validate(); err != nil {
		return fmt.Errorf("message is invalid: %w", err)
	}
	return nil
}

// TaskQueryParams represents the parameters of a tasks/get request.
type TaskQueryParams struct {
	ID            string `json:"id"`
	HistoryLength *int   `json:"historyLength,omitempty"`
}

// TaskIdParams identifies a task by ID.
type TaskIdParams struct {
	ID string `json:"id"`
}

// CompatibleModes reports whether any accepted output mode is supported.
// An empty accepted set means the caller takes the agent's defaults and is
// always compatible.
func CompatibleModes(accepted, supported []string) bool {
	if len(accepted) == 0 || len(supported) == 0 {
		return len(accepted) == 0
	}
	for _, a := range accepted {
		for _, s := range supported {
			if a == s {
				return true
			}
		}
	}
	return false
}

// AgentCapabilities describes optional protocol features an agent supports.
type AgentCapabilities struct {
	Streaming              bool `json:"streaming"`
	PushNotifications      bool `json:"pushNotifications"`
	StateTransitionHistory bool `json:"stateTransitionHistory"`
}

// AgentSkill describes a unit of capability an agent can perform.
type AgentSkill struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Examples    []string `json:"examples,omitempty"`
	InputModes  []string `json:"inputModes,omitempty"`
	OutputModes []string `json:"outputModes,omitempty"`
}

// AgentCard represents the public metadata about an agent, served at the
// well-known path.
type AgentCard struct {
	Name               string            `json:"name"`
	Description        string            `json:"description,omitempty"`
	URL                string            `json:"url"`
	Version            string            `json:"version"`
	Capabilities       AgentCapabilities `json:"capabilities"`
	DefaultInputModes  []string          `json:"defaultInputModes,omitempty"`
	DefaultOutputModes []string          `json:"defaultOutputModes,omitempty"`
	Skills             []AgentSkill      `json:"skills,omitempty"`
}

// Validate ensures the AgentCard is valid.
func (c AgentCard) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("agent card name cannot be empty")
	}
	if c.URL == "" {
		return fmt.Errorf("agent card URL cannot be empty")
	}
	if c.Version == "" {
		return fmt.Errorf("agent card version cannot be empty")
	}
	for i, skill := range c.Skills {
		if skill.ID == "" {
			return fmt.Errorf("agent skill at index %d has no ID", i)
		}
		if skill.Name == "" {
			return fmt.Errorf("agent skill at index %d has no name", i)
		}
	}
	return nil
}
