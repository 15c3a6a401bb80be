// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/bytedance/sonic"

	"github.com/go-a2a/tutor-agent/a2a"
	"github.com/go-a2a/tutor-agent/server/task"
)

func testAgentCard() a2a.AgentCard {
	return a2a.AgentCard{
		Name:    "AI Tutor Agent",
		URL:     "http://localhost:10012/",
		Version: "1.0.0",
		Capabilities: a2a.AgentCapabilities{
			Streaming: false,
		},
		DefaultInputModes:  []string{"text", "text/plain"},
		DefaultOutputModes: []string{"text", "text/plain"},
		Skills: []a2a.AgentSkill{
			{
				ID:   "learning_gap_assessment",
				Name: "Learning Gap Assessment and Personalized Tutoring",
			},
		},
	}
}

func newTestServer(t *testing.T) (*Server, *fakeInvoker) {
	t.Helper()

	invoker := &fakeInvoker{result: "# Personalized Learning Plan\n..."}
	tm := NewTutorTaskManager(task.NewInMemoryTaskStore(), invoker)
	srv, err := NewServer(testAgentCard(), tm)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return srv, invoker
}

// postRPC posts a raw JSON-RPC body and decodes the response envelope.
func postRPC(t *testing.T, srv *Server, body string) a2a.JSONRPCResponse {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var response a2a.JSONRPCResponse
	if err := json.ConfigFastest.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("invalid response body %q: %v", rec.Body.String(), err)
	}
	return response
}

func rpcBody(t *testing.T, method string, params any) string {
	t.Helper()

	request := a2a.JSONRPCRequest{
		JSONRPCMessage: a2a.NewJSONRPCMessage("req-1"),
		Method:         method,
		Params:         params,
	}
	data, err := json.ConfigFastest.Marshal(request)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	return string(data)
}

func TestNewServerRejectsInvalidCard(t *testing.T) {
	tm := NewTutorTaskManager(task.NewInMemoryTaskStore(), &fakeInvoker{})

	if _, err := NewServer(a2a.AgentCard{}, tm); err == nil {
		t.Error("NewServer accepted an empty agent card")
	}
	if _, err := NewServer(testAgentCard(), nil); err == nil {
		t.Error("NewServer accepted a nil task manager")
	}
}

func TestServeAgentCard(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, a2a.AgentCardWellKnownPath, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var card a2a.AgentCard
	if err := json.ConfigFastest.Unmarshal(rec.Body.Bytes(), &card); err != nil {
		t.Fatalf("invalid card body: %v", err)
	}
	if card.Name != "AI Tutor Agent" || card.Version != "1.0.0" {
		t.Errorf("card = %s %s, want AI Tutor Agent 1.0.0", card.Name, card.Version)
	}
	if card.Capabilities.Streaming {
		t.Error("card advertises streaming")
	}

	// Only GET is allowed on the well-known path
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, a2a.AgentCardWellKnownPath, bytes.NewReader(nil)))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestHandleTasksSend(t *testing.T) {
	srv, _ := newTestServer(t)

	params := a2a.TaskSendParams{
		ID:        "task-1",
		SessionID: "session-1",
		Message:   a2a.NewUserTextMessage("Topic: Machine Learning"),
	}
	response := postRPC(t, srv, rpcBody(t, a2a.MethodTasksSend, params))

	if response.Error != nil {
		t.Fatalf("response error = %v", response.Error)
	}
	if response.ID != "req-1" {
		t.Errorf("response ID = %v, want req-1", response.ID)
	}

	resultJSON, err := json.ConfigFastest.Marshal(response.Result)
	if err != nil {
		t.Fatalf("marshal result: %v", err)
	}
	var got a2a.Task
	if err := json.ConfigFastest.Unmarshal(resultJSON, &got); err != nil {
		t.Fatalf("unmarshal task: %v", err)
	}
	if got.ID != "task-1" || got.Status.State != a2a.TaskStateCompleted {
		t.Errorf("task = %s %s, want task-1 completed", got.ID, got.Status.State)
	}
}

func TestHandleTasksGet(t *testing.T) {
	srv, _ := newTestServer(t)

	send := a2a.TaskSendParams{
		ID:        "task-1",
		SessionID: "session-1",
		Message:   a2a.NewUserTextMessage("Topic: Go"),
	}
	if response := postRPC(t, srv, rpcBody(t, a2a.MethodTasksSend, send)); response.Error != nil {
		t.Fatalf("send error = %v", response.Error)
	}

	response := postRPC(t, srv, rpcBody(t, a2a.MethodTasksGet, a2a.TaskQueryParams{ID: "task-1"}))
	if response.Error != nil {
		t.Fatalf("get error = %v", response.Error)
	}
}

func TestRPCErrorCodes(t *testing.T) {
	srv, invoker := newTestServer(t)
	invoker.err = io.ErrUnexpectedEOF

	tests := []struct {
		name string
		body string
		code int
	}{
		{
			name: "parse error",
			body: "{not json",
			code: a2a.JSONParseErrorCode,
		},
		{
			name: "method not found",
			body: rpcBody(t, "tasks/unknown", nil),
			code: a2a.MethodNotFoundErrorCode,
		},
		{
			name: "send subscribe unsupported",
			body: rpcBody(t, a2a.MethodTasksSendSubscribe, nil),
			code: a2a.UnsupportedOperationErrorCode,
		},
		{
			name: "resubscribe unsupported",
			body: rpcBody(t, a2a.MethodTasksResubscribe, nil),
			code: a2a.UnsupportedOperationErrorCode,
		},
		{
			name: "cancel unsupported",
			body: rpcBody(t, a2a.MethodTasksCancel, nil),
			code: a2a.UnsupportedOperationErrorCode,
		},
		{
			name: "push notification set unsupported",
			body: rpcBody(t, a2a.MethodTasksPushNotificationSet, nil),
			code: a2a.PushNotificationNotSupportedErrorCode,
		},
		{
			name: "push notification get unsupported",
			body: rpcBody(t, a2a.MethodTasksPushNotificationGet, nil),
			code: a2a.PushNotificationNotSupportedErrorCode,
		},
		{
			name: "task not found",
			body: rpcBody(t, a2a.MethodTasksGet, a2a.TaskQueryParams{ID: "missing"}),
			code: a2a.TaskNotFoundErrorCode,
		},
		{
			name: "invalid submission",
			body: rpcBody(t, a2a.MethodTasksSend, a2a.TaskSendParams{ID: "task-1"}),
			code: a2a.InvalidRequestErrorCode,
		},
		{
			name: "unsupported output modes",
			body: rpcBody(t, a2a.MethodTasksSend, a2a.TaskSendParams{
				ID:                  "task-1",
				SessionID:           "session-1",
				AcceptedOutputModes: []string{"audio/mp3"},
				Message:             a2a.NewUserTextMessage("Topic: Go"),
			}),
			code: a2a.ContentTypeNotSupportedErrorCode,
		},
		{
			name: "unsupported content part",
			body: rpcBody(t, a2a.MethodTasksSend, a2a.TaskSendParams{
				ID:        "task-1",
				SessionID: "session-1",
				Message: a2a.Message{
					Role:  a2a.RoleUser,
					Parts: []a2a.Part{a2a.DataPart{Type: a2a.PartTypeData, Data: map[string]any{"x": 1}}},
				},
			}),
			code: a2a.UnsupportedContentErrorCode,
		},
		{
			name: "pipeline failure",
			body: rpcBody(t, a2a.MethodTasksSend, a2a.TaskSendParams{
				ID:        "task-fail",
				SessionID: "session-1",
				Message:   a2a.NewUserTextMessage("Topic: Go"),
			}),
			code: a2a.PipelineFailureErrorCode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response := postRPC(t, srv, tt.body)
			if response.Error == nil {
				t.Fatal("response has no error")
			}
			if response.Error.Code != tt.code {
				t.Errorf("error code = %d, want %d", response.Error.Code, tt.code)
			}
		})
	}
}

func TestServeHTTPMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}
