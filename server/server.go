// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	json "github.com/bytedance/sonic"

	"github.com/go-a2a/tutor-agent/a2a"
	"github.com/go-a2a/tutor-agent/server/task"
)

// Server is the HTTP front of the tutor agent. It serves the agent card
// at the well-known path and dispatches JSON-RPC requests to the task
// manager.
type Server struct {
	AgentCard   a2a.AgentCard
	TaskManager TaskManager

	// Logger is the logger for the server.
	Logger *slog.Logger
}

var _ http.Handler = (*Server)(nil)

// NewServer creates a new Server with the given agent card and task manager.
func NewServer(agentCard a2a.AgentCard, taskManager TaskManager) (*Server, error) {
	if err := agentCard.Validate(); err != nil {
		return nil, fmt.Errorf("invalid agent card: %w", err)
	}
	if taskManager == nil {
		return nil, fmt.Errorf("task manager cannot be nil")
	}

	return &Server{
		AgentCard:   agentCard,
		TaskManager: taskManager,
		Logger:      slog.Default(),
	}, nil
}

// WithLogger sets the logger for the Server.
func (s *Server) WithLogger(logger *slog.Logger) *Server {
	s.Logger = logger
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == a2a.AgentCardWellKnownPath {
		s.handleAgentCard(w, r)
		return
	}

	if r.Method == http.MethodPost {
		s.handleAPIRequest(w, r)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleAgentCard handles requests for the agent card.
func (s *Server) handleAgentCard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	jsonData, err := json.ConfigFastest.Marshal(s.AgentCard)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(jsonData)
}

// handleAPIRequest handles A2A JSON-RPC requests.
func (s *Server) handleAPIRequest(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, nil, a2a.NewJSONParseError())
		return
	}

	var request a2a.JSONRPCRequest
	if err := json.ConfigFastest.Unmarshal(body, &request); err != nil {
		s.writeError(w, nil, a2a.NewJSONParseError())
		return
	}

	switch request.Method {
	case a2a.MethodTasksSend:
		s.handleTasksSend(w, r, request)
	case a2a.MethodTasksGet:
		s.handleTasksGet(w, r, request)
	case a2a.MethodTasksSendSubscribe, a2a.MethodTasksResubscribe:
		// Streaming is not offered by this agent.
		s.writeError(w, request.ID, a2a.NewUnsupportedOperationError())
	case a2a.MethodTasksCancel:
		s.writeError(w, request.ID, a2a.NewUnsupportedOperationError())
	case a2a.MethodTasksPushNotificationSet, a2a.MethodTasksPushNotificationGet:
		s.writeError(w, request.ID, a2a.NewPushNotificationNotSupportedError())
	default:
		s.writeError(w, request.ID, a2a.NewMethodNotFoundError())
	}
}

// handleTasksSend handles tasks/send requests.
func (s *Server) handleTasksSend(w http.ResponseWriter, r *http.Request, request a2a.JSONRPCRequest) {
	var params a2a.TaskSendParams
	if !s.decodeParams(w, request, &params) {
		return
	}

	t, err := s.TaskManager.OnSendTask(r.Context(), params)
	if err != nil {
		s.writeError(w, request.ID, s.rpcError(err))
		return
	}

	s.writeResponse(w, a2a.SendTaskResponse{
		JSONRPCMessage: a2a.NewJSONRPCMessage(request.ID),
		Result:         t,
	})
}

// handleTasksGet handles tasks/get requests.
func (s *Server) handleTasksGet(w http.ResponseWriter, r *http.Request, request a2a.JSONRPCRequest) {
	var params a2a.TaskQueryParams
	if !s.decodeParams(w, request, &params) {
		return
	}

	t, err := s.TaskManager.OnGetTask(r.Context(), params)
	if err != nil {
		s.writeError(w, request.ID, s.rpcError(err))
		return
	}

	s.writeResponse(w, a2a.GetTaskResponse{
		JSONRPCMessage: a2a.NewJSONRPCMessage(request.ID),
		Result:         t,
	})
}

// decodeParams re-marshals the generic params into the concrete type.
// It writes an InvalidParams error and returns false on failure.
func (s *Server) decodeParams(w http.ResponseWriter, request a2a.JSONRPCRequest, out any) bool {
	paramsJSON, err := json.ConfigFastest.Marshal(request.Params)
	if err != nil {
		s.writeError(w, request.ID, a2a.NewInvalidParamsError())
		return false
	}
	if err := json.ConfigFastest.Unmarshal(paramsJSON, out); err != nil {
		s.writeError(w, request.ID, a2a.NewInvalidParamsError())
		return false
	}
	return true
}

// rpcError maps a task manager error to its JSON-RPC error.
func (s *Server) rpcError(err error) *a2a.JSONRPCError {
	var (
		invalidReq InvalidRequestError
		badContent UnsupportedContentError
		badModes   UnsupportedOutputModeError
		pipeline   PipelineError
		notFound   task.TaskNotFoundError
	)
	switch {
	case errors.As(err, &invalidReq):
		rpcErr := a2a.NewInvalidRequestError()
		rpcErr.Data = invalidReq.Error()
		return rpcErr
	case errors.As(err, &badContent):
		rpcErr := a2a.NewUnsupportedContentError()
		rpcErr.Data = badContent.Error()
		return rpcErr
	case errors.As(err, &badModes):
		rpcErr := a2a.NewContentTypeNotSupportedError()
		rpcErr.Data = badModes.Error()
		return rpcErr
	case errors.As(err, &pipeline):
		return a2a.NewPipelineFailureError(pipeline.Error())
	case errors.As(err, &notFound):
		return a2a.NewTaskNotFoundError()
	default:
		s.Logger.Error("internal error handling request", slog.Any("error", err))
		return a2a.NewInternalError()
	}
}

// writeResponse writes a successful JSON-RPC response.
func (s *Server) writeResponse(w http.ResponseWriter, response any) {
	jsonData, err := json.ConfigFastest.Marshal(response)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(jsonData)
}

// writeError writes a JSON-RPC error response.
func (s *Server) writeError(w http.ResponseWriter, id any, rpcErr *a2a.JSONRPCError) {
	response := a2a.JSONRPCResponse{
		JSONRPCMessage: a2a.NewJSONRPCMessage(id),
		Error:          rpcErr,
	}

	jsonData, err := json.ConfigFastest.Marshal(response)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(jsonData)
}
