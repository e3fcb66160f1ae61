// Package a2a serves the agent-to-agent protocol endpoint: a JSON-RPC 2.0
// surface over HTTP with task lifecycle tracking and SSE replay.
package a2a

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Strob0t/AgentRelay/internal/adapter/otel"
	"github.com/Strob0t/AgentRelay/internal/domain/task"
	"github.com/Strob0t/AgentRelay/internal/port/taskstore"
	"github.com/Strob0t/AgentRelay/internal/service"
)

const (
	maxBodyBytes = 1 << 20
	pollAfterMs  = 250
)

// Responder turns a prompt into an assistant-style text answer.
type Responder interface {
	Answer(ctx context.Context, prompt, requestID string) (string, error)
}

// Handler is the protocol state machine for the A2A endpoint. All state is
// per-request; task state lives in the injected store.
type Handler struct {
	serviceName  string
	baseURL      string
	semanticMode bool
	store        taskstore.Store
	responder    Responder
	sched        *service.Scheduler
	metrics      *otel.Metrics
}

// NewHandler creates the A2A handler. The store and scheduler are required;
// responder and metrics may be nil (plain acknowledgment mode, no metrics).
func NewHandler(serviceName, baseURL string, semanticMode bool, store taskstore.Store, responder Responder, sched *service.Scheduler) *Handler {
	return &Handler{
		serviceName:  serviceName,
		baseURL:      baseURL,
		semanticMode: semanticMode,
		store:        store,
		responder:    responder,
		sched:        sched,
	}
}

// SetMetrics attaches metric instruments to the handler.
func (h *Handler) SetMetrics(m *otel.Metrics) {
	h.metrics = m
}

// MountRoutes registers the A2A routes on the given chi router. Auth is
// applied by the caller so that unknown paths are also gated.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleLiveness)
	r.Get("/.well-known/agent-card.json", h.handleAgentCard)
	r.Post("/a2a", h.handleRPC)
	// Anything else, including a wrong method on a known path, is a bare
	// not-found with an empty body.
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
}

func (h *Handler) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "service": h.serviceName})
}

func (h *Handler) handleAgentCard(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, BuildAgentCard(h.serviceName, h.baseURL))
}

// handleRPC dispatches a JSON-RPC envelope by method name. Every failure is
// converted to an error envelope here; nothing propagates as an unhandled
// fault to the caller.
func (h *Handler) handleRPC(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil || !json.Valid(body) {
		h.writeRPCError(w, nil, CodeParseError, ErrCodeParse, "invalid JSON payload", "")
		return
	}

	env := ParseEnvelope(body)
	if env == nil {
		h.writeRPCError(w, SalvageID(body), CodeInvalidRequest, ErrCodeInvalidReq, "not a valid JSON-RPC 2.0 request", "")
		return
	}

	if h.metrics != nil {
		h.metrics.RPCRequests.Add(r.Context(), 1)
	}

	switch env.Method {
	case "message/send":
		h.handleSend(w, r, env)
	case "tasks/get":
		h.handleTasksGet(w, env)
	case "message/stream":
		h.handleStream(w, env)
	case "tasks/resubscribe":
		h.handleResubscribe(w, r, env)
	default:
		h.writeRPCError(w, env.ID, CodeMethodNotFound, ErrCodeMethodUnknown, "unknown method: "+env.Method, "")
	}
}

func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request, env *Envelope) {
	var params sendParams
	if len(env.Params) > 0 {
		// Malformed params degrade to the no-op acknowledgment path rather
		// than failing the call.
		_ = json.Unmarshal(env.Params, &params)
	}

	if params.Metadata.ExecutionMode == "async" {
		h.handleSendAsync(w, env, params)
		return
	}

	if h.semanticMode {
		h.handleSendSemantic(w, r, env, params)
		return
	}

	writeJSON(w, http.StatusOK, ResultEnvelope(env.ID, ackResult{
		ClientOperation: "message/send",
		Status:          "ok",
	}))
}

// handleSendAsync accepts the task, advances it to running, and schedules
// the terminal transition without blocking the response. A poll issued
// before the continuation runs observes the running snapshot; that race is
// the contract, not a defect.
func (h *Handler) handleSendAsync(w http.ResponseWriter, env *Envelope, params sendParams) {
	t := h.store.Create("Task accepted")
	h.store.Update(t.ID, task.StateRunning, taskstore.UpdateOptions{
		Progress: taskstore.IntPtr(10),
		Message:  taskstore.StrPtr("Task running"),
	})
	if h.metrics != nil {
		h.metrics.TasksCreated.Add(context.Background(), 1)
	}

	text := firstText(params)
	if text == "" {
		text = "Async request processed."
	} else {
		text = "Processed: " + text
	}

	taskID := t.ID
	h.sched.Submit(func() {
		h.store.Update(taskID, task.StateSucceeded, taskstore.UpdateOptions{
			Progress: taskstore.IntPtr(100),
			Message:  taskstore.StrPtr("Task completed"),
			Final:    true,
			Result: assistantMessage{Message: messageParam{
				Role:  "assistant",
				Parts: []messagePart{{Text: text}},
			}},
		})
	})

	writeJSON(w, http.StatusOK, ResultEnvelope(env.ID, acceptedResult{
		Status:      "accepted",
		TaskID:      taskID,
		PollMethod:  "tasks/get",
		PollAfterMs: pollAfterMs,
	}))
}

func (h *Handler) handleSendSemantic(w http.ResponseWriter, r *http.Request, env *Envelope, params sendParams) {
	prompt := firstText(params)
	if prompt == "" {
		h.writeRPCError(w, env.ID, CodeInvalidParams, ErrCodePromptMissing, "message contains no text part", "")
		return
	}

	answer, err := h.responder.Answer(r.Context(), prompt, idString(env.ID))
	if err != nil {
		if h.metrics != nil {
			h.metrics.BridgeFailures.Add(r.Context(), 1)
		}
		slog.Error("semantic bridge failed", "error", err, "request_id", idString(env.ID))
		h.writeRPCError(w, env.ID, CodeInternalError, ErrCodeBridge, "semantic responder failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, ResultEnvelope(env.ID, assistantMessage{Message: messageParam{
		Role:  "assistant",
		Parts: []messagePart{{Text: answer}},
	}}))
}

func (h *Handler) handleTasksGet(w http.ResponseWriter, env *Envelope) {
	t, ok := h.lookupTask(w, env)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, ResultEnvelope(env.ID, taskSnapshot{
		TaskID:   t.ID,
		State:    string(t.State),
		Progress: t.Progress,
		Message:  t.Message,
		Result:   t.Result,
		Error:    t.Error,
	}))
}

// handleStream creates a fresh task and walks it to succeeded before
// emitting: the transport is a single request/response SSE body, so the
// whole lifecycle must be known at stream-build time.
func (h *Handler) handleStream(w http.ResponseWriter, env *Envelope) {
	var params sendParams
	if len(env.Params) > 0 {
		_ = json.Unmarshal(env.Params, &params)
	}

	t := h.store.Create("Task started")
	if h.metrics != nil {
		h.metrics.TasksCreated.Add(context.Background(), 1)
	}
	h.store.Update(t.ID, task.StateRunning, taskstore.UpdateOptions{
		Progress: taskstore.IntPtr(50),
		Message:  taskstore.StrPtr("Task working"),
	})

	text := firstText(params)
	if text == "" {
		text = "Stream request processed."
	} else {
		text = "Processed: " + text
	}
	final := h.store.Update(t.ID, task.StateSucceeded, taskstore.UpdateOptions{
		Progress: taskstore.IntPtr(100),
		Message:  taskstore.StrPtr("Task completed"),
		Final:    true,
		Result: assistantMessage{Message: messageParam{
			Role:  "assistant",
			Parts: []messagePart{{Text: text}},
		}},
	})

	WriteStream(w, final, 0)
}

// handleResubscribe replays or continues an existing stream. It never
// fabricates new progress.
func (h *Handler) handleResubscribe(w http.ResponseWriter, r *http.Request, env *Envelope) {
	t, ok := h.lookupTask(w, env)
	if !ok {
		return
	}

	WriteStream(w, t, ParseCursor(r.Header.Get("Last-Event-ID")))
}

// lookupTask resolves params.taskId against the store, writing the
// task-not-found envelope on a miss.
func (h *Handler) lookupTask(w http.ResponseWriter, env *Envelope) (*task.Task, bool) {
	var params taskParams
	if len(env.Params) > 0 {
		_ = json.Unmarshal(env.Params, &params)
	}

	t := h.store.Get(params.TaskID)
	if t == nil {
		h.writeRPCError(w, env.ID, CodeTaskNotFound, ErrCodeTaskNotFound, "task not found", "no task with id "+task.NormalizeID(params.TaskID))
		return nil, false
	}
	return t, true
}

func (h *Handler) writeRPCError(w http.ResponseWriter, id any, code int, machineCode, message, detail string) {
	writeJSON(w, httpStatusFor(code), ErrorEnvelope(id, code, machineCode, message, detail))
}

// httpStatusFor maps JSON-RPC error codes onto HTTP statuses: malformed and
// invalid input are client errors, unknown method/task are not found, and
// bridge failures escalate to the server-error class.
func httpStatusFor(code int) int {
	switch code {
	case CodeParseError, CodeInvalidRequest, CodeInvalidParams:
		return http.StatusBadRequest
	case CodeMethodNotFound, CodeTaskNotFound:
		return http.StatusNotFound
	case CodeInternalError:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// firstText returns the first non-empty text part of the message.
func firstText(params sendParams) string {
	for _, part := range params.Message.Parts {
		if s := strings.TrimSpace(part.Text); s != "" {
			return s
		}
	}
	return ""
}

// idString renders an envelope id for log and upstream correlation.
func idString(id any) string {
	if id == nil {
		return ""
	}
	if s, ok := id.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", id)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}
