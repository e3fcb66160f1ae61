package a2a

import "encoding/json"

// JSON-RPC 2.0 error codes. The reserved range is honored; -32004 is the
// domain code for an unknown task.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
	CodeTaskNotFound   = -32004
)

// Machine-readable error codes for code-aware clients.
const (
	ErrCodeParse         = "A2A_PARSE_ERROR"
	ErrCodeInvalidReq    = "A2A_INVALID_REQUEST"
	ErrCodeMethodUnknown = "A2A_METHOD_NOT_FOUND"
	ErrCodeTaskNotFound  = "A2A_TASK_NOT_FOUND"
	ErrCodePromptMissing = "A2A_SEMANTIC_PROMPT_MISSING"
	ErrCodeBridge        = "A2A_SEMANTIC_BRIDGE_ERROR"
)

// Envelope is a validated JSON-RPC 2.0 request envelope.
type Envelope struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is a JSON-RPC 2.0 result or error envelope.
type Response struct {
	JSONRPC string       `json:"jsonrpc"`
	ID      any          `json:"id"`
	Result  any          `json:"result,omitempty"`
	Error   *ErrorObject `json:"error,omitempty"`
}

// ErrorObject carries the numeric JSON-RPC code plus a machine code and
// human detail for programmatic consumers.
type ErrorObject struct {
	Code    int       `json:"code"`
	Message string    `json:"message"`
	Data    ErrorData `json:"data"`
}

// ErrorData is the machine-readable part of an ErrorObject.
type ErrorData struct {
	Code   string `json:"code"`
	Detail string `json:"detail,omitempty"`
}

// sendParams are the parameters of a message/send call.
type sendParams struct {
	Message  messageParam `json:"message"`
	Metadata sendMetadata `json:"metadata"`
}

type sendMetadata struct {
	ExecutionMode string `json:"executionMode"`
}

type messageParam struct {
	Role  string        `json:"role,omitempty"`
	Parts []messagePart `json:"parts"`
}

type messagePart struct {
	Text string `json:"text"`
}

// taskParams are the parameters of tasks/get and tasks/resubscribe.
type taskParams struct {
	TaskID string `json:"taskId"`
}

// taskSnapshot is the tasks/get result: the latest state only, never the
// event log.
type taskSnapshot struct {
	TaskID   string `json:"taskId"`
	State    string `json:"state"`
	Progress int    `json:"progress"`
	Message  string `json:"message,omitempty"`
	Result   any    `json:"result,omitempty"`
	Error    string `json:"error,omitempty"`
}

// acceptedResult is the synchronous reply to an async message/send.
type acceptedResult struct {
	Status      string `json:"status"`
	TaskID      string `json:"taskId"`
	PollMethod  string `json:"pollMethod"`
	PollAfterMs int    `json:"pollAfterMs"`
}

// ackResult is the minimal acknowledgment for a plain message/send.
type ackResult struct {
	ClientOperation string `json:"clientOperation"`
	Status          string `json:"status"`
}

// assistantMessage wraps a semantic answer as an agent message.
type assistantMessage struct {
	Message messageParam `json:"message"`
}
