// Package toolserver exposes the reservation tools over JSON-RPC 2.0. Tool
// execution failures travel in-band inside the call result; the JSON-RPC
// error object is reserved for protocol faults.
package toolserver

import "encoding/json"

const protocolVersion = "2.0"

// Methods accepted by the server.
const (
	MethodToolsList = "tools/list"
	MethodToolsCall = "tools/call"
	MethodPing      = "ping"
)

// Standard JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// Error kinds carried on failed tool calls.
const (
	KindValidation          = "ValidationError"
	KindInvalidDate         = "InvalidDateError"
	KindInvalidTime         = "InvalidTimeError"
	KindInvalidPartySize    = "InvalidPartySizeError"
	KindInvalidEmail        = "InvalidEmailError"
	KindSlotConflict        = "SlotConflictError"
	KindNotFound            = "NotFoundError"
	KindProviderUnavailable = "ProviderUnavailableError"
	KindInternal            = "InternalError"
)

type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  any             `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Tool describes one entry of the tools/list catalog. InputSchema is a JSON
// Schema object.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

type ListResult struct {
	Tools []Tool `json:"tools"`
}

// CallParams are the params of a tools/call request.
type CallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// ContentPart is one piece of tool output.
type ContentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// CallResult carries the outcome of one tool call. A failed call sets
// IsError and names the failure in ErrorKind; Content then holds the
// human-readable message.
type CallResult struct {
	Content   []ContentPart `json:"content"`
	IsError   bool          `json:"isError,omitempty"`
	ErrorKind string        `json:"errorKind,omitempty"`
}

func newResult(id json.RawMessage, result any) Response {
	return Response{JSONRPC: protocolVersion, ID: id, Result: result}
}

func newError(id json.RawMessage, code int, message string) Response {
	return Response{JSONRPC: protocolVersion, ID: id, Error: &RPCError{Code: code, Message: message}}
}
