// Package assistant is the interactive client side: it turns free-text
// queries into tool calls against the reservation server and walks the user
// through booking a table.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/abhi-srivathsa/ai-restaurant-reserve/toolserver"
)

const maxResponseSizeBytes = 2 << 20

type Config struct {
	ServerURL string        `envconfig:"SERVER_URL" split_words:"true" default:"http://127.0.0.1:9000/mcp"`
	Timeout   time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"15s"`
}

// ToolError is a tool execution failure reported in-band by the server.
type ToolError struct {
	Kind    string
	Message string
}

func (e *ToolError) Error() string {
	return e.Kind + ": " + e.Message
}

// ToolClient speaks JSON-RPC 2.0 to the reservation tool server.
type ToolClient struct {
	serverURL  string
	httpClient *http.Client
	seq        atomic.Int64
}

func NewToolClient(cfg Config) (*ToolClient, error) {
	serverURL := strings.TrimSpace(cfg.ServerURL)
	if serverURL == "" {
		return nil, errors.New("tool server url is required")
	}
	if _, err := url.ParseRequestURI(serverURL); err != nil {
		return nil, fmt.Errorf("invalid tool server url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &ToolClient{
		serverURL: serverURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// CallTool invokes one tool and decodes its JSON payload into out. A failed
// tool call returns *ToolError; protocol and transport faults return plain
// errors.
func (c *ToolClient) CallTool(ctx context.Context, name string, args any, out any) error {
	rawArgs, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode %s arguments: %w", name, err)
	}

	var result toolserver.CallResult
	if err := c.rpc(ctx, toolserver.MethodToolsCall, toolserver.CallParams{Name: name, Arguments: rawArgs}, &result); err != nil {
		return err
	}
	if result.IsError {
		return &ToolError{Kind: result.ErrorKind, Message: firstText(result.Content)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal([]byte(firstText(result.Content)), out); err != nil {
		return fmt.Errorf("decode %s payload: %w", name, err)
	}
	return nil
}

// ListTools fetches the server's tool catalog.
func (c *ToolClient) ListTools(ctx context.Context) ([]toolserver.Tool, error) {
	var result toolserver.ListResult
	if err := c.rpc(ctx, toolserver.MethodToolsList, struct{}{}, &result); err != nil {
		return nil, err
	}
	return result.Tools, nil
}

// Ping checks that the server is reachable and speaking the protocol.
func (c *ToolClient) Ping(ctx context.Context) error {
	return c.rpc(ctx, toolserver.MethodPing, struct{}{}, nil)
}

func (c *ToolClient) rpc(ctx context.Context, method string, params any, out any) error {
	rawParams, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("encode %s params: %w", method, err)
	}
	body, err := json.Marshal(toolserver.Request{
		JSONRPC: "2.0",
		ID:      json.RawMessage(strconv.FormatInt(c.seq.Add(1), 10)),
		Method:  method,
		Params:  rawParams,
	})
	if err != nil {
		return fmt.Errorf("encode %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tool server request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return fmt.Errorf("read %s response: %w", method, err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("tool server status=%d body=%s", resp.StatusCode, raw)
	}

	var reply struct {
		Result json.RawMessage      `json:"result"`
		Error  *toolserver.RPCError `json:"error"`
	}
	if err := json.Unmarshal(raw, &reply); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	if reply.Error != nil {
		return fmt.Errorf("rpc error %d: %s", reply.Error.Code, reply.Error.Message)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(reply.Result, out); err != nil {
		return fmt.Errorf("decode %s result: %w", method, err)
	}
	return nil
}

func firstText(parts []toolserver.ContentPart) string {
	for _, part := range parts {
		if part.Type == "text" {
			return part.Text
		}
	}
	return ""
}
