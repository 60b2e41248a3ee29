/*
Package toolserver is a Model Context Protocol server for working on this
repository. It speaks JSON-RPC 2.0 over a line-delimited stream, usually
stdio, and exposes build checks, source lookup and reference data.
*/
package toolserver

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

const (
	ServerName = "kidzart-devtools"

	maxMessageBytes = 4 * 1024 * 1024
)

type ServerConfig struct {
	Logger  *slog.Logger
	Root    string
	Runner  CommandRunner
	Version string
}

type Server struct {
	logger  *slog.Logger
	root    string
	runner  CommandRunner
	version string

	writeMu *sync.Mutex
}

func NewServer(config ServerConfig) *Server {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	if config.Runner == nil {
		config.Runner = ExecRunner{}
	}

	if config.Root == "" {
		config.Root = "."
	}

	if config.Version == "" {
		config.Version = "development"
	}

	return &Server{
		logger:  config.Logger,
		root:    config.Root,
		runner:  config.Runner,
		version: config.Version,
		writeMu: &sync.Mutex{},
	}
}

/*
Serve reads one request per line from in and writes one response per line
to out until in is exhausted or ctx is cancelled. Notifications get no
response.
*/
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	var (
		err error
	)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxMessageBytes)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		line := scanner.Bytes()

		if len(line) == 0 {
			continue
		}

		response := s.Handle(ctx, line)

		if response == nil {
			continue
		}

		if err = s.write(out, response); err != nil {
			return fmt.Errorf("error writing response: %w", err)
		}
	}

	if err = scanner.Err(); err != nil {
		return fmt.Errorf("error reading requests: %w", err)
	}

	return nil
}

func (s *Server) write(out io.Writer, response *mcpResponse) error {
	b, err := json.Marshal(response)

	if err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_, err = out.Write(append(b, '\n'))
	return err
}

/*
Handle answers a single raw message. It returns nil for notifications.
*/
func (s *Server) Handle(ctx context.Context, raw []byte) *mcpResponse {
	var (
		err     error
		request mcpRequest
		result  any
	)

	if err = json.Unmarshal(raw, &request); err != nil {
		s.logger.Warn("unparseable request", "error", err)
		return newErrorResponse(json.RawMessage("null"), codeParseError, "parse error")
	}

	if request.JSONRPC != jsonRPCVersion || request.Method == "" {
		if request.isNotification() {
			return nil
		}

		return newErrorResponse(request.ID, codeInvalidRequest, "invalid request")
	}

	l := s.logger.With("method", request.Method)
	l.Debug("request received")

	result, rpcErr := s.dispatch(ctx, request)

	if request.isNotification() {
		return nil
	}

	if rpcErr != nil {
		l.Warn("request failed", "code", rpcErr.Code, "error", rpcErr.Message)
		return &mcpResponse{JSONRPC: jsonRPCVersion, ID: request.ID, Error: rpcErr}
	}

	return &mcpResponse{JSONRPC: jsonRPCVersion, ID: request.ID, Result: result}
}

func (s *Server) dispatch(ctx context.Context, request mcpRequest) (any, *mcpError) {
	switch request.Method {
	case "initialize":
		return s.initialize(), nil

	case "ping", "notifications/initialized":
		return map[string]any{}, nil

	case "tools/list":
		return map[string]any{"tools": toolDefinitions()}, nil

	case "tools/call":
		params := toolCallParams{}

		if err := decodeParams(request.Params, &params); err != nil || params.Name == "" {
			return nil, &mcpError{Code: codeInvalidParams, Message: "tools/call requires a tool name"}
		}

		return s.callTool(ctx, params), nil

	case "resources/list":
		return map[string]any{"resources": resourceDefinitions()}, nil

	case "resources/read":
		params := resourceReadParams{}

		if err := decodeParams(request.Params, &params); err != nil {
			return nil, &mcpError{Code: codeInvalidParams, Message: "resources/read requires a uri"}
		}

		contents, err := s.readResource(params.URI)

		if err != nil {
			return nil, &mcpError{Code: codeInvalidParams, Message: err.Error()}
		}

		return map[string]any{"contents": contents}, nil
	}

	return nil, &mcpError{Code: codeMethodNotFound, Message: fmt.Sprintf("method not found: %s", request.Method)}
}

func (s *Server) initialize() map[string]any {
	return map[string]any{
		"protocolVersion": protocolVersion,
		"serverInfo": map[string]string{
			"name":    ServerName,
			"version": s.version,
		},
		"capabilities": map[string]any{
			"tools":     map[string]any{},
			"resources": map[string]any{},
		},
	}
}

func decodeParams(raw json.RawMessage, target any) error {
	if len(raw) == 0 {
		return fmt.Errorf("missing params")
	}

	return json.Unmarshal(raw, target)
}

func newErrorResponse(id json.RawMessage, code int, message string) *mcpResponse {
	if len(id) == 0 {
		id = json.RawMessage("null")
	}

	return &mcpResponse{
		JSONRPC: jsonRPCVersion,
		ID:      id,
		Error:   &mcpError{Code: code, Message: message},
	}
}
