package toolserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mvicenzino/kidzart/pkg/seed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	output string
	err    error
	calls  [][]string
}

func (f *fakeRunner) Run(ctx context.Context, dir, name string, args ...string) (string, error) {
	f.calls = append(f.calls, append([]string{dir, name}, args...))
	return f.output, f.err
}

func newTestServer(t *testing.T, runner CommandRunner) (*Server, string) {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "pkg", "gallery"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "_examples", "other"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "pkg", "gallery", "filterbar.go"), []byte("package gallery\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "pkg", "gallery", "filterbar_test.go"), []byte("package gallery\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "_examples", "other", "hidden.go"), []byte("package other\n"), 0o644))

	return NewServer(ServerConfig{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Root:   root,
		Runner: runner,
	}), root
}

func call(t *testing.T, s *Server, message string) map[string]any {
	t.Helper()

	response := s.Handle(context.Background(), []byte(message))
	require.NotNil(t, response)

	b, err := json.Marshal(response)
	require.NoError(t, err)

	result := map[string]any{}
	require.NoError(t, json.Unmarshal(b, &result))
	return result
}

func toolText(t *testing.T, response map[string]any) string {
	t.Helper()

	result := response["result"].(map[string]any)
	content := result["content"].([]any)
	require.Len(t, content, 1)

	return content[0].(map[string]any)["text"].(string)
}

func TestInitialize(t *testing.T) {
	s, _ := newTestServer(t, &fakeRunner{})

	response := call(t, s, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`)
	result := response["result"].(map[string]any)

	assert.EqualValues(t, 1, response["id"])
	assert.Equal(t, protocolVersion, result["protocolVersion"])
	assert.Equal(t, ServerName, result["serverInfo"].(map[string]any)["name"])
	assert.Contains(t, result["capabilities"], "tools")
	assert.Contains(t, result["capabilities"], "resources")
}

func TestNotificationsGetNoResponse(t *testing.T) {
	s, _ := newTestServer(t, &fakeRunner{})

	assert.Nil(t, s.Handle(context.Background(), []byte(`{"jsonrpc":"2.0","method":"notifications/initialized"}`)))
}

func TestProtocolErrors(t *testing.T) {
	s, _ := newTestServer(t, &fakeRunner{})

	tests := []struct {
		name    string
		message string
		code    float64
	}{
		{name: "unparseable", message: `{"jsonrpc":`, code: codeParseError},
		{name: "wrong version", message: `{"jsonrpc":"1.0","id":2,"method":"ping"}`, code: codeInvalidRequest},
		{name: "unknown method", message: `{"jsonrpc":"2.0","id":3,"method":"prompts/list"}`, code: codeMethodNotFound},
		{name: "tool without name", message: `{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{}}`, code: codeInvalidParams},
		{name: "unknown resource", message: `{"jsonrpc":"2.0","id":5,"method":"resources/read","params":{"uri":"kidzart://nope"}}`, code: codeInvalidParams},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response := call(t, s, tt.message)
			require.Contains(t, response, "error")
			assert.Equal(t, tt.code, response["error"].(map[string]any)["code"])
		})
	}
}

func TestToolsList(t *testing.T) {
	s, _ := newTestServer(t, &fakeRunner{})

	response := call(t, s, `{"jsonrpc":"2.0","id":"a","method":"tools/list"}`)
	tools := response["result"].(map[string]any)["tools"].([]any)

	names := []string{}

	for _, tool := range tools {
		names = append(names, tool.(map[string]any)["name"].(string))
	}

	assert.Equal(t, "a", response["id"])
	assert.Equal(t, []string{"check_build", "get_errors", "list_components", "get_component", "check_env", "get_artwork_count", "suggest_fix"}, names)
}

func TestCheckBuild(t *testing.T) {
	runner := &fakeRunner{}
	s, root := newTestServer(t, runner)

	text := toolText(t, call(t, s, `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"check_build"}}`))

	assert.True(t, strings.HasPrefix(text, "Build successful!"))
	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{root, "go", "build", "./..."}, runner.calls[0])

	runner.output = "pkg/gallery/filterbar.go:3:1: undefined: Foo\n"
	runner.err = errors.New("exit status 1")

	response := call(t, s, `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"check_build"}}`)
	text = toolText(t, response)

	assert.Contains(t, text, "Build failed!")
	assert.Contains(t, text, "undefined: Foo")
	assert.Equal(t, true, response["result"].(map[string]any)["isError"])
}

func TestGetErrors(t *testing.T) {
	runner := &fakeRunner{}
	s, _ := newTestServer(t, runner)

	assert.Equal(t, "No errors detected.", toolText(t, call(t, s, `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"get_errors"}}`)))

	runner.output = "vet: printf call has arguments but no formatting directives"
	runner.err = errors.New("exit status 1")

	assert.Contains(t, toolText(t, call(t, s, `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"get_errors"}}`)), "Errors found:")
	assert.Equal(t, "vet", runner.calls[1][2])
}

func TestListComponentsSkipsTestsAndUnderscoreDirs(t *testing.T) {
	s, _ := newTestServer(t, &fakeRunner{})

	text := toolText(t, call(t, s, `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"list_components"}}`))

	assert.Contains(t, text, "- pkg/gallery")
	assert.Contains(t, text, "filterbar.go")
	assert.NotContains(t, text, "filterbar_test.go")
	assert.NotContains(t, text, "hidden.go")
}

func TestGetComponent(t *testing.T) {
	s, _ := newTestServer(t, &fakeRunner{})

	text := toolText(t, call(t, s, `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"get_component","arguments":{"name":"FilterBar"}}}`))
	assert.Equal(t, "package gallery\n", text)

	response := call(t, s, `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"get_component","arguments":{"name":"../../etc/passwd"}}}`)
	assert.Contains(t, toolText(t, response), "a plain file name is required")

	response = call(t, s, `{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"get_component","arguments":{"name":"Missing"}}}`)
	assert.Contains(t, toolText(t, response), "Missing not found")
}

func TestGetComponentWithSameFileInSeveralPackages(t *testing.T) {
	s, root := newTestServer(t, &fakeRunner{})
	require.NoError(t, os.MkdirAll(filepath.Join(root, "cmd", "website", "internal", "home"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "cmd", "website", "internal", "home", "filterbar.go"), []byte("package home\n"), 0o644))

	for i := 0; i < 5; i++ {
		response := call(t, s, `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"get_component","arguments":{"name":"filterbar"}}}`)
		assert.Equal(t, true, response["result"].(map[string]any)["isError"])
		assert.Contains(t, toolText(t, response), "filterbar is ambiguous, pass a package: cmd/website/internal/home/filterbar.go, pkg/gallery/filterbar.go")
	}

	text := toolText(t, call(t, s, `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"get_component","arguments":{"name":"filterbar","package":"cmd/website/internal/home"}}}`))
	assert.Equal(t, "package home\n", text)

	text = toolText(t, call(t, s, `{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"get_component","arguments":{"name":"filterbar","package":"pkg/gallery/"}}}`))
	assert.Equal(t, "package gallery\n", text)
}

func TestCheckEnv(t *testing.T) {
	s, root := newTestServer(t, &fakeRunner{})

	text := toolText(t, call(t, s, `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"check_env"}}`))
	assert.Equal(t, "No .env.local file found. Environment not configured.", text)

	require.NoError(t, os.WriteFile(filepath.Join(root, ".env.local"), []byte("PRINTFUL_API_KEY=abc\nEMAIL_API_KEY=\n"), 0o644))

	text = toolText(t, call(t, s, `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"check_env"}}`))
	assert.Contains(t, text, "Print shop (PRINTFUL_API_KEY): ✅ Configured")
	assert.Contains(t, text, "Email (EMAIL_API_KEY): ❌ Not configured")
}

func TestGetArtworkCount(t *testing.T) {
	s, _ := newTestServer(t, &fakeRunner{})

	text := toolText(t, call(t, s, `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"get_artwork_count"}}`))
	assert.Equal(t, "Gallery contains "+itoa(len(seed.Artworks()))+" artworks.", text)
}

func TestUnknownTool(t *testing.T) {
	s, _ := newTestServer(t, &fakeRunner{})

	text := toolText(t, call(t, s, `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"deploy"}}`))
	assert.Equal(t, "Unknown tool: deploy", text)
}

func TestResources(t *testing.T) {
	s, _ := newTestServer(t, &fakeRunner{})

	list := call(t, s, `{"jsonrpc":"2.0","id":1,"method":"resources/list"}`)
	assert.Len(t, list["result"].(map[string]any)["resources"], 2)

	read := call(t, s, `{"jsonrpc":"2.0","id":2,"method":"resources/read","params":{"uri":"kidzart://taxonomy"}}`)
	contents := read["result"].(map[string]any)["contents"].([]any)
	text := contents[0].(map[string]any)["text"].(string)

	assert.Contains(t, text, "- toddler: 2-3 years")
	assert.Contains(t, text, "(finger-paint)")
	assert.Contains(t, text, "(imaginative-play)")

	read = call(t, s, `{"jsonrpc":"2.0","id":3,"method":"resources/read","params":{"uri":"kidzart://structure"}}`)
	assert.Contains(t, read["result"].(map[string]any)["contents"].([]any)[0].(map[string]any)["text"], "Kidzart App Structure")
}

func TestServeWritesOneLinePerResponse(t *testing.T) {
	s, _ := newTestServer(t, &fakeRunner{})

	in := strings.NewReader(strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		``,
		`{"jsonrpc":"2.0","id":2,"method":"ping"}`,
	}, "\n"))
	out := &bytes.Buffer{}

	require.NoError(t, s.Serve(context.Background(), in, out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"id":1`)
	assert.Contains(t, lines[1], `"id":2`)
}
