package toolserver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mvicenzino/kidzart/pkg/seed"
)

const (
	commandTimeout = 5 * time.Minute
	maxErrorLines  = 100
)

// Settings check_env reports on, with the integration each one enables.
var envSettings = []struct {
	Name    string
	Purpose string
}{
	{Name: "DSN", Purpose: "Database"},
	{Name: "COOKIE_SECRET", Purpose: "Sessions"},
	{Name: "AWS_BUCKET", Purpose: "Image storage"},
	{Name: "AWS_ACCESS_KEY_ID", Purpose: "Image storage credentials"},
	{Name: "PRINTFUL_API_KEY", Purpose: "Print shop"},
	{Name: "EMAIL_API_KEY", Purpose: "Email"},
	{Name: "EMAIL_FROM_ADDRESS", Purpose: "Email sender"},
}

func toolDefinitions() []toolDefinition {
	empty := inputSchema{Type: "object", Properties: map[string]schemaProperty{}}

	return []toolDefinition{
		{Name: "check_build", Description: "Build every package and report compile errors", InputSchema: empty},
		{Name: "get_errors", Description: "Run go vet and report the problems it finds", InputSchema: empty},
		{Name: "list_components", Description: "List the Go packages and their source files", InputSchema: empty},
		{
			Name:        "get_component",
			Description: "Get the source code of a Go file by name",
			InputSchema: inputSchema{
				Type: "object",
				Properties: map[string]schemaProperty{
					"name":    {Type: "string", Description: `File name without extension (e.g. "ArtworkService", "filterbar")`},
					"package": {Type: "string", Description: `Package directory, needed when several packages have the file (e.g. "pkg/gallery")`},
				},
				Required: []string{"name"},
			},
		},
		{Name: "check_env", Description: "Check which settings are present in .env.local", InputSchema: empty},
		{Name: "get_artwork_count", Description: "Get the number of artworks in the seed gallery", InputSchema: empty},
		{
			Name:        "suggest_fix",
			Description: "Get suggested fixes for an error message",
			InputSchema: inputSchema{
				Type: "object",
				Properties: map[string]schemaProperty{
					"error": {Type: "string", Description: "The error message to analyze"},
				},
				Required: []string{"error"},
			},
		},
	}
}

func (s *Server) callTool(ctx context.Context, params toolCallParams) toolResult {
	s.logger.Info("tool called", "tool", params.Name)

	switch params.Name {
	case "check_build":
		return s.checkBuild(ctx)

	case "get_errors":
		return s.getErrors(ctx)

	case "list_components":
		return s.listComponents()

	case "get_component":
		return s.getComponent(params.stringArg("name"), params.stringArg("package"))

	case "check_env":
		return s.checkEnv()

	case "get_artwork_count":
		return textResult(fmt.Sprintf("Gallery contains %d artworks.", len(seed.Artworks())))

	case "suggest_fix":
		return textResult(SuggestFix(params.stringArg("error")))
	}

	return textResult(fmt.Sprintf("Unknown tool: %s", params.Name))
}

func (s *Server) checkBuild(ctx context.Context) toolResult {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	output, err := s.runner.Run(ctx, s.root, "go", "build", "./...")

	if err != nil {
		return errorResult(fmt.Sprintf("Build failed!\n\nErrors:\n%s", firstLines(orMessage(output, err), maxErrorLines)))
	}

	return textResult(fmt.Sprintf("Build successful!\n\nOutput:\n%s", output))
}

func (s *Server) getErrors(ctx context.Context) toolResult {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	output, err := s.runner.Run(ctx, s.root, "go", "vet", "./...")

	if err == nil && strings.TrimSpace(output) == "" {
		return textResult("No errors detected.")
	}

	return textResult(fmt.Sprintf("Errors found:\n%s", firstLines(orMessage(output, err), maxErrorLines)))
}

func (s *Server) listComponents() toolResult {
	packages, err := s.goPackages()

	if err != nil {
		return errorResult(fmt.Sprintf("Error listing components: %s", err.Error()))
	}

	dirs := make([]string, 0, len(packages))

	for dir := range packages {
		dirs = append(dirs, dir)
	}

	sort.Strings(dirs)

	b := strings.Builder{}
	b.WriteString("Components:\n")

	for _, dir := range dirs {
		fmt.Fprintf(&b, "- %s\n", dir)

		for _, file := range packages[dir] {
			fmt.Fprintf(&b, "    %s\n", file)
		}
	}

	return textResult(b.String())
}

/*
getComponent returns the source of the file called name. When more than one
package has such a file the match is ambiguous and pkg must name the
package directory.
*/
func (s *Server) getComponent(name, pkg string) toolResult {
	name = strings.TrimSuffix(strings.TrimSpace(name), ".go")
	pkg = strings.Trim(strings.TrimSpace(pkg), "/")

	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return errorResult("Error reading component: a plain file name is required")
	}

	packages, err := s.goPackages()

	if err != nil {
		return errorResult(fmt.Sprintf("Error reading component: %s", err.Error()))
	}

	dirs := make([]string, 0, len(packages))

	for dir := range packages {
		if pkg == "" || dir == pkg {
			dirs = append(dirs, dir)
		}
	}

	sort.Strings(dirs)
	matches := []string{}

	for _, dir := range dirs {
		for _, file := range packages[dir] {
			if strings.EqualFold(strings.TrimSuffix(file, ".go"), name) {
				matches = append(matches, path.Join(dir, file))
			}
		}
	}

	switch len(matches) {
	case 0:
		return errorResult(fmt.Sprintf("Error reading component: %s not found", name))

	case 1:
		b, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(matches[0])))

		if err != nil {
			return errorResult(fmt.Sprintf("Error reading component: %s", err.Error()))
		}

		return textResult(string(b))
	}

	return errorResult(fmt.Sprintf("Error reading component: %s is ambiguous, pass a package: %s", name, strings.Join(matches, ", ")))
}

func (s *Server) checkEnv() toolResult {
	values, err := godotenv.Read(filepath.Join(s.root, ".env.local"))

	if err != nil {
		return textResult("No .env.local file found. Environment not configured.")
	}

	b := strings.Builder{}
	b.WriteString("Environment Status:\n")

	for _, setting := range envSettings {
		status := "❌ Not configured"

		if strings.TrimSpace(values[setting.Name]) != "" {
			status = "✅ Configured"
		}

		fmt.Fprintf(&b, "- %s (%s): %s\n", setting.Purpose, setting.Name, status)
	}

	return textResult(b.String())
}

/*
goPackages maps each directory holding Go sources, relative to the root,
to its non-test file names. Hidden, underscore and vendor directories are
skipped, the same as the go tool does.
*/
func (s *Server) goPackages() (map[string][]string, error) {
	result := map[string][]string{}

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			name := d.Name()

			if path != s.root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "vendor" || name == "testdata") {
				return filepath.SkipDir
			}

			return nil
		}

		if !strings.HasSuffix(d.Name(), ".go") || strings.HasSuffix(d.Name(), "_test.go") {
			return nil
		}

		rel, err := filepath.Rel(s.root, filepath.Dir(path))

		if err != nil {
			return err
		}

		result[filepath.ToSlash(rel)] = append(result[filepath.ToSlash(rel)], d.Name())
		return nil
	})

	if err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, errors.New("no Go packages found under " + s.root)
	}

	return result, nil
}

func orMessage(output string, err error) string {
	if strings.TrimSpace(output) != "" {
		return output
	}

	if err != nil {
		return err.Error()
	}

	return ""
}

func firstLines(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")

	if len(lines) <= n {
		return strings.Join(lines, "\n")
	}

	return strings.Join(lines[:n], "\n") + fmt.Sprintf("\n... %d more lines", len(lines)-n)
}
