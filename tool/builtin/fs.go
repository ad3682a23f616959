package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hupe1980/agentloop/tool"
)

// FSOptions configures the filesystem tools.
type FSOptions struct {
	// Root confines all paths. Empty means the process working directory
	// without confinement.
	Root string
	// FileMode is used for files written by CodeWriter.
	FileMode os.FileMode
}

func fsOptions(optFns []func(o *FSOptions)) FSOptions {
	opts := FSOptions{FileMode: 0o644}
	for _, fn := range optFns {
		fn(&opts)
	}
	return opts
}

// resolve maps a model supplied path onto the filesystem, enforcing Root.
func (o FSOptions) resolve(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", fmt.Errorf("empty path")
	}

	if o.Root == "" {
		return filepath.Clean(p), nil
	}

	root, err := filepath.Abs(o.Root)
	if err != nil {
		return "", err
	}

	full := p
	if !filepath.IsAbs(full) {
		full = filepath.Join(root, full)
	}
	full = filepath.Clean(full)

	rel, err := filepath.Rel(root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes root", p)
	}

	return full, nil
}

// NewCodeWriter creates the CodeWriter tool. Args are "<path> <json-string>";
// the JSON string is decoded and written as the file content.
func NewCodeWriter(optFns ...func(o *FSOptions)) tool.Tool {
	opts := fsOptions(optFns)

	return tool.NewFunctionTool(
		"CodeWriter",
		`writes a file. args: "<path> <json-encoded string content>", e.g. "main.go \"package main\\n\""`,
		func(_ context.Context, args string) (string, error) {
			path, payload, ok := strings.Cut(strings.TrimSpace(args), " ")
			if !ok {
				return "", tool.NewToolError("CodeWriter", "expected \"<path> <json-string>\"", tool.CodeValidation)
			}

			var content string
			if err := json.Unmarshal([]byte(strings.TrimSpace(payload)), &content); err != nil {
				return "", tool.NewToolError("CodeWriter", fmt.Sprintf("content is not a JSON string: %v", err), tool.CodeValidation)
			}

			full, err := opts.resolve(path)
			if err != nil {
				return "", tool.NewToolError("CodeWriter", err.Error(), tool.CodeValidation)
			}

			if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
				return "", err
			}

			if err := os.WriteFile(full, []byte(content), opts.FileMode); err != nil {
				return "", err
			}

			return fmt.Sprintf("Successfully wrote to %s", path), nil
		},
	)
}

// NewFileReader creates the FileReader tool. Args are a bare path.
func NewFileReader(optFns ...func(o *FSOptions)) tool.Tool {
	opts := fsOptions(optFns)

	return tool.NewFunctionTool(
		"FileReader",
		`reads a file and returns its content. args: "<path>"`,
		func(_ context.Context, args string) (string, error) {
			full, err := opts.resolve(args)
			if err != nil {
				return "", tool.NewToolError("FileReader", err.Error(), tool.CodeValidation)
			}

			data, err := os.ReadFile(full)
			if err != nil {
				return "", err
			}

			return string(data), nil
		},
	)
}

// NewDirectoryLister creates the DirectoryLister tool. Args are a bare path;
// the result is the sorted entry names, one per line, directories suffixed
// with "/".
func NewDirectoryLister(optFns ...func(o *FSOptions)) tool.Tool {
	opts := fsOptions(optFns)

	return tool.NewFunctionTool(
		"DirectoryLister",
		`lists a directory, one entry per line. args: "<path>"`,
		func(_ context.Context, args string) (string, error) {
			if strings.TrimSpace(args) == "" {
				args = "."
			}

			full, err := opts.resolve(args)
			if err != nil {
				return "", tool.NewToolError("DirectoryLister", err.Error(), tool.CodeValidation)
			}

			entries, err := os.ReadDir(full)
			if err != nil {
				return "", err
			}

			names := make([]string, 0, len(entries))
			for _, e := range entries {
				name := e.Name()
				if e.IsDir() {
					name += "/"
				}
				names = append(names, name)
			}
			sort.Strings(names)

			return strings.Join(names, "\n"), nil
		},
	)
}
