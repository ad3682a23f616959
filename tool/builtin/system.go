package builtin

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/hupe1980/agentloop/tool"
)

// SystemOptions configures the System tool.
type SystemOptions struct {
	// Shell runs the command as Shell -c <args>.
	Shell string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Timeout bounds each command. Zero means only the caller's context applies.
	Timeout time.Duration
}

// NewSystem creates the System tool, which runs args as a shell command and
// returns stdout followed by stderr. A non-zero exit status is an error.
func NewSystem(optFns ...func(o *SystemOptions)) tool.Tool {
	opts := SystemOptions{Shell: "sh"}
	for _, fn := range optFns {
		fn(&opts)
	}

	return tool.NewFunctionTool(
		"System",
		`runs a shell command and returns its output. args: "<command>", e.g. "ls -la"`,
		func(ctx context.Context, args string) (string, error) {
			if strings.TrimSpace(args) == "" {
				return "", tool.NewToolError("System", "empty command", tool.CodeValidation)
			}

			if opts.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
				defer cancel()
			}

			cmd := exec.CommandContext(ctx, opts.Shell, "-c", args)
			cmd.Dir = opts.Dir

			var stdout, stderr bytes.Buffer
			cmd.Stdout = &stdout
			cmd.Stderr = &stderr

			if err := cmd.Run(); err != nil {
				return "", fmt.Errorf("command failed: %w: %s", err, strings.TrimSpace(stderr.String()))
			}

			out := stdout.String()
			if stderr.Len() > 0 {
				out += "\n" + stderr.String()
			}

			return out, nil
		},
	)
}
