package utils

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os/exec"
	"strings"
)

// CommandRunner runs an external program and returns its stdout
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// RunCommand is the CommandRunner backed by os/exec.
// A non-zero exit returns an error carrying the trimmed stderr of the process
func RunCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	log.Printf("[TRACE] RunCommand %s %s", name, strings.Join(args, " "))

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s failed: %w: %s", name, err, msg)
		}
		return nil, fmt.Errorf("%s failed: %w", name, err)
	}
	return output, nil
}
