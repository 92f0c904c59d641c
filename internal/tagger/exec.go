package tagger

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/desertthunder/ytsync/internal/shared"
)

// ExecTagger runs an external tagging tool as `command -p <dir>`.
type ExecTagger struct {
	command   string
	fallbacks []string
}

// NewExecTagger creates a tagger for command, trying fallbacks when command is not on PATH.
func NewExecTagger(command string, fallbacks ...string) *ExecTagger {
	if command == "" {
		command = DefaultCommand
	}
	return &ExecTagger{command: command, fallbacks: fallbacks}
}

// Resolve returns the path of the first candidate that can be executed.
func (t *ExecTagger) Resolve() (string, error) {
	for _, candidate := range append([]string{t.command}, t.fallbacks...) {
		if candidate == "" {
			continue
		}
		if path, err := exec.LookPath(candidate); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", shared.ErrTaggerNotFound, t.command)
}

// Tag runs the tool on dir and returns its combined output.
func (t *ExecTagger) Tag(ctx context.Context, dir string) (string, error) {
	path, err := t.Resolve()
	if err != nil {
		return "", err
	}

	out, err := exec.CommandContext(ctx, path, "-p", dir).CombinedOutput()
	if err != nil {
		return string(out), fmt.Errorf("%w: %v", shared.ErrTaggingFailed, err)
	}
	return string(out), nil
}
