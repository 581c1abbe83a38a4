package repo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

var (
	// ErrNoRepository is returned when no repository folder was configured.
	ErrNoRepository = errors.New("no repository folder found")
	// ErrNoFiles is returned when git reports no tracked files.
	ErrNoFiles = errors.New("could not retrieve files")
)

// ListFiles returns the paths reported by `git ls-files` run inside dir, in git's order.
// Any output on stderr is treated as a failure, as is an empty listing.
func ListFiles(ctx context.Context, dir string) ([]string, error) {
	if dir == "" {
		return nil, ErrNoRepository
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "git", "ls-files")
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: git ls-files in %s: %v: %s", ErrNoFiles, dir, err, strings.TrimSpace(stderr.String()))
	}
	if stderr.Len() > 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFiles, strings.TrimSpace(stderr.String()))
	}

	files := parseLsFiles(stdout.String())
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s has no tracked files", ErrNoFiles, dir)
	}
	return files, nil
}

func parseLsFiles(out string) []string {
	lines := strings.Split(out, "\n")
	files := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if len(line) > 0 {
			files = append(files, line)
		}
	}
	return files
}
