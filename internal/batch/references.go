package batch

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ReadReferences reads one reference per line. Blank lines and lines starting
// with # are ignored.
func ReadReferences(r io.Reader) ([]string, error) {
	var refs []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		refs = append(refs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read references: %w", err)
	}
	return refs, nil
}

// CleanReferences trims args and drops empty ones.
func CleanReferences(args []string) []string {
	refs := make([]string, 0, len(args))
	for _, arg := range args {
		if arg = strings.TrimSpace(arg); arg != "" {
			refs = append(refs, arg)
		}
	}
	return refs
}
