package generator

import (
	"fmt"
	"path"
	"strings"
)

// outputPath cleans a slash-separated artifact path and rejects paths that
// would leave the output directory.
func outputPath(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty path", ErrUnsafePath)
	}
	clean := path.Clean("/" + trimmed)
	clean = strings.TrimPrefix(clean, "/")
	if clean == "" || clean == "." || strings.Contains(trimmed, "..") {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, name)
	}
	return clean, nil
}
