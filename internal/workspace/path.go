package workspace

import (
	"fmt"
	"path/filepath"
	"strings"
)

// joinInside joins name to root and rejects results that escape root.
func joinInside(root, name string) (string, error) {
	if name == "" || filepath.IsAbs(name) {
		return "", fmt.Errorf("invalid workspace subdirectory %q", name)
	}
	p := filepath.Join(root, name)
	rel, err := filepath.Rel(root, p)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid workspace subdirectory %q", name)
	}
	return p, nil
}
