package config

import (
	"os"
	"path/filepath"
	"strings"
)

// expandPath expands $VAR references and a leading ~ in a configured file
// path. The home directory is left unexpanded when it cannot be found.
func expandPath(p string) string {
	p = os.ExpandEnv(p)
	if p != "~" && !strings.HasPrefix(p, "~"+string(filepath.Separator)) && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[1:])
}

// resolvePath expands p and makes it absolute against root. "-" names
// stdin/stdout and is kept as is.
func resolvePath(root, p string) string {
	p = expandPath(p)
	if p == "" || p == "-" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
