package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConfigName is the file that marks a site directory.
const ConfigName = "folio.yaml"

// FindRoot looks upwards from startDir for a site directory.
// Indicators are a folio.yaml file or a .git directory.
// It returns the absolute path of the first directory that has one.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, ConfigName) || hasFile(dir, ".git") {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("no %s or .git found above %s", ConfigName, abs)
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
