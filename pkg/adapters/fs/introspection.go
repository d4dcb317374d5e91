package fs

import (
	"os"

	"github.com/aretw0/introspection"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Path       string `json:"path"`
	Include    string `json:"include"`
	RootExists bool   `json:"root_exists"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	info, err := os.Stat(r.Path)
	return RepositoryState{
		Path:       r.Path,
		Include:    r.config.Include,
		RootExists: err == nil && info.IsDir(),
	}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "fs-repository"
}

var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)
