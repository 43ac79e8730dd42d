package device

import "github.com/pkg/errors"

var (
	// ErrNoCandidate means no candidate configuration has been loaded
	// yet.
	ErrNoCandidate = errors.New("no candidate configuration loaded")
	// ErrNoSnapshot means there's no pre-replace configuration to
	// roll back to.
	ErrNoSnapshot = errors.New("no configuration snapshot to roll back to")
)

// ReplaceError means the device rejected the candidate configuration
// during a replace.
type ReplaceError struct {
	// Err is the underlying command API error.
	Err error
	// RolledBack reports whether the pre-replace configuration was
	// restored.
	RolledBack bool
}

func (e *ReplaceError) Error() string {
	msg := "replacing config: " + e.Err.Error()
	if e.RolledBack {
		return msg + " (rolled back)"
	}
	return msg
}
