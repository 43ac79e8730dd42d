package device

import "context"

// Mock is a test double for Device; set the funcs a test needs.
type Mock struct {
	PingFunc              func(ctx context.Context) error
	VersionFunc           func(ctx context.Context) (string, error)
	RunningConfigFunc     func(ctx context.Context) (string, error)
	LoadCandidateFunc     func(buf []byte) error
	LoadCandidateFileFunc func(path string) error
	CompareConfigFunc     func(ctx context.Context) (string, error)
	ReplaceConfigFunc     func(ctx context.Context, opts ReplaceOptions) error
	RollbackFunc          func(ctx context.Context) error
}

var _ Device = &Mock{}

func (m *Mock) Ping(ctx context.Context) error {
	return m.PingFunc(ctx)
}

func (m *Mock) Version(ctx context.Context) (string, error) {
	return m.VersionFunc(ctx)
}

func (m *Mock) RunningConfig(ctx context.Context) (string, error) {
	return m.RunningConfigFunc(ctx)
}

func (m *Mock) LoadCandidate(buf []byte) error {
	return m.LoadCandidateFunc(buf)
}

func (m *Mock) LoadCandidateFile(path string) error {
	return m.LoadCandidateFileFunc(path)
}

func (m *Mock) CompareConfig(ctx context.Context) (string, error) {
	return m.CompareConfigFunc(ctx)
}

func (m *Mock) ReplaceConfig(ctx context.Context, opts ReplaceOptions) error {
	return m.ReplaceConfigFunc(ctx, opts)
}

func (m *Mock) Rollback(ctx context.Context) error {
	return m.RollbackFunc(ctx)
}
