// Package device holds the device-facing orchestration: loading
// running and candidate configurations, comparing them, and replacing
// the configuration on the device with rollback on failure.
package device

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"

	"github.com/spotify/pyeos/config"
	"github.com/spotify/pyeos/eapi"
)

// ReplaceOptions control ReplaceConfig.
type ReplaceOptions struct {
	// Force leaves the (possibly broken) configuration in place when
	// the device rejects it, instead of rolling back.
	Force bool
}

// Device is what the sync daemon needs from a managed device. All
// remote operations take a context; LoadCandidate* only touch local
// state.
type Device interface {
	Ping(ctx context.Context) error
	Version(ctx context.Context) (string, error)
	RunningConfig(ctx context.Context) (string, error)
	LoadCandidate(buf []byte) error
	LoadCandidateFile(path string) error
	CompareConfig(ctx context.Context) (string, error)
	ReplaceConfig(ctx context.Context, opts ReplaceOptions) error
	Rollback(ctx context.Context) error
}

// EOS drives a device through its command API.
type EOS struct {
	client *eapi.Client

	mu        sync.Mutex
	running   *config.Tree
	candidate *config.Tree
	// snapshot is the running config text taken just before the last
	// replace, for Rollback.
	snapshot string
}

var _ Device = &EOS{}

func NewEOS(client *eapi.Client) *EOS {
	return &EOS{client: client}
}

func (d *EOS) Ping(ctx context.Context) error {
	_, err := d.client.RunCommands(ctx, []eapi.Command{{Cmd: "show version"}}, eapi.CommandOptions{})
	return err
}

func (d *EOS) Version(ctx context.Context) (string, error) {
	results, err := d.client.RunCommands(ctx, []eapi.Command{{Cmd: "show version"}}, eapi.CommandOptions{})
	if err != nil {
		return "", err
	}
	var v struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(results[1], &v); err != nil {
		return "", errors.Wrap(err, "decoding show version")
	}
	return v.Version, nil
}

// RunningConfig fetches the device's configuration as text. Text
// format, because that's the form that round-trips through the
// config tree and back to the device.
func (d *EOS) RunningConfig(ctx context.Context) (string, error) {
	results, err := d.client.RunCommands(ctx, []eapi.Command{{Cmd: "show running-config"}}, eapi.CommandOptions{Format: "text"})
	if err != nil {
		return "", err
	}
	var out struct {
		Output string `json:"output"`
	}
	if err := json.Unmarshal(results[1], &out); err != nil {
		return "", errors.Wrap(err, "decoding running config")
	}
	return out.Output, nil
}

// LoadCandidate parses buf as the desired configuration for the
// device.
func (d *EOS) LoadCandidate(buf []byte) error {
	tree, err := config.Parse(buf, "candidate")
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.candidate = tree
	d.mu.Unlock()
	return nil
}

// LoadCandidateFile is LoadCandidate reading from a file.
func (d *EOS) LoadCandidateFile(path string) error {
	tree, err := config.Load(path, "candidate")
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.candidate = tree
	d.mu.Unlock()
	return nil
}

// CompareConfig refreshes the running configuration from the device
// and diffs it against the loaded candidate. Empty output means the
// device already runs the candidate.
func (d *EOS) CompareConfig(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.candidate == nil {
		return "", ErrNoCandidate
	}
	text, err := d.RunningConfig(ctx)
	if err != nil {
		return "", err
	}
	running, err := config.Parse([]byte(text), "running")
	if err != nil {
		return "", errors.Wrap(err, "parsing running config")
	}
	d.running = running
	return config.Diff(d.running, d.candidate), nil
}

// ReplaceConfig replaces the device's whole configuration with the
// candidate. The running config is snapshotted first; if the device
// rejects the candidate, the snapshot is restored (unless
// opts.Force) and a *ReplaceError is returned.
func (d *EOS) ReplaceConfig(ctx context.Context, opts ReplaceOptions) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.candidate == nil {
		return ErrNoCandidate
	}
	snapshot, err := d.RunningConfig(ctx)
	if err != nil {
		return errors.Wrap(err, "snapshotting running config")
	}
	d.snapshot = snapshot

	if err := d.replace(ctx, d.candidate.Serialize()); err != nil {
		if _, rejected := errors.Cause(err).(*eapi.CommandError); !rejected {
			return err
		}
		replaceErr := &ReplaceError{Err: err}
		if !opts.Force {
			if rbErr := d.rollback(ctx); rbErr == nil {
				replaceErr.RolledBack = true
			}
		}
		return replaceErr
	}
	return nil
}

// Rollback restores the configuration snapshotted by the last
// ReplaceConfig.
func (d *EOS) Rollback(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rollback(ctx)
}

func (d *EOS) rollback(ctx context.Context) error {
	if d.snapshot == "" {
		return ErrNoSnapshot
	}
	return d.replace(ctx, d.snapshot)
}

func (d *EOS) replace(ctx context.Context, text string) error {
	_, err := d.client.RunCommands(ctx, []eapi.Command{{
		Cmd:   "configure replace terminal: force",
		Input: text,
	}}, eapi.CommandOptions{})
	return err
}
