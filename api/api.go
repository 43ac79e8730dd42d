// Package api is the surface the sync agent exposes to clients. It
// is implemented by daemon.Daemon on the server side, and by
// http/client.Client on the caller's side.
package api

import (
	"context"
	"time"
)

// Server is what a connecting pyeosctl needs a sync agent to
// provide.
type Server interface {
	// Ping checks the agent is alive.
	Ping(ctx context.Context) error
	// Version returns the agent's version string.
	Version(ctx context.Context) (string, error)
	// ListDevices reports the status of every managed device.
	ListDevices(ctx context.Context) ([]DeviceStatus, error)
	// Status reports the status of one device.
	Status(ctx context.Context, device string) (DeviceStatus, error)
	// Diff returns the changes needed to take the device's running
	// config to the candidate; empty means in sync.
	Diff(ctx context.Context, device string) (string, error)
	// Export returns the device's running configuration as text.
	Export(ctx context.Context, device string) ([]byte, error)
	// Sync replaces the device's configuration with its candidate.
	Sync(ctx context.Context, device string, spec SyncSpec) error
	// Rollback restores the configuration the device ran before the
	// last sync.
	Rollback(ctx context.Context, device string) error
	// Notify tells the agent something changed (e.g. a candidate
	// file was updated) and it should reload and re-check soon.
	Notify(ctx context.Context, change Change) error
	// Watch streams device statuses as sync cycles complete, until
	// ctx is done.
	Watch(ctx context.Context) (<-chan DeviceStatus, error)
}

// DeviceStatus is one device's place in the world, as of the last
// time the agent looked.
type DeviceStatus struct {
	Name     string `json:"name"`
	Hostname string `json:"hostname"`
	// Connected reports whether the last operation against the
	// device succeeded.
	Connected bool `json:"connected"`
	// InSync is true when the last comparison found no drift.
	InSync bool `json:"inSync"`
	// AddedLines/RemovedLines count the marked lines in the last
	// diff; rough drift size, not a patch.
	AddedLines   int       `json:"addedLines"`
	RemovedLines int       `json:"removedLines"`
	LastCheck    time.Time `json:"lastCheck,omitempty"`
	LastSync     time.Time `json:"lastSync,omitempty"`
	LastError    string    `json:"lastError,omitempty"`
}

// SyncSpec qualifies a Sync request.
type SyncSpec struct {
	// Force keeps a rejected configuration on the device rather than
	// rolling back.
	Force bool `json:"force"`
}

// Change describes why a Notify was sent. Kind is free-form for
// forward compatibility; agents may ignore it.
type Change struct {
	Kind   string `json:"kind"`
	Source string `json:"source,omitempty"`
}
