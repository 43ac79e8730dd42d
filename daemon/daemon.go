// Package daemon is the sync agent: it supervises a set of devices,
// keeping each one's running configuration reconciled with a
// candidate file on disk, and serves the api.Server surface to
// clients.
package daemon

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/pkg/errors"

	"github.com/spotify/pyeos"
	"github.com/spotify/pyeos/api"
	"github.com/spotify/pyeos/device"
)

// Daemon is the fully-functional state of the agent.
type Daemon struct {
	V         string
	Logger    log.Logger
	instances []*Instance
	byName    map[string]*Instance

	statusMu sync.RWMutex
	statuses map[string]api.DeviceStatus

	subsMu sync.Mutex
	subs   map[chan api.DeviceStatus]struct{}

	// bookkeeping
	*LoopVars
}

// Invariant.
var _ api.Server = &Daemon{}

func New(version string, instances []*Instance, loop *LoopVars, logger log.Logger) *Daemon {
	d := &Daemon{
		V:         version,
		Logger:    logger,
		instances: instances,
		byName:    map[string]*Instance{},
		statuses:  map[string]api.DeviceStatus{},
		subs:      map[chan api.DeviceStatus]struct{}{},
		LoopVars:  loop,
	}
	for _, inst := range instances {
		d.byName[inst.Name] = inst
		d.statuses[inst.Name] = api.DeviceStatus{Name: inst.Name, Hostname: inst.Hostname}
	}
	return d
}

func (d *Daemon) Ping(ctx context.Context) error {
	return nil
}

func (d *Daemon) Version(ctx context.Context) (string, error) {
	return d.V, nil
}

func (d *Daemon) ListDevices(ctx context.Context) ([]api.DeviceStatus, error) {
	d.statusMu.RLock()
	defer d.statusMu.RUnlock()
	statuses := make([]api.DeviceStatus, 0, len(d.statuses))
	for _, status := range d.statuses {
		statuses = append(statuses, status)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Name < statuses[j].Name })
	return statuses, nil
}

func (d *Daemon) Status(ctx context.Context, name string) (api.DeviceStatus, error) {
	d.statusMu.RLock()
	status, ok := d.statuses[name]
	d.statusMu.RUnlock()
	if !ok {
		return api.DeviceStatus{}, unknownDevice(name)
	}
	return status, nil
}

func (d *Daemon) Diff(ctx context.Context, name string) (string, error) {
	inst, ok := d.byName[name]
	if !ok {
		return "", unknownDevice(name)
	}
	if err := inst.ReloadCandidate(); err != nil {
		return "", err
	}
	diff, err := inst.Device.CompareConfig(ctx)
	d.noteCheck(inst, diff, err, false)
	return diff, err
}

func (d *Daemon) Export(ctx context.Context, name string) ([]byte, error) {
	inst, ok := d.byName[name]
	if !ok {
		return nil, unknownDevice(name)
	}
	text, err := inst.Device.RunningConfig(ctx)
	if err != nil {
		return nil, err
	}
	return []byte(text), nil
}

func (d *Daemon) Sync(ctx context.Context, name string, spec api.SyncSpec) error {
	inst, ok := d.byName[name]
	if !ok {
		return unknownDevice(name)
	}
	if err := inst.ReloadCandidate(); err != nil {
		return err
	}
	if err := inst.Device.ReplaceConfig(ctx, device.ReplaceOptions{Force: spec.Force}); err != nil {
		d.noteCheck(inst, "", err, false)
		return err
	}
	d.noteCheck(inst, "", nil, true)
	return nil
}

func (d *Daemon) Rollback(ctx context.Context, name string) error {
	inst, ok := d.byName[name]
	if !ok {
		return unknownDevice(name)
	}
	if err := inst.Device.Rollback(ctx); err != nil {
		return err
	}
	// The device's config just changed under us; re-check soon.
	d.AskForSync()
	return nil
}

func (d *Daemon) Notify(ctx context.Context, change api.Change) error {
	d.Logger.Log("msg", "notified of change", "kind", change.Kind, "source", change.Source)
	for _, inst := range d.instances {
		if err := inst.ReloadCandidate(); err != nil {
			d.Logger.Log("device", inst.Name, "err", err)
		}
	}
	d.AskForSync()
	return nil
}

// Watch registers a subscriber for status updates. The channel is
// closed when ctx is done. A slow subscriber misses updates rather
// than stalling the sync loop.
func (d *Daemon) Watch(ctx context.Context) (<-chan api.DeviceStatus, error) {
	updates := make(chan api.DeviceStatus, 8)
	d.subsMu.Lock()
	d.subs[updates] = struct{}{}
	d.subsMu.Unlock()

	go func() {
		<-ctx.Done()
		d.subsMu.Lock()
		delete(d.subs, updates)
		d.subsMu.Unlock()
		close(updates)
	}()
	return updates, nil
}

// noteCheck records the outcome of an operation against a device and
// publishes the new status to watchers. diff is the comparison
// output, if there was one; synced marks a successful replace.
func (d *Daemon) noteCheck(inst *Instance, diff string, opErr error, synced bool) {
	now := time.Now().UTC()

	d.statusMu.Lock()
	status := d.statuses[inst.Name]
	status.LastCheck = now
	if opErr != nil {
		status.Connected = false
		status.LastError = opErr.Error()
	} else {
		status.Connected = true
		status.LastError = ""
		status.AddedLines, status.RemovedLines = countChanges(diff)
		status.InSync = diff == ""
		if synced {
			status.LastSync = now
		}
	}
	d.statuses[inst.Name] = status
	d.statusMu.Unlock()

	d.publish(status)
}

func (d *Daemon) publish(status api.DeviceStatus) {
	d.subsMu.Lock()
	defer d.subsMu.Unlock()
	for sub := range d.subs {
		select {
		case sub <- status:
		default:
		}
	}
}

func unknownDevice(name string) error {
	return &pyeos.Missing{BaseError: &pyeos.BaseError{
		Err: errors.Errorf("unknown device: %s", name),
		Help: `There is no device named "` + name + `" in this agent's inventory.

Use

    pyeosctl list-devices

to see the devices the agent manages.
`,
	}}
}
