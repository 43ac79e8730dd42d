package daemon

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/stretchr/testify/assert"

	"github.com/spotify/pyeos"
	"github.com/spotify/pyeos/api"
	"github.com/spotify/pyeos/device"
)

const testCandidate = "hostname sw1\ninterface Ethernet1\n   description uplink\n"

// newTestInstance returns an instance backed by a mock device whose
// running config starts out equal to the candidate file.
func newTestInstance(t *testing.T, name string, mock *device.Mock) *Instance {
	t.Helper()
	path := filepath.Join(t.TempDir(), name+".conf")
	if err := os.WriteFile(path, []byte(testCandidate), 0600); err != nil {
		t.Fatal(err)
	}
	if mock.LoadCandidateFunc == nil {
		mock.LoadCandidateFunc = func([]byte) error { return nil }
	}
	return &Instance{
		Name:          name,
		Hostname:      name + ".example.com",
		CandidatePath: path,
		Device:        mock,
	}
}

func newTestDaemon(t *testing.T, instances ...*Instance) *Daemon {
	t.Helper()
	return New("test-version", instances, &LoopVars{SyncInterval: time.Minute}, log.NewNopLogger())
}

func TestDaemonVersionAndPing(t *testing.T) {
	d := newTestDaemon(t)
	ctx := context.Background()

	if err := d.Ping(ctx); err != nil {
		t.Fatal(err)
	}
	v, err := d.Version(ctx)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, "test-version", v)
}

func TestDaemonListDevicesSorted(t *testing.T) {
	d := newTestDaemon(t,
		newTestInstance(t, "zurich", &device.Mock{}),
		newTestInstance(t, "antwerp", &device.Mock{}),
		newTestInstance(t, "madrid", &device.Mock{}),
	)
	statuses, err := d.ListDevices(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, s := range statuses {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"antwerp", "madrid", "zurich"}, names)
}

func TestDaemonUnknownDevice(t *testing.T) {
	d := newTestDaemon(t)
	ctx := context.Background()

	_, err := d.Status(ctx, "nonesuch")
	if _, ok := err.(*pyeos.Missing); !ok {
		t.Fatalf("expected *pyeos.Missing, got %v", err)
	}
	if _, err := d.Diff(ctx, "nonesuch"); err == nil {
		t.Error("expected an error from Diff")
	}
	if err := d.Sync(ctx, "nonesuch", api.SyncSpec{}); err == nil {
		t.Error("expected an error from Sync")
	}
}

func TestDaemonDiff(t *testing.T) {
	drift := "+ hostname sw1-changed\n- hostname sw1\n"
	mock := &device.Mock{
		CompareConfigFunc: func(context.Context) (string, error) { return drift, nil },
	}
	inst := newTestInstance(t, "sw1", mock)
	d := newTestDaemon(t, inst)

	diff, err := d.Diff(context.Background(), "sw1")
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, drift, diff)

	status, err := d.Status(context.Background(), "sw1")
	if err != nil {
		t.Fatal(err)
	}
	assert.True(t, status.Connected)
	assert.False(t, status.InSync)
	assert.Equal(t, 1, status.AddedLines)
	assert.Equal(t, 1, status.RemovedLines)
}

func TestDaemonDiffBadCandidate(t *testing.T) {
	inst := newTestInstance(t, "sw1", &device.Mock{
		LoadCandidateFunc: func([]byte) error {
			return &pyeos.BaseError{Err: assert.AnError, Help: "bad indent"}
		},
	})
	d := newTestDaemon(t, inst)

	_, err := d.Diff(context.Background(), "sw1")
	if _, ok := err.(*pyeos.UserConfigProblem); !ok {
		t.Fatalf("expected *pyeos.UserConfigProblem, got %v", err)
	}
}

func TestDaemonSyncPassesForce(t *testing.T) {
	var gotForce bool
	mock := &device.Mock{
		ReplaceConfigFunc: func(_ context.Context, opts device.ReplaceOptions) error {
			gotForce = opts.Force
			return nil
		},
	}
	inst := newTestInstance(t, "sw1", mock)
	d := newTestDaemon(t, inst)

	if err := d.Sync(context.Background(), "sw1", api.SyncSpec{Force: true}); err != nil {
		t.Fatal(err)
	}
	assert.True(t, gotForce)

	status, _ := d.Status(context.Background(), "sw1")
	assert.True(t, status.InSync)
	assert.False(t, status.LastSync.IsZero())
}

func TestDaemonNotifyReloadsAndAsksForSync(t *testing.T) {
	reloads := 0
	mock := &device.Mock{
		LoadCandidateFunc: func([]byte) error { reloads++; return nil },
	}
	inst := newTestInstance(t, "sw1", mock)
	d := newTestDaemon(t, inst)

	if err := d.Notify(context.Background(), api.Change{Kind: "candidate-updated"}); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, 1, reloads)

	// A sync request is now pending.
	select {
	case <-d.syncSoon:
	default:
		t.Error("expected a pending sync request")
	}
}

func TestDaemonWatch(t *testing.T) {
	mock := &device.Mock{
		CompareConfigFunc: func(context.Context) (string, error) { return "", nil },
	}
	inst := newTestInstance(t, "sw1", mock)
	d := newTestDaemon(t, inst)

	ctx, cancel := context.WithCancel(context.Background())
	updates, err := d.Watch(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := d.Diff(context.Background(), "sw1"); err != nil {
		t.Fatal(err)
	}

	select {
	case status := <-updates:
		assert.Equal(t, "sw1", status.Name)
		assert.True(t, status.InSync)
	case <-time.After(time.Second):
		t.Fatal("expected a status update")
	}

	// Cancelling closes the stream.
	cancel()
	for range updates {
	}
}

func TestCountChanges(t *testing.T) {
	diff := "+ hostname b\n- hostname a\nvrf test\n  + neighbor 1.1.1.2 remote-as 1\n  - neighbor 1.1.1.1 remote-as 1\ncontext line\n"
	added, removed := countChanges(diff)
	assert.Equal(t, 2, added)
	assert.Equal(t, 2, removed)
}
