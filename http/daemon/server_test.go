package daemon_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spotify/pyeos"
	"github.com/spotify/pyeos/api"
	"github.com/spotify/pyeos/daemon"
	"github.com/spotify/pyeos/device"
	transport "github.com/spotify/pyeos/http"
	"github.com/spotify/pyeos/http/client"
	httpdaemon "github.com/spotify/pyeos/http/daemon"
)

const candidateConfig = `hostname sw1
!
interface Ethernet1
   description uplink
`

type fixture struct {
	client   *client.Client
	url      string
	mock     *device.Mock
	syncs    []device.ReplaceOptions
	rollback int
}

func newFixture(t *testing.T) *fixture {
	path := filepath.Join(t.TempDir(), "sw1.conf")
	require.NoError(t, os.WriteFile(path, []byte(candidateConfig), 0600))

	f := &fixture{}
	f.mock = &device.Mock{
		PingFunc:          func(ctx context.Context) error { return nil },
		VersionFunc:       func(ctx context.Context) (string, error) { return "4.15.2F", nil },
		RunningConfigFunc: func(ctx context.Context) (string, error) { return candidateConfig, nil },
		LoadCandidateFunc: func(buf []byte) error { return nil },
		CompareConfigFunc: func(ctx context.Context) (string, error) { return "+ hostname sw1\n", nil },
		ReplaceConfigFunc: func(ctx context.Context, opts device.ReplaceOptions) error {
			f.syncs = append(f.syncs, opts)
			return nil
		},
		RollbackFunc: func(ctx context.Context) error {
			f.rollback++
			return nil
		},
	}

	instances := []*daemon.Instance{{
		Name:          "sw1",
		Hostname:      "sw1.example.com",
		CandidatePath: path,
		Device:        f.mock,
	}}
	d := daemon.New("test-version", instances, &daemon.LoopVars{SyncInterval: time.Hour}, log.NewNopLogger())

	handler := httpdaemon.NewHandler(d, httpdaemon.NewRouter(), log.NewNopLogger())
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	f.client = client.New(http.DefaultClient, transport.NewAPIRouter(), ts.URL, "")
	f.url = ts.URL
	return f
}

func TestRouterImplementsServer(t *testing.T) {
	assert.NoError(t, transport.ImplementsServer(httpdaemon.NewRouter()))
}

func TestServerDeprecatedVersion(t *testing.T) {
	f := newFixture(t)

	resp, err := http.Get(f.url + "/v0/ping")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusGone, resp.StatusCode)
}

func TestServerPingVersion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.NoError(t, f.client.Ping(ctx))

	version, err := f.client.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, "test-version", version)
}

func TestServerListDevices(t *testing.T) {
	f := newFixture(t)

	statuses, err := f.client.ListDevices(context.Background())
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, "sw1", statuses[0].Name)
	assert.Equal(t, "sw1.example.com", statuses[0].Hostname)
}

func TestServerDiffAndStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	diff, err := f.client.Diff(ctx, "sw1")
	require.NoError(t, err)
	assert.Equal(t, "+ hostname sw1\n", diff)

	status, err := f.client.Status(ctx, "sw1")
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.False(t, status.InSync)
	assert.Equal(t, 1, status.AddedLines)
}

func TestServerUnknownDevice(t *testing.T) {
	f := newFixture(t)

	_, err := f.client.Status(context.Background(), "nonsuch")
	require.Error(t, err)
	missing, ok := err.(*pyeos.Missing)
	require.True(t, ok, "expected *pyeos.Missing, got %T: %v", err, err)
	assert.Contains(t, missing.Error(), "nonsuch")
}

func TestServerExport(t *testing.T) {
	f := newFixture(t)

	buf, err := f.client.Export(context.Background(), "sw1")
	require.NoError(t, err)
	assert.Equal(t, candidateConfig, string(buf))
}

func TestServerSync(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.client.Sync(ctx, "sw1", api.SyncSpec{Force: true}))
	require.Len(t, f.syncs, 1)
	assert.True(t, f.syncs[0].Force)

	status, err := f.client.Status(ctx, "sw1")
	require.NoError(t, err)
	assert.False(t, status.LastSync.IsZero())
}

func TestServerRollback(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.client.Rollback(context.Background(), "sw1"))
	assert.Equal(t, 1, f.rollback)
}

func TestServerNotify(t *testing.T) {
	f := newFixture(t)

	loads := 0
	f.mock.LoadCandidateFunc = func(buf []byte) error {
		loads++
		assert.Equal(t, candidateConfig, string(buf))
		return nil
	}
	require.NoError(t, f.client.Notify(context.Background(), api.Change{Kind: "candidate", Source: "ci"}))
	assert.Equal(t, 1, loads)
}

func TestServerWatch(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates, err := f.client.Watch(ctx)
	require.NoError(t, err)

	// A sync produces a status update on the stream.
	require.NoError(t, f.client.Sync(ctx, "sw1", api.SyncSpec{}))

	select {
	case status, ok := <-updates:
		require.True(t, ok)
		assert.Equal(t, "sw1", status.Name)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for status update")
	}

	cancel()
	select {
	case _, ok := <-updates:
		assert.False(t, ok, "expected channel to close after cancel")
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}
