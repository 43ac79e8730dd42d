package device_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spotify/pyeos/device"
	"github.com/spotify/pyeos/eapi"
	"github.com/spotify/pyeos/eapi/eapitest"
)

const initialConfig = `hostname pyeos-unittest
interface Ethernet2
   description bla
router bgp 65000
   vrf test
      neighbor 1.1.1.1 remote-as 1
`

const candidateConfig = `hostname pyeos-unittest-changed
interface Ethernet2
   description ble
router bgp 65000
   vrf test
      neighbor 1.1.1.2 remote-as 1
`

func newEOS(t *testing.T) (*device.EOS, *eapitest.Server) {
	t.Helper()
	fake := eapitest.New(initialConfig)
	t.Cleanup(fake.Close)
	client := eapi.New(eapi.Options{Hostname: fake.Host()})
	return device.NewEOS(client), fake
}

func TestEOSVersionAndPing(t *testing.T) {
	dev, _ := newEOS(t)
	ctx := context.Background()

	if err := dev.Ping(ctx); err != nil {
		t.Fatal(err)
	}
	v, err := dev.Version(ctx)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, "4.15.2F", v)
}

func TestEOSCompareConfig(t *testing.T) {
	dev, _ := newEOS(t)
	ctx := context.Background()

	if _, err := dev.CompareConfig(ctx); err != device.ErrNoCandidate {
		t.Fatalf("expected ErrNoCandidate, got %v", err)
	}

	if err := dev.LoadCandidate([]byte(candidateConfig)); err != nil {
		t.Fatal(err)
	}
	diff, err := dev.CompareConfig(ctx)
	if err != nil {
		t.Fatal(err)
	}
	assert.Contains(t, diff, "+ hostname pyeos-unittest-changed\n")
	assert.Contains(t, diff, "- hostname pyeos-unittest\n")
	assert.Contains(t, diff, "vrf test\n  + neighbor 1.1.1.2 remote-as 1\n  - neighbor 1.1.1.1 remote-as 1\n")
}

func TestEOSReplaceConfig(t *testing.T) {
	dev, fake := newEOS(t)
	ctx := context.Background()

	if err := dev.LoadCandidate([]byte(candidateConfig)); err != nil {
		t.Fatal(err)
	}
	if err := dev.ReplaceConfig(ctx, device.ReplaceOptions{}); err != nil {
		t.Fatal(err)
	}

	// Once replaced, the device runs the candidate and the diff is
	// empty.
	diff, err := dev.CompareConfig(ctx)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, "", diff)
	assert.Contains(t, fake.RunningConfig(), "hostname pyeos-unittest-changed")
}

func TestEOSReplaceConfigRollsBackOnRejection(t *testing.T) {
	dev, fake := newEOS(t)
	ctx := context.Background()

	bad := "hostname broken " + eapitest.TypoMarker + "\n"
	if err := dev.LoadCandidate([]byte(bad)); err != nil {
		t.Fatal(err)
	}
	err := dev.ReplaceConfig(ctx, device.ReplaceOptions{})
	replaceErr, ok := err.(*device.ReplaceError)
	if !ok {
		t.Fatalf("expected *device.ReplaceError, got %v", err)
	}
	assert.True(t, replaceErr.RolledBack)
	// The device still runs what it ran before.
	assert.Equal(t, initialConfig, fake.RunningConfig())
}

func TestEOSRollback(t *testing.T) {
	dev, fake := newEOS(t)
	ctx := context.Background()

	if err := dev.Rollback(ctx); err != device.ErrNoSnapshot {
		t.Fatalf("expected ErrNoSnapshot, got %v", err)
	}

	if err := dev.LoadCandidate([]byte(candidateConfig)); err != nil {
		t.Fatal(err)
	}
	if err := dev.ReplaceConfig(ctx, device.ReplaceOptions{}); err != nil {
		t.Fatal(err)
	}
	if err := dev.Rollback(ctx); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, initialConfig, fake.RunningConfig())
}

func TestEOSShortResultIsAnError(t *testing.T) {
	// A device answering with too few results must surface as an
	// error from the client, not a crash in the callers indexing
	// into the batch.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"jsonrpc": "2.0", "id": "1", "result": []}`)
	}))
	defer ts.Close()

	dev := device.NewEOS(eapi.New(eapi.Options{Hostname: strings.TrimPrefix(ts.URL, "http://")}))
	ctx := context.Background()

	_, err := dev.Version(ctx)
	assert.Error(t, err)
	_, err = dev.RunningConfig(ctx)
	assert.Error(t, err)
}
