package device

import (
	"context"
	"fmt"
	"time"

	"github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"

	pyeosmetrics "github.com/spotify/pyeos/metrics"
)

var (
	requestDuration = prometheus.NewHistogramFrom(stdprometheus.HistogramOpts{
		Namespace: "pyeos",
		Subsystem: "device",
		Name:      "request_duration_seconds",
		Help:      "Device operation duration in seconds.",
		Buckets:   stdprometheus.DefBuckets,
	}, []string{pyeosmetrics.LabelMethod, pyeosmetrics.LabelSuccess})
)

type instrumentedDevice struct {
	d Device
}

// Instrument records the duration and outcome of every operation on
// the wrapped device.
func Instrument(d Device) Device {
	return &instrumentedDevice{d}
}

func (i *instrumentedDevice) observe(method string, begin time.Time, err error) {
	requestDuration.With(
		pyeosmetrics.LabelMethod, method,
		pyeosmetrics.LabelSuccess, fmt.Sprint(err == nil),
	).Observe(time.Since(begin).Seconds())
}

func (i *instrumentedDevice) Ping(ctx context.Context) (err error) {
	defer func(begin time.Time) { i.observe("Ping", begin, err) }(time.Now())
	return i.d.Ping(ctx)
}

func (i *instrumentedDevice) Version(ctx context.Context) (_ string, err error) {
	defer func(begin time.Time) { i.observe("Version", begin, err) }(time.Now())
	return i.d.Version(ctx)
}

func (i *instrumentedDevice) RunningConfig(ctx context.Context) (_ string, err error) {
	defer func(begin time.Time) { i.observe("RunningConfig", begin, err) }(time.Now())
	return i.d.RunningConfig(ctx)
}

func (i *instrumentedDevice) LoadCandidate(buf []byte) (err error) {
	defer func(begin time.Time) { i.observe("LoadCandidate", begin, err) }(time.Now())
	return i.d.LoadCandidate(buf)
}

func (i *instrumentedDevice) LoadCandidateFile(path string) (err error) {
	defer func(begin time.Time) { i.observe("LoadCandidateFile", begin, err) }(time.Now())
	return i.d.LoadCandidateFile(path)
}

func (i *instrumentedDevice) CompareConfig(ctx context.Context) (_ string, err error) {
	defer func(begin time.Time) { i.observe("CompareConfig", begin, err) }(time.Now())
	return i.d.CompareConfig(ctx)
}

func (i *instrumentedDevice) ReplaceConfig(ctx context.Context, opts ReplaceOptions) (err error) {
	defer func(begin time.Time) { i.observe("ReplaceConfig", begin, err) }(time.Now())
	return i.d.ReplaceConfig(ctx, opts)
}

func (i *instrumentedDevice) Rollback(ctx context.Context) (err error) {
	defer func(begin time.Time) { i.observe("Rollback", begin, err) }(time.Now())
	return i.d.Rollback(ctx)
}
