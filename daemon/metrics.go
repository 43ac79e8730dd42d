package daemon

import (
	"github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"

	pyeosmetrics "github.com/spotify/pyeos/metrics"
)

const labelDirection = "direction"

var (
	syncDuration = prometheus.NewHistogramFrom(stdprometheus.HistogramOpts{
		Namespace: "pyeos",
		Subsystem: "daemon",
		Name:      "sync_duration_seconds",
		Help:      "Duration of one device's share of a sync cycle, in seconds.",
		Buckets:   stdprometheus.ExponentialBuckets(0.1, 3, 8),
	}, []string{pyeosmetrics.LabelDevice, pyeosmetrics.LabelSuccess})

	driftLines = prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
		Namespace: "pyeos",
		Subsystem: "daemon",
		Name:      "drift_lines",
		Help:      "Marked lines in the last diff between a device's running and candidate configs.",
	}, []string{pyeosmetrics.LabelDevice, labelDirection})
)
