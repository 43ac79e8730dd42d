package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"

	"github.com/spotify/pyeos/checkpoint"
	"github.com/spotify/pyeos/daemon"
	"github.com/spotify/pyeos/device"
	"github.com/spotify/pyeos/eapi"
	"github.com/spotify/pyeos/eapi/middleware"
	daemonhttp "github.com/spotify/pyeos/http/daemon"
)

const product = "pyeos"

var version = "unversioned"

func main() {
	// Flag domain.
	fs := pflag.NewFlagSet("default", pflag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "DESCRIPTION\n")
		fmt.Fprintf(os.Stderr, "  pyeosd keeps network devices running their candidate configs.\n")
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "FLAGS\n")
		fs.PrintDefaults()
	}
	var (
		versionFlag   = fs.Bool("version", false, "print version and exit")
		listenAddr    = fs.StringP("listen", "l", ":3030", "listen address for API clients")
		metricsAddr   = fs.String("listen-metrics", ":3031", "listen address for Prometheus metrics")
		inventoryPath = fs.String("inventory", "/etc/pyeos/inventory.yaml", "path to the device inventory file")
		syncInterval  = fs.Duration("sync-interval", 5*time.Minute, "period on which to re-check devices against their candidates")
		syncAuto      = fs.Bool("sync-auto", false, "apply the candidate when drift is found, rather than just reporting it")
		eapiTimeout   = fs.Duration("eapi-timeout", 10*time.Second, "duration after which device API requests time out")
		eapiRPS       = fs.Int("eapi-rps", 20, "maximum device API requests per second, per device")
		eapiBurst     = fs.Int("eapi-burst", 10, "maximum burst of device API requests, per device")
	)
	fs.Parse(os.Args)

	if *versionFlag {
		println(version)
		os.Exit(0)
	}

	// Logger domain.
	var logger log.Logger
	{
		logger = log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
		logger = log.With(logger, "ts", log.DefaultTimestampUTC)
		logger = log.With(logger, "caller", log.DefaultCaller)
	}
	logger.Log("version", version)

	// Error channel and shutdown triggers.
	errc := make(chan error)
	shutdown := make(chan struct{})
	shutdownWg := &sync.WaitGroup{}

	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		errc <- fmt.Errorf("%s", <-c)
	}()

	// Inventory.
	inv, err := daemon.LoadInventory(*inventoryPath)
	if err != nil {
		logger.Log("err", err)
		os.Exit(1)
	}
	logger.Log("inventory", *inventoryPath, "devices", len(inv.Devices))

	// Device handles, rate-limited per device and instrumented.
	rateLimiters := middleware.RateLimiters{RPS: *eapiRPS, Burst: *eapiBurst}
	instances := make([]*daemon.Instance, 0, len(inv.Devices))
	for _, d := range inv.Devices {
		client := eapi.New(eapi.Options{
			Hostname:  d.Hostname,
			Username:  d.Username,
			Password:  d.Password,
			UseSSL:    d.SSL,
			Transport: rateLimiters.RoundTripper(http.DefaultTransport, d.Hostname),
			Timeout:   *eapiTimeout,
		})
		var dev device.Device
		dev = device.NewEOS(client)
		dev = device.Instrument(dev)
		dev = &device.ErrorLoggingDevice{
			Device: dev,
			Logger: log.With(logger, "component", "device", "device", d.Name),
		}
		instances = append(instances, &daemon.Instance{
			Name:          d.Name,
			Hostname:      d.Hostname,
			CandidatePath: d.Candidate,
			Device:        dev,
		})
	}

	// Daemon domain.
	d := daemon.New(version, instances, &daemon.LoopVars{
		SyncInterval: *syncInterval,
		SyncAuto:     *syncAuto,
	}, log.With(logger, "component", "daemon"))

	shutdownWg.Add(1)
	go d.Loop(shutdown, shutdownWg, log.With(logger, "component", "sync-loop"))

	checkpoint.CheckForUpdates(product, version, nil, log.With(logger, "component", "checkpoint"))

	// Transport domain.
	go func() {
		handler := daemonhttp.NewHandler(d, daemonhttp.NewRouter(), log.With(logger, "component", "http"))
		logger.Log("addr", *listenAddr)
		errc <- http.ListenAndServe(*listenAddr, handler)
	}()
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		logger.Log("metrics-addr", *metricsAddr)
		errc <- http.ListenAndServe(*metricsAddr, mux)
	}()

	// Go!
	logger.Log("exiting", <-errc)
	close(shutdown)
	shutdownWg.Wait()
}
