// Package daemon is the agent-side HTTP server for the pyeos API.
package daemon

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/metrics/prometheus"
	"github.com/gorilla/mux"
	stdprometheus "github.com/prometheus/client_golang/prometheus"

	"github.com/spotify/pyeos/api"
	transport "github.com/spotify/pyeos/http"
	"github.com/spotify/pyeos/http/websocket"
	pyeosmetrics "github.com/spotify/pyeos/metrics"
)

var (
	requestDuration = prometheus.NewHistogramFrom(stdprometheus.HistogramOpts{
		Namespace: "pyeos",
		Name:      "request_duration_seconds",
		Help:      "Time (in seconds) spent serving HTTP requests.",
		Buckets:   stdprometheus.DefBuckets,
	}, []string{pyeosmetrics.LabelRoute, "status_code"})
)

// NewRouter is the daemon's API router.
func NewRouter() *mux.Router {
	r := transport.NewAPIRouter()
	transport.DeprecateVersions(r, "v0")

	// We assume every request that doesn't match a route is a client
	// calling an old or hitherto unsupported API.
	r.NewRoute().Name("NotFound").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		transport.WriteError(w, r, http.StatusNotFound, transport.MakeAPINotFound(r.URL.Path))
	})

	return r
}

func NewHandler(s api.Server, r *mux.Router, logger log.Logger) http.Handler {
	handle := HTTPServer{s}
	for route, handlerFunc := range map[string]http.HandlerFunc{
		transport.Ping:        handle.Ping,
		transport.Version:     handle.Version,
		transport.ListDevices: handle.ListDevices,
		transport.Status:      handle.Status,
		transport.Diff:        handle.Diff,
		transport.Export:      handle.Export,
		transport.Sync:        handle.Sync,
		transport.Rollback:    handle.Rollback,
		transport.Notify:      handle.Notify,
		transport.Watch:       handle.Watch,
	} {
		var handler http.Handler = handlerFunc
		handler = observing(route, handler)
		handler = logging(handler, log.With(logger, "route", route))
		r.Get(route).Handler(handler)
	}
	return r
}

type HTTPServer struct {
	server api.Server
}

func (s HTTPServer) Ping(w http.ResponseWriter, r *http.Request) {
	if err := s.server.Ping(r.Context()); err != nil {
		transport.ErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s HTTPServer) Version(w http.ResponseWriter, r *http.Request) {
	version, err := s.server.Version(r.Context())
	if err != nil {
		transport.ErrorResponse(w, r, err)
		return
	}
	transport.JSONResponse(w, r, version)
}

func (s HTTPServer) ListDevices(w http.ResponseWriter, r *http.Request) {
	statuses, err := s.server.ListDevices(r.Context())
	if err != nil {
		transport.ErrorResponse(w, r, err)
		return
	}
	transport.JSONResponse(w, r, statuses)
}

func (s HTTPServer) Status(w http.ResponseWriter, r *http.Request) {
	status, err := s.server.Status(r.Context(), mux.Vars(r)["device"])
	if err != nil {
		transport.ErrorResponse(w, r, err)
		return
	}
	transport.JSONResponse(w, r, status)
}

func (s HTTPServer) Diff(w http.ResponseWriter, r *http.Request) {
	diff, err := s.server.Diff(r.Context(), mux.Vars(r)["device"])
	if err != nil {
		transport.ErrorResponse(w, r, err)
		return
	}
	transport.JSONResponse(w, r, diff)
}

func (s HTTPServer) Export(w http.ResponseWriter, r *http.Request) {
	config, err := s.server.Export(r.Context(), mux.Vars(r)["device"])
	if err != nil {
		transport.ErrorResponse(w, r, err)
		return
	}
	transport.JSONResponse(w, r, config)
}

func (s HTTPServer) Sync(w http.ResponseWriter, r *http.Request) {
	var spec api.SyncSpec
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil && err != io.EOF {
		transport.WriteError(w, r, http.StatusBadRequest, err)
		return
	}
	if err := s.server.Sync(r.Context(), mux.Vars(r)["device"], spec); err != nil {
		transport.ErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s HTTPServer) Rollback(w http.ResponseWriter, r *http.Request) {
	if err := s.server.Rollback(r.Context(), mux.Vars(r)["device"]); err != nil {
		transport.ErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s HTTPServer) Notify(w http.ResponseWriter, r *http.Request) {
	var change api.Change
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&change); err != nil && err != io.EOF {
		transport.WriteError(w, r, http.StatusBadRequest, err)
		return
	}
	if err := s.server.Notify(r.Context(), change); err != nil {
		transport.ErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s HTTPServer) Watch(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	updates, err := s.server.Watch(ctx)
	if err != nil {
		transport.ErrorResponse(w, r, err)
		return
	}

	ws, err := websocket.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		return
	}
	defer ws.Close()

	// Drain the read side so we notice the peer hanging up.
	go func() {
		buf := make([]byte, 256)
		for {
			if _, err := ws.Read(buf); err != nil {
				cancel()
				return
			}
		}
	}()

	enc := json.NewEncoder(ws)
	for status := range updates {
		if err := enc.Encode(status); err != nil {
			return
		}
	}
}

// --- middleware

func logging(next http.Handler, logger log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		begin := time.Now()
		cw := &codeWriter{w, http.StatusOK}
		next.ServeHTTP(cw, r)
		logger.Log(
			"method", r.Method,
			"url", r.URL.String(),
			"status", cw.code,
			"took", time.Since(begin).String(),
		)
	})
}

func observing(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		begin := time.Now()
		cw := &codeWriter{w, http.StatusOK}
		next.ServeHTTP(cw, r)
		requestDuration.With(
			pyeosmetrics.LabelRoute, route,
			"status_code", strconv.Itoa(cw.code),
		).Observe(time.Since(begin).Seconds())
	})
}

// codeWriter intercepts the written HTTP status code, and passes
// hijacking through so the websocket upgrade still works.
type codeWriter struct {
	http.ResponseWriter
	code int
}

func (w *codeWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *codeWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer is not a hijacker")
	}
	return hj.Hijack()
}
