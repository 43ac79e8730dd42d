package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Route names, shared by the server (to attach handlers) and the
// client (to construct URLs).
const (
	Ping        = "Ping"
	Version     = "Version"
	ListDevices = "ListDevices"
	Status      = "Status"
	Diff        = "Diff"
	Export      = "Export"
	Sync        = "Sync"
	Rollback    = "Rollback"
	Notify      = "Notify"
	Watch       = "Watch"
)

func NewAPIRouter() *mux.Router {
	r := mux.NewRouter()

	r.NewRoute().Name(Ping).Methods("GET").Path("/v1/ping")
	r.NewRoute().Name(Version).Methods("GET").Path("/v1/version")
	r.NewRoute().Name(ListDevices).Methods("GET").Path("/v1/devices")
	r.NewRoute().Name(Status).Methods("GET").Path("/v1/status").Queries("device", "{device}")
	r.NewRoute().Name(Diff).Methods("GET").Path("/v1/diff").Queries("device", "{device}")
	r.NewRoute().Name(Export).Methods("HEAD", "GET").Path("/v1/export").Queries("device", "{device}")
	r.NewRoute().Name(Sync).Methods("POST").Path("/v1/sync").Queries("device", "{device}")
	r.NewRoute().Name(Rollback).Methods("POST").Path("/v1/rollback").Queries("device", "{device}")
	r.NewRoute().Name(Notify).Methods("POST").Path("/v1/notify")
	r.NewRoute().Name(Watch).Methods("GET").Path("/v1/watch")

	return r
}

// DeprecateVersions marks API version prefixes as gone. They are done
// separately so we can see them as different methods in metrics and
// logging.
func DeprecateVersions(r *mux.Router, versions ...string) {
	var deprecated http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusGone, ErrorDeprecated)
	}

	for _, version := range versions {
		r.NewRoute().Name("Deprecated:" + version).PathPrefix("/" + version + "/").HandlerFunc(deprecated)
	}
}
