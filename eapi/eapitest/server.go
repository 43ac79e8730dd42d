// Package eapitest fakes just enough of the Arista command API for
// tests: an in-process HTTP server that understands the handful of
// commands the rest of the codebase issues.
package eapitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/mux"
)

// TypoMarker anywhere in a config pushed with `configure replace`
// makes the fake reject it with a command error, the way a real
// device rejects a config with a typo.
const TypoMarker = "#typo"

const version = "4.15.2F"

// Server is a fake device. The zero value isn't usable; construct
// with New.
type Server struct {
	*httptest.Server

	// Username/Password, when set, are required as basic auth.
	Username, Password string

	mu      sync.Mutex
	running string
}

// New starts a fake device serving `/command-api`, with the given
// text as its running configuration. Callers must Close it.
func New(runningConfig string) *Server {
	s := &Server{running: runningConfig}
	r := mux.NewRouter()
	r.NewRoute().Name("RunCmds").Methods("POST").Path("/command-api").HandlerFunc(s.runCmds)
	s.Server = httptest.NewServer(r)
	return s
}

// Host returns the host:port the fake listens on, in the form the
// eapi client's Options.Hostname wants.
func (s *Server) Host() string {
	u, err := url.Parse(s.URL)
	if err != nil {
		panic(err)
	}
	return u.Host
}

// RunningConfig returns the fake's current running configuration.
func (s *Server) RunningConfig() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

type request struct {
	ID     string `json:"id"`
	Params struct {
		Version    int               `json:"version"`
		Cmds       []json.RawMessage `json:"cmds"`
		Format     string            `json:"format"`
		Timestamps bool              `json:"timestamps"`
	} `json:"params"`
}

type command struct {
	Cmd   string `json:"cmd"`
	Input string `json:"input"`
}

type rpcError struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    []json.RawMessage `json:"data"`
}

type response struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      string            `json:"id"`
	Result  []json.RawMessage `json:"result,omitempty"`
	Error   *rpcError         `json:"error,omitempty"`
}

func (s *Server) runCmds(w http.ResponseWriter, r *http.Request) {
	if s.Username != "" {
		user, pass, ok := r.BasicAuth()
		if !ok || user != s.Username || pass != s.Password {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
	}

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := response{JSONRPC: "2.0", ID: req.ID}
	for i, raw := range req.Params.Cmds {
		cmd, err := decodeCommand(raw)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		result, rpcErr := s.runOne(cmd, req.Params.Format)
		if rpcErr != nil {
			rpcErr.Message = fmt.Sprintf("CLI command %d of %d '%s' failed: %s", i+1, len(req.Params.Cmds), cmd.Cmd, rpcErr.Message)
			rpcErr.Data = resp.Result
			resp.Result = nil
			resp.Error = rpcErr
			break
		}
		resp.Result = append(resp.Result, result)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func decodeCommand(raw json.RawMessage) (command, error) {
	var cmd command
	if err := json.Unmarshal(raw, &cmd.Cmd); err == nil {
		return cmd, nil
	}
	err := json.Unmarshal(raw, &cmd)
	return cmd, err
}

func (s *Server) runOne(cmd command, format string) (json.RawMessage, *rpcError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch cmd.Cmd {
	case "enable":
		return mustMarshal(map[string]interface{}{}), nil

	case "show running-config":
		// The text of a config has no JSON representation; callers
		// have to ask for text format, as on a real device.
		if format != "text" {
			return nil, &rpcError{Code: 1003, Message: "unconverted command: show running-config"}
		}
		return mustMarshal(map[string]string{"output": s.running}), nil

	case "show version":
		return mustMarshal(map[string]interface{}{
			"version":   version,
			"modelName": "vEOS",
		}), nil

	case "configure replace terminal: force":
		if strings.Contains(cmd.Input, TypoMarker) {
			return nil, &rpcError{Code: 1002, Message: "invalid input at marker"}
		}
		s.running = cmd.Input
		return mustMarshal(map[string]interface{}{"messages": []string{"replaced"}}), nil

	default:
		return nil, &rpcError{Code: 1002, Message: "invalid command"}
	}
}

func mustMarshal(v interface{}) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
