// Package eapi is a client for the Arista command API: JSON-RPC 2.0
// over HTTP(S) POSTs to `/command-api`, with the protocol's error
// codes mapped to typed errors.
package eapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/spotify/pyeos/guid"
)

const defaultTimeout = 10 * time.Second

// Command is one command to run on the device. Most commands are
// plain strings on the wire; commands that take terminal input (like
// `configure replace terminal:`) are sent as an object instead.
type Command struct {
	Cmd   string
	Input string
}

func (c Command) MarshalJSON() ([]byte, error) {
	if c.Input == "" {
		return json.Marshal(c.Cmd)
	}
	return json.Marshal(struct {
		Cmd   string `json:"cmd"`
		Input string `json:"input"`
	}{c.Cmd, c.Input})
}

// CommandOptions control a RunCommands call. The zero value asks for
// version 1 of the API and JSON-formatted results.
type CommandOptions struct {
	// Version of the command API. Defaults to 1.
	Version int
	// Format of the results: "json" or "text". Defaults to "json".
	Format string
	// Timestamps asks the device to report when each command ran and
	// how long it took.
	Timestamps bool
	// AutoFormat retries the whole batch in text format when the
	// device reports a command has no JSON representation yet.
	AutoFormat bool
}

// Options configure a Client.
type Options struct {
	Hostname string
	Username string
	Password string
	// UseSSL selects https; the device-side API usually insists on it.
	UseSSL bool
	// Transport, if set, replaces http.DefaultTransport; used to
	// rate-limit requests per device.
	Transport http.RoundTripper
	Timeout   time.Duration
}

// Client issues command batches to one device.
type Client struct {
	url      string
	username string
	password string
	client   *http.Client
}

func New(opts Options) *Client {
	scheme := "http"
	if opts.UseSSL {
		scheme = "https"
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &Client{
		url:      fmt.Sprintf("%s://%s/command-api", scheme, opts.Hostname),
		username: opts.Username,
		password: opts.Password,
		client: &http.Client{
			Transport: opts.Transport,
			Timeout:   timeout,
		},
	}
}

type rpcRequest struct {
	JSONRPC string    `json:"jsonrpc"`
	Method  string    `json:"method"`
	Params  rpcParams `json:"params"`
	ID      string    `json:"id"`
}

type rpcParams struct {
	Version    int       `json:"version"`
	Cmds       []Command `json:"cmds"`
	Format     string    `json:"format"`
	Timestamps bool      `json:"timestamps"`
}

type rpcResponse struct {
	Result []json.RawMessage `json:"result"`
	Error  *rpcError         `json:"error"`
}

type rpcError struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    []json.RawMessage `json:"data"`
}

// RunCommands runs a batch of commands on the device, returning one
// raw result per command. `enable` is prepended unless it is already
// the first command, so results are offset by one relative to the
// commands supplied.
func (c *Client) RunCommands(ctx context.Context, commands []Command, opts CommandOptions) ([]json.RawMessage, error) {
	if len(commands) == 0 || commands[0].Cmd != "enable" {
		commands = append([]Command{{Cmd: "enable"}}, commands...)
	}
	version := opts.Version
	if version == 0 {
		version = 1
	}
	format := opts.Format
	if format == "" || opts.AutoFormat {
		format = "json"
	}

	result, err := c.call(ctx, commands, version, format, opts.Timestamps)
	if _, unconverted := errors.Cause(err).(*UnconvertedError); unconverted && opts.AutoFormat {
		result, err = c.call(ctx, commands, version, "text", opts.Timestamps)
	}
	return result, err
}

func (c *Client) call(ctx context.Context, commands []Command, version int, format string, timestamps bool) ([]json.RawMessage, error) {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  "runCmds",
		Params: rpcParams{
			Version:    version,
			Cmds:       commands,
			Format:     format,
			Timestamps: timestamps,
		},
		ID: guid.New(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "encoding eapi request")
	}

	req, err := http.NewRequest("POST", c.url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrapf(err, "constructing request %s", c.url)
	}
	req = req.WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "executing eapi request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("eapi request to %s: %s", c.url, resp.Status)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return nil, errors.Wrap(err, "decoding eapi response")
	}
	if rpcResp.Error != nil {
		return nil, typedError(rpcResp.Error)
	}
	// A well-behaved device answers one result per command; anything
	// else and indexing into the batch would be unsafe.
	if len(rpcResp.Result) != len(commands) {
		return nil, &ProtocolError{
			Message: fmt.Sprintf("%d results for %d commands", len(rpcResp.Result), len(commands)),
		}
	}
	return rpcResp.Result, nil
}

func typedError(e *rpcError) error {
	switch e.Code {
	case codeUnconverted:
		return &UnconvertedError{Message: e.Message}
	case codeCommandError:
		return &CommandError{Code: e.Code, Message: e.Message, Output: e.Data}
	default:
		return &ProtocolError{Code: e.Code, Message: e.Message}
	}
}
