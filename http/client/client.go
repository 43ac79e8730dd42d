// Package client is an api.Server that talks to a remote agent over
// its HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/spotify/pyeos"
	"github.com/spotify/pyeos/api"
	transport "github.com/spotify/pyeos/http"
	"github.com/spotify/pyeos/http/websocket"
)

type Client struct {
	client   *http.Client
	token    transport.Token
	router   *mux.Router
	endpoint string
}

var _ api.Server = &Client{}

func New(c *http.Client, router *mux.Router, endpoint string, t transport.Token) *Client {
	return &Client{
		client:   c,
		token:    t,
		router:   router,
		endpoint: endpoint,
	}
}

func (c *Client) Ping(ctx context.Context) error {
	return c.get(ctx, nil, transport.Ping)
}

func (c *Client) Version(ctx context.Context) (string, error) {
	var v string
	err := c.get(ctx, &v, transport.Version)
	return v, err
}

func (c *Client) ListDevices(ctx context.Context) ([]api.DeviceStatus, error) {
	var res []api.DeviceStatus
	err := c.get(ctx, &res, transport.ListDevices)
	return res, err
}

func (c *Client) Status(ctx context.Context, device string) (api.DeviceStatus, error) {
	var res api.DeviceStatus
	err := c.get(ctx, &res, transport.Status, "device", device)
	return res, err
}

func (c *Client) Diff(ctx context.Context, device string) (string, error) {
	var res string
	err := c.get(ctx, &res, transport.Diff, "device", device)
	return res, err
}

func (c *Client) Export(ctx context.Context, device string) ([]byte, error) {
	var res []byte
	err := c.get(ctx, &res, transport.Export, "device", device)
	return res, err
}

func (c *Client) Sync(ctx context.Context, device string, spec api.SyncSpec) error {
	return c.postWithBody(ctx, transport.Sync, spec, "device", device)
}

func (c *Client) Rollback(ctx context.Context, device string) error {
	return c.postWithBody(ctx, transport.Rollback, nil, "device", device)
}

func (c *Client) Notify(ctx context.Context, change api.Change) error {
	return c.postWithBody(ctx, transport.Notify, change)
}

// Watch dials the agent's websocket endpoint and decodes the status
// stream into a channel, until ctx is done or the agent hangs up.
func (c *Client) Watch(ctx context.Context) (<-chan api.DeviceStatus, error) {
	u, err := transport.MakeURL(c.endpoint, c.router, transport.Watch)
	if err != nil {
		return nil, errors.Wrap(err, "constructing URL")
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}

	conn, err := websocket.Dial(c.client, "pyeosctl", c.token, u)
	if err != nil {
		return nil, errors.Wrap(err, "dialing websocket")
	}

	updates := make(chan api.DeviceStatus)
	go func() {
		<-ctx.Done()
		conn.Close()
	}()
	go func() {
		defer close(updates)
		dec := json.NewDecoder(conn)
		for {
			var status api.DeviceStatus
			if err := dec.Decode(&status); err != nil {
				return
			}
			select {
			case updates <- status:
			case <-ctx.Done():
				return
			}
		}
	}()
	return updates, nil
}

// --- Request helpers

// postWithBody makes a POST request, with the body (if not nil)
// encoded as JSON.
func (c *Client) postWithBody(ctx context.Context, route string, body interface{}, queryParams ...string) error {
	u, err := transport.MakeURL(c.endpoint, c.router, route, queryParams...)
	if err != nil {
		return errors.Wrap(err, "constructing URL")
	}

	var bodyBytes []byte
	if body != nil {
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
	}

	req, err := http.NewRequest("POST", u.String(), bytes.NewReader(bodyBytes))
	if err != nil {
		return errors.Wrapf(err, "constructing request %s", u)
	}
	req = req.WithContext(ctx)

	c.token.Set(req)
	req.Header.Set("Accept", "application/json")

	resp, err := c.executeRequest(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// get executes a GET request against the agent, decoding the response
// into dest if it isn't nil.
func (c *Client) get(ctx context.Context, dest interface{}, route string, queryParams ...string) error {
	u, err := transport.MakeURL(c.endpoint, c.router, route, queryParams...)
	if err != nil {
		return errors.Wrap(err, "constructing URL")
	}

	req, err := http.NewRequest("GET", u.String(), nil)
	if err != nil {
		return errors.Wrapf(err, "constructing request %s", u)
	}
	req = req.WithContext(ctx)

	c.token.Set(req)
	req.Header.Set("Accept", "application/json")

	resp, err := c.executeRequest(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if dest != nil {
		if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
			return errors.Wrap(err, "decoding response from server")
		}
	}
	return nil
}

func (c *Client) executeRequest(req *http.Request) (*http.Response, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "executing HTTP request")
	}
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent, http.StatusAccepted:
		return resp, nil
	case http.StatusUnauthorized:
		return resp, transport.ErrorUnauthorized
	default:
		body, err := ioutil.ReadAll(resp.Body)
		if err != nil {
			return resp, errors.Wrap(err, "reading response body of error")
		}
		// Use the content type to discriminate between our own typed
		// errors and any old error.
		if strings.HasPrefix(resp.Header.Get(http.CanonicalHeaderKey("Content-Type")), "application/json") {
			var niceError pyeos.BaseError
			if err := json.Unmarshal(body, &niceError); err != nil {
				return resp, errors.Wrap(err, "decoding response body of error")
			}
			// just in case it's JSON but not one of our own errors
			if niceError.Err != nil {
				switch resp.StatusCode {
				case http.StatusNotFound:
					return resp, &pyeos.Missing{BaseError: &niceError}
				case http.StatusUnprocessableEntity:
					return resp, &pyeos.UserConfigProblem{BaseError: &niceError}
				default:
					return resp, &pyeos.ServerException{BaseError: &niceError}
				}
			}
			// fallthrough
		}
		return resp, errors.New(resp.Status + " " + string(body))
	}
}
