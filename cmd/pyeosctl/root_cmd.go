package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/spotify/pyeos/api"
	transport "github.com/spotify/pyeos/http"
	"github.com/spotify/pyeos/http/client"
)

const (
	envVariableURL   = "PYEOS_URL"
	envVariableToken = "PYEOS_TOKEN"
)

type rootOpts struct {
	URL     string
	Token   string
	Timeout time.Duration
	API     api.Server
}

func newRoot() *rootOpts {
	return &rootOpts{}
}

var rootLongHelp = strings.TrimSpace(`
pyeosctl talks to pyeosd, the device config sync agent.

Workflow:
  pyeosctl list-devices             # Which devices does the agent manage?
  pyeosctl diff --device sw1        # How far has sw1 drifted from its candidate?
  pyeosctl sync --device sw1        # Put the candidate on the device.
  pyeosctl rollback --device sw1    # Put back what it ran before.
`)

func (opts *rootOpts) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "pyeosctl",
		Long:              rootLongHelp,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: opts.PersistentPreRunE,
	}
	cmd.PersistentFlags().StringVarP(&opts.URL, "url", "u", fmt.Sprintf("$%s, or %q", envVariableURL, "http://localhost:3030"),
		"base URL of the pyeosd agent")
	cmd.PersistentFlags().StringVarP(&opts.Token, "token", "t", fmt.Sprintf("$%s", envVariableToken),
		"authentication token for the agent")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", 60*time.Second,
		"global command timeout; e.g. 30s, 10m")
	return cmd
}

func (opts *rootOpts) PersistentPreRunE(cmd *cobra.Command, _ []string) error {
	// The flag defaults above are documentation; resolve the real
	// values here.
	if !cmd.Flags().Changed("url") {
		opts.URL = os.Getenv(envVariableURL)
		if opts.URL == "" {
			opts.URL = "http://localhost:3030"
		}
	}
	if !cmd.Flags().Changed("token") {
		opts.Token = os.Getenv(envVariableToken)
	}

	opts.API = client.New(
		&http.Client{Timeout: opts.Timeout},
		transport.NewAPIRouter(),
		opts.URL,
		transport.Token(opts.Token),
	)
	return nil
}
