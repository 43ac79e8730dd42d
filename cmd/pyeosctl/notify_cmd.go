package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spotify/pyeos/api"
)

type notifyOpts struct {
	*rootOpts
	kind   string
	source string
}

func newNotify(parent *rootOpts) *notifyOpts {
	return &notifyOpts{rootOpts: parent}
}

func (opts *notifyOpts) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Tell the agent candidates changed, so it reloads and re-checks soon.",
		Example: makeExample(
			"pyeosctl notify --kind candidate --source ci",
		),
		RunE: opts.RunE,
	}
	cmd.Flags().StringVar(&opts.kind, "kind", "candidate", "what changed")
	cmd.Flags().StringVar(&opts.source, "source", "", "who or what is notifying, for the agent's logs")
	return cmd
}

func (opts *notifyOpts) RunE(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return errorWantedNoArgs
	}

	change := api.Change{Kind: opts.kind, Source: opts.source}
	if err := opts.API.Notify(context.Background(), change); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStderr(), "Notified.")
	return nil
}
