package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spotify/pyeos/api"
)

type syncOpts struct {
	*rootOpts
	device string
	force  bool
}

func newSync(parent *rootOpts) *syncOpts {
	return &syncOpts{rootOpts: parent}
}

func (opts *syncOpts) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Replace a device's configuration with its candidate, now.",
		Example: makeExample(
			"pyeosctl sync --device sw1",
		),
		RunE: opts.RunE,
	}
	cmd.Flags().StringVarP(&opts.device, "device", "d", "", "device to sync")
	cmd.Flags().BoolVar(&opts.force, "force", false, "keep a rejected configuration on the device instead of rolling back")
	return cmd
}

func (opts *syncOpts) RunE(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return errorWantedNoArgs
	}
	if opts.device == "" {
		return errorWantedDevice
	}

	ctx := context.Background()
	fmt.Fprintf(cmd.OutOrStderr(), "Synchronizing %s\n", opts.device)
	if err := opts.API.Sync(ctx, opts.device, api.SyncSpec{Force: opts.force}); err != nil {
		return err
	}

	status, err := opts.API.Status(ctx, opts.device)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStderr(), "Device %s is running its candidate (synced at %s)\n",
		opts.device, status.LastSync.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintln(cmd.OutOrStderr(), "Done.")
	return nil
}
