package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

type rollbackOpts struct {
	*rootOpts
	device string
}

func newRollback(parent *rootOpts) *rollbackOpts {
	return &rollbackOpts{rootOpts: parent}
}

func (opts *rollbackOpts) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rollback",
		Short: "Restore the configuration a device ran before its last sync.",
		Example: makeExample(
			"pyeosctl rollback --device sw1",
		),
		RunE: opts.RunE,
	}
	cmd.Flags().StringVarP(&opts.device, "device", "d", "", "device to roll back")
	return cmd
}

func (opts *rollbackOpts) RunE(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return errorWantedNoArgs
	}
	if opts.device == "" {
		return errorWantedDevice
	}

	if err := opts.API.Rollback(context.Background(), opts.device); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStderr(), "Rolled back %s\n", opts.device)
	return nil
}
