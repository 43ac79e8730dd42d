package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spotify/pyeos/config"
)

type diffOpts struct {
	*rootOpts
	device string
}

func newDiff(parent *rootOpts) *diffOpts {
	return &diffOpts{rootOpts: parent}
}

func (opts *diffOpts) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff [<from-file> <to-file>]",
		Short: "Show config drift: between a device and its candidate, or between two config files.",
		Example: makeExample(
			"pyeosctl diff --device sw1",
			"pyeosctl diff running.conf candidate.conf",
		),
		RunE: opts.RunE,
	}
	cmd.Flags().StringVarP(&opts.device, "device", "d", "", "device to diff against its candidate")
	return cmd
}

func (opts *diffOpts) RunE(cmd *cobra.Command, args []string) error {
	switch {
	case opts.device != "" && len(args) == 0:
		diff, err := opts.API.Diff(context.Background(), opts.device)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), diff)
		return nil
	case opts.device == "" && len(args) == 2:
		from, err := config.Load(args[0], args[0])
		if err != nil {
			return err
		}
		to, err := config.Load(args[1], args[1])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), config.Diff(from, to))
		return nil
	default:
		return newUsageError("please supply either --device, or two config files")
	}
}
