package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

type exportOpts struct {
	*rootOpts
	device string
	out    string
}

func newExport(parent *rootOpts) *exportOpts {
	return &exportOpts{rootOpts: parent}
}

func (opts *exportOpts) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a device's running configuration.",
		Example: makeExample(
			"pyeosctl export --device sw1 > sw1.conf",
		),
		RunE: opts.RunE,
	}
	cmd.Flags().StringVarP(&opts.device, "device", "d", "", "device to export")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "write to this file instead of stdout")
	return cmd
}

func (opts *exportOpts) RunE(cmd *cobra.Command, args []string) error {
	if len(args) != 0 {
		return errorWantedNoArgs
	}
	if opts.device == "" {
		return errorWantedDevice
	}

	buf, err := opts.API.Export(context.Background(), opts.device)
	if err != nil {
		return err
	}
	if opts.out != "" {
		return os.WriteFile(opts.out, buf, 0644)
	}
	_, err = cmd.OutOrStdout().Write(buf)
	return err
}
