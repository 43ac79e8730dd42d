package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

type statusOpts struct {
	*rootOpts
	device string
	output string
}

func newStatus(parent *rootOpts) *statusOpts {
	return &statusOpts{rootOpts: parent}
}

func (opts *statusOpts) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Display one device's sync status.",
		Example: makeExample(
			"pyeosctl status --device sw1",
			"pyeosctl status --device sw1 --output=json",
		),
		RunE: opts.RunE,
	}
	cmd.Flags().StringVarP(&opts.device, "device", "d", "", "device to report on")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "yaml", `The format to output ("yaml" or "json")`)
	return cmd
}

func (opts *statusOpts) RunE(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return errorWantedNoArgs
	}
	if opts.device == "" {
		return errorWantedDevice
	}

	var marshal func(interface{}) ([]byte, error)
	switch opts.output {
	case "yaml":
		marshal = yaml.Marshal
	case "json":
		marshal = func(v interface{}) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		}
	default:
		return errorInvalidOutputFormat
	}

	status, err := opts.API.Status(context.Background(), opts.device)
	if err != nil {
		return err
	}
	buf, err := marshal(status)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), string(buf))
	return nil
}
