package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spotify/pyeos/api"
)

type deviceListOpts struct {
	*rootOpts
}

func newDeviceList(parent *rootOpts) *deviceListOpts {
	return &deviceListOpts{rootOpts: parent}
}

func (opts *deviceListOpts) Command() *cobra.Command {
	return &cobra.Command{
		Use:     "list-devices",
		Short:   "List devices managed by the agent, and whether they are in sync.",
		Example: makeExample("pyeosctl list-devices"),
		RunE:    opts.RunE,
	}
}

func (opts *deviceListOpts) RunE(cmd *cobra.Command, args []string) error {
	if len(args) != 0 {
		return errorWantedNoArgs
	}

	statuses, err := opts.API.ListDevices(context.Background())
	if err != nil {
		return err
	}

	w := newTabwriter()
	fmt.Fprintf(w, "DEVICE\tHOST\tCONNECTED\tIN SYNC\tDRIFT\tLAST CHECK\n")
	for _, s := range statuses {
		fmt.Fprintf(w, "%s\t%s\t%v\t%s\t%s\t%s\n",
			s.Name, s.Hostname, s.Connected, inSync(s), drift(s), lastCheck(s))
	}
	return w.Flush()
}

func inSync(s api.DeviceStatus) string {
	switch {
	case s.LastError != "":
		return "error"
	case s.LastCheck.IsZero():
		return "unknown"
	case s.InSync:
		return "yes"
	default:
		return "no"
	}
}

func drift(s api.DeviceStatus) string {
	if s.AddedLines == 0 && s.RemovedLines == 0 {
		return "-"
	}
	return fmt.Sprintf("+%d/-%d", s.AddedLines, s.RemovedLines)
}

func lastCheck(s api.DeviceStatus) string {
	if s.LastCheck.IsZero() {
		return "never"
	}
	return s.LastCheck.Local().Format("2006-01-02 15:04:05")
}
