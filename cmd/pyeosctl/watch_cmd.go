package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

type watchOpts struct {
	*rootOpts
}

func newWatch(parent *rootOpts) *watchOpts {
	return &watchOpts{rootOpts: parent}
}

func (opts *watchOpts) Command() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Stream device status updates as the agent checks and syncs.",
		Example: makeExample(
			"pyeosctl watch",
		),
		RunE: opts.RunE,
	}
}

func (opts *watchOpts) RunE(cmd *cobra.Command, args []string) error {
	if len(args) != 0 {
		return errorWantedNoArgs
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		<-c
		cancel()
	}()

	updates, err := opts.API.Watch(ctx)
	if err != nil {
		return err
	}
	for s := range updates {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\tconnected=%v\tinSync=%v\tdrift=%s\terror=%q\n",
			s.Name, s.Connected, s.InSync, drift(s), s.LastError)
	}
	return nil
}
