package main

import "os"

func main() {
	rootOpts := newRoot()
	rootCmd := rootOpts.Command()

	rootCmd.AddCommand(
		newVersionCommand(),
		newDeviceList(rootOpts).Command(),
		newStatus(rootOpts).Command(),
		newDiff(rootOpts).Command(),
		newExport(rootOpts).Command(),
		newSync(rootOpts).Command(),
		newRollback(rootOpts).Command(),
		newNotify(rootOpts).Command(),
		newWatch(rootOpts).Command(),
	)

	if cmd, err := rootCmd.ExecuteC(); err != nil {
		switch err.(type) {
		case usageError:
			cmd.Println("")
			cmd.Println(cmd.UsageString())
		}
		os.Exit(1)
	}
}
