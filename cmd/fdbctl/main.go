package main

import (
	"os"

	"github.com/spf13/cobra"
	"google.golang.org/grpc/status"

	"github.com/moby/fdbkit/cmd/fdbctl/agent"
	"github.com/moby/fdbkit/cmd/fdbctl/binding"
	"github.com/moby/fdbkit/cmd/fdbctl/port"
	"github.com/moby/fdbkit/cmd/fdbctl/segment"
	"github.com/moby/fdbkit/cmd/fdbd/defaults"
	"github.com/moby/fdbkit/version"
)

func main() {
	if c, err := mainCmd.ExecuteC(); err != nil {
		s, _ := status.FromError(err)
		c.Println("Error:", s.Message())
		// if it's not a grpc, we assume it's a user error and we display the usage.
		if _, ok := status.FromError(err); !ok {
			c.Println(c.UsageString())
		}

		os.Exit(-1)
	}
}

var (
	mainCmd = &cobra.Command{
		Use:           os.Args[0],
		Short:         "Control a forwarding database manager",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func defaultSocket() string {
	socket := os.Getenv("FDB_SOCKET")
	if socket != "" {
		return socket
	}
	return defaults.ControlAPISocket
}

func init() {
	mainCmd.PersistentFlags().StringP("socket", "s", defaultSocket(), "Socket to connect to the manager")
	mainCmd.PersistentFlags().Duration("timeout", 0, "Request timeout (0 for none)")

	mainCmd.AddCommand(
		binding.Cmd,
		port.Cmd,
		segment.Cmd,
		agent.Cmd,
		resyncCmd,
		version.Cmd,
	)
}
