package binding

import "github.com/spf13/cobra"

var (
	// Cmd exposes the top-level binding command.
	Cmd = &cobra.Command{
		Use:   "binding",
		Short: "Forwarding database management",
	}
)

func init() {
	Cmd.AddCommand(
		createCmd,
		removeCmd,
		inspectCmd,
		listCmd,
	)
}
