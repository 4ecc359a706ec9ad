package port

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/moby/fdbkit/api"
	"github.com/moby/fdbkit/cmd/fdbctl/common"
)

var (
	// Cmd exposes the top-level port command.
	Cmd = &cobra.Command{
		Use:   "port",
		Short: "Port management",
	}

	createCmd = &cobra.Command{
		Use:   "create",
		Short: "Create a port",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			p := &api.Port{}
			var err error
			if p.ID, err = flags.GetString("id"); err != nil {
				return err
			}
			if p.MACAddress, err = flags.GetString("mac"); err != nil {
				return err
			}
			if p.IPAddress, err = flags.GetString("ip"); err != nil {
				return err
			}
			if p.NetworkID, err = flags.GetString("network"); err != nil {
				return err
			}
			if p.Name, err = flags.GetString("name"); err != nil {
				return err
			}

			return common.Control(cmd, func(ctx context.Context, c api.ControlClient) error {
				r, err := c.CreatePort(ctx, &api.CreatePortRequest{Port: p})
				if err != nil {
					return err
				}
				fmt.Println(r.Port.ID)
				return nil
			})
		},
	}

	removeCmd = &cobra.Command{
		Use:     "remove <port ID>",
		Short:   "Remove a port and its bindings",
		Aliases: []string{"rm"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("port ID missing")
			}
			return common.Control(cmd, func(ctx context.Context, c api.ControlClient) error {
				r, err := c.RemovePort(ctx, &api.RemovePortRequest{PortID: args[0]})
				if err != nil {
					return err
				}
				common.PrintRemoved(os.Stdout, r.Removed)
				fmt.Println(args[0])
				return nil
			})
		},
	}

	inspectCmd = &cobra.Command{
		Use:   "inspect <port ID>",
		Short: "Inspect a port",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("port ID missing")
			}
			return common.Control(cmd, func(ctx context.Context, c api.ControlClient) error {
				r, err := c.GetPort(ctx, &api.GetPortRequest{PortID: args[0]})
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(os.Stdout, 8, 8, 8, ' ', 0)
				defer w.Flush()
				p := r.Port
				common.FprintfIfNotEmpty(w, "ID:\t%s\n", p.ID)
				common.FprintfIfNotEmpty(w, "Name:\t%s\n", p.Name)
				common.FprintfIfNotEmpty(w, "Network:\t%s\n", p.NetworkID)
				common.FprintfIfNotEmpty(w, "MAC address:\t%s\n", p.MACAddress)
				common.FprintfIfNotEmpty(w, "IP address:\t%s\n", p.IPAddress)
				fmt.Fprintf(w, "Created:\t%s\n", common.TimestampAgo(p.Meta.CreatedAt))
				return nil
			})
		},
	}

	listCmd = &cobra.Command{
		Use:     "ls",
		Short:   "List ports",
		Aliases: []string{"list"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Control(cmd, func(ctx context.Context, c api.ControlClient) error {
				r, err := c.ListPorts(ctx, &api.ListPortsRequest{})
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
				defer w.Flush()
				fmt.Fprintln(w, "ID\tNAME\tMAC\tIP\tNETWORK")
				for _, p := range r.Ports {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.MACAddress, p.IPAddress, p.NetworkID)
				}
				return nil
			})
		},
	}
)

func init() {
	createCmd.Flags().String("id", "", "Port ID")
	createCmd.Flags().String("mac", "", "MAC address")
	createCmd.Flags().String("ip", "", "IP address")
	createCmd.Flags().String("network", "", "Network ID")
	createCmd.Flags().String("name", "", "Port name")

	Cmd.AddCommand(
		createCmd,
		removeCmd,
		inspectCmd,
		listCmd,
	)
}
