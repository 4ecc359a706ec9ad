package agent

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
	// Cmd exposes the top-level agent command.
	Cmd = &cobra.Command{
		Use:   "agent",
		Short: "Agent management",
	}

	createCmd = &cobra.Command{
		Use:   "create",
		Short: "Register an agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			a := &api.Agent{}
			var err error
			if a.ID, err = flags.GetString("id"); err != nil {
				return err
			}
			if a.Host, err = flags.GetString("host"); err != nil {
				return err
			}
			if a.TunnelIP, err = flags.GetString("tunnel-ip"); err != nil {
				return err
			}
			if a.AgentType, err = flags.GetString("type"); err != nil {
				return err
			}

			return common.Control(cmd, func(ctx context.Context, c api.ControlClient) error {
				r, err := c.CreateAgent(ctx, &api.CreateAgentRequest{Agent: a})
				if err != nil {
					return err
				}
				fmt.Println(r.Agent.ID)
				return nil
			})
		},
	}

	removeCmd = &cobra.Command{
		Use:     "remove <agent ID>",
		Short:   "Remove an agent and its bindings",
		Aliases: []string{"rm"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("agent ID missing")
			}
			return common.Control(cmd, func(ctx context.Context, c api.ControlClient) error {
				r, err := c.RemoveAgent(ctx, &api.RemoveAgentRequest{AgentID: args[0]})
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
		Use:   "inspect <agent ID>",
		Short: "Inspect an agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("agent ID missing")
			}
			return common.Control(cmd, func(ctx context.Context, c api.ControlClient) error {
				r, err := c.GetAgent(ctx, &api.GetAgentRequest{AgentID: args[0]})
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(os.Stdout, 8, 8, 8, ' ', 0)
				defer w.Flush()
				a := r.Agent
				common.FprintfIfNotEmpty(w, "ID:\t%s\n", a.ID)
				common.FprintfIfNotEmpty(w, "Host:\t%s\n", a.Host)
				common.FprintfIfNotEmpty(w, "Type:\t%s\n", a.AgentType)
				common.FprintfIfNotEmpty(w, "Tunnel IP:\t%s\n", a.TunnelIP)
				fmt.Fprintf(w, "Created:\t%s\n", common.TimestampAgo(a.Meta.CreatedAt))
				return nil
			})
		},
	}

	listCmd = &cobra.Command{
		Use:     "ls",
		Short:   "List agents",
		Aliases: []string{"list"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Control(cmd, func(ctx context.Context, c api.ControlClient) error {
				r, err := c.ListAgents(ctx, &api.ListAgentsRequest{})
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
				defer w.Flush()
				fmt.Fprintln(w, "ID\tHOST\tTUNNEL IP\tTYPE")
				for _, a := range r.Agents {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.ID, a.Host, a.TunnelIP, a.AgentType)
				}
				return nil
			})
		},
	}
)

func init() {
	createCmd.Flags().String("id", "", "Agent ID")
	createCmd.Flags().String("host", "", "Host the agent runs on")
	createCmd.Flags().String("tunnel-ip", "", "Tunnel endpoint IP address")
	createCmd.Flags().String("type", "", "Agent type")

	Cmd.AddCommand(
		createCmd,
		removeCmd,
		inspectCmd,
		listCmd,
	)
}
