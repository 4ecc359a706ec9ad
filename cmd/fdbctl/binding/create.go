package binding

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moby/fdbkit/api"
	"github.com/moby/fdbkit/cmd/fdbctl/common"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Bind a port on a segment to the agent hosting it",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		port, err := flags.GetString("port")
		if err != nil {
			return err
		}
		segment, err := flags.GetString("segment")
		if err != nil {
			return err
		}
		agent, err := flags.GetString("agent")
		if err != nil {
			return err
		}

		return common.Control(cmd, func(ctx context.Context, c api.ControlClient) error {
			r, err := c.CreateBinding(ctx, &api.CreateBindingRequest{
				PortID:    port,
				SegmentID: segment,
				AgentID:   agent,
			})
			if err != nil {
				return err
			}
			fmt.Println(r.Binding.ID)
			return nil
		})
	},
}

func init() {
	createCmd.Flags().String("port", "", "Port ID")
	createCmd.Flags().String("segment", "", "Segment ID")
	createCmd.Flags().String("agent", "", "Agent ID")
}
