package binding

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

var inspectCmd = &cobra.Command{
	Use:   "inspect <binding ID>",
	Short: "Inspect a binding",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("binding ID missing")
		}

		return common.Control(cmd, func(ctx context.Context, c api.ControlClient) error {
			r, err := c.GetBinding(ctx, &api.GetBindingRequest{BindingID: args[0]})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 8, 8, 8, ' ', 0)
			defer func() {
				// Ignore flushing errors - there's nothing we can do.
				_ = w.Flush()
			}()
			b := r.Binding
			common.FprintfIfNotEmpty(w, "ID:\t%s\n", b.ID)
			common.FprintfIfNotEmpty(w, "Port:\t%s\n", b.PortID)
			common.FprintfIfNotEmpty(w, "Segment:\t%s\n", b.SegmentID)
			common.FprintfIfNotEmpty(w, "Agent:\t%s\n", b.AgentID)
			fmt.Fprintf(w, "Version:\t%d\n", b.Meta.Version.Index)
			fmt.Fprintf(w, "Created:\t%s\n", common.TimestampAgo(b.Meta.CreatedAt))
			return nil
		})
	},
}
