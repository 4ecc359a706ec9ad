package binding

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/moby/fdbkit/api"
	"github.com/moby/fdbkit/cmd/fdbctl/common"
)

var listCmd = &cobra.Command{
	Use:     "ls",
	Short:   "List bindings",
	Aliases: []string{"list"},
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		quiet, err := flags.GetBool("quiet")
		if err != nil {
			return err
		}

		var (
			filters api.BindingFilters
			opts    api.ListOptions
		)
		if filters.PortID, err = flags.GetString("port"); err != nil {
			return err
		}
		if filters.SegmentID, err = flags.GetString("segment"); err != nil {
			return err
		}
		if filters.AgentID, err = flags.GetString("agent"); err != nil {
			return err
		}
		if opts.Limit, err = flags.GetInt("limit"); err != nil {
			return err
		}
		if opts.Marker, err = flags.GetString("marker"); err != nil {
			return err
		}
		if opts.PageReverse, err = flags.GetBool("reverse"); err != nil {
			return err
		}

		return common.Control(cmd, func(ctx context.Context, c api.ControlClient) error {
			r, err := c.ListBindings(ctx, &api.ListBindingsRequest{Filters: &filters, Options: &opts})
			if err != nil {
				return err
			}

			if quiet {
				for _, b := range r.Bindings {
					fmt.Println(b.ID)
				}
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			defer func() {
				// Ignore flushing errors - there's nothing we can do.
				_ = w.Flush()
			}()
			fmt.Fprintln(w, "ID\tPORT\tSEGMENT\tAGENT\tCREATED")
			for _, b := range r.Bindings {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					b.ID,
					b.PortID,
					b.SegmentID,
					b.AgentID,
					common.TimestampAgo(b.Meta.CreatedAt),
				)
			}
			return nil
		})
	},
}

func init() {
	listCmd.Flags().BoolP("quiet", "q", false, "Only display IDs")
	listCmd.Flags().String("port", "", "Only bindings of this port")
	listCmd.Flags().String("segment", "", "Only bindings on this segment")
	listCmd.Flags().String("agent", "", "Only bindings through this agent")
	listCmd.Flags().Int("limit", 0, "Page size (0 for every binding)")
	listCmd.Flags().String("marker", "", "List bindings after this ID")
	listCmd.Flags().Bool("reverse", false, "List the page before the marker")
}
