package segment

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
	// Cmd exposes the top-level segment command.
	Cmd = &cobra.Command{
		Use:   "segment",
		Short: "Segment management",
	}

	createCmd = &cobra.Command{
		Use:   "create",
		Short: "Create a segment",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			s := &api.Segment{}
			var err error
			if s.ID, err = flags.GetString("id"); err != nil {
				return err
			}
			if s.NetworkType, err = flags.GetString("type"); err != nil {
				return err
			}
			if s.SegmentationID, err = flags.GetUint32("segmentation-id"); err != nil {
				return err
			}
			if s.NetworkID, err = flags.GetString("network"); err != nil {
				return err
			}

			return common.Control(cmd, func(ctx context.Context, c api.ControlClient) error {
				r, err := c.CreateSegment(ctx, &api.CreateSegmentRequest{Segment: s})
				if err != nil {
					return err
				}
				fmt.Println(r.Segment.ID)
				return nil
			})
		},
	}

	removeCmd = &cobra.Command{
		Use:     "remove <segment ID>",
		Short:   "Remove a segment and its bindings",
		Aliases: []string{"rm"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("segment ID missing")
			}
			return common.Control(cmd, func(ctx context.Context, c api.ControlClient) error {
				r, err := c.RemoveSegment(ctx, &api.RemoveSegmentRequest{SegmentID: args[0]})
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
		Use:   "inspect <segment ID>",
		Short: "Inspect a segment",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("segment ID missing")
			}
			return common.Control(cmd, func(ctx context.Context, c api.ControlClient) error {
				r, err := c.GetSegment(ctx, &api.GetSegmentRequest{SegmentID: args[0]})
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(os.Stdout, 8, 8, 8, ' ', 0)
				defer w.Flush()
				s := r.Segment
				common.FprintfIfNotEmpty(w, "ID:\t%s\n", s.ID)
				common.FprintfIfNotEmpty(w, "Network:\t%s\n", s.NetworkID)
				common.FprintfIfNotEmpty(w, "Type:\t%s\n", s.NetworkType)
				fmt.Fprintf(w, "Segmentation ID:\t%d\n", s.SegmentationID)
				fmt.Fprintf(w, "Created:\t%s\n", common.TimestampAgo(s.Meta.CreatedAt))
				return nil
			})
		},
	}

	listCmd = &cobra.Command{
		Use:     "ls",
		Short:   "List segments",
		Aliases: []string{"list"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Control(cmd, func(ctx context.Context, c api.ControlClient) error {
				r, err := c.ListSegments(ctx, &api.ListSegmentsRequest{})
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
				defer w.Flush()
				fmt.Fprintln(w, "ID\tTYPE\tSEGMENTATION ID\tNETWORK")
				for _, s := range r.Segments {
					fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", s.ID, s.NetworkType, s.SegmentationID, s.NetworkID)
				}
				return nil
			})
		},
	}
)

func init() {
	createCmd.Flags().String("id", "", "Segment ID")
	createCmd.Flags().String("type", api.NetworkTypeVXLAN, "Network type (vxlan, gre or geneve)")
	createCmd.Flags().Uint32("segmentation-id", 0, "Segmentation ID (VNI or GRE key)")
	createCmd.Flags().String("network", "", "Network ID")

	Cmd.AddCommand(
		createCmd,
		removeCmd,
		inspectCmd,
		listCmd,
	)
}
