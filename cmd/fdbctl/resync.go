package main

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

var resyncCmd = &cobra.Command{
	Use:   "resync <segment ID>",
	Short: "Show the forwarding entries agents receive when resyncing a segment",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("segment ID missing")
		}
		return common.Control(cmd, func(ctx context.Context, c api.ControlClient) error {
			r, err := c.ListEntries(ctx, &api.ListEntriesRequest{SegmentID: args[0]})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			defer func() {
				// Ignore flushing errors - there's nothing we can do.
				_ = w.Flush()
			}()
			fmt.Fprintf(w, "Version: %d\n", r.Version.Index)
			fmt.Fprintln(w, "BINDING\tMAC\tIP\tTUNNEL\tHOST\tTYPE\tSEGID")
			for _, e := range r.Entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
					e.Binding.ID,
					e.Location.MACAddress,
					e.Location.IPAddress,
					e.Location.TunnelIP,
					e.Location.Host,
					e.Location.NetworkType,
					e.Location.SegmentationID,
				)
			}
			return nil
		})
	},
}
