package binding

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moby/fdbkit/api"
	"github.com/moby/fdbkit/cmd/fdbctl/common"
)

var removeCmd = &cobra.Command{
	Use:     "remove <binding ID>...",
	Short:   "Remove bindings",
	Aliases: []string{"rm"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("binding ID missing")
		}

		return common.Control(cmd, func(ctx context.Context, c api.ControlClient) error {
			for _, id := range args {
				if _, err := c.RemoveBinding(ctx, &api.RemoveBindingRequest{BindingID: id}); err != nil {
					return err
				}
				fmt.Println(id)
			}
			return nil
		})
	},
}
