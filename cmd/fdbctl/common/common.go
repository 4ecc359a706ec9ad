package common

import (
	"context"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"github.com/moby/fdbkit/api"
	"github.com/moby/fdbkit/xnet"
)

// Dial establishes a connection to the manager's control socket.
// It infers connection parameters from CLI options.
func Dial(cmd *cobra.Command) (*grpc.ClientConn, error) {
	addr, err := cmd.Flags().GetString("socket")
	if err != nil {
		return nil, err
	}

	return grpc.Dial("passthrough:///"+addr,
		grpc.WithInsecure(),
		grpc.WithContextDialer(xnet.ContextDialer()))
}

// Control runs fn with a control API client.
func Control(cmd *cobra.Command, fn func(ctx context.Context, c api.ControlClient) error) error {
	conn, err := Dial(cmd)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := Context(cmd)
	defer cancel()
	return fn(ctx, api.NewControlClient(conn))
}

// Context returns a request context based on CLI arguments.
func Context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil || timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), timeout)
}
