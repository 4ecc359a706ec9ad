package testutils

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrorDesc returns the error description of err if it was produced by the rpc system.
// Otherwise, it returns err.Error() or empty string when err is nil.
func ErrorDesc(err error) string {
	if err == nil {
		return ""
	}
	if s, ok := status.FromError(err); ok {
		return s.Message()
	}
	return err.Error()
}

// ErrorCode returns the gRPC code carried by err, codes.OK for nil.
func ErrorCode(err error) codes.Code {
	return status.Code(err)
}

// ServeUnix starts a gRPC server on a unix socket in a temporary directory,
// lets register install services on it, and returns a client connection to
// it. Both are torn down when the test ends.
func ServeUnix(t *testing.T, register func(*grpc.Server), opts ...grpc.ServerOption) *grpc.ClientConn {
	t.Helper()

	addr := filepath.Join(t.TempDir(), "test.sock")
	l, err := net.Listen("unix", addr)
	require.NoError(t, err)

	server := grpc.NewServer(opts...)
	register(server)
	go server.Serve(l)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	conn, err := grpc.DialContext(ctx, addr,
		grpc.WithInsecure(),
		grpc.WithBlock(),
		grpc.WithContextDialer(func(ctx context.Context, addr string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "unix", addr)
		}))
	require.NoError(t, err)

	t.Cleanup(func() {
		conn.Close()
		server.Stop()
	})
	return conn
}
