package controlapi

import (
	"context"
	"net"

	"github.com/pkg/errors"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/moby/fdbkit/errdefs"
	"github.com/moby/fdbkit/log"
	"github.com/moby/fdbkit/manager/state/store"
)

// contextError converts a done context into the matching gRPC status, and
// returns nil while the context is live.
func contextError(ctx context.Context) error {
	switch ctx.Err() {
	case nil:
		return nil
	case context.DeadlineExceeded:
		return status.Error(codes.DeadlineExceeded, ctx.Err().Error())
	default:
		return status.Error(codes.Canceled, ctx.Err().Error())
	}
}

// translateError passes typed errors through and hides everything else
// behind codes.Internal.
func translateError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	var typed interface{ GRPCStatus() *status.Status }
	if errors.As(err, &typed) {
		return typed.(error)
	}

	if errors.Is(err, store.ErrExist) {
		return errdefs.ErrConflict("object already exists")
	}

	log.G(ctx).WithError(err).Error("control api request failed")
	return status.Error(codes.Internal, "internal error")
}

func validateMAC(mac string) error {
	if mac == "" {
		return errdefs.ErrInvalidArgument("mac address must be provided")
	}
	if _, err := net.ParseMAC(mac); err != nil {
		return errdefs.ErrInvalidArgument("invalid mac address %q", mac)
	}
	return nil
}

func validateIP(ip string, required bool) error {
	if ip == "" {
		if required {
			return errdefs.ErrInvalidArgument("ip address must be provided")
		}
		return nil
	}
	if net.ParseIP(ip) == nil {
		return errdefs.ErrInvalidArgument("invalid ip address %q", ip)
	}
	return nil
}
