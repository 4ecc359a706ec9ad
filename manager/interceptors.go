package manager

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"github.com/moby/fdbkit/identity"
	"github.com/moby/fdbkit/log"
)

// logUnaryInterceptor gives every request a logger carrying its method and
// a request ID, and logs the outcome.
func logUnaryInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	ctx = requestContext(ctx, info.FullMethod)
	start := time.Now()
	resp, err := handler(ctx, req)
	logRequest(ctx, start, err)
	return resp, err
}

func logStreamInterceptor(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
	ctx := requestContext(ss.Context(), info.FullMethod)
	start := time.Now()
	err := handler(srv, &loggedStream{ServerStream: ss, ctx: ctx})
	logRequest(ctx, start, err)
	return err
}

func requestContext(ctx context.Context, method string) context.Context {
	return log.WithFields(ctx, logrus.Fields{
		"grpc.method": method,
		"request.id":  identity.NewUUID(),
	})
}

func logRequest(ctx context.Context, start time.Time, err error) {
	entry := log.G(ctx).WithFields(logrus.Fields{
		"grpc.code":     status.Code(err).String(),
		"grpc.duration": time.Since(start),
	})
	if err != nil {
		entry.WithError(err).Debug("request failed")
		return
	}
	entry.Debug("request served")
}

type loggedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *loggedStream) Context() context.Context {
	return s.ctx
}
