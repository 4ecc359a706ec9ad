package api

import "google.golang.org/grpc"

// callOptions selects the cbor codec ahead of the caller's options.
func callOptions(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}
