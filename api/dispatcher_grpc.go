package api

import (
	"context"

	"google.golang.org/grpc"
)

// DispatcherServiceName is the gRPC service name agents talk to.
const DispatcherServiceName = "fdb.Dispatcher"

// DispatcherServer is the server API of the dispatcher service.
type DispatcherServer interface {
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Heartbeat(context.Context, *HeartbeatRequest) (*HeartbeatResponse, error)
	Subscribe(*SubscribeRequest, Dispatcher_SubscribeServer) error
	Resync(context.Context, *ResyncRequest) (*ResyncResponse, error)
}

// Dispatcher_SubscribeServer is the server side of a Subscribe stream.
type Dispatcher_SubscribeServer interface {
	Send(*ChangeSet) error
	grpc.ServerStream
}

type dispatcherSubscribeServer struct {
	grpc.ServerStream
}

func (x *dispatcherSubscribeServer) Send(m *ChangeSet) error {
	return x.ServerStream.SendMsg(m)
}

func _Dispatcher_Subscribe_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(SubscribeRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(DispatcherServer).Subscribe(m, &dispatcherSubscribeServer{stream})
}

// DispatcherClient is the client API for the dispatcher service.
type DispatcherClient interface {
	Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error)
	Heartbeat(ctx context.Context, in *HeartbeatRequest, opts ...grpc.CallOption) (*HeartbeatResponse, error)
	Subscribe(ctx context.Context, in *SubscribeRequest, opts ...grpc.CallOption) (Dispatcher_SubscribeClient, error)
	Resync(ctx context.Context, in *ResyncRequest, opts ...grpc.CallOption) (*ResyncResponse, error)
}

// Dispatcher_SubscribeClient is the client side of a Subscribe stream.
type Dispatcher_SubscribeClient interface {
	Recv() (*ChangeSet, error)
	grpc.ClientStream
}

type dispatcherSubscribeClient struct {
	grpc.ClientStream
}

func (x *dispatcherSubscribeClient) Recv() (*ChangeSet, error) {
	m := new(ChangeSet)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

type dispatcherClient struct {
	cc grpc.ClientConnInterface
}

// NewDispatcherClient returns a client of the dispatcher service on cc.
func NewDispatcherClient(cc grpc.ClientConnInterface) DispatcherClient {
	return &dispatcherClient{cc}
}

func (c *dispatcherClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	out := new(RegisterResponse)
	err := c.cc.Invoke(ctx, "/fdb.Dispatcher/Register", in, out, callOptions(opts)...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *dispatcherClient) Heartbeat(ctx context.Context, in *HeartbeatRequest, opts ...grpc.CallOption) (*HeartbeatResponse, error) {
	out := new(HeartbeatResponse)
	err := c.cc.Invoke(ctx, "/fdb.Dispatcher/Heartbeat", in, out, callOptions(opts)...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *dispatcherClient) Resync(ctx context.Context, in *ResyncRequest, opts ...grpc.CallOption) (*ResyncResponse, error) {
	out := new(ResyncResponse)
	err := c.cc.Invoke(ctx, "/fdb.Dispatcher/Resync", in, out, callOptions(opts)...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *dispatcherClient) Subscribe(ctx context.Context, in *SubscribeRequest, opts ...grpc.CallOption) (Dispatcher_SubscribeClient, error) {
	stream, err := c.cc.NewStream(ctx, &Dispatcher_ServiceDesc.Streams[0], "/fdb.Dispatcher/Subscribe", callOptions(opts)...)
	if err != nil {
		return nil, err
	}
	x := &dispatcherSubscribeClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

func _Dispatcher_Register_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(RegisterRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DispatcherServer).Register(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/fdb.Dispatcher/Register",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(DispatcherServer).Register(ctx, req.(*RegisterRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Dispatcher_Heartbeat_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(HeartbeatRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DispatcherServer).Heartbeat(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/fdb.Dispatcher/Heartbeat",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(DispatcherServer).Heartbeat(ctx, req.(*HeartbeatRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Dispatcher_Resync_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ResyncRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DispatcherServer).Resync(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/fdb.Dispatcher/Resync",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(DispatcherServer).Resync(ctx, req.(*ResyncRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// Dispatcher_ServiceDesc is the grpc.ServiceDesc for the dispatcher service.
var Dispatcher_ServiceDesc = grpc.ServiceDesc{
	ServiceName: DispatcherServiceName,
	HandlerType: (*DispatcherServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Register",
			Handler:    _Dispatcher_Register_Handler,
		},
		{
			MethodName: "Heartbeat",
			Handler:    _Dispatcher_Heartbeat_Handler,
		},
		{
			MethodName: "Resync",
			Handler:    _Dispatcher_Resync_Handler,
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Subscribe",
			Handler:       _Dispatcher_Subscribe_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "fdb/dispatcher",
}

// RegisterDispatcherServer registers srv on s.
func RegisterDispatcherServer(s grpc.ServiceRegistrar, srv DispatcherServer) {
	s.RegisterService(&Dispatcher_ServiceDesc, srv)
}
