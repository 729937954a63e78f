package store

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// The remote backend speaks a two-method unary service. The wire types are
// protobuf well-known types, so no generated code is needed; the service
// descriptor below mirrors what protoc would emit.
const (
	cacheStoreServiceName = "goseq.store.v1.CacheStore"
	cacheStoreReadMethod  = "/goseq.store.v1.CacheStore/Read"
	cacheStoreWriteMethod = "/goseq.store.v1.CacheStore/Write"
)

// Remote is a Backend over a gRPC connection to a Server.
type Remote[D any] struct {
	conn  grpc.ClientConnInterface
	codec Codec[D]
}

// NewRemote builds a backend calling the cache-store service on conn. The
// connection stays owned by the caller.
func NewRemote[D any](conn grpc.ClientConnInterface) *Remote[D] {
	return &Remote[D]{conn: conn, codec: JSONCodec[D]{}}
}

// WithCodec replaces the default JSON codec. It must match the codec of the
// backend behind the server.
func (r *Remote[D]) WithCodec(codec Codec[D]) *Remote[D] {
	r.codec = codec
	return r
}

// Read implements Backend. A NotFound status from the server is a miss.
func (r *Remote[D]) Read(ctx context.Context) (D, error) {
	var zero D
	out := new(wrapperspb.BytesValue)
	err := r.conn.Invoke(ctx, cacheStoreReadMethod, &emptypb.Empty{}, out)
	if status.Code(err) == codes.NotFound {
		return zero, ErrNotFound
	}
	if err != nil {
		return zero, fmt.Errorf("store: remote read: %w", err)
	}
	return r.codec.Decode(out.Value)
}

// Write implements Backend.
func (r *Remote[D]) Write(ctx context.Context, value D) error {
	data, err := r.codec.Encode(value)
	if err != nil {
		return fmt.Errorf("store: encode remote value: %w", err)
	}
	if err := r.conn.Invoke(ctx, cacheStoreWriteMethod, wrapperspb.Bytes(data), &emptypb.Empty{}); err != nil {
		return fmt.Errorf("store: remote write: %w", err)
	}
	return nil
}

// cacheStoreService is the server-side contract behind the service
// descriptor.
type cacheStoreService interface {
	readRPC(ctx context.Context, in *emptypb.Empty) (*wrapperspb.BytesValue, error)
	writeRPC(ctx context.Context, in *wrapperspb.BytesValue) (*emptypb.Empty, error)
}

// Server exposes any Backend over the cache-store gRPC service.
type Server[D any] struct {
	backend Backend[D]
	codec   Codec[D]
}

// NewServer wraps backend for remote access.
func NewServer[D any](backend Backend[D]) *Server[D] {
	return &Server[D]{backend: backend, codec: JSONCodec[D]{}}
}

// WithCodec replaces the default JSON codec. It must match the codec of the
// remote clients.
func (s *Server[D]) WithCodec(codec Codec[D]) *Server[D] {
	s.codec = codec
	return s
}

// Register attaches the service to a gRPC registrar.
func (s *Server[D]) Register(reg grpc.ServiceRegistrar) {
	reg.RegisterService(&cacheStoreServiceDesc, s)
}

func (s *Server[D]) readRPC(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.BytesValue, error) {
	value, err := s.backend.Read(ctx)
	if err != nil {
		return nil, status.Error(codes.NotFound, err.Error())
	}
	data, err := s.codec.Encode(value)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return wrapperspb.Bytes(data), nil
}

func (s *Server[D]) writeRPC(ctx context.Context, in *wrapperspb.BytesValue) (*emptypb.Empty, error) {
	value, err := s.codec.Decode(in.Value)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := s.backend.Write(ctx, value); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &emptypb.Empty{}, nil
}

func cacheStoreReadHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	svc := srv.(cacheStoreService)
	if interceptor == nil {
		return svc.readRPC(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: cacheStoreReadMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return svc.readRPC(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func cacheStoreWriteHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	svc := srv.(cacheStoreService)
	if interceptor == nil {
		return svc.writeRPC(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: cacheStoreWriteMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return svc.writeRPC(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

var cacheStoreServiceDesc = grpc.ServiceDesc{
	ServiceName: cacheStoreServiceName,
	HandlerType: (*cacheStoreService)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Read", Handler: cacheStoreReadHandler},
		{MethodName: "Write", Handler: cacheStoreWriteHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "goseq/store/cachestore.proto",
}
