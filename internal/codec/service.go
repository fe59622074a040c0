package codec

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// #region service-desc
// ServiceName is the fully qualified gRPC service name.
const ServiceName = "annotator.v1.Annotator"

// Full method names.
const (
	MethodProcessReality = "/" + ServiceName + "/ProcessReality"
	MethodInitialize     = "/" + ServiceName + "/Initialize"
	MethodGlimpse        = "/" + ServiceName + "/Glimpse"
)

// AnnotatorServer is the server-side contract of annotator.v1.Annotator.
// Requests and responses are google.protobuf.Struct documents.
type AnnotatorServer interface {
	ProcessReality(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Initialize(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Glimpse(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// ServiceDesc describes annotator.v1.Annotator for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AnnotatorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ProcessReality", Handler: unaryHandler(MethodProcessReality, AnnotatorServer.ProcessReality)},
		{MethodName: "Initialize", Handler: unaryHandler(MethodInitialize, AnnotatorServer.Initialize)},
		{MethodName: "Glimpse", Handler: unaryHandler(MethodGlimpse, AnnotatorServer.Glimpse)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "annotator/v1/annotator.proto",
}

// RegisterAnnotatorServer registers srv on s.
func RegisterAnnotatorServer(s grpc.ServiceRegistrar, srv AnnotatorServer) {
	s.RegisterService(&ServiceDesc, srv)
}

type unaryMethod func(AnnotatorServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AnnotatorServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AnnotatorServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// #endregion service-desc
