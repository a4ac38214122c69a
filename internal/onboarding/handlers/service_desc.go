package handlers

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// The onboarding service speaks well-known protobuf types, so its
// descriptor is registered directly instead of generated from a .proto.
const (
	OnboardingServiceName = "onboarding.v1.OnboardingService"

	SubmitMethod  = "/" + OnboardingServiceName + "/SubmitOnboardingRequest"
	ListMethod    = "/" + OnboardingServiceName + "/ListOnboardingRequests"
	GetMethod     = "/" + OnboardingServiceName + "/GetOnboardingRequest"
	ApproveMethod = "/" + OnboardingServiceName + "/ApproveOnboardingRequest"
)

// AdminMethods are the gRPC methods that require an admin token.
var AdminMethods = []string{ListMethod, GetMethod, ApproveMethod}

// OnboardingServiceServer is the server API for the onboarding service.
type OnboardingServiceServer interface {
	SubmitOnboardingRequest(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListOnboardingRequests(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetOnboardingRequest(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	ApproveOnboardingRequest(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
}

var OnboardingServiceDesc = grpc.ServiceDesc{
	ServiceName: OnboardingServiceName,
	HandlerType: (*OnboardingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SubmitOnboardingRequest", Handler: submitOnboardingRequestHandler},
		{MethodName: "ListOnboardingRequests", Handler: listOnboardingRequestsHandler},
		{MethodName: "GetOnboardingRequest", Handler: getOnboardingRequestHandler},
		{MethodName: "ApproveOnboardingRequest", Handler: approveOnboardingRequestHandler},
	},
	Streams: []grpc.StreamDesc{},
}

func submitOnboardingRequestHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OnboardingServiceServer).SubmitOnboardingRequest(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: SubmitMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(OnboardingServiceServer).SubmitOnboardingRequest(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func listOnboardingRequestsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OnboardingServiceServer).ListOnboardingRequests(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ListMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(OnboardingServiceServer).ListOnboardingRequests(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func getOnboardingRequestHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OnboardingServiceServer).GetOnboardingRequest(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(OnboardingServiceServer).GetOnboardingRequest(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func approveOnboardingRequestHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OnboardingServiceServer).ApproveOnboardingRequest(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ApproveMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(OnboardingServiceServer).ApproveOnboardingRequest(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}
