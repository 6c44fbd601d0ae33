package driveproto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

const (
	CodesService_Activate_FullMethodName                  = "/drive.CodesService/Activate"
	PlansService_GetAll_FullMethodName                    = "/drive.PlansService/GetAll"
	SubscriptionsService_GetMySubscription_FullMethodName = "/drive.SubscriptionsService/GetMySubscription"
)

// CodesService

type CodesServiceServer interface {
	Activate(context.Context, *ActivateRequest) (*Ok, error)
}

type UnimplementedCodesServiceServer struct{}

func (UnimplementedCodesServiceServer) Activate(context.Context, *ActivateRequest) (*Ok, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Activate not implemented")
}

var CodesService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "drive.CodesService",
	HandlerType: (*CodesServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Activate", Handler: unary(CodesService_Activate_FullMethodName, CodesServiceServer.Activate)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "drive.proto",
}

func RegisterCodesServiceServer(s grpc.ServiceRegistrar, srv CodesServiceServer) {
	s.RegisterService(&CodesService_ServiceDesc, srv)
}

type CodesServiceClient interface {
	Activate(ctx context.Context, in *ActivateRequest, opts ...grpc.CallOption) (*Ok, error)
}

type codesServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewCodesServiceClient(cc grpc.ClientConnInterface) CodesServiceClient {
	return &codesServiceClient{cc}
}

func (c *codesServiceClient) Activate(ctx context.Context, in *ActivateRequest, opts ...grpc.CallOption) (*Ok, error) {
	return invoke[Ok](ctx, c.cc, CodesService_Activate_FullMethodName, in, opts)
}

// PlansService

type PlansServiceServer interface {
	GetAll(context.Context, *GetAllPlansRequest) (*PlanList, error)
}

type UnimplementedPlansServiceServer struct{}

func (UnimplementedPlansServiceServer) GetAll(context.Context, *GetAllPlansRequest) (*PlanList, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetAll not implemented")
}

var PlansService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "drive.PlansService",
	HandlerType: (*PlansServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetAll", Handler: unary(PlansService_GetAll_FullMethodName, PlansServiceServer.GetAll)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "drive.proto",
}

func RegisterPlansServiceServer(s grpc.ServiceRegistrar, srv PlansServiceServer) {
	s.RegisterService(&PlansService_ServiceDesc, srv)
}

type PlansServiceClient interface {
	GetAll(ctx context.Context, in *GetAllPlansRequest, opts ...grpc.CallOption) (*PlanList, error)
}

type plansServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewPlansServiceClient(cc grpc.ClientConnInterface) PlansServiceClient {
	return &plansServiceClient{cc}
}

func (c *plansServiceClient) GetAll(ctx context.Context, in *GetAllPlansRequest, opts ...grpc.CallOption) (*PlanList, error) {
	return invoke[PlanList](ctx, c.cc, PlansService_GetAll_FullMethodName, in, opts)
}

// SubscriptionsService

type SubscriptionsServiceServer interface {
	GetMySubscription(context.Context, *emptypb.Empty) (*Subscription, error)
}

type UnimplementedSubscriptionsServiceServer struct{}

func (UnimplementedSubscriptionsServiceServer) GetMySubscription(context.Context, *emptypb.Empty) (*Subscription, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetMySubscription not implemented")
}

var SubscriptionsService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "drive.SubscriptionsService",
	HandlerType: (*SubscriptionsServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetMySubscription", Handler: unary(SubscriptionsService_GetMySubscription_FullMethodName, SubscriptionsServiceServer.GetMySubscription)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "drive.proto",
}

func RegisterSubscriptionsServiceServer(s grpc.ServiceRegistrar, srv SubscriptionsServiceServer) {
	s.RegisterService(&SubscriptionsService_ServiceDesc, srv)
}

type SubscriptionsServiceClient interface {
	GetMySubscription(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*Subscription, error)
}

type subscriptionsServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewSubscriptionsServiceClient(cc grpc.ClientConnInterface) SubscriptionsServiceClient {
	return &subscriptionsServiceClient{cc}
}

func (c *subscriptionsServiceClient) GetMySubscription(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*Subscription, error) {
	return invoke[Subscription](ctx, c.cc, SubscriptionsService_GetMySubscription_FullMethodName, in, opts)
}
