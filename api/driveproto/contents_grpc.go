package driveproto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

const (
	ContentsService_GetChildrenContents_FullMethodName    = "/drive.ContentsService/GetChildrenContents"
	ContentsService_GetContentsFromStorage_FullMethodName = "/drive.ContentsService/GetContentsFromStorage"
	ContentsService_NewFolder_FullMethodName              = "/drive.ContentsService/NewFolder"
	ContentsService_RemoveContent_FullMethodName          = "/drive.ContentsService/RemoveContent"
	ContentsService_GetSpecialContentId_FullMethodName    = "/drive.ContentsService/GetSpecialContentId"
	ContentsService_GetDeletedContents_FullMethodName     = "/drive.ContentsService/GetDeletedContents"
	ContentsService_CleanTrashCan_FullMethodName          = "/drive.ContentsService/CleanTrashCan"
	ContentsService_RecoveryContent_FullMethodName        = "/drive.ContentsService/RecoveryContent"
	ContentsService_RenameContent_FullMethodName          = "/drive.ContentsService/RenameContent"
)

type ContentsServiceServer interface {
	GetChildrenContents(context.Context, *ChildrenRequest) (*ContentList, error)
	GetContentsFromStorage(context.Context, *StorageRequest) (*ContentList, error)
	NewFolder(context.Context, *NewFolderRequest) (*Content, error)
	RemoveContent(context.Context, *RemoveContentRequest) (*Ok, error)
	GetSpecialContentId(context.Context, *SpecialContentRequest) (*ContentIdRequest, error)
	GetDeletedContents(context.Context, *emptypb.Empty) (*ContentList, error)
	CleanTrashCan(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	RecoveryContent(context.Context, *ContentIdRequest) (*emptypb.Empty, error)
	RenameContent(context.Context, *RenameContentRequest) (*Ok, error)
}

type UnimplementedContentsServiceServer struct{}

func (UnimplementedContentsServiceServer) GetChildrenContents(context.Context, *ChildrenRequest) (*ContentList, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetChildrenContents not implemented")
}
func (UnimplementedContentsServiceServer) GetContentsFromStorage(context.Context, *StorageRequest) (*ContentList, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetContentsFromStorage not implemented")
}
func (UnimplementedContentsServiceServer) NewFolder(context.Context, *NewFolderRequest) (*Content, error) {
	return nil, status.Errorf(codes.Unimplemented, "method NewFolder not implemented")
}
func (UnimplementedContentsServiceServer) RemoveContent(context.Context, *RemoveContentRequest) (*Ok, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RemoveContent not implemented")
}
func (UnimplementedContentsServiceServer) GetSpecialContentId(context.Context, *SpecialContentRequest) (*ContentIdRequest, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetSpecialContentId not implemented")
}
func (UnimplementedContentsServiceServer) GetDeletedContents(context.Context, *emptypb.Empty) (*ContentList, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetDeletedContents not implemented")
}
func (UnimplementedContentsServiceServer) CleanTrashCan(context.Context, *emptypb.Empty) (*emptypb.Empty, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CleanTrashCan not implemented")
}
func (UnimplementedContentsServiceServer) RecoveryContent(context.Context, *ContentIdRequest) (*emptypb.Empty, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RecoveryContent not implemented")
}
func (UnimplementedContentsServiceServer) RenameContent(context.Context, *RenameContentRequest) (*Ok, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RenameContent not implemented")
}

var ContentsService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "drive.ContentsService",
	HandlerType: (*ContentsServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetChildrenContents", Handler: unary(ContentsService_GetChildrenContents_FullMethodName, ContentsServiceServer.GetChildrenContents)},
		{MethodName: "GetContentsFromStorage", Handler: unary(ContentsService_GetContentsFromStorage_FullMethodName, ContentsServiceServer.GetContentsFromStorage)},
		{MethodName: "NewFolder", Handler: unary(ContentsService_NewFolder_FullMethodName, ContentsServiceServer.NewFolder)},
		{MethodName: "RemoveContent", Handler: unary(ContentsService_RemoveContent_FullMethodName, ContentsServiceServer.RemoveContent)},
		{MethodName: "GetSpecialContentId", Handler: unary(ContentsService_GetSpecialContentId_FullMethodName, ContentsServiceServer.GetSpecialContentId)},
		{MethodName: "GetDeletedContents", Handler: unary(ContentsService_GetDeletedContents_FullMethodName, ContentsServiceServer.GetDeletedContents)},
		{MethodName: "CleanTrashCan", Handler: unary(ContentsService_CleanTrashCan_FullMethodName, ContentsServiceServer.CleanTrashCan)},
		{MethodName: "RecoveryContent", Handler: unary(ContentsService_RecoveryContent_FullMethodName, ContentsServiceServer.RecoveryContent)},
		{MethodName: "RenameContent", Handler: unary(ContentsService_RenameContent_FullMethodName, ContentsServiceServer.RenameContent)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "drive.proto",
}

func RegisterContentsServiceServer(s grpc.ServiceRegistrar, srv ContentsServiceServer) {
	s.RegisterService(&ContentsService_ServiceDesc, srv)
}

type ContentsServiceClient interface {
	GetChildrenContents(ctx context.Context, in *ChildrenRequest, opts ...grpc.CallOption) (*ContentList, error)
	GetContentsFromStorage(ctx context.Context, in *StorageRequest, opts ...grpc.CallOption) (*ContentList, error)
	NewFolder(ctx context.Context, in *NewFolderRequest, opts ...grpc.CallOption) (*Content, error)
	RemoveContent(ctx context.Context, in *RemoveContentRequest, opts ...grpc.CallOption) (*Ok, error)
	GetSpecialContentId(ctx context.Context, in *SpecialContentRequest, opts ...grpc.CallOption) (*ContentIdRequest, error)
	GetDeletedContents(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*ContentList, error)
	CleanTrashCan(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error)
	RecoveryContent(ctx context.Context, in *ContentIdRequest, opts ...grpc.CallOption) (*emptypb.Empty, error)
	RenameContent(ctx context.Context, in *RenameContentRequest, opts ...grpc.CallOption) (*Ok, error)
}

type contentsServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewContentsServiceClient(cc grpc.ClientConnInterface) ContentsServiceClient {
	return &contentsServiceClient{cc}
}

func (c *contentsServiceClient) GetChildrenContents(ctx context.Context, in *ChildrenRequest, opts ...grpc.CallOption) (*ContentList, error) {
	return invoke[ContentList](ctx, c.cc, ContentsService_GetChildrenContents_FullMethodName, in, opts)
}

func (c *contentsServiceClient) GetContentsFromStorage(ctx context.Context, in *StorageRequest, opts ...grpc.CallOption) (*ContentList, error) {
	return invoke[ContentList](ctx, c.cc, ContentsService_GetContentsFromStorage_FullMethodName, in, opts)
}

func (c *contentsServiceClient) NewFolder(ctx context.Context, in *NewFolderRequest, opts ...grpc.CallOption) (*Content, error) {
	return invoke[Content](ctx, c.cc, ContentsService_NewFolder_FullMethodName, in, opts)
}

func (c *contentsServiceClient) RemoveContent(ctx context.Context, in *RemoveContentRequest, opts ...grpc.CallOption) (*Ok, error) {
	return invoke[Ok](ctx, c.cc, ContentsService_RemoveContent_FullMethodName, in, opts)
}

func (c *contentsServiceClient) GetSpecialContentId(ctx context.Context, in *SpecialContentRequest, opts ...grpc.CallOption) (*ContentIdRequest, error) {
	return invoke[ContentIdRequest](ctx, c.cc, ContentsService_GetSpecialContentId_FullMethodName, in, opts)
}

func (c *contentsServiceClient) GetDeletedContents(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*ContentList, error) {
	return invoke[ContentList](ctx, c.cc, ContentsService_GetDeletedContents_FullMethodName, in, opts)
}

func (c *contentsServiceClient) CleanTrashCan(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, ContentsService_CleanTrashCan_FullMethodName, in, opts)
}

func (c *contentsServiceClient) RecoveryContent(ctx context.Context, in *ContentIdRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, ContentsService_RecoveryContent_FullMethodName, in, opts)
}

func (c *contentsServiceClient) RenameContent(ctx context.Context, in *RenameContentRequest, opts ...grpc.CallOption) (*Ok, error) {
	return invoke[Ok](ctx, c.cc, ContentsService_RenameContent_FullMethodName, in, opts)
}
