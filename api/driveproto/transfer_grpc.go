package driveproto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	FileTransferService_StartReceivingFile_FullMethodName  = "/drive.FileTransferService/StartReceivingFile"
	FileTransferService_ReceiveFileChunk_FullMethodName    = "/drive.FileTransferService/ReceiveFileChunk"
	FileTransferService_FinishReceivingFile_FullMethodName = "/drive.FileTransferService/FinishReceivingFile"
	FileTransferService_SendFileChunks_FullMethodName      = "/drive.FileTransferService/SendFileChunks"
	FileTransferService_SendFileStateChange_FullMethodName = "/drive.FileTransferService/SendFileStateChange"
)

type FileTransferServiceServer interface {
	StartReceivingFile(context.Context, *StartReceivingRequest) (*StartReceivingResponse, error)
	ReceiveFileChunk(grpc.ClientStreamingServer[FileChunk, Ok]) error
	FinishReceivingFile(context.Context, *ContentIdRequest) (*Ok, error)
	SendFileChunks(*ContentIdRequest, grpc.ServerStreamingServer[FileFrame]) error
	SendFileStateChange(context.Context, *StateChangeRequest) (*Ok, error)
}

type UnimplementedFileTransferServiceServer struct{}

func (UnimplementedFileTransferServiceServer) StartReceivingFile(context.Context, *StartReceivingRequest) (*StartReceivingResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method StartReceivingFile not implemented")
}
func (UnimplementedFileTransferServiceServer) ReceiveFileChunk(grpc.ClientStreamingServer[FileChunk, Ok]) error {
	return status.Errorf(codes.Unimplemented, "method ReceiveFileChunk not implemented")
}
func (UnimplementedFileTransferServiceServer) FinishReceivingFile(context.Context, *ContentIdRequest) (*Ok, error) {
	return nil, status.Errorf(codes.Unimplemented, "method FinishReceivingFile not implemented")
}
func (UnimplementedFileTransferServiceServer) SendFileChunks(*ContentIdRequest, grpc.ServerStreamingServer[FileFrame]) error {
	return status.Errorf(codes.Unimplemented, "method SendFileChunks not implemented")
}
func (UnimplementedFileTransferServiceServer) SendFileStateChange(context.Context, *StateChangeRequest) (*Ok, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SendFileStateChange not implemented")
}

func _FileTransferService_ReceiveFileChunk_Handler(srv any, stream grpc.ServerStream) error {
	return srv.(FileTransferServiceServer).ReceiveFileChunk(&grpc.GenericServerStream[FileChunk, Ok]{ServerStream: stream})
}

func _FileTransferService_SendFileChunks_Handler(srv any, stream grpc.ServerStream) error {
	m := new(ContentIdRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(FileTransferServiceServer).SendFileChunks(m, &grpc.GenericServerStream[ContentIdRequest, FileFrame]{ServerStream: stream})
}

var FileTransferService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "drive.FileTransferService",
	HandlerType: (*FileTransferServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "StartReceivingFile", Handler: unary(FileTransferService_StartReceivingFile_FullMethodName, FileTransferServiceServer.StartReceivingFile)},
		{MethodName: "FinishReceivingFile", Handler: unary(FileTransferService_FinishReceivingFile_FullMethodName, FileTransferServiceServer.FinishReceivingFile)},
		{MethodName: "SendFileStateChange", Handler: unary(FileTransferService_SendFileStateChange_FullMethodName, FileTransferServiceServer.SendFileStateChange)},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "ReceiveFileChunk",
			Handler:       _FileTransferService_ReceiveFileChunk_Handler,
			ClientStreams: true,
		},
		{
			StreamName:    "SendFileChunks",
			Handler:       _FileTransferService_SendFileChunks_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "drive.proto",
}

func RegisterFileTransferServiceServer(s grpc.ServiceRegistrar, srv FileTransferServiceServer) {
	s.RegisterService(&FileTransferService_ServiceDesc, srv)
}

type FileTransferServiceClient interface {
	StartReceivingFile(ctx context.Context, in *StartReceivingRequest, opts ...grpc.CallOption) (*StartReceivingResponse, error)
	ReceiveFileChunk(ctx context.Context, opts ...grpc.CallOption) (grpc.ClientStreamingClient[FileChunk, Ok], error)
	FinishReceivingFile(ctx context.Context, in *ContentIdRequest, opts ...grpc.CallOption) (*Ok, error)
	SendFileChunks(ctx context.Context, in *ContentIdRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[FileFrame], error)
	SendFileStateChange(ctx context.Context, in *StateChangeRequest, opts ...grpc.CallOption) (*Ok, error)
}

type fileTransferServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewFileTransferServiceClient(cc grpc.ClientConnInterface) FileTransferServiceClient {
	return &fileTransferServiceClient{cc}
}

func (c *fileTransferServiceClient) StartReceivingFile(ctx context.Context, in *StartReceivingRequest, opts ...grpc.CallOption) (*StartReceivingResponse, error) {
	return invoke[StartReceivingResponse](ctx, c.cc, FileTransferService_StartReceivingFile_FullMethodName, in, opts)
}

func (c *fileTransferServiceClient) ReceiveFileChunk(ctx context.Context, opts ...grpc.CallOption) (grpc.ClientStreamingClient[FileChunk, Ok], error) {
	stream, err := c.cc.NewStream(ctx, &FileTransferService_ServiceDesc.Streams[0], FileTransferService_ReceiveFileChunk_FullMethodName, withCodec(opts)...)
	if err != nil {
		return nil, err
	}
	return &grpc.GenericClientStream[FileChunk, Ok]{ClientStream: stream}, nil
}

func (c *fileTransferServiceClient) FinishReceivingFile(ctx context.Context, in *ContentIdRequest, opts ...grpc.CallOption) (*Ok, error) {
	return invoke[Ok](ctx, c.cc, FileTransferService_FinishReceivingFile_FullMethodName, in, opts)
}

func (c *fileTransferServiceClient) SendFileChunks(ctx context.Context, in *ContentIdRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[FileFrame], error) {
	stream, err := c.cc.NewStream(ctx, &FileTransferService_ServiceDesc.Streams[1], FileTransferService_SendFileChunks_FullMethodName, withCodec(opts)...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[ContentIdRequest, FileFrame]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

func (c *fileTransferServiceClient) SendFileStateChange(ctx context.Context, in *StateChangeRequest, opts ...grpc.CallOption) (*Ok, error) {
	return invoke[Ok](ctx, c.cc, FileTransferService_SendFileStateChange_FullMethodName, in, opts)
}
