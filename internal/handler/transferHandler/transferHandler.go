package transferHandler

import (
	"context"

	"clouddrive/api/driveproto"
	"clouddrive/internal/handler"
	"clouddrive/internal/service/transferService"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type TransferHandler struct {
	transferService *transferService.TransferService
	driveproto.UnimplementedFileTransferServiceServer
}

func New(service *transferService.TransferService) *TransferHandler {
	return &TransferHandler{transferService: service}
}

func (h *TransferHandler) StartReceivingFile(ctx context.Context, req *driveproto.StartReceivingRequest) (*driveproto.StartReceivingResponse, error) {
	p, err := handler.Principal(ctx)
	if err != nil {
		return nil, err
	}
	node, err := h.transferService.StartUpload(ctx, p.Email, req.StorageId, req.ParentId, req.Name, req.Type)
	if err != nil {
		return nil, handler.Status(ctx, err)
	}
	return &driveproto.StartReceivingResponse{FilePath: node.Path, ContentId: node.ID}, nil
}

func (h *TransferHandler) ReceiveFileChunk(stream grpc.ClientStreamingServer[driveproto.FileChunk, driveproto.Ok]) error {
	ctx := stream.Context()
	p, err := handler.Principal(ctx)
	if err != nil {
		return err
	}
	recv := func() (*transferService.Chunk, error) {
		req, err := stream.Recv()
		if err != nil {
			return nil, err
		}
		return &transferService.Chunk{ContentID: req.ContentId, Data: req.Data}, nil
	}
	if err := h.transferService.ReceiveChunks(ctx, p.Email, recv); err != nil {
		return handler.Status(ctx, err)
	}
	return stream.SendAndClose(&driveproto.Ok{Ok: true})
}

func (h *TransferHandler) FinishReceivingFile(ctx context.Context, req *driveproto.ContentIdRequest) (*driveproto.Ok, error) {
	p, err := handler.Principal(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.transferService.FinishUpload(ctx, p.Email, req.ContentId); err != nil {
		return nil, handler.Status(ctx, err)
	}
	return &driveproto.Ok{Ok: true}, nil
}

func (h *TransferHandler) SendFileChunks(req *driveproto.ContentIdRequest, stream grpc.ServerStreamingServer[driveproto.FileFrame]) error {
	ctx := stream.Context()
	p, err := handler.Principal(ctx)
	if err != nil {
		return err
	}
	send := func(f *transferService.Frame) error {
		return stream.Send(&driveproto.FileFrame{Data: f.Data, FileName: f.FileName, TotalSize: f.TotalSize})
	}
	if err := h.transferService.SendFileChunks(ctx, p.Email, req.ContentId, send); err != nil {
		return handler.Status(ctx, err)
	}
	return nil
}

func (h *TransferHandler) SendFileStateChange(ctx context.Context, req *driveproto.StateChangeRequest) (*driveproto.Ok, error) {
	p, err := handler.Principal(ctx)
	if err != nil {
		return nil, err
	}
	var action transferService.Action
	switch req.Action {
	case driveproto.TransferAction_START:
		action = transferService.ActionStart
	case driveproto.TransferAction_FINISH:
		action = transferService.ActionFinish
	default:
		return nil, status.Errorf(codes.Unknown, "unknown action %d", req.Action)
	}
	if err := h.transferService.SetTransferState(ctx, p.Email, req.ContentId, action); err != nil {
		return nil, handler.Status(ctx, err)
	}
	return &driveproto.Ok{Ok: true}, nil
}
