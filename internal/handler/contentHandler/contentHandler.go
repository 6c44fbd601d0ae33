package contentHandler

import (
	"context"

	"clouddrive/api/driveproto"
	"clouddrive/internal/handler"
	"clouddrive/internal/model/content"
	"clouddrive/internal/service/contentService"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

type ContentHandler struct {
	contentService *contentService.ContentService
	driveproto.UnimplementedContentsServiceServer
}

func New(service *contentService.ContentService) *ContentHandler {
	return &ContentHandler{contentService: service}
}

func (h *ContentHandler) GetChildrenContents(ctx context.Context, req *driveproto.ChildrenRequest) (*driveproto.ContentList, error) {
	p, err := handler.Principal(ctx)
	if err != nil {
		return nil, err
	}
	sort, err := toSortKey(req.SortBy)
	if err != nil {
		return nil, err
	}
	nodes, err := h.contentService.ListChildren(ctx, p.Email, req.ContentId, sort)
	if err != nil {
		return nil, handler.Status(ctx, err)
	}
	return toContentList(nodes), nil
}

func (h *ContentHandler) GetContentsFromStorage(ctx context.Context, req *driveproto.StorageRequest) (*driveproto.ContentList, error) {
	p, err := handler.Principal(ctx)
	if err != nil {
		return nil, err
	}
	nodes, err := h.contentService.ListByStorage(ctx, p.Email, req.StorageId)
	if err != nil {
		return nil, handler.Status(ctx, err)
	}
	return toContentList(nodes), nil
}

func (h *ContentHandler) NewFolder(ctx context.Context, req *driveproto.NewFolderRequest) (*driveproto.Content, error) {
	p, err := handler.Principal(ctx)
	if err != nil {
		return nil, err
	}
	node, err := h.contentService.CreateFolder(ctx, p.Email, req.ParentId, req.StorageId, req.Name)
	if err != nil {
		return nil, handler.Status(ctx, err)
	}
	return toContentMessage(node), nil
}

func (h *ContentHandler) RemoveContent(ctx context.Context, req *driveproto.RemoveContentRequest) (*driveproto.Ok, error) {
	p, err := handler.Principal(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.contentService.Remove(ctx, p.Email, req.ContentId, req.Full); err != nil {
		return nil, handler.Status(ctx, err)
	}
	return &driveproto.Ok{Ok: true}, nil
}

func (h *ContentHandler) GetSpecialContentId(ctx context.Context, req *driveproto.SpecialContentRequest) (*driveproto.ContentIdRequest, error) {
	p, err := handler.Principal(ctx)
	if err != nil {
		return nil, err
	}
	var kind content.SpecialKind
	switch req.Kind {
	case driveproto.SpecialKind_HOME:
		kind = content.SpecialHome
	case driveproto.SpecialKind_TRASHCAN:
		kind = content.SpecialTrashcan
	default:
		return nil, status.Errorf(codes.Unknown, "unknown special content kind %d", req.Kind)
	}
	id, err := h.contentService.SpecialContentID(ctx, p.Email, kind)
	if err != nil {
		return nil, handler.Status(ctx, err)
	}
	return &driveproto.ContentIdRequest{ContentId: id}, nil
}

func (h *ContentHandler) GetDeletedContents(ctx context.Context, _ *emptypb.Empty) (*driveproto.ContentList, error) {
	p, err := handler.Principal(ctx)
	if err != nil {
		return nil, err
	}
	nodes, err := h.contentService.ListDeleted(ctx, p.Email)
	if err != nil {
		return nil, handler.Status(ctx, err)
	}
	return toContentList(nodes), nil
}

func (h *ContentHandler) CleanTrashCan(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	p, err := handler.Principal(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.contentService.CleanTrashCan(ctx, p.Email); err != nil {
		return nil, handler.Status(ctx, err)
	}
	return &emptypb.Empty{}, nil
}

func (h *ContentHandler) RecoveryContent(ctx context.Context, req *driveproto.ContentIdRequest) (*emptypb.Empty, error) {
	p, err := handler.Principal(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.contentService.Recover(ctx, p.Email, req.ContentId); err != nil {
		return nil, handler.Status(ctx, err)
	}
	return &emptypb.Empty{}, nil
}

func (h *ContentHandler) RenameContent(ctx context.Context, req *driveproto.RenameContentRequest) (*driveproto.Ok, error) {
	p, err := handler.Principal(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.contentService.Rename(ctx, p.Email, req.ContentId, req.NewName); err != nil {
		return nil, handler.Status(ctx, err)
	}
	return &driveproto.Ok{Ok: true}, nil
}

func toSortKey(s driveproto.SortBy) (content.SortKey, error) {
	switch s {
	case driveproto.SortBy_CREATED_AT:
		return content.SortByCreatedAt, nil
	case driveproto.SortBy_NAME:
		return content.SortByName, nil
	case driveproto.SortBy_SIZE:
		return content.SortBySize, nil
	}
	return 0, status.Errorf(codes.Unknown, "unknown sort key %d", s)
}

func toContentMessage(c *content.Content) *driveproto.Content {
	t := driveproto.ContentType_FILE
	if c.IsFolder() {
		t = driveproto.ContentType_FOLDER
	}
	return &driveproto.Content{
		Id:        c.ID,
		Name:      c.Name,
		Path:      c.Path,
		Size:      c.Size,
		Type:      t,
		State:     c.State.String(),
		ParentId:  c.ParentID,
		StorageId: c.StorageID,
		IsDeleted: c.IsDeleted,
		CreatedAt: handler.Timestamp(c.CreatedAt),
	}
}

func toContentList(nodes []*content.Content) *driveproto.ContentList {
	list := &driveproto.ContentList{Contents: make([]*driveproto.Content, 0, len(nodes))}
	for _, n := range nodes {
		list.Contents = append(list.Contents, toContentMessage(n))
	}
	return list
}
