package driveproto

import "google.golang.org/protobuf/types/known/timestamppb"

type Ok struct {
	Ok bool `json:"ok"`
}

// auth

type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshTokenRequest struct {
	UserId       int64  `json:"user_id"`
	RefreshToken string `json:"refresh_token"`
}

type TokenResponse struct {
	UserId       int64  `json:"user_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// users

type Profile struct {
	Id        int64                  `json:"id"`
	Email     string                 `json:"email"`
	Name      string                 `json:"name"`
	StorageId int64                  `json:"storage_id"`
	Quota     int64                  `json:"quota"`
	Used      int64                  `json:"used"`
	CreatedAt *timestamppb.Timestamp `json:"created_at"`
}

// contents

type ContentType int32

const (
	ContentType_FILE ContentType = iota
	ContentType_FOLDER
)

type SortBy int32

const (
	SortBy_CREATED_AT SortBy = iota
	SortBy_NAME
	SortBy_SIZE
)

type SpecialKind int32

const (
	SpecialKind_HOME SpecialKind = iota
	SpecialKind_TRASHCAN
)

type Content struct {
	Id        int64                  `json:"id"`
	Name      string                 `json:"name"`
	Path      string                 `json:"path"`
	Size      int64                  `json:"size"`
	Type      ContentType            `json:"type"`
	State     string                 `json:"state"`
	ParentId  *int64                 `json:"parent_id,omitempty"`
	StorageId int64                  `json:"storage_id"`
	IsDeleted bool                   `json:"is_deleted"`
	CreatedAt *timestamppb.Timestamp `json:"created_at"`
}

type ContentList struct {
	Contents []*Content `json:"contents"`
}

type ContentIdRequest struct {
	ContentId int64 `json:"content_id"`
}

type ChildrenRequest struct {
	ContentId int64  `json:"content_id"`
	SortBy    SortBy `json:"sort_by"`
}

type StorageRequest struct {
	StorageId int64 `json:"storage_id"`
}

// NewFolderRequest: без ParentId папка создаётся в home хранилища StorageId.
type NewFolderRequest struct {
	ParentId  *int64 `json:"parent_id,omitempty"`
	StorageId int64  `json:"storage_id"`
	Name      string `json:"name"`
}

type RemoveContentRequest struct {
	ContentId int64 `json:"content_id"`
	Full      bool  `json:"full"`
}

type SpecialContentRequest struct {
	Kind SpecialKind `json:"kind"`
}

type RenameContentRequest struct {
	ContentId int64  `json:"content_id"`
	NewName   string `json:"new_name"`
}

// file transfer

type TransferAction int32

const (
	TransferAction_START TransferAction = iota
	TransferAction_FINISH
)

type StartReceivingRequest struct {
	StorageId int64  `json:"storage_id"`
	ParentId  *int64 `json:"parent_id,omitempty"`
	Name      string `json:"name"`
	Type      string `json:"type"`
}

type StartReceivingResponse struct {
	FilePath  string `json:"file_path"`
	ContentId int64  `json:"content_id"`
}

type FileChunk struct {
	ContentId int64  `json:"content_id"`
	Data      []byte `json:"data"`
	FilePath  string `json:"file_path,omitempty"`
}

type FileFrame struct {
	Data      []byte `json:"data"`
	FileName  string `json:"file_name"`
	TotalSize int64  `json:"total_size"`
}

type StateChangeRequest struct {
	ContentId int64          `json:"content_id"`
	Action    TransferAction `json:"action"`
}

// billing

type ActivateRequest struct {
	Code int64 `json:"code"`
}

type GetAllPlansRequest struct {
	Max int32 `json:"max"`
}

type Plan struct {
	Id             int64  `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Price          int64  `json:"price"`
	AvailableQuote int64  `json:"available_quote"`
	AvailableSpeed int64  `json:"available_speed"`
	IsAvailable    bool   `json:"is_available"`
}

type PlanList struct {
	Plans []*Plan `json:"plans"`
}

type Subscription struct {
	Id        int64                  `json:"id"`
	Plan      *Plan                  `json:"plan"`
	StartedAt *timestamppb.Timestamp `json:"started_at"`
	FinishAt  *timestamppb.Timestamp `json:"finish_at"`
	IsActive  bool                   `json:"is_active"`
}
