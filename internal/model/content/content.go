package content

import (
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"
)

const (
	HomePath     = "home"
	TrashcanPath = "trashcan"
)

var forbiddenName = regexp.MustCompile(`[\\/:*?"<>|]`)

type Type int32

const (
	TypeFile Type = iota
	TypeFolder
)

func (t Type) String() string {
	if t == TypeFolder {
		return "Folder"
	}
	return "File"
}

type State int32

const (
	StateNone State = iota
	StateUploading
	StateDownloading
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUploading:
		return "Uploading"
	case StateDownloading:
		return "Downloading"
	case StateReady:
		return "Ready"
	default:
		return "None"
	}
}

type SortKey int32

const (
	SortByCreatedAt SortKey = iota
	SortByName
	SortBySize
)

type SpecialKind int32

const (
	SpecialHome SpecialKind = iota
	SpecialTrashcan
)

func (k SpecialKind) Path() string {
	if k == SpecialTrashcan {
		return TrashcanPath
	}
	return HomePath
}

type Content struct {
	ID           int64      `json:"id"`
	StorageID    int64      `json:"storage_id"`
	ParentID     *int64     `json:"parent_id"`
	Type         Type       `json:"type"`
	State        State      `json:"state"`
	Name         string     `json:"name"`
	Path         string     `json:"path"`
	Size         int64      `json:"size"`
	QuotaCharged bool       `json:"quota_charged"`
	IsDeleted    bool       `json:"is_deleted"`
	DeletedAt    *time.Time `json:"deleted_at"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (c *Content) IsFolder() bool {
	return c.Type == TypeFolder
}

// ObjectKey - ключ байтов файла в хранилище. Повторяет логический путь, id в имени
// не даёт новой загрузке затереть байты удалённого в корзину файла с тем же путём.
func (c *Content) ObjectKey() string {
	return path.Join(StorageDir(c.StorageID), path.Dir(c.Path), fmt.Sprintf("%d_%s", c.ID, c.Name))
}

func StorageDir(storageID int64) string {
	return fmt.Sprintf("storage%d", storageID)
}

// ChildPath строит путь ребёнка. Без родителя путь начинается от home.
func ChildPath(parent *Content, name string) string {
	if parent == nil {
		return HomePath + "/" + name
	}
	return parent.Path + "/" + name
}

// SiblingPath - путь соседа с другим именем.
func (c *Content) SiblingPath(name string) string {
	return path.Dir(c.Path) + "/" + name
}

// ValidName - имя одного сегмента пути. "." и ".." запрещены: path.Join в ObjectKey
// схлопнул бы их и увёл ключ из каталога хранилища.
func ValidName(name string) bool {
	switch strings.TrimSpace(name) {
	case "", ".", "..":
		return false
	}
	return !forbiddenName.MatchString(name)
}

// FileName склеивает имя и расширение, n > 0 добавляет суффикс " (n)" перед расширением.
func FileName(name, ext string, n int) string {
	if n > 0 {
		name = fmt.Sprintf("%s (%d)", name, n)
	}
	if ext == "" {
		return name
	}
	return name + "." + ext
}

// UploadSession живёт от StartReceivingFile до FinishReceivingFile или отката.
type UploadSession struct {
	ContentID  int64     `json:"content_id"`
	StorageID  int64     `json:"storage_id"`
	OwnerEmail string    `json:"owner_email"`
	ObjectKey  string    `json:"object_key"`
	Received   bool      `json:"received"`
	Size       int64     `json:"size"`
	StartedAt  time.Time `json:"started_at"`
}
