package contentService

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"clouddrive/internal/apperr"
	"clouddrive/internal/blobstore"
	"clouddrive/internal/model/account"
	"clouddrive/internal/model/content"
	"clouddrive/pkg/logger"

	"go.uber.org/zap"
)

type ContentRepository interface {
	Create(ctx context.Context, c *content.Content) error
	GetByID(ctx context.Context, id int64) (*content.Content, error)
	FindLiveByPath(ctx context.Context, storageID int64, path string) (*content.Content, error)
	ListChildren(ctx context.Context, parentID int64, sort content.SortKey) ([]*content.Content, error)
	ListByStorage(ctx context.Context, storageID int64) ([]*content.Content, error)
	ListDeleted(ctx context.Context, storageID int64) ([]*content.Content, error)
	ListSubtree(ctx context.Context, rootID int64) ([]*content.Content, error)
	ListExpiredTrash(ctx context.Context, before time.Time) ([]*content.Content, error)
	SetDeleted(ctx context.Context, ids []int64, deleted bool, at *time.Time) error
	Rename(ctx context.Context, id int64, name, path string) error
	DeleteMany(ctx context.Context, ids []int64) error
}

type Guard interface {
	Resolve(ctx context.Context, email string) (*account.Storage, error)
	AuthorizeStorage(ctx context.Context, storageID int64, email string) (*account.Storage, error)
	AuthorizeContent(ctx context.Context, contentID int64, email string) (*content.Content, *account.Storage, error)
}

type Quota interface {
	Release(ctx context.Context, storageID, delta int64) error
}

type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type ContentService struct {
	contents ContentRepository
	guard    Guard
	quota    Quota
	tx       TxManager
	blobs    blobstore.Store
	now      func() time.Time
}

func New(contents ContentRepository, guard Guard, quota Quota, tx TxManager, blobs blobstore.Store) *ContentService {
	return &ContentService{
		contents: contents,
		guard:    guard,
		quota:    quota,
		tx:       tx,
		blobs:    blobs,
		now:      time.Now,
	}
}

// SetClock задаёт время, которым помечается пачка удаления.
func (s *ContentService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *ContentService) ListChildren(ctx context.Context, email string, contentID int64, sort content.SortKey) ([]*content.Content, error) {
	node, _, err := s.guard.AuthorizeContent(ctx, contentID, email)
	if err != nil {
		return nil, err
	}
	if node.IsDeleted {
		return nil, apperr.NotFound("Content not found")
	}
	children, err := s.contents.ListChildren(ctx, node.ID, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to list children: %w", err)
	}
	return children, nil
}

func (s *ContentService) ListByStorage(ctx context.Context, email string, storageID int64) ([]*content.Content, error) {
	if _, err := s.guard.AuthorizeStorage(ctx, storageID, email); err != nil {
		return nil, err
	}
	contents, err := s.contents.ListByStorage(ctx, storageID)
	if err != nil {
		return nil, fmt.Errorf("failed to list storage contents: %w", err)
	}
	return contents, nil
}

func (s *ContentService) ListDeleted(ctx context.Context, email string) ([]*content.Content, error) {
	storage, err := s.guard.Resolve(ctx, email)
	if err != nil {
		return nil, err
	}
	deleted, err := s.contents.ListDeleted(ctx, storage.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list deleted contents: %w", err)
	}
	return deleted, nil
}

// CreateFolder создаёт папку в parentID, а без него в home хранилища storageID.
func (s *ContentService) CreateFolder(ctx context.Context, email string, parentID *int64, storageID int64, name string) (*content.Content, error) {
	if name == "" {
		return nil, apperr.Unknown("Folder name can't be empty")
	}
	if !content.ValidName(name) {
		return nil, apperr.Aborted("You use forbidden characters in the name")
	}

	var (
		parent  *content.Content
		storage *account.Storage
		err     error
	)
	if parentID != nil {
		parent, storage, err = s.guard.AuthorizeContent(ctx, *parentID, email)
		if err != nil {
			return nil, err
		}
		if parent.IsDeleted {
			return nil, apperr.NotFound("Parent folder not found")
		}
		if !parent.IsFolder() {
			return nil, apperr.Aborted("Folder can be created only inside a folder")
		}
	} else {
		if storageID == 0 {
			storage, err = s.guard.Resolve(ctx, email)
		} else {
			storage, err = s.guard.AuthorizeStorage(ctx, storageID, email)
		}
		if err != nil {
			return nil, err
		}
		parent, err = s.contents.FindLiveByPath(ctx, storage.ID, content.HomePath)
		if err != nil {
			return nil, fmt.Errorf("failed to get home folder: %w", err)
		}
	}

	folderPath := content.ChildPath(parent, name)
	existing, err := s.contents.FindLiveByPath(ctx, storage.ID, folderPath)
	if err != nil {
		return nil, fmt.Errorf("failed to check folder path: %w", err)
	}
	if existing != nil {
		return nil, apperr.AlreadyExists("Content with this name already exists")
	}

	folder := &content.Content{
		StorageID: storage.ID,
		Type:      content.TypeFolder,
		State:     content.StateReady,
		Name:      name,
		Path:      folderPath,
	}
	if parent != nil {
		folder.ParentID = &parent.ID
	}
	if err := s.contents.Create(ctx, folder); err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}

	if err := s.blobs.EnsureDir(ctx, path.Join(content.StorageDir(storage.ID), folderPath)); err != nil {
		logger.GetLogger(ctx).Warn("failed to create folder directory", zap.Int64("content_id", folder.ID), zap.Error(err))
	}
	return folder, nil
}

// Remove переносит узел с поддеревом в корзину, а при full удаляет насовсем и освобождает квоту.
func (s *ContentService) Remove(ctx context.Context, email string, contentID int64, full bool) error {
	node, _, err := s.guard.AuthorizeContent(ctx, contentID, email)
	if err != nil {
		return err
	}
	if node.ParentID == nil {
		return apperr.Aborted("Home folder can't be removed")
	}
	if node.IsDeleted && !full {
		return nil
	}

	subtree, err := s.contents.ListSubtree(ctx, node.ID)
	if err != nil {
		return fmt.Errorf("failed to load subtree: %w", err)
	}
	t := newTree(node.ID, subtree)

	var scope []*content.Content
	if full {
		scope = t.postOrder()
	} else {
		scope = t.collect(func(n *content.Content) bool { return !n.IsDeleted })
	}
	for _, n := range scope {
		if !n.IsFolder() && n.State != content.StateReady {
			return apperr.Aborted("The file %s is busy, try again later", n.Name)
		}
	}

	if full {
		return s.Purge(ctx, scope)
	}

	at := s.now().UTC().Truncate(time.Microsecond)
	ids := make([]int64, 0, len(scope))
	for _, n := range scope {
		ids = append(ids, n.ID)
	}
	if err := s.contents.SetDeleted(ctx, ids, true, &at); err != nil {
		return fmt.Errorf("failed to move content to trash: %w", err)
	}
	return nil
}

// CleanTrashCan удаляет насовсем всё из корзины. Заряженные размеры возвращаются в квоту.
func (s *ContentService) CleanTrashCan(ctx context.Context, email string) error {
	storage, err := s.guard.Resolve(ctx, email)
	if err != nil {
		return err
	}
	deleted, err := s.contents.ListDeleted(ctx, storage.ID)
	if err != nil {
		return fmt.Errorf("failed to list deleted contents: %w", err)
	}
	return s.Purge(ctx, deleted)
}

// Recover достаёт узел из корзины. Папка возвращается вместе с тем, что удалялось с ней одной пачкой,
// удалённые родители восстанавливаются вверх до первого живого.
func (s *ContentService) Recover(ctx context.Context, email string, contentID int64) error {
	node, _, err := s.guard.AuthorizeContent(ctx, contentID, email)
	if err != nil {
		return err
	}
	if !node.IsDeleted {
		return apperr.Unknown("Content is not deleted")
	}
	if err := s.checkRestorable(ctx, node); err != nil {
		return err
	}

	restore := []*content.Content{node}
	if node.IsFolder() {
		subtree, err := s.contents.ListSubtree(ctx, node.ID)
		if err != nil {
			return fmt.Errorf("failed to load subtree: %w", err)
		}
		batch := newTree(node.ID, subtree).collect(func(n *content.Content) bool {
			return n.IsDeleted && sameBatch(n.DeletedAt, node.DeletedAt)
		})
		restore = append(restore, batch[1:]...)
	}

	parentID := node.ParentID
	for parentID != nil {
		parent, err := s.contents.GetByID(ctx, *parentID)
		if err != nil {
			return fmt.Errorf("failed to get parent: %w", err)
		}
		if parent == nil || !parent.IsDeleted || !parent.IsFolder() {
			break
		}
		if err := s.checkRestorable(ctx, parent); err != nil {
			return err
		}
		restore = append(restore, parent)
		parentID = parent.ParentID
	}

	ids := make([]int64, 0, len(restore))
	for _, n := range restore {
		ids = append(ids, n.ID)
	}
	if err := s.contents.SetDeleted(ctx, ids, false, nil); err != nil {
		return fmt.Errorf("failed to recover content: %w", err)
	}
	return nil
}

func (s *ContentService) checkRestorable(ctx context.Context, n *content.Content) error {
	live, err := s.contents.FindLiveByPath(ctx, n.StorageID, n.Path)
	if err != nil {
		return fmt.Errorf("failed to check path: %w", err)
	}
	if live != nil {
		return apperr.Cancelled("Content with path %s already exists", n.Path)
	}
	return nil
}

func sameBatch(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// Rename переименовывает файл и переносит его байты. Папки не переименовываются.
func (s *ContentService) Rename(ctx context.Context, email string, contentID int64, newName string) error {
	node, err := s.contents.GetByID(ctx, contentID)
	if err != nil {
		return fmt.Errorf("failed to get content: %w", err)
	}
	if node == nil {
		return apperr.NotFound("Content not found")
	}
	if node.IsFolder() {
		return apperr.Aborted("Folder can't be renamed")
	}
	if _, err := s.guard.AuthorizeStorage(ctx, node.StorageID, email); err != nil {
		return err
	}
	if node.IsDeleted {
		return apperr.NotFound("Content not found")
	}
	if node.State != content.StateReady {
		return apperr.Aborted("The file is busy, try again later")
	}
	if newName == "" {
		return apperr.Unknown("Name can't be empty")
	}
	if !content.ValidName(newName) {
		return apperr.Aborted("You use forbidden characters in the name")
	}
	if newName == node.Name {
		return nil
	}

	newPath := node.SiblingPath(newName)
	existing, err := s.contents.FindLiveByPath(ctx, node.StorageID, newPath)
	if err != nil {
		return fmt.Errorf("failed to check path: %w", err)
	}
	if existing != nil {
		return apperr.AlreadyExists("Content with this name already exists")
	}

	renamed := *node
	renamed.Name = newName
	renamed.Path = newPath
	oldKey, newKey := node.ObjectKey(), renamed.ObjectKey()

	if err := s.blobs.Move(ctx, oldKey, newKey); err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return apperr.Aborted("File data is lost")
		}
		return fmt.Errorf("failed to move file data: %w", err)
	}
	if err := s.contents.Rename(ctx, node.ID, newName, newPath); err != nil {
		if moveErr := s.blobs.Move(context.WithoutCancel(ctx), newKey, oldKey); moveErr != nil {
			logger.GetLogger(ctx).Error("failed to move file data back after rename failure",
				zap.Int64("content_id", node.ID), zap.String("key", newKey), zap.Error(moveErr))
		}
		return fmt.Errorf("failed to rename content: %w", err)
	}
	return nil
}

func (s *ContentService) SpecialContentID(ctx context.Context, email string, kind content.SpecialKind) (int64, error) {
	storage, err := s.guard.Resolve(ctx, email)
	if err != nil {
		return 0, err
	}
	node, err := s.contents.FindLiveByPath(ctx, storage.ID, kind.Path())
	if err != nil {
		return 0, fmt.Errorf("failed to find special content: %w", err)
	}
	if node == nil {
		return 0, apperr.NotFound("Content not found")
	}
	return node.ID, nil
}

// PurgeExpiredTrash удаляет насовсем то, что лежит в корзине дольше before.
func (s *ContentService) PurgeExpiredTrash(ctx context.Context, before time.Time) (int, error) {
	expired, err := s.contents.ListExpiredTrash(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("failed to list expired trash: %w", err)
	}
	if err := s.Purge(ctx, expired); err != nil {
		return 0, err
	}
	return len(expired), nil
}

// Purge удаляет строки и возвращает в квоту размеры с quota_charged одной транзакцией.
// Байты удаляются после коммита, ошибки удаления только логируются.
func (s *ContentService) Purge(ctx context.Context, nodes []*content.Content) error {
	if len(nodes) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(nodes))
	released := make(map[int64]int64)
	for _, n := range nodes {
		ids = append(ids, n.ID)
		if n.QuotaCharged {
			released[n.StorageID] += n.Size
		}
	}

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.contents.DeleteMany(ctx, ids); err != nil {
			return fmt.Errorf("failed to delete contents: %w", err)
		}
		for storageID, size := range released {
			if err := s.quota.Release(ctx, storageID, size); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log := logger.GetLogger(ctx)
	for _, n := range nodes {
		if n.IsFolder() {
			continue
		}
		if err := s.blobs.Remove(ctx, n.ObjectKey()); err != nil {
			log.Warn("failed to remove file data", zap.Int64("content_id", n.ID), zap.String("key", n.ObjectKey()), zap.Error(err))
		}
	}
	return nil
}
