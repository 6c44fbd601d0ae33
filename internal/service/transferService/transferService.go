package transferService

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"clouddrive/internal/apperr"
	"clouddrive/internal/blobstore"
	"clouddrive/internal/model/account"
	"clouddrive/internal/model/content"
	"clouddrive/internal/service/quotaService"
	"clouddrive/pkg/logger"
	"clouddrive/pkg/metrics"

	"go.uber.org/zap"
)

const connectionLost = "Connection error! Upload file again"

var (
	errWrongContent     = apperr.NotFound("Content Id is wrong!")
	errNotReady         = apperr.Aborted("The file is not ready for download!")
	errAlreadyReceiving = apperr.Aborted("The file is already being received")
	errIdleTimeout      = errors.New("no chunk received within idle timeout")
	staleUploadStates   = []content.State{content.StateNone, content.StateUploading}
)

type ContentRepository interface {
	Create(ctx context.Context, c *content.Content) error
	GetByID(ctx context.Context, id int64) (*content.Content, error)
	FirstByStorage(ctx context.Context, storageID int64) (*content.Content, error)
	FindLiveByPath(ctx context.Context, storageID int64, path string) (*content.Content, error)
	ListStale(ctx context.Context, states []content.State, before time.Time) ([]*content.Content, error)
	CompareAndSetState(ctx context.Context, id int64, from, to content.State) (bool, error)
	SetSize(ctx context.Context, id int64, size int64, charged bool) error
	DeleteMany(ctx context.Context, ids []int64) error
}

type SessionStore interface {
	Save(ctx context.Context, s *content.UploadSession, ttl time.Duration) error
	Get(ctx context.Context, contentID int64) (*content.UploadSession, error)
	Claim(ctx context.Context, contentID int64, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, contentID int64) error
}

type Guard interface {
	AuthorizeStorage(ctx context.Context, storageID int64, email string) (*account.Storage, error)
	AuthorizeContent(ctx context.Context, contentID int64, email string) (*content.Content, *account.Storage, error)
}

type Quota interface {
	CheckAndReserve(ctx context.Context, storageID, delta int64) error
}

// Purger удаляет узлы насовсем с возвратом квоты.
type Purger interface {
	Purge(ctx context.Context, nodes []*content.Content) error
}

type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Options struct {
	ChunkSize   int
	IdleTimeout time.Duration
	UploadTTL   time.Duration
}

// Chunk - кусок загружаемого файла.
type Chunk struct {
	ContentID int64
	Data      []byte
}

// ChunkReceiver отдаёт следующий кусок или io.EOF, когда клиент закончил поток.
type ChunkReceiver func() (*Chunk, error)

// Frame - кусок скачиваемого файла.
type Frame struct {
	Data      []byte
	FileName  string
	TotalSize int64
}

type FrameSender func(*Frame) error

type Action int32

const (
	ActionStart Action = iota
	ActionFinish
)

type TransferService struct {
	contents ContentRepository
	sessions SessionStore
	guard    Guard
	quota    Quota
	purger   Purger
	tx       TxManager
	blobs    blobstore.Store
	metrics  *metrics.Metrics
	opts     Options
	now      func() time.Time
}

func New(
	contents ContentRepository,
	sessions SessionStore,
	guard Guard,
	quota Quota,
	purger Purger,
	tx TxManager,
	blobs blobstore.Store,
	m *metrics.Metrics,
	opts Options,
) *TransferService {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 1 << 20
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = 2 * time.Minute
	}
	if opts.UploadTTL <= 0 {
		opts.UploadTTL = 24 * time.Hour
	}
	return &TransferService{
		contents: contents,
		sessions: sessions,
		guard:    guard,
		quota:    quota,
		purger:   purger,
		tx:       tx,
		blobs:    blobs,
		metrics:  m,
		opts:     opts,
		now:      time.Now,
	}
}

// StartUpload заводит узел в состоянии Uploading и сессию загрузки. При совпадении имени
// подбирается свободный суффикс " (n)".
func (s *TransferService) StartUpload(ctx context.Context, email string, storageID int64, parentID *int64, name, ext string) (*content.Content, error) {
	storage, err := s.guard.AuthorizeStorage(ctx, storageID, email)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, apperr.Unknown("File name can't be empty")
	}
	if !content.ValidName(name) || (ext != "" && !content.ValidName(ext)) {
		return nil, apperr.Aborted("You use forbidden characters in the name")
	}

	parent, err := s.resolveParent(ctx, storage.ID, parentID)
	if err != nil {
		return nil, err
	}

	var fileName, filePath string
	for n := 0; ; n++ {
		fileName = content.FileName(name, ext, n)
		filePath = content.ChildPath(parent, fileName)
		existing, err := s.contents.FindLiveByPath(ctx, storage.ID, filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to check file path: %w", err)
		}
		if existing == nil {
			break
		}
	}

	node := &content.Content{
		StorageID: storage.ID,
		Type:      content.TypeFile,
		State:     content.StateUploading,
		Name:      fileName,
		Path:      filePath,
	}
	if parent != nil {
		node.ParentID = &parent.ID
	}
	if err := s.contents.Create(ctx, node); err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	log := logger.GetLogger(ctx).With(zap.Int64("content_id", node.ID))
	if err := s.blobs.EnsureDir(ctx, path.Dir(node.ObjectKey())); err != nil {
		log.Warn("failed to create file directory", zap.Error(err))
	}

	session := &content.UploadSession{
		ContentID:  node.ID,
		StorageID:  storage.ID,
		OwnerEmail: email,
		ObjectKey:  node.ObjectKey(),
		StartedAt:  s.now(),
	}
	if err := s.sessions.Save(ctx, session, s.opts.UploadTTL); err != nil {
		if delErr := s.contents.DeleteMany(context.WithoutCancel(ctx), []int64{node.ID}); delErr != nil {
			log.Error("failed to delete file after session failure", zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to save upload session: %w", err)
	}
	return node, nil
}

func (s *TransferService) resolveParent(ctx context.Context, storageID int64, parentID *int64) (*content.Content, error) {
	if parentID == nil {
		first, err := s.contents.FirstByStorage(ctx, storageID)
		if err != nil {
			return nil, fmt.Errorf("failed to get default parent: %w", err)
		}
		if first == nil || !first.IsFolder() {
			return nil, nil
		}
		return first, nil
	}
	parent, err := s.contents.GetByID(ctx, *parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get parent: %w", err)
	}
	if parent == nil || parent.IsDeleted || parent.StorageID != storageID {
		return nil, apperr.NotFound("Parent folder not found")
	}
	if !parent.IsFolder() {
		return nil, apperr.Aborted("File can be uploaded only into a folder")
	}
	return parent, nil
}

// ReceiveChunks пишет поток кусков в хранилище и списывает размер с квоты после полного приёма.
// Обрыв, таймаут или нехватка места откатывают узел вместе с байтами.
func (s *TransferService) ReceiveChunks(ctx context.Context, email string, recv ChunkReceiver) error {
	first, err := s.next(ctx, recv)
	if errors.Is(err, io.EOF) {
		return apperr.Aborted("No data received")
	}
	if err != nil {
		return apperr.Wrap(apperr.KindAborted, err, connectionLost)
	}

	session, err := s.sessions.Get(ctx, first.ContentID)
	if err != nil {
		return fmt.Errorf("failed to get upload session: %w", err)
	}
	if session == nil {
		return errWrongContent
	}
	if session.OwnerEmail != email {
		return apperr.PermissionDenied("Access denied!")
	}
	if session.Received {
		return apperr.Aborted("The file is already received")
	}
	// второй поток на ту же сессию не должен писать байты и списывать квоту ещё раз
	claimed, err := s.sessions.Claim(ctx, session.ContentID, s.opts.UploadTTL)
	if err != nil {
		return err
	}
	if !claimed {
		s.metrics.UploadRejected("duplicate")
		return errAlreadyReceiving
	}

	log := logger.GetLogger(ctx).With(zap.Int64("content_id", session.ContentID))
	node, err := s.contents.GetByID(ctx, session.ContentID)
	if err != nil {
		return fmt.Errorf("failed to get content: %w", err)
	}
	if node == nil || node.State != content.StateUploading {
		if err := s.sessions.Delete(ctx, session.ContentID); err != nil {
			log.Warn("failed to delete orphan session", zap.Error(err))
		}
		return errWrongContent
	}

	w, err := s.blobs.Create(ctx, session.ObjectKey)
	if err != nil {
		s.rollback(ctx, nil, session, err)
		return fmt.Errorf("failed to open file for writing: %w", err)
	}

	var total int64
	chunk := first
	for {
		if chunk.ContentID != session.ContentID {
			s.rollback(ctx, w, session, errors.New("chunk for another content"))
			s.metrics.UploadRejected("mixed")
			return apperr.Aborted("Chunks of different files in one stream")
		}
		n, err := w.Write(chunk.Data)
		total += int64(n)
		if err != nil {
			s.rollback(ctx, w, session, err)
			return fmt.Errorf("failed to write chunk: %w", err)
		}

		chunk, err = s.next(ctx, recv)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			s.rollback(ctx, w, session, err)
			if errors.Is(err, errIdleTimeout) {
				s.metrics.UploadRejected("timeout")
				return apperr.Wrap(apperr.KindAborted, err, "Upload timed out! Upload file again")
			}
			s.metrics.UploadRejected("connection")
			return apperr.Wrap(apperr.KindAborted, err, connectionLost)
		}
	}

	if err := w.Close(); err != nil {
		s.rollback(ctx, nil, session, err)
		return fmt.Errorf("failed to commit file: %w", err)
	}

	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.quota.CheckAndReserve(ctx, session.StorageID, total); err != nil {
			return err
		}
		return s.contents.SetSize(ctx, session.ContentID, total, true)
	})
	if err != nil {
		s.rollback(ctx, nil, session, err)
		if errors.Is(err, quotaService.ErrInsufficientSpace) {
			s.metrics.UploadRejected("quota")
			return err
		}
		return fmt.Errorf("failed to account upload: %w", err)
	}

	session.Received = true
	session.Size = total
	if err := s.sessions.Save(ctx, session, s.opts.UploadTTL); err != nil {
		return fmt.Errorf("failed to update upload session: %w", err)
	}
	s.metrics.AddUploaded(total)
	log.Info("file received", zap.Int64("size", total))
	return nil
}

// next ждёт кусок не дольше IdleTimeout.
func (s *TransferService) next(ctx context.Context, recv ChunkReceiver) (*Chunk, error) {
	type result struct {
		chunk *Chunk
		err   error
	}
	ch := make(chan result, 1)
	go func() {
		c, err := recv()
		ch <- result{c, err}
	}()

	timer := time.NewTimer(s.opts.IdleTimeout)
	defer timer.Stop()
	select {
	case r := <-ch:
		if r.err == nil && r.chunk == nil {
			return nil, io.EOF
		}
		return r.chunk, r.err
	case <-timer.C:
		return nil, errIdleTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// rollback удаляет недозагруженный узел, его байты и сессию. Работает и после отмены контекста потока.
func (s *TransferService) rollback(ctx context.Context, w blobstore.Writer, session *content.UploadSession, cause error) {
	ctx = context.WithoutCancel(ctx)
	log := logger.GetLogger(ctx).With(zap.Int64("content_id", session.ContentID))
	log.Warn("rolling back upload", zap.Error(cause))

	if w != nil {
		w.Abort(cause)
	} else if err := s.blobs.Remove(ctx, session.ObjectKey); err != nil {
		log.Error("failed to remove uploaded data", zap.Error(err))
	}
	if err := s.contents.DeleteMany(ctx, []int64{session.ContentID}); err != nil {
		log.Error("failed to delete uploading file", zap.Error(err))
	}
	if err := s.sessions.Delete(ctx, session.ContentID); err != nil {
		log.Error("failed to delete upload session", zap.Error(err))
	}
}

func (s *TransferService) FinishUpload(ctx context.Context, email string, contentID int64) error {
	node, _, err := s.guard.AuthorizeContent(ctx, contentID, email)
	if err != nil {
		return err
	}
	if node.IsFolder() || node.State != content.StateUploading {
		return apperr.Aborted("The file is not uploading")
	}
	session, err := s.sessions.Get(ctx, contentID)
	if err != nil {
		return fmt.Errorf("failed to get upload session: %w", err)
	}
	if session == nil || !session.Received {
		return apperr.Aborted("The file data is not received yet")
	}

	ok, err := s.contents.CompareAndSetState(ctx, contentID, content.StateUploading, content.StateReady)
	if err != nil {
		return fmt.Errorf("failed to finish upload: %w", err)
	}
	if !ok {
		return apperr.Aborted("The file is not uploading")
	}
	if err := s.sessions.Delete(ctx, contentID); err != nil {
		logger.GetLogger(ctx).Warn("failed to delete upload session", zap.Int64("content_id", contentID), zap.Error(err))
	}
	return nil
}

// SetTransferState: Start переводит Ready в Downloading, Finish возвращает Downloading в Ready.
func (s *TransferService) SetTransferState(ctx context.Context, email string, contentID int64, action Action) error {
	node, _, err := s.guard.AuthorizeContent(ctx, contentID, email)
	if err != nil {
		return err
	}
	if node.IsDeleted {
		return apperr.NotFound("Content not found")
	}

	switch action {
	case ActionStart:
		if node.IsFolder() {
			return apperr.Aborted("Folder can't be downloaded")
		}
		ok, err := s.contents.CompareAndSetState(ctx, contentID, content.StateReady, content.StateDownloading)
		if err != nil {
			return fmt.Errorf("failed to change state: %w", err)
		}
		if !ok {
			return errNotReady
		}
	case ActionFinish:
		// только из Downloading: иначе Finish сделал бы Uploading файл готовым в обход FinishUpload
		if _, err := s.contents.CompareAndSetState(ctx, contentID, content.StateDownloading, content.StateReady); err != nil {
			return fmt.Errorf("failed to change state: %w", err)
		}
	default:
		return apperr.Unknown("Unknown state change %d", action)
	}
	return nil
}

// SendFileChunks отдаёт файл кадрами по ChunkSize. После выхода файл снова Ready.
func (s *TransferService) SendFileChunks(ctx context.Context, email string, contentID int64, send FrameSender) error {
	node, _, err := s.guard.AuthorizeContent(ctx, contentID, email)
	if err != nil {
		return err
	}
	if node.IsDeleted {
		return apperr.NotFound("Content not found")
	}
	if node.IsFolder() {
		return apperr.Aborted("Folder can't be downloaded")
	}
	if node.State != content.StateDownloading {
		return errNotReady
	}

	log := logger.GetLogger(ctx).With(zap.Int64("content_id", node.ID))
	defer func() {
		if _, err := s.contents.CompareAndSetState(context.WithoutCancel(ctx), node.ID, content.StateDownloading, content.StateReady); err != nil {
			log.Error("failed to reset file state", zap.Error(err))
		}
	}()

	r, size, err := s.blobs.Open(ctx, node.ObjectKey())
	if errors.Is(err, blobstore.ErrNotFound) {
		return apperr.Aborted("File data is lost")
	}
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer r.Close()

	buf := make([]byte, s.opts.ChunkSize)
	var sent int64
	for {
		n, err := io.ReadFull(r, buf)
		if n > 0 {
			if sendErr := send(&Frame{Data: buf[:n], FileName: node.Name, TotalSize: size}); sendErr != nil {
				return apperr.Wrap(apperr.KindAborted, sendErr, connectionLost)
			}
			sent += int64(n)
		}
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
	}
	s.metrics.AddDownloaded(sent)
	return nil
}

// ReapStaleUploads удаляет файлы, застрявшие в None/Uploading дольше before, с их сессиями.
func (s *TransferService) ReapStaleUploads(ctx context.Context, before time.Time) (int, error) {
	stale, err := s.contents.ListStale(ctx, staleUploadStates, before)
	if err != nil {
		return 0, fmt.Errorf("failed to list stale uploads: %w", err)
	}
	if err := s.purger.Purge(ctx, stale); err != nil {
		return 0, err
	}
	for _, n := range stale {
		if err := s.sessions.Delete(ctx, n.ID); err != nil {
			logger.GetLogger(ctx).Warn("failed to delete upload session", zap.Int64("content_id", n.ID), zap.Error(err))
		}
	}
	return len(stale), nil
}
