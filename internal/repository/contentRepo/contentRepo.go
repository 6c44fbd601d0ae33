package contentRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clouddrive/internal/model/content"
	"clouddrive/pkg/database/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const columns = `id, storage_id, parent_id, content_type, state, name, path, size, quota_charged, is_deleted, deleted_at, created_at`

type ContentRepository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *ContentRepository {
	return &ContentRepository{pool: pool}
}

func scanContent(row pgx.Row) (*content.Content, error) {
	var c content.Content
	err := row.Scan(&c.ID, &c.StorageID, &c.ParentID, &c.Type, &c.State, &c.Name, &c.Path,
		&c.Size, &c.QuotaCharged, &c.IsDeleted, &c.DeletedAt, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ContentRepository) queryOne(ctx context.Context, query string, args ...any) (*content.Content, error) {
	c, err := scanContent(postgres.Conn(ctx, r.pool).QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *ContentRepository) queryMany(ctx context.Context, query string, args ...any) ([]*content.Content, error) {
	rows, err := postgres.Conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contents []*content.Content
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		contents = append(contents, c)
	}
	return contents, rows.Err()
}

func (r *ContentRepository) Create(ctx context.Context, c *content.Content) error {
	err := postgres.Conn(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO contents (storage_id, parent_id, content_type, state, name, path, size)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		c.StorageID, c.ParentID, c.Type, c.State, c.Name, c.Path, c.Size).
		Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert content: %w", err)
	}
	return nil
}

func (r *ContentRepository) GetByID(ctx context.Context, id int64) (*content.Content, error) {
	return r.queryOne(ctx, `SELECT `+columns+` FROM contents WHERE id = $1`, id)
}

// FirstByStorage - самая первая запись юнита, обычно это home.
func (r *ContentRepository) FirstByStorage(ctx context.Context, storageID int64) (*content.Content, error) {
	return r.queryOne(ctx,
		`SELECT `+columns+` FROM contents WHERE storage_id = $1 AND NOT is_deleted ORDER BY id LIMIT 1`,
		storageID)
}

func (r *ContentRepository) FindLiveByPath(ctx context.Context, storageID int64, path string) (*content.Content, error) {
	return r.queryOne(ctx,
		`SELECT `+columns+` FROM contents WHERE storage_id = $1 AND path = $2 AND NOT is_deleted ORDER BY id LIMIT 1`,
		storageID, path)
}

func (r *ContentRepository) ListChildren(ctx context.Context, parentID int64, sort content.SortKey) ([]*content.Content, error) {
	order := "created_at DESC, id DESC"
	switch sort {
	case content.SortByName:
		order = "name, id"
	case content.SortBySize:
		order = "size, id"
	}
	return r.queryMany(ctx,
		`SELECT `+columns+` FROM contents WHERE parent_id = $1 AND NOT is_deleted ORDER BY `+order,
		parentID)
}

func (r *ContentRepository) ListByStorage(ctx context.Context, storageID int64) ([]*content.Content, error) {
	return r.queryMany(ctx,
		`SELECT `+columns+` FROM contents WHERE storage_id = $1 AND NOT is_deleted ORDER BY created_at DESC, id DESC`,
		storageID)
}

func (r *ContentRepository) ListDeleted(ctx context.Context, storageID int64) ([]*content.Content, error) {
	return r.queryMany(ctx,
		`SELECT `+columns+` FROM contents WHERE storage_id = $1 AND is_deleted ORDER BY deleted_at DESC, id DESC`,
		storageID)
}

// ListSubtree возвращает узел и всех его потомков независимо от is_deleted.
func (r *ContentRepository) ListSubtree(ctx context.Context, rootID int64) ([]*content.Content, error) {
	return r.queryMany(ctx,
		`WITH RECURSIVE subtree AS (
		     SELECT * FROM contents WHERE id = $1
		     UNION ALL
		     SELECT c.* FROM contents c JOIN subtree s ON c.parent_id = s.id
		 )
		 SELECT `+columns+` FROM subtree`,
		rootID)
}

func (r *ContentRepository) ListStale(ctx context.Context, states []content.State, before time.Time) ([]*content.Content, error) {
	codes := make([]int32, len(states))
	for i, s := range states {
		codes[i] = int32(s)
	}
	return r.queryMany(ctx,
		`SELECT `+columns+` FROM contents
		 WHERE content_type = $1 AND state = ANY($2) AND created_at < $3
		 ORDER BY id`,
		content.TypeFile, codes, before)
}

func (r *ContentRepository) ListExpiredTrash(ctx context.Context, before time.Time) ([]*content.Content, error) {
	return r.queryMany(ctx,
		`SELECT `+columns+` FROM contents WHERE is_deleted AND deleted_at < $1 ORDER BY id`,
		before)
}

func (r *ContentRepository) SetDeleted(ctx context.Context, ids []int64, deleted bool, at *time.Time) error {
	_, err := postgres.Conn(ctx, r.pool).Exec(ctx,
		`UPDATE contents SET is_deleted = $2, deleted_at = $3 WHERE id = ANY($1)`,
		ids, deleted, at)
	return err
}

func (r *ContentRepository) Rename(ctx context.Context, id int64, name, path string) error {
	_, err := postgres.Conn(ctx, r.pool).Exec(ctx,
		`UPDATE contents SET name = $2, path = $3 WHERE id = $1`,
		id, name, path)
	return err
}

// CompareAndSetState меняет состояние только если текущее равно from.
func (r *ContentRepository) CompareAndSetState(ctx context.Context, id int64, from, to content.State) (bool, error) {
	tag, err := postgres.Conn(ctx, r.pool).Exec(ctx,
		`UPDATE contents SET state = $3 WHERE id = $1 AND state = $2`,
		id, from, to)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *ContentRepository) SetSize(ctx context.Context, id int64, size int64, charged bool) error {
	_, err := postgres.Conn(ctx, r.pool).Exec(ctx,
		`UPDATE contents SET size = $2, quota_charged = $3 WHERE id = $1`,
		id, size, charged)
	return err
}

// DeleteMany удаляет строки одним запросом, поэтому порядок родитель/ребёнок не важен.
func (r *ContentRepository) DeleteMany(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := postgres.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM contents WHERE id = ANY($1)`, ids)
	return err
}
