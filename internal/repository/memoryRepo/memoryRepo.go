// Package memoryRepo держит все таблицы в памяти процесса. Используется при DB_DRIVER=memory и в тестах сервисов.
// WithTx откатывает тронутые строки по журналу, но не изолирует параллельные транзакции.
package memoryRepo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"clouddrive/internal/model/account"
	"clouddrive/internal/model/billing"
	"clouddrive/internal/model/content"
)

type DB struct {
	mu            sync.Mutex
	seq           int64
	users         map[int64]*account.User
	storages      map[int64]*account.Storage
	contents      map[int64]*content.Content
	plans         map[int64]*billing.Plan
	subscriptions map[int64]*billing.Subscription
	codes         map[int64]*billing.PurchaseCode
	now           func() time.Time
}

func New() *DB {
	return &DB{
		users:         make(map[int64]*account.User),
		storages:      make(map[int64]*account.Storage),
		contents:      make(map[int64]*content.Content),
		plans:         make(map[int64]*billing.Plan),
		subscriptions: make(map[int64]*billing.Subscription),
		codes:         make(map[int64]*billing.PurchaseCode),
		now:           time.Now,
	}
}

// SetClock подменяет время создания записей.
func (db *DB) SetClock(now func() time.Time) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.now = now
}

func (db *DB) nextID() int64 {
	db.seq++
	return db.seq
}

type txKey struct{}

// txLog - журнал отмены: прежние версии строк, тронутых внутри WithTx.
type txLog struct {
	undo []func()
}

// remember запоминает строку id до первого изменения в транзакции. Вызывать под db.mu.
func remember[T any](ctx context.Context, table map[int64]*T, id int64) {
	log, ok := ctx.Value(txKey{}).(*txLog)
	if !ok {
		return
	}
	if prev, ok := table[id]; ok {
		cp := *prev
		log.undo = append(log.undo, func() { table[id] = &cp })
		return
	}
	log.undo = append(log.undo, func() { delete(table, id) })
}

// WithTx при ошибке fn возвращает тронутые строки в прежнее состояние. Изоляции нет:
// чужие записи в те же строки между изменением и откатом будут потеряны.
func (db *DB) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, nested := ctx.Value(txKey{}).(*txLog); nested {
		return fn(ctx)
	}
	log := &txLog{}
	err := fn(context.WithValue(ctx, txKey{}, log))
	if err != nil {
		db.mu.Lock()
		for i := len(log.undo) - 1; i >= 0; i-- {
			log.undo[i]()
		}
		db.mu.Unlock()
	}
	return err
}

func (db *DB) Users() *UserRepo                 { return &UserRepo{db} }
func (db *DB) Storages() *StorageRepo           { return &StorageRepo{db} }
func (db *DB) Contents() *ContentRepo           { return &ContentRepo{db} }
func (db *DB) Plans() *PlanRepo                 { return &PlanRepo{db} }
func (db *DB) Subscriptions() *SubscriptionRepo { return &SubscriptionRepo{db} }
func (db *DB) Codes() *CodeRepo                 { return &CodeRepo{db} }

type UserRepo struct{ db *DB }

func (r *UserRepo) Create(ctx context.Context, u *account.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u.ID = r.db.nextID()
	remember(ctx, r.db.users, u.ID)
	u.CreatedAt = r.db.now()
	cp := *u
	r.db.users[u.ID] = &cp
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id int64) (*account.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if u, ok := r.db.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*account.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

type StorageRepo struct{ db *DB }

func (r *StorageRepo) view(s *account.Storage) *account.Storage {
	cp := *s
	if u, ok := r.db.users[s.UserID]; ok {
		cp.OwnerEmail = u.Email
	}
	return &cp
}

func (r *StorageRepo) Create(ctx context.Context, s *account.Storage) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s.ID = r.db.nextID()
	remember(ctx, r.db.storages, s.ID)
	cp := *s
	r.db.storages[s.ID] = &cp
	return nil
}

func (r *StorageRepo) GetByID(_ context.Context, id int64) (*account.Storage, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if s, ok := r.db.storages[id]; ok {
		return r.view(s), nil
	}
	return nil, nil
}

func (r *StorageRepo) GetByOwnerEmail(_ context.Context, email string) (*account.Storage, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, s := range r.db.storages {
		if u, ok := r.db.users[s.UserID]; ok && u.Email == email {
			return r.view(s), nil
		}
	}
	return nil, nil
}

func (r *StorageRepo) Reserve(ctx context.Context, id int64, delta int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.storages[id]
	if !ok || s.Used+delta > s.Quota {
		return false, nil
	}
	remember(ctx, r.db.storages, id)
	s.Used += delta
	return true, nil
}

func (r *StorageRepo) Release(ctx context.Context, id int64, delta int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if s, ok := r.db.storages[id]; ok {
		remember(ctx, r.db.storages, id)
		s.Used = max(0, s.Used-delta)
	}
	return nil
}

func (r *StorageRepo) SetQuota(ctx context.Context, id int64, quota int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.storages[id]
	if !ok {
		return errNotFound("storage", id)
	}
	remember(ctx, r.db.storages, id)
	s.Quota = quota
	return nil
}

type ContentRepo struct{ db *DB }

func clone(c *content.Content) *content.Content {
	cp := *c
	if c.ParentID != nil {
		id := *c.ParentID
		cp.ParentID = &id
	}
	if c.DeletedAt != nil {
		at := *c.DeletedAt
		cp.DeletedAt = &at
	}
	return &cp
}

func (r *ContentRepo) filter(keep func(c *content.Content) bool) []*content.Content {
	var out []*content.Content
	for _, c := range r.db.contents {
		if keep(c) {
			out = append(out, clone(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *ContentRepo) Create(ctx context.Context, c *content.Content) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c.ID = r.db.nextID()
	remember(ctx, r.db.contents, c.ID)
	c.CreatedAt = r.db.now()
	r.db.contents[c.ID] = clone(c)
	return nil
}

func (r *ContentRepo) GetByID(_ context.Context, id int64) (*content.Content, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if c, ok := r.db.contents[id]; ok {
		return clone(c), nil
	}
	return nil, nil
}

func (r *ContentRepo) FirstByStorage(_ context.Context, storageID int64) (*content.Content, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	found := r.filter(func(c *content.Content) bool { return c.StorageID == storageID && !c.IsDeleted })
	if len(found) == 0 {
		return nil, nil
	}
	return found[0], nil
}

func (r *ContentRepo) FindLiveByPath(_ context.Context, storageID int64, path string) (*content.Content, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	found := r.filter(func(c *content.Content) bool {
		return c.StorageID == storageID && c.Path == path && !c.IsDeleted
	})
	if len(found) == 0 {
		return nil, nil
	}
	return found[0], nil
}

func newestFirst(out []*content.Content) {
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
}

func (r *ContentRepo) ListChildren(_ context.Context, parentID int64, key content.SortKey) ([]*content.Content, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := r.filter(func(c *content.Content) bool {
		return c.ParentID != nil && *c.ParentID == parentID && !c.IsDeleted
	})
	switch key {
	case content.SortByName:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	case content.SortBySize:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Size < out[j].Size })
	default:
		newestFirst(out)
	}
	return out, nil
}

func (r *ContentRepo) ListByStorage(_ context.Context, storageID int64) ([]*content.Content, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := r.filter(func(c *content.Content) bool { return c.StorageID == storageID && !c.IsDeleted })
	newestFirst(out)
	return out, nil
}

func (r *ContentRepo) ListDeleted(_ context.Context, storageID int64) ([]*content.Content, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.filter(func(c *content.Content) bool { return c.StorageID == storageID && c.IsDeleted }), nil
}

func (r *ContentRepo) ListSubtree(_ context.Context, rootID int64) ([]*content.Content, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	root, ok := r.db.contents[rootID]
	if !ok {
		return nil, nil
	}
	out := []*content.Content{clone(root)}
	queue := []int64{rootID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, c := range r.filter(func(c *content.Content) bool { return c.ParentID != nil && *c.ParentID == id }) {
			out = append(out, c)
			queue = append(queue, c.ID)
		}
	}
	return out, nil
}

func (r *ContentRepo) ListStale(_ context.Context, states []content.State, before time.Time) ([]*content.Content, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.filter(func(c *content.Content) bool {
		if c.Type != content.TypeFile || !c.CreatedAt.Before(before) {
			return false
		}
		for _, s := range states {
			if c.State == s {
				return true
			}
		}
		return false
	}), nil
}

func (r *ContentRepo) ListExpiredTrash(_ context.Context, before time.Time) ([]*content.Content, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.filter(func(c *content.Content) bool {
		return c.IsDeleted && c.DeletedAt != nil && c.DeletedAt.Before(before)
	}), nil
}

func (r *ContentRepo) update(ctx context.Context, id int64, fn func(c *content.Content)) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if c, ok := r.db.contents[id]; ok {
		remember(ctx, r.db.contents, id)
		fn(c)
	}
}

func (r *ContentRepo) SetDeleted(ctx context.Context, ids []int64, deleted bool, at *time.Time) error {
	for _, id := range ids {
		r.update(ctx, id, func(c *content.Content) {
			c.IsDeleted = deleted
			c.DeletedAt = nil
			if at != nil {
				t := *at
				c.DeletedAt = &t
			}
		})
	}
	return nil
}

func (r *ContentRepo) Rename(ctx context.Context, id int64, name, path string) error {
	r.update(ctx, id, func(c *content.Content) {
		c.Name = name
		c.Path = path
	})
	return nil
}

func (r *ContentRepo) CompareAndSetState(ctx context.Context, id int64, from, to content.State) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.contents[id]
	if !ok || c.State != from {
		return false, nil
	}
	remember(ctx, r.db.contents, id)
	c.State = to
	return true, nil
}

func (r *ContentRepo) SetSize(ctx context.Context, id int64, size int64, charged bool) error {
	r.update(ctx, id, func(c *content.Content) {
		c.Size = size
		c.QuotaCharged = charged
	})
	return nil
}

func (r *ContentRepo) DeleteMany(ctx context.Context, ids []int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, id := range ids {
		remember(ctx, r.db.contents, id)
		delete(r.db.contents, id)
	}
	return nil
}

type PlanRepo struct{ db *DB }

func (r *PlanRepo) List(_ context.Context) ([]*billing.Plan, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*billing.Plan
	for _, p := range r.db.plans {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *PlanRepo) GetByID(_ context.Context, id int64) (*billing.Plan, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if p, ok := r.db.plans[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *PlanRepo) GetByName(_ context.Context, name string) (*billing.Plan, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, p := range r.db.plans {
		if p.Name == name {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *PlanRepo) Upsert(ctx context.Context, p *billing.Plan) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.plans {
		if existing.Name == p.Name {
			p.ID = existing.ID
			remember(ctx, r.db.plans, p.ID)
			p.CreatedAt = existing.CreatedAt
			cp := *p
			r.db.plans[p.ID] = &cp
			return nil
		}
	}
	p.ID = r.db.nextID()
	remember(ctx, r.db.plans, p.ID)
	p.CreatedAt = r.db.now()
	cp := *p
	r.db.plans[p.ID] = &cp
	return nil
}

type SubscriptionRepo struct{ db *DB }

func (r *SubscriptionRepo) pick(keep func(s *billing.Subscription) bool) *billing.Subscription {
	var best *billing.Subscription
	for _, s := range r.db.subscriptions {
		if !keep(s) {
			continue
		}
		if best == nil || s.StartedAt.After(best.StartedAt) || (s.StartedAt.Equal(best.StartedAt) && s.ID > best.ID) {
			best = s
		}
	}
	if best == nil {
		return nil
	}
	cp := *best
	return &cp
}

func (r *SubscriptionRepo) GetActive(_ context.Context, userID int64) (*billing.Subscription, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.pick(func(s *billing.Subscription) bool { return s.UserID == userID && s.IsActive }), nil
}

func (r *SubscriptionRepo) GetLatest(_ context.Context, userID int64) (*billing.Subscription, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.pick(func(s *billing.Subscription) bool { return s.UserID == userID }), nil
}

func (r *SubscriptionRepo) Create(ctx context.Context, s *billing.Subscription) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s.ID = r.db.nextID()
	remember(ctx, r.db.subscriptions, s.ID)
	cp := *s
	r.db.subscriptions[s.ID] = &cp
	return nil
}

func (r *SubscriptionRepo) Deactivate(ctx context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if s, ok := r.db.subscriptions[id]; ok {
		remember(ctx, r.db.subscriptions, id)
		s.IsActive = false
	}
	return nil
}

func (r *SubscriptionRepo) ExtendFinish(ctx context.Context, id int64, finishAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if s, ok := r.db.subscriptions[id]; ok {
		remember(ctx, r.db.subscriptions, id)
		s.FinishAt = finishAt
	}
	return nil
}

type CodeRepo struct{ db *DB }

func (r *CodeRepo) find(secret int64) *billing.PurchaseCode {
	for _, c := range r.db.codes {
		if c.SecretNumber == secret {
			return c
		}
	}
	return nil
}

func (r *CodeRepo) GetBySecret(_ context.Context, secret int64) (*billing.PurchaseCode, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if c := r.find(secret); c != nil {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *CodeRepo) Consume(ctx context.Context, secret int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c := r.find(secret)
	if c == nil || c.Exhausted() {
		return false, nil
	}
	remember(ctx, r.db.codes, c.ID)
	c.Activations++
	return true, nil
}

func (r *CodeRepo) Create(ctx context.Context, c *billing.PurchaseCode) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c.ID = r.db.nextID()
	remember(ctx, r.db.codes, c.ID)
	cp := *c
	r.db.codes[c.ID] = &cp
	return nil
}

func errNotFound(entity string, id int64) error {
	return fmt.Errorf("%s %d not found", entity, id)
}
