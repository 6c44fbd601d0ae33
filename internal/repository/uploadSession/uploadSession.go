package uploadSession

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clouddrive/internal/model/content"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

type SessionRepo struct {
	Client *redis.Client
}

func New(client *redis.Client) *SessionRepo {
	return &SessionRepo{Client: client}
}

func (r *SessionRepo) buildKey(contentID int64) string {
	return fmt.Sprintf("upload:%d", contentID)
}

func (r *SessionRepo) Save(ctx context.Context, s *content.UploadSession, ttl time.Duration) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode upload session: %w", err)
	}
	return r.Client.Set(ctx, r.buildKey(s.ContentID), raw, ttl).Err()
}

// Get возвращает nil, nil, если сессии нет или она истекла.
func (r *SessionRepo) Get(ctx context.Context, contentID int64) (*content.UploadSession, error) {
	raw, err := r.Client.Get(ctx, r.buildKey(contentID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var s content.UploadSession
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("failed to decode upload session: %w", err)
	}
	return &s, nil
}

func (r *SessionRepo) claimKey(contentID int64) string {
	return r.buildKey(contentID) + ":claim"
}

// Claim закрепляет приём байтов за одним потоком. false - сессию уже кто-то принимает или принял.
func (r *SessionRepo) Claim(ctx context.Context, contentID int64, ttl time.Duration) (bool, error) {
	ok, err := r.Client.SetNX(ctx, r.claimKey(contentID), 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim upload session: %w", err)
	}
	return ok, nil
}

// Delete удаляет сессию вместе с её захватом.
func (r *SessionRepo) Delete(ctx context.Context, contentID int64) error {
	return r.Client.Del(ctx, r.buildKey(contentID), r.claimKey(contentID)).Err()
}
