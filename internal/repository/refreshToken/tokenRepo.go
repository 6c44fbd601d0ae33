package refreshToken

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// consumeScript удаляет токен, только если он совпал с переданным.
var consumeScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RefreshTokenRepo struct {
	client *redis.Client
}

func New(client *redis.Client) *RefreshTokenRepo {
	return &RefreshTokenRepo{client: client}
}

func key(userID int64) string {
	return fmt.Sprintf("drive:refresh:%d", userID)
}

// SaveToken перезаписывает прошлый токен: у пользователя одна живая сессия обновления.
func (r *RefreshTokenRepo) SaveToken(ctx context.Context, userID int64, token string, ttl time.Duration) error {
	return r.client.Set(ctx, key(userID), token, ttl).Err()
}

// GetToken возвращает пустую строку, если токена нет или он истёк.
func (r *RefreshTokenRepo) GetToken(ctx context.Context, userID int64) (string, error) {
	token, err := r.client.Get(ctx, key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return token, err
}

func (r *RefreshTokenRepo) DeleteToken(ctx context.Context, userID int64) error {
	return r.client.Del(ctx, key(userID)).Err()
}

// Consume атомарно проверяет и гасит токен. Два параллельных refresh одним токеном не пройдут оба.
func (r *RefreshTokenRepo) Consume(ctx context.Context, userID int64, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	n, err := consumeScript.Run(ctx, r.client, []string{key(userID)}, token).Int()
	if err != nil {
		return false, fmt.Errorf("failed to consume refresh token: %w", err)
	}
	return n == 1, nil
}
