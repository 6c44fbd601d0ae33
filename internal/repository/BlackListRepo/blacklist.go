package BlackListRepo

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

const prefix = "drive:revoked:"

// BlackListRepo держит отозванные access-токены до их естественного истечения.
type BlackListRepo struct {
	client *redis.Client
}

func NewBlackListRepo(client *redis.Client) *BlackListRepo {
	return &BlackListRepo{client: client}
}

// в ключе sha256 от JWT, сам токен в redis не попадает
func revokedKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return prefix + hex.EncodeToString(sum[:])
}

// Revoke no-op для уже истёкшего токена: его и так не примут.
func (r *BlackListRepo) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return r.client.SetNX(ctx, revokedKey(token), time.Now().Unix(), ttl).Err()
}

func (r *BlackListRepo) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedKey(token)).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
