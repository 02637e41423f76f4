package ports

import (
	"context"
	"time"
)

// Cache est un magasin clé/valeur à TTL. Les valeurs sont encodées en JSON.
// Get renvoie false (sans erreur) si la clé est absente ou expirée.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
