package ports

import (
	"context"

	"github.com/church-livestream/cls/internal/domain"
)

type ReleaseSource interface {
	// Releases renvoie la dernière release publiée, ou une page de releases
	// (brouillons et pré-releases compris) si includePrerelease est vrai.
	Releases(ctx context.Context, repo, token string, includePrerelease bool) ([]domain.Release, error)
}
