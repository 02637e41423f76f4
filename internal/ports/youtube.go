package ports

import (
	"context"

	"github.com/church-livestream/cls/internal/domain"
)

// VideoAPI couvre les trois appels YouTube Data API v3 utilisés par le resolver.
type VideoAPI interface {
	UploadsPlaylistID(ctx context.Context, apiKey, channelID string) (string, error)
	RecentUploadIDs(ctx context.Context, apiKey, playlistID string, max int) ([]string, error)
	Videos(ctx context.Context, apiKey string, ids []string) ([]domain.Video, error)
}
