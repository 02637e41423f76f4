package app

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/church-livestream/cls/internal/domain"
	"github.com/church-livestream/cls/internal/metrics"
	"github.com/church-livestream/cls/internal/ports"
)

type ResolveRequest struct {
	APIKey          string
	ChannelID       string
	Lookback        int
	UploadsCacheTTL time.Duration
}

// Resolver est implémenté par LiveResolver; remplaçable en test.
type Resolver interface {
	Resolve(ctx context.Context, req ResolveRequest) domain.StatusResult
}

// LiveResolver interroge l'API YouTube (channels, playlistItems, videos).
// Il ne renvoie jamais d'erreur: tout échec devient un résultat "playlist".
type LiveResolver struct {
	logger zerolog.Logger
	api    ports.VideoAPI
	cache  ports.Cache
	now    func() time.Time
}

func NewLiveResolver(logger zerolog.Logger, api ports.VideoAPI, cache ports.Cache) *LiveResolver {
	return &LiveResolver{
		logger: logger.With().Str("component", "resolver").Logger(),
		api:    api,
		cache:  cache,
		now:    time.Now,
	}
}

func (r *LiveResolver) Resolve(ctx context.Context, req ResolveRequest) domain.StatusResult {
	started := time.Now()
	defer func() { metrics.ResolveDuration.Observe(time.Since(started).Seconds()) }()

	uploads, res, ok := r.uploadsPlaylist(ctx, req)
	if !ok {
		return res
	}

	ids, err := r.api.RecentUploadIDs(ctx, req.APIKey, uploads, domain.ClampLookback(req.Lookback))
	if err != nil {
		return r.failure(err)
	}
	if len(ids) == 0 {
		return domain.PlaylistResult("no upload video ids found", domain.ErrorTypeNone)
	}

	videos, err := r.api.Videos(ctx, req.APIKey, ids)
	if err != nil {
		return r.failure(err)
	}

	if id, ok := domain.PickLive(videos); ok {
		return domain.LiveResult(id)
	}
	if id, ok := domain.PickUpcoming(videos, r.now()); ok {
		return domain.UpcomingResult(id)
	}
	return domain.PlaylistResult("no live or upcoming video found in current lookback window", domain.ErrorTypeNone)
}

func (r *LiveResolver) uploadsPlaylist(ctx context.Context, req ResolveRequest) (string, domain.StatusResult, bool) {
	key := UploadsCacheKey(req.ChannelID)

	var cached string
	found, err := r.cache.Get(ctx, key, &cached)
	if err != nil {
		r.logger.Warn().Err(err).Msg("uploads cache read failed")
	}
	if found && cached != "" {
		metrics.UploadsLookupsTotal.WithLabelValues("cache").Inc()
		return cached, domain.StatusResult{}, true
	}

	metrics.UploadsLookupsTotal.WithLabelValues("api").Inc()
	id, err := r.api.UploadsPlaylistID(ctx, req.APIKey, req.ChannelID)
	if err != nil {
		return "", r.failure(err), false
	}

	ttl := max(time.Hour, req.UploadsCacheTTL)
	if err := r.cache.Set(ctx, key, id, ttl); err != nil {
		r.logger.Warn().Err(err).Msg("uploads cache write failed")
	}
	return id, domain.StatusResult{}, true
}

func (r *LiveResolver) failure(err error) domain.StatusResult {
	errType := classify(err)
	if errType != domain.ErrorTypeNone {
		metrics.ResolverErrorsTotal.WithLabelValues(string(errType)).Inc()
	}
	r.logger.Warn().Err(err).Str("errorType", string(errType)).Msg("live status lookup failed, falling back to playlist")
	return domain.PlaylistResult(err.Error(), errType)
}

func classify(err error) domain.ErrorType {
	switch {
	case errors.Is(err, ports.ErrQuotaExceeded):
		return domain.ErrorTypeQuota
	case errors.Is(err, ports.ErrUpstream):
		return domain.ErrorTypeAPI
	default:
		return domain.ErrorTypeNone
	}
}
