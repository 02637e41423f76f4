package app

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/church-livestream/cls/internal/domain"
	"github.com/church-livestream/cls/internal/metrics"
	"github.com/church-livestream/cls/internal/ports"
)

const (
	msgDisabled           = "Switching disabled"
	msgMissingCredentials = "Missing API key or channel id"
	resolveTimeout        = 30 * time.Second
)

// StatusResponse est le payload public de l'endpoint de statut.
// ErrorType n'en fait jamais partie.
type StatusResponse struct {
	Enabled  *bool       `json:"enabled,omitempty"`
	InWindow bool        `json:"inWindow"`
	Mode     domain.Mode `json:"mode"`
	VideoID  *string     `json:"videoId"`
	Error    string      `json:"error,omitempty"`
}

type StatusService struct {
	settings ports.SettingsRepository
	resolver Resolver
	cache    ports.Cache
	bus      ports.EventBus
	logger   zerolog.Logger
	now      func() time.Time

	group singleflight.Group
}

func NewStatusService(logger zerolog.Logger, settings ports.SettingsRepository, resolver Resolver, cache ports.Cache, bus ports.EventBus) *StatusService {
	return &StatusService{
		settings: settings,
		resolver: resolver,
		cache:    cache,
		bus:      bus,
		logger:   logger.With().Str("component", "status").Logger(),
		now:      time.Now,
	}
}

// Status calcule la décision courante. debug=true contourne le cache
// (ni lecture ni écriture) et expose le message d'erreur.
func (s *StatusService) Status(ctx context.Context, debug bool) (StatusResponse, error) {
	stored, err := s.settings.Get(ctx)
	if err != nil {
		return StatusResponse{}, err
	}
	cfg := stored.Effective()

	if !cfg.Enabled {
		metrics.StatusRequestsTotal.WithLabelValues("disabled").Inc()
		disabled := false
		return StatusResponse{Enabled: &disabled, Mode: domain.ModePlaylist, Error: msgDisabled}, nil
	}

	if !domain.IsInWindow(s.now(), cfg.Timezone, cfg.Schedule, cfg.OneTimeEvents) {
		metrics.StatusRequestsTotal.WithLabelValues("out_of_window").Inc()
		return StatusResponse{Mode: domain.ModePlaylist}, nil
	}

	if !cfg.HasCredentials() {
		metrics.StatusRequestsTotal.WithLabelValues("missing_credentials").Inc()
		return StatusResponse{InWindow: true, Mode: domain.ModePlaylist, Error: msgMissingCredentials}, nil
	}

	var res domain.StatusResult
	if debug {
		res = s.resolve(ctx, cfg, false)
	} else {
		var hit bool
		res, hit = s.cached(ctx)
		if hit {
			metrics.StatusRequestsTotal.WithLabelValues("cache_hit").Inc()
		} else {
			res = s.resolveShared(ctx, cfg)
		}
	}

	metrics.StatusModeTotal.WithLabelValues(string(res.Mode)).Inc()
	return toResponse(res, debug), nil
}

func (s *StatusService) cached(ctx context.Context) (domain.StatusResult, bool) {
	var res domain.StatusResult
	ok, err := s.cache.Get(ctx, StatusCacheKey, &res)
	if err != nil {
		s.logger.Warn().Err(err).Msg("status cache read failed")
		return domain.StatusResult{}, false
	}
	if !ok || res.Mode == "" {
		return domain.StatusResult{}, false
	}
	return res, true
}

// resolveShared regroupe les miss concurrents de ce processus en un seul appel amont.
func (s *StatusService) resolveShared(ctx context.Context, cfg domain.Settings) domain.StatusResult {
	ch := s.group.DoChan(StatusCacheKey, func() (any, error) {
		// Détaché de la requête qui a déclenché l'appel: les autres attendent le même résultat.
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), resolveTimeout)
		defer cancel()
		return s.resolve(rctx, cfg, true), nil
	})

	select {
	case r := <-ch:
		return r.Val.(domain.StatusResult)
	case <-ctx.Done():
		return domain.PlaylistResult("request cancelled", domain.ErrorTypeNone)
	}
}

func (s *StatusService) resolve(ctx context.Context, cfg domain.Settings, store bool) domain.StatusResult {
	res := s.resolver.Resolve(ctx, ResolveRequest{
		APIKey:          cfg.APIKey,
		ChannelID:       cfg.ChannelID,
		Lookback:        cfg.LookbackCount,
		UploadsCacheTTL: time.Duration(cfg.UploadsCacheTTLSeconds) * time.Second,
	})
	metrics.StatusRequestsTotal.WithLabelValues("resolved").Inc()

	if store {
		ttl := StatusTTL(res, cfg.CacheTTLSeconds, s.now())
		if err := s.cache.Set(ctx, StatusCacheKey, res, ttl); err != nil {
			s.logger.Warn().Err(err).Msg("status cache write failed")
		}
		s.logger.Debug().Str("mode", string(res.Mode)).Str("videoId", res.ID()).Dur("ttl", ttl).Msg("status resolved")
	}

	if s.bus != nil {
		if b, err := json.Marshal(toResponse(res, false)); err == nil {
			s.bus.Publish(ports.TopicStatusResolved, b)
		}
	}
	return res
}

func toResponse(res domain.StatusResult, debug bool) StatusResponse {
	out := StatusResponse{InWindow: true, Mode: res.Mode, VideoID: res.VideoID}
	if debug {
		out.Error = res.Error
	}
	return out
}

// Invalidate supprime le statut en cache (prochain appel = résolution fraîche).
func (s *StatusService) Invalidate(ctx context.Context) error {
	return s.cache.Delete(ctx, StatusCacheKey)
}
