package app

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/church-livestream/cls/internal/domain"
	"github.com/church-livestream/cls/internal/ports"
)

const secretPreviewTail = 4

type SettingsService struct {
	repo   ports.SettingsRepository
	cache  ports.Cache
	bus    ports.EventBus
	logger zerolog.Logger
}

func NewSettingsService(logger zerolog.Logger, repo ports.SettingsRepository, cache ports.Cache, bus ports.EventBus) *SettingsService {
	return &SettingsService{
		repo:   repo,
		cache:  cache,
		bus:    bus,
		logger: logger.With().Str("component", "settings").Logger(),
	}
}

// SettingsView est la représentation admin: secrets masqués.
type SettingsView struct {
	domain.Settings
	APIKeyPreview      string `json:"apiKeyPreview"`
	GitHubTokenPreview string `json:"githubTokenPreview"`
}

func ToSettingsView(s domain.Settings) SettingsView {
	v := SettingsView{
		Settings:           s,
		APIKeyPreview:      domain.MaskSecret(s.APIKey, secretPreviewTail),
		GitHubTokenPreview: domain.MaskSecret(s.GitHubToken, secretPreviewTail),
	}
	v.APIKey = ""
	v.GitHubToken = ""
	return v
}

// Get renvoie la configuration stockée (sans profil low quota).
func (s *SettingsService) Get(ctx context.Context) (domain.Settings, error) {
	return s.repo.Get(ctx)
}

// Effective renvoie la configuration avec le profil low quota appliqué.
func (s *SettingsService) Effective(ctx context.Context) (domain.Settings, error) {
	cur, err := s.repo.Get(ctx)
	if err != nil {
		return domain.Settings{}, err
	}
	return cur.Effective(), nil
}

type secretFlags struct {
	APIKeyClear      bool `json:"apiKeyClear"`
	GitHubTokenClear bool `json:"githubTokenClear"`
}

// Update applique un patch JSON partiel sur la configuration courante.
// Un secret vide conserve la valeur existante, sauf drapeau *Clear.
func (s *SettingsService) Update(ctx context.Context, patch []byte) (SettingsView, error) {
	cur, err := s.repo.Get(ctx)
	if err != nil {
		return SettingsView{}, err
	}

	var flags secretFlags
	if err := json.Unmarshal(patch, &flags); err != nil {
		return SettingsView{}, &CodedError{Code: CodeInvalidJSON, Message: "invalid settings json", Err: err}
	}

	next := cur
	next.Schedule = nil
	next.OneTimeEvents = nil
	if err := json.Unmarshal(patch, &next); err != nil {
		return SettingsView{}, &CodedError{Code: CodeInvalidJSON, Message: "invalid settings json", Err: err}
	}
	// Listes absentes du patch: conserver les valeurs courantes.
	if next.Schedule == nil {
		next.Schedule = cur.Schedule
	}
	if next.OneTimeEvents == nil {
		next.OneTimeEvents = cur.OneTimeEvents
	}

	next.APIKey = keepSecret(next.APIKey, cur.APIKey, flags.APIKeyClear)
	next.GitHubToken = keepSecret(next.GitHubToken, cur.GitHubToken, flags.GitHubTokenClear)

	saved, err := s.repo.Put(ctx, next.Sanitize())
	if err != nil {
		return SettingsView{}, err
	}

	s.invalidate(ctx, cur, saved)
	view := ToSettingsView(saved)
	s.publish(ports.TopicSettingsUpdated, view)
	s.logger.Info().Bool("enabled", saved.Enabled).Bool("lowQuota", saved.LowQuotaMode).Msg("settings updated")
	return view, nil
}

func keepSecret(incoming, existing string, clear bool) string {
	if clear {
		return ""
	}
	if domain.SanitizeText(incoming) == "" {
		return existing
	}
	return incoming
}

func (s *SettingsService) ExportSchedule(ctx context.Context) (domain.ScheduleExport, error) {
	cur, err := s.repo.Get(ctx)
	if err != nil {
		return domain.ScheduleExport{}, err
	}
	return domain.ExportSchedule(cur), nil
}

// ImportSchedule remplace les fenêtres hebdomadaires et ponctuelles.
func (s *SettingsService) ImportSchedule(ctx context.Context, raw []byte) (domain.ScheduleExport, error) {
	imported, err := domain.ImportSchedule(raw)
	if err != nil {
		return domain.ScheduleExport{}, &CodedError{Code: CodeInvalidJSON, Message: "invalid schedule json", Err: err}
	}

	cur, err := s.repo.Get(ctx)
	if err != nil {
		return domain.ScheduleExport{}, err
	}
	next := cur
	next.Schedule = imported.Schedule
	next.OneTimeEvents = imported.OneTimeEvents

	saved, err := s.repo.Put(ctx, next.Sanitize())
	if err != nil {
		return domain.ScheduleExport{}, err
	}

	s.invalidate(ctx, cur, saved)
	out := domain.ExportSchedule(saved)
	s.publish(ports.TopicScheduleUpdated, out)
	s.logger.Info().Int("rules", len(out.Schedule)).Int("events", len(out.OneTimeEvents)).Msg("schedule imported")
	return out, nil
}

// invalidate vide le statut et les releases de l'ancien et du nouveau dépôt.
func (s *SettingsService) invalidate(ctx context.Context, before, after domain.Settings) {
	if s.cache == nil {
		return
	}
	keys := []string{
		StatusCacheKey,
		ReleaseCacheKey(before.GitHubRepo, before.GitHubIncludePrerelease),
		ReleaseCacheKey(after.GitHubRepo, after.GitHubIncludePrerelease),
	}
	for _, k := range keys {
		if k == "" {
			continue
		}
		if err := s.cache.Delete(ctx, k); err != nil {
			s.logger.Warn().Err(err).Str("key", k).Msg("cache invalidation failed")
		}
	}
}

func (s *SettingsService) publish(topic string, v any) {
	if s.bus == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	s.bus.Publish(topic, b)
}
