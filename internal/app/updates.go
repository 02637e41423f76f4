package app

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/mod/semver"

	"github.com/church-livestream/cls/internal/domain"
	"github.com/church-livestream/cls/internal/metrics"
	"github.com/church-livestream/cls/internal/ports"
)

const (
	minReleaseTTL      = 300 * time.Second
	maxReleaseErrorTTL = 900 * time.Second
)

// releaseCacheEntry: Failed=true est une entrée négative (échec récent).
type releaseCacheEntry struct {
	Failed  bool                `json:"failed,omitempty"`
	Release *domain.ReleaseInfo `json:"release,omitempty"`
}

type UpdateStatus struct {
	CurrentVersion  string              `json:"currentVersion"`
	Repo            string              `json:"repo"`
	Release         *domain.ReleaseInfo `json:"release"`
	UpdateAvailable bool                `json:"updateAvailable"`
	Cached          bool                `json:"cached"`
}

type UpdateService struct {
	settings ports.SettingsRepository
	source   ports.ReleaseSource
	cache    ports.Cache
	logger   zerolog.Logger
	current  string
}

func NewUpdateService(logger zerolog.Logger, settings ports.SettingsRepository, source ports.ReleaseSource, cache ports.Cache, currentVersion string) *UpdateService {
	return &UpdateService{
		settings: settings,
		source:   source,
		cache:    cache,
		logger:   logger.With().Str("component", "updates").Logger(),
		current:  domain.NormalizeVersion(currentVersion),
	}
}

// ReleaseCacheKey renvoie "" quand aucun dépôt n'est configuré.
func ReleaseCacheKey(repo string, includePrerelease bool) string {
	if repo == "" {
		return ""
	}
	sum := md5.Sum([]byte(repo + "|" + strconv.FormatBool(includePrerelease)))
	return "cls_github_release_" + hex.EncodeToString(sum[:])
}

// Check compare la dernière release publiée avec la version en cours.
// force=true ignore le cache (positif comme négatif) mais le réalimente.
func (u *UpdateService) Check(ctx context.Context, force bool) (UpdateStatus, error) {
	cfg, err := u.settings.Get(ctx)
	if err != nil {
		return UpdateStatus{}, err
	}
	if !cfg.GitHubUpdatesEnabled {
		return UpdateStatus{}, &CodedError{Code: CodeUpdatesDisabled, Message: "update checks are disabled"}
	}
	repo := domain.SanitizeGitHubRepo(cfg.GitHubRepo)
	if repo == "" {
		return UpdateStatus{}, &CodedError{Code: CodeRepoMissing, Message: "no github repository configured"}
	}

	out := UpdateStatus{CurrentVersion: u.current, Repo: repo}
	key := ReleaseCacheKey(repo, cfg.GitHubIncludePrerelease)

	if !force {
		var entry releaseCacheEntry
		found, err := u.cache.Get(ctx, key, &entry)
		if err != nil {
			u.logger.Warn().Err(err).Msg("release cache read failed")
		}
		if found && entry.Failed {
			metrics.UpdateChecksTotal.WithLabelValues("cached_error").Inc()
			return UpdateStatus{}, &CodedError{Code: CodeReleaseUnavailable, Message: "release information unavailable (cached failure)"}
		}
		if found && entry.Release != nil {
			metrics.UpdateChecksTotal.WithLabelValues("cached").Inc()
			out.Cached = true
			return u.withRelease(out, entry.Release), nil
		}
	}

	ttl := max(minReleaseTTL, time.Duration(cfg.GitHubCacheTTLSeconds)*time.Second)
	info, err := u.fetch(ctx, repo, cfg)
	if err != nil {
		metrics.UpdateChecksTotal.WithLabelValues("failed").Inc()
		u.logger.Warn().Err(err).Str("repo", repo).Msg("release check failed")
		u.store(ctx, key, releaseCacheEntry{Failed: true}, min(ttl, maxReleaseErrorTTL))
		return UpdateStatus{}, &CodedError{Code: CodeReleaseUnavailable, Message: "release information unavailable", Err: err}
	}

	metrics.UpdateChecksTotal.WithLabelValues("fetched").Inc()
	u.store(ctx, key, releaseCacheEntry{Release: &info}, ttl)
	return u.withRelease(out, &info), nil
}

func (u *UpdateService) fetch(ctx context.Context, repo string, cfg domain.Settings) (domain.ReleaseInfo, error) {
	releases, err := u.source.Releases(ctx, repo, cfg.GitHubToken, cfg.GitHubIncludePrerelease)
	if err != nil {
		return domain.ReleaseInfo{}, err
	}
	rel, ok := domain.SelectRelease(releases, cfg.GitHubIncludePrerelease)
	if !ok {
		return domain.ReleaseInfo{}, ErrNotFound
	}
	info := rel.Info(cfg.GitHubAssetName)
	if info.Version == "" || info.DownloadURL == "" {
		return domain.ReleaseInfo{}, ErrNotFound
	}
	return info, nil
}

func (u *UpdateService) store(ctx context.Context, key string, entry releaseCacheEntry, ttl time.Duration) {
	if err := u.cache.Set(ctx, key, entry, ttl); err != nil {
		u.logger.Warn().Err(err).Msg("release cache write failed")
	}
}

func (u *UpdateService) withRelease(out UpdateStatus, info *domain.ReleaseInfo) UpdateStatus {
	out.Release = info
	out.UpdateAvailable = NewerVersion(info.Version, u.current)
	return out
}

// NewerVersion: vrai si candidate > current en semver. Une version non
// semver (ex: "dev") n'est jamais considérée comme plus ancienne.
func NewerVersion(candidate, current string) bool {
	c, cur := "v"+candidate, "v"+current
	if !semver.IsValid(c) || !semver.IsValid(cur) {
		return false
	}
	return semver.Compare(c, cur) > 0
}
