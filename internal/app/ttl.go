package app

import (
	"crypto/md5"
	"encoding/hex"
	"time"

	"github.com/church-livestream/cls/internal/domain"
)

// StatusCacheKey: une seule entrée de statut partagée par tous les clients.
const StatusCacheKey = "cls_live_status"

const (
	minStatusTTL      = 10 * time.Second
	upcomingStatusTTL = 30 * time.Second
	liveStatusTTL     = 20 * time.Second
	minQuotaBackoff   = 600 * time.Second
	quotaFallbackTTL  = 3600 * time.Second
)

// Le quota YouTube est remis à zéro à minuit, heure du Pacifique.
const quotaResetZone = "America/Los_Angeles"

func UploadsCacheKey(channelID string) string {
	sum := md5.Sum([]byte(channelID))
	return "cls_uploads_playlist_" + hex.EncodeToString(sum[:])
}

// StatusTTL renvoie la durée de vie en cache d'un résultat.
func StatusTTL(res domain.StatusResult, cacheTTLSeconds int, now time.Time) time.Duration {
	base := max(minStatusTTL, time.Duration(cacheTTLSeconds)*time.Second)

	if res.ErrorType == domain.ErrorTypeQuota {
		untilReset, ok := untilPacificMidnight(now)
		if !ok {
			return quotaFallbackTTL
		}
		return max(minQuotaBackoff, untilReset)
	}

	switch res.Mode {
	case domain.ModeUpcoming:
		return max(minStatusTTL, min(base, upcomingStatusTTL))
	case domain.ModeLive:
		return max(minStatusTTL, min(base, liveStatusTTL))
	default:
		return base
	}
}

func untilPacificMidnight(now time.Time) (time.Duration, bool) {
	loc, err := time.LoadLocation(quotaResetZone)
	if err != nil {
		return 0, false
	}
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, loc)
	return next.Sub(now).Truncate(time.Second), true
}
