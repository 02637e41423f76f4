package domain

import (
	"sort"
	"time"
)

type Mode string

const (
	ModeLive     Mode = "live_video"
	ModeUpcoming Mode = "upcoming_video"
	ModePlaylist Mode = "playlist"
)

// ErrorType est un discriminant interne, jamais exposé aux clients.
type ErrorType string

const (
	ErrorTypeNone  ErrorType = ""
	ErrorTypeQuota ErrorType = "quota"
	ErrorTypeAPI   ErrorType = "api"
)

// UpcomingStaleGrace: au-delà, un "upcoming" dont le début est passé est ignoré.
const UpcomingStaleGrace = 900 * time.Second

type StatusResult struct {
	Mode      Mode      `json:"mode"`
	VideoID   *string   `json:"videoId"`
	ErrorType ErrorType `json:"errorType,omitempty"`
	Error     string    `json:"error,omitempty"`
}

func LiveResult(videoID string) StatusResult {
	return StatusResult{Mode: ModeLive, VideoID: &videoID}
}

func UpcomingResult(videoID string) StatusResult {
	return StatusResult{Mode: ModeUpcoming, VideoID: &videoID}
}

func PlaylistResult(message string, errType ErrorType) StatusResult {
	return StatusResult{Mode: ModePlaylist, ErrorType: errType, Error: message}
}

// ID renvoie l'identifiant vidéo ou "" s'il n'y en a pas.
func (r StatusResult) ID() string {
	if r.VideoID == nil {
		return ""
	}
	return *r.VideoID
}

// Video regroupe les champs de videos.list utiles à la décision.
// Les champs absents du payload sont normalisés par l'adapter
// (privacy "public", embeddable true).
type Video struct {
	ID                   string
	LiveBroadcastContent string
	PrivacyStatus        string
	Embeddable           bool
	ActualStart          time.Time
	ActualEnd            time.Time
	ScheduledStart       time.Time
}

func (v Video) Playable() bool {
	if v.ID == "" || !v.Embeddable {
		return false
	}
	return v.PrivacyStatus == "public" || v.PrivacyStatus == "unlisted"
}

// IsLiveNow couvre aussi le retard de l'API: début réel sans fin réelle.
func (v Video) IsLiveNow() bool {
	if v.LiveBroadcastContent == "live" {
		return true
	}
	return !v.ActualStart.IsZero() && v.ActualEnd.IsZero()
}

// PickLive renvoie la première vidéo live dans l'ordre de l'API
// (ordre des uploads, du plus récent au plus ancien).
func PickLive(videos []Video) (string, bool) {
	for _, v := range videos {
		if !v.Playable() {
			continue
		}
		if v.IsLiveNow() {
			return v.ID, true
		}
	}
	return "", false
}

// PickUpcoming renvoie l'upcoming au début programmé le plus proche,
// en ignorant ceux dont le début est dépassé de plus de UpcomingStaleGrace.
func PickUpcoming(videos []Video, now time.Time) (string, bool) {
	cutoff := now.Add(-UpcomingStaleGrace)
	candidates := make([]Video, 0, len(videos))
	for _, v := range videos {
		if !v.Playable() || v.IsLiveNow() {
			continue
		}
		if v.LiveBroadcastContent != "upcoming" || v.ScheduledStart.IsZero() {
			continue
		}
		if v.ScheduledStart.Before(cutoff) {
			continue
		}
		candidates = append(candidates, v)
	}
	if len(candidates) == 0 {
		return "", false
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].ScheduledStart.Before(candidates[j].ScheduledStart)
	})
	return candidates[0].ID, true
}
