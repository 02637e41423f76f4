package youtube

import (
	"time"

	"github.com/church-livestream/cls/internal/domain"
)

type channelsResponse struct {
	Items []struct {
		ContentDetails struct {
			RelatedPlaylists struct {
				Uploads string `json:"uploads"`
			} `json:"relatedPlaylists"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type playlistItemsResponse struct {
	Items []struct {
		ContentDetails struct {
			VideoID string `json:"videoId"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type videosResponse struct {
	Items []videoItem `json:"items"`
}

type videoItem struct {
	ID      string `json:"id"`
	Snippet struct {
		LiveBroadcastContent string `json:"liveBroadcastContent"`
	} `json:"snippet"`
	Status struct {
		PrivacyStatus string `json:"privacyStatus"`
		Embeddable    *bool  `json:"embeddable"`
	} `json:"status"`
	LiveStreamingDetails struct {
		ActualStartTime    string `json:"actualStartTime"`
		ActualEndTime      string `json:"actualEndTime"`
		ScheduledStartTime string `json:"scheduledStartTime"`
	} `json:"liveStreamingDetails"`
}

// toDomain applique les valeurs par défaut de l'API pour les champs absents.
func (v videoItem) toDomain() domain.Video {
	out := domain.Video{
		ID:                   v.ID,
		LiveBroadcastContent: v.Snippet.LiveBroadcastContent,
		PrivacyStatus:        v.Status.PrivacyStatus,
		Embeddable:           true,
		ActualStart:          parseTime(v.LiveStreamingDetails.ActualStartTime),
		ActualEnd:            parseTime(v.LiveStreamingDetails.ActualEndTime),
		ScheduledStart:       parseTime(v.LiveStreamingDetails.ScheduledStartTime),
	}
	if out.LiveBroadcastContent == "" {
		out.LiveBroadcastContent = "none"
	}
	if out.PrivacyStatus == "" {
		out.PrivacyStatus = "public"
	}
	if v.Status.Embeddable != nil {
		out.Embeddable = *v.Status.Embeddable
	}
	return out
}

// parseTime: horodatage illisible = absent.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
