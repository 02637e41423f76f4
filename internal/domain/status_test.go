package domain

import (
	"testing"
	"time"
)

func TestPickLive_FirstInOrder(t *testing.T) {
	videos := []Video{
		{ID: "old", LiveBroadcastContent: "none", PrivacyStatus: "public", Embeddable: true},
		{ID: "private", LiveBroadcastContent: "live", PrivacyStatus: "private", Embeddable: true},
		{ID: "a", LiveBroadcastContent: "live", PrivacyStatus: "public", Embeddable: true},
		{ID: "b", LiveBroadcastContent: "live", PrivacyStatus: "unlisted", Embeddable: true},
	}
	id, ok := PickLive(videos)
	if !ok || id != "a" {
		t.Fatalf("PickLive: want a, got %q (ok=%v)", id, ok)
	}
}

func TestPickLive_ActualStartWithoutEnd(t *testing.T) {
	now := time.Date(2026, 10, 18, 15, 0, 0, 0, time.UTC)
	videos := []Video{
		{ID: "ended", LiveBroadcastContent: "none", PrivacyStatus: "public", Embeddable: true,
			ActualStart: now.Add(-3 * time.Hour), ActualEnd: now.Add(-time.Hour)},
		{ID: "lagging", LiveBroadcastContent: "none", PrivacyStatus: "public", Embeddable: true,
			ActualStart: now.Add(-5 * time.Minute)},
	}
	id, ok := PickLive(videos)
	if !ok || id != "lagging" {
		t.Fatalf("PickLive: want lagging, got %q (ok=%v)", id, ok)
	}
}

func TestPickLive_NotEmbeddable(t *testing.T) {
	videos := []Video{{ID: "x", LiveBroadcastContent: "live", PrivacyStatus: "public", Embeddable: false}}
	if _, ok := PickLive(videos); ok {
		t.Fatalf("non embeddable live must be ignored")
	}
}

func TestPickUpcoming_EarliestNonStale(t *testing.T) {
	now := time.Date(2026, 10, 18, 15, 0, 0, 0, time.UTC)
	up := func(id string, start time.Time) Video {
		return Video{ID: id, LiveBroadcastContent: "upcoming", PrivacyStatus: "public", Embeddable: true, ScheduledStart: start}
	}
	videos := []Video{
		up("later", now.Add(2*time.Hour)),
		up("stale", now.Add(-20*time.Minute)),
		up("soon", now.Add(-10*time.Minute)),
		up("tomorrow", now.Add(24*time.Hour)),
	}
	id, ok := PickUpcoming(videos, now)
	if !ok || id != "soon" {
		t.Fatalf("PickUpcoming: want soon, got %q (ok=%v)", id, ok)
	}
}

func TestPickUpcoming_AllStale(t *testing.T) {
	now := time.Date(2026, 10, 18, 15, 0, 0, 0, time.UTC)
	videos := []Video{{ID: "stale", LiveBroadcastContent: "upcoming", PrivacyStatus: "public", Embeddable: true,
		ScheduledStart: now.Add(-16 * time.Minute)}}
	if id, ok := PickUpcoming(videos, now); ok {
		t.Fatalf("PickUpcoming: want none, got %q", id)
	}
}

func TestStatusResult_ID(t *testing.T) {
	if got := PlaylistResult("", ErrorTypeNone).ID(); got != "" {
		t.Fatalf("playlist ID: want empty, got %q", got)
	}
	if got := LiveResult("abc").ID(); got != "abc" {
		t.Fatalf("live ID: want abc, got %q", got)
	}
}

func TestSettings_EffectiveLowQuota(t *testing.T) {
	s := DefaultSettings()
	s.LowQuotaMode = true
	s.LookbackCount = 25

	eff := s.Effective()
	if eff.CacheTTLSeconds != LowQuotaCacheTTLSeconds {
		t.Fatalf("CacheTTLSeconds: want %d, got %d", LowQuotaCacheTTLSeconds, eff.CacheTTLSeconds)
	}
	if eff.PollIntervalSeconds != LowQuotaPollSeconds {
		t.Fatalf("PollIntervalSeconds: want %d, got %d", LowQuotaPollSeconds, eff.PollIntervalSeconds)
	}
	if eff.UploadsCacheTTLSeconds != LowQuotaUploadsTTLSeconds {
		t.Fatalf("UploadsCacheTTLSeconds: want %d, got %d", LowQuotaUploadsTTLSeconds, eff.UploadsCacheTTLSeconds)
	}
	if eff.LookbackCount != 10 {
		t.Fatalf("LookbackCount: want 10, got %d", eff.LookbackCount)
	}
	if s.LookbackCount != 25 {
		t.Fatalf("Effective must not mutate the receiver")
	}
}
