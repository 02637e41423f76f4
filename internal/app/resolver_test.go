package app

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/church-livestream/cls/internal/adapters/cache"
	"github.com/church-livestream/cls/internal/domain"
	"github.com/church-livestream/cls/internal/ports"
)

func newTestResolver(t *testing.T, api *fakeVideoAPI) (*LiveResolver, *cache.Memory) {
	t.Helper()
	c := cache.NewMemory(0)
	t.Cleanup(func() { _ = c.Close() })
	return NewLiveResolver(zerolog.Nop(), api, c), c
}

func TestLiveResolver_Live(t *testing.T) {
	api := &fakeVideoAPI{uploads: "UU1", ids: []string{"a", "b"}, videos: []domain.Video{liveVideo("a")}}
	r, _ := newTestResolver(t, api)

	res := r.Resolve(context.Background(), ResolveRequest{APIKey: "k", ChannelID: "UC1", Lookback: 15, UploadsCacheTTL: 24 * time.Hour})
	if res.Mode != domain.ModeLive || res.ID() != "a" {
		t.Fatalf("want live a, got %s %q", res.Mode, res.ID())
	}
}

func TestLiveResolver_UploadsPlaylistCached(t *testing.T) {
	api := &fakeVideoAPI{uploads: "UU1", ids: []string{"a"}, videos: []domain.Video{liveVideo("a")}}
	r, _ := newTestResolver(t, api)
	req := ResolveRequest{APIKey: "k", ChannelID: "UC1", Lookback: 15, UploadsCacheTTL: 24 * time.Hour}

	r.Resolve(context.Background(), req)
	r.Resolve(context.Background(), req)

	if got := api.uploadsCalls.Load(); got != 1 {
		t.Fatalf("channels calls: want 1, got %d", got)
	}
	if got := api.videosCalls.Load(); got != 2 {
		t.Fatalf("videos calls: want 2, got %d", got)
	}
}

func TestLiveResolver_UpcomingSkipsStale(t *testing.T) {
	now := time.Date(2026, 10, 18, 15, 0, 0, 0, time.UTC)
	api := &fakeVideoAPI{uploads: "UU1", ids: []string{"s", "f"}, videos: []domain.Video{
		{ID: "s", LiveBroadcastContent: "upcoming", PrivacyStatus: "public", Embeddable: true, ScheduledStart: now.Add(-20 * time.Minute)},
		{ID: "f", LiveBroadcastContent: "upcoming", PrivacyStatus: "public", Embeddable: true, ScheduledStart: now.Add(time.Hour)},
	}}
	r, _ := newTestResolver(t, api)
	r.now = func() time.Time { return now }

	res := r.Resolve(context.Background(), ResolveRequest{APIKey: "k", ChannelID: "UC1", Lookback: 15})
	if res.Mode != domain.ModeUpcoming || res.ID() != "f" {
		t.Fatalf("want upcoming f, got %s %q", res.Mode, res.ID())
	}
}

func TestLiveResolver_NothingFound(t *testing.T) {
	api := &fakeVideoAPI{uploads: "UU1", ids: []string{"a"}, videos: []domain.Video{
		{ID: "a", LiveBroadcastContent: "none", PrivacyStatus: "public", Embeddable: true},
	}}
	r, _ := newTestResolver(t, api)

	res := r.Resolve(context.Background(), ResolveRequest{APIKey: "k", ChannelID: "UC1", Lookback: 15})
	if res.Mode != domain.ModePlaylist || res.Error != "no live or upcoming video found in current lookback window" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.VideoID != nil {
		t.Fatalf("playlist result must have nil videoId")
	}
}

func TestLiveResolver_NoUploadIDs(t *testing.T) {
	api := &fakeVideoAPI{uploads: "UU1"}
	r, _ := newTestResolver(t, api)

	res := r.Resolve(context.Background(), ResolveRequest{APIKey: "k", ChannelID: "UC1", Lookback: 15})
	if res.Error != "no upload video ids found" {
		t.Fatalf("unexpected error: %q", res.Error)
	}
	if api.videosCalls.Load() != 0 {
		t.Fatalf("videos must not be called without ids")
	}
}

type quotaErr struct{}

func (quotaErr) Error() string        { return "channels API error: quota" }
func (quotaErr) Is(target error) bool { return target == ports.ErrQuotaExceeded || target == ports.ErrUpstream }

func TestLiveResolver_ErrorClassification(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want domain.ErrorType
	}{
		{"quota", quotaErr{}, domain.ErrorTypeQuota},
		{"api", fmt.Errorf("videos API error: bad: %w", ports.ErrUpstream), domain.ErrorTypeAPI},
		{"transport", errors.New("videos request failed: timeout"), domain.ErrorTypeNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := &fakeVideoAPI{uploads: "UU1", ids: []string{"a"}, videosErr: tc.err}
			r, _ := newTestResolver(t, api)
			res := r.Resolve(context.Background(), ResolveRequest{APIKey: "k", ChannelID: "UC1", Lookback: 15})
			if res.Mode != domain.ModePlaylist || res.ErrorType != tc.want {
				t.Fatalf("want playlist/%q, got %s/%q", tc.want, res.Mode, res.ErrorType)
			}
			if res.Error != tc.err.Error() {
				t.Fatalf("message: want %q, got %q", tc.err.Error(), res.Error)
			}
		})
	}
}

func TestLiveResolver_UploadsFailureNotCached(t *testing.T) {
	api := &fakeVideoAPI{uploadsErr: errors.New("uploads playlist not found for this channel")}
	r, c := newTestResolver(t, api)

	res := r.Resolve(context.Background(), ResolveRequest{APIKey: "k", ChannelID: "UC1", Lookback: 15})
	if res.Error != "uploads playlist not found for this channel" {
		t.Fatalf("unexpected error: %q", res.Error)
	}
	var cached string
	if ok, _ := c.Get(context.Background(), UploadsCacheKey("UC1"), &cached); ok {
		t.Fatalf("failed lookup must not be cached")
	}
}
