package app

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/church-livestream/cls/internal/domain"
	"github.com/church-livestream/cls/internal/ports"
)

type memSettingsRepo struct {
	mu sync.Mutex
	s  domain.Settings
}

func newMemSettingsRepo(s domain.Settings) *memSettingsRepo {
	return &memSettingsRepo{s: s}
}

func (r *memSettingsRepo) Get(context.Context) (domain.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.s, nil
}

func (r *memSettingsRepo) Put(_ context.Context, s domain.Settings) (domain.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s = s
	return s, nil
}

type fakeVideoAPI struct {
	uploads    string
	uploadsErr error
	ids        []string
	idsErr     error
	videos     []domain.Video
	videosErr  error

	uploadsCalls atomic.Int32
	itemsCalls   atomic.Int32
	videosCalls  atomic.Int32
	lastMax      atomic.Int32
}

func (f *fakeVideoAPI) UploadsPlaylistID(context.Context, string, string) (string, error) {
	f.uploadsCalls.Add(1)
	return f.uploads, f.uploadsErr
}

func (f *fakeVideoAPI) RecentUploadIDs(_ context.Context, _ string, _ string, max int) ([]string, error) {
	f.itemsCalls.Add(1)
	f.lastMax.Store(int32(max))
	return f.ids, f.idsErr
}

func (f *fakeVideoAPI) Videos(context.Context, string, []string) ([]domain.Video, error) {
	f.videosCalls.Add(1)
	return f.videos, f.videosErr
}

type stubResolver struct {
	result domain.StatusResult
	calls  atomic.Int32
	gate   chan struct{}
	last   atomic.Value
}

func (s *stubResolver) Resolve(_ context.Context, req ResolveRequest) domain.StatusResult {
	s.calls.Add(1)
	s.last.Store(req)
	if s.gate != nil {
		<-s.gate
	}
	return s.result
}

type stubReleases struct {
	releases []domain.Release
	err      error
	calls    atomic.Int32
}

func (s *stubReleases) Releases(context.Context, string, string, bool) ([]domain.Release, error) {
	s.calls.Add(1)
	return s.releases, s.err
}

type recordingBus struct {
	mu     sync.Mutex
	topics []string
}

func (b *recordingBus) Publish(topic string, _ []byte) {
	b.mu.Lock()
	b.topics = append(b.topics, topic)
	b.mu.Unlock()
}

func (b *recordingBus) Subscribe() (<-chan ports.Event, func()) {
	ch := make(chan ports.Event)
	return ch, func() {}
}

func (b *recordingBus) Topics() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.topics...)
}

func liveVideo(id string) domain.Video {
	return domain.Video{ID: id, LiveBroadcastContent: "live", PrivacyStatus: "public", Embeddable: true}
}
