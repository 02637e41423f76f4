package app

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/church-livestream/cls/internal/domain"
)

func TestStatusTTL_Tiers(t *testing.T) {
	now := time.Date(2026, 10, 18, 15, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		res  domain.StatusResult
		base int
		want time.Duration
	}{
		{"playlist uses base", domain.PlaylistResult("", domain.ErrorTypeNone), 120, 120 * time.Second},
		{"base floor", domain.PlaylistResult("", domain.ErrorTypeNone), 3, 10 * time.Second},
		{"upcoming capped", domain.UpcomingResult("u"), 120, 30 * time.Second},
		{"upcoming small base", domain.UpcomingResult("u"), 15, 15 * time.Second},
		{"live capped", domain.LiveResult("l"), 120, 20 * time.Second},
		{"live floor", domain.LiveResult("l"), 1, 10 * time.Second},
		{"api error uses base", domain.PlaylistResult("x", domain.ErrorTypeAPI), 120, 120 * time.Second},
	}
	for _, tc := range cases {
		if got := StatusTTL(tc.res, tc.base, now); got != tc.want {
			t.Fatalf("%s: want %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestStatusTTL_QuotaUntilPacificMidnight(t *testing.T) {
	la, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}
	quota := domain.PlaylistResult("quota", domain.ErrorTypeQuota)

	now := time.Date(2026, 10, 18, 21, 0, 0, 0, la)
	if got := StatusTTL(quota, 120, now); got != 3*time.Hour {
		t.Fatalf("21:00 PT: want 3h, got %s", got)
	}

	// Cinq minutes avant minuit: plancher de 600 s.
	now = time.Date(2026, 10, 18, 23, 55, 0, 0, la)
	if got := StatusTTL(quota, 120, now); got != 600*time.Second {
		t.Fatalf("23:55 PT: want 600s, got %s", got)
	}
}

func TestUploadsCacheKey_PerChannel(t *testing.T) {
	if UploadsCacheKey("UC1") == UploadsCacheKey("UC2") {
		t.Fatalf("uploads cache key must differ per channel")
	}
}
