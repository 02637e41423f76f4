package domain

import "testing"

func TestNormalizeVersion(t *testing.T) {
	cases := map[string]string{
		"v1.4.0":       "1.4.0",
		"1.4.0-beta.1": "1.4.0-beta.1",
		" v2.0.0 ":     "2.0.0",
		"v1.0 (final)": "1.0final",
	}
	for in, want := range cases {
		if got := NormalizeVersion(in); got != want {
			t.Fatalf("NormalizeVersion(%q): want %q, got %q", in, want, got)
		}
	}
}

func TestSelectRelease(t *testing.T) {
	releases := []Release{
		{TagName: "v2.0.0-rc1", Draft: true},
		{TagName: "v1.9.0-beta", Prerelease: true},
		{TagName: "v1.8.0"},
	}
	got, ok := SelectRelease(releases, false)
	if !ok || got.TagName != "v1.8.0" {
		t.Fatalf("stable: want v1.8.0, got %q (ok=%v)", got.TagName, ok)
	}
	got, ok = SelectRelease(releases, true)
	if !ok || got.TagName != "v1.9.0-beta" {
		t.Fatalf("prerelease: want v1.9.0-beta, got %q (ok=%v)", got.TagName, ok)
	}
	if _, ok := SelectRelease([]Release{{TagName: "v1", Draft: true}}, true); ok {
		t.Fatalf("drafts only: want none")
	}
}

func TestRelease_PackageURL(t *testing.T) {
	r := Release{
		ZipballURL: "https://api.github.com/zipball/v1",
		Assets: []ReleaseAsset{
			{Name: "checksums.txt", DownloadURL: "https://dl/checksums.txt"},
			{Name: "cls-linux.ZIP", DownloadURL: "https://dl/cls-linux.zip"},
			{Name: "cls-full.zip", DownloadURL: "https://dl/cls-full.zip"},
		},
	}
	if got := r.PackageURL("cls-full.zip"); got != "https://dl/cls-full.zip" {
		t.Fatalf("named asset: got %q", got)
	}
	if got := r.PackageURL(""); got != "https://dl/cls-linux.zip" {
		t.Fatalf("first zip: got %q", got)
	}
	if got := (Release{ZipballURL: "z"}).PackageURL("missing.zip"); got != "z" {
		t.Fatalf("zipball fallback: got %q", got)
	}
}
