package domain

import (
	"regexp"
	"strings"
	"time"
)

type ReleaseAsset struct {
	Name        string
	DownloadURL string
}

// Release est une release GitHub telle que renvoyée par l'API.
type Release struct {
	TagName     string
	Name        string
	HTMLURL     string
	Body        string
	Draft       bool
	Prerelease  bool
	PublishedAt time.Time
	ZipballURL  string
	Assets      []ReleaseAsset
}

// ReleaseInfo est la vue exposée par le canal de mises à jour.
type ReleaseInfo struct {
	Version     string    `json:"version"`
	Tag         string    `json:"tag"`
	Name        string    `json:"name"`
	HTMLURL     string    `json:"htmlUrl"`
	DownloadURL string    `json:"downloadUrl"`
	PublishedAt time.Time `json:"publishedAt"`
	Body        string    `json:"body"`
	Prerelease  bool      `json:"prerelease"`
}

var versionStrip = regexp.MustCompile(`[^0-9A-Za-z.\-+]`)

// NormalizeVersion: "v1.2.3" -> "1.2.3", caractères exotiques retirés.
func NormalizeVersion(tag string) string {
	v := strings.TrimSpace(tag)
	v = strings.TrimPrefix(strings.TrimPrefix(v, "v"), "V")
	return versionStrip.ReplaceAllString(v, "")
}

// SelectRelease prend la première release publiable dans l'ordre de l'API.
func SelectRelease(releases []Release, includePrerelease bool) (Release, bool) {
	for _, r := range releases {
		if r.Draft {
			continue
		}
		if r.Prerelease && !includePrerelease {
			continue
		}
		if strings.TrimSpace(r.TagName) == "" {
			continue
		}
		return r, true
	}
	return Release{}, false
}

// PackageURL choisit l'asset nommé, sinon le premier .zip, sinon le zipball.
func (r Release) PackageURL(assetName string) string {
	if assetName != "" {
		for _, a := range r.Assets {
			if a.Name == assetName && a.DownloadURL != "" {
				return a.DownloadURL
			}
		}
	}
	for _, a := range r.Assets {
		if strings.HasSuffix(strings.ToLower(a.Name), ".zip") && a.DownloadURL != "" {
			return a.DownloadURL
		}
	}
	return r.ZipballURL
}

func (r Release) Info(assetName string) ReleaseInfo {
	return ReleaseInfo{
		Version:     NormalizeVersion(r.TagName),
		Tag:         r.TagName,
		Name:        r.Name,
		HTMLURL:     r.HTMLURL,
		DownloadURL: r.PackageURL(assetName),
		PublishedAt: r.PublishedAt,
		Body:        r.Body,
		Prerelease:  r.Prerelease,
	}
}
