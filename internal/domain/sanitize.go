package domain

import (
	"math"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var (
	tagPattern         = regexp.MustCompile(`<[^>]*>`)
	spacePattern       = regexp.MustCompile(`\s+`)
	aspectPattern      = regexp.MustCompile(`^(\d{1,3})\s*[:/]\s*(\d{1,3})$`)
	classStripPattern  = regexp.MustCompile(`[^A-Za-z0-9_\-\s]`)
	langTagPattern     = regexp.MustCompile(`^[A-Za-z]{2,3}(?:-[A-Za-z0-9]{2,8}){0,2}$`)
	hexColorPattern    = regexp.MustCompile(`^#([A-Fa-f0-9]{3}){1,2}$`)
	githubRepoPattern  = regexp.MustCompile(`^[A-Za-z0-9._-]+/[A-Za-z0-9._-]+$`)
	queryKeyStrip      = regexp.MustCompile(`[^A-Za-z0-9_\-]`)
	defaultAspectRatio = "16:9"
)

var ReferrerPolicies = []string{
	"",
	"no-referrer",
	"no-referrer-when-downgrade",
	"origin",
	"origin-when-cross-origin",
	"same-origin",
	"strict-origin",
	"strict-origin-when-cross-origin",
	"unsafe-url",
}

// Sanitize normalise tous les champs (bornes, listes fermées, formats).
func (s Settings) Sanitize() Settings {
	d := DefaultSettings()

	s.Timezone = textOr(s.Timezone, d.Timezone)
	s.ChannelID = SanitizeText(s.ChannelID)
	s.PlaylistID = SanitizeText(s.PlaylistID)
	s.APIKey = SanitizeText(s.APIKey)

	s.CacheTTLSeconds = max(10, s.CacheTTLSeconds)
	s.PollIntervalSeconds = max(30, s.PollIntervalSeconds)
	s.LookbackCount = ClampLookback(s.LookbackCount)
	s.UploadsCacheTTLSeconds = max(3600, s.UploadsCacheTTLSeconds)

	s.Schedule = SanitizeSchedule(s.Schedule)
	s.OneTimeEvents = SanitizeOneTimeEvents(s.OneTimeEvents)

	s.PlayerMaxWidth = textOr(s.PlayerMaxWidth, d.PlayerMaxWidth)
	s.PlayerAspectRatio = SanitizeAspectRatio(s.PlayerAspectRatio)
	s.PlayerFixedHeightPx = min(max(s.PlayerFixedHeightPx, 0), 2160)
	s.PlayerBorderRadiusPx = min(max(s.PlayerBorderRadiusPx, 0), 200)
	s.PlayerBoxShadow = SanitizeText(s.PlayerBoxShadow)
	s.PlayerBackground = SanitizeHexColor(s.PlayerBackground, d.PlayerBackground)
	s.PlayerWrapperClass = SanitizeClassList(s.PlayerWrapperClass)
	s.PlayerIframeClass = SanitizeClassList(s.PlayerIframeClass)
	s.PlayerFrameTitle = textOr(s.PlayerFrameTitle, d.PlayerFrameTitle)
	s.PlayerLoading = choice(s.PlayerLoading, []string{"eager", "lazy"}, d.PlayerLoading)
	s.PlayerReferrerPolicy = choice(s.PlayerReferrerPolicy, ReferrerPolicies, d.PlayerReferrerPolicy)
	s.PlayerAllow = textOr(s.PlayerAllow, d.PlayerAllow)

	if s.PlayerIvLoadPolicy != 1 {
		s.PlayerIvLoadPolicy = 3
	}
	s.PlayerColor = choice(s.PlayerColor, []string{"red", "white"}, d.PlayerColor)
	s.PlayerStartSeconds = max(0, s.PlayerStartSeconds)
	s.PlayerEndSeconds = max(0, s.PlayerEndSeconds)
	if s.PlayerEndSeconds > 0 && s.PlayerEndSeconds <= s.PlayerStartSeconds {
		s.PlayerEndSeconds = 0
	}
	s.PlayerHl = SanitizeLangTag(s.PlayerHl)
	s.PlayerCcLangPref = SanitizeLangTag(s.PlayerCcLangPref)
	s.PlayerOriginMode = choice(s.PlayerOriginMode, []string{"auto", "off", "custom"}, d.PlayerOriginMode)
	s.PlayerOriginCustom = SanitizeOriginURL(s.PlayerOriginCustom)
	if s.PlayerOriginMode != "custom" {
		s.PlayerOriginCustom = ""
	}
	s.PlayerCustomParams = SanitizeEmbedQuery(s.PlayerCustomParams)

	// Live démarré en muet: garder les contrôles pour pouvoir réactiver le son.
	if s.PlayerMuteLive {
		s.PlayerControls = true
	}

	s.GitHubRepo = SanitizeGitHubRepo(s.GitHubRepo)
	s.GitHubToken = SanitizeText(s.GitHubToken)
	s.GitHubCacheTTLSeconds = max(300, s.GitHubCacheTTLSeconds)
	s.GitHubAssetName = SanitizeText(s.GitHubAssetName)

	return s
}

// SanitizeText retire les balises et normalise les espaces.
func SanitizeText(v string) string {
	v = tagPattern.ReplaceAllString(v, "")
	v = spacePattern.ReplaceAllString(v, " ")
	return strings.TrimSpace(v)
}

func textOr(v, def string) string {
	if clean := SanitizeText(v); clean != "" {
		return clean
	}
	return def
}

func choice(v string, allowed []string, def string) string {
	clean := SanitizeText(v)
	if slices.Contains(allowed, clean) {
		return clean
	}
	return def
}

func SanitizeHexColor(v, def string) string {
	clean := strings.TrimSpace(v)
	if hexColorPattern.MatchString(clean) {
		return clean
	}
	return def
}

// SanitizeAspectRatio accepte "16:9" ou "16/9", sinon 16:9.
func SanitizeAspectRatio(v string) string {
	m := aspectPattern.FindStringSubmatch(strings.TrimSpace(v))
	if m == nil {
		return defaultAspectRatio
	}
	w, _ := strconv.Atoi(m[1])
	h, _ := strconv.Atoi(m[2])
	if w <= 0 || h <= 0 {
		return defaultAspectRatio
	}
	return strconv.Itoa(w) + ":" + strconv.Itoa(h)
}

// AspectPaddingPercent convertit un ratio en padding-top CSS (16:9 = 56.25).
func AspectPaddingPercent(ratio string) float64 {
	m := aspectPattern.FindStringSubmatch(strings.TrimSpace(ratio))
	if m == nil {
		return 56.25
	}
	w, _ := strconv.Atoi(m[1])
	h, _ := strconv.Atoi(m[2])
	if w <= 0 || h <= 0 {
		return 56.25
	}
	return math.Round(float64(h)/float64(w)*100*10000) / 10000
}

func SanitizeClassList(v string) string {
	clean := classStripPattern.ReplaceAllString(v, "")
	return spacePattern.ReplaceAllString(strings.TrimSpace(clean), " ")
}

func SanitizeLangTag(v string) string {
	clean := strings.TrimSpace(v)
	if clean == "" || !langTagPattern.MatchString(clean) {
		return ""
	}
	return clean
}

// SanitizeOriginURL réduit une URL http(s) à son origine scheme://host[:port].
func SanitizeOriginURL(v string) string {
	u, err := url.Parse(strings.TrimSpace(v))
	if err != nil {
		return ""
	}
	scheme := strings.ToLower(u.Scheme)
	if (scheme != "http" && scheme != "https") || u.Hostname() == "" {
		return ""
	}
	origin := scheme + "://" + strings.ToLower(u.Hostname())
	if port := u.Port(); port != "" {
		origin += ":" + port
	}
	return origin
}

// SanitizeEmbedQuery nettoie une query string libre ajoutée à l'URL d'embed.
func SanitizeEmbedQuery(v string) string {
	raw := strings.TrimLeft(strings.TrimSpace(v), "?&")
	if raw == "" {
		return ""
	}
	parsed, err := url.ParseQuery(raw)
	if err != nil {
		return ""
	}
	clean := url.Values{}
	for key, vals := range parsed {
		if strings.Contains(key, "[") || len(vals) == 0 {
			continue
		}
		k := queryKeyStrip.ReplaceAllString(key, "")
		if k == "" {
			continue
		}
		clean.Set(k, SanitizeText(vals[len(vals)-1]))
	}
	if len(clean) == 0 {
		return ""
	}
	return strings.ReplaceAll(clean.Encode(), "+", "%20")
}

func SanitizeGitHubRepo(v string) string {
	clean := strings.TrimSpace(v)
	if !githubRepoPattern.MatchString(clean) {
		return ""
	}
	return clean
}

// MaskSecret renvoie un aperçu masqué ne montrant que les derniers caractères.
func MaskSecret(v string, visibleTail int) string {
	raw := strings.TrimSpace(v)
	if raw == "" {
		return "Not set"
	}
	n := len(raw)
	if visibleTail <= 0 || n <= visibleTail {
		return strings.Repeat("*", max(8, n))
	}
	return strings.Repeat("*", max(8, n-visibleTail)) + raw[n-visibleTail:]
}
