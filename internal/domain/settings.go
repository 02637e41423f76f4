package domain

// Profil "low quota": planchers/plafonds appliqués à la lecture.
const (
	LowQuotaCacheTTLSeconds   = 600
	LowQuotaPollSeconds       = 300
	LowQuotaUploadsTTLSeconds = 604800
	LowQuotaLookbackMax       = 10
)

const (
	MinLookback = 3
	MaxLookback = 25
)

type Settings struct {
	Enabled  bool   `json:"enabled"`
	Timezone string `json:"timezone"`

	// YouTube.
	ChannelID  string `json:"channelId"`
	PlaylistID string `json:"playlistId"`
	APIKey     string `json:"apiKey"`

	// Cache / polling (secondes).
	CacheTTLSeconds        int  `json:"cacheTtlSeconds"`
	PollIntervalSeconds    int  `json:"pollIntervalSeconds"`
	LookbackCount          int  `json:"lookbackCount"`
	UploadsCacheTTLSeconds int  `json:"uploadsCacheTtlSeconds"`
	LowQuotaMode           bool `json:"lowQuotaMode"`

	Schedule      []ScheduleRule `json:"schedule"`
	OneTimeEvents []OneTimeEvent `json:"oneTimeEvents"`

	ChatShowUpcoming bool `json:"chatShowUpcoming"`

	// Rendu du player.
	PlayerMaxWidth        string `json:"playerMaxWidth"`
	PlayerAspectRatio     string `json:"playerAspectRatio"`
	PlayerFixedHeightPx   int    `json:"playerFixedHeightPx"`
	PlayerBorderRadiusPx  int    `json:"playerBorderRadiusPx"`
	PlayerBoxShadow       string `json:"playerBoxShadow"`
	PlayerBackground      string `json:"playerBackground"`
	PlayerWrapperClass    string `json:"playerWrapperClass"`
	PlayerIframeClass     string `json:"playerIframeClass"`
	PlayerFrameTitle      string `json:"playerFrameTitle"`
	PlayerLoading         string `json:"playerLoading"`
	PlayerReferrerPolicy  string `json:"playerReferrerPolicy"`
	PlayerAllow           string `json:"playerAllow"`
	PlayerAllowFullscreen bool   `json:"playerAllowFullscreen"`

	// Paramètres d'embed YouTube.
	PlayerControls          bool   `json:"playerControls"`
	PlayerAutoplayLive      bool   `json:"playerAutoplayLive"`
	PlayerForceLiveAutoplay bool   `json:"playerForceLiveAutoplay"`
	PlayerAutoplayPlaylist  bool   `json:"playerAutoplayPlaylist"`
	PlayerMuteLive          bool   `json:"playerMuteLive"`
	PlayerMutePlaylist      bool   `json:"playerMutePlaylist"`
	PlayerLoop              bool   `json:"playerLoop"`
	PlayerRel               bool   `json:"playerRel"`
	PlayerFs                bool   `json:"playerFs"`
	PlayerModestBranding    bool   `json:"playerModestBranding"`
	PlayerDisableKb         bool   `json:"playerDisableKb"`
	PlayerIvLoadPolicy      int    `json:"playerIvLoadPolicy"`
	PlayerCcLoadPolicy      bool   `json:"playerCcLoadPolicy"`
	PlayerColor             string `json:"playerColor"`
	PlayerPlaysInline       bool   `json:"playerPlaysInline"`
	PlayerStartSeconds      int    `json:"playerStartSeconds"`
	PlayerEndSeconds        int    `json:"playerEndSeconds"`
	PlayerHl                string `json:"playerHl"`
	PlayerCcLangPref        string `json:"playerCcLangPref"`
	PlayerOriginMode        string `json:"playerOriginMode"`
	PlayerOriginCustom      string `json:"playerOriginCustom"`
	PlayerCustomParams      string `json:"playerCustomParams"`

	// Canal de mises à jour (releases GitHub).
	GitHubUpdatesEnabled    bool   `json:"githubUpdatesEnabled"`
	GitHubRepo              string `json:"githubRepo"`
	GitHubToken             string `json:"githubToken"`
	GitHubIncludePrerelease bool   `json:"githubIncludePrerelease"`
	GitHubCacheTTLSeconds   int    `json:"githubCacheTtlSeconds"`
	GitHubAssetName         string `json:"githubAssetName"`
}

func DefaultSettings() Settings {
	return Settings{
		Enabled:                true,
		Timezone:               "America/Toronto",
		CacheTTLSeconds:        120,
		PollIntervalSeconds:    120,
		LookbackCount:          15,
		UploadsCacheTTLSeconds: 86400,
		Schedule:               []ScheduleRule{},
		OneTimeEvents:          []OneTimeEvent{},
		ChatShowUpcoming:       true,

		PlayerMaxWidth:        "100%",
		PlayerAspectRatio:     "16:9",
		PlayerBackground:      "#000000",
		PlayerFrameTitle:      "YouTube livestream player",
		PlayerLoading:         "eager",
		PlayerReferrerPolicy:  "strict-origin-when-cross-origin",
		PlayerAllow:           "autoplay; encrypted-media; picture-in-picture; fullscreen",
		PlayerAllowFullscreen: true,

		PlayerControls:          true,
		PlayerAutoplayLive:      true,
		PlayerForceLiveAutoplay: true,
		PlayerMuteLive:          true,
		PlayerFs:                true,
		PlayerModestBranding:    true,
		PlayerIvLoadPolicy:      3,
		PlayerColor:             "red",
		PlayerPlaysInline:       true,
		PlayerOriginMode:        "auto",

		GitHubCacheTTLSeconds: 21600,
	}
}

// Effective applique le profil low quota. Le résultat n'est jamais persisté.
func (s Settings) Effective() Settings {
	if !s.LowQuotaMode {
		return s
	}
	s.CacheTTLSeconds = max(s.CacheTTLSeconds, LowQuotaCacheTTLSeconds)
	s.PollIntervalSeconds = max(s.PollIntervalSeconds, LowQuotaPollSeconds)
	s.UploadsCacheTTLSeconds = max(s.UploadsCacheTTLSeconds, LowQuotaUploadsTTLSeconds)
	s.LookbackCount = min(max(s.LookbackCount, MinLookback), LowQuotaLookbackMax)
	return s
}

// HasCredentials: clé API et chaîne sont nécessaires pour interroger YouTube.
func (s Settings) HasCredentials() bool {
	return s.APIKey != "" && s.ChannelID != ""
}

// ClampLookback borne le nombre d'uploads inspectés à [3, 25].
func ClampLookback(n int) int {
	return min(max(n, MinLookback), MaxLookback)
}
