package app

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/xid"

	"github.com/church-livestream/cls/internal/domain"
)

const (
	youtubeEmbedBase      = "https://www.youtube.com/embed/"
	youtubeChatBase       = "https://www.youtube.com/live_chat"
	DefaultChatHeight     = 600
	MinChatHeight         = 240
	DefaultOfflineMessage = "Live chat is available when the stream is live."
	frameStyle            = "position:absolute;inset:0;width:100%;height:100%;border:0;"
)

// PlayerConfig regroupe tout ce qu'il faut pour rendre le player et choisir son src.
type PlayerConfig struct {
	Enabled     bool
	PlaylistID  string
	PollSeconds int

	LiveParams     url.Values
	PlaylistParams url.Values
	CustomParams   url.Values
	Loop           bool

	FrameID         string
	WrapperClass    string
	WrapperStyle    string
	IframeClass     string
	FrameStyle      string
	FrameTitle      string
	Loading         string
	ReferrerPolicy  string
	Allow           string
	AllowFullscreen bool
}

// NewPlayerConfig construit la configuration à partir des réglages effectifs.
// siteOrigin sert au mode d'origine "auto"; heightOverride > 0 remplace la hauteur fixe.
func NewPlayerConfig(s domain.Settings, siteOrigin string, heightOverride int) PlayerConfig {
	common := url.Values{}
	common.Set("controls", flag(s.PlayerControls))
	common.Set("rel", flag(s.PlayerRel))
	common.Set("fs", flag(s.PlayerFs))
	common.Set("modestbranding", flag(s.PlayerModestBranding))
	common.Set("disablekb", flag(s.PlayerDisableKb))
	common.Set("iv_load_policy", "3")
	if s.PlayerIvLoadPolicy == 1 {
		common.Set("iv_load_policy", "1")
	}
	common.Set("cc_load_policy", flag(s.PlayerCcLoadPolicy))
	common.Set("color", "red")
	if s.PlayerColor == "white" {
		common.Set("color", "white")
	}
	common.Set("playsinline", flag(s.PlayerPlaysInline))
	common.Set("enablejsapi", "1")
	if origin := playerOrigin(s, siteOrigin); origin != "" {
		common.Set("origin", origin)
	}
	if hl := domain.SanitizeLangTag(s.PlayerHl); hl != "" {
		common.Set("hl", hl)
	}
	if cc := domain.SanitizeLangTag(s.PlayerCcLangPref); cc != "" {
		common.Set("cc_lang_pref", cc)
	}

	start := max(0, s.PlayerStartSeconds)
	end := max(0, s.PlayerEndSeconds)
	if end > 0 && end <= start {
		end = 0
	}

	live := cloneValues(common)
	live.Set("autoplay", flag(s.PlayerAutoplayLive))
	live.Set("mute", flag(s.PlayerMuteLive))
	if s.PlayerForceLiveAutoplay {
		// Les navigateurs n'autorisent l'autoplay qu'en muet.
		live.Set("autoplay", "1")
		live.Set("mute", "1")
	}
	if live.Get("mute") == "1" {
		live.Set("controls", "1")
	}
	if start > 0 {
		live.Set("start", strconv.Itoa(start))
	}
	if end > 0 {
		live.Set("end", strconv.Itoa(end))
	}

	playlist := cloneValues(common)
	playlist.Set("autoplay", flag(s.PlayerAutoplayPlaylist))
	playlist.Set("mute", flag(s.PlayerMutePlaylist))

	custom, _ := url.ParseQuery(domain.SanitizeEmbedQuery(s.PlayerCustomParams))

	return PlayerConfig{
		Enabled:         s.Enabled,
		PlaylistID:      s.PlaylistID,
		PollSeconds:     s.PollIntervalSeconds,
		LiveParams:      live,
		PlaylistParams:  playlist,
		CustomParams:    custom,
		Loop:            s.PlayerLoop,
		FrameID:         "cls-yt-" + xid.New().String() + "-frame",
		WrapperClass:    strings.TrimSpace("cls-yt-wrap " + domain.SanitizeClassList(s.PlayerWrapperClass)),
		WrapperStyle:    wrapperStyle(s, heightOverride),
		IframeClass:     strings.TrimSpace("cls-yt-frame " + domain.SanitizeClassList(s.PlayerIframeClass)),
		FrameStyle:      frameStyle,
		FrameTitle:      s.PlayerFrameTitle,
		Loading:         s.PlayerLoading,
		ReferrerPolicy:  s.PlayerReferrerPolicy,
		Allow:           s.PlayerAllow,
		AllowFullscreen: s.PlayerAllowFullscreen,
	}
}

// Src choisit l'URL d'iframe pour un statut. Sans vidéo exploitable,
// on retombe sur la playlist ("" si aucune playlist n'est configurée).
func (c PlayerConfig) Src(mode domain.Mode, videoID string) string {
	if (mode == domain.ModeLive || mode == domain.ModeUpcoming) && videoID != "" {
		return c.VideoSrc(videoID)
	}
	return c.PlaylistSrc()
}

func (c PlayerConfig) PlaylistSrc() string {
	if c.PlaylistID == "" {
		return ""
	}
	p := cloneValues(c.PlaylistParams)
	if c.Loop {
		p.Set("loop", "1")
	}
	p.Set("list", c.PlaylistID)
	applyValues(p, c.CustomParams)
	return youtubeEmbedBase + "videoseries?" + p.Encode()
}

func (c PlayerConfig) VideoSrc(videoID string) string {
	if videoID == "" {
		return ""
	}
	p := cloneValues(c.LiveParams)
	if c.Loop {
		p.Set("loop", "1")
		p.Set("playlist", videoID)
	}
	applyValues(p, c.CustomParams)
	return youtubeEmbedBase + url.PathEscape(videoID) + "?" + p.Encode()
}

// ChatVisible: le chat s'affiche pendant un live, et pendant un upcoming si demandé.
func ChatVisible(st StatusResponse, showUpcoming bool) bool {
	if !st.InWindow || st.VideoID == nil || *st.VideoID == "" {
		return false
	}
	switch st.Mode {
	case domain.ModeLive:
		return true
	case domain.ModeUpcoming:
		return showUpcoming
	default:
		return false
	}
}

func ChatSrc(videoID, embedDomain string) string {
	q := url.Values{}
	q.Set("v", videoID)
	q.Set("embed_domain", embedDomain)
	return youtubeChatBase + "?" + q.Encode()
}

// ChatHeight applique le plancher de 240 px (600 par défaut).
func ChatHeight(requested int) int {
	if requested <= 0 {
		return DefaultChatHeight
	}
	return max(MinChatHeight, requested)
}

func wrapperStyle(s domain.Settings, heightOverride int) string {
	height := max(0, s.PlayerFixedHeightPx)
	if heightOverride > 0 {
		height = heightOverride
	}

	maxWidth := s.PlayerMaxWidth
	if maxWidth == "" {
		maxWidth = "100%"
	}
	styles := []string{
		"position:relative",
		"width:100%",
		"max-width:" + maxWidth,
		"margin:0 auto",
		"background:" + domain.SanitizeHexColor(s.PlayerBackground, "#000000"),
	}
	if height > 0 {
		styles = append(styles, "height:"+strconv.Itoa(height)+"px")
	} else {
		pad := domain.AspectPaddingPercent(s.PlayerAspectRatio)
		styles = append(styles, "padding-top:"+strconv.FormatFloat(pad, 'f', -1, 64)+"%")
	}
	if r := min(max(s.PlayerBorderRadiusPx, 0), 200); r > 0 {
		styles = append(styles, "border-radius:"+strconv.Itoa(r)+"px", "overflow:hidden")
	}
	if s.PlayerBoxShadow != "" {
		styles = append(styles, "box-shadow:"+s.PlayerBoxShadow)
	}
	return strings.Join(styles, ";") + ";"
}

func playerOrigin(s domain.Settings, siteOrigin string) string {
	switch s.PlayerOriginMode {
	case "off":
		return ""
	case "custom":
		return domain.SanitizeOriginURL(s.PlayerOriginCustom)
	default:
		return domain.SanitizeOriginURL(siteOrigin)
	}
}

// EmbedDomain extrait l'hôte attendu par le paramètre embed_domain du chat.
func EmbedDomain(siteURL string) string {
	u, err := url.Parse(strings.TrimSpace(siteURL))
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}

func applyValues(dst, src url.Values) {
	for k := range src {
		if k == "" {
			continue
		}
		dst.Set(k, src.Get(k))
	}
}

// EmbedService fournit aux pages d'embed la configuration et l'état courant.
type EmbedService struct {
	settings *SettingsService
	status   *StatusService
	siteURL  string
}

func NewEmbedService(settings *SettingsService, status *StatusService, siteURL string) *EmbedService {
	return &EmbedService{settings: settings, status: status, siteURL: siteURL}
}

// SiteURL renvoie l'URL publique configurée, ou fallback si elle est vide.
func (e *EmbedService) SiteURL(fallback string) string {
	if e.siteURL != "" {
		return e.siteURL
	}
	return fallback
}

type PlayerState struct {
	InWindow bool        `json:"inWindow"`
	Mode     domain.Mode `json:"mode"`
	VideoID  *string     `json:"videoId"`
	Src      string      `json:"src"`
}

type ChatState struct {
	Visible bool        `json:"visible"`
	Mode    domain.Mode `json:"mode"`
	Src     string      `json:"src,omitempty"`
}

func (e *EmbedService) Player(ctx context.Context, siteURL string, heightOverride int) (PlayerConfig, error) {
	cfg, err := e.settings.Effective(ctx)
	if err != nil {
		return PlayerConfig{}, err
	}
	return NewPlayerConfig(cfg, e.SiteURL(siteURL), heightOverride), nil
}

func (e *EmbedService) PlayerState(ctx context.Context, siteURL string) (PlayerState, error) {
	pc, err := e.Player(ctx, siteURL, 0)
	if err != nil {
		return PlayerState{}, err
	}
	st, err := e.status.Status(ctx, false)
	if err != nil {
		return PlayerState{}, err
	}
	id := ""
	if st.VideoID != nil {
		id = *st.VideoID
	}
	return PlayerState{InWindow: st.InWindow, Mode: st.Mode, VideoID: st.VideoID, Src: pc.Src(st.Mode, id)}, nil
}

func (e *EmbedService) ChatState(ctx context.Context, siteURL string) (ChatState, error) {
	cfg, err := e.settings.Effective(ctx)
	if err != nil {
		return ChatState{}, err
	}
	st, err := e.status.Status(ctx, false)
	if err != nil {
		return ChatState{}, err
	}
	out := ChatState{Mode: st.Mode}
	if ChatVisible(st, cfg.ChatShowUpcoming) {
		out.Visible = true
		out.Src = ChatSrc(*st.VideoID, EmbedDomain(e.SiteURL(siteURL)))
	}
	return out, nil
}

func (e *EmbedService) Settings(ctx context.Context) (domain.Settings, error) {
	return e.settings.Effective(ctx)
}
