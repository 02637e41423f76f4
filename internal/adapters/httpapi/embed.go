package httpapi

import (
	"embed"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/xid"
	"github.com/rs/zerolog/hlog"

	"github.com/church-livestream/cls/internal/app"
	"github.com/church-livestream/cls/internal/domain"
	"github.com/church-livestream/cls/internal/httpjson"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const (
	playerStatePath = "/api/v1/embed/player"
	chatStatePath   = "/api/v1/embed/chat"
	maxPlayerHeight = 2160
)

type EmbedHandler struct {
	embed *app.EmbedService
}

func NewEmbedHandler(embed *app.EmbedService) *EmbedHandler {
	return &EmbedHandler{embed: embed}
}

// PageRoutes monte les pages HTML intégrables en iframe.
func (h *EmbedHandler) PageRoutes(r chi.Router) {
	r.Get("/embed/player", h.playerPage)
	r.Get("/embed/chat", h.chatPage)
}

// Routes monte les états JSON interrogés par les pages.
func (h *EmbedHandler) Routes(r chi.Router) {
	r.Get("/embed/player", h.playerState)
	r.Get("/embed/chat", h.chatState)
}

type playerPage struct {
	Config       app.PlayerConfig
	WrapperStyle template.CSS
	FrameStyle   template.CSS
	Src          string
	PlaylistSrc  string
	StateURL     string
	PollSeconds  int
}

type chatPage struct {
	FrameID        string
	OfflineID      string
	Height         int
	Visible        bool
	Src            string
	OfflineMessage string
	StateURL       string
	PollSeconds    int
}

func (h *EmbedHandler) playerPage(w http.ResponseWriter, r *http.Request) {
	site := requestOrigin(r)
	height := min(max(queryInt(r, "height"), 0), maxPlayerHeight)

	pc, err := h.embed.Player(r.Context(), site, height)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	state, err := h.embed.PlayerState(r.Context(), site)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	src := state.Src
	if src == "" {
		src = "about:blank"
	}
	h.render(w, r, "player.html", playerPage{
		Config:       pc,
		WrapperStyle: template.CSS(pc.WrapperStyle),
		FrameStyle:   template.CSS(pc.FrameStyle),
		Src:          src,
		PlaylistSrc:  pc.PlaylistSrc(),
		StateURL:     playerStatePath,
		PollSeconds:  pc.PollSeconds,
	})
}

func (h *EmbedHandler) chatPage(w http.ResponseWriter, r *http.Request) {
	site := requestOrigin(r)
	cfg, err := h.embed.Settings(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	state, err := h.embed.ChatState(r.Context(), site)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	msg := domain.SanitizeText(r.URL.Query().Get("offline_message"))
	if msg == "" {
		msg = app.DefaultOfflineMessage
	}
	uid := xid.New().String()
	h.render(w, r, "chat.html", chatPage{
		FrameID:        "cls-chat-" + uid + "-frame",
		OfflineID:      "cls-chat-" + uid + "-offline",
		Height:         app.ChatHeight(queryInt(r, "height")),
		Visible:        state.Visible,
		Src:            state.Src,
		OfflineMessage: msg,
		StateURL:       chatStatePath,
		PollSeconds:    cfg.PollIntervalSeconds,
	})
}

func (h *EmbedHandler) playerState(w http.ResponseWriter, r *http.Request) {
	st, err := h.embed.PlayerState(r.Context(), requestOrigin(r))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	httpjson.NoStore(w)
	httpjson.Write(w, http.StatusOK, st)
}

func (h *EmbedHandler) chatState(w http.ResponseWriter, r *http.Request) {
	st, err := h.embed.ChatState(r.Context(), requestOrigin(r))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	httpjson.NoStore(w)
	httpjson.Write(w, http.StatusOK, st)
}

func (h *EmbedHandler) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	httpjson.NoStore(w)
	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("template", name).Msg("render failed")
	}
}

// requestOrigin reconstruit scheme://host, en tenant compte d'un proxy TLS.
func requestOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func queryInt(r *http.Request, key string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return v
}
