package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/church-livestream/cls/internal/app"
	"github.com/church-livestream/cls/internal/ports"
)

// Services regroupe les services applicatifs exposés par l'API.
type Services struct {
	Status   *app.StatusService
	Settings *app.SettingsService
	Embed    *app.EmbedService
	Updates  *app.UpdateService
	Bus      ports.EventBus
}

type Options struct {
	// AdminToken vide = routes admin ouvertes (déploiement derrière un proxy authentifiant).
	AdminToken string
	// StatusRateLimit: requêtes par minute et par IP sur /status (0 = pas de limite).
	StatusRateLimit int
	// Metrics est servi sur /metrics s'il est fourni.
	Metrics http.Handler
}

type Server struct {
	logger zerolog.Logger
	svc    Services
	opts   Options
}

func NewServer(logger zerolog.Logger, svc Services, opts Options) *Server {
	return &Server{logger: logger, svc: svc, opts: opts}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(hlog.NewHandler(s.logger))
	r.Use(hlog.RequestIDHandler("request_id", "Request-Id"))
	r.Use(hlog.RemoteAddrHandler("remote_ip"))
	r.Use(hlog.UserAgentHandler("user_agent"))
	r.Use(hlog.AccessHandler(accessLogFn))

	admin := requireAdmin(s.opts.AdminToken)

	// SSE: flux long, hors timeout.
	if s.svc.Bus != nil {
		r.Get("/api/v1/events", s.handleEvents)
	}
	if s.opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.opts.Metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(defaultRequestTimeout))

		if s.svc.Embed != nil {
			NewEmbedHandler(s.svc.Embed).PageRoutes(r)
		}

		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/health", s.handleHealth)
			r.Get("/version", s.handleVersion)
			r.Get("/openapi.json", s.handleOpenAPI)

			if s.svc.Status != nil {
				NewStatusHandler(s.svc.Status, s.opts.AdminToken, s.opts.StatusRateLimit).Routes(r)
			}
			if s.svc.Embed != nil {
				NewEmbedHandler(s.svc.Embed).Routes(r)
			}
			r.Group(func(r chi.Router) {
				r.Use(admin)
				if s.svc.Settings != nil {
					NewSettingsHandler(s.svc.Settings).Routes(r)
				}
				if s.svc.Updates != nil {
					NewUpdatesHandler(s.svc.Updates).Routes(r)
				}
			})
		})
	})

	return r
}

const statusRateWindow = time.Minute
