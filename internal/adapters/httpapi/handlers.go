package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/hlog"

	"github.com/church-livestream/cls/internal/app"
	"github.com/church-livestream/cls/internal/buildinfo"
	"github.com/church-livestream/cls/internal/httpjson"
)

const defaultRequestTimeout = 30 * time.Second

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httpjson.Write(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	httpjson.Write(w, http.StatusOK, buildinfo.Current())
}

func accessLogFn(r *http.Request, status, size int, duration time.Duration) {
	logger := hlog.FromRequest(r)
	logger.Info().
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("http")
}

// writeAppError traduit les erreurs applicatives en statut HTTP.
func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	var coded *app.CodedError
	if errors.As(err, &coded) {
		status := http.StatusInternalServerError
		switch coded.Code {
		case app.CodeInvalidJSON:
			status = http.StatusBadRequest
		case app.CodeUpdatesDisabled, app.CodeRepoMissing:
			status = http.StatusConflict
		case app.CodeReleaseUnavailable:
			status = http.StatusBadGateway
		}
		// Le message public n'inclut pas l'erreur amont (URL, jeton).
		httpjson.WriteCodedError(w, status, coded.Code, coded.Message)
		return
	}
	hlog.FromRequest(r).Error().Err(err).Msg("request failed")
	httpjson.WriteError(w, http.StatusInternalServerError, "internal error")
}
