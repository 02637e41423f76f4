package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/church-livestream/cls/internal/app"
	"github.com/church-livestream/cls/internal/httpjson"
)

type StatusHandler struct {
	status     *app.StatusService
	adminToken string
	perMinute  int
}

func NewStatusHandler(status *app.StatusService, adminToken string, perMinute int) *StatusHandler {
	return &StatusHandler{status: status, adminToken: adminToken, perMinute: perMinute}
}

func (h *StatusHandler) Routes(r chi.Router) {
	if h.perMinute > 0 {
		r = r.With(httprate.LimitByIP(h.perMinute, statusRateWindow))
	}
	r.Get("/status", h.get)
}

// get: ?debug=1 n'est honoré que pour un appelant admin.
func (h *StatusHandler) get(w http.ResponseWriter, r *http.Request) {
	debug := r.URL.Query().Get("debug") == "1" && hasAdminToken(r, h.adminToken)

	st, err := h.status.Status(r.Context(), debug)
	httpjson.NoStore(w)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, st)
}
