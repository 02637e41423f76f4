package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/church-livestream/cls/internal/app"
	"github.com/church-livestream/cls/internal/httpjson"
)

type UpdatesHandler struct {
	updates *app.UpdateService
}

func NewUpdatesHandler(updates *app.UpdateService) *UpdatesHandler {
	return &UpdatesHandler{updates: updates}
}

func (h *UpdatesHandler) Routes(r chi.Router) {
	r.Get("/updates", h.check)
}

func (h *UpdatesHandler) check(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("force") == "1"
	st, err := h.updates.Check(r.Context(), force)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	httpjson.NoStore(w)
	httpjson.Write(w, http.StatusOK, st)
}
