package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jonasmwansa/portfolio-backend/database"
)

type settingsHandler struct {
	responder    Responder
	logger       zerolog.Logger
	settingsRepo *database.SiteSettingsRepo
}

func newSettingsHandler(settingsRepo *database.SiteSettingsRepo) settingsHandler {
	logger := log.With().Str("handlerName", "settingsHandler").Logger()

	return settingsHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		settingsRepo: settingsRepo,
	}
}

// @Router /dashboard/settings [get]
func (h settingsHandler) getSettings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings, err := h.settingsRepo.Get(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "site_settings", err))
			return
		}

		h.responder.WriteJSON(w, settings)
	}
}

// @Router /dashboard/settings [put]
func (h settingsHandler) updateSettings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings, err := h.settingsRepo.Get(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "site_settings", err))
			return
		}

		if err := decodeJSONBody(w, r, h.logger, "site settings", settings); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		saved, err := h.settingsRepo.Save(r.Context(), settings)
		if err != nil {
			h.responder.WriteStoreError(w, "save", "site_settings", err)
			return
		}

		h.responder.WriteJSON(w, saved)
	}
}
