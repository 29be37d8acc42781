package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jonasmwansa/portfolio-backend/database"
	"github.com/jonasmwansa/portfolio-backend/errs"
	"github.com/jonasmwansa/portfolio-backend/models"
)

type aboutHandler struct {
	responder Responder
	logger    zerolog.Logger
	aboutRepo *database.AboutRepo
}

func newAboutHandler(aboutRepo *database.AboutRepo) aboutHandler {
	logger := log.With().Str("handlerName", "aboutHandler").Logger()

	return aboutHandler{
		responder: NewResponder(logger),
		logger:    logger,
		aboutRepo: aboutRepo,
	}
}

// @Router /dashboard/about [get]
func (h aboutHandler) getAbout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		about, err := h.aboutRepo.Find(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "about", err))
			return
		}
		if about == nil {
			h.responder.WriteError(w, errs.NewNotFound("about"))
			return
		}

		h.responder.WriteJSON(w, about)
	}
}

// updateAbout writes the profile, creating it on first save. Fields missing
// from the body keep their stored values.
// @Router /dashboard/about [put]
func (h aboutHandler) updateAbout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		about, err := h.aboutRepo.Find(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "about", err))
			return
		}
		if about == nil {
			about = &models.About{}
		}

		if err := decodeJSONBody(w, r, h.logger, "about", about); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		saved, err := h.aboutRepo.Upsert(r.Context(), about)
		if err != nil {
			h.responder.WriteStoreError(w, "save", "about", err)
			return
		}

		h.responder.WriteJSON(w, saved)
	}
}
