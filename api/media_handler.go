package api

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jonasmwansa/portfolio-backend/errs"
	"github.com/jonasmwansa/portfolio-backend/services"
)

const maxUploadBytes = 10 << 20

type mediaHandler struct {
	responder Responder
	logger    zerolog.Logger
	media     services.MediaStore
}

func newMediaHandler(media services.MediaStore) mediaHandler {
	logger := log.With().Str("handlerName", "mediaHandler").Logger()

	return mediaHandler{
		responder: NewResponder(logger),
		logger:    logger,
		media:     media,
	}
}

// upload stores a multipart "file" under the folder named by "kind" and
// returns the path to put on the content row.
// @Router /dashboard/media [post]
func (h mediaHandler) upload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				h.responder.WriteError(w, errs.NewMaxBodySizeExceededError(maxBytesErr.Limit))
				return
			}
			h.responder.WriteError(w, errs.NewBadRequestError("expected a multipart upload"))
			return
		}

		kind := services.MediaKind(r.FormValue("kind"))
		file, header, err := r.FormFile("file")
		if err != nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("file"))
			return
		}
		defer file.Close()

		stored, err := h.media.Save(r.Context(), kind, header.Filename, header.Header.Get("Content-Type"), file)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		userID, _ := ctxGetUserID(r.Context())
		h.logger.Info().
			Str("path", stored.Path).
			Int64("size", header.Size).
			Str("userID", userID.String()).
			Msg("Media uploaded")
		h.responder.WriteJSONStatus(w, http.StatusCreated, stored)
	}
}
