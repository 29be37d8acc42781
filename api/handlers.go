package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jonasmwansa/portfolio-backend/config"
	"github.com/jonasmwansa/portfolio-backend/errs"
	"github.com/jonasmwansa/portfolio-backend/services"
)

const maxJSONBodyBytes = 1 << 20

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps Dependencies) *routeHandlers {
	db := deps.Database
	markdown := services.NewMarkdownRenderer()

	return &routeHandlers{
		publicHandler:        newPublicHandler(db, deps.Media, markdown, deps.Recorder),
		contactHandler:       newContactHandler(deps.Contact),
		authHandler:          newAuthHandler(deps.Auth, !config.GetBool(deps.Config, "DEBUG", false)),
		dashboardHandler:     newDashboardHandler(services.NewDashboardService(db.ContentReader())),
		projectHandler:       newProjectHandler(db.ProjectRepo()),
		skillHandler:         newSkillHandler(db.SkillRepo()),
		certificationHandler: newCertificationHandler(db.CertificationRepo()),
		blogPostHandler:      newBlogPostHandler(db.BlogPostRepo(), markdown),
		aboutHandler:         newAboutHandler(db.AboutRepo()),
		settingsHandler:      newSettingsHandler(db.SiteSettingsRepo()),
		analyticsHandler:     newAnalyticsHandler(db.AnalyticsRepo()),
		mediaHandler:         newMediaHandler(deps.Media),
	}
}

// parseIDParam reads a UUID path parameter.
func parseIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return uuid.Nil, errs.NewBadRequestError("missing " + name)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.NewBadRequestError("invalid " + name)
	}
	return id, nil
}

// decodeJSONBody decodes the request body onto dst. Fields absent from the
// body keep whatever dst already holds.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, logger zerolog.Logger, payloadName string, dst any) error {
	bodyBytes, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBodyBytes))
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return errs.NewMaxBodySizeExceededError(maxBytesErr.Limit)
		}
		logger.Error().Err(err).Msg("Failed to read request body")
		return errs.NewBadRequestError("failed to read request body")
	}

	if err := json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(dst); err != nil {
		logger.Error().Err(err).Str("body", string(bodyBytes)).Msgf("Failed to decode %s request body", payloadName)
		return errs.NewMalformedPayloadError(payloadName, err)
	}
	return nil
}

func isAJAX(r *http.Request) bool {
	return r.Header.Get("X-Requested-With") == "XMLHttpRequest"
}
