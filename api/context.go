package api

import (
	"context"

	"github.com/google/uuid"

	"github.com/jonasmwansa/portfolio-backend/models"
)

type keyType string

const (
	userIDKey   keyType = "userID"
	settingsKey keyType = "siteSettings"
)

// ctxWithUserID adds the authenticated admin user ID to the context
func ctxWithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// ctxGetUserID retrieves the admin user ID placed by the auth middleware
func ctxGetUserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok
}

func ctxWithSettings(ctx context.Context, settings *models.SiteSettings) context.Context {
	return context.WithValue(ctx, settingsKey, settings)
}

// ctxGetSettings returns the settings loaded for this request, or the
// defaults when the loader did not run.
func ctxGetSettings(ctx context.Context) *models.SiteSettings {
	if s, ok := ctx.Value(settingsKey).(*models.SiteSettings); ok && s != nil {
		return s
	}
	defaults := models.DefaultSiteSettings()
	return &defaults
}
