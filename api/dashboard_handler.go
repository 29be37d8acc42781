package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jonasmwansa/portfolio-backend/services"
)

type dashboardHandler struct {
	responder Responder
	logger    zerolog.Logger
	dashboard *services.DashboardService
}

func newDashboardHandler(dashboard *services.DashboardService) dashboardHandler {
	logger := log.With().Str("handlerName", "dashboardHandler").Logger()

	return dashboardHandler{
		responder: NewResponder(logger),
		logger:    logger,
		dashboard: dashboard,
	}
}

// overview always answers 200. Metrics that could not be read come back with
// their fallback values and are listed under "degraded".
// @Router /dashboard [get]
func (h dashboardHandler) overview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, h.dashboard.Overview(r.Context()))
	}
}
