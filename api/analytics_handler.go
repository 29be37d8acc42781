package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jonasmwansa/portfolio-backend/database"
	"github.com/jonasmwansa/portfolio-backend/models"
)

const analyticsWindowDays = 30

type analyticsHandler struct {
	responder     Responder
	logger        zerolog.Logger
	analyticsRepo *database.AnalyticsRepo
}

func newAnalyticsHandler(analyticsRepo *database.AnalyticsRepo) analyticsHandler {
	logger := log.With().Str("handlerName", "analyticsHandler").Logger()

	return analyticsHandler{
		responder:     NewResponder(logger),
		logger:        logger,
		analyticsRepo: analyticsRepo,
	}
}

type AnalyticsTotals struct {
	PageViews              int64 `json:"page_views"`
	UniqueVisitors         int64 `json:"unique_visitors"`
	ContactFormSubmissions int64 `json:"contact_form_submissions"`
	ResumeDownloads        int64 `json:"resume_downloads"`
}

type AnalyticsReport struct {
	Days   []*models.PortfolioAnalytics `json:"days"`
	Totals AnalyticsTotals              `json:"totals"`
}

// @Router /dashboard/analytics [get]
func (h analyticsHandler) recent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days, err := h.analyticsRepo.Recent(r.Context(), analyticsWindowDays)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find analytics", "portfolio_analytics", err))
			return
		}

		report := AnalyticsReport{Days: days}
		for _, d := range days {
			report.Totals.PageViews += d.PageViews
			report.Totals.UniqueVisitors += d.UniqueVisitors
			report.Totals.ContactFormSubmissions += d.ContactFormSubmissions
			report.Totals.ResumeDownloads += d.ResumeDownloads
		}
		h.responder.WriteJSON(w, report)
	}
}
