package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jonasmwansa/portfolio-backend/database"
	"github.com/jonasmwansa/portfolio-backend/models"
)

type certificationHandler struct {
	responder         Responder
	logger            zerolog.Logger
	certificationRepo *database.CertificationRepo
}

func newCertificationHandler(certificationRepo *database.CertificationRepo) certificationHandler {
	logger := log.With().Str("handlerName", "certificationHandler").Logger()

	return certificationHandler{
		responder:         NewResponder(logger),
		logger:            logger,
		certificationRepo: certificationRepo,
	}
}

type CertificationCollection struct {
	Certifications []*models.Certification `json:"certifications"`
	Total          int                     `json:"total"`
}

func (h certificationHandler) getAllCertifications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		certifications, err := h.certificationRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find certifications", "certifications", err))
			return
		}

		h.responder.WriteJSON(w, CertificationCollection{Certifications: certifications, Total: len(certifications)})
	}
}

func (h certificationHandler) getCertification() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		certificationID, err := parseIDParam(r, "certificationID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		certification, err := h.certificationRepo.FindByID(r.Context(), certificationID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find certification", "certification", err))
			return
		}

		h.responder.WriteJSON(w, certification)
	}
}

func (h certificationHandler) createCertification() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		certification := models.NewCertification()
		if err := decodeJSONBody(w, r, h.logger, "certification", &certification); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		certification.ID = uuid.Nil

		if err := h.certificationRepo.Add(r.Context(), &certification); err != nil {
			h.responder.WriteStoreError(w, "create certification", "certification", err)
			return
		}

		// Reload so is_expired reflects the stored dates.
		created, err := h.certificationRepo.FindByID(r.Context(), certification.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find created certification", "certification", err))
			return
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, created)
	}
}

func (h certificationHandler) updateCertification() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		certificationID, err := parseIDParam(r, "certificationID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		certification, err := h.certificationRepo.FindByID(r.Context(), certificationID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find certification", "certification", err))
			return
		}

		if err := decodeJSONBody(w, r, h.logger, "certification", certification); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		certification.ID = certificationID

		if err := h.certificationRepo.Update(r.Context(), certification); err != nil {
			h.responder.WriteStoreError(w, "update certification", "certification", err)
			return
		}

		updated, err := h.certificationRepo.FindByID(r.Context(), certificationID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find updated certification", "certification", err))
			return
		}

		h.responder.WriteJSON(w, updated)
	}
}

func (h certificationHandler) deleteCertification() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		certificationID, err := parseIDParam(r, "certificationID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.certificationRepo.Delete(r.Context(), certificationID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete certification", "certification", err))
			return
		}

		h.responder.WriteJSON(w, StatusResponse{Status: "success", Message: "certification deleted successfully"})
	}
}
