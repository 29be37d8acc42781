package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jonasmwansa/portfolio-backend/database"
	"github.com/jonasmwansa/portfolio-backend/models"
)

type skillHandler struct {
	responder Responder
	logger    zerolog.Logger
	skillRepo *database.SkillRepo
}

func newSkillHandler(skillRepo *database.SkillRepo) skillHandler {
	logger := log.With().Str("handlerName", "skillHandler").Logger()

	return skillHandler{
		responder: NewResponder(logger),
		logger:    logger,
		skillRepo: skillRepo,
	}
}

type SkillCollection struct {
	Skills []*models.Skill `json:"skills"`
	Total  int             `json:"total"`
}

func (h skillHandler) getAllSkills() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skills, err := h.skillRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find skills", "skills", err))
			return
		}

		h.responder.WriteJSON(w, SkillCollection{Skills: skills, Total: len(skills)})
	}
}

func (h skillHandler) getSkill() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skillID, err := parseIDParam(r, "skillID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		skill, err := h.skillRepo.FindByID(r.Context(), skillID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find skill", "skill", err))
			return
		}

		h.responder.WriteJSON(w, skill)
	}
}

// createSkill rejects proficiency outside [1, 100] rather than clamping it.
func (h skillHandler) createSkill() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skill := models.NewSkill()
		if err := decodeJSONBody(w, r, h.logger, "skill", &skill); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		skill.ID = uuid.Nil

		if err := h.skillRepo.Add(r.Context(), &skill); err != nil {
			h.responder.WriteStoreError(w, "create skill", "skill", err)
			return
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, skill)
	}
}

func (h skillHandler) updateSkill() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skillID, err := parseIDParam(r, "skillID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		skill, err := h.skillRepo.FindByID(r.Context(), skillID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find skill", "skill", err))
			return
		}

		if err := decodeJSONBody(w, r, h.logger, "skill", skill); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		skill.ID = skillID

		if err := h.skillRepo.Update(r.Context(), skill); err != nil {
			h.responder.WriteStoreError(w, "update skill", "skill", err)
			return
		}

		h.responder.WriteJSON(w, skill)
	}
}

func (h skillHandler) deleteSkill() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skillID, err := parseIDParam(r, "skillID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.skillRepo.Delete(r.Context(), skillID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete skill", "skill", err))
			return
		}

		h.responder.WriteJSON(w, StatusResponse{Status: "success", Message: "skill deleted successfully"})
	}
}
