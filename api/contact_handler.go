package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jonasmwansa/portfolio-backend/errs"
	"github.com/jonasmwansa/portfolio-backend/services"
)

const (
	contactSentMessage        = "Your message has been sent successfully! I will get back to you soon."
	contactInvalidHeader      = "Invalid header found. Please try again."
	contactTransportFailure   = "There was an error sending your message. Please try again later."
	contactTooManyRequests    = "Too many messages. Please wait a minute and try again."
	contactFallbackValidation = "Please fill in all required fields."
)

type contactHandler struct {
	responder Responder
	logger    zerolog.Logger
	relay     *services.ContactRelay
}

func newContactHandler(relay *services.ContactRelay) contactHandler {
	logger := log.With().Str("handlerName", "contactHandler").Logger()

	return contactHandler{
		responder: NewResponder(logger),
		logger:    logger,
		relay:     relay,
	}
}

// ContactResponse is the body of every contact form reply.
type ContactResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// submit relays a contact form. AJAX and JSON callers send JSON; plain form
// posts are read from the form body. Both get the same JSON reply.
// @Router /contact [post]
func (h contactHandler) submit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var submission services.ContactSubmission
		if isAJAX(r) || isJSONRequest(r) {
			if err := decodeJSONBody(w, r, h.logger, "contact", &submission); err != nil {
				h.reply(w, http.StatusBadRequest, ContactResponse{Message: contactFallbackValidation})
				return
			}
		} else {
			r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
			if err := r.ParseForm(); err != nil {
				h.reply(w, http.StatusBadRequest, ContactResponse{Message: contactFallbackValidation})
				return
			}
			submission = services.ContactSubmission{
				Name:    r.PostForm.Get("name"),
				Email:   r.PostForm.Get("email"),
				Subject: r.PostForm.Get("subject"),
				Message: r.PostForm.Get("message"),
			}
		}

		err := h.relay.Submit(r.Context(), submission)
		switch {
		case err == nil:
			h.reply(w, http.StatusOK, ContactResponse{Success: true, Message: contactSentMessage})
		case errs.IsInvalidHeader(err):
			h.reply(w, http.StatusBadRequest, ContactResponse{Message: contactInvalidHeader})
		case errs.IsValidation(err):
			validationErr, _ := errs.AsValidation(err)
			h.reply(w, http.StatusBadRequest, ContactResponse{Message: validationErr.Reason, Field: validationErr.Field})
		default:
			h.logger.Error().Err(err).Msg("Failed to relay contact message")
			h.reply(w, http.StatusInternalServerError, ContactResponse{Message: contactTransportFailure})
		}
	}
}

// tooManyRequests answers submissions rejected by the rate limiter.
func (h contactHandler) tooManyRequests() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.reply(w, http.StatusTooManyRequests, ContactResponse{Message: contactTooManyRequests})
	}
}

func (h contactHandler) reply(w http.ResponseWriter, status int, body ContactResponse) {
	h.responder.WriteJSONStatus(w, status, body)
}
