package api

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonasmwansa/portfolio-backend/services"
)

func validSubmission() services.ContactSubmission {
	return services.ContactSubmission{
		Name:    "Ada Lovelace",
		Email:   "ada@example.com",
		Subject: "Collaboration",
		Message: "Would you like to work together?",
	}
}

func TestContactAJAXSuccess(t *testing.T) {
	env := newTestEnv(t)

	rec := env.sendJSON(http.MethodPost, "/contact", validSubmission())
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[ContactResponse](t, rec.Body)
	assert.True(t, resp.Success)
	assert.Equal(t, contactSentMessage, resp.Message)
	assert.Equal(t, 2, env.mailer.count())
	assert.EqualValues(t, 1, env.analytics().ContactFormSubmissions)
}

func TestContactRejectsEmptyMessage(t *testing.T) {
	env := newTestEnv(t)

	s := validSubmission()
	s.Message = "   "
	rec := env.sendJSON(http.MethodPost, "/contact", s)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decode[ContactResponse](t, rec.Body)
	assert.False(t, resp.Success)
	assert.Equal(t, "message", resp.Field)
	assert.Equal(t, "Please fill in all required fields.", resp.Message)
	assert.Zero(t, env.mailer.count())
}

func TestContactRejectsHeaderInjection(t *testing.T) {
	env := newTestEnv(t)

	s := validSubmission()
	s.Subject = "Hi\r\nBcc: victim@example.com"
	rec := env.sendJSON(http.MethodPost, "/contact", s)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decode[ContactResponse](t, rec.Body)
	assert.Equal(t, contactInvalidHeader, resp.Message)
	assert.Zero(t, env.mailer.count())
}

func TestContactTransportFailure(t *testing.T) {
	env := newTestEnv(t)
	env.mailer.fail = true

	rec := env.sendJSON(http.MethodPost, "/contact", validSubmission())
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	resp := decode[ContactResponse](t, rec.Body)
	assert.False(t, resp.Success)
	assert.Equal(t, contactTransportFailure, resp.Message)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestContactFormPost(t *testing.T) {
	env := newTestEnv(t)

	s := validSubmission()
	rec := env.postForm("/contact", url.Values{
		"name":    {s.Name},
		"email":   {s.Email},
		"subject": {s.Subject},
		"message": {s.Message},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[ContactResponse](t, rec.Body).Success)
	assert.Equal(t, 2, env.mailer.count())
}

func TestContactIsRateLimited(t *testing.T) {
	env := newTestEnv(t, map[string]string{"CONTACT_RATE_PER_MINUTE": "1"})

	require.Equal(t, http.StatusOK, env.sendJSON(http.MethodPost, "/contact", validSubmission()).Code)

	rec := env.sendJSON(http.MethodPost, "/contact", validSubmission())
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, contactTooManyRequests, decode[ContactResponse](t, rec.Body).Message)
	assert.Equal(t, 2, env.mailer.count())
}
