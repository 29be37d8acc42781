package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestNewDatabaseErrorStatus(t *testing.T) {
	tests := []struct {
		name  string
		cause error
		want  int
	}{
		{"duplicate", errors.New("UNIQUE constraint failed: blog_posts.slug"), http.StatusConflict},
		{"not found", errors.New("record not found"), http.StatusNotFound},
		{"connection", errors.New("dial tcp: connection refused"), http.StatusServiceUnavailable},
		{"other", errors.New("syntax error"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDatabaseError("find", "blog_post", tt.cause)
			assert.Equal(t, tt.want, err.StatusCode)
			assert.Equal(t, tt.cause, err.Cause)
		})
	}
}

func TestValidationErrorSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("saving skill: %w", NewValidationError("proficiency", "must be between 1 and 100"))

	v, ok := AsValidation(err)
	assert.True(t, ok)
	assert.Equal(t, "proficiency", v.Field)
	assert.Equal(t, http.StatusBadRequest, v.ApiErr().StatusCode)
	assert.True(t, IsValidation(err))
}

func TestMailTransportErrorHidesCause(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.1:587: i/o timeout")
	err := NewMailTransportError("owner@example.com", cause)

	assert.True(t, IsMailTransport(err))
	assert.ErrorIs(t, err, cause)

	apiErr := err.ApiErr()
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.NotContains(t, apiErr.Message(), "10.0.0.1")
}

func TestInvalidHeaderAndCredentials(t *testing.T) {
	assert.True(t, IsInvalidHeader(NewInvalidHeaderError("subject")))
	assert.True(t, IsInvalidCredentials(NewInvalidCredentialsError()))
	assert.Equal(t, http.StatusUnauthorized, NewInvalidCredentialsError().StatusCode)
}

func TestTooManyRequests(t *testing.T) {
	err := NewTooManyRequestsError()
	assert.True(t, IsTooManyRequests(err))
	assert.Equal(t, http.StatusTooManyRequests, err.StatusCode)
	assert.Equal(t, "too many requests", err.Message())
}

func TestConfigErrorsNameTheKey(t *testing.T) {
	missing := NewConfigMissingError("CONTACT_OWNER_EMAIL")
	assert.ErrorIs(t, missing, ErrConfigMissing)
	assert.Contains(t, missing.Error(), "CONTACT_OWNER_EMAIL")

	invalid := NewConfigInvalidError("DB_TYPE", "unsupported database type \"mysql\"")
	assert.ErrorIs(t, invalid, ErrConfigInvalid)
	assert.Contains(t, invalid.Error(), "DB_TYPE")
}

func TestIsDuplicateKey(t *testing.T) {
	assert.True(t, IsDuplicateKey(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey)))
	assert.True(t, IsDuplicateKey(errors.New(`ERROR: duplicate key value violates unique constraint "idx_blog_posts_slug"`)))
	assert.False(t, IsDuplicateKey(gorm.ErrRecordNotFound))
	assert.False(t, IsDuplicateKey(nil))
}
