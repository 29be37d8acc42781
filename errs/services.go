package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Mail & Third-Party Service Errors
var (
	ErrInvalidHeader      = errors.New("invalid header found")
	ErrMailTransport      = errors.New("mail transport failed")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrInvalidAPIKey      = errors.New("invalid API key")
)

// Configuration & Environment Errors
var (
	ErrConfigMissing = errors.New("configuration missing")
	ErrConfigInvalid = errors.New("configuration invalid")
)

// MailTransportError wraps a failed delivery. The cause is for logs only and
// is never rendered to the client.
type MailTransportError struct {
	Recipient string
	Cause     error
}

func NewMailTransportError(recipient string, cause error) *MailTransportError {
	return &MailTransportError{Recipient: recipient, Cause: cause}
}

func (e *MailTransportError) Error() string {
	return fmt.Sprintf("sending mail to %s: %v", e.Recipient, e.Cause)
}

func (e *MailTransportError) Unwrap() []error {
	return []error{ErrMailTransport, e.Cause}
}

// ApiErr converts the transport failure into the generic client-facing error.
func (e *MailTransportError) ApiErr() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrMailTransport,
		Cause:      e,
	}
}

func NewInvalidHeaderError(field string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrInvalidHeader,
		Field:      field,
	}
}

// NewMaintenanceError is returned for public pages while maintenance mode is on.
func NewMaintenanceError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrServiceUnavailable,
		Details:    "The site is under maintenance. Please check back soon.",
	}
}

func NewConfigMissingError(key string) error {
	return fmt.Errorf("%w: %s", ErrConfigMissing, key)
}

func NewConfigInvalidError(key, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrConfigInvalid, key, reason)
}

func IsInvalidHeader(err error) bool {
	return errors.Is(err, ErrInvalidHeader)
}

func IsMailTransport(err error) bool {
	return errors.Is(err, ErrMailTransport)
}
