package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonasmwansa/portfolio-backend/errs"
	"github.com/jonasmwansa/portfolio-backend/models"
)

type fakeMailer struct {
	mu     sync.Mutex
	sent   []Message
	failTo string
}

func (m *fakeMailer) Send(_ context.Context, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failTo != "" && msg.To[0] == m.failTo {
		return errors.New("connection refused")
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) byRecipient() map[string]Message {
	out := map[string]Message{}
	for _, msg := range m.sent {
		out[msg.To[0]] = msg
	}
	return out
}

type fakeRecorder struct {
	mu       sync.Mutex
	counters []models.AnalyticsCounter
	err      error
}

func (r *fakeRecorder) Record(_ context.Context, counter models.AnalyticsCounter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counters = append(r.counters, counter)
	return r.err
}

func newRelay(t *testing.T, m Mailer, rec CounterRecorder) *ContactRelay {
	t.Helper()
	relay, err := NewContactRelay(m, ContactConfig{
		OwnerEmail: "owner@example.com",
		FromEmail:  "noreply@example.com",
	}, rec)
	require.NoError(t, err)
	return relay
}

func validSubmission() ContactSubmission {
	return ContactSubmission{
		Name:    "Ada Lovelace",
		Email:   "ada@example.com",
		Subject: "Collaboration",
		Message: "Let's build <something>\nsoon & well.",
	}
}

func TestContactSubmitSendsTwoEmails(t *testing.T) {
	mailer := &fakeMailer{}
	rec := &fakeRecorder{}

	require.NoError(t, newRelay(t, mailer, rec).Submit(context.Background(), validSubmission()))

	require.Len(t, mailer.sent, 2)
	assert.Equal(t, "owner@example.com", mailer.sent[0].To[0], "owner is notified first")
	assert.Equal(t, "ada@example.com", mailer.sent[1].To[0])

	sent := mailer.byRecipient()
	owner := sent["owner@example.com"]
	assert.Equal(t, "Portfolio Contact: Collaboration", owner.Subject)
	assert.Equal(t, "ada@example.com", owner.ReplyTo)
	assert.Equal(t, "noreply@example.com", owner.From)
	for _, want := range []string{"Ada Lovelace", "ada@example.com", "Collaboration", "Let's build <something>"} {
		assert.Contains(t, owner.Text, want)
	}
	assert.NotContains(t, owner.HTML, "<something>")
	assert.Contains(t, owner.HTML, "Let&#39;s build &lt;something&gt;<br>soon &amp; well.")

	ack := sent["ada@example.com"]
	assert.Equal(t, "Thank you for contacting Jonas", ack.Subject)
	assert.Contains(t, ack.Text, "Hi Ada Lovelace")
	assert.Contains(t, ack.Text, "Subject: Collaboration")
	assert.Contains(t, ack.HTML, "&lt;something&gt;")

	assert.Equal(t, []models.AnalyticsCounter{models.CounterContactFormSubmissions}, rec.counters)
}

func TestContactSubmitRejectsEmptyFields(t *testing.T) {
	for _, field := range []string{"name", "email", "subject", "message"} {
		t.Run(field, func(t *testing.T) {
			s := validSubmission()
			switch field {
			case "name":
				s.Name = "  "
			case "email":
				s.Email = ""
			case "subject":
				s.Subject = "\t"
			case "message":
				s.Message = ""
			}
			mailer := &fakeMailer{}
			rec := &fakeRecorder{}

			err := newRelay(t, mailer, rec).Submit(context.Background(), s)
			v, ok := errs.AsValidation(err)
			require.True(t, ok, "got %v", err)
			assert.Equal(t, field, v.Field)
			assert.Empty(t, mailer.sent)
			assert.Empty(t, rec.counters)
		})
	}
}

func TestContactSubmitRejectsHeaderInjection(t *testing.T) {
	s := validSubmission()
	s.Subject = "Hello\r\nBcc: victim@example.com"
	mailer := &fakeMailer{}

	err := newRelay(t, mailer, nil).Submit(context.Background(), s)
	require.Error(t, err)
	assert.True(t, errs.IsInvalidHeader(err))
	assert.Empty(t, mailer.sent)
}

func TestContactSubmitRejectsBadAddress(t *testing.T) {
	s := validSubmission()
	s.Email = "not-an-address"
	mailer := &fakeMailer{}

	err := newRelay(t, mailer, nil).Submit(context.Background(), s)
	v, ok := errs.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "email", v.Field)
	assert.Empty(t, mailer.sent)
}

func TestContactSubmitTransportFailure(t *testing.T) {
	mailer := &fakeMailer{failTo: "owner@example.com"}
	rec := &fakeRecorder{}

	err := newRelay(t, mailer, rec).Submit(context.Background(), validSubmission())
	require.Error(t, err)
	assert.True(t, errs.IsMailTransport(err))

	var transport *errs.MailTransportError
	require.ErrorAs(t, err, &transport)
	assert.Equal(t, "owner@example.com", transport.Recipient)
	assert.Empty(t, mailer.sent, "no acknowledgement without an owner notification")
	assert.Empty(t, rec.counters)
}

func TestContactSubmitAcknowledgementFailure(t *testing.T) {
	mailer := &fakeMailer{failTo: "ada@example.com"}
	rec := &fakeRecorder{}

	err := newRelay(t, mailer, rec).Submit(context.Background(), validSubmission())

	var transport *errs.MailTransportError
	require.ErrorAs(t, err, &transport)
	assert.Equal(t, "ada@example.com", transport.Recipient)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "owner@example.com", mailer.sent[0].To[0])
	assert.Empty(t, rec.counters)
}

func TestContactSubmitKeepsAngleBrackets(t *testing.T) {
	s := validSubmission()
	s.Subject = "Generics <T>"
	s.Message = "List<String> and Map<K,V> and x<y>z"
	mailer := &fakeMailer{}

	require.NoError(t, newRelay(t, mailer, nil).Submit(context.Background(), s))

	sent := mailer.byRecipient()
	for _, msg := range []Message{sent["owner@example.com"], sent["ada@example.com"]} {
		assert.Contains(t, msg.HTML, "List&lt;String&gt; and Map&lt;K,V&gt; and x&lt;y&gt;z")
		assert.Contains(t, msg.HTML, "Generics &lt;T&gt;")
		assert.NotContains(t, msg.HTML, "<String>")
	}
}

func TestNewContactRelayRequiresAddresses(t *testing.T) {
	_, err := NewContactRelay(&fakeMailer{}, ContactConfig{FromEmail: "noreply@example.com"}, nil)
	require.ErrorIs(t, err, errs.ErrConfigMissing)
	assert.Contains(t, err.Error(), "CONTACT_OWNER_EMAIL")

	resend, err := NewResendMailer("re_test")
	require.NoError(t, err)
	_, err = NewContactRelay(resend, ContactConfig{OwnerEmail: "owner@example.com"}, nil)
	require.ErrorIs(t, err, errs.ErrConfigMissing)
	assert.Contains(t, err.Error(), "DEFAULT_FROM_EMAIL")

	relay, err := NewContactRelay(&fakeMailer{}, ContactConfig{OwnerEmail: "owner@example.com"}, nil)
	require.NoError(t, err)
	assert.NotNil(t, relay)
}

func TestContactRecorderFailureIsSwallowed(t *testing.T) {
	mailer := &fakeMailer{}
	rec := &fakeRecorder{err: errors.New("database is locked")}

	require.NoError(t, newRelay(t, mailer, rec).Submit(context.Background(), validSubmission()))
	assert.Len(t, mailer.sent, 2)
}

func TestResendMailerSend(t *testing.T) {
	var got ResendEmailRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"email_123"}`))
	}))
	defer server.Close()

	mailer, err := NewResendMailer("re_test", WithResendEndpoint(server.URL))
	require.NoError(t, err)

	err = mailer.Send(context.Background(), Message{
		From:    "noreply@example.com",
		To:      []string{"owner@example.com"},
		ReplyTo: "ada@example.com",
		Subject: "Portfolio Contact: hi",
		Text:    "hello",
		HTML:    "<p>hello</p>",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"owner@example.com"}, got.To)
	assert.Equal(t, "ada@example.com", got.ReplyTo)
	assert.Equal(t, "<p>hello</p>", got.Html)
}

func TestResendMailerErrors(t *testing.T) {
	_, err := NewResendMailer("")
	assert.ErrorIs(t, err, errs.ErrConfigMissing)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/denied") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"invalid from address"}`))
	}))
	defer server.Close()

	msg := Message{From: "x@example.com", To: []string{"y@example.com"}, Subject: "s", Text: "t"}

	mailer, err := NewResendMailer("re_test", WithResendEndpoint(server.URL+"/emails"))
	require.NoError(t, err)
	err = mailer.Send(context.Background(), msg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid from address")

	denied, err := NewResendMailer("re_test", WithResendEndpoint(server.URL+"/denied"))
	require.NoError(t, err)
	assert.ErrorIs(t, denied.Send(context.Background(), msg), errs.ErrInvalidAPIKey)

	assert.Error(t, mailer.Send(context.Background(), Message{From: "x@example.com"}))
}

func TestLogMailerHonoursCancellation(t *testing.T) {
	m := NewLogMailer(zerolog.Nop())
	require.NoError(t, m.Send(context.Background(), Message{To: []string{"a@example.com"}}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.Send(ctx, Message{}), context.Canceled)
}
