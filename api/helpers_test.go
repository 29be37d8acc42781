package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jonasmwansa/portfolio-backend/database"
	"github.com/jonasmwansa/portfolio-backend/database/dbtest"
	"github.com/jonasmwansa/portfolio-backend/models"
	"github.com/jonasmwansa/portfolio-backend/services"
)

const (
	testAdmin    = "admin"
	testPassword = "correct horse battery staple"
)

var testNow = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

type fakeMailer struct {
	mu   sync.Mutex
	sent []services.Message
	fail bool
}

func (m *fakeMailer) Send(_ context.Context, msg services.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("smtp: connection refused")
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type testEnv struct {
	t       *testing.T
	handler http.Handler
	db      database.Database
	mailer  *fakeMailer
	cookie  *http.Cookie
}

func newTestEnv(t *testing.T, overrides ...map[string]string) *testEnv {
	t.Helper()

	db := dbtest.New(t)
	auth, err := services.NewAuthService(db.AdminUserRepo(), "test-secret", time.Hour, services.WithBcryptCost(bcrypt.MinCost))
	require.NoError(t, err)
	_, err = auth.SeedAdmin(context.Background(), testAdmin, testPassword)
	require.NoError(t, err)

	cfg := map[string]string{
		"CONTACT_OWNER_EMAIL":     "owner@example.com",
		"DEFAULT_FROM_EMAIL":      "site@example.com",
		"CONTACT_RATE_PER_MINUTE": "100",
		"LOGIN_RATE_PER_MINUTE":   "100",
	}
	for _, o := range overrides {
		for k, v := range o {
			cfg[k] = v
		}
	}

	mailer := &fakeMailer{}
	recorder := services.NewAnalyticsRecorder(db.AnalyticsRepo(), services.WithAnalyticsClock(func() time.Time { return testNow }))
	contact, err := services.NewContactRelay(mailer, services.ContactConfig{
		OwnerEmail: cfg["CONTACT_OWNER_EMAIL"],
		FromEmail:  cfg["DEFAULT_FROM_EMAIL"],
	}, recorder)
	require.NoError(t, err)

	deps := Dependencies{
		Database: db,
		Auth:     auth,
		Contact:  contact,
		Media:    services.NewLocalMediaStore(t.TempDir(), "/media/"),
		Recorder: recorder,
		Config:   cfg,
	}

	return &testEnv{
		t:       t,
		handler: newRouter(deps, withConfig(cfg), withStartupTime(testNow)),
		db:      db,
		mailer:  mailer,
	}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	e.t.Helper()
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) get(path string) *httptest.ResponseRecorder {
	return e.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (e *testEnv) sendJSON(method, path string, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(e.t, err)

	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	if e.cookie != nil {
		req.AddCookie(e.cookie)
	}
	return e.do(req)
}

func (e *testEnv) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(req)
}

// authedGet issues a GET carrying the session cookie from login.
func (e *testEnv) authedGet(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if e.cookie != nil {
		req.AddCookie(e.cookie)
	}
	return e.do(req)
}

// login signs in as the seeded admin and keeps the session cookie.
func (e *testEnv) login() {
	e.t.Helper()
	rec := e.sendJSON(http.MethodPost, "/dashboard/login", LoginRequest{Username: testAdmin, Password: testPassword})
	require.Equal(e.t, http.StatusOK, rec.Code)

	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName {
			e.cookie = c
		}
	}
	require.NotNil(e.t, e.cookie, "login did not set a session cookie")
}

func (e *testEnv) analytics() *models.PortfolioAnalytics {
	e.t.Helper()
	row, err := e.db.AnalyticsRepo().ForDate(context.Background(), models.Today(testNow))
	require.NoError(e.t, err)
	return row
}

func decode[T any](t *testing.T, r io.Reader) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(r).Decode(&v))
	return v
}
