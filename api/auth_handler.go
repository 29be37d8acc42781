package api

import (
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jonasmwansa/portfolio-backend/errs"
	"github.com/jonasmwansa/portfolio-backend/services"
)

const (
	dashboardHome       = "/dashboard"
	loginFailedMessage  = "Invalid username or password"
	loginSuccessMessage = "Login successful"
)

type authHandler struct {
	responder    Responder
	logger       zerolog.Logger
	auth         *services.AuthService
	secureCookie bool
}

func newAuthHandler(auth *services.AuthService, secureCookie bool) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		auth:         auth,
		secureCookie: secureCookie,
	}
}

// LoginRequest carries dashboard credentials
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Next     string `json:"next"`
}

// LoginResponse is returned to AJAX login attempts
type LoginResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	RedirectURL string `json:"redirect_url,omitempty"`
}

type LoginPage struct {
	Next string `json:"next"`
}

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return dashboardHome
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return dashboardHome
	}
	return next
}

func isJSONRequest(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// @Router /dashboard/login [get]
func (h authHandler) loginPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		next := safeNext(r.URL.Query().Get("next"))
		if _, err := h.auth.Verify(sessionToken(r)); err == nil {
			http.Redirect(w, r, next, http.StatusFound)
			return
		}
		h.responder.WriteJSON(w, LoginPage{Next: next})
	}
}

// login checks the credentials and sets the session cookie. AJAX callers
// always get a 200 with a status field; other callers are redirected on
// success and get a 401 on failure.
// @Router /dashboard/login [post]
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if isJSONRequest(r) {
			if err := decodeJSONBody(w, r, h.logger, "login", &req); err != nil {
				h.responder.WriteError(w, err)
				return
			}
		} else {
			r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
			if err := r.ParseForm(); err != nil {
				h.responder.WriteError(w, errs.NewBadRequestError("failed to parse login form"))
				return
			}
			req = LoginRequest{
				Username: r.PostForm.Get("username"),
				Password: r.PostForm.Get("password"),
				Next:     r.PostForm.Get("next"),
			}
		}
		if req.Next == "" {
			req.Next = r.URL.Query().Get("next")
		}
		next := safeNext(req.Next)

		session, err := h.auth.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			if !errs.IsInvalidCredentials(err) {
				h.responder.WriteError(w, err)
				return
			}
			if isAJAX(r) {
				h.responder.WriteJSON(w, LoginResponse{Status: "error", Message: loginFailedMessage})
				return
			}
			h.responder.WriteError(w, err)
			return
		}

		h.setSessionCookie(w, session.Token, session.ExpiresAt)
		h.logger.Info().Str("username", session.User.Username).Msg("Admin logged in")

		if isAJAX(r) {
			h.responder.WriteJSON(w, LoginResponse{Status: "success", Message: loginSuccessMessage, RedirectURL: next})
			return
		}
		http.Redirect(w, r, next, http.StatusSeeOther)
	}
}

// @Router /dashboard/logout [post]
func (h authHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.setSessionCookie(w, "", time.Unix(0, 0))
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// setSessionCookie writes the session cookie; an empty token expires it.
func (h authHandler) setSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	cookie := &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
	if token == "" {
		cookie.MaxAge = -1
	}
	http.SetCookie(w, cookie)
}
