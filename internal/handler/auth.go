package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/byteserenity/blog/internal/auth"
	"github.com/byteserenity/blog/internal/service"
)

// AuthHandler is the HTTP boundary of the identity core.
//
// The auth routes take form posts (they back the signup/login/reset pages);
// failures come back as the standard JSON error body. Success on the
// navigation flows is a redirect, matching the original page flow:
// signup → login page, login/logout → home.
//
//	POST /auth/signup                 → 303 /auth/login | 400 | 409
//	POST /auth/login                  → session cookie + 303 / | 400 | 401 | 503
//	POST /auth/logout                 → cookie cleared + 303 /
//	POST /auth/forgot-password        → {message} 200 | 400
//	POST /auth/reset-password/{token} → {message} 200 | 400
//	GET  /api/me                      → current user (gated)
//	PUT  /api/me/profile              → updated user (gated)
type AuthHandler struct {
	svc    *service.AuthService
	logger *slog.Logger
}

func NewAuthHandler(svc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, logger: logger}
}

// HandleSignup registers a new account and redirects to the login page.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	_, err := h.svc.Signup(r.Context(),
		r.FormValue("username"),
		r.FormValue("email"),
		r.FormValue("password"),
		r.FormValue("confirm_password"),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	http.Redirect(w, r, auth.LoginPath, http.StatusSeeOther)
}

// HandleLogin authenticates and issues the session cookie.
//
// The cookie is HttpOnly (scripts can't read it) and SameSite=Lax; its
// MaxAge mirrors the server-side session lifetime. The token value is an
// opaque random UUID - everything it stands for lives in the sessions table.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	token, _, err := h.svc.Login(r.Context(),
		r.FormValue("email"),
		r.FormValue("password"),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(service.SessionLifetime.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		// Secure: true, // production (HTTPS) deployments
	})

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleLogout clears the session server-side and client-side.
//
// Idempotent: no cookie, an unknown token, or a second rapid submit all
// take the same path to the same redirect.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	var token string
	if cookie, err := r.Cookie(auth.SessionCookie); err == nil {
		token = cookie.Value
	}

	if err := h.svc.Logout(r.Context(), token); err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // delete immediately
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleForgotPassword mails a reset link for the given address.
func (h *AuthHandler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ForgotPassword(r.Context(), r.FormValue("email")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{
		Message: "Please check your email for a password reset link.",
	})
}

// HandleResetPassword completes a reset using the token from the URL.
func (h *AuthHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	if err := h.svc.ResetPassword(r.Context(), token, r.FormValue("password")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{
		Message: "Password has been reset successfully, please login.",
	})
}

// HandleMe returns the authenticated user's profile. Sits behind the gate,
// so the identity is always present here.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	writeJSON(w, http.StatusOK, user)
}

// HandleUpdateProfile applies a JSON profile update for the acting user.
func (h *AuthHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	var update service.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid JSON body",
		})
		return
	}

	updated, err := h.svc.UpdateProfile(r.Context(), user, update)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
