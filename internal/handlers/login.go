package handlers

import (
	"net/http"
	"strings"

	"prompt-library/internal/auth"
	"prompt-library/internal/contextutil"
)

// SessionIssuer issues session tokens.
type SessionIssuer interface {
	Issue(username string) (string, error)
}

// CredentialChecker validates a username/password pair.
type CredentialChecker interface {
	Check(username, password string) error
}

// LoginHandler serves the login gate.
type LoginHandler struct {
	pages       *Pages
	credentials CredentialChecker
	sessions    SessionIssuer
}

// NewLoginHandler creates a new LoginHandler.
func NewLoginHandler(pages *Pages, credentials CredentialChecker, sessions SessionIssuer) *LoginHandler {
	return &LoginHandler{
		pages:       pages,
		credentials: credentials,
		sessions:    sessions,
	}
}

type loginPage struct {
	layout
	Username string
	Error    string
}

// ServeHTTP shows the login form on GET and authenticates on POST.
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	switch r.Method {
	case http.MethodGet:
		h.pages.Render(w, r, http.StatusOK, "login", loginPage{layout: newLayout(ctx, "Login", "")})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			logger.WarnContext(ctx, "invalid login form", "error", err)
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}

		username := strings.TrimSpace(r.PostForm.Get("username"))
		password := r.PostForm.Get("password")

		if err := h.credentials.Check(username, password); err != nil {
			logger.WarnContext(ctx, "login rejected", "username", username)
			h.pages.Render(w, r, http.StatusUnauthorized, "login", loginPage{
				layout:   newLayout(ctx, "Login", ""),
				Username: username,
				Error:    "Invalid credentials",
			})
			return
		}

		token, err := h.sessions.Issue(username)
		if err != nil {
			logger.ErrorContext(ctx, "failed to issue session", "username", username, "error", err)
			http.Error(w, "failed to start session", http.StatusInternalServerError)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     auth.CookieName,
			Value:    token,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Secure:   r.TLS != nil,
		})
		logger.InfoContext(ctx, "user logged in", "username", username)
		http.Redirect(w, r, "/add", http.StatusSeeOther)
	default:
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
