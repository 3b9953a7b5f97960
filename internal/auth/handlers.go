package auth

import (
	"log"
	"net/http"

	"backoffice/internal/v0/common"

	"github.com/gin-gonic/gin"
)

const (
	OAuthStateCookieName = "meltemi_oauth_state"
)

// Handler handles authentication endpoints
type Handler struct {
	repo         *Repository
	oauthConfig  *OAuthConfig
	stateStore   *OAuthStateStore
	sessionStore *SessionStore
}

// NewHandler creates a new auth handler
func NewHandler(
	repo *Repository,
	oauthConfig *OAuthConfig,
	stateStore *OAuthStateStore,
	sessionStore *SessionStore,
) *Handler {
	return &Handler{
		repo:         repo,
		oauthConfig:  oauthConfig,
		stateStore:   stateStore,
		sessionStore: sessionStore,
	}
}

// Login initiates OAuth flow
// GET /auth/login/:provider
func (h *Handler) Login(c *gin.Context) {
	provider := Provider(c.Param("provider"))

	if provider != ProviderGoogle && provider != ProviderGitHub {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"unsupported provider"}))
		return
	}

	if !h.oauthConfig.IsProviderConfigured(provider) {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"provider not configured"}))
		return
	}

	// Generate state for CSRF protection
	state, err := h.stateStore.CreateState()
	if err != nil {
		log.Printf("auth: create state failed: %v", err)
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to create auth state"}))
		return
	}

	// Mirror state in cookie for the callback comparison
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		OAuthStateCookieName,
		state,
		int(OAuthStateExpiry.Seconds()),
		"/",
		"",
		h.sessionStore.secureCookie,
		true,
	)

	authURL, err := h.oauthConfig.GetAuthURL(provider, state)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to create auth URL"}))
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, authURL)
}

// Callback handles OAuth callback
// GET /auth/callback/:provider
func (h *Handler) Callback(c *gin.Context) {
	provider := Provider(c.Param("provider"))

	if provider != ProviderGoogle && provider != ProviderGitHub {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"unsupported provider"}))
		return
	}

	queryState := c.Query("state")
	cookieState, err := c.Cookie(OAuthStateCookieName)
	if err != nil || cookieState == "" {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"missing OAuth state cookie"}))
		return
	}
	if queryState != cookieState {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"OAuth state mismatch"}))
		return
	}

	// State is single-use, validated against the database
	valid, err := h.stateStore.ValidateState(queryState)
	if err != nil {
		log.Printf("auth: validate state failed: %v", err)
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to validate auth state"}))
		return
	}
	if !valid {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"invalid or expired OAuth state"}))
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"missing authorization code"}))
		return
	}

	token, err := h.oauthConfig.ExchangeCode(c.Request.Context(), provider, code)
	if err != nil {
		log.Printf("auth: code exchange failed for %s: %v", provider, err)
		c.JSON(http.StatusBadGateway, common.CreateErrorResponse([]string{"OAuth code exchange failed"}))
		return
	}

	info, err := h.oauthConfig.GetUserInfo(c.Request.Context(), provider, token)
	if err != nil {
		log.Printf("auth: user info fetch failed for %s: %v", provider, err)
		c.JSON(http.StatusBadGateway, common.CreateErrorResponse([]string{"failed to fetch user info"}))
		return
	}

	user, err := h.findOrCreateUser(provider, info)
	if err != nil {
		log.Printf("auth: find or create user failed for %s: %v", info.Email, err)
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to sign in"}))
		return
	}

	if user.Status != StatusActive {
		c.JSON(http.StatusForbidden, common.CreateErrorResponse([]string{"account is suspended"}))
		return
	}

	session, err := h.sessionStore.CreateSession(user.ID)
	if err != nil {
		log.Printf("auth: create session failed for user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to create session"}))
		return
	}
	h.sessionStore.SetSessionCookie(c, session.ID)

	c.JSON(http.StatusOK, common.CreateSuccessResponse(user))
}

// findOrCreateUser resolves the OAuth identity to a local user, creating
// the user and identity rows on first login.
func (h *Handler) findOrCreateUser(provider Provider, info *OAuthUserInfo) (*User, error) {
	identity, err := h.repo.GetOAuthIdentity(provider, info.ProviderID)
	if err != nil {
		return nil, err
	}
	if identity != nil {
		return h.repo.GetUserByID(identity.UserID)
	}

	// Same email from another provider links to the existing account
	user, err := h.repo.GetUserByEmail(info.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user, err = h.repo.CreateUser(info.Email, info.DisplayName)
		if err != nil {
			return nil, err
		}
	}

	if _, err := h.repo.CreateOAuthIdentity(user.ID, provider, info.ProviderID); err != nil {
		return nil, err
	}
	return user, nil
}

// Me returns the current authenticated user
// GET /auth/me
func (h *Handler) Me(c *gin.Context) {
	user := GetUserFromContext(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, common.CreateErrorResponse([]string{"not authenticated"}))
		return
	}
	c.JSON(http.StatusOK, common.CreateSuccessResponse(user))
}

// Logout destroys the current session
// GET /auth/logout
func (h *Handler) Logout(c *gin.Context) {
	sessionID, err := h.sessionStore.GetSessionFromCookie(c)
	if err == nil && sessionID != "" {
		if err := h.sessionStore.DeleteSession(sessionID); err != nil {
			log.Printf("auth: delete session failed: %v", err)
		}
	}
	h.sessionStore.ClearSessionCookie(c)
	c.JSON(http.StatusOK, common.CreateSuccessResponse(nil))
}
