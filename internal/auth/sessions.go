package auth

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	// SessionCookieName is the cookie carrying the session ID
	SessionCookieName = "meltemi_session"

	// DefaultSessionDuration applies when no duration is configured
	DefaultSessionDuration = 7 * 24 * time.Hour
)

// SessionStore issues and resolves server-side sessions. Session IDs are
// opaque random tokens; everything else lives in the sessions table.
type SessionStore struct {
	repo            *Repository
	sessionDuration time.Duration
	secureCookie    bool
}

func NewSessionStore(repo *Repository, sessionDuration time.Duration, secureCookie bool) *SessionStore {
	if sessionDuration == 0 {
		sessionDuration = DefaultSessionDuration
	}
	return &SessionStore{
		repo:            repo,
		sessionDuration: sessionDuration,
		secureCookie:    secureCookie,
	}
}

// CreateSession issues a fresh session for the user.
func (s *SessionStore) CreateSession(userID int64) (*Session, error) {
	id, err := NewSecureToken(32)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := &Session{
		ID:        id,
		UserID:    userID,
		ExpiresAt: now.Add(s.sessionDuration),
		CreatedAt: now,
	}
	_, err = s.repo.db.Exec(`
		INSERT INTO sessions (id, user_id, expires_at) VALUES (?, ?, ?)
	`, session.ID, session.UserID, session.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// GetSession returns the session, or nil when it is unknown or expired.
// Expired rows are left for CleanupExpiredSessions.
func (s *SessionStore) GetSession(sessionID string) (*Session, error) {
	var session Session
	err := s.repo.db.QueryRow(`
		SELECT id, user_id, expires_at, created_at
		FROM sessions
		WHERE id = ? AND expires_at > ?
	`, sessionID, time.Now()).Scan(&session.ID, &session.UserID, &session.ExpiresAt, &session.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// GetUserFromSession resolves the session to its user, or nil.
func (s *SessionStore) GetUserFromSession(sessionID string) (*User, error) {
	session, err := s.GetSession(sessionID)
	if err != nil || session == nil {
		return nil, err
	}
	return s.repo.GetUserByID(session.UserID)
}

// DeleteSession revokes a single session.
func (s *SessionStore) DeleteSession(sessionID string) error {
	_, err := s.repo.db.Exec("DELETE FROM sessions WHERE id = ?", sessionID)
	return err
}

// CleanupExpiredSessions purges rows past their expiry.
func (s *SessionStore) CleanupExpiredSessions() error {
	_, err := s.repo.db.Exec("DELETE FROM sessions WHERE expires_at <= ?", time.Now())
	return err
}

func (s *SessionStore) writeCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, value, maxAge, "/", "", s.secureCookie, true)
}

// SetSessionCookie attaches the session cookie to the response.
func (s *SessionStore) SetSessionCookie(c *gin.Context, sessionID string) {
	s.writeCookie(c, sessionID, int(s.sessionDuration.Seconds()))
}

// ClearSessionCookie expires the session cookie.
func (s *SessionStore) ClearSessionCookie(c *gin.Context) {
	s.writeCookie(c, "", -1)
}

// GetSessionFromCookie reads the session ID off the request.
func (s *SessionStore) GetSessionFromCookie(c *gin.Context) (string, error) {
	return c.Cookie(SessionCookieName)
}
