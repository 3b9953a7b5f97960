package auth

import (
	"time"
)

// OAuthStateExpiry bounds how long a login redirect may sit before the
// callback arrives.
const OAuthStateExpiry = 10 * time.Minute

// OAuthStateStore persists single-use CSRF state tokens for the OAuth
// redirect dance. States live in the database so any instance can validate
// a callback, not just the one that issued the redirect.
type OAuthStateStore struct {
	repo *Repository
}

func NewOAuthStateStore(repo *Repository) *OAuthStateStore {
	return &OAuthStateStore{repo: repo}
}

// CreateState issues a fresh state token.
func (s *OAuthStateStore) CreateState() (string, error) {
	state, err := NewSecureToken(32)
	if err != nil {
		return "", err
	}
	_, err = s.repo.db.Exec(`
		INSERT INTO oauth_states (state, expires_at) VALUES (?, ?)
	`, state, time.Now().Add(OAuthStateExpiry))
	if err != nil {
		return "", err
	}
	return state, nil
}

// ValidateState consumes a state token. The delete doubles as the check:
// a row was removed only if the token existed and had not expired, which
// also makes replays fail.
func (s *OAuthStateStore) ValidateState(state string) (bool, error) {
	result, err := s.repo.db.Exec(`
		DELETE FROM oauth_states WHERE state = ? AND expires_at > ?
	`, state, time.Now())
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// CleanupExpiredStates purges states that were never consumed.
func (s *OAuthStateStore) CleanupExpiredStates() error {
	_, err := s.repo.db.Exec("DELETE FROM oauth_states WHERE expires_at <= ?", time.Now())
	return err
}
