package auth

import (
	"database/sql"
)

// Repository provides access to auth-related database operations
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new auth repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// DB returns the underlying database connection
func (r *Repository) DB() *sql.DB {
	return r.db
}

// EnableWAL enables Write-Ahead Logging mode for better concurrent performance
func (r *Repository) EnableWAL() error {
	_, err := r.db.Exec("PRAGMA journal_mode=WAL")
	return err
}

// --- User Operations ---

// GetUserByID returns a user by ID
func (r *Repository) GetUserByID(id int64) (*User, error) {
	var u User
	err := r.db.QueryRow(`
		SELECT id, email, display_name, role, status, created_at
		FROM users WHERE id = ?
	`, id).Scan(&u.ID, &u.Email, &u.DisplayName, &u.Role, &u.Status, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByEmail returns a user by email
func (r *Repository) GetUserByEmail(email string) (*User, error) {
	var u User
	err := r.db.QueryRow(`
		SELECT id, email, display_name, role, status, created_at
		FROM users WHERE email = ?
	`, email).Scan(&u.ID, &u.Email, &u.DisplayName, &u.Role, &u.Status, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetAllUsers returns all users with pagination
func (r *Repository) GetAllUsers(limit, offset int) ([]User, error) {
	rows, err := r.db.Query(`
		SELECT id, email, display_name, role, status, created_at
		FROM users
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.DisplayName, &u.Role, &u.Status, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CreateUser creates a new user with the default role
func (r *Repository) CreateUser(email, displayName string) (*User, error) {
	result, err := r.db.Exec(`
		INSERT INTO users (email, display_name) VALUES (?, ?)
	`, email, displayName)
	if err != nil {
		return nil, err
	}
	id, _ := result.LastInsertId()
	return r.GetUserByID(id)
}

// UpdateUser updates user fields
func (r *Repository) UpdateUser(id int64, role *Role, status *Status) error {
	if role != nil {
		if _, err := r.db.Exec("UPDATE users SET role = ? WHERE id = ?", *role, id); err != nil {
			return err
		}
	}
	if status != nil {
		if _, err := r.db.Exec("UPDATE users SET status = ? WHERE id = ?", *status, id); err != nil {
			return err
		}
	}
	return nil
}

// --- OAuth Identity Operations ---

// GetOAuthIdentity returns an OAuth identity by provider and provider ID
func (r *Repository) GetOAuthIdentity(provider Provider, providerID string) (*OAuthIdentity, error) {
	var o OAuthIdentity
	err := r.db.QueryRow(`
		SELECT id, user_id, provider, provider_id, created_at
		FROM oauth_identities
		WHERE provider = ? AND provider_id = ?
	`, provider, providerID).Scan(&o.ID, &o.UserID, &o.Provider, &o.ProviderID, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// CreateOAuthIdentity creates a new OAuth identity
func (r *Repository) CreateOAuthIdentity(userID int64, provider Provider, providerID string) (*OAuthIdentity, error) {
	result, err := r.db.Exec(`
		INSERT INTO oauth_identities (user_id, provider, provider_id)
		VALUES (?, ?, ?)
	`, userID, provider, providerID)
	if err != nil {
		return nil, err
	}
	id, _ := result.LastInsertId()

	var o OAuthIdentity
	err = r.db.QueryRow(`
		SELECT id, user_id, provider, provider_id, created_at
		FROM oauth_identities WHERE id = ?
	`, id).Scan(&o.ID, &o.UserID, &o.Provider, &o.ProviderID, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
