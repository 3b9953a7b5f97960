package cafe

import (
	"database/sql"
	"net/http"
	"testing"
	"time"

	"backoffice/internal/auth"

	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"
)

const testCafeSchema = `
CREATE TABLE menu_options (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    menu_date TEXT NOT NULL,
    option_number INTEGER NOT NULL CHECK (option_number BETWEEN 1 AND 3),
    name_en TEXT NOT NULL,
    name_el TEXT NOT NULL,
    description_en TEXT NOT NULL DEFAULT '',
    description_el TEXT NOT NULL DEFAULT '',
    image_url TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (menu_date, option_number)
);
CREATE TABLE votes (
    menu_date TEXT NOT NULL,
    user_id INTEGER NOT NULL,
    option_id INTEGER NOT NULL REFERENCES menu_options(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (menu_date, user_id)
);
CREATE TABLE menu_results (
    menu_date TEXT PRIMARY KEY,
    winning_option_id INTEGER NOT NULL REFERENCES menu_options(id),
    total_votes INTEGER NOT NULL DEFAULT 0,
    was_tie INTEGER NOT NULL DEFAULT 0,
    decided_by INTEGER,
    finalized_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE menu_result_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    menu_date TEXT NOT NULL,
    winning_option_id INTEGER NOT NULL,
    total_votes INTEGER NOT NULL DEFAULT 0,
    was_tie INTEGER NOT NULL DEFAULT 0,
    decided_by INTEGER,
    recorded_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE suggestions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL,
    content TEXT NOT NULL,
    is_active INTEGER NOT NULL DEFAULT 1,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE suggestion_upvotes (
    suggestion_id INTEGER NOT NULL REFERENCES suggestions(id) ON DELETE CASCADE,
    user_id INTEGER NOT NULL,
    PRIMARY KEY (suggestion_id, user_id)
);
CREATE TABLE cafe_settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
INSERT INTO cafe_settings (key, value) VALUES ('suggestions_open', 'true');
`

const testAuthSchema = `
CREATE TABLE users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'user',
    status TEXT NOT NULL DEFAULT 'active',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE oauth_identities (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    provider TEXT NOT NULL,
    provider_id TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (provider, provider_id)
);
CREATE TABLE sessions (
    id TEXT PRIMARY KEY,
    user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    expires_at TIMESTAMP NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE oauth_states (
    state TEXT PRIMARY KEY,
    expires_at TIMESTAMP NOT NULL
);
`

// fakeClock pins the engine to an arbitrary instant
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Set(t time.Time) { c.now = t }

// newTestDB opens an in-memory sqlite database with the given schema.
// A single connection keeps the memory database alive for the test.
func newTestDB(t *testing.T, schema string) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

// newTestRepo returns a repository over a fresh in-memory cafe database
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	return NewRepository(newTestDB(t, testCafeSchema))
}

// testEnv bundles everything the handler tests need
type testEnv struct {
	router       *gin.Engine
	repo         *Repository
	clock        *fakeClock
	authRepo     *auth.Repository
	sessionStore *auth.SessionStore
}

// newTestEnv builds a full router with real auth middleware over in-memory
// databases, pinned to a clock the test controls.
func newTestEnv(t *testing.T, now time.Time) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := newTestRepo(t)
	authRepo := auth.NewRepository(newTestDB(t, testAuthSchema))
	sessionStore := auth.NewSessionStore(authRepo, time.Hour, false)
	authMiddleware := auth.NewMiddleware(sessionStore)

	clock := &fakeClock{now: now}
	window := NewVotingWindow(clock, DefaultCutoffHour)
	handler := NewHandler(repo, window)

	router := gin.New()
	v0 := router.Group("/api/v0")
	RegisterRoutes(v0, handler, authMiddleware)

	return &testEnv{
		router:       router,
		repo:         repo,
		clock:        clock,
		authRepo:     authRepo,
		sessionStore: sessionStore,
	}
}

// newSessionUser creates a user with the given role and returns it with a
// valid session cookie.
func (e *testEnv) newSessionUser(t *testing.T, email string, role auth.Role) (*auth.User, *http.Cookie) {
	t.Helper()

	user, err := e.authRepo.CreateUser(email, email)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	if role != auth.RoleUser {
		if err := e.authRepo.UpdateUser(user.ID, &role, nil); err != nil {
			t.Fatalf("failed to set role: %v", err)
		}
		user, err = e.authRepo.GetUserByID(user.ID)
		if err != nil {
			t.Fatalf("failed to reload user: %v", err)
		}
	}

	session, err := e.sessionStore.CreateSession(user.ID)
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	return user, &http.Cookie{Name: auth.SessionCookieName, Value: session.ID}
}

// seedMenu posts three plain options for a date and returns them
func seedMenu(t *testing.T, repo *Repository, date string) []MenuOption {
	t.Helper()

	options, err := repo.ReplaceMenu(date, []OptionInput{
		{NameEN: "Moussaka", NameEL: "Μουσακάς"},
		{NameEN: "Lentil soup", NameEL: "Φακές"},
		{NameEN: "Grilled chicken", NameEL: "Κοτόπουλο σχάρας"},
	})
	if err != nil {
		t.Fatalf("failed to seed menu: %v", err)
	}
	return options
}
