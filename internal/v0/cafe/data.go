package cafe

import (
	"database/sql"
)

// Repository provides access to the cafeteria database operations.
// Every decision (is there a tie? has this date been decided?) is recomputed
// from persisted rows; no state is held between requests.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new cafeteria repository
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

// EnableForeignKeys turns on foreign key enforcement. Required for the
// vote rows to cascade when a menu is replaced.
func (r *Repository) EnableForeignKeys() error {
	_, err := r.db.Exec("PRAGMA foreign_keys=ON")
	return err
}

// --- Menu Operations ---

const optionColumns = `id, menu_date, option_number, name_en, name_el, description_en, description_el, image_url, created_at`

func scanOption(row interface {
	Scan(dest ...interface{}) error
}, o *MenuOption) error {
	var imageURL sql.NullString
	err := row.Scan(&o.ID, &o.MenuDate, &o.OptionNumber, &o.NameEN, &o.NameEL,
		&o.DescriptionEN, &o.DescriptionEL, &imageURL, &o.CreatedAt)
	if err != nil {
		return err
	}
	if imageURL.Valid {
		o.ImageURL = &imageURL.String
	}
	return nil
}

// ReplaceMenu deletes any existing options for the date and inserts exactly
// three new ones numbered 1..3 in input order. Votes cast against the
// replaced options are removed by the foreign key cascade.
func (r *Repository) ReplaceMenu(date string, inputs []OptionInput) ([]MenuOption, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.Exec("DELETE FROM menu_options WHERE menu_date = ?", date); err != nil {
		return nil, err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO menu_options (menu_date, option_number, name_en, name_el, description_en, description_el, image_url)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	ids := make([]int64, 0, len(inputs))
	for i, in := range inputs {
		res, err := stmt.Exec(date, i+1, in.NameEN, in.NameEL, in.DescriptionEN, in.DescriptionEL, in.ImageURL)
		if err != nil {
			return nil, err
		}
		id, _ := res.LastInsertId()
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	options := make([]MenuOption, 0, len(ids))
	for _, id := range ids {
		opt, err := r.GetOption(id)
		if err != nil {
			return nil, err
		}
		if opt != nil {
			options = append(options, *opt)
		}
	}
	return options, nil
}

// GetOption returns a single option by ID
func (r *Repository) GetOption(id int64) (*MenuOption, error) {
	var o MenuOption
	err := scanOption(r.db.QueryRow(`
		SELECT `+optionColumns+` FROM menu_options WHERE id = ?
	`, id), &o)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// UpdateOption updates an option's descriptive fields only. The option
// number and menu date never change after posting.
func (r *Repository) UpdateOption(id int64, req UpdateOptionRequest) (*MenuOption, error) {
	existing, err := r.GetOption(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	if req.NameEN != nil {
		if _, err := r.db.Exec("UPDATE menu_options SET name_en = ? WHERE id = ?", *req.NameEN, id); err != nil {
			return nil, err
		}
	}
	if req.NameEL != nil {
		if _, err := r.db.Exec("UPDATE menu_options SET name_el = ? WHERE id = ?", *req.NameEL, id); err != nil {
			return nil, err
		}
	}
	if req.DescriptionEN != nil {
		if _, err := r.db.Exec("UPDATE menu_options SET description_en = ? WHERE id = ?", *req.DescriptionEN, id); err != nil {
			return nil, err
		}
	}
	if req.DescriptionEL != nil {
		if _, err := r.db.Exec("UPDATE menu_options SET description_el = ? WHERE id = ?", *req.DescriptionEL, id); err != nil {
			return nil, err
		}
	}
	if req.ImageURL != nil {
		if _, err := r.db.Exec("UPDATE menu_options SET image_url = ? WHERE id = ?", *req.ImageURL, id); err != nil {
			return nil, err
		}
	}

	return r.GetOption(id)
}

// DeleteOption hard-deletes a single option
func (r *Repository) DeleteOption(id int64) error {
	result, err := r.db.Exec("DELETE FROM menu_options WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// OptionsForDate returns the options for a date ordered by option number.
// Tallies are included only when includeTally is set; while voting is open
// they are withheld (reported as zero) to avoid bandwagon effects.
func (r *Repository) OptionsForDate(date string, includeTally bool) ([]MenuOption, error) {
	rows, err := r.db.Query(`
		SELECT o.id, o.menu_date, o.option_number, o.name_en, o.name_el,
		       o.description_en, o.description_el, o.image_url, o.created_at,
		       COUNT(v.user_id)
		FROM menu_options o
		LEFT JOIN votes v ON v.option_id = o.id
		WHERE o.menu_date = ?
		GROUP BY o.id
		ORDER BY o.option_number
	`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	options := []MenuOption{}
	for rows.Next() {
		var o MenuOption
		var imageURL sql.NullString
		if err := rows.Scan(&o.ID, &o.MenuDate, &o.OptionNumber, &o.NameEN, &o.NameEL,
			&o.DescriptionEN, &o.DescriptionEL, &imageURL, &o.CreatedAt, &o.VoteCount); err != nil {
			return nil, err
		}
		if imageURL.Valid {
			o.ImageURL = &imageURL.String
		}
		if !includeTally {
			o.VoteCount = 0
		}
		options = append(options, o)
	}
	return options, rows.Err()
}

// CountOptions returns the number of options posted for a date
func (r *Repository) CountOptions(date string) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM menu_options WHERE menu_date = ?", date).Scan(&count)
	return count, err
}

// --- Vote Operations ---

// SubmitVote records or overwrites the user's vote for the date. The option
// must belong to the same date being voted on. Concurrent submissions from
// one user collapse into a single row via the (menu_date, user_id) key.
func (r *Repository) SubmitVote(date string, userID, optionID int64) error {
	var belongs int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM menu_options WHERE id = ? AND menu_date = ?
	`, optionID, date).Scan(&belongs)
	if err != nil {
		return err
	}
	if belongs == 0 {
		return ErrInvalidOption
	}

	_, err = r.db.Exec(`
		INSERT INTO votes (menu_date, user_id, option_id)
		VALUES (?, ?, ?)
		ON CONFLICT(menu_date, user_id)
		DO UPDATE SET option_id = excluded.option_id, updated_at = CURRENT_TIMESTAMP
	`, date, userID, optionID)
	return err
}

// VoteFor returns the user's current vote for a date, or nil
func (r *Repository) VoteFor(date string, userID int64) (*Vote, error) {
	var v Vote
	err := r.db.QueryRow(`
		SELECT menu_date, user_id, option_id, created_at, updated_at
		FROM votes WHERE menu_date = ? AND user_id = ?
	`, date, userID).Scan(&v.MenuDate, &v.UserID, &v.OptionID, &v.CreatedAt, &v.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// CountVotes returns the number of distinct voters for a date
func (r *Repository) CountVotes(date string) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM votes WHERE menu_date = ?", date).Scan(&count)
	return count, err
}

// --- Result Operations ---

// ResultForDate returns the finalized result for a date with the winning
// option joined in, or nil when the date has not been finalized.
func (r *Repository) ResultForDate(date string) (*MenuResult, error) {
	var res MenuResult
	var decidedBy sql.NullInt64
	err := r.db.QueryRow(`
		SELECT menu_date, winning_option_id, total_votes, was_tie, decided_by, finalized_at
		FROM menu_results WHERE menu_date = ?
	`, date).Scan(&res.MenuDate, &res.WinningOptionID, &res.TotalVotes, &res.WasTie, &decidedBy, &res.FinalizedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if decidedBy.Valid {
		res.DecidedBy = &decidedBy.Int64
	}

	winner, err := r.GetOption(res.WinningOptionID)
	if err != nil {
		return nil, err
	}
	res.Winner = winner
	return &res, nil
}

// History returns finalized results, most recent cycle date first
func (r *Repository) History(limit, offset int) ([]MenuResult, error) {
	rows, err := r.db.Query(`
		SELECT r.menu_date, r.winning_option_id, r.total_votes, r.was_tie, r.decided_by, r.finalized_at,
		       o.id, o.menu_date, o.option_number, o.name_en, o.name_el,
		       o.description_en, o.description_el, o.image_url, o.created_at
		FROM menu_results r
		JOIN menu_options o ON o.id = r.winning_option_id
		ORDER BY r.menu_date DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []MenuResult{}
	for rows.Next() {
		var res MenuResult
		var o MenuOption
		var decidedBy sql.NullInt64
		var imageURL sql.NullString
		if err := rows.Scan(
			&res.MenuDate, &res.WinningOptionID, &res.TotalVotes, &res.WasTie, &decidedBy, &res.FinalizedAt,
			&o.ID, &o.MenuDate, &o.OptionNumber, &o.NameEN, &o.NameEL,
			&o.DescriptionEN, &o.DescriptionEL, &imageURL, &o.CreatedAt,
		); err != nil {
			return nil, err
		}
		if decidedBy.Valid {
			res.DecidedBy = &decidedBy.Int64
		}
		if imageURL.Valid {
			o.ImageURL = &imageURL.String
		}
		res.Winner = &o
		results = append(results, res)
	}
	return results, rows.Err()
}

// --- Suggestion Board Operations ---

const suggestionsOpenKey = "suggestions_open"

// SuggestionsOpen reports whether new suggestions may be submitted
func (r *Repository) SuggestionsOpen() (bool, error) {
	var value string
	err := r.db.QueryRow("SELECT value FROM cafe_settings WHERE key = ?", suggestionsOpenKey).Scan(&value)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return value == "true", nil
}

// SetSuggestionsOpen flips the board toggle
func (r *Repository) SetSuggestionsOpen(open bool) error {
	value := "false"
	if open {
		value = "true"
	}
	_, err := r.db.Exec(`
		INSERT INTO cafe_settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, suggestionsOpenKey, value)
	return err
}

// CloseBoard flips the toggle off and deactivates every active suggestion.
// One-way in practice: reopening does not reactivate old suggestions.
func (r *Repository) CloseBoard() error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.Exec(`
		INSERT INTO cafe_settings (key, value) VALUES (?, 'false')
		ON CONFLICT(key) DO UPDATE SET value = 'false'
	`, suggestionsOpenKey); err != nil {
		return err
	}
	if _, err := tx.Exec("UPDATE suggestions SET is_active = 0 WHERE is_active = 1"); err != nil {
		return err
	}
	return tx.Commit()
}

// CreateSuggestion adds a new active suggestion
func (r *Repository) CreateSuggestion(userID int64, content string) (*Suggestion, error) {
	result, err := r.db.Exec(`
		INSERT INTO suggestions (user_id, content) VALUES (?, ?)
	`, userID, content)
	if err != nil {
		return nil, err
	}
	id, _ := result.LastInsertId()
	return r.GetSuggestion(id, userID)
}

// GetSuggestion returns a suggestion with its upvote count, or nil
func (r *Repository) GetSuggestion(id, callerID int64) (*Suggestion, error) {
	var s Suggestion
	err := r.db.QueryRow(`
		SELECT s.id, s.user_id, s.content, s.is_active, s.created_at,
		       COUNT(u.user_id),
		       EXISTS(SELECT 1 FROM suggestion_upvotes WHERE suggestion_id = s.id AND user_id = ?)
		FROM suggestions s
		LEFT JOIN suggestion_upvotes u ON u.suggestion_id = s.id
		WHERE s.id = ?
		GROUP BY s.id
	`, callerID, id).Scan(&s.ID, &s.UserID, &s.Content, &s.IsActive, &s.CreatedAt, &s.Upvotes, &s.UpvotedByCaller)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ActiveSuggestions lists active suggestions sorted by upvote count then
// recency
func (r *Repository) ActiveSuggestions(callerID int64) ([]Suggestion, error) {
	rows, err := r.db.Query(`
		SELECT s.id, s.user_id, s.content, s.is_active, s.created_at,
		       COUNT(u.user_id) AS upvotes,
		       EXISTS(SELECT 1 FROM suggestion_upvotes WHERE suggestion_id = s.id AND user_id = ?)
		FROM suggestions s
		LEFT JOIN suggestion_upvotes u ON u.suggestion_id = s.id
		WHERE s.is_active = 1
		GROUP BY s.id
		ORDER BY upvotes DESC, s.created_at DESC
	`, callerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	suggestions := []Suggestion{}
	for rows.Next() {
		var s Suggestion
		if err := rows.Scan(&s.ID, &s.UserID, &s.Content, &s.IsActive, &s.CreatedAt, &s.Upvotes, &s.UpvotedByCaller); err != nil {
			return nil, err
		}
		suggestions = append(suggestions, s)
	}
	return suggestions, rows.Err()
}

// UpvoteSuggestion records an upvote; duplicate upvotes are a no-op
func (r *Repository) UpvoteSuggestion(suggestionID, userID int64) error {
	var exists int
	err := r.db.QueryRow("SELECT COUNT(*) FROM suggestions WHERE id = ?", suggestionID).Scan(&exists)
	if err != nil {
		return err
	}
	if exists == 0 {
		return ErrNotFound
	}

	_, err = r.db.Exec(`
		INSERT OR IGNORE INTO suggestion_upvotes (suggestion_id, user_id) VALUES (?, ?)
	`, suggestionID, userID)
	return err
}

// RemoveUpvote deletes an upvote; removing a missing upvote is a no-op
func (r *Repository) RemoveUpvote(suggestionID, userID int64) error {
	_, err := r.db.Exec(`
		DELETE FROM suggestion_upvotes WHERE suggestion_id = ? AND user_id = ?
	`, suggestionID, userID)
	return err
}

// DeleteSuggestion hard-deletes a suggestion and its upvotes (cascade)
func (r *Repository) DeleteSuggestion(id int64) error {
	result, err := r.db.Exec("DELETE FROM suggestions WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
