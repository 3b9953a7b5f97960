package cafe

import (
	"database/sql"
)

// Tally resolution and result finalization. The tally read and the result
// write for a unique winner share one transaction so a vote landing between
// them cannot change the committed outcome.

// CloseVotingAndResolve tallies the date's options and classifies the
// outcome. A unique top option with at least one vote is finalized in the
// same transaction. Two or more options sharing the maximum count is a tie
// left for a manual decision; a cycle where nobody voted counts as a tie
// across all options.
func (r *Repository) CloseVotingAndResolve(date string) (*Resolution, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	options, err := optionsWithCountsTx(tx, date)
	if err != nil {
		return nil, err
	}
	if len(options) == 0 {
		return nil, ErrNoOptions
	}

	max := 0
	total := 0
	for _, o := range options {
		total += o.VoteCount
		if o.VoteCount > max {
			max = o.VoteCount
		}
	}

	tied := []MenuOption{}
	for _, o := range options {
		if o.VoteCount == max {
			tied = append(tied, o)
		}
	}

	resolution := &Resolution{
		MenuDate:   date,
		TotalVotes: total,
	}

	if len(tied) == 1 && max > 0 {
		winner := tied[0]
		if err := finalizeTx(tx, date, winner.ID, winner.VoteCount, false, nil); err != nil {
			return nil, err
		}
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		resolution.Winner = &winner
		return resolution, nil
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	resolution.Tie = true
	resolution.TiedOptions = tied
	return resolution, nil
}

// DecideTie finalizes a tied date with an admin-chosen winner. Option
// ownership and the current vote count are re-checked here rather than
// trusted from the earlier tie detection call.
func (r *Repository) DecideTie(date string, winningOptionID, decidedBy int64) (*MenuResult, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var belongs int
	err = tx.QueryRow(`
		SELECT COUNT(*) FROM menu_options WHERE id = ? AND menu_date = ?
	`, winningOptionID, date).Scan(&belongs)
	if err != nil {
		return nil, err
	}
	if belongs == 0 {
		return nil, ErrInvalidOption
	}

	var count int
	err = tx.QueryRow(`
		SELECT COUNT(*) FROM votes WHERE menu_date = ? AND option_id = ?
	`, date, winningOptionID).Scan(&count)
	if err != nil {
		return nil, err
	}

	if err := finalizeTx(tx, date, winningOptionID, count, true, &decidedBy); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return r.ResultForDate(date)
}

// finalizeTx upserts the date's result row and appends to the decision log.
// The upsert makes finalization idempotent; the log keeps overwritten
// decisions discoverable.
func finalizeTx(tx *sql.Tx, date string, winningOptionID int64, totalVotes int, wasTie bool, decidedBy *int64) error {
	_, err := tx.Exec(`
		INSERT INTO menu_results (menu_date, winning_option_id, total_votes, was_tie, decided_by, finalized_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(menu_date) DO UPDATE SET
			winning_option_id = excluded.winning_option_id,
			total_votes = excluded.total_votes,
			was_tie = excluded.was_tie,
			decided_by = excluded.decided_by,
			finalized_at = CURRENT_TIMESTAMP
	`, date, winningOptionID, totalVotes, wasTie, decidedBy)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		INSERT INTO menu_result_log (menu_date, winning_option_id, total_votes, was_tie, decided_by)
		VALUES (?, ?, ?, ?, ?)
	`, date, winningOptionID, totalVotes, wasTie, decidedBy)
	return err
}

// optionsWithCountsTx reads the date's options with live vote counts inside
// the caller's transaction, zero-vote options included.
func optionsWithCountsTx(tx *sql.Tx, date string) ([]MenuOption, error) {
	rows, err := tx.Query(`
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
		options = append(options, o)
	}
	return options, rows.Err()
}
