package cafe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const testDate = "2025-01-02"

func countRows(t *testing.T, repo *Repository, query string, args ...interface{}) int {
	t.Helper()
	var n int
	if err := repo.DB().QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	return n
}

func TestReplaceMenuNumbersOptions(t *testing.T) {
	repo := newTestRepo(t)

	options := seedMenu(t, repo, testDate)
	assert.Len(t, options, 3)
	for i, o := range options {
		assert.Equal(t, i+1, o.OptionNumber)
		assert.Equal(t, testDate, o.MenuDate)
	}
}

func TestReplaceMenuDropsOldVotes(t *testing.T) {
	repo := newTestRepo(t)

	options := seedMenu(t, repo, testDate)
	assert.NoError(t, repo.SubmitVote(testDate, 1, options[0].ID))
	assert.NoError(t, repo.SubmitVote(testDate, 2, options[1].ID))
	assert.Equal(t, 2, countRows(t, repo, "SELECT COUNT(*) FROM votes WHERE menu_date = ?", testDate))

	// Reposting the menu must not leave votes pointing at deleted options
	seedMenu(t, repo, testDate)
	assert.Equal(t, 0, countRows(t, repo, "SELECT COUNT(*) FROM votes WHERE menu_date = ?", testDate))
}

func TestSubmitVoteIsIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	options := seedMenu(t, repo, testDate)

	assert.NoError(t, repo.SubmitVote(testDate, 1, options[0].ID))
	assert.NoError(t, repo.SubmitVote(testDate, 1, options[0].ID))

	assert.Equal(t, 1, countRows(t, repo, "SELECT COUNT(*) FROM votes WHERE menu_date = ? AND user_id = ?", testDate, 1))
}

func TestSubmitVoteOverwritesChoice(t *testing.T) {
	repo := newTestRepo(t)
	options := seedMenu(t, repo, testDate)

	assert.NoError(t, repo.SubmitVote(testDate, 1, options[0].ID))
	assert.NoError(t, repo.SubmitVote(testDate, 1, options[2].ID))

	vote, err := repo.VoteFor(testDate, 1)
	assert.NoError(t, err)
	assert.NotNil(t, vote)
	assert.Equal(t, options[2].ID, vote.OptionID)
	assert.Equal(t, 1, countRows(t, repo, "SELECT COUNT(*) FROM votes WHERE menu_date = ?", testDate))
}

func TestSubmitVoteRejectsForeignOption(t *testing.T) {
	repo := newTestRepo(t)
	seedMenu(t, repo, testDate)
	other := seedMenu(t, repo, "2025-01-03")

	err := repo.SubmitVote(testDate, 1, other[0].ID)
	assert.ErrorIs(t, err, ErrInvalidOption)

	err = repo.SubmitVote(testDate, 1, 9999)
	assert.ErrorIs(t, err, ErrInvalidOption)
}

func TestVoteForReturnsNilWhenAbsent(t *testing.T) {
	repo := newTestRepo(t)
	seedMenu(t, repo, testDate)

	vote, err := repo.VoteFor(testDate, 42)
	assert.NoError(t, err)
	assert.Nil(t, vote)
}

func TestOptionsForDateWithholdsTallies(t *testing.T) {
	repo := newTestRepo(t)
	options := seedMenu(t, repo, testDate)
	assert.NoError(t, repo.SubmitVote(testDate, 1, options[0].ID))
	assert.NoError(t, repo.SubmitVote(testDate, 2, options[0].ID))

	hidden, err := repo.OptionsForDate(testDate, false)
	assert.NoError(t, err)
	for _, o := range hidden {
		assert.Equal(t, 0, o.VoteCount)
	}

	shown, err := repo.OptionsForDate(testDate, true)
	assert.NoError(t, err)
	assert.Equal(t, 2, shown[0].VoteCount)
	assert.Equal(t, 0, shown[1].VoteCount)
}

func TestUpdateOption(t *testing.T) {
	repo := newTestRepo(t)
	options := seedMenu(t, repo, testDate)

	name := "Stuffed peppers"
	updated, err := repo.UpdateOption(options[0].ID, UpdateOptionRequest{NameEN: &name})
	assert.NoError(t, err)
	assert.Equal(t, "Stuffed peppers", updated.NameEN)
	// Untouched fields survive a partial update
	assert.Equal(t, options[0].NameEL, updated.NameEL)

	_, err = repo.UpdateOption(9999, UpdateOptionRequest{NameEN: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteOption(t *testing.T) {
	repo := newTestRepo(t)
	options := seedMenu(t, repo, testDate)

	assert.NoError(t, repo.DeleteOption(options[0].ID))
	assert.ErrorIs(t, repo.DeleteOption(options[0].ID), ErrNotFound)

	count, err := repo.CountOptions(testDate)
	assert.NoError(t, err)
	assert.Equal(t, 2, count)
}

// --- Suggestion board ---

func TestSuggestionBoardToggle(t *testing.T) {
	repo := newTestRepo(t)

	open, err := repo.SuggestionsOpen()
	assert.NoError(t, err)
	assert.True(t, open)

	assert.NoError(t, repo.SetSuggestionsOpen(false))
	open, err = repo.SuggestionsOpen()
	assert.NoError(t, err)
	assert.False(t, open)
}

func TestCloseBoardDeactivatesSuggestions(t *testing.T) {
	repo := newTestRepo(t)

	first, err := repo.CreateSuggestion(1, "More vegetarian days")
	assert.NoError(t, err)
	assert.True(t, first.IsActive)

	assert.NoError(t, repo.CloseBoard())

	open, err := repo.SuggestionsOpen()
	assert.NoError(t, err)
	assert.False(t, open)

	got, err := repo.GetSuggestion(first.ID, 1)
	assert.NoError(t, err)
	assert.False(t, got.IsActive)

	// Reopening does not resurrect deactivated suggestions
	assert.NoError(t, repo.SetSuggestionsOpen(true))
	active, err := repo.ActiveSuggestions(1)
	assert.NoError(t, err)
	assert.Empty(t, active)
}

func TestUpvoteIdempotence(t *testing.T) {
	repo := newTestRepo(t)
	s, err := repo.CreateSuggestion(1, "Bring back souvlaki Friday")
	assert.NoError(t, err)

	assert.NoError(t, repo.UpvoteSuggestion(s.ID, 2))
	assert.NoError(t, repo.UpvoteSuggestion(s.ID, 2))

	got, err := repo.GetSuggestion(s.ID, 2)
	assert.NoError(t, err)
	assert.Equal(t, 1, got.Upvotes)
	assert.True(t, got.UpvotedByCaller)

	assert.NoError(t, repo.RemoveUpvote(s.ID, 2))
	assert.NoError(t, repo.RemoveUpvote(s.ID, 2))

	got, err = repo.GetSuggestion(s.ID, 2)
	assert.NoError(t, err)
	assert.Equal(t, 0, got.Upvotes)
	assert.False(t, got.UpvotedByCaller)

	assert.ErrorIs(t, repo.UpvoteSuggestion(9999, 2), ErrNotFound)
}

func TestActiveSuggestionsOrderedByUpvotes(t *testing.T) {
	repo := newTestRepo(t)

	low, err := repo.CreateSuggestion(1, "Less fried food")
	assert.NoError(t, err)
	high, err := repo.CreateSuggestion(2, "Seafood on Wednesdays")
	assert.NoError(t, err)

	assert.NoError(t, repo.UpvoteSuggestion(high.ID, 3))
	assert.NoError(t, repo.UpvoteSuggestion(high.ID, 4))
	assert.NoError(t, repo.UpvoteSuggestion(low.ID, 3))

	suggestions, err := repo.ActiveSuggestions(3)
	assert.NoError(t, err)
	assert.Len(t, suggestions, 2)
	assert.Equal(t, high.ID, suggestions[0].ID)
	assert.Equal(t, 2, suggestions[0].Upvotes)
	assert.Equal(t, low.ID, suggestions[1].ID)
}

func TestDeleteSuggestionCascadesUpvotes(t *testing.T) {
	repo := newTestRepo(t)
	s, err := repo.CreateSuggestion(1, "Self-serve espresso machine")
	assert.NoError(t, err)
	assert.NoError(t, repo.UpvoteSuggestion(s.ID, 2))

	assert.NoError(t, repo.DeleteSuggestion(s.ID))
	assert.ErrorIs(t, repo.DeleteSuggestion(s.ID), ErrNotFound)
	assert.Equal(t, 0, countRows(t, repo, "SELECT COUNT(*) FROM suggestion_upvotes WHERE suggestion_id = ?", s.ID))
}
