package cafe

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"backoffice/internal/auth"
	"backoffice/internal/v0/common"

	"github.com/gin-gonic/gin"
)

// Handler holds the repository and the voting window policy
type Handler struct {
	repo   *Repository
	window *VotingWindow
}

func NewHandler(repo *Repository, window *VotingWindow) *Handler {
	return &Handler{repo: repo, window: window}
}

// respondError maps domain errors to HTTP statuses. Store failures are
// logged with the operation name and surfaced generically.
func (h *Handler) respondError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, ErrVotingClosed),
		errors.Is(err, ErrInvalidOption),
		errors.Is(err, ErrNoOptions),
		errors.Is(err, ErrBoardClosed):
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, common.CreateErrorResponse([]string{err.Error()}))
	default:
		log.Printf("cafe: %s failed: %v", op, err)
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"internal error"}))
	}
}

// parseDate validates an explicit cycle date, falling back to the given
// clock-derived default when absent.
func parseDate(raw, fallback string) (string, bool) {
	if raw == "" {
		return fallback, true
	}
	if _, err := time.Parse(DateLayout, raw); err != nil {
		return "", false
	}
	return raw, true
}

// --- Public endpoints ---

// GetTomorrow returns tomorrow's options, the caller's vote and the window
// state. Tallies appear only once voting is closed.
// GET /cafe/tomorrow
func (h *Handler) GetTomorrow(c *gin.Context) {
	user := auth.GetUserFromContext(c)
	date := h.window.VotingDate()
	closed := h.window.Closed()

	options, err := h.repo.OptionsForDate(date, closed)
	if err != nil {
		h.respondError(c, "options for date", err)
		return
	}

	vote, err := h.repo.VoteFor(date, user.ID)
	if err != nil {
		h.respondError(c, "vote lookup", err)
		return
	}

	voterCount, err := h.repo.CountVotes(date)
	if err != nil {
		h.respondError(c, "vote count", err)
		return
	}

	result, err := h.repo.ResultForDate(date)
	if err != nil {
		h.respondError(c, "result lookup", err)
		return
	}

	c.JSON(http.StatusOK, common.CreateSuccessResponse(TomorrowView{
		MenuDate:      date,
		Options:       options,
		MyVote:        vote,
		VotingClosed:  closed,
		VotingFinal:   result != nil,
		TimeRemaining: h.window.Remaining(),
		VoterCount:    voterCount,
	}))
}

// PostVote records the caller's vote for tomorrow. Last write before the
// cutoff wins; after the cutoff every submission is rejected.
// POST /cafe/vote
func (h *Handler) PostVote(c *gin.Context) {
	user := auth.GetUserFromContext(c)

	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
		return
	}

	if h.window.Closed() {
		h.respondError(c, "submit vote", ErrVotingClosed)
		return
	}

	date := h.window.VotingDate()
	if err := h.repo.SubmitVote(date, user.ID, req.OptionID); err != nil {
		h.respondError(c, "submit vote", err)
		return
	}

	vote, err := h.repo.VoteFor(date, user.ID)
	if err != nil {
		h.respondError(c, "vote lookup", err)
		return
	}
	c.JSON(http.StatusOK, common.CreateSuccessResponse(vote))
}

// GetMyVote returns the caller's current vote for tomorrow, or null
// GET /cafe/my-vote
func (h *Handler) GetMyVote(c *gin.Context) {
	user := auth.GetUserFromContext(c)
	vote, err := h.repo.VoteFor(h.window.VotingDate(), user.ID)
	if err != nil {
		h.respondError(c, "vote lookup", err)
		return
	}
	c.JSON(http.StatusOK, common.CreateSuccessResponse(vote))
}

// GetToday returns the finalized winner being served today
// GET /cafe/today
func (h *Handler) GetToday(c *gin.Context) {
	result, err := h.repo.ResultForDate(h.window.ResultDate())
	if err != nil {
		h.respondError(c, "result lookup", err)
		return
	}
	if result == nil {
		h.respondError(c, "result lookup", ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, common.CreateSuccessResponse(result))
}

// GetStatus returns the dashboard widget payload
// GET /cafe/status
func (h *Handler) GetStatus(c *gin.Context) {
	votingDate := h.window.VotingDate()

	today, err := h.repo.ResultForDate(h.window.ResultDate())
	if err != nil {
		h.respondError(c, "result lookup", err)
		return
	}

	optionCount, err := h.repo.CountOptions(votingDate)
	if err != nil {
		h.respondError(c, "option count", err)
		return
	}

	tomorrowResult, err := h.repo.ResultForDate(votingDate)
	if err != nil {
		h.respondError(c, "result lookup", err)
		return
	}

	suggestionsOpen, err := h.repo.SuggestionsOpen()
	if err != nil {
		h.respondError(c, "suggestions open", err)
		return
	}

	view := StatusView{
		Today:           today,
		TomorrowDate:    votingDate,
		TomorrowOptions: optionCount,
		VotingClosed:    h.window.Closed(),
		VotingFinal:     tomorrowResult != nil,
		SuggestionsOpen: suggestionsOpen,
		TimeRemaining:   h.window.Remaining(),
	}
	if tomorrowResult != nil {
		view.WasTie = tomorrowResult.WasTie
	}
	c.JSON(http.StatusOK, common.CreateSuccessResponse(view))
}

// --- Privileged endpoints ---

// PostMenu replaces tomorrow's menu with exactly three options
// POST /cafe/menu
func (h *Handler) PostMenu(c *gin.Context) {
	var req PostMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
		return
	}

	date, ok := parseDate(req.MenuDate, h.window.VotingDate())
	if !ok {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"invalid menu_date, expected YYYY-MM-DD"}))
		return
	}

	options, err := h.repo.ReplaceMenu(date, req.Options)
	if err != nil {
		h.respondError(c, "replace menu", err)
		return
	}
	c.JSON(http.StatusCreated, common.CreateSuccessResponse(options))
}

// UpdateOption partially updates an option's descriptive fields
// PUT /cafe/menu/:id
func (h *Handler) UpdateOption(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"invalid option id"}))
		return
	}

	var req UpdateOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
		return
	}

	option, err := h.repo.UpdateOption(id, req)
	if err != nil {
		h.respondError(c, "update option", err)
		return
	}
	c.JSON(http.StatusOK, common.CreateSuccessResponse(option))
}

// DeleteOption hard-deletes a single option
// DELETE /cafe/menu/:id
func (h *Handler) DeleteOption(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"invalid option id"}))
		return
	}

	if err := h.repo.DeleteOption(id); err != nil {
		h.respondError(c, "delete option", err)
		return
	}
	c.JSON(http.StatusOK, common.CreateSuccessResponse(nil))
}

// GetVoteCount returns the distinct voter count for tomorrow
// GET /cafe/votes/count
func (h *Handler) GetVoteCount(c *gin.Context) {
	date := h.window.VotingDate()
	count, err := h.repo.CountVotes(date)
	if err != nil {
		h.respondError(c, "vote count", err)
		return
	}
	c.JSON(http.StatusOK, common.CreateSuccessResponse(gin.H{"menu_date": date, "count": count}))
}

// CloseVoting tallies and resolves a cycle date. A unique winner is
// finalized immediately; a tie is reported for a manual decision.
// POST /cafe/close-voting
func (h *Handler) CloseVoting(c *gin.Context) {
	var req CloseVotingRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
		return
	}

	date, ok := parseDate(req.MenuDate, h.window.VotingDate())
	if !ok {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"invalid menu_date, expected YYYY-MM-DD"}))
		return
	}

	resolution, err := h.repo.CloseVotingAndResolve(date)
	if err != nil {
		h.respondError(c, "close voting", err)
		return
	}
	c.JSON(http.StatusOK, common.CreateSuccessResponse(resolution))
}

// DecideTie finalizes a tied date with the chosen option
// POST /cafe/decide-tie
func (h *Handler) DecideTie(c *gin.Context) {
	user := auth.GetUserFromContext(c)

	var req DecideTieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
		return
	}

	date, ok := parseDate(req.MenuDate, h.window.VotingDate())
	if !ok {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"invalid menu_date, expected YYYY-MM-DD"}))
		return
	}

	result, err := h.repo.DecideTie(date, req.WinningOptionID, user.ID)
	if err != nil {
		h.respondError(c, "decide tie", err)
		return
	}
	c.JSON(http.StatusOK, common.CreateSuccessResponse(result))
}

// GetHistory returns past finalized results
// GET /cafe/history?limit&offset
func (h *Handler) GetHistory(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "30"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 30
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	results, err := h.repo.History(limit, offset)
	if err != nil {
		h.respondError(c, "history", err)
		return
	}
	c.JSON(http.StatusOK, common.CreateSuccessResponse(results))
}

// --- Suggestion board endpoints ---

// GetSuggestions lists active suggestions, most upvoted first
// GET /cafe/suggestions
func (h *Handler) GetSuggestions(c *gin.Context) {
	user := auth.GetUserFromContext(c)

	suggestions, err := h.repo.ActiveSuggestions(user.ID)
	if err != nil {
		h.respondError(c, "list suggestions", err)
		return
	}

	open, err := h.repo.SuggestionsOpen()
	if err != nil {
		h.respondError(c, "suggestions open", err)
		return
	}

	c.JSON(http.StatusOK, common.CreateSuccessResponse(gin.H{
		"open":        open,
		"suggestions": suggestions,
	}))
}

// PostSuggestion submits a new suggestion while the board is open
// POST /cafe/suggestions
func (h *Handler) PostSuggestion(c *gin.Context) {
	user := auth.GetUserFromContext(c)

	var req SuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
		return
	}

	open, err := h.repo.SuggestionsOpen()
	if err != nil {
		h.respondError(c, "suggestions open", err)
		return
	}
	if !open {
		h.respondError(c, "submit suggestion", ErrBoardClosed)
		return
	}

	suggestion, err := h.repo.CreateSuggestion(user.ID, req.Content)
	if err != nil {
		h.respondError(c, "create suggestion", err)
		return
	}
	c.JSON(http.StatusCreated, common.CreateSuccessResponse(suggestion))
}

// UpvoteSuggestion adds the caller's upvote (idempotent)
// POST /cafe/suggestions/:id/upvote
func (h *Handler) UpvoteSuggestion(c *gin.Context) {
	user := auth.GetUserFromContext(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"invalid suggestion id"}))
		return
	}

	if err := h.repo.UpvoteSuggestion(id, user.ID); err != nil {
		h.respondError(c, "upvote suggestion", err)
		return
	}
	c.JSON(http.StatusOK, common.CreateSuccessResponse(nil))
}

// RemoveSuggestionUpvote removes the caller's upvote (no-op when absent)
// DELETE /cafe/suggestions/:id/upvote
func (h *Handler) RemoveSuggestionUpvote(c *gin.Context) {
	user := auth.GetUserFromContext(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"invalid suggestion id"}))
		return
	}

	if err := h.repo.RemoveUpvote(id, user.ID); err != nil {
		h.respondError(c, "remove upvote", err)
		return
	}
	c.JSON(http.StatusOK, common.CreateSuccessResponse(nil))
}

// OpenSuggestions opens the board for new suggestions
// POST /cafe/suggestions/open
func (h *Handler) OpenSuggestions(c *gin.Context) {
	if err := h.repo.SetSuggestionsOpen(true); err != nil {
		h.respondError(c, "open board", err)
		return
	}
	c.JSON(http.StatusOK, common.CreateSuccessResponse(gin.H{"open": true}))
}

// CloseSuggestions closes the board and deactivates active suggestions
// POST /cafe/suggestions/close
func (h *Handler) CloseSuggestions(c *gin.Context) {
	if err := h.repo.CloseBoard(); err != nil {
		h.respondError(c, "close board", err)
		return
	}
	c.JSON(http.StatusOK, common.CreateSuccessResponse(gin.H{"open": false}))
}

// DeleteSuggestion removes a suggestion entirely
// DELETE /cafe/suggestions/:id
func (h *Handler) DeleteSuggestion(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"invalid suggestion id"}))
		return
	}

	if err := h.repo.DeleteSuggestion(id); err != nil {
		h.respondError(c, "delete suggestion", err)
		return
	}
	c.JSON(http.StatusOK, common.CreateSuccessResponse(nil))
}
