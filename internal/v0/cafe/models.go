package cafe

import (
	"time"
)

// DateLayout is the canonical cycle-date format used in the database and API.
const DateLayout = "2006-01-02"

// MenuOption is one of the three dishes posted for a cycle date.
type MenuOption struct {
	ID            int64     `json:"id"`
	MenuDate      string    `json:"menu_date"`
	OptionNumber  int       `json:"option_number"`
	NameEN        string    `json:"name_en"`
	NameEL        string    `json:"name_el"`
	DescriptionEN string    `json:"description_en"`
	DescriptionEL string    `json:"description_el"`
	ImageURL      *string   `json:"image_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	VoteCount     int       `json:"vote_count"`
}

// Vote is a user's current choice for a cycle date. At most one row exists
// per (menu_date, user_id); resubmission overwrites the option.
type Vote struct {
	MenuDate  string    `json:"menu_date"`
	UserID    int64     `json:"user_id"`
	OptionID  int64     `json:"option_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MenuResult is the finalized outcome for a cycle date.
type MenuResult struct {
	MenuDate        string      `json:"menu_date"`
	WinningOptionID int64       `json:"winning_option_id"`
	TotalVotes      int         `json:"total_votes"`
	WasTie          bool        `json:"was_tie"`
	DecidedBy       *int64      `json:"decided_by,omitempty"`
	FinalizedAt     time.Time   `json:"finalized_at"`
	Winner          *MenuOption `json:"winner,omitempty"`
}

// Resolution is the outcome of closing voting for a date. Either Winner is
// set (unique top option) or Tie is true and TiedOptions lists the options
// sharing the maximum count.
type Resolution struct {
	MenuDate    string       `json:"menu_date"`
	Tie         bool         `json:"tie"`
	Winner      *MenuOption  `json:"winner,omitempty"`
	TiedOptions []MenuOption `json:"tied_options,omitempty"`
	TotalVotes  int          `json:"total_votes"`
}

// Suggestion is a free-text entry on the suggestion board.
type Suggestion struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	Content         string    `json:"content"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	Upvotes         int       `json:"upvotes"`
	UpvotedByCaller bool      `json:"upvoted_by_caller"`
}

// --- Request bodies ---

type OptionInput struct {
	NameEN        string  `json:"name_en" binding:"required"`
	NameEL        string  `json:"name_el" binding:"required"`
	DescriptionEN string  `json:"description_en"`
	DescriptionEL string  `json:"description_el"`
	ImageURL      *string `json:"image_url"`
}

type PostMenuRequest struct {
	MenuDate string        `json:"menu_date"`
	Options  []OptionInput `json:"options" binding:"required,len=3,dive"`
}

type UpdateOptionRequest struct {
	NameEN        *string `json:"name_en"`
	NameEL        *string `json:"name_el"`
	DescriptionEN *string `json:"description_en"`
	DescriptionEL *string `json:"description_el"`
	ImageURL      *string `json:"image_url"`
}

type VoteRequest struct {
	OptionID int64 `json:"option_id" binding:"required"`
}

type CloseVotingRequest struct {
	MenuDate string `json:"menu_date"`
}

type DecideTieRequest struct {
	MenuDate        string `json:"menu_date"`
	WinningOptionID int64  `json:"winning_option_id" binding:"required"`
}

type SuggestionRequest struct {
	Content string `json:"content" binding:"required,min=3,max=500"`
}

// --- Response shapes ---

// TomorrowView is the payload for the main voting screen.
type TomorrowView struct {
	MenuDate       string         `json:"menu_date"`
	Options        []MenuOption   `json:"options"`
	MyVote         *Vote          `json:"my_vote"`
	VotingClosed   bool           `json:"voting_closed"`
	VotingFinal    bool           `json:"voting_finalized"`
	TimeRemaining  *TimeRemaining `json:"time_remaining"`
	VoterCount     int            `json:"voter_count"`
}

// StatusView is the dashboard widget payload.
type StatusView struct {
	Today            *MenuResult    `json:"today"`
	TomorrowDate     string         `json:"tomorrow_date"`
	TomorrowOptions  int            `json:"tomorrow_options"`
	VotingClosed     bool           `json:"voting_closed"`
	VotingFinal      bool           `json:"voting_finalized"`
	WasTie           bool           `json:"was_tie"`
	SuggestionsOpen  bool           `json:"suggestions_open"`
	TimeRemaining    *TimeRemaining `json:"time_remaining"`
}
