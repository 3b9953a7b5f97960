package cafe

import "errors"

// Domain errors. Handlers map these to HTTP statuses; everything else is
// treated as a store failure and surfaced as a 500.
var (
	ErrVotingClosed  = errors.New("voting is closed for today")
	ErrInvalidOption = errors.New("option does not belong to this menu date")
	ErrNoOptions     = errors.New("no menu options posted for this date")
	ErrBoardClosed   = errors.New("suggestion board is closed")
	ErrNotFound      = errors.New("not found")
)
