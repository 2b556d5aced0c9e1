package domain

import (
	"errors"
	"fmt"
)

// Omission reasons. None of these abort a scoring call: the affected
// item or user simply contributes nothing.
var (
	// ErrUnknownUser signals that no rating history exists for a user.
	ErrUnknownUser = errors.New("unknown user")
	// ErrMissingVector signals that the tag vector store has no vector for an item.
	ErrMissingVector = errors.New("missing tag vector")
	// ErrDegenerateNorm signals a zero-magnitude operand in a cosine computation.
	ErrDegenerateNorm = errors.New("degenerate norm")
	// ErrInvalidHistory signals an empty history where a policy needs a mean.
	ErrInvalidHistory = errors.New("invalid rating history")
)

var (
	// ErrInvalidRating signals a rating value outside the accepted domain.
	ErrInvalidRating = errors.New("invalid rating")
	// ErrInvalidVector signals a tag vector holding a non-finite weight.
	ErrInvalidVector = errors.New("invalid tag vector")
	// ErrUnknownPolicy signals an unsupported profile aggregation policy.
	ErrUnknownPolicy = errors.New("unknown profile policy")
)

// OmissionReason maps an omission error to a short, stable label used in
// logs, metrics and CLI output.
func OmissionReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnknownUser):
		return "unknown_user"
	case errors.Is(err, ErrMissingVector):
		return "missing_vector"
	case errors.Is(err, ErrDegenerateNorm):
		return "degenerate_norm"
	case errors.Is(err, ErrInvalidHistory):
		return "invalid_history"
	default:
		return "error"
	}
}

// ItemError ties an omission reason to the item it was raised for.
type ItemError struct {
	ItemID int64
	Err    error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item %d: %s", e.ItemID, e.Err.Error())
}

func (e *ItemError) Unwrap() error { return e.Err }

// NewMissingVector creates an ErrMissingVector bound to an item.
func NewMissingVector(itemID int64) error {
	return &ItemError{ItemID: itemID, Err: ErrMissingVector}
}
