package tagscore

import "github.com/kailas-cloud/tagscore/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrUnknownUser    = domain.ErrUnknownUser
	ErrMissingVector  = domain.ErrMissingVector
	ErrDegenerateNorm = domain.ErrDegenerateNorm
	ErrInvalidHistory = domain.ErrInvalidHistory
	ErrInvalidRating  = domain.ErrInvalidRating
	ErrInvalidVector  = domain.ErrInvalidVector
	ErrUnknownPolicy  = domain.ErrUnknownPolicy
)

// OmissionReason returns the short label of an omission error.
func OmissionReason(err error) string {
	return domain.OmissionReason(err)
}
