package rating

import (
	"fmt"
	"math"
	"time"

	"github.com/kailas-cloud/tagscore/internal/domain"
)

// Rating is a user's explicit rating of an item (immutable value object).
type Rating struct {
	userID    int64
	itemID    int64
	value     float64
	timestamp time.Time
}

// New validates and creates a Rating. The value must be finite and positive.
func New(userID, itemID int64, value float64, timestamp time.Time) (Rating, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Rating{}, fmt.Errorf("%w: value must be finite", domain.ErrInvalidRating)
	}
	if value <= 0 {
		return Rating{}, fmt.Errorf("%w: value must be positive, got %v", domain.ErrInvalidRating, value)
	}
	return Rating{userID: userID, itemID: itemID, value: value, timestamp: timestamp}, nil
}

// Reconstruct creates a Rating without validation (storage hydration).
func Reconstruct(userID, itemID int64, value float64, timestamp time.Time) Rating {
	return Rating{userID: userID, itemID: itemID, value: value, timestamp: timestamp}
}

// UserID returns the rating user.
func (r *Rating) UserID() int64 { return r.userID }

// ItemID returns the rated item.
func (r *Rating) ItemID() int64 { return r.itemID }

// Value returns the rating value.
func (r *Rating) Value() float64 { return r.value }

// Timestamp returns when the rating was made.
func (r *Rating) Timestamp() time.Time { return r.timestamp }

// Mean returns the arithmetic mean of all rating values.
// ok is false for an empty history.
func Mean(ratings []Rating) (mean float64, ok bool) {
	if len(ratings) == 0 {
		return 0, false
	}
	var sum float64
	for i := range ratings {
		sum += ratings[i].value
	}
	return sum / float64(len(ratings)), true
}
