package rating

import (
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	domrating "github.com/kailas-cloud/tagscore/internal/domain/rating"
)

// ratingDTO is the JSON value stored under each item field of a user's hash.
type ratingDTO struct {
	Value float64 `json:"value"`
	TS    int64   `json:"ts,omitempty"`
}

// encodeRating serializes a rating into its hash field and value.
func encodeRating(r *domrating.Rating) (string, string, error) {
	dto := ratingDTO{Value: r.Value()}
	if !r.Timestamp().IsZero() {
		dto.TS = r.Timestamp().Unix()
	}
	data, err := json.Marshal(dto)
	if err != nil {
		return "", "", fmt.Errorf("marshal rating: %w", err)
	}
	return strconv.FormatInt(r.ItemID(), 10), string(data), nil
}

// decodeRating parses one hash entry back into a validated Rating.
func decodeRating(userID int64, field, raw string) (domrating.Rating, error) {
	itemID, err := strconv.ParseInt(field, 10, 64)
	if err != nil {
		return domrating.Rating{}, fmt.Errorf("parse item id %q: %w", field, err)
	}

	var dto ratingDTO
	if err := json.Unmarshal([]byte(raw), &dto); err != nil {
		return domrating.Rating{}, fmt.Errorf("unmarshal rating for item %d: %w", itemID, err)
	}

	var ts time.Time
	if dto.TS != 0 {
		ts = time.Unix(dto.TS, 0).UTC()
	}

	r, err := domrating.New(userID, itemID, dto.Value, ts)
	if err != nil {
		return domrating.Rating{}, fmt.Errorf("item %d: %w", itemID, err)
	}
	return r, nil
}
