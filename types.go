package tagscore

import (
	"maps"
	"time"

	"github.com/kailas-cloud/tagscore/internal/domain"
	domscore "github.com/kailas-cloud/tagscore/internal/domain/score"
	"github.com/kailas-cloud/tagscore/internal/usecase/profile"
)

// Policy selects how ratings are aggregated into a profile.
type Policy string

const (
	// PolicyThreshold sums the tag vectors of items rated 3.5 or higher.
	PolicyThreshold Policy = Policy(profile.Threshold)
	// PolicyWeighted sums every rated item's tag vector weighted by its
	// rating minus the user's mean rating.
	PolicyWeighted Policy = Policy(profile.Weighted)
)

// RatingThreshold is the lowest rating PolicyThreshold counts as a like.
const RatingThreshold = profile.RatingThreshold

// Rating is a user's explicit rating of an item. Value must be positive.
type Rating struct {
	UserID    int64
	ItemID    int64
	Value     float64
	Timestamp time.Time
}

// Vector maps a tag to its TF-IDF weight.
type Vector map[string]float64

// ScoredItem is one ranked candidate.
type ScoredItem struct {
	ItemID int64   `json:"item_id"`
	Score  float64 `json:"score"`
}

// Result holds the scores of one Score call.
type Result struct {
	res domscore.Result
}

// Score returns the score of an item; ok is false if it was not scored.
func (r Result) Score(itemID int64) (float64, bool) {
	return r.res.Score(itemID)
}

// Scores returns a copy of every computed score.
func (r Result) Scores() map[int64]float64 {
	return maps.Clone(r.res.Scores())
}

// Len returns the number of scored items.
func (r Result) Len() int {
	return r.res.Len()
}

// Ranked returns scored items by descending score, ties by ascending item
// id. limit <= 0 returns all of them.
func (r Result) Ranked(limit int) []ScoredItem {
	ranked := r.res.Ranked(limit)
	out := make([]ScoredItem, len(ranked))
	for i, it := range ranked {
		out[i] = ScoredItem{ItemID: it.ItemID, Score: it.Score}
	}
	return out
}

// Omitted maps every candidate that was not scored to the reason.
// Match reasons with errors.Is against ErrMissingVector or ErrDegenerateNorm.
func (r Result) Omitted() map[int64]error {
	return maps.Clone(r.res.Omitted())
}

// OmittedReasons maps every omitted candidate to a short label such as
// "missing_vector" or "degenerate_norm".
func (r Result) OmittedReasons() map[int64]string {
	om := r.res.Omitted()
	out := make(map[int64]string, len(om))
	for id, err := range om {
		out[id] = domain.OmissionReason(err)
	}
	return out
}
