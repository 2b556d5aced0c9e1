package score

import (
	"sort"

	"github.com/kailas-cloud/tagscore/internal/domain"
)

// Item is a single scored candidate.
type Item struct {
	ItemID int64
	Score  float64
}

// Result is the outcome of scoring one user over a candidate set.
// Scores holds exactly the candidates that produced a cosine similarity;
// every other candidate appears in Omitted with the reason it was skipped.
type Result struct {
	scores  map[int64]float64
	omitted map[int64]error
}

// NewResult creates an empty result sized for n candidates.
func NewResult(n int) Result {
	return Result{
		scores:  make(map[int64]float64, n),
		omitted: make(map[int64]error),
	}
}

// Set records a score for an item.
func (r *Result) Set(itemID int64, s float64) {
	r.scores[itemID] = s
	delete(r.omitted, itemID)
}

// Omit records why an item received no score.
func (r *Result) Omit(itemID int64, reason error) {
	if _, ok := r.scores[itemID]; ok {
		return
	}
	r.omitted[itemID] = reason
}

// Score returns the score for an item. ok is false when the item was not scored.
func (r *Result) Score(itemID int64) (float64, bool) {
	s, ok := r.scores[itemID]
	return s, ok
}

// Scores returns the item id to score mapping.
func (r *Result) Scores() map[int64]float64 { return r.scores }

// Omitted returns the item id to omission reason mapping.
func (r *Result) Omitted() map[int64]error { return r.omitted }

// Len returns the number of scored items.
func (r *Result) Len() int { return len(r.scores) }

// OmissionCounts groups omitted items by reason label.
func (r *Result) OmissionCounts() map[string]int {
	counts := make(map[string]int)
	for _, err := range r.omitted {
		counts[domain.OmissionReason(err)]++
	}
	return counts
}

// Ranked returns scored items by descending score, ties broken by ascending
// item id. limit <= 0 returns all of them.
func (r *Result) Ranked(limit int) []Item {
	items := make([]Item, 0, len(r.scores))
	for id, s := range r.scores {
		items = append(items, Item{ItemID: id, Score: s})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].ItemID < items[j].ItemID
	})

	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
