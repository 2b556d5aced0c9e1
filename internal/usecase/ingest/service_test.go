package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/tagscore/internal/domain/rating"
	"github.com/kailas-cloud/tagscore/internal/domain/vector"
	"github.com/kailas-cloud/tagscore/internal/repository/memory"
)

type recordingRatings struct {
	saved map[int64][]rating.Rating
	err   error
}

func (r *recordingRatings) Save(_ context.Context, userID int64, ratings []rating.Rating) error {
	if r.err != nil {
		return r.err
	}
	if r.saved == nil {
		r.saved = map[int64][]rating.Rating{}
	}
	r.saved[userID] = ratings
	return nil
}

type recordingVectors struct {
	batches []map[int64]vector.Sparse
	err     error
}

func (r *recordingVectors) Save(_ context.Context, vectors map[int64]vector.Sparse) error {
	if r.err != nil {
		return r.err
	}
	r.batches = append(r.batches, vectors)
	return nil
}

const dataset = `
ratings:
  - {user: 1, item: 10, value: 4}
  - {user: 1, item: 11, value: 2}
  - {user: 2, item: 12, value: 5}
vectors:
  10: {a: 1}
  11: {b: 1}
  12: {c: 1}
`

func TestImport(t *testing.T) {
	hist, vecs, err := memory.ParseDataset([]byte(dataset))
	if err != nil {
		t.Fatal(err)
	}
	rw := &recordingRatings{}
	vw := &recordingVectors{}

	st, err := New(rw, vw, nil).WithBatchSize(2).Import(context.Background(), hist, vecs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st != (Stats{Users: 2, Ratings: 3, Vectors: 3}) {
		t.Errorf("stats = %+v", st)
	}
	if len(vw.batches) != 2 || len(vw.batches[0]) != 2 || len(vw.batches[1]) != 1 {
		t.Errorf("expected batches of 2 and 1, got %d batches", len(vw.batches))
	}
	if len(rw.saved[1]) != 2 || len(rw.saved[2]) != 1 {
		t.Errorf("unexpected saved histories: %v", rw.saved)
	}
}

func TestImport_Errors(t *testing.T) {
	hist, vecs, err := memory.ParseDataset([]byte(dataset))
	if err != nil {
		t.Fatal(err)
	}
	boom := errors.New("boom")

	if _, err := New(&recordingRatings{}, &recordingVectors{err: boom}, nil).
		Import(context.Background(), hist, vecs); !errors.Is(err, boom) {
		t.Errorf("expected vector write error, got %v", err)
	}

	st, err := New(&recordingRatings{err: boom}, &recordingVectors{}, nil).
		Import(context.Background(), hist, vecs)
	if !errors.Is(err, boom) {
		t.Errorf("expected rating write error, got %v", err)
	}
	if st.Vectors != 3 || st.Users != 0 {
		t.Errorf("expected partial stats, got %+v", st)
	}
}
