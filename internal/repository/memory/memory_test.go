package memory

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/kailas-cloud/tagscore/internal/domain"
	"github.com/kailas-cloud/tagscore/internal/domain/rating"
	"github.com/kailas-cloud/tagscore/internal/domain/vector"
)

const sampleDataset = `
ratings:
  - {user: 1, item: 10, value: 4.5, ts: 1700000000}
  - {user: 1, item: 20, value: 2}
  - {user: 2, item: 10, value: 5}
vectors:
  10: {space: 0.8, comedy: 0.1}
  20: {drama: 1}
`

func TestRatings_AddAndGet(t *testing.T) {
	s := NewRatings()
	r1, _ := rating.New(1, 10, 4, time.Time{})
	r2, _ := rating.New(1, 20, 2, time.Time{})
	r3, _ := rating.New(2, 10, 5, time.Time{})
	s.Add(r1, r2, r3)

	got, err := s.Ratings(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ItemID() != 10 || got[1].ItemID() != 20 {
		t.Errorf("unexpected history: %+v", got)
	}

	// Returned history is a copy.
	got[0] = r3
	again, _ := s.Ratings(context.Background(), 1)
	if again[0].ItemID() != 10 || again[0].UserID() != 1 {
		t.Error("caller mutated stored history")
	}

	users := s.Users()
	if len(users) != 2 || users[0] != 1 || users[1] != 2 {
		t.Errorf("users = %v", users)
	}
}

func TestRatings_AddReplacesSameItem(t *testing.T) {
	s := NewRatings()
	first, _ := rating.New(1, 10, 5, time.Time{})
	other, _ := rating.New(1, 20, 2, time.Time{})
	later, _ := rating.New(1, 10, 1, time.Time{})
	s.Add(first, other)
	s.Add(later)

	got, err := s.Ratings(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 ratings, got %+v", got)
	}
	if got[0].ItemID() != 10 || got[0].Value() != 1 {
		t.Errorf("expected later rating of item 10 to win, got %+v", got[0])
	}
}

func TestParseDataset_DuplicateRowLastWins(t *testing.T) {
	data := `
ratings:
  - {user: 1, item: 10, value: 5}
  - {user: 1, item: 10, value: 2}
`
	ratings, _, err := ParseDataset([]byte(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h, err := ratings.Ratings(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(h) != 1 || h[0].Value() != 2 {
		t.Errorf("expected single rating 2, got %+v", h)
	}
}

func TestRatings_UnknownUser(t *testing.T) {
	_, err := NewRatings().Ratings(context.Background(), 99)
	if !errors.Is(err, domain.ErrUnknownUser) {
		t.Fatalf("expected ErrUnknownUser, got %v", err)
	}
}

func TestVectors_PutAndGet(t *testing.T) {
	s := NewVectors()
	in := vector.Sparse{"space": 1}
	if err := s.Put(1, in); err != nil {
		t.Fatalf("put: %v", err)
	}
	in["space"] = 99 // stored copy is unaffected

	v, err := s.Vector(context.Background(), 1)
	if err != nil {
		t.Fatalf("vector: %v", err)
	}
	if v["space"] != 1 {
		t.Errorf("expected stored copy, got %v", v)
	}
	v["space"] = 42
	v2, _ := s.Vector(context.Background(), 1)
	if v2["space"] != 1 {
		t.Error("caller mutated stored vector")
	}
	if s.Len() != 1 || len(s.All()) != 1 {
		t.Errorf("expected 1 stored vector")
	}
}

func TestVectors_Missing(t *testing.T) {
	s := NewVectors()
	_, err := s.Vector(context.Background(), 3)
	if !errors.Is(err, domain.ErrMissingVector) {
		t.Fatalf("expected ErrMissingVector, got %v", err)
	}

	_ = s.Put(1, vector.Sparse{"a": 1})
	got, err := s.Vectors(context.Background(), []int64{1, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected only item 1, got %v", got)
	}
}

func TestVectors_PutRejectsNonFinite(t *testing.T) {
	err := NewVectors().Put(1, vector.Sparse{"a": math.NaN()})
	if !errors.Is(err, domain.ErrInvalidVector) {
		t.Fatalf("expected ErrInvalidVector, got %v", err)
	}
}

func TestParseDataset(t *testing.T) {
	ratings, vectors, err := ParseDataset([]byte(sampleDataset))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	h, err := ratings.Ratings(context.Background(), 1)
	if err != nil {
		t.Fatalf("ratings: %v", err)
	}
	if len(h) != 2 {
		t.Fatalf("expected 2 ratings for user 1, got %d", len(h))
	}
	if !h[0].Timestamp().Equal(time.Unix(1700000000, 0)) {
		t.Errorf("unexpected timestamp %v", h[0].Timestamp())
	}

	v, err := vectors.Vector(context.Background(), 10)
	if err != nil {
		t.Fatalf("vector: %v", err)
	}
	if v["space"] != 0.8 || v["comedy"] != 0.1 {
		t.Errorf("unexpected vector %v", v)
	}
}

func TestParseDataset_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{"malformed yaml", "ratings: [", nil},
		{"non-positive rating", "ratings:\n  - {user: 1, item: 1, value: 0}\n", domain.ErrInvalidRating},
		{"infinite weight", "vectors:\n  1: {a: .inf}\n", domain.ErrInvalidVector},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseDataset([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.yaml")
	if err := os.WriteFile(path, []byte(sampleDataset), 0o600); err != nil {
		t.Fatal(err)
	}
	_, vectors, err := LoadDataset(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vectors.Len() != 2 {
		t.Errorf("expected 2 vectors, got %d", vectors.Len())
	}

	if _, _, err := LoadDataset(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestConcurrentReads(t *testing.T) {
	ratings, vectors, err := ParseDataset([]byte(sampleDataset))
	if err != nil {
		t.Fatal(err)
	}
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = ratings.Ratings(context.Background(), 1)
			_, _ = vectors.Vectors(context.Background(), []int64{10, 20})
		}()
	}
	wg.Wait()
}
