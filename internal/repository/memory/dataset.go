package memory

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/tagscore/internal/domain/rating"
	"github.com/kailas-cloud/tagscore/internal/domain/vector"
)

// Dataset is the YAML file layout:
//
//	ratings:
//	  - {user: 1, item: 10, value: 4.5, ts: 1700000000}
//	vectors:
//	  10: {space: 0.8, comedy: 0.1}
type Dataset struct {
	Ratings []RatingRecord               `yaml:"ratings"`
	Vectors map[int64]map[string]float64 `yaml:"vectors"`
}

// RatingRecord is one rating row of a dataset. TS is unix seconds.
type RatingRecord struct {
	User  int64   `yaml:"user"`
	Item  int64   `yaml:"item"`
	Value float64 `yaml:"value"`
	TS    int64   `yaml:"ts"`
}

// LoadDataset reads a YAML dataset file into fresh stores.
func LoadDataset(path string) (*Ratings, *Vectors, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path from trusted config
	if err != nil {
		return nil, nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	ratings, vectors, err := ParseDataset(data)
	if err != nil {
		return nil, nil, fmt.Errorf("dataset %s: %w", path, err)
	}
	return ratings, vectors, nil
}

// ParseDataset decodes YAML dataset bytes into fresh stores.
// Every rating and vector is validated.
func ParseDataset(data []byte) (*Ratings, *Vectors, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, nil, fmt.Errorf("parse yaml: %w", err)
	}

	ratings := NewRatings()
	for i, rec := range ds.Ratings {
		var ts time.Time
		if rec.TS != 0 {
			ts = time.Unix(rec.TS, 0).UTC()
		}
		r, err := rating.New(rec.User, rec.Item, rec.Value, ts)
		if err != nil {
			return nil, nil, fmt.Errorf("ratings[%d]: %w", i, err)
		}
		ratings.Add(r)
	}

	vectors := NewVectors()
	for id, weights := range ds.Vectors {
		if err := vectors.Put(id, vector.Sparse(weights)); err != nil {
			return nil, nil, err
		}
	}
	return ratings, vectors, nil
}
