
package models

import (
	"errors"
	"math"
)

// Weights is the five-component scoring weight vector. A validated,
// normalized copy is passed by value into each analysis run so that
// concurrent runs never observe a mid-flight update.
type Weights struct {
	Frequency       float64 `json:"w1_frequency" yaml:"w1_frequency"`
	TFIDF           float64 `json:"w2_tfidf" yaml:"w2_tfidf"`
	Cooccurrence    float64 `json:"w3_cooccurrence" yaml:"w3_cooccurrence"`
	PositionTitle   float64 `json:"w4_position_title" yaml:"w4_position_title"`
	SimilarityBrand float64 `json:"w5_similarity_brand" yaml:"w5_similarity_brand"`
}

// ErrInvalidWeights rejects weight vectors that cannot be normalized.
var ErrInvalidWeights = errors.New("weights must be non-negative and sum to a positive value")

// DefaultWeights matches the documented defaults (sum = 1).
func DefaultWeights() Weights {
	return Weights{
		Frequency:       0.3,
		TFIDF:           0.25,
		Cooccurrence:    0.2,
		PositionTitle:   0.15,
		SimilarityBrand: 0.1,
	}
}

func (w Weights) sum() float64 {
	return w.Frequency + w.TFIDF + w.Cooccurrence + w.PositionTitle + w.SimilarityBrand
}

// Validate rejects negative components and all-zero vectors.
func (w Weights) Validate() error {
	for _, v := range []float64{w.Frequency, w.TFIDF, w.Cooccurrence, w.PositionTitle, w.SimilarityBrand} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrInvalidWeights
		}
	}
	if w.sum() <= 0 {
		return ErrInvalidWeights
	}
	return nil
}

// Normalized returns a copy scaled so the components sum to 1.
func (w Weights) Normalized() (Weights, error) {
	if err := w.Validate(); err != nil {
		return Weights{}, err
	}
	total := w.sum()
	return Weights{
		Frequency:       w.Frequency / total,
		TFIDF:           w.TFIDF / total,
		Cooccurrence:    w.Cooccurrence / total,
		PositionTitle:   w.PositionTitle / total,
		SimilarityBrand: w.SimilarityBrand / total,
	}, nil
}

// Merge overlays the non-nil fields of a partial update onto w.
func (w Weights) Merge(u WeightsUpdate) Weights {
	out := w
	if u.Frequency != nil {
		out.Frequency = *u.Frequency
	}
	if u.TFIDF != nil {
		out.TFIDF = *u.TFIDF
	}
	if u.Cooccurrence != nil {
		out.Cooccurrence = *u.Cooccurrence
	}
	if u.PositionTitle != nil {
		out.PositionTitle = *u.PositionTitle
	}
	if u.SimilarityBrand != nil {
		out.SimilarityBrand = *u.SimilarityBrand
	}
	return out
}

// WeightsUpdate is a partial weight update; absent fields keep their
// current value.
type WeightsUpdate struct {
	Frequency       *float64 `json:"w1_frequency,omitempty"`
	TFIDF           *float64 `json:"w2_tfidf,omitempty"`
	Cooccurrence    *float64 `json:"w3_cooccurrence,omitempty"`
	PositionTitle   *float64 `json:"w4_position_title,omitempty"`
	SimilarityBrand *float64 `json:"w5_similarity_brand,omitempty"`
}
