// Package search holds the result types of a nearest-neighbour query.
package search

import (
	"math"
	"sort"
)

// Hit is one nearest-neighbour match. Score is a distance: lower is closer.
type Hit struct {
	id    string
	text  string
	score float64
}

// NewHit creates a Hit. Pass NoScore when the store returned no usable score.
func NewHit(id, text string, score float64) Hit {
	return Hit{id: id, text: text, score: score}
}

// NoScore marks a hit whose distance could not be resolved.
var NoScore = math.NaN()

// ID returns the document identifier.
func (h Hit) ID() string { return h.id }

// Text returns the stored document text.
func (h Hit) Text() string { return h.text }

// Score returns the distance, NaN when unknown.
func (h Hit) Score() float64 { return h.score }

// HasScore reports whether the distance is known.
func (h Hit) HasScore() bool { return !math.IsNaN(h.score) }

// Rank orders hits by ascending distance, unknown scores last, preserving
// the store order among equals, and truncates to k. k <= 0 keeps everything.
func Rank(hits []Hit, k int) []Hit {
	out := make([]Hit, len(hits))
	copy(out, hits)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.HasScore() {
			return false
		}
		if !b.HasScore() {
			return true
		}
		return a.score < b.score
	})
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}
