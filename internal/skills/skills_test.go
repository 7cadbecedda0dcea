package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		required []string
		having   []string
		rate     float64
		matched  int
		total    int
	}{
		{
			name:     "empty required is a full match",
			required: nil,
			having:   []string{"Go"},
			rate:     1, matched: 0, total: 0,
		},
		{
			name:     "half match",
			required: []string{"Go", "Rust"},
			having:   []string{"Go", "Python"},
			rate:     0.5, matched: 1, total: 2,
		},
		{
			name:     "no overlap",
			required: []string{"Go", "Rust"},
			having:   []string{"Python"},
			rate:     0, matched: 0, total: 2,
		},
		{
			name:     "full match",
			required: []string{"React", "Node.js"},
			having:   []string{"Node.js", "React", "CSS"},
			rate:     1, matched: 2, total: 2,
		},
		{
			name:     "case sensitive",
			required: []string{"Go"},
			having:   []string{"go"},
			rate:     0, matched: 0, total: 1,
		},
		{
			name:     "duplicates and order ignored",
			required: []string{"Go", "Go", "Rust"},
			having:   []string{"Rust", "Go", "Go"},
			rate:     1, matched: 2, total: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Evaluate(tt.required, tt.having)
			assert.InDelta(t, tt.rate, m.Rate, 1e-9)
			assert.Equal(t, tt.matched, m.Matched)
			assert.Equal(t, tt.total, m.Required)
			assert.GreaterOrEqual(t, m.Rate, 0.0)
			assert.LessOrEqual(t, m.Rate, 1.0)
		})
	}
}

func TestReadyForReviewBoundary(t *testing.T) {
	// Exactly 50% qualifies; below does not.
	atThreshold := Evaluate([]string{"A", "B", "C", "D"}, []string{"A", "B"})
	assert.InDelta(t, 0.5, atThreshold.Rate, 1e-9)
	assert.True(t, atThreshold.ReadyForReview())

	below := Evaluate([]string{"A", "B", "C", "D"}, []string{"A"})
	assert.InDelta(t, 0.25, below.Rate, 1e-9)
	assert.False(t, below.ReadyForReview())
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 50, Evaluate([]string{"React", "Node.js"}, []string{"React"}).Percent())
	assert.Equal(t, 33, Evaluate([]string{"A", "B", "C"}, []string{"A"}).Percent())
	assert.Equal(t, 67, Evaluate([]string{"A", "B", "C"}, []string{"A", "B"}).Percent())
	assert.Equal(t, 100, Evaluate(nil, nil).Percent())
}
