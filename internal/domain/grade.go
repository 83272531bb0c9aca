package domain

import "math"

// Score bounds and the passing threshold, all inclusive.
const (
	MinScore       = 0.0
	MaxScore       = 10.0
	PassingAverage = 6.0
)

// GradeEntry is one subject/score pair attached to a user.
// A subject may appear many times; entries are kept in insertion order.
type GradeEntry struct {
	Subject string  `json:"subject"`
	Score   float64 `json:"score"`
}

// NewGradeEntry validates the subject and score and returns the entry.
// An empty subject or a non-finite score yields ErrInvalidGradeInput; a finite
// score outside [MinScore, MaxScore] yields ErrScoreOutOfRange.
func NewGradeEntry(subject string, score float64) (GradeEntry, error) {
	if subject == "" || !IsNumeric(score) {
		return GradeEntry{}, ErrInvalidGradeInput
	}
	if score < MinScore || score > MaxScore {
		return GradeEntry{}, ErrScoreOutOfRange
	}
	return GradeEntry{Subject: subject, Score: score}, nil
}

// IsNumeric reports whether score is a finite number.
func IsNumeric(score float64) bool {
	return !math.IsNaN(score) && !math.IsInf(score, 0)
}

// Average returns the arithmetic mean of the scores, unrounded.
// ok is false when there are no grades.
func Average(grades []GradeEntry) (avg float64, ok bool) {
	if len(grades) == 0 {
		return 0, false
	}

	var sum float64
	for _, g := range grades {
		sum += g.Score
	}
	return sum / float64(len(grades)), true
}

// IsPassingAverage reports whether avg meets the inclusive passing threshold.
func IsPassingAverage(avg float64) bool {
	return avg >= PassingAverage
}
