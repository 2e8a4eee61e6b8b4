package core

import "math"

// DefaultCompleteness is the fraction of a row's fields that must be present
// for the row to survive filtering.
const DefaultCompleteness = 0.6

// FilterReport records what the row quality filter did.
type FilterReport struct {
	Threshold     float64 `json:"threshold"`
	MinNonMissing int     `json:"minNonMissing"`
	Kept          int     `json:"kept"`
	Dropped       int     `json:"dropped"`
}

// MinNonMissing returns floor(columns × threshold).
func MinNonMissing(columns int, threshold float64) int {
	return int(math.Floor(float64(columns) * threshold))
}

// FilterIncomplete drops rows with fewer than floor(columns × threshold)
// present values. A non-positive threshold selects DefaultCompleteness.
func FilterIncomplete(t *Table, threshold float64) (*Table, FilterReport) {
	if threshold <= 0 {
		threshold = DefaultCompleteness
	}
	report := FilterReport{
		Threshold:     threshold,
		MinNonMissing: MinNonMissing(t.NumColumns(), threshold),
	}

	keep := make([]int, 0, t.NumRows())
	for i := 0; i < t.NumRows(); i++ {
		if t.NonMissing(i) >= report.MinNonMissing {
			keep = append(keep, i)
		}
	}

	report.Kept = len(keep)
	report.Dropped = t.NumRows() - len(keep)
	if report.Dropped == 0 {
		return t, report
	}
	return t.take(keep), report
}
