package core

import (
	"github.com/montanaflynn/stats"
)

// ColumnProfile summarizes one column of a validated table.
type ColumnProfile struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Present int      `json:"present"`
	Missing int      `json:"missing"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Mean    *float64 `json:"mean,omitempty"`
	Median  *float64 `json:"median,omitempty"`
	StdDev  *float64 `json:"stdDev,omitempty"`
}

// Profile reports null counts for every column and summary statistics for
// float columns. Statistics are nil when a column has no values.
func Profile(t *Table) []ColumnProfile {
	profiles := make([]ColumnProfile, 0, t.NumColumns())
	for _, c := range t.columns {
		p := ColumnProfile{Name: c.Name, Type: c.Type.String()}

		var data stats.Float64Data
		for i := 0; i < c.Len(); i++ {
			if c.IsMissing(i) {
				p.Missing++
				continue
			}
			p.Present++
			if c.Type == ColumnFloat {
				data = append(data, c.Floats[i].Float64)
			}
		}

		if len(data) > 0 {
			p.Min = stat(stats.Min, data)
			p.Max = stat(stats.Max, data)
			p.Mean = stat(stats.Mean, data)
			p.Median = stat(stats.Median, data)
			p.StdDev = stat(stats.StandardDeviation, data)
		}
		profiles = append(profiles, p)
	}
	return profiles
}

func stat(fn func(stats.Float64Data) (float64, error), data stats.Float64Data) *float64 {
	v, err := fn(data)
	if err != nil {
		return nil
	}
	return &v
}
