package dataset

import (
	"fmt"
	"math"

	"github.com/caio/go-tdigest/v4"

	"github.com/mhermher/savvy/internal/pool"
)

// Summary describes the values of one column. Quantiles are t-digest
// estimates; the other statistics are exact. For string columns, and for
// numeric columns without a finite value, only Count and Missing are set
// and the statistics stay zero.
type Summary struct {
	Count   int     `json:"count" yaml:"count"`
	Missing int     `json:"missing" yaml:"missing"`
	Min     float64 `json:"min" yaml:"min"`
	Max     float64 `json:"max" yaml:"max"`
	Mean    float64 `json:"mean" yaml:"mean"`
	Q1      float64 `json:"q1" yaml:"q1"`
	Median  float64 `json:"median" yaml:"median"`
	Q3      float64 `json:"q3" yaml:"q3"`
}

// Describe summarizes the column. Missing counts system-missing and
// user-missing values alike; non-finite numbers are counted but excluded
// from the statistics.
func (c *Column) Describe() (Summary, error) {
	var s Summary

	if !c.numeric {
		for i := range c.values {
			if c.IsMissing(c.values[i]) {
				s.Missing++
			} else {
				s.Count++
			}
		}

		return s, nil
	}

	finite, cleanup := pool.GetFloat64Slice(len(c.values))
	defer cleanup()

	for i := range c.values {
		v := c.values[i]
		if c.IsMissing(v) {
			s.Missing++
			continue
		}
		s.Count++
		if f, _ := v.Float(); !math.IsNaN(f) && !math.IsInf(f, 0) {
			finite = append(finite, f)
		}
	}

	if len(finite) == 0 {
		return s, nil
	}

	td, err := tdigest.New()
	if err != nil {
		return Summary{}, fmt.Errorf("tdigest.New failed: %w", err)
	}

	s.Min, s.Max = math.Inf(1), math.Inf(-1)
	var sum float64
	for _, f := range finite {
		s.Min = min(s.Min, f)
		s.Max = max(s.Max, f)
		sum += f
		if err := td.AddWeighted(f, 1); err != nil {
			return Summary{}, fmt.Errorf("%s: %w", c.name, err)
		}
	}

	s.Mean = sum / float64(len(finite))
	s.Q1 = td.Quantile(0.25)
	s.Median = td.Quantile(0.5)
	s.Q3 = td.Quantile(0.75)

	return s, nil
}
