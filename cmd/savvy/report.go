package main

import (
	"strconv"
	"strings"

	"github.com/mhermher/savvy/dataset"
	"github.com/mhermher/savvy/sav"
)

// report is the output document for one input.
type report struct {
	File      string           `json:"file" yaml:"file"`
	Meta      *metaReport      `json:"meta,omitempty" yaml:"meta,omitempty"`
	Variables []variable       `json:"variables,omitempty" yaml:"variables,omitempty"`
	Factors   []factor         `json:"factors,omitempty" yaml:"factors,omitempty"`
	Documents []string         `json:"documents,omitempty" yaml:"documents,omitempty"`
	Fields    []string         `json:"fields,omitempty" yaml:"fields,omitempty"`
	Rows      []map[string]any `json:"rows,omitempty" yaml:"rows,omitempty"`
	Columns   []columnSummary  `json:"columns,omitempty" yaml:"columns,omitempty"`
}

type metaReport struct {
	Product     string  `json:"product" yaml:"product"`
	Layout      int32   `json:"layout" yaml:"layout"`
	Variables   int32   `json:"variables" yaml:"variables"`
	Compression string  `json:"compression" yaml:"compression"`
	WeightIndex int32   `json:"weight_index" yaml:"weight_index"`
	Cases       int32   `json:"cases" yaml:"cases"`
	Bias        float64 `json:"bias" yaml:"bias"`
	Created     string  `json:"created" yaml:"created"`
	Label       string  `json:"label,omitempty" yaml:"label,omitempty"`
}

type variable struct {
	Name    string    `json:"name" yaml:"name"`
	Long    string    `json:"long_name,omitempty" yaml:"long_name,omitempty"`
	Width   int32     `json:"width" yaml:"width"`
	Label   string    `json:"label,omitempty" yaml:"label,omitempty"`
	Missing []any     `json:"missing,omitempty" yaml:"missing,omitempty"`
	Range   []float64 `json:"missing_range,omitempty" yaml:"missing_range,omitempty"`
}

type factor struct {
	Indices []uint32          `json:"indices" yaml:"indices"`
	Labels  map[string]string `json:"labels" yaml:"labels"`
}

type columnSummary struct {
	Name            string `json:"name" yaml:"name"`
	Kind            string `json:"kind" yaml:"kind"`
	dataset.Summary `yaml:",inline"`
}

func newMetaReport(m sav.Meta) *metaReport {
	return &metaReport{
		Product:     m.Product,
		Layout:      m.Layout,
		Variables:   m.Variables,
		Compression: m.Compression.String(),
		WeightIndex: m.WeightIndex,
		Cases:       m.Cases,
		Bias:        m.Bias,
		Created:     m.CreatedDate + " " + m.CreatedTime,
		Label:       m.Label,
	}
}

// schemaReport lists variable records, skipping continuation slots, and
// value label tables with their raw 1-based slot indices.
func schemaReport(r *report, s sav.Schema) {
	r.Meta = newMetaReport(s.Meta)

	for _, h := range s.Headers {
		if h.IsContinuation() {
			continue
		}
		v := variable{Name: h.Name, Long: s.Internal.Labels[h.Name], Width: h.Code, Label: h.Label}
		if w, ok := s.Internal.Widths[h.Name]; ok {
			v.Width = int32(w) //nolint:gosec
		}
		for _, code := range h.Missing.Codes {
			v.Missing = append(v.Missing, code.Any())
		}
		if rg := h.Missing.Range; rg != nil {
			v.Range = []float64{rg.Low, rg.High}
		}
		r.Variables = append(r.Variables, v)
	}

	for _, f := range s.Internal.Factors {
		out := factor{Labels: make(map[string]string, len(f.Levels))}
		text := false
		if f.Indices != nil {
			out.Indices = f.Indices.ToArray()
			if len(out.Indices) > 0 && int(out.Indices[0]) <= len(s.Headers) {
				text = s.Headers[out.Indices[0]-1].IsString()
			}
		}
		for _, level := range f.Levels {
			out.Labels[levelKey(level, text)] = level.Label
		}
		r.Factors = append(r.Factors, out)
	}

	for _, doc := range s.Internal.Documents {
		r.Documents = append(r.Documents, doc...)
	}
}

func levelKey(level sav.Level, text bool) string {
	if text {
		return strings.TrimRight(string(level.Raw[:]), " \x00")
	}

	return strconv.FormatFloat(level.Key, 'g', -1, 64)
}

func allReport(r *report, ds *dataset.Dataset) {
	r.Meta = newMetaReport(ds.Meta())
	r.Fields = ds.Fields()
	r.Rows = ds.Records()
}

func describeReport(r *report, ds *dataset.Dataset) error {
	r.Meta = newMetaReport(ds.Meta())
	for _, c := range ds.Columns() {
		s, err := c.Describe()
		if err != nil {
			return err
		}
		r.Columns = append(r.Columns, columnSummary{Name: c.Name(), Kind: c.Kind().String(), Summary: s})
	}

	return nil
}
