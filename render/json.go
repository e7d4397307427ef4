package render

import (
	"encoding/json"
	"io"

	"github.com/revelaction/udcheck/consistency"
	"github.com/revelaction/udcheck/correct"
)

// JSONRenderer writes results as JSON to a writer.
type JSONRenderer struct {
	W io.Writer
}

// NewJSONRenderer creates a JSONRenderer writing to w.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{W: w}
}

// Report serializes the analysis report. Groups is never null.
func (r *JSONRenderer) Report(rep consistency.Report) error {
	if rep.Groups == nil {
		rep.Groups = []consistency.PairReport{}
	}
	return r.Value(rep)
}

// Correct serializes the mismatch report. Mismatches is never null.
func (r *JSONRenderer) Correct(rep correct.Report) error {
	if rep.Mismatches == nil {
		rep.Mismatches = []correct.Mismatch{}
	}
	return r.Value(rep)
}

// Value serializes any value on one line.
func (r *JSONRenderer) Value(v any) error {
	return json.NewEncoder(r.W).Encode(v)
}

// compile-time interface check
var _ ReportRenderer = (*JSONRenderer)(nil)
