package pipeline

import (
	"time"

	"github.com/backmassage/htmlcompressor/internal/codec"
	"github.com/backmassage/htmlcompressor/internal/stats"
)

// Report describes a finished run.
type Report struct {
	Skipped bool
	Files   int
	Keys    []string // sorted

	InputBytes  int64 // decoded source text, summed over all files
	OutputBytes int64 // transformed text, summed over all files

	Statistics     *codec.Statistics // nil unless the codec collected them
	Summary        stats.Summary
	StatisticsText string

	BundleFile    string // empty when no bundle was written
	Precompressed int    // sibling files written
	Elapsed       time.Duration
}

// SpaceSaved returns the byte difference between inputs and outputs.
// Positive means outputs are smaller; negative means they grew.
func (r *Report) SpaceSaved() int64 {
	return r.InputBytes - r.OutputBytes
}
