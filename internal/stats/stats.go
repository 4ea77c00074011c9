// Package stats turns codec statistics into the compression report.
package stats

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/backmassage/htmlcompressor/internal/codec"
	"github.com/backmassage/htmlcompressor/internal/display"
)

const (
	rowFormat = "%-30s%-30s%-30s%-2s"
	rule      = "+-----------------------------+-----------------------------+-----------------------------+"
)

// Sizes in the report use decimal units.
const si = true

// Summary holds the derived ratio figures. Empty is set when no file was
// processed, in which case Ratio and Savings are zero.
type Summary struct {
	Empty   bool
	Ratio   float64 // compressed / original
	Savings float64 // percent, (1 - Ratio) * 100
}

// Summarize derives the compression ratio and space savings from s. Files
// that were processed but held no bytes give a zero ratio.
func Summarize(s *codec.Statistics) Summary {
	if s == nil || s.Files == 0 {
		return Summary{Empty: true}
	}
	if s.Original.Filesize == 0 {
		return Summary{}
	}
	ratio := float64(s.Compressed.Filesize) / float64(s.Original.Filesize)
	return Summary{Ratio: ratio, Savings: (1 - ratio) * 100}
}

// Format renders the fixed-width statistics table headed by
// "<title> compression statistics:". With nothing processed it returns a
// single line saying so.
func Format(title string, s *codec.Statistics) string {
	sum := Summarize(s)
	if sum.Empty {
		return title + " compression statistics: no files processed\n"
	}

	var b strings.Builder
	line := func(str string) {
		b.WriteString(str)
		b.WriteByte('\n')
	}
	row := func(category, original, compressed string) {
		line(fmt.Sprintf(rowFormat, "| "+category, "| "+original, "| "+compressed, "|"))
	}
	size := func(n int64) string { return display.HumanReadableByteCount(n, si) }

	line(title + " compression statistics:")
	line(rule)
	row("Category", "Original", "Compressed")
	line(rule)
	row("Filesize", size(s.Original.Filesize), size(s.Compressed.Filesize))
	row("Empty Chars", strconv.FormatInt(s.Original.EmptyChars, 10), strconv.FormatInt(s.Compressed.EmptyChars, 10))
	row("Script Size", size(s.Original.InlineScriptSize), size(s.Compressed.InlineScriptSize))
	row("Style Size", size(s.Original.InlineStyleSize), size(s.Compressed.InlineStyleSize))
	row("Event Handler Size", size(s.Original.InlineEventSize), size(s.Compressed.InlineEventSize))
	line(rule)
	line(fmt.Sprintf("%-90s%-2s", fmt.Sprintf("| Time: %s, Preserved: %s, Compression Ratio: %.2f, Savings: %.2f%%",
		display.ElapsedHMS(s.Time), size(s.PreservedSize), sum.Ratio, sum.Savings), "|"))
	line(rule)
	return b.String()
}
