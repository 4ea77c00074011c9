// Package codec defines the text transform plugged into the pipeline and
// provides HTML and XML implementations backed by tdewolff/minify.
//
// A codec may also report aggregate size Statistics over every Transform
// call it served; the pipeline checks for [StatisticsSource] at runtime.
package codec

import "fmt"

// Codec transforms one file's text.
type Codec interface {
	Transform(text string) (string, error)
}

// StatisticsSource is implemented by codecs that record metrics. Statistics
// returns nil when collection is off.
type StatisticsSource interface {
	Statistics() *Statistics
}

// Metrics describes one side (before or after) of a transform. All sizes are
// in bytes except EmptyChars, which counts whitespace runes.
type Metrics struct {
	Filesize         int64
	EmptyChars       int64
	InlineScriptSize int64
	InlineStyleSize  int64
	InlineEventSize  int64
}

func (m *Metrics) add(o Metrics) {
	m.Filesize += o.Filesize
	m.EmptyChars += o.EmptyChars
	m.InlineScriptSize += o.InlineScriptSize
	m.InlineStyleSize += o.InlineStyleSize
	m.InlineEventSize += o.InlineEventSize
}

// Statistics aggregates Metrics across a batch.
type Statistics struct {
	Original      Metrics
	Compressed    Metrics
	Files         int
	Time          int64 // summed transform time, milliseconds
	PreservedSize int64 // bytes held out of minification by preserve patterns
}

// TransformError wraps a codec failure with the key of the file being
// transformed.
type TransformError struct {
	Key string
	Err error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("compress %s: %v", e.Key, e.Err)
}

func (e *TransformError) Unwrap() error { return e.Err }
