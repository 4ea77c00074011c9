package codec

import (
	"regexp"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/xml"
)

const xmlMediatype = "text/xml"

var xmlComment = regexp.MustCompile(`(?s)<!--.*?-->`)

// NewXML returns an XML codec. The minifier always drops comments, so when
// RemoveComments is off they are carried through as preserved blocks.
func NewXML(opts Options) *Minifier {
	m := minify.New()
	m.Add(xmlMediatype, &xml.Minifier{KeepWhitespace: !opts.RemoveIntertagSpaces})

	patterns := opts.PreservePatterns
	if !opts.RemoveComments {
		patterns = append([]*regexp.Regexp{xmlComment}, patterns...)
	}

	return &Minifier{
		m:         m,
		mediatype: xmlMediatype,
		patterns:  patterns,
		measure:   measureText,
		collect:   opts.GenerateStatistics,
	}
}

// DefaultXMLOptions returns the XML defaults: comments and inter-tag
// whitespace removed.
func DefaultXMLOptions() Options {
	o := DefaultOptions()
	o.RemoveMultiSpaces = false
	o.RemoveIntertagSpaces = true
	return o
}
