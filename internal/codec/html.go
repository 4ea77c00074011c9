package codec

import (
	"net/url"
	"regexp"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"github.com/tdewolff/minify/v2/json"
	"github.com/tdewolff/minify/v2/svg"
)

const htmlMediatype = "text/html"

var (
	jsMimetypes   = regexp.MustCompile(`^(application|text)/(x-)?(java|ecma)script$`)
	jsonMimetypes = regexp.MustCompile(`[/+]json$`)
)

// NewHTML returns an HTML codec configured from opts. Embedded CSS and
// JavaScript are minified only when CompressCSS and CompressJavaScript are
// set; inline SVG and JSON script blocks are always minified.
func NewHTML(opts Options) *Minifier {
	m := minify.New()
	m.Add(htmlMediatype, &html.Minifier{
		KeepComments:        !opts.RemoveComments,
		KeepWhitespace:      !opts.RemoveMultiSpaces && !opts.RemoveIntertagSpaces,
		KeepQuotes:          !opts.RemoveQuotes,
		KeepDefaultAttrVals: opts.keepDefaultAttrVals(),
		KeepDocumentTags:    true,
		KeepEndTags:         true,
	})
	if opts.CompressCSS {
		m.AddFunc("text/css", css.Minify)
	}
	if opts.CompressJavaScript {
		m.AddRegexp(jsMimetypes, &js.Minifier{KeepVarNames: opts.keepVarNames()})
	}
	m.AddFunc("image/svg+xml", svg.Minify)
	m.AddFuncRegexp(jsonMimetypes, json.Minify)

	switch {
	case opts.RemoveHTTPProtocol:
		m.URL = &url.URL{Scheme: "http"}
	case opts.RemoveHTTPSProtocol:
		m.URL = &url.URL{Scheme: "https"}
	}

	return &Minifier{
		m:         m,
		mediatype: htmlMediatype,
		patterns:  opts.PreservePatterns,
		requote:   opts.RemoveQuotes,
		measure:   measureHTML,
		collect:   opts.GenerateStatistics,
	}
}
