package codec

import "regexp"

// JavaScript compressor names accepted in Options.JSCompressor.
const (
	JSCompressorYUI     = "yui"
	JSCompressorClosure = "closure"
)

// Closure optimization levels accepted in Options.ClosureOptLevel.
const (
	ClosureSimple     = "simple"
	ClosureAdvanced   = "advanced"
	ClosureWhitespace = "whitespace"
)

// Options carries the compression flags. YAML keys follow the names used by
// existing htmlcompressor build configurations. Flags with no equivalent in
// the minifier are accepted and ignored.
type Options struct {
	RemoveComments           bool `yaml:"removeComments"`
	RemoveMultiSpaces        bool `yaml:"removeMultiSpaces"`
	RemoveIntertagSpaces     bool `yaml:"removeIntertagSpaces"`
	RemoveQuotes             bool `yaml:"removeQuotes"`
	SimpleDoctype            bool `yaml:"simpleDoctype"`
	RemoveScriptAttributes   bool `yaml:"removeScriptAttributes"`
	RemoveStyleAttributes    bool `yaml:"removeStyleAttributes"`
	RemoveLinkAttributes     bool `yaml:"removeLinkAttributes"`
	RemoveFormAttributes     bool `yaml:"removeFormAttributes"`
	RemoveInputAttributes    bool `yaml:"removeInputAttributes"`
	SimpleBooleanAttributes  bool `yaml:"simpleBooleanAttributes"`
	RemoveJavaScriptProtocol bool `yaml:"removeJavaScriptProtocol"`
	RemoveHTTPProtocol       bool `yaml:"removeHttpProtocol"`
	RemoveHTTPSProtocol      bool `yaml:"removeHttpsProtocol"`

	CompressCSS     bool `yaml:"compressCss"`
	YUICSSLineBreak int  `yaml:"yuiCssLineBreak"`

	CompressJavaScript         bool     `yaml:"compressJavaScript"`
	JSCompressor               string   `yaml:"jsCompressor"`
	YUIJSNoMunge               bool     `yaml:"yuiJsNoMunge"`
	YUIJSPreserveAllSemiColons bool     `yaml:"yuiJsPreserveAllSemiColons"`
	YUIJSLineBreak             int      `yaml:"yuiJsLineBreak"`
	YUIJSDisableOptimizations  bool     `yaml:"yuiJsDisableOptimizations"`
	ClosureOptLevel            string   `yaml:"closureOptLevel"`
	ClosureCustomExternsOnly   bool     `yaml:"closureCustomExternsOnly"`
	ClosureExterns             []string `yaml:"closureExterns"`

	// Set by the pipeline, not by configuration.
	PreservePatterns   []*regexp.Regexp `yaml:"-"`
	GenerateStatistics bool             `yaml:"-"`
}

// DefaultOptions returns the HTML defaults: comments and repeated spaces
// removed, YUI selected for JavaScript, closure level "simple", no line
// breaks inserted.
func DefaultOptions() Options {
	return Options{
		RemoveComments:    true,
		RemoveMultiSpaces: true,
		YUICSSLineBreak:   -1,
		JSCompressor:      JSCompressorYUI,
		YUIJSLineBreak:    -1,
		ClosureOptLevel:   ClosureSimple,
	}
}

// keepVarNames reports whether identifiers in scripts must survive.
func (o Options) keepVarNames() bool {
	if o.JSCompressor == JSCompressorClosure {
		return o.ClosureOptLevel == ClosureWhitespace
	}
	return o.YUIJSNoMunge
}

// keepDefaultAttrVals reports whether default and redundant attributes must
// survive.
func (o Options) keepDefaultAttrVals() bool {
	return !(o.SimpleBooleanAttributes || o.RemoveScriptAttributes || o.RemoveStyleAttributes ||
		o.RemoveLinkAttributes || o.RemoveFormAttributes || o.RemoveInputAttributes)
}
