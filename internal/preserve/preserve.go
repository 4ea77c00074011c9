// Package preserve assembles the ordered set of regular expressions whose
// matches a codec must leave untouched.
package preserve

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/backmassage/htmlcompressor/internal/textenc"
)

// Names of the predefined patterns, matched case-insensitively.
const (
	PHPTag          = "PHP_TAG_PATTERN"
	ServerScriptTag = "SERVER_SCRIPT_TAG_PATTERN"
)

var predefined = map[string]*regexp.Regexp{
	PHPTag:          regexp.MustCompile(`(?is)<\?php.*?\?>`),
	ServerScriptTag: regexp.MustCompile(`(?s)<%.*?%>`),
}

// Sources lists the three places patterns come from.
type Sources struct {
	Predefined []string // PHP_TAG_PATTERN, SERVER_SCRIPT_TAG_PATTERN
	Literal    []string // regular expressions; empty entries are skipped
	Files      []string // one expression per line; empty lines are skipped
}

// Empty reports whether no source is configured.
func (s Sources) Empty() bool {
	return len(s.Predefined) == 0 && len(s.Literal) == 0 && len(s.Files) == 0
}

// PatternError reports a pattern that could not be compiled. Source is
// "predefined", "literal" or the path of the pattern file.
type PatternError struct {
	Source  string
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("preserve pattern %q (%s): %v", e.Pattern, e.Source, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// Compile returns the patterns in order: predefined, literal, then files.
// Each predefined pattern is added at most once. Pattern files are decoded
// with enc.
func Compile(src Sources, enc textenc.Charset) ([]*regexp.Regexp, error) {
	var out []*regexp.Regexp

	seen := make(map[string]bool)
	for _, name := range src.Predefined {
		key := strings.ToUpper(strings.TrimSpace(name))
		re, ok := predefined[key]
		if !ok {
			return nil, &PatternError{Source: "predefined", Pattern: name, Err: fmt.Errorf("unknown predefined pattern")}
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, re)
	}

	for _, p := range src.Literal {
		if p == "" {
			continue
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, &PatternError{Source: "literal", Pattern: p, Err: err}
		}
		out = append(out, re)
	}

	for _, path := range src.Files {
		text, err := enc.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read preserve pattern file: %w", err)
		}
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSuffix(line, "\r")
			if line == "" {
				continue
			}
			re, err := regexp.Compile(line)
			if err != nil {
				return nil, &PatternError{Source: path, Pattern: line, Err: err}
			}
			out = append(out, re)
		}
	}
	return out, nil
}
