package codec

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tdewolff/minify/v2"
)

const (
	tokenPrefix = "%%%~COMPRESS~PRESERVE~"
	tokenSuffix = "~%%%"
)

// Minifier is a Codec over a configured minify.M. It is safe for concurrent
// use; statistics are accumulated under a lock.
type Minifier struct {
	m         *minify.M
	mediatype string
	patterns  []*regexp.Regexp
	requote   bool
	measure   func(string) Metrics

	collect bool
	mu      sync.Mutex
	stats   Statistics
	elapsed time.Duration
}

// Transform minifies text, leaving regions matched by preserve patterns
// untouched.
func (c *Minifier) Transform(text string) (string, error) {
	start := time.Now()

	protected, blocks := protect(text, c.patterns)
	out, err := c.m.String(c.mediatype, protected)
	if err != nil {
		return "", err
	}
	out = restore(out, blocks, c.requote)

	if c.collect {
		elapsed := time.Since(start)
		before, after := c.measure(text), c.measure(out)
		var preserved int64
		for _, b := range blocks {
			preserved += int64(len(b))
		}

		c.mu.Lock()
		c.stats.Original.add(before)
		c.stats.Compressed.add(after)
		c.stats.PreservedSize += preserved
		c.stats.Files++
		c.elapsed += elapsed
		c.mu.Unlock()
	}
	return out, nil
}

// Statistics returns a snapshot of the accumulated statistics, or nil when
// collection is off.
func (c *Minifier) Statistics() *Statistics {
	if !c.collect {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Time = c.elapsed.Milliseconds()
	return &s
}

// protect swaps every pattern match for a numbered token and returns the
// original blocks in token order.
func protect(text string, patterns []*regexp.Regexp) (string, []string) {
	var blocks []string
	for _, re := range patterns {
		text = re.ReplaceAllStringFunc(text, func(match string) string {
			blocks = append(blocks, match)
			return token(len(blocks) - 1)
		})
	}
	return text, blocks
}

var (
	tokenPattern = regexp.MustCompile(regexp.QuoteMeta(tokenPrefix) + `(\d+)` + regexp.QuoteMeta(tokenSuffix))
	openTagAttr  = regexp.MustCompile(`^<[A-Za-z][-A-Za-z0-9:]*\s[^<>]*=$`)
)

// restore reverses protect. With requote set, a block that the minifier left
// as an unquoted attribute value is put back inside quotes.
func restore(text string, blocks []string, requote bool) string {
	if len(blocks) == 0 {
		return text
	}
	var b strings.Builder
	last := 0
	for _, m := range tokenPattern.FindAllStringSubmatchIndex(text, -1) {
		i, err := strconv.Atoi(text[m[2]:m[3]])
		if err != nil || i >= len(blocks) {
			continue
		}
		b.WriteString(text[last:m[0]])
		block := expand(blocks, i)
		if requote && bareAttrValue(text, m[0]) {
			q := quoteFor(block)
			b.WriteString(q + block + q)
		} else {
			b.WriteString(block)
		}
		last = m[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

// expand returns block i with the tokens of earlier blocks it swallowed put
// back. A block only ever holds tokens with a lower index.
func expand(blocks []string, i int) string {
	return tokenPattern.ReplaceAllStringFunc(blocks[i], func(tok string) string {
		k, err := strconv.Atoi(tok[len(tokenPrefix) : len(tok)-len(tokenSuffix)])
		if err != nil || k >= i {
			return tok
		}
		return expand(blocks, k)
	})
}

// bareAttrValue reports whether the token at pos directly follows the "=" of
// an attribute inside an open tag.
func bareAttrValue(text string, pos int) bool {
	if pos == 0 || text[pos-1] != '=' {
		return false
	}
	lt := strings.LastIndexByte(text[:pos], '<')
	if lt < 0 || strings.LastIndexByte(text[:pos], '>') > lt {
		return false
	}
	return openTagAttr.MatchString(text[lt:pos])
}

func quoteFor(block string) string {
	if strings.Contains(block, `"`) && !strings.Contains(block, "'") {
		return "'"
	}
	return `"`
}

func token(i int) string {
	return tokenPrefix + strconv.Itoa(i) + tokenSuffix
}
