package codec

import (
	"bytes"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// measureText counts bytes and whitespace only.
func measureText(s string) Metrics {
	m := Metrics{Filesize: int64(len(s))}
	for _, r := range s {
		if unicode.IsSpace(r) {
			m.EmptyChars++
		}
	}
	return m
}

// measureHTML adds the bytes of inline scripts, inline styles and on*
// event handler attribute values.
func measureHTML(s string) Metrics {
	m := measureText(s)

	z := html.NewTokenizer(strings.NewReader(s))
	var rawTag string
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return m
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			tag := string(name)
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				if bytes.HasPrefix(key, []byte("on")) {
					m.InlineEventSize += int64(len(val))
				}
			}
			if tt == html.StartTagToken && (tag == "script" || tag == "style") {
				rawTag = tag
			}
		case html.EndTagToken:
			rawTag = ""
		case html.TextToken:
			switch rawTag {
			case "script":
				m.InlineScriptSize += int64(len(z.Raw()))
			case "style":
				m.InlineStyleSize += int64(len(z.Raw()))
			}
		}
	}
}
