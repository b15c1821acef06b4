package relay

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	markupTag    = regexp.MustCompile(`</?[a-zA-Z][a-zA-Z0-9-]*(\s[^<>]*)?/?>`)
	markupEntity = regexp.MustCompile(`&(#[0-9]+|#[xX][0-9a-fA-F]+|[a-zA-Z][a-zA-Z0-9]*);`)
)

// PlainText strips markup some providers leave in titles and descriptions and
// collapses whitespace. Input without tags or entities is returned trimmed, and a
// bare '<' that does not open a tag is kept as text.
func PlainText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || !hasMarkup(s) {
		return s
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(escapeStrayLT(s)))
	if err != nil {
		return s
	}
	doc.Find("script,style").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func hasMarkup(s string) bool {
	if !strings.ContainsAny(s, "<&") {
		return false
	}
	return markupTag.MatchString(s) || markupEntity.MatchString(s)
}

// escapeStrayLT rewrites every '<' outside a recognised tag as "&lt;" so the
// parser does not read "a<b" as the start of an element.
func escapeStrayLT(s string) string {
	tags := markupTag.FindAllStringIndex(s, -1)
	var b strings.Builder
	b.Grow(len(s))
	next := 0
	for i := 0; i < len(s); i++ {
		for next < len(tags) && tags[next][1] <= i {
			next++
		}
		inTag := next < len(tags) && tags[next][0] <= i
		if s[i] == '<' && !inTag {
			b.WriteString("&lt;")
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
