// Package docstyle turns the structured summary into a document body and
// style instructions addressed by absolute index into that body.
//
// Indexes are UTF-16 code units, the unit of the remote document API.
// The body is inserted at Anchor into an empty document.
package docstyle

import (
	"regexp"
	"strings"
	"unicode/utf16"

	"github.com/airenas/lecture-summarizer/internal/domain"
)

// Anchor is the first writable index of an empty document
const Anchor = 1

var sectionRe = regexp.MustCompile(`^(\d+)\.\s*([^:]+):`)

// Document is the body to insert with its styles
type Document struct {
	Body   string
	Styles []domain.StyleInstruction
}

// StripMarkup removes bold markers
func StripMarkup(text string) string {
	text = strings.ReplaceAll(text, "**", "")
	return strings.ReplaceAll(text, "__", "")
}

// Compile walks the text line by line. Section 1 becomes a heading over the
// whole line, other sections get the "N. LABEL:" prefix bold, lines without
// a section prefix are left as is
func Compile(text string) *Document {
	body := StripMarkup(text)
	res := &Document{Body: body}
	current := int64(Anchor)
	for _, line := range strings.Split(body, "\n") {
		lineLen := textLen(line) + 1
		if m := sectionRe.FindStringSubmatch(line); m != nil {
			if m[1] == "1" {
				res.Styles = append(res.Styles, domain.StyleInstruction{Kind: domain.StyleHeading, Start: current, End: current + lineLen - 1})
			} else {
				res.Styles = append(res.Styles, domain.StyleInstruction{Kind: domain.StyleBoldLabel, Start: current, End: current + textLen(m[0])})
			}
		}
		current += lineLen
	}
	return res
}

// TextLen returns the length of s in document index units
func TextLen(s string) int64 {
	return textLen(s)
}

func textLen(s string) int64 {
	var res int64
	for _, r := range s {
		res += int64(utf16.RuneLen(r))
	}
	return res
}
