package docstyle

import (
	"regexp"
	"strings"
)

const (
	// DefaultTitle is used when the text has no heading section
	DefaultTitle = "Конспект лекции"
	// DefaultFileName is used when nothing is left of the title
	DefaultFileName = "Lektsiya"

	maxFileNameLen = 60
)

var (
	titleRe         = regexp.MustCompile(`(?i)(?:1\.|#)[\t ]*ЗАГОЛОВОК[:\t ]*(.*)`)
	headingPrefixRe = regexp.MustCompile(`(?i)^(?:1\.)?\s*ЗАГОЛОВОК[:\s]*`)
	disallowedRe    = regexp.MustCompile(`[^\p{L}\p{N}_\s\p{Zs}-]`)
	spacesRe        = regexp.MustCompile(`[\s\p{Zs}]+`)
	markupChars     = strings.NewReplacer("*", "", "#", "")
)

// Title extracts the body of the heading section
func Title(text string) string {
	m := titleRe.FindStringSubmatch(StripMarkup(text))
	if m == nil {
		return DefaultTitle
	}
	res := strings.TrimSpace(strings.Trim(strings.TrimSpace(m[1]), "*#"))
	if res == "" {
		return DefaultTitle
	}
	return res
}

// FileName makes a filesystem safe name of at most 60 characters from the title
func FileName(title string) string {
	s := markupChars.Replace(title)
	s = strings.TrimSpace(headingPrefixRe.ReplaceAllString(s, ""))
	s = disallowedRe.ReplaceAllString(s, "")
	s = spacesRe.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if r := []rune(s); len(r) > maxFileNameLen {
		s = string(r[:maxFileNameLen])
	}
	if s == "" {
		return DefaultFileName
	}
	return s
}
