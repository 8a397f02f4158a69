package docstyle

import (
	"strconv"
	"strings"

	"github.com/airenas/lecture-summarizer/internal/domain"
)

// SectionCount is the number of sections the summary must have
const SectionCount = 22

// Check returns a warning if some of the numbered sections are missing
func Check(text string) *domain.MalformedStructureWarning {
	found := map[int]bool{}
	for _, line := range strings.Split(StripMarkup(text), "\n") {
		m := sectionRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n >= 1 && n <= SectionCount {
			found[n] = true
		}
	}
	if len(found) == SectionCount {
		return nil
	}
	return &domain.MalformedStructureWarning{Sections: len(found), Expected: SectionCount, NoHeading: !found[1]}
}
