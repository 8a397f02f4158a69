package domain

// TimedLine is a transcript line anchored to a second of the recording
type TimedLine struct {
	StartSeconds int    `json:"startSeconds"`
	Text         string `json:"text"`
}

// Fragment is the transcription result of one segment.
// TimedLines are relative to the segment start until merged.
type Fragment struct {
	PlainText  string      `json:"plainText"`
	TimedLines []TimedLine `json:"timedLines,omitempty"`
}

// Transcript is the ordered merge of all fragments
type Transcript struct {
	Text  string      `json:"text"`
	Lines []TimedLine `json:"lines,omitempty"`
}

// StyleKind tells how a range of the document body is styled
type StyleKind int

const (
	// StyleHeading styles the whole line as a top level heading
	StyleHeading StyleKind = iota + 1
	// StyleBoldLabel makes the "N. LABEL:" prefix bold
	StyleBoldLabel
)

func (k StyleKind) String() string {
	switch k {
	case StyleHeading:
		return "HEADING"
	case StyleBoldLabel:
		return "BOLD_LABEL"
	}
	return "UNKNOWN"
}

// StyleInstruction styles [Start, End) of the document body, indexes are 1-based
type StyleInstruction struct {
	Kind  StyleKind
	Start int64
	End   int64
}
