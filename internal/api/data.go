package api

// TranscriptionSegment is a timed entry of a verbose transcription response
type TranscriptionSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// TranscriptionResponse of the speech-to-text service. Segments are optional
type TranscriptionResponse struct {
	Text     string                 `json:"text"`
	Language string                 `json:"language,omitempty"`
	Duration float64                `json:"duration,omitempty"`
	Segments []TranscriptionSegment `json:"segments,omitempty"`
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type ChatChoice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason,omitempty"`
}

type ChatResponse struct {
	ID      string       `json:"id,omitempty"`
	Model   string       `json:"model,omitempty"`
	Choices []ChatChoice `json:"choices"`
}

// UploadResponse is returned when a summary job is accepted
type UploadResponse struct {
	ID string `json:"id"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// ProgressEvent is sent to status subscribers
type ProgressEvent struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Stage   string `json:"stage"`
	Done    int    `json:"done,omitempty"`
	Total   int    `json:"total,omitempty"`
	Message string `json:"message,omitempty"`
	DocURL  string `json:"docURL,omitempty"`
}

const (
	StagePreparing    = "preparing"
	StageTranscribing = "transcribing"
	StageSummarizing  = "summarizing"
	StageDocument     = "document"
	StageDone         = "done"
	StageFailed       = "failed"
)

// Final reports whether no more events follow for the job
func (e *ProgressEvent) Final() bool {
	return e.Stage == StageDone || e.Stage == StageFailed
}
