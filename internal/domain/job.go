package domain

import "time"

// JobStatus is a lifecycle stage of a summary job
type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// Job keeps the state of one pipeline run
type Job struct {
	ID        string    `json:"id"`
	Status    JobStatus `json:"status"`
	Stage     string    `json:"stage,omitempty"`
	Title     string    `json:"title,omitempty"`
	FileName  string    `json:"fileName,omitempty"`
	DocURL    string    `json:"docURL,omitempty"`
	Error     string    `json:"error,omitempty"`
	Warnings  []string  `json:"warnings,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsDone reports whether the job reached a terminal state
func (j *Job) IsDone() bool {
	return j.Status == JobCompleted || j.Status == JobFailed
}

// Artifact is the downloadable plain text result of a run
type Artifact struct {
	ID       string `json:"id"`
	FileName string `json:"fileName"`
	Text     string `json:"text"`
}
