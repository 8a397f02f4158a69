package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/airenas/lecture-summarizer/internal/api"
	"github.com/airenas/lecture-summarizer/internal/audio"
	"github.com/airenas/lecture-summarizer/internal/docstyle"
	"github.com/airenas/lecture-summarizer/internal/domain"
	"github.com/airenas/lecture-summarizer/internal/progress"
	"github.com/airenas/lecture-summarizer/internal/transcription"
	"github.com/airenas/lecture-summarizer/internal/utils"
	goaudio "github.com/go-audio/audio"
)

type (
	// Decoder turns uploaded bytes into mono PCM
	Decoder interface {
		Decode(ctx context.Context, data []byte) (*goaudio.IntBuffer, error)
	}
	// Splitter cuts PCM into segments
	Splitter interface {
		Split(buf *goaudio.IntBuffer) ([]*audio.Segment, error)
	}
	// Transcriber transcribes segments into an ordered transcript
	Transcriber interface {
		Run(ctx context.Context, segs []*audio.Segment, progress transcription.ProgressFunc) (*domain.Transcript, error)
	}
	// Summarizer makes the structured summary
	Summarizer interface {
		Extract(ctx context.Context, transcript string) (string, *domain.MalformedStructureWarning, error)
	}
	// DocumentService publishes the styled document and returns its link
	DocumentService interface {
		Create(ctx context.Context, title string, doc *docstyle.Document) (string, error)
	}
	// Store keeps jobs and artifacts
	Store interface {
		SaveJob(ctx context.Context, job *domain.Job) error
		GetJob(ctx context.Context, id string) (*domain.Job, error)
		SaveArtifact(ctx context.Context, a *domain.Artifact) error
	}
)

// Pipeline runs one audio item through transcription, summary and document creation
type Pipeline struct {
	Decoder     Decoder
	Splitter    Splitter
	Transcriber Transcriber
	Summarizer  Summarizer
	Documents   DocumentService
	Store       Store
	Reporter    progress.Reporter
}

// Result of a finished run. Empty is set for input with no audio, then there is no artifact
type Result struct {
	Title    string
	FileName string
	DocURL   string
	Summary  string
	Artifact *domain.Artifact
	Warnings []string
	Empty    bool
}

// Validate checks that all collaborators are set
func (p *Pipeline) Validate() error {
	switch {
	case p.Decoder == nil:
		return fmt.Errorf("no decoder")
	case p.Splitter == nil:
		return fmt.Errorf("no splitter")
	case p.Transcriber == nil:
		return fmt.Errorf("no transcriber")
	case p.Summarizer == nil:
		return fmt.Errorf("no summarizer")
	case p.Documents == nil:
		return fmt.Errorf("no document service")
	case p.Store == nil:
		return fmt.Errorf("no store")
	}
	return nil
}

// Run processes data for job id. Fatal errors return no result and leave no artifact.
// A failed document call still gives the text artifact, with no link
func (p *Pipeline) Run(ctx context.Context, id string, data []byte) (*Result, error) {
	ctx = utils.WithRunID(ctx, id)
	defer utils.MeasureTime(ctx, "run", time.Now())
	r := &run{p: p, job: p.loadJob(ctx, id)}

	r.stage(ctx, &api.ProgressEvent{Stage: api.StagePreparing})
	buf, err := p.Decoder.Decode(ctx, data)
	if err != nil {
		return r.fail(ctx, err)
	}
	segs, err := p.Splitter.Split(buf)
	if err != nil {
		return r.fail(ctx, err)
	}
	goapp.Log.Info().Str("run", id).Int("segments", len(segs)).Int64("ms", audio.DurationMs(buf)).Msg("audio split")

	r.stage(ctx, &api.ProgressEvent{Stage: api.StageTranscribing, Total: len(segs)})
	transcript, err := p.Transcriber.Run(ctx, segs, func(done, total int) {
		r.stage(ctx, &api.ProgressEvent{Stage: api.StageTranscribing, Done: done, Total: total})
	})
	if err != nil {
		return r.fail(ctx, err)
	}

	r.stage(ctx, &api.ProgressEvent{Stage: api.StageSummarizing})
	summary, warn, err := p.Summarizer.Extract(ctx, transcript.Text)
	if err != nil {
		return r.fail(ctx, err)
	}
	res := &Result{Summary: summary}
	if warn != nil {
		res.Warnings = append(res.Warnings, warn.Error())
	}
	res.Title = docstyle.Title(summary)
	res.FileName = docstyle.FileName(res.Title)
	res.Artifact = &domain.Artifact{
		ID:       id,
		FileName: res.FileName + ".txt",
		Text:     RenderArtifact(summary, transcription.TimedLog(transcript.Lines), transcript.Text),
	}
	if err := p.Store.SaveArtifact(ctx, res.Artifact); err != nil {
		return r.fail(ctx, fmt.Errorf("save artifact: %w", err))
	}
	r.job.Title, r.job.FileName = res.Title, res.Artifact.FileName

	r.stage(ctx, &api.ProgressEvent{Stage: api.StageDocument})
	url, err := p.Documents.Create(ctx, res.Title, docstyle.Compile(summary))
	if err != nil {
		if domain.IsFatal(err) {
			return r.fail(ctx, err)
		}
		goapp.Log.Error().Err(err).Str("run", id).Msg("document not created")
		res.Warnings = append(res.Warnings, err.Error())
	}
	res.DocURL = url

	r.job.Status = domain.JobCompleted
	r.job.DocURL = url
	r.job.Warnings = res.Warnings
	r.stage(ctx, &api.ProgressEvent{Stage: api.StageDone, DocURL: url})
	return res, nil
}

// RenderArtifact makes the downloadable text: summary, timestamps and the full transcript
func RenderArtifact(summary, timedLog, transcript string) string {
	sep := strings.Repeat("=", 30)
	var sb strings.Builder
	sb.WriteString(summary)
	sb.WriteString("\n\n" + sep + "\nТАЙМКОДЫ:\n")
	sb.WriteString(timedLog)
	sb.WriteString("\n\n" + sep + "\nПОЛНЫЙ ТЕКСТ:\n")
	sb.WriteString(transcript)
	return sb.String()
}

// loadJob continues the job saved at upload, a missing one is created
func (p *Pipeline) loadJob(ctx context.Context, id string) *domain.Job {
	job, err := p.Store.GetJob(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			goapp.Log.Warn().Err(err).Str("run", id).Msg("can't load job")
		}
		job = &domain.Job{ID: id, CreatedAt: time.Now()}
	}
	job.Status = domain.JobProcessing
	return job
}

type run struct {
	p   *Pipeline
	job *domain.Job
}

func (r *run) stage(ctx context.Context, ev *api.ProgressEvent) {
	r.job.Stage = ev.Stage
	r.job.UpdatedAt = time.Now()
	if err := r.p.Store.SaveJob(ctx, r.job); err != nil {
		goapp.Log.Error().Err(err).Str("run", r.job.ID).Msg("can't save job")
	}
	if r.p.Reporter != nil {
		ev.ID = r.job.ID
		ev.Status = string(r.job.Status)
		r.p.Reporter.Report(ev)
	}
}

// fail finishes the job. A recoverable error completes it with no output
func (r *run) fail(ctx context.Context, err error) (*Result, error) {
	if !domain.IsFatal(err) {
		goapp.Log.Warn().Err(err).Str("run", r.job.ID).Msg("no audio to process")
		r.job.Status = domain.JobCompleted
		r.job.Warnings = []string{err.Error()}
		r.stage(ctx, &api.ProgressEvent{Stage: api.StageDone, Message: "no audio"})
		return &Result{Empty: true, Warnings: r.job.Warnings}, nil
	}
	goapp.Log.Error().Err(err).Str("run", r.job.ID).Msg("run failed")
	r.job.Status = domain.JobFailed
	r.job.Error = domain.UserMessage(err)
	r.stage(ctx, &api.ProgressEvent{Stage: api.StageFailed, Message: r.job.Error})
	return nil, err
}
