package transcription

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/airenas/lecture-summarizer/internal/api"
	"github.com/airenas/lecture-summarizer/internal/audio"
	"github.com/airenas/lecture-summarizer/internal/domain"
	"github.com/airenas/lecture-summarizer/internal/handlers"
	"github.com/airenas/lecture-summarizer/internal/utils"
	"golang.org/x/sync/errgroup"
)

// Transcriber is the speech-to-text capability
type Transcriber interface {
	Transcribe(ctx context.Context, payload *audio.Payload) (*api.TranscriptionResponse, error)
}

// ProgressFunc is called after each finished segment
type ProgressFunc func(done, total int)

// Coordinator transcribes segments and merges the fragments in segment order
type Coordinator struct {
	encoder     audio.Encoder
	transcriber Transcriber
	handler     handlers.Handler
	workers     int
}

// NewCoordinator creates a coordinator, handler may be nil
func NewCoordinator(encoder audio.Encoder, transcriber Transcriber, handler handlers.Handler, workers int) (*Coordinator, error) {
	if encoder == nil {
		return nil, fmt.Errorf("no encoder")
	}
	if transcriber == nil {
		return nil, fmt.Errorf("no transcriber")
	}
	res := &Coordinator{encoder: encoder, transcriber: transcriber, handler: handler, workers: max(workers, 1)}
	goapp.Log.Info().Int("workers", res.workers).Msg("Coordinator")
	return res, nil
}

// Run transcribes all segments. Any failed segment fails the run with TranscriptionFailure
func (c *Coordinator) Run(ctx context.Context, segs []*audio.Segment, progress ProgressFunc) (*domain.Transcript, error) {
	defer utils.MeasureTime(ctx, "transcription", time.Now())
	total := len(segs)
	fragments := make([]*domain.Fragment, total)
	var mu sync.Mutex
	done := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i, seg := range segs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f, err := c.transcribe(gctx, seg)
			if err != nil {
				goapp.Log.Error().Err(err).Str("run", utils.RunID(ctx)).Int("segment", i).Msg("transcription failed")
				return &domain.TranscriptionFailure{Index: i, Total: total, Err: err}
			}
			fragments[i] = f
			mu.Lock()
			defer mu.Unlock()
			done++
			if progress != nil {
				progress(done, total)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return Merge(fragments), nil
}

func (c *Coordinator) transcribe(ctx context.Context, seg *audio.Segment) (*domain.Fragment, error) {
	payload, err := c.encoder.Encode(ctx, seg)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	defer func() {
		if err := payload.Release(); err != nil {
			goapp.Log.Warn().Err(err).Int("segment", seg.Index).Msg("can't release payload")
		}
	}()
	goapp.Log.Debug().Str("run", utils.RunID(ctx)).Int("segment", seg.Index).Int("bytes", len(payload.Data)).Msg("transcribing")
	resp, err := c.transcriber.Transcribe(ctx, payload)
	if err != nil {
		return nil, err
	}
	f := ToFragment(resp)
	if c.handler != nil {
		if f, err = c.handler.Process(ctx, f); err != nil {
			return nil, err
		}
	}
	return Shift(f, seg.StartOffsetSeconds), nil
}

// ToFragment converts a response to a segment relative fragment.
// A response without timed entries gives a fragment with no timed lines
func ToFragment(resp *api.TranscriptionResponse) *domain.Fragment {
	res := &domain.Fragment{}
	if resp == nil {
		return res
	}
	res.PlainText = resp.Text
	for _, s := range resp.Segments {
		res.TimedLines = append(res.TimedLines, domain.TimedLine{StartSeconds: max(int(s.Start), 0), Text: s.Text})
	}
	return res
}

// Shift moves fragment timestamps by the segment offset
func Shift(f *domain.Fragment, offsetSeconds int) *domain.Fragment {
	res := &domain.Fragment{PlainText: f.PlainText}
	for _, l := range f.TimedLines {
		res.TimedLines = append(res.TimedLines, domain.TimedLine{StartSeconds: l.StartSeconds + offsetSeconds, Text: l.Text})
	}
	return res
}

// Merge joins shifted fragments in the given order
func Merge(fragments []*domain.Fragment) *domain.Transcript {
	texts := make([]string, 0, len(fragments))
	res := &domain.Transcript{}
	for _, f := range fragments {
		if f == nil {
			continue
		}
		texts = append(texts, f.PlainText)
		res.Lines = append(res.Lines, f.TimedLines...)
	}
	res.Text = strings.Join(texts, " ")
	return res
}

// FormatTimestamp renders seconds as [MM:SS], minutes are not wrapped
func FormatTimestamp(seconds int) string {
	return fmt.Sprintf("[%02d:%02d]", seconds/60, seconds%60)
}

// TimedLog renders one "[MM:SS] text" line per timed line
func TimedLog(lines []domain.TimedLine) string {
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(FormatTimestamp(l.StartSeconds))
		sb.WriteString(" ")
		sb.WriteString(l.Text)
		sb.WriteString("\n")
	}
	return sb.String()
}
