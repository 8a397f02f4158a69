package audio

import (
	"fmt"
	"time"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/airenas/lecture-summarizer/internal/domain"
	"github.com/go-audio/audio"
)

// DefaultChunkLength is the max duration of one segment
const DefaultChunkLength = 15 * time.Minute

// Segment is a bounded slice of the source audio
type Segment struct {
	Index              int
	StartOffsetSeconds int
	DurationMs         int64
	PCM                *audio.IntBuffer
}

// Segmenter splits mono PCM into fixed length segments
type Segmenter struct {
	chunkMs int64
}

// NewSegmenter creates a segmenter
func NewSegmenter(chunkLength time.Duration) (*Segmenter, error) {
	if chunkLength < time.Millisecond {
		return nil, fmt.Errorf("wrong chunk length %v", chunkLength)
	}
	res := &Segmenter{chunkMs: chunkLength.Milliseconds()}
	goapp.Log.Info().Dur("chunk", chunkLength).Msg("Segmenter")
	return res, nil
}

// Split returns ceil(T/L) segments, the i-th one covers [i*L, min((i+1)*L, T)).
// Segments share the sample slice of the input buffer
func (s *Segmenter) Split(buf *audio.IntBuffer) ([]*Segment, error) {
	if buf == nil || buf.Format == nil || len(buf.Data) == 0 {
		return nil, &domain.SegmentationError{Err: domain.ErrEmptyAudio}
	}
	if buf.Format.NumChannels != 1 {
		return nil, &domain.SegmentationError{Err: fmt.Errorf("expected mono audio, got %d channels", buf.Format.NumChannels)}
	}
	rate := int64(buf.Format.SampleRate)
	if rate <= 0 {
		return nil, &domain.SegmentationError{Err: fmt.Errorf("wrong sample rate %d", rate)}
	}
	total := int64(len(buf.Data))
	// frames*1000 per chunk, a chunk shorter than one frame takes one frame
	unit := max(s.chunkMs*rate, 1000)
	maxMs := max(s.chunkMs, unit/rate)
	count := (total*1000 + unit - 1) / unit
	res := make([]*Segment, 0, count)
	for i := int64(0); i < count; i++ {
		from := i * unit / 1000
		to := min((i+1)*unit/1000, total)
		res = append(res, &Segment{
			Index:              int(i),
			StartOffsetSeconds: int(i * unit / (rate * 1000)),
			DurationMs:         min(((to-from)*1000+rate-1)/rate, maxMs),
			PCM: &audio.IntBuffer{
				Format:         buf.Format,
				Data:           buf.Data[from:to],
				SourceBitDepth: buf.SourceBitDepth,
			},
		})
	}
	return res, nil
}

// DurationMs returns the duration of the buffer in milliseconds
func DurationMs(buf *audio.IntBuffer) int64 {
	if buf == nil || buf.Format == nil || buf.Format.SampleRate == 0 || buf.Format.NumChannels == 0 {
		return 0
	}
	return int64(len(buf.Data)/buf.Format.NumChannels) * 1000 / int64(buf.Format.SampleRate)
}
