package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/airenas/lecture-summarizer/internal/domain"
	"github.com/airenas/lecture-summarizer/internal/utils"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// DefaultSampleRate of the normalized audio
const DefaultSampleRate = 16000

// Decoder turns uploaded audio into mono PCM
type Decoder struct {
	ffmpeg     string
	sampleRate int
	tmpDir     string
}

// NewDecoder creates a decoder. With empty ffmpeg path only WAV input is accepted
func NewDecoder(ffmpeg string, sampleRate int, tmpDir string) (*Decoder, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("wrong sample rate %d", sampleRate)
	}
	res := &Decoder{ffmpeg: ffmpeg, sampleRate: sampleRate, tmpDir: tmpDir}
	goapp.Log.Info().Str("ffmpeg", ffmpeg).Int("rate", sampleRate).Msg("Decoder")
	return res, nil
}

// Decode returns mono PCM of the input. Unreadable or empty input gives SegmentationError
func (d *Decoder) Decode(ctx context.Context, data []byte) (*audio.IntBuffer, error) {
	defer utils.MeasureTime(ctx, "decode", time.Now())
	if len(data) == 0 {
		return nil, &domain.SegmentationError{Err: domain.ErrEmptyAudio}
	}
	if d.ffmpeg == "" {
		return decodeWAV(data)
	}
	wavData, err := d.normalize(ctx, data)
	if err != nil {
		return nil, err
	}
	return decodeWAV(wavData)
}

func (d *Decoder) normalize(ctx context.Context, data []byte) ([]byte, error) {
	dir, err := os.MkdirTemp(d.tmpDir, "raw_")
	if err != nil {
		return nil, fmt.Errorf("create tmp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "input")
	if err := os.WriteFile(in, data, 0o600); err != nil {
		return nil, fmt.Errorf("write input: %w", err)
	}
	out := filepath.Join(dir, "audio.wav")
	err = runFFmpeg(ctx, d.ffmpeg, "-i", in, "-ac", "1", "-ar", fmt.Sprint(d.sampleRate), "-acodec", "pcm_s16le", "-f", "wav", out)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) || ctx.Err() != nil {
			return nil, err
		}
		return nil, &domain.SegmentationError{Err: err}
	}
	return os.ReadFile(out)
}

func decodeWAV(data []byte) (*audio.IntBuffer, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, &domain.SegmentationError{Err: fmt.Errorf("not a wav file")}
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, &domain.SegmentationError{Err: fmt.Errorf("read pcm: %w", err)}
	}
	if buf == nil || buf.Format == nil || len(buf.Data) == 0 {
		return nil, &domain.SegmentationError{Err: domain.ErrEmptyAudio}
	}
	return toMono(buf), nil
}

func toMono(buf *audio.IntBuffer) *audio.IntBuffer {
	ch := buf.Format.NumChannels
	if ch <= 1 {
		buf.Format.NumChannels = 1
		return buf
	}
	frames := len(buf.Data) / ch
	data := make([]int, frames)
	for i := range frames {
		sum := 0
		for c := range ch {
			sum += buf.Data[i*ch+c]
		}
		data[i] = sum / ch
	}
	return &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: buf.Format.SampleRate},
		Data:           data,
		SourceBitDepth: buf.SourceBitDepth,
	}
}
