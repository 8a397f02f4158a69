package audio

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Payload is an encoded segment ready to be sent to the transcriber.
// Release must be called once the payload is not needed
type Payload struct {
	Data     []byte
	FileName string
	release  func() error
}

// NewPayload creates a payload, release may be nil
func NewPayload(data []byte, fileName string, release func() error) *Payload {
	return &Payload{Data: data, FileName: fileName, release: release}
}

// Release frees temporary resources of the payload
func (p *Payload) Release() error {
	if p == nil || p.release == nil {
		return nil
	}
	f := p.release
	p.release = nil
	return f()
}

// Encoder encodes one segment
type Encoder interface {
	Encode(ctx context.Context, seg *Segment) (*Payload, error)
}

// WAVEncoder encodes segments to 16 bit WAV in memory
type WAVEncoder struct{}

// Encode implements Encoder
func (WAVEncoder) Encode(_ context.Context, seg *Segment) (*Payload, error) {
	data, err := toWAV(seg.PCM)
	if err != nil {
		return nil, err
	}
	return &Payload{Data: data, FileName: fmt.Sprintf("chunk_%d.wav", seg.Index)}, nil
}

// FFmpegEncoder encodes segments to low bitrate mp3 in a temp file
type FFmpegEncoder struct {
	ffmpeg  string
	bitrate string
	tmpDir  string
}

// NewFFmpegEncoder creates a lossy encoder
func NewFFmpegEncoder(ffmpeg, bitrate, tmpDir string) (*FFmpegEncoder, error) {
	if ffmpeg == "" {
		return nil, fmt.Errorf("no ffmpeg")
	}
	if bitrate == "" {
		bitrate = "32k"
	}
	res := &FFmpegEncoder{ffmpeg: ffmpeg, bitrate: bitrate, tmpDir: tmpDir}
	goapp.Log.Info().Str("bitrate", bitrate).Msg("FFmpegEncoder")
	return res, nil
}

// Encode implements Encoder
func (e *FFmpegEncoder) Encode(ctx context.Context, seg *Segment) (*Payload, error) {
	wavData, err := toWAV(seg.PCM)
	if err != nil {
		return nil, err
	}
	dir, err := os.MkdirTemp(e.tmpDir, fmt.Sprintf("chunk_%d_", seg.Index))
	if err != nil {
		return nil, fmt.Errorf("create tmp dir: %w", err)
	}
	release := func() error {
		goapp.Log.Debug().Str("dir", dir).Msg("release")
		return os.RemoveAll(dir)
	}
	in := filepath.Join(dir, "chunk.wav")
	if err := os.WriteFile(in, wavData, 0o600); err != nil {
		_ = release()
		return nil, fmt.Errorf("write wav: %w", err)
	}
	name := fmt.Sprintf("chunk_%d.mp3", seg.Index)
	out := filepath.Join(dir, name)
	if err := runFFmpeg(ctx, e.ffmpeg, "-i", in, "-b:a", e.bitrate, "-f", "mp3", out); err != nil {
		_ = release()
		return nil, err
	}
	_ = os.Remove(in)
	data, err := os.ReadFile(out)
	if err != nil {
		_ = release()
		return nil, fmt.Errorf("read mp3: %w", err)
	}
	return NewPayload(data, name, release), nil
}

// memBuffer is an in memory io.WriteSeeker for the wav encoder
type memBuffer struct {
	buf []byte
	pos int64
}

func (m *memBuffer) Write(p []byte) (int, error) {
	end := m.pos + int64(len(p))
	if end > int64(len(m.buf)) {
		newBuf := make([]byte, end)
		copy(newBuf, m.buf)
		m.buf = newBuf
	}
	copy(m.buf[m.pos:], p)
	m.pos = end
	return len(p), nil
}

func (m *memBuffer) Seek(offset int64, whence int) (int64, error) {
	var newPos int64
	switch whence {
	case io.SeekStart:
		newPos = offset
	case io.SeekCurrent:
		newPos = m.pos + offset
	case io.SeekEnd:
		newPos = int64(len(m.buf)) + offset
	}
	if newPos < 0 {
		return 0, fmt.Errorf("negative position")
	}
	m.pos = newPos
	return newPos, nil
}

func toWAV(pcm *audio.IntBuffer) ([]byte, error) {
	if pcm == nil || pcm.Format == nil {
		return nil, fmt.Errorf("no pcm")
	}
	bitDepth := pcm.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = 16
	}
	wavBuf := &memBuffer{}
	enc := wav.NewEncoder(wavBuf, pcm.Format.SampleRate, bitDepth, pcm.Format.NumChannels, 1)
	if err := enc.Write(pcm); err != nil {
		return nil, fmt.Errorf("write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("close wav: %w", err)
	}
	return wavBuf.buf, nil
}
