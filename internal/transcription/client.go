package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/airenas/lecture-summarizer/internal/api"
	"github.com/airenas/lecture-summarizer/internal/audio"
	"github.com/airenas/lecture-summarizer/internal/config"
)

// Client calls an OpenAI compatible speech-to-text endpoint
type Client struct {
	httpclient *http.Client
	url        string
	key        string
	model      string
	language   string
	timeout    time.Duration
}

// NewClient creates a transcription client
func NewClient(cfg config.Transcription) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("no transcription URL")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("no transcription model")
	}
	res := &Client{url: cfg.URL, key: cfg.Key, model: cfg.Model, language: cfg.Language, timeout: cfg.Timeout}
	if res.timeout <= 0 {
		res.timeout = 10 * time.Minute
	}
	res.httpclient = &http.Client{Transport: newTransport()}
	goapp.Log.Info().Str("url", res.url).Str("model", res.model).Str("language", res.language).Msg("Transcriber")
	return res, nil
}

// Transcribe sends one encoded segment in verbose mode
func (sp *Client) Transcribe(ctx context.Context, payload *audio.Payload) (*api.TranscriptionResponse, error) {
	ctx, cancelF := context.WithTimeout(ctx, sp.timeout)
	defer cancelF()

	body, contentType, err := sp.form(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sp.url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	if sp.key != "" {
		req.Header.Set("Authorization", "Bearer "+sp.key)
	}
	resp, err := sp.httpclient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1000))
		_ = resp.Body.Close()
	}()
	if err := goapp.ValidateHTTPResp(resp, 100); err != nil {
		return nil, fmt.Errorf("can't invoke '%s': %w", req.URL.String(), err)
	}
	res := &api.TranscriptionResponse{}
	if err := json.NewDecoder(resp.Body).Decode(res); err != nil {
		return nil, fmt.Errorf("decode transcription: %w", err)
	}
	return res, nil
}

func (sp *Client) form(payload *audio.Payload) (*bytes.Buffer, string, error) {
	if payload == nil || len(payload.Data) == 0 {
		return nil, "", fmt.Errorf("no audio data")
	}
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	fields := [][2]string{{"model", sp.model}, {"response_format", "verbose_json"}}
	if sp.language != "" {
		fields = append(fields, [2]string{"language", sp.language})
	}
	for _, f := range fields {
		if err := writer.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("write %s field: %w", f[0], err)
		}
	}
	part, err := writer.CreateFormFile("file", payload.FileName)
	if err != nil {
		return nil, "", fmt.Errorf("create file field: %w", err)
	}
	if _, err := part.Write(payload.Data); err != nil {
		return nil, "", fmt.Errorf("write audio: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, writer.FormDataContentType(), nil
}

func newTransport() http.RoundTripper {
	res := http.DefaultTransport.(*http.Transport).Clone()
	res.MaxConnsPerHost = 5
	res.MaxIdleConns = 2
	res.MaxIdleConnsPerHost = 2
	res.IdleConnTimeout = 90 * time.Second
	return res
}
