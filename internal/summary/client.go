package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/airenas/lecture-summarizer/internal/api"
	"github.com/airenas/lecture-summarizer/internal/config"
)

// Client calls an OpenAI compatible chat completions endpoint
type Client struct {
	httpclient  *http.Client
	url         string
	key         string
	model       string
	temperature float64
	timeout     time.Duration
}

// NewClient creates a text generation client
func NewClient(cfg config.Generation) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("no generation URL")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("no generation model")
	}
	res := &Client{url: cfg.URL, key: cfg.Key, model: cfg.Model, temperature: cfg.Temperature, timeout: cfg.Timeout}
	if res.timeout <= 0 {
		res.timeout = 5 * time.Minute
	}
	res.httpclient = &http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone()}
	goapp.Log.Info().Str("url", res.url).Str("model", res.model).Float64("temperature", res.temperature).Msg("Generator")
	return res, nil
}

// Generate returns the content of the first choice
func (sp *Client) Generate(ctx context.Context, system, user string) (string, error) {
	ctx, cancelF := context.WithTimeout(ctx, sp.timeout)
	defer cancelF()

	b := new(bytes.Buffer)
	err := json.NewEncoder(b).Encode(api.ChatRequest{
		Model:       sp.model,
		Messages:    []api.ChatMessage{{Role: "system", Content: system}, {Role: "user", Content: user}},
		Temperature: sp.temperature,
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sp.url, b)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if sp.key != "" {
		req.Header.Set("Authorization", "Bearer "+sp.key)
	}
	resp, err := sp.httpclient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1000))
		_ = resp.Body.Close()
	}()
	if err := goapp.ValidateHTTPResp(resp, 100); err != nil {
		return "", fmt.Errorf("can't invoke '%s': %w", req.URL.String(), err)
	}
	res := &api.ChatResponse{}
	if err := json.NewDecoder(resp.Body).Decode(res); err != nil {
		return "", fmt.Errorf("decode completion: %w", err)
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("no choices in completion")
	}
	return res.Choices[0].Message.Content, nil
}
