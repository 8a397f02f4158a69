package transcription

import (
	"context"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/airenas/lecture-summarizer/internal/audio"
	"github.com/airenas/lecture-summarizer/internal/config"
)

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	c, err := NewClient(config.Transcription{URL: url, Key: "test-key", Model: "whisper-large-v3", Language: "ru", Timeout: time.Second})
	if err != nil {
		t.Fatalf("NewClient() failed: %v", err)
	}
	return c
}

func TestClient_Transcribe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %q", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization header %q", got)
		}
		mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "multipart/form-data" {
			t.Errorf("unexpected content type %q", r.Header.Get("Content-Type"))
			return
		}
		reader := multipart.NewReader(r.Body, params["boundary"])
		fields := map[string]string{}
		var fileName, fileData string
		for {
			part, err := reader.NextPart()
			if err != nil {
				break
			}
			data, _ := io.ReadAll(part)
			if part.FormName() == "file" {
				fileName, fileData = part.FileName(), string(data)
			} else {
				fields[part.FormName()] = string(data)
			}
		}
		if fields["model"] != "whisper-large-v3" || fields["language"] != "ru" || fields["response_format"] != "verbose_json" {
			t.Errorf("unexpected fields %v", fields)
		}
		if fileName != "chunk_0.mp3" || fileData != "fake-audio" {
			t.Errorf("unexpected file %q: %q", fileName, fileData)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"Привет мир","segments":[{"start":0.0,"end":1.5,"text":" Привет"},{"start":1.5,"end":3,"text":" мир"}]}`))
	}))
	defer server.Close()

	got, err := newTestClient(t, server.URL).Transcribe(context.Background(), audio.NewPayload([]byte("fake-audio"), "chunk_0.mp3", nil))
	if err != nil {
		t.Fatalf("Transcribe() failed: %v", err)
	}
	if got.Text != "Привет мир" || len(got.Segments) != 2 || got.Segments[1].Start != 1.5 {
		t.Errorf("Transcribe() = %+v", got)
	}
}

func TestClient_Transcribe_NoSegments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"text":"Привет"}`))
	}))
	defer server.Close()

	got, err := newTestClient(t, server.URL).Transcribe(context.Background(), audio.NewPayload([]byte("a"), "a.mp3", nil))
	if err != nil {
		t.Fatalf("Transcribe() failed: %v", err)
	}
	if f := ToFragment(got); f.PlainText != "Привет" || len(f.TimedLines) != 0 {
		t.Errorf("ToFragment() = %+v", f)
	}
}

func TestClient_Transcribe_Fail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()
	c := newTestClient(t, server.URL)
	tests := []struct {
		name    string
		payload *audio.Payload
	}{
		{name: "status", payload: audio.NewPayload([]byte("a"), "a.mp3", nil)},
		{name: "no data", payload: audio.NewPayload(nil, "a.mp3", nil)},
		{name: "nil", payload: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := c.Transcribe(context.Background(), tt.payload); err == nil {
				t.Errorf("Transcribe() succeeded unexpectedly")
			}
		})
	}
}

func TestNewClient(t *testing.T) {
	if _, err := NewClient(config.Transcription{Model: "m"}); err == nil {
		t.Errorf("expected error for no url")
	}
	if _, err := NewClient(config.Transcription{URL: "http://localhost"}); err == nil {
		t.Errorf("expected error for no model")
	}
}
