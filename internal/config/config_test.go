package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	v.Set("groq.key", "secret")
	got, err := Load(v)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if got.Transcription.URL != "https://api.groq.com/openai/v1/audio/transcriptions" {
		t.Errorf("Transcription.URL = %q", got.Transcription.URL)
	}
	if got.Generation.URL != "https://api.groq.com/openai/v1/chat/completions" {
		t.Errorf("Generation.URL = %q", got.Generation.URL)
	}
	if got.Transcription.Key != "secret" || got.Generation.Key != "secret" {
		t.Errorf("keys = %q, %q", got.Transcription.Key, got.Generation.Key)
	}
	if got.Transcription.Model != "whisper-large-v3" || got.Transcription.Language != "ru" {
		t.Errorf("Transcription = %+v", got.Transcription)
	}
	if got.Generation.Model != "llama-3.1-8b-instant" || got.Generation.Temperature != 0.3 {
		t.Errorf("Generation = %+v", got.Generation)
	}
	if got.Audio.ChunkLength != 15*time.Minute || got.Audio.SampleRate != 16000 || got.Audio.Workers != 1 {
		t.Errorf("Audio = %+v", got.Audio)
	}
	if got.Service.MaxUploadBytes != 20*1024*1024 || got.Service.Port != 8000 {
		t.Errorf("Service = %+v", got.Service)
	}
	if got.Store.RedisURL != "" || got.Docs.Credentials != "" {
		t.Errorf("optional services enabled: %+v %+v", got.Store, got.Docs)
	}
}

func TestLoad_Fail(t *testing.T) {
	tests := []struct {
		name string
		set  map[string]any
	}{
		{name: "no key", set: map[string]any{}},
		{name: "bad url", set: map[string]any{"groq.key": "k", "transcription.url": "::not url"}},
		{name: "short chunk", set: map[string]any{"groq.key": "k", "audio.chunkLength": "10ms"}},
		{name: "workers", set: map[string]any{"groq.key": "k", "audio.workers": 0}},
		{name: "redis no key", set: map[string]any{"groq.key": "k", "redis.url": "redis://localhost:6379"}},
		{name: "redis short key", set: map[string]any{"groq.key": "k", "redis.url": "redis://localhost:6379", "encryption.key": "short"}},
		{name: "docs no token", set: map[string]any{"groq.key": "k", "docs.credentials": "client_secrets.json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			for k, val := range tt.set {
				v.Set(k, val)
			}
			if _, err := Load(v); err == nil {
				t.Errorf("Load() succeeded unexpectedly")
			}
		})
	}
}
