package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Transcription configures the speech-to-text client
type Transcription struct {
	URL      string        `validate:"required,url"`
	Key      string        `validate:"required"`
	Model    string        `validate:"required"`
	Language string        `validate:"omitempty,min=2"`
	Timeout  time.Duration `validate:"gt=0"`
}

// Generation configures the text generation client
type Generation struct {
	URL         string        `validate:"required,url"`
	Key         string        `validate:"required"`
	Model       string        `validate:"required"`
	Temperature float64       `validate:"gte=0,lte=2"`
	Timeout     time.Duration `validate:"gt=0"`
	PromptFile  string
	Strict      bool
}

// Audio configures decoding and segmentation
type Audio struct {
	ChunkLength time.Duration `validate:"gte=1s"`
	SampleRate  int           `validate:"gt=0"`
	FFmpeg      string
	Bitrate     string
	Workers     int `validate:"gte=1,lte=16"`
	TmpDir      string
}

// Docs configures the remote document service, empty Credentials disables it
type Docs struct {
	Credentials string
	Token       string `validate:"required_with=Credentials"`
	FolderID    string
	Timeout     time.Duration `validate:"gt=0"`
}

// Store configures job storage, empty RedisURL selects the in-memory store
type Store struct {
	RedisURL      string
	EncryptionKey string        `validate:"required_with=RedisURL"`
	TTL           time.Duration `validate:"gt=0"`
}

// Service configures the http service
type Service struct {
	Port           int   `validate:"gt=0,lte=65535"`
	MaxUploadBytes int64 `validate:"gt=0"`
}

// Config is the whole application config
type Config struct {
	Transcription Transcription
	Generation    Generation
	Audio         Audio
	Docs          Docs
	Store         Store
	Service       Service
}

// SetDefaults registers default values
func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", 8000)
	v.SetDefault("upload.maxBytes", 20*1024*1024)
	v.SetDefault("groq.url", "https://api.groq.com/openai/v1")
	v.SetDefault("transcription.model", "whisper-large-v3")
	v.SetDefault("transcription.language", "ru")
	v.SetDefault("transcription.timeout", 10*time.Minute)
	v.SetDefault("generation.model", "llama-3.1-8b-instant")
	v.SetDefault("generation.temperature", 0.3)
	v.SetDefault("generation.timeout", 5*time.Minute)
	v.SetDefault("audio.chunkLength", 15*time.Minute)
	v.SetDefault("audio.sampleRate", 16000)
	v.SetDefault("audio.ffmpeg", "ffmpeg")
	v.SetDefault("audio.bitrate", "32k")
	v.SetDefault("audio.workers", 1)
	v.SetDefault("docs.timeout", time.Minute)
	v.SetDefault("store.ttl", 6*time.Hour)
}

// Load reads and validates the config
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	base := strings.TrimRight(v.GetString("groq.url"), "/")
	res := &Config{
		Transcription: Transcription{
			URL:      firstNonEmpty(v.GetString("transcription.url"), base+"/audio/transcriptions"),
			Key:      firstNonEmpty(v.GetString("transcription.key"), v.GetString("groq.key")),
			Model:    v.GetString("transcription.model"),
			Language: v.GetString("transcription.language"),
			Timeout:  v.GetDuration("transcription.timeout"),
		},
		Generation: Generation{
			URL:         firstNonEmpty(v.GetString("generation.url"), base+"/chat/completions"),
			Key:         firstNonEmpty(v.GetString("generation.key"), v.GetString("groq.key")),
			Model:       v.GetString("generation.model"),
			Temperature: v.GetFloat64("generation.temperature"),
			Timeout:     v.GetDuration("generation.timeout"),
			PromptFile:  v.GetString("generation.promptFile"),
			Strict:      v.GetBool("generation.strict"),
		},
		Audio: Audio{
			ChunkLength: v.GetDuration("audio.chunkLength"),
			SampleRate:  v.GetInt("audio.sampleRate"),
			FFmpeg:      v.GetString("audio.ffmpeg"),
			Bitrate:     v.GetString("audio.bitrate"),
			Workers:     v.GetInt("audio.workers"),
			TmpDir:      v.GetString("audio.tmpDir"),
		},
		Docs: Docs{
			Credentials: v.GetString("docs.credentials"),
			Token:       v.GetString("docs.token"),
			FolderID:    v.GetString("docs.folderID"),
			Timeout:     v.GetDuration("docs.timeout"),
		},
		Store: Store{
			RedisURL:      v.GetString("redis.url"),
			EncryptionKey: v.GetString("encryption.key"),
			TTL:           v.GetDuration("store.ttl"),
		},
		Service: Service{
			Port:           v.GetInt("port"),
			MaxUploadBytes: v.GetInt64("upload.maxBytes"),
		},
	}
	if err := Validate(res); err != nil {
		return nil, err
	}
	if res.Store.RedisURL != "" && len(res.Store.EncryptionKey) < 32 {
		return nil, fmt.Errorf("invalid config: encryption key must be >= 32 bytes")
	}
	return res, nil
}

var (
	validate *validator.Validate
	once     sync.Once
)

// Validate checks struct tags of the config
func Validate(s any) error {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, s := range values {
		if s != "" {
			return s
		}
	}
	return ""
}
