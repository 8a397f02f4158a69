package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/airenas/lecture-summarizer/internal/audio"
	"github.com/airenas/lecture-summarizer/internal/config"
	"github.com/airenas/lecture-summarizer/internal/db"
	"github.com/airenas/lecture-summarizer/internal/gdocs"
	"github.com/airenas/lecture-summarizer/internal/handlers"
	"github.com/airenas/lecture-summarizer/internal/pipeline"
	"github.com/airenas/lecture-summarizer/internal/progress"
	"github.com/airenas/lecture-summarizer/internal/service"
	"github.com/airenas/lecture-summarizer/internal/summary"
	"github.com/airenas/lecture-summarizer/internal/transcription"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/color"
)

type store interface {
	service.Store
	pipeline.Store
	Close() error
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		goapp.Log.Warn().Err(err).Msg("can't load .env")
	}
	goapp.StartWithDefault()

	printBanner()

	cfg, err := config.Load(goapp.Config)
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't load config")
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	st, err := initStore(cfg.Store)
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init store")
	}
	defer st.Close()

	decoder, err := audio.NewDecoder(cfg.Audio.FFmpeg, cfg.Audio.SampleRate, cfg.Audio.TmpDir)
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init decoder")
	}
	segmenter, err := audio.NewSegmenter(cfg.Audio.ChunkLength)
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init segmenter")
	}
	encoder, err := initEncoder(cfg.Audio)
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init encoder")
	}
	trClient, err := transcription.NewClient(cfg.Transcription)
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init transcription client")
	}
	hList, err := handlers.NewListHandler()
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init list handler")
	}
	hList.Add(handlers.NewCleaner())
	coordinator, err := transcription.NewCoordinator(encoder, trClient, hList, cfg.Audio.Workers)
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init coordinator")
	}

	genClient, err := summary.NewClient(cfg.Generation)
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init generation client")
	}
	prompt, err := summary.LoadPrompt(cfg.Generation.PromptFile)
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't load prompt")
	}
	extractor, err := summary.NewExtractor(genClient, prompt, cfg.Generation.Strict)
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init extractor")
	}

	hub := progress.NewHub()
	pl := &pipeline.Pipeline{
		Decoder:     decoder,
		Splitter:    segmenter,
		Transcriber: coordinator,
		Summarizer:  extractor,
		Documents:   initDocs(ctx, cfg.Docs),
		Store:       st,
		Reporter:    hub,
	}
	if err := pl.Validate(); err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init pipeline")
	}

	data := &service.Data{
		Ctx:            ctx,
		Port:           cfg.Service.Port,
		MaxUploadBytes: cfg.Service.MaxUploadBytes,
		Store:          st,
		Runner:         pl,
		Progress:       hub,
	}
	doneCh, err := service.StartWebServer(data)
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't start web server")
	}

	/////////////////////// Waiting for terminate
	waitCh := make(chan os.Signal, 2)
	signal.Notify(waitCh, os.Interrupt, syscall.SIGTERM)
	select {
	case <-waitCh:
		goapp.Log.Info().Msg("Got exit signal")
	case <-doneCh:
		goapp.Log.Info().Msg("Service exit")
	}
	cancelFunc()
	select {
	case <-doneCh:
		goapp.Log.Info().Msg("All code returned. Now exit. Bye")
	case <-time.After(time.Second * 15):
		goapp.Log.Warn().Msg("Timeout gracefull shutdown")
	}
}

func initStore(cfg config.Store) (store, error) {
	if cfg.RedisURL == "" {
		return db.NewMemoryStore(), nil
	}
	return db.NewRedisStore(cfg.RedisURL, cfg.EncryptionKey, cfg.TTL)
}

func initEncoder(cfg config.Audio) (audio.Encoder, error) {
	if cfg.FFmpeg == "" {
		goapp.Log.Warn().Msg("no ffmpeg, segments are sent as wav")
		return audio.WAVEncoder{}, nil
	}
	return audio.NewFFmpegEncoder(cfg.FFmpeg, cfg.Bitrate, cfg.TmpDir)
}

func initDocs(ctx context.Context, cfg config.Docs) pipeline.DocumentService {
	if cfg.Credentials == "" {
		goapp.Log.Warn().Msg("no docs credentials, documents disabled")
		return gdocs.Disabled{}
	}
	res, err := gdocs.NewService(ctx, cfg)
	if err != nil {
		goapp.Log.Error().Err(err).Msg("can't init docs, documents disabled")
		return gdocs.Disabled{}
	}
	return res
}

var (
	version = "DEV"
)

func printBanner() {
	banner :=
		`
    LECTURE SUMMARIZER v: %s

%s
________________________________________________________

`
	cl := color.New()
	cl.Printf(banner, cl.Red(version), cl.Green("https://github.com/airenas/lecture-summarizer"))
}
