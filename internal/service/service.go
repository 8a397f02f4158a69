package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/facebookgo/grace/gracehttp"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/airenas/lecture-summarizer/internal/api"
	"github.com/airenas/lecture-summarizer/internal/domain"
	"github.com/airenas/lecture-summarizer/internal/pipeline"
	"github.com/airenas/lecture-summarizer/internal/utils"

	"github.com/labstack/echo-contrib/prometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/oklog/ulid/v2"
)

type (
	// Store provides job state and artifacts
	Store interface {
		SaveJob(ctx context.Context, job *domain.Job) error
		GetJob(ctx context.Context, id string) (*domain.Job, error)
		GetArtifact(ctx context.Context, id string) (*domain.Artifact, error)
	}
	// Runner processes uploaded audio
	Runner interface {
		Run(ctx context.Context, id string, data []byte) (*pipeline.Result, error)
	}
	// Subscriber provides progress events of a job
	Subscriber interface {
		Subscribe(id string) (<-chan *api.ProgressEvent, func())
	}
)

// Data keeps data required for service work
type Data struct {
	Port           int
	MaxUploadBytes int64
	Store          Store
	Runner         Runner
	Progress       Subscriber
	Ctx            context.Context
}

// StartWebServer starts echo web service
func StartWebServer(data *Data) (<-chan struct{}, error) {
	goapp.Log.Info().Msgf("Starting summary service at %d", data.Port)
	if err := validate(data); err != nil {
		return nil, err
	}

	portStr := strconv.Itoa(data.Port)

	e := initRoutes(data)

	e.Server.Addr = ":" + portStr
	e.Server.ReadHeaderTimeout = 5 * time.Second
	e.Server.ReadTimeout = 2 * time.Minute
	e.Server.WriteTimeout = 30 * time.Second

	gracehttp.SetLogger(log.New(goapp.Log, "", 0))

	res := make(chan struct{}, 1)
	go func() {
		defer close(res)
		if err := gracehttp.Serve(e.Server); err != nil {
			goapp.Log.Error().Err(err).Msg("can't start web server")
		}
		goapp.Log.Info().Msg("exit http routine")
	}()
	return res, nil
}

var promMdlw *prometheus.Prometheus

func init() {
	promMdlw = prometheus.NewPrometheus("summarizer", nil)
}

func initRoutes(data *Data) *echo.Echo {
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	promMdlw.Use(e)

	e.GET("/live", live(data))
	// multipart overhead on top of the audio limit
	e.POST("/summaries", upload(data), middleware.BodyLimit(strconv.FormatInt(data.MaxUploadBytes+1024*1024, 10)+"B"))
	e.GET("/summaries/:id", status(data))
	e.GET("/summaries/:id/artifact", artifact(data))
	e.GET("/ws/summaries/:id", subscribe(data))

	goapp.Log.Info().Msg("Routes:")
	for _, r := range e.Routes() {
		goapp.Log.Info().Msgf("  %s %s", r.Method, r.Path)
	}
	return e
}

func live(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		return c.JSONBlob(http.StatusOK, []byte(`{"service":"OK"}`))
	}
}

func upload(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		fh, err := c.FormFile("file")
		if err != nil {
			goapp.Log.Warn().Err(err).Msg("no file")
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "no file"})
		}
		if fh.Size > data.MaxUploadBytes {
			return c.JSON(http.StatusRequestEntityTooLarge, api.ErrorResponse{Error: fmt.Sprintf("file is larger than %d bytes", data.MaxUploadBytes)})
		}
		f, err := fh.Open()
		if err != nil {
			goapp.Log.Error().Err(err).Send()
			return echo.NewHTTPError(http.StatusInternalServerError)
		}
		defer f.Close()
		b, err := io.ReadAll(io.LimitReader(f, data.MaxUploadBytes+1))
		if err != nil {
			goapp.Log.Error().Err(err).Send()
			return echo.NewHTTPError(http.StatusInternalServerError)
		}
		if int64(len(b)) > data.MaxUploadBytes {
			return c.JSON(http.StatusRequestEntityTooLarge, api.ErrorResponse{Error: fmt.Sprintf("file is larger than %d bytes", data.MaxUploadBytes)})
		}

		id := ulid.Make().String()
		now := time.Now()
		if err := data.Store.SaveJob(c.Request().Context(), &domain.Job{ID: id, Status: domain.JobPending, CreatedAt: now, UpdatedAt: now}); err != nil {
			goapp.Log.Error().Err(err).Msg("can't save job")
			return echo.NewHTTPError(http.StatusInternalServerError)
		}
		goapp.Log.Info().Str("id", id).Str("file", fh.Filename).Int("bytes", len(b)).Msg("accepted")
		go process(data, id, b)
		return c.JSON(http.StatusAccepted, api.UploadResponse{ID: id})
	}
}

func process(data *Data, id string, b []byte) {
	ctx := utils.WithRunID(data.Ctx, id)
	res, err := data.Runner.Run(ctx, id, b)
	if err != nil {
		goapp.Log.Error().Err(err).Str("id", id).Msg("run failed")
		return
	}
	goapp.Log.Info().Str("id", id).Str("title", res.Title).Str("doc", res.DocURL).Bool("empty", res.Empty).Msg("run done")
}

func status(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		job, err := data.Store.GetJob(c.Request().Context(), c.Param("id"))
		if err != nil {
			return storeErr(err)
		}
		return c.JSON(http.StatusOK, job)
	}
}

func artifact(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		a, err := data.Store.GetArtifact(c.Request().Context(), c.Param("id"))
		if err != nil {
			return storeErr(err)
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, contentDisposition(a.FileName))
		return c.Blob(http.StatusOK, "text/plain; charset=utf-8", []byte(a.Text))
	}
}

func storeErr(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	goapp.Log.Error().Err(err).Send()
	return echo.NewHTTPError(http.StatusInternalServerError)
}

func validate(data *Data) error {
	switch {
	case data.Store == nil:
		return fmt.Errorf("no store")
	case data.Runner == nil:
		return fmt.Errorf("no runner")
	case data.Progress == nil:
		return fmt.Errorf("no progress")
	case data.MaxUploadBytes <= 0:
		return fmt.Errorf("no upload limit")
	case data.Ctx == nil:
		return fmt.Errorf("no ctx")
	}
	return nil
}

func contentDisposition(fileName string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": fileName})
}
