package utils

import (
	"context"
	"time"

	"github.com/airenas/go-app/pkg/goapp"
)

// MeasureTime logs the time spent in a pipeline stage, use with defer
func MeasureTime(ctx context.Context, stage string, start time.Time) {
	goapp.Log.Info().Str("run", RunID(ctx)).Dur("elapsed", time.Since(start)).Str("stage", stage).Msg("time")
}
