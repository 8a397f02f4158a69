package handlers

import (
	"context"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/airenas/lecture-summarizer/internal/domain"
)

// Handler post-processes a transcribed fragment
type Handler interface {
	Process(context.Context, *domain.Fragment) (*domain.Fragment, error)
}

// ListHandler passes a fragment through a list of handlers
type ListHandler struct {
	handlers []Handler
}

func NewListHandler() (*ListHandler, error) {
	res := &ListHandler{}
	return res, nil
}

// Process never fails, a failing handler is skipped
func (sp *ListHandler) Process(ctx context.Context, data *domain.Fragment) (*domain.Fragment, error) {
	res := data
	for i, h := range sp.handlers {
		goapp.Log.Debug().Int("handler", i).Msg("Processing")
		if dataNew, err := h.Process(ctx, copyFragment(res)); err != nil {
			goapp.Log.Error().Err(err).Int("handler", i).Msg("Can't process")
		} else {
			res = dataNew
		}
	}
	return res, nil
}

func (sp *ListHandler) Add(h Handler) {
	sp.handlers = append(sp.handlers, h)
}

func copyFragment(f *domain.Fragment) *domain.Fragment {
	res := &domain.Fragment{PlainText: f.PlainText}
	if f.TimedLines != nil {
		res.TimedLines = append([]domain.TimedLine(nil), f.TimedLines...)
	}
	return res
}
