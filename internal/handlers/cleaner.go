package handlers

import (
	"context"
	"strings"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/airenas/lecture-summarizer/internal/domain"
)

// Cleaner trims and collapses whitespace of fragment texts
type Cleaner struct {
}

// NewCleaner creates a text cleaner
func NewCleaner() *Cleaner {
	res := Cleaner{}
	goapp.Log.Info().Msg("Cleaner")
	return &res
}

func (sp *Cleaner) Process(_ context.Context, data *domain.Fragment) (*domain.Fragment, error) {
	data.PlainText = transform(data.PlainText)
	for i := range data.TimedLines {
		data.TimedLines[i].Text = transform(data.TimedLines[i].Text)
	}
	return data, nil
}

func transform(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
