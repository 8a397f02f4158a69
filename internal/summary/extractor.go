package summary

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/airenas/lecture-summarizer/internal/docstyle"
	"github.com/airenas/lecture-summarizer/internal/domain"
	"github.com/airenas/lecture-summarizer/internal/utils"
)

// Generator is the text generation capability
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// Extractor makes the structured summary of a transcript
type Extractor struct {
	generator Generator
	prompt    string
	strict    bool
}

// NewExtractor creates an extractor. Strict mode fails on a response with no numbered sections
func NewExtractor(generator Generator, prompt string, strict bool) (*Extractor, error) {
	if generator == nil {
		return nil, fmt.Errorf("no generator")
	}
	if strings.TrimSpace(prompt) == "" {
		prompt = SystemPrompt
	}
	goapp.Log.Info().Bool("strict", strict).Int("prompt", len(prompt)).Msg("Extractor")
	return &Extractor{generator: generator, prompt: prompt, strict: strict}, nil
}

// LoadPrompt reads the system instruction from file, empty path gives the default one
func LoadPrompt(file string) (string, error) {
	if file == "" {
		return SystemPrompt, nil
	}
	b, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("read prompt: %w", err)
	}
	return string(b), nil
}

// Extract returns the structured text and a structure warning if sections are missing
func (e *Extractor) Extract(ctx context.Context, transcript string) (string, *domain.MalformedStructureWarning, error) {
	defer utils.MeasureTime(ctx, "summary", time.Now())
	res, err := e.generator.Generate(ctx, e.prompt, transcript)
	if err != nil {
		return "", nil, &domain.GenerationFailure{Err: err}
	}
	warn := docstyle.Check(res)
	if warn != nil {
		goapp.Log.Warn().Str("run", utils.RunID(ctx)).Err(warn).Msg("malformed summary")
		if e.strict && warn.Sections == 0 {
			return "", warn, &domain.GenerationFailure{Err: warn}
		}
	}
	return res, warn, nil
}
