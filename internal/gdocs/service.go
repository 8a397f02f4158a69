package gdocs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/airenas/lecture-summarizer/internal/config"
	"github.com/airenas/lecture-summarizer/internal/docstyle"
	"github.com/airenas/lecture-summarizer/internal/domain"
	"github.com/airenas/lecture-summarizer/internal/utils"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const (
	docMimeType = "application/vnd.google-apps.document"
	urlTemplate = "https://docs.google.com/document/d/%s/edit"
)

// ErrDisabled is returned when no credentials are configured
var ErrDisabled = errors.New("document service is not configured")

// Service creates styled Google Docs shared for reading by link
type Service struct {
	docs     *docs.Service
	drive    *drive.Service
	folderID string
	timeout  time.Duration
}

// NewService creates the service from oauth client secrets and a saved token
func NewService(ctx context.Context, cfg config.Docs) (*Service, error) {
	b, err := os.ReadFile(cfg.Credentials)
	if err != nil {
		return nil, fmt.Errorf("read client secrets: %w", err)
	}
	oc, err := google.ConfigFromJSON(b, docs.DocumentsScope, drive.DriveScope)
	if err != nil {
		return nil, fmt.Errorf("parse client secrets: %w", err)
	}
	tok, err := loadToken(cfg.Token)
	if err != nil {
		return nil, err
	}
	ts := &savingSource{file: cfg.Token, last: tok, src: oc.TokenSource(ctx, tok)}
	return NewServiceWithOptions(ctx, cfg, option.WithHTTPClient(oauth2.NewClient(ctx, ts)))
}

// NewServiceWithOptions creates the service with explicit api client options
func NewServiceWithOptions(ctx context.Context, cfg config.Docs, opts ...option.ClientOption) (*Service, error) {
	docsSrv, err := docs.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("init docs: %w", err)
	}
	driveSrv, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("init drive: %w", err)
	}
	res := &Service{docs: docsSrv, drive: driveSrv, folderID: cfg.FolderID, timeout: cfg.Timeout}
	if res.timeout <= 0 {
		res.timeout = time.Minute
	}
	goapp.Log.Info().Str("folder", res.folderID).Msg("Google Docs")
	return res, nil
}

// Create makes a document, inserts the body with styles in one batch and
// shares it for reading. Returns the document link
func (s *Service) Create(ctx context.Context, title string, doc *docstyle.Document) (string, error) {
	defer utils.MeasureTime(ctx, "document", time.Now())
	ctx, cancelF := context.WithTimeout(ctx, s.timeout)
	defer cancelF()

	file := &drive.File{Name: title, MimeType: docMimeType}
	if s.folderID != "" {
		file.Parents = []string{s.folderID}
	}
	created, err := s.drive.Files.Create(file).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", &domain.DocumentServiceFailure{Op: "create", Err: err}
	}
	id := created.Id
	goapp.Log.Info().Str("run", utils.RunID(ctx)).Str("doc", id).Int("styles", len(doc.Styles)).Msg("document created")

	if doc.Body != "" {
		req := &docs.BatchUpdateDocumentRequest{Requests: BuildRequests(doc)}
		if _, err := s.docs.Documents.BatchUpdate(id, req).Context(ctx).Do(); err != nil {
			return "", &domain.DocumentServiceFailure{Op: "update", Err: err}
		}
	}

	perm := &drive.Permission{Type: "anyone", Role: "reader"}
	if _, err := s.drive.Permissions.Create(id, perm).Context(ctx).Do(); err != nil {
		return "", &domain.DocumentServiceFailure{Op: "share", Err: err}
	}
	return fmt.Sprintf(urlTemplate, id), nil
}

// BuildRequests makes the body insertion followed by the style requests
func BuildRequests(doc *docstyle.Document) []*docs.Request {
	res := make([]*docs.Request, 0, len(doc.Styles)+1)
	res = append(res, &docs.Request{InsertText: &docs.InsertTextRequest{
		Location: &docs.Location{Index: docstyle.Anchor},
		Text:     doc.Body,
	}})
	for _, st := range doc.Styles {
		rng := &docs.Range{StartIndex: st.Start, EndIndex: st.End}
		switch st.Kind {
		case domain.StyleHeading:
			res = append(res, &docs.Request{UpdateParagraphStyle: &docs.UpdateParagraphStyleRequest{
				Range:          rng,
				ParagraphStyle: &docs.ParagraphStyle{NamedStyleType: "HEADING_1"},
				Fields:         "namedStyleType",
			}})
		case domain.StyleBoldLabel:
			res = append(res, &docs.Request{UpdateTextStyle: &docs.UpdateTextStyleRequest{
				Range:     rng,
				TextStyle: &docs.TextStyle{Bold: true},
				Fields:    "bold",
			}})
		}
	}
	return res
}

// Disabled is used when the document service is not configured
type Disabled struct{}

// Create implements the document service and always fails
func (Disabled) Create(context.Context, string, *docstyle.Document) (string, error) {
	return "", &domain.DocumentServiceFailure{Op: "create", Err: ErrDisabled}
}

func loadToken(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("open token: %w", err)
	}
	defer f.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	return tok, nil
}

// savingSource writes refreshed tokens back to the token file
type savingSource struct {
	file string
	src  oauth2.TokenSource
	mu   sync.Mutex
	last *oauth2.Token
}

func (s *savingSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tok, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	if s.last == nil || tok.AccessToken != s.last.AccessToken {
		if err := saveToken(s.file, tok); err != nil {
			goapp.Log.Warn().Err(err).Msg("can't save token")
		}
		s.last = tok
	}
	return tok, nil
}

func saveToken(file string, tok *oauth2.Token) error {
	b, err := json.Marshal(tok)
	if err != nil {
		return err
	}
	return os.WriteFile(file, b, 0o600)
}
