package gdocs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/airenas/lecture-summarizer/internal/config"
	"github.com/airenas/lecture-summarizer/internal/docstyle"
	"github.com/airenas/lecture-summarizer/internal/domain"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/option"
)

func TestBuildRequests(t *testing.T) {
	doc := docstyle.Compile("1. ЗАГОЛОВОК: Физика\n2. ЛЕКТОР: Иванов\n")
	got := BuildRequests(doc)
	if len(got) != 3 {
		t.Fatalf("BuildRequests() len = %d, want 3", len(got))
	}
	if got[0].InsertText == nil || got[0].InsertText.Location.Index != 1 || got[0].InsertText.Text != doc.Body {
		t.Errorf("BuildRequests()[0] = %+v, want insert at 1", got[0].InsertText)
	}
	h := got[1].UpdateParagraphStyle
	if h == nil || h.ParagraphStyle.NamedStyleType != "HEADING_1" || h.Range.StartIndex != 1 || h.Range.EndIndex != 21 {
		t.Errorf("BuildRequests()[1] = %+v, want heading [1,21)", h)
	}
	b := got[2].UpdateTextStyle
	if b == nil || !b.TextStyle.Bold || b.Fields != "bold" || b.Range.StartIndex != 22 || b.Range.EndIndex != 32 {
		t.Errorf("BuildRequests()[2] = %+v, want bold [22,32)", b)
	}
}

func TestBuildRequests_NoStyles(t *testing.T) {
	got := BuildRequests(docstyle.Compile("просто текст"))
	if len(got) != 1 || got[0].InsertText == nil {
		t.Errorf("BuildRequests() = %v, want single insert", got)
	}
}

type fakeAPI struct {
	mu        sync.Mutex
	calls     []string
	batch     *docs.BatchUpdateDocumentRequest
	failShare bool
	failNew   bool
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	path := r.URL.Path
	switch {
	case strings.HasSuffix(path, "/files") && r.Method == http.MethodPost:
		f.calls = append(f.calls, "create")
		if f.failNew {
			http.Error(w, `{"error":{"code":403,"message":"no"}}`, http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(`{"id":"doc-1"}`))
	case strings.HasSuffix(path, "/documents/doc-1:batchUpdate"):
		f.calls = append(f.calls, "update")
		f.batch = &docs.BatchUpdateDocumentRequest{}
		_ = json.NewDecoder(r.Body).Decode(f.batch)
		_, _ = w.Write([]byte(`{"documentId":"doc-1"}`))
	case strings.HasSuffix(path, "/files/doc-1/permissions"):
		f.calls = append(f.calls, "share")
		if f.failShare {
			http.Error(w, `{"error":{"code":403,"message":"no"}}`, http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(`{"id":"perm-1"}`))
	default:
		http.Error(w, "unexpected "+path, http.StatusNotFound)
	}
}

func newTestService(t *testing.T, api *fakeAPI) *Service {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	res, err := NewServiceWithOptions(context.Background(), config.Docs{Timeout: time.Second},
		option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("NewServiceWithOptions() error = %v", err)
	}
	return res
}

func TestCreate(t *testing.T) {
	api := &fakeAPI{}
	s := newTestService(t, api)
	doc := docstyle.Compile("1. ЗАГОЛОВОК: Физика\n2. ЛЕКТОР: Иванов\n")
	got, err := s.Create(context.Background(), "Физика", doc)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if want := "https://docs.google.com/document/d/doc-1/edit"; got != want {
		t.Errorf("Create() = %q, want %q", got, want)
	}
	if strings.Join(api.calls, ",") != "create,update,share" {
		t.Errorf("calls = %v", api.calls)
	}
	if api.batch == nil || len(api.batch.Requests) != 3 || api.batch.Requests[0].InsertText.Text != doc.Body {
		t.Errorf("batch = %+v", api.batch)
	}
}

func TestCreate_Fail(t *testing.T) {
	tests := []struct {
		name   string
		api    *fakeAPI
		wantOp string
	}{
		{name: "create", api: &fakeAPI{failNew: true}, wantOp: "create"},
		{name: "share", api: &fakeAPI{failShare: true}, wantOp: "share"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestService(t, tt.api)
			_, err := s.Create(context.Background(), "t", docstyle.Compile("текст"))
			var de *domain.DocumentServiceFailure
			if !errors.As(err, &de) {
				t.Fatalf("Create() error = %v, want DocumentServiceFailure", err)
			}
			if de.Op != tt.wantOp {
				t.Errorf("Create() op = %q, want %q", de.Op, tt.wantOp)
			}
		})
	}
}

func TestDisabled(t *testing.T) {
	_, err := Disabled{}.Create(context.Background(), "t", docstyle.Compile("x"))
	if !errors.Is(err, ErrDisabled) {
		t.Errorf("Create() error = %v, want ErrDisabled", err)
	}
	if domain.IsFatal(err) {
		t.Errorf("IsFatal() = true, want false")
	}
}
