package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	uierrors "github.com/caiosarava/cadastramento/internal/app/features/errors"
	"github.com/caiosarava/cadastramento/internal/app/registration"
	"github.com/caiosarava/cadastramento/internal/app/system/auth"
	"github.com/caiosarava/cadastramento/internal/app/system/filestore"
	"github.com/caiosarava/cadastramento/internal/app/system/metrics"
	"github.com/caiosarava/cadastramento/internal/domain/models"
	"github.com/caiosarava/cadastramento/internal/testutil"
	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeFiles struct {
	mu        sync.Mutex
	uploaded  []filestore.FileRef
	mimeTypes []string
	bodies    [][]byte
	failWith  error
}

func (f *fakeFiles) ListFiles(context.Context, int64) ([]filestore.FileRef, error) {
	return f.uploaded, nil
}

func (f *fakeFiles) ListFolder(_ context.Context, prefix string, _ int64) ([]filestore.FileRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []filestore.FileRef
	for _, ref := range f.uploaded {
		if strings.Contains(ref.Name, prefix) {
			out = append(out, ref)
		}
	}
	return out, nil
}

func (f *fakeFiles) GetFile(_ context.Context, id string) (filestore.FileMeta, error) {
	return filestore.FileMeta{ID: id, MimeType: filestore.FolderMimeType, CanUploadFile: true}, nil
}

func (f *fakeFiles) Upload(_ context.Context, name, mimeType string, r io.Reader) (filestore.FileRef, error) {
	if f.failWith != nil {
		return filestore.FileRef{}, f.failWith
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return filestore.FileRef{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	ref := filestore.FileRef{ID: primitive.NewObjectID().Hex(), Name: name}
	f.uploaded = append(f.uploaded, ref)
	f.mimeTypes = append(f.mimeTypes, mimeType)
	f.bodies = append(f.bodies, b)
	return ref, nil
}

func (f *fakeFiles) FolderID() string { return "folder-1" }

type rendered struct {
	name string
	data any
}

type fixture struct {
	h       *Handler
	out     *rendered
	records *testutil.MemoryRecords
	user    testutil.TestUser
	group   models.Group
	metrics *metrics.Metrics
}

// newFixture builds a handler for a user whose group has n members.
func newFixture(t *testing.T, n int, files filestore.Files) fixture {
	t.Helper()
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", 0, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}

	records := testutil.NewMemoryRecords()
	user := testutil.NewTestUser()
	owner, _ := primitive.ObjectIDFromHex(user.ID)
	g := records.PutGroup(owner, models.Group{
		GroupName: "Grupo Aurora", Representative: "Maria Souza", Email: "contato@aurora.org",
		Phone: "(11) 98765-4321", City: "Campinas", State: "SP", HasHeadquarters: true,
	})
	var ms []models.Member
	for i := 0; i < n; i++ {
		ms = append(ms, testutil.SampleMember(i))
	}
	records.PutMembers(g.ID, ms)

	m := metrics.New(prometheus.NewRegistry())
	h := NewHandler(registration.New(records, logger, m), sm, files, m, uierrors.NewErrorLogger(logger), logger)
	out := &rendered{}
	h.render = func(_ http.ResponseWriter, _ *http.Request, name string, data any) {
		out.name, out.data = name, data
	}
	h.now = func() time.Time { return time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC) }
	return fixture{h: h, out: out, records: records, user: user, group: g, metrics: m}
}

func uploadRequest(t *testing.T, user testutil.TestUser, filename, contentType string, body []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="document"; filename="`+filename+`"`)
	if contentType != "" {
		hdr.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	if _, err := part.Write(body); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/view/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return testutil.WithUser(req, user)
}

func TestServeView_RendersSummary(t *testing.T) {
	f := newFixture(t, 3, nil)

	rec := httptest.NewRecorder()
	f.h.ServeView(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/view", f.user))

	if f.out.name != "view_summary" {
		t.Fatalf("rendered %q, want view_summary", f.out.name)
	}
	data := f.out.data.(pageData)
	if data.GroupName != "Grupo Aurora" {
		t.Errorf("GroupName = %q", data.GroupName)
	}
	if len(data.GroupFields) != len(registration.GroupSchema.Fields) {
		t.Errorf("group fields = %d", len(data.GroupFields))
	}
	if data.Summary.Total != 3 || len(data.Members) != 3 || data.Members[2].Number != 3 {
		t.Errorf("summary total = %d, members = %d", data.Summary.Total, len(data.Members))
	}
	if len(data.Breakdowns) != 5 || data.Breakdowns[0].Title != "Gender" {
		t.Errorf("breakdowns = %+v", data.Breakdowns)
	}
	if data.UploadsEnabled {
		t.Error("uploads enabled without document storage")
	}
}

func TestServeView_ListsGroupDocuments(t *testing.T) {
	files := &fakeFiles{}
	f := newFixture(t, 1, files)
	files.uploaded = []filestore.FileRef{
		{ID: "1", Name: f.group.ID.Hex() + "_x_estatuto.pdf"},
		{ID: "2", Name: primitive.NewObjectID().Hex() + "_y_other.pdf"},
	}

	rec := httptest.NewRecorder()
	f.h.ServeView(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/view?uploaded=1", f.user))

	data := f.out.data.(pageData)
	if !data.UploadsEnabled {
		t.Error("uploads disabled with document storage configured")
	}
	if len(data.Documents) != 1 || data.Documents[0].ID != "1" {
		t.Errorf("documents = %+v", data.Documents)
	}
	if data.Notice != "Document uploaded." {
		t.Errorf("notice = %q", data.Notice)
	}
}

func TestServeView_WithoutMembersRedirects(t *testing.T) {
	f := newFixture(t, 0, nil)

	rec := httptest.NewRecorder()
	f.h.ServeView(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/view", f.user))

	testutil.AssertRedirect(t, rec, "/members")
}

func TestServeMembersCSV(t *testing.T) {
	f := newFixture(t, 2, nil)

	rec := httptest.NewRecorder()
	f.h.ServeMembersCSV(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/view/members.csv", f.user))

	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "grupo-aurora_2026-05-04.csv") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	r := csv.NewReader(strings.NewReader(strings.TrimPrefix(rec.Body.String(), "\ufeff")))
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("csv rows = %d, want header + 2", len(records))
	}
	if records[0][0] != registration.MemberSchema.Fields[0].Label {
		t.Errorf("first header = %q", records[0][0])
	}
	if records[1][0] != testutil.SampleMember(0).Name || records[2][1] != testutil.SampleMember(1).CPF {
		t.Errorf("rows = %q", records[1:])
	}
}

func TestHandleUpload_StoresDocument(t *testing.T) {
	files := &fakeFiles{}
	f := newFixture(t, 1, files)

	rec := httptest.NewRecorder()
	f.h.HandleUpload(rec, uploadRequest(t, f.user, "estatuto.pdf", "application/pdf", []byte("%PDF-1.4")))

	testutil.AssertRedirect(t, rec, "/view?uploaded=1")
	if len(files.uploaded) != 1 {
		t.Fatalf("uploads = %d, want 1", len(files.uploaded))
	}
	name := files.uploaded[0].Name
	if !strings.HasPrefix(name, f.group.ID.Hex()+"_") || !strings.HasSuffix(name, "_estatuto.pdf") {
		t.Errorf("stored name = %q", name)
	}
	if files.mimeTypes[0] != "application/pdf" || string(files.bodies[0]) != "%PDF-1.4" {
		t.Errorf("stored %q / %q", files.mimeTypes[0], files.bodies[0])
	}
	if got := promtestutil.ToFloat64(f.metrics.Uploads.WithLabelValues(uploadOK)); got != 1 {
		t.Errorf("ok uploads metric = %v, want 1", got)
	}
}

func TestHandleUpload_Failures(t *testing.T) {
	tests := []struct {
		name     string
		files    *fakeFiles
		filename string
		body     []byte
		outcome  string
		wantMsg  string
	}{
		{"storage not configured", nil, "estatuto.pdf", []byte("x"), uploadDisabled, "Document storage is not configured."},
		{"unsupported type", &fakeFiles{}, "virus.exe", []byte("MZ"), uploadRejected, "Only PDF, Word and Excel files are accepted."},
		{"empty file", &fakeFiles{}, "vazio.pdf", nil, uploadRejected, "File is empty."},
		{"drive error", &fakeFiles{failWith: errors.New("quota exceeded")}, "estatuto.pdf", []byte("%PDF"), uploadFailed, "The document could not be stored. Please try again."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var files filestore.Files
			if tt.files != nil {
				files = tt.files
			}
			f := newFixture(t, 1, files)

			rec := httptest.NewRecorder()
			f.h.HandleUpload(rec, uploadRequest(t, f.user, tt.filename, "", tt.body))

			if f.out.name != "view_summary" {
				t.Fatalf("rendered %q, want view_summary", f.out.name)
			}
			data := f.out.data.(pageData)
			if string(data.Error) != tt.wantMsg {
				t.Errorf("error = %q, want %q", data.Error, tt.wantMsg)
			}
			if got := promtestutil.ToFloat64(f.metrics.Uploads.WithLabelValues(tt.outcome)); got != 1 {
				t.Errorf("%s uploads metric = %v, want 1", tt.outcome, got)
			}
		})
	}
}
