package members

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	uierrors "github.com/caiosarava/cadastramento/internal/app/features/errors"
	"github.com/caiosarava/cadastramento/internal/app/registration"
	"github.com/caiosarava/cadastramento/internal/app/system/auth"
	"github.com/caiosarava/cadastramento/internal/app/system/formutil"
	"github.com/caiosarava/cadastramento/internal/domain/models"
	"github.com/caiosarava/cadastramento/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type rendered struct {
	name string
	data any
}

func newTestHandler(t *testing.T, records *testutil.MemoryRecords) (*Handler, *rendered) {
	t.Helper()
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", 0, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	h := NewHandler(registration.New(records, logger, nil), sm, uierrors.NewErrorLogger(logger), logger)
	out := &rendered{}
	h.render = func(_ http.ResponseWriter, _ *http.Request, name string, data any) {
		out.name, out.data = name, data
	}
	h.snippet = func(_ http.ResponseWriter, name string, data any) {
		out.name, out.data = name, data
	}
	return h, out
}

// seed gives user a group with n sample members.
func seed(t *testing.T, records *testutil.MemoryRecords, user testutil.TestUser, n int) models.Group {
	t.Helper()
	owner, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		t.Fatalf("bad test user id: %v", err)
	}
	g := records.PutGroup(owner, models.Group{GroupName: "Grupo Aurora"})
	var ms []models.Member
	for i := 0; i < n; i++ {
		ms = append(ms, testutil.SampleMember(i))
	}
	records.PutMembers(g.ID, ms)
	return g
}

func addRow(form url.Values, n int, name, cpf string) {
	set := func(field, v string) { form.Set(formutil.IndexedName(rowPrefix, n, field), v) }
	set("name", name)
	set("cpf", cpf)
	set("phone", "1133224455")
	set("gender", "Feminino")
	set("role", "Artesão(ã)")
	set("solidarity_network", registration.No)
}

func TestServeMembersForm_NoMembersShowsOneBlankRow(t *testing.T) {
	records := testutil.NewMemoryRecords()
	user := testutil.NewTestUser()
	seed(t, records, user, 0)
	h, out := newTestHandler(t, records)

	rec := httptest.NewRecorder()
	h.ServeMembersForm(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/members", user))

	if out.name != "members_form" {
		t.Fatalf("rendered %q, want members_form", out.name)
	}
	data := out.data.(formData)
	if data.GroupName != "Grupo Aurora" {
		t.Errorf("GroupName = %q", data.GroupName)
	}
	if len(data.Rows) != 1 || data.Rows[0].Fields[0].Value != "" {
		t.Errorf("rows = %+v, want one blank row", data.Rows)
	}
}

func TestServeMembersForm_PrefillsStoredMembers(t *testing.T) {
	records := testutil.NewMemoryRecords()
	user := testutil.NewTestUser()
	seed(t, records, user, 3)
	h, out := newTestHandler(t, records)

	rec := httptest.NewRecorder()
	h.ServeMembersForm(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/members", user))

	data := out.data.(formData)
	if len(data.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(data.Rows))
	}
	first := data.Rows[0].Fields[0]
	if first.Name != "members-0-name" || first.Value != testutil.SampleMember(0).Name {
		t.Errorf("first field = %s=%q", first.Name, first.Value)
	}
	if data.Rows[2].Number != 3 {
		t.Errorf("third row Number = %d", data.Rows[2].Number)
	}
}

func TestServeMembersForm_NoGroupRedirects(t *testing.T) {
	h, out := newTestHandler(t, testutil.NewMemoryRecords())

	rec := httptest.NewRecorder()
	h.ServeMembersForm(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/members", testutil.NewTestUser()))

	testutil.AssertRedirect(t, rec, "/group")
	if out.name != "" {
		t.Errorf("rendered %q", out.name)
	}
}

func TestServeBlankRow(t *testing.T) {
	h, out := newTestHandler(t, testutil.NewMemoryRecords())

	rec := httptest.NewRecorder()
	h.ServeBlankRow(rec, httptest.NewRequest(http.MethodGet, "/members/row?n=4", nil))

	if out.name != "member_row" {
		t.Fatalf("rendered %q, want member_row", out.name)
	}
	row := out.data.(rowVM)
	if row.Index != 4 || row.Number != 5 {
		t.Errorf("row = %d/%d", row.Index, row.Number)
	}
	for _, f := range row.Fields {
		if !strings.HasPrefix(f.Name, "members-4-") || f.Value != "" {
			t.Errorf("field %s=%q", f.Name, f.Value)
		}
	}

	for _, q := range []string{"", "?n=-1", "?n=x", fmt.Sprintf("?n=%d", maxRowIndex)} {
		rec := httptest.NewRecorder()
		h.ServeBlankRow(rec, httptest.NewRequest(http.MethodGet, "/members/row"+q, nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%q: status = %d, want 400", q, rec.Code)
		}
	}
}

func TestHandleMembersForm_ReplacesSet(t *testing.T) {
	records := testutil.NewMemoryRecords()
	user := testutil.NewTestUser()
	g := seed(t, records, user, 1)
	h, _ := newTestHandler(t, records)

	form := url.Values{}
	addRow(form, 0, "Eva Nunes", "98765432100")
	addRow(form, 3, "Fabio Reis", "87654321099") // gap left by a removed block

	rec := httptest.NewRecorder()
	h.HandleMembersForm(rec, testutil.WithUser(testutil.NewFormRequest("/members", form), user))

	testutil.AssertRedirect(t, rec, "/view")
	got, _ := records.FindMembers(context.Background(), g.ID)
	if len(got) != 2 {
		t.Fatalf("stored %d members, want 2", len(got))
	}
	if got[0].Name != "Eva Nunes" || got[1].Name != "Fabio Reis" {
		t.Errorf("names = %q, %q", got[0].Name, got[1].Name)
	}
	if got[0].CPF != "987.654.321-00" {
		t.Errorf("cpf = %q, want masked", got[0].CPF)
	}
}

func TestHandleMembersForm_EmptySetGoesBackToMembers(t *testing.T) {
	records := testutil.NewMemoryRecords()
	user := testutil.NewTestUser()
	g := seed(t, records, user, 2)
	h, _ := newTestHandler(t, records)

	form := url.Values{}
	form.Set(formutil.IndexedName(rowPrefix, 0, "solidarity_network"), registration.No)

	rec := httptest.NewRecorder()
	h.HandleMembersForm(rec, testutil.WithUser(testutil.NewFormRequest("/members", form), user))

	testutil.AssertRedirect(t, rec, "/members")
	if got, _ := records.FindMembers(context.Background(), g.ID); len(got) != 0 {
		t.Errorf("stored %d members, want 0", len(got))
	}
	if records.Replaces != 1 {
		t.Errorf("Replaces = %d, want 1", records.Replaces)
	}
}

func TestHandleMembersForm_InvalidRowAbortsBatch(t *testing.T) {
	records := testutil.NewMemoryRecords()
	user := testutil.NewTestUser()
	g := seed(t, records, user, 1)
	h, out := newTestHandler(t, records)

	form := url.Values{}
	addRow(form, 0, "Eva Nunes", "98765432100")
	addRow(form, 1, "Fabio Reis", "")

	rec := httptest.NewRecorder()
	h.HandleMembersForm(rec, testutil.WithUser(testutil.NewFormRequest("/members", form), user))

	if out.name != "members_form" {
		t.Fatalf("rendered %q, want members_form", out.name)
	}
	data := out.data.(formData)
	if !strings.HasPrefix(string(data.Error), "Member 2 (Fabio Reis):") {
		t.Errorf("error = %q", data.Error)
	}
	if len(data.Rows) != 2 {
		t.Errorf("echoed %d rows, want 2", len(data.Rows))
	}
	if records.Replaces != 0 {
		t.Errorf("Replaces = %d, want 0", records.Replaces)
	}
	if got, _ := records.FindMembers(context.Background(), g.ID); len(got) != 1 {
		t.Errorf("previous set changed: %d members", len(got))
	}
}

func TestHandleMembersForm_NoGroupRedirects(t *testing.T) {
	h, _ := newTestHandler(t, testutil.NewMemoryRecords())

	form := url.Values{}
	addRow(form, 0, "Eva Nunes", "98765432100")
	rec := httptest.NewRecorder()
	h.HandleMembersForm(rec, testutil.WithUser(testutil.NewFormRequest("/members", form), testutil.NewTestUser()))

	testutil.AssertRedirect(t, rec, "/group")
}

func TestHandleMembersForm_TooManyRows(t *testing.T) {
	records := testutil.NewMemoryRecords()
	user := testutil.NewTestUser()
	seed(t, records, user, 0)
	h, out := newTestHandler(t, records)

	form := url.Values{}
	for i := 0; i <= maxRows; i++ {
		addRow(form, i, fmt.Sprintf("Member %03d", i), "98765432100")
	}
	rec := httptest.NewRecorder()
	h.HandleMembersForm(rec, testutil.WithUser(testutil.NewFormRequest("/members", form), user))

	if out.name != "members_form" {
		t.Fatalf("rendered %q, want members_form", out.name)
	}
	if records.Replaces != 0 {
		t.Errorf("Replaces = %d, want 0", records.Replaces)
	}
}
