package groups

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	uierrors "github.com/caiosarava/cadastramento/internal/app/features/errors"
	"github.com/caiosarava/cadastramento/internal/app/registration"
	"github.com/caiosarava/cadastramento/internal/app/system/auth"
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
	return h, out
}

func groupForm() url.Values {
	return url.Values{
		"group_name":       {"Grupo Aurora"},
		"representative":   {"Maria Souza"},
		"email":            {"contato@aurora.org"},
		"phone":            {"11987654321"},
		"city":             {"Campinas"},
		"state":            {"sp"},
		"has_headquarters": {"Yes"},
	}
}

func ownerOf(t *testing.T, u testutil.TestUser) primitive.ObjectID {
	t.Helper()
	oid, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		t.Fatalf("bad test user id: %v", err)
	}
	return oid
}

func TestServeGroupForm_Empty(t *testing.T) {
	h, out := newTestHandler(t, testutil.NewMemoryRecords())

	rec := httptest.NewRecorder()
	h.ServeGroupForm(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/group", testutil.NewTestUser()))

	if out.name != "group_form" {
		t.Fatalf("rendered %q, want group_form", out.name)
	}
	data := out.data.(groupFormData)
	if data.Editing {
		t.Error("Editing = true for an account without a group")
	}
	if len(data.Fields) != len(registration.GroupSchema.Fields) {
		t.Errorf("fields = %d, want %d", len(data.Fields), len(registration.GroupSchema.Fields))
	}
	for _, f := range data.Fields {
		if f.Value != "" {
			t.Errorf("field %s prefilled with %q", f.Name, f.Value)
		}
	}
}

func TestServeGroupForm_PrefillsExistingGroup(t *testing.T) {
	records := testutil.NewMemoryRecords()
	user := testutil.NewTestUser()
	records.PutGroup(ownerOf(t, user), models.Group{GroupName: "Grupo Aurora", State: "SP", HasHeadquarters: true})
	h, out := newTestHandler(t, records)

	rec := httptest.NewRecorder()
	h.ServeGroupForm(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/group", user))

	data := out.data.(groupFormData)
	if !data.Editing {
		t.Error("Editing = false for an existing group")
	}
	got := map[string]string{}
	for _, f := range data.Fields {
		got[f.Name] = f.Value
	}
	if got["group_name"] != "Grupo Aurora" || got["state"] != "SP" || got["has_headquarters"] != registration.Yes {
		t.Errorf("prefill = %v", got)
	}
}

func TestHandleGroupForm_SavesAndRedirects(t *testing.T) {
	tests := []struct {
		name    string
		members int
		want    string
	}{
		{"first save goes to members", 0, "/members"},
		{"update with members goes to view", 2, "/view"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := testutil.NewMemoryRecords()
			user := testutil.NewTestUser()
			if tt.members > 0 {
				g := records.PutGroup(ownerOf(t, user), models.Group{GroupName: "Old name"})
				var ms []models.Member
				for i := 0; i < tt.members; i++ {
					ms = append(ms, testutil.SampleMember(i))
				}
				records.PutMembers(g.ID, ms)
			}
			h, out := newTestHandler(t, records)

			rec := httptest.NewRecorder()
			h.HandleGroupForm(rec, testutil.WithUser(testutil.NewFormRequest("/group", groupForm()), user))

			testutil.AssertRedirect(t, rec, tt.want)
			if out.name != "" {
				t.Errorf("rendered %q on success", out.name)
			}
			if records.Upserts != 1 {
				t.Errorf("Upserts = %d, want 1", records.Upserts)
			}
			g, _ := records.FindGroupByOwner(context.Background(), ownerOf(t, user))
			if g == nil || g.GroupName != "Grupo Aurora" || g.Phone != "(11) 98765-4321" || g.State != "SP" {
				t.Errorf("stored group = %+v", g)
			}
		})
	}
}

func TestHandleGroupForm_MissingEmailRerenders(t *testing.T) {
	records := testutil.NewMemoryRecords()
	h, out := newTestHandler(t, records)

	form := groupForm()
	form.Del("email")
	rec := httptest.NewRecorder()
	h.HandleGroupForm(rec, testutil.WithUser(testutil.NewFormRequest("/group", form), testutil.NewTestUser()))

	if out.name != "group_form" {
		t.Fatalf("rendered %q, want group_form", out.name)
	}
	if records.Upserts != 0 {
		t.Errorf("Upserts = %d, want 0", records.Upserts)
	}
	data := out.data.(groupFormData)
	if !strings.Contains(string(data.Error), registration.GroupSchema.Label("email")) {
		t.Errorf("error %q does not name the email field", data.Error)
	}
	for _, f := range data.Fields {
		if f.Name == "phone" && f.Value != "(11) 98765-4321" {
			t.Errorf("phone echoed as %q, want masked value", f.Value)
		}
	}
}

func TestHandleGroupForm_RemoteFailureStaysOnPage(t *testing.T) {
	records := testutil.NewMemoryRecords()
	records.FailUpsert = errors.New("connection reset")
	h, out := newTestHandler(t, records)

	rec := httptest.NewRecorder()
	h.HandleGroupForm(rec, testutil.WithUser(testutil.NewFormRequest("/group", groupForm()), testutil.NewTestUser()))

	if out.name != "group_form" {
		t.Fatalf("rendered %q, want group_form", out.name)
	}
	data := out.data.(groupFormData)
	if string(data.Error) != "We could not reach the records service. Please try again." {
		t.Errorf("error = %q", data.Error)
	}
}

func TestHandleGroupForm_Anonymous(t *testing.T) {
	h, _ := newTestHandler(t, testutil.NewMemoryRecords())

	rec := httptest.NewRecorder()
	h.HandleGroupForm(rec, testutil.NewFormRequest("/group", groupForm()))

	testutil.AssertRedirect(t, rec, "/login")
}
