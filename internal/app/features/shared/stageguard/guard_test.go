package stageguard_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	uierrors "github.com/caiosarava/cadastramento/internal/app/features/errors"
	"github.com/caiosarava/cadastramento/internal/app/features/shared/stageguard"
	"github.com/caiosarava/cadastramento/internal/app/registration"
	"github.com/caiosarava/cadastramento/internal/app/system/auth"
	"github.com/caiosarava/cadastramento/internal/domain/models"
	"github.com/caiosarava/cadastramento/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestGuard(t *testing.T) {
	sm, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", 0, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}

	tests := []struct {
		name     string
		group    bool
		members  int
		want     registration.Stage
		allowed  bool
		location string
	}{
		{"group stage without group", false, 0, registration.StageGroup, true, ""},
		{"members stage without group", false, 0, registration.StageMembers, false, "/group"},
		{"view stage without members", true, 0, registration.StageView, false, "/members"},
		{"members stage with members", true, 1, registration.StageMembers, true, ""},
		{"view stage with members", true, 1, registration.StageView, true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := testutil.NewMemoryRecords()
			user := testutil.NewTestUser()
			if tt.group {
				owner, _ := primitive.ObjectIDFromHex(user.ID)
				g := records.PutGroup(owner, models.Group{GroupName: "Grupo Aurora"})
				var ms []models.Member
				for i := 0; i < tt.members; i++ {
					ms = append(ms, testutil.SampleMember(i))
				}
				records.PutMembers(g.ID, ms)
			}
			flow := registration.New(records, zap.NewNop(), nil)

			rec := httptest.NewRecorder()
			req := testutil.NewAuthenticatedRequest(http.MethodGet, tt.want.Path(), user)
			_, owner, ok := stageguard.Guard(rec, req, flow, sm, uierrors.NewErrorLogger(zap.NewNop()), tt.want)

			if ok != tt.allowed {
				t.Fatalf("ok = %v, want %v", ok, tt.allowed)
			}
			if owner != user.ID {
				t.Errorf("owner = %q, want %q", owner, user.ID)
			}
			if !tt.allowed {
				testutil.AssertRedirect(t, rec, tt.location)
			}
		})
	}
}

func TestGuard_Anonymous(t *testing.T) {
	sm, _ := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", 0, false, zap.NewNop())
	flow := registration.New(testutil.NewMemoryRecords(), zap.NewNop(), nil)

	rec := httptest.NewRecorder()
	_, _, ok := stageguard.Guard(rec, httptest.NewRequest(http.MethodGet, "/members", nil), flow, sm, uierrors.NewErrorLogger(zap.NewNop()), registration.StageMembers)

	if ok {
		t.Fatal("anonymous request passed the guard")
	}
	testutil.AssertRedirect(t, rec, "/login")
}

func TestRedirect_HTMX(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/members", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()

	stageguard.Redirect(rec, req, "/view")

	if got := rec.Header().Get("HX-Redirect"); got != "/view" {
		t.Errorf("HX-Redirect = %q, want /view", got)
	}
}
