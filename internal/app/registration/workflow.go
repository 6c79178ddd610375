package registration

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/caiosarava/cadastramento/internal/app/system/metrics"
	"github.com/caiosarava/cadastramento/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Records is the record store the workflow reads and writes.
type Records interface {
	// FindGroupByOwner returns nil, nil when the owner has no group.
	FindGroupByOwner(ctx context.Context, ownerID primitive.ObjectID) (*models.Group, error)
	UpsertGroup(ctx context.Context, ownerID primitive.ObjectID, g models.Group) (models.Group, error)
	// FindMembers returns members in creation order.
	FindMembers(ctx context.Context, groupID primitive.ObjectID) ([]models.Member, error)
	// ReplaceMembers swaps the whole member set of a group. An empty slice
	// leaves the group with no members.
	ReplaceMembers(ctx context.Context, groupID primitive.ObjectID, members []models.Member) error
}

// Session holds the current group id for the browser session.
type Session interface {
	Get() (string, bool)
	Set(id string) error
	Clear() error
}

var (
	ErrUnauthenticated = errors.New("registration: not signed in")
	ErrNoGroup         = errors.New("registration: no group registered")
)

// RemoteError wraps a record store failure. Op names the call.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string { return "records " + e.Op + ": " + e.Err.Error() }
func (e *RemoteError) Unwrap() error { return e.Err }

// InvalidMemberError reports the first member row that failed validation.
// Index is zero-based over the submitted rows.
type InvalidMemberError struct {
	Index int
	Name  string
	Err   error
}

func (e *InvalidMemberError) Error() string {
	return fmt.Sprintf("member %d (%s): %v", e.Index+1, e.Name, e.Err)
}
func (e *InvalidMemberError) Unwrap() error { return e.Err }

// Outcome is what the workflow learned about an account.
type Outcome struct {
	State   State
	Group   *models.Group
	Members []models.Member
}

// Next is the stage the account should be sent to.
func (o Outcome) Next() Stage { return o.State.Stage() }

// Decision is the result of a page guard.
type Decision struct {
	Outcome
	Allowed  bool
	Redirect Stage
}

// Workflow is stateless and safe for concurrent use.
type Workflow struct {
	rec Records
	log *zap.Logger
	m   *metrics.Metrics
}

// New builds a Workflow. A nil m records nothing observable.
func New(rec Records, logger *zap.Logger, m *metrics.Metrics) *Workflow {
	if m == nil {
		m = metrics.NewNop()
	}
	return &Workflow{rec: rec, log: logger, m: m}
}

// Resolve works out where an account stands. On success the group id, if
// any, is written to sess.
func (w *Workflow) Resolve(ctx context.Context, ownerID string, sess Session) (Outcome, error) {
	oid, ok := w.owner(ownerID)
	if !ok {
		return Outcome{State: Unauthenticated}, nil
	}
	g, err := w.rec.FindGroupByOwner(ctx, oid)
	if err != nil {
		return Outcome{}, w.remote("find_group", err)
	}
	if g == nil {
		return Outcome{State: NoGroup}, nil
	}
	return w.withMembers(ctx, g, sess)
}

// Ensure guards a stage page. When the account may not open want, the
// decision carries the stage to redirect to instead.
func (w *Workflow) Ensure(ctx context.Context, ownerID string, want Stage, sess Session) (Decision, error) {
	out, err := w.Resolve(ctx, ownerID, sess)
	if err != nil {
		return Decision{}, err
	}
	if out.State.allows(want) {
		return Decision{Outcome: out, Allowed: true, Redirect: want}, nil
	}
	return Decision{Outcome: out, Redirect: out.Next()}, nil
}

// SubmitGroup validates the group form and saves it. Validation errors are
// returned as-is and nothing is written.
func (w *Workflow) SubmitGroup(ctx context.Context, ownerID string, values map[string]string, sess Session) (Outcome, error) {
	oid, ok := w.owner(ownerID)
	if !ok {
		return Outcome{}, ErrUnauthenticated
	}

	clean, err := GroupSchema.Validate(GroupSchema.Mask(values))
	if err != nil {
		w.m.ValidationFailures.WithLabelValues(GroupSchema.Name).Inc()
		return Outcome{}, err
	}

	g, err := w.rec.UpsertGroup(ctx, oid, GroupFromValues(clean))
	if err != nil {
		return Outcome{}, w.remote("upsert_group", err)
	}
	w.m.GroupsSaved.Inc()
	w.log.Info("group saved", zap.String("owner_id", ownerID), zap.String("group_id", g.ID.Hex()))

	return w.withMembers(ctx, &g, sess)
}

// SubmitMembers validates every row and replaces the group's member set.
// Rows left completely blank are skipped. The first invalid row aborts the
// whole batch.
func (w *Workflow) SubmitMembers(ctx context.Context, ownerID string, rows []map[string]string, sess Session) (Outcome, error) {
	oid, ok := w.owner(ownerID)
	if !ok {
		return Outcome{}, ErrUnauthenticated
	}

	// The stored group is authoritative; the session copy is only refreshed.
	g, err := w.rec.FindGroupByOwner(ctx, oid)
	if err != nil {
		return Outcome{}, w.remote("find_group", err)
	}
	if g == nil {
		return Outcome{State: NoGroup}, ErrNoGroup
	}
	if sess != nil {
		if cur, ok := sess.Get(); ok && cur != g.ID.Hex() {
			w.log.Debug("session group id out of date", zap.String("session", cur), zap.String("stored", g.ID.Hex()))
		}
	}
	w.remember(sess, g.ID)

	members := make([]models.Member, 0, len(rows))
	for i, row := range rows {
		if blankRow(row) {
			continue
		}
		masked := MemberSchema.Mask(row)
		clean, err := MemberSchema.Validate(masked)
		if err != nil {
			w.m.ValidationFailures.WithLabelValues(MemberSchema.Name).Inc()
			return Outcome{}, &InvalidMemberError{Index: i, Name: masked["name"], Err: err}
		}
		m := MemberFromValues(clean)
		m.Position = len(members)
		members = append(members, m)
	}

	if err := w.rec.ReplaceMembers(ctx, g.ID, members); err != nil {
		return Outcome{}, w.remote("replace_members", err)
	}
	w.m.MemberSetsReplaced.Inc()
	w.m.MembersWritten.Add(float64(len(members)))
	w.log.Info("members replaced", zap.String("group_id", g.ID.Hex()), zap.Int("count", len(members)))

	state := HasGroupAndMembers
	if len(members) == 0 {
		state = HasGroupNoMembers
	}
	return Outcome{State: state, Group: g, Members: members}, nil
}

func (w *Workflow) withMembers(ctx context.Context, g *models.Group, sess Session) (Outcome, error) {
	members, err := w.rec.FindMembers(ctx, g.ID)
	if err != nil {
		return Outcome{}, w.remote("find_members", err)
	}
	w.remember(sess, g.ID)
	state := HasGroupAndMembers
	if len(members) == 0 {
		state = HasGroupNoMembers
	}
	return Outcome{State: state, Group: g, Members: members}, nil
}

func (w *Workflow) owner(ownerID string) (primitive.ObjectID, bool) {
	if ownerID == "" {
		return primitive.NilObjectID, false
	}
	oid, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		w.log.Warn("bad owner id in session", zap.String("owner_id", ownerID))
		return primitive.NilObjectID, false
	}
	return oid, true
}

// remember stores the group id. A failed cookie write is logged; the next
// page load resolves the id again.
func (w *Workflow) remember(sess Session, id primitive.ObjectID) {
	if sess == nil {
		return
	}
	if err := sess.Set(id.Hex()); err != nil {
		w.log.Warn("could not store group id in session", zap.Error(err))
	}
}

func (w *Workflow) remote(op string, err error) error {
	w.m.RemoteErrors.WithLabelValues(op).Inc()
	w.log.Error("records call failed", zap.String("op", op), zap.Error(err))
	return &RemoteError{Op: op, Err: err}
}

// blankRow reports whether a member row carries nothing but defaults.
func blankRow(row map[string]string) bool {
	for _, f := range MemberSchema.Fields {
		v := strings.TrimSpace(row[f.Name])
		if v == "" || (f.Kind == KindYesNo && v == No) {
			continue
		}
		return false
	}
	return true
}

// Describe turns any workflow error into a message for the page banner.
func Describe(err error) string {
	var (
		member *InvalidMemberError
		remote *RemoteError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &member):
		name := member.Name
		if name == "" {
			name = "unnamed"
		}
		return fmt.Sprintf("Member %d (%s): %s", member.Index+1, name, MemberSchema.Describe(member.Err))
	case errors.As(err, &remote):
		return "We could not reach the records service. Please try again."
	case errors.Is(err, ErrNoGroup):
		return "Register the group before adding members."
	case errors.Is(err, ErrUnauthenticated):
		return "Please sign in again."
	default:
		return GroupSchema.Describe(err)
	}
}
