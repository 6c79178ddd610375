// Package registration holds the group/member registration workflow: the
// field schemas, the mapping between form values and stored records, and the
// state machine that decides which page an account belongs on.
package registration

// Stage is a page of the registration flow.
type Stage int

const (
	StageLogin Stage = iota
	StageGroup
	StageMembers
	StageView
)

// Path returns the URL path that serves the stage.
func (s Stage) Path() string {
	switch s {
	case StageGroup:
		return "/group"
	case StageMembers:
		return "/members"
	case StageView:
		return "/view"
	default:
		return "/login"
	}
}

func (s Stage) String() string {
	switch s {
	case StageGroup:
		return "group"
	case StageMembers:
		return "members"
	case StageView:
		return "view"
	default:
		return "login"
	}
}

// State is how far an account has progressed.
type State int

const (
	Unauthenticated State = iota
	NoGroup
	HasGroupNoMembers
	HasGroupAndMembers
)

func (s State) String() string {
	switch s {
	case NoGroup:
		return "no_group"
	case HasGroupNoMembers:
		return "has_group_no_members"
	case HasGroupAndMembers:
		return "has_group_and_members"
	default:
		return "unauthenticated"
	}
}

// Stage maps a state to the page that state lands on.
func (s State) Stage() Stage {
	switch s {
	case NoGroup:
		return StageGroup
	case HasGroupNoMembers:
		return StageMembers
	case HasGroupAndMembers:
		return StageView
	default:
		return StageLogin
	}
}

// allows reports whether an account in state s may open stage want.
// The group page is always reachable once signed in.
func (s State) allows(want Stage) bool {
	switch want {
	case StageLogin:
		return s == Unauthenticated
	case StageGroup:
		return s >= NoGroup
	case StageMembers:
		return s >= HasGroupNoMembers
	case StageView:
		return s == HasGroupAndMembers
	}
	return false
}
