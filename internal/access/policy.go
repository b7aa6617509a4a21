package access

type Action int

const (
	ActionCreateWorkspace Action = iota + 1
	ActionCreateTask
	ActionAssignUsers
	ActionEditTask
	ActionClientReview
	ActionViewTask
	ActionViewWorkspace
	ActionListUsers
	ActionCheckSuperAdmin
)

func (a Action) String() string {
	switch a {
	case ActionCreateWorkspace:
		return "create workspace"
	case ActionCreateTask:
		return "create task"
	case ActionAssignUsers:
		return "assign users"
	case ActionEditTask:
		return "edit task"
	case ActionClientReview:
		return "client review"
	case ActionViewTask:
		return "view task"
	case ActionViewWorkspace:
		return "view workspace"
	case ActionListUsers:
		return "list users"
	case ActionCheckSuperAdmin:
		return "check super admin"
	}
	return "unknown action"
}

type Decision bool

const (
	Deny  Decision = false
	Allow Decision = true
)

// Policy decides role-gated actions. The zero value is the strict policy.
type Policy struct {
	// AllowAssigneeCreate admits role 5 to ActionCreateTask. Whether
	// assignees may create tasks is a product decision, so it is a toggle.
	AllowAssigneeCreate bool
}

// Decide is pure: it never touches storage. Callers resolve the
// membership for the workspace the action targets and pass it in.
func (p Policy) Decide(m Membership, isSuperAdmin bool, a Action) Decision {
	switch a {
	case ActionCreateWorkspace:
		return Allow

	case ActionCreateTask:
		if !m.Member {
			return Deny
		}
		switch m.Role {
		case RoleAdmin, RoleManager, RoleContentHead:
			return Allow
		case RoleAssignee:
			return Decision(p.AllowAssigneeCreate)
		}
		return Deny

	case ActionAssignUsers:
		if !m.Member {
			return Deny
		}
		switch m.Role {
		case RoleSuperAdmin, RoleAdmin, RoleManager, RoleContentHead:
			return Allow
		}
		return Deny

	case ActionEditTask:
		return Decision(m.Member && m.Role.Valid() && m.Role != RoleClient)

	case ActionClientReview:
		return Decision(m.Is(RoleClient))

	case ActionViewTask, ActionViewWorkspace:
		return Decision(isSuperAdmin || m.Member)

	case ActionListUsers, ActionCheckSuperAdmin:
		return Decision(isSuperAdmin)
	}
	return Deny
}

// Allowed is shorthand for Decide(...) == Allow.
func (p Policy) Allowed(m Membership, isSuperAdmin bool, a Action) bool {
	return p.Decide(m, isSuperAdmin, a) == Allow
}

// PatchScope says which groups of task fields an update changes. Fields
// resubmitted with their stored value do not count.
type PatchScope struct {
	CoreFields   bool // name, priority, category, dates, taskstatus, captions, links, files
	ClientStatus bool
	Assignees    bool
}

// DecidePatch checks every group a task update touches and returns the
// first action that is denied, so callers can report what was refused.
// A patch that changes nothing is allowed for anyone who may edit or review the task.
func (p Policy) DecidePatch(m Membership, scope PatchScope) (Decision, Action) {
	if scope.CoreFields && !p.Allowed(m, false, ActionEditTask) {
		return Deny, ActionEditTask
	}
	if scope.Assignees && !p.Allowed(m, false, ActionAssignUsers) {
		return Deny, ActionAssignUsers
	}
	if scope.ClientStatus && !p.Allowed(m, false, ActionClientReview) {
		return Deny, ActionClientReview
	}
	if !scope.CoreFields && !scope.Assignees && !scope.ClientStatus {
		if !p.Allowed(m, false, ActionEditTask) && !p.Allowed(m, false, ActionClientReview) {
			return Deny, ActionEditTask
		}
	}
	return Allow, 0
}
