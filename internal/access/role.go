// Package access holds the workspace role enumeration and the pure
// decision function that maps (membership, super-admin flag, action) to
// allow or deny. Every role integer in the service is read from here.
package access

import "fmt"

// Role is the integer access level of one workspace membership.
type Role int

const (
	RoleSuperAdmin  Role = 1
	RoleAdmin       Role = 2
	RoleManager     Role = 3
	RoleContentHead Role = 4
	RoleAssignee    Role = 5
	RoleClient      Role = 6
)

func (r Role) Valid() bool {
	return r >= RoleSuperAdmin && r <= RoleClient
}

func (r Role) String() string {
	switch r {
	case RoleSuperAdmin:
		return "SUPER ADMIN"
	case RoleAdmin:
		return "ADMIN"
	case RoleManager:
		return "MANAGER"
	case RoleContentHead:
		return "CONTENT HEAD"
	case RoleAssignee:
		return "ASSIGNEE"
	case RoleClient:
		return "CLIENT"
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// Bucket names the role lists accepted by workspace creation.
type Bucket string

const (
	BucketAdmins       Bucket = "admins"
	BucketManagers     Bucket = "managers"
	BucketContentHeads Bucket = "contentHeads"
	BucketAssignees    Bucket = "assignees"
	BucketClients      Bucket = "clients"
)

// Buckets lists the role buckets in insertion order.
var Buckets = []Bucket{BucketAdmins, BucketManagers, BucketContentHeads, BucketAssignees, BucketClients}

func (b Bucket) Role() Role {
	switch b {
	case BucketAdmins:
		return RoleAdmin
	case BucketManagers:
		return RoleManager
	case BucketContentHeads:
		return RoleContentHead
	case BucketAssignees:
		return RoleAssignee
	case BucketClients:
		return RoleClient
	}
	return 0
}

// Membership is a role that may be absent. Absence ("not a member") is
// distinct from RoleClient.
type Membership struct {
	Role   Role
	Member bool
}

func None() Membership { return Membership{} }

func Of(r Role) Membership { return Membership{Role: r, Member: true} }

func (m Membership) Is(r Role) bool {
	return m.Member && m.Role == r
}

func (m Membership) String() string {
	if !m.Member {
		return "none"
	}
	return m.Role.String()
}
