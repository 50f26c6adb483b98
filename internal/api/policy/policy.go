// Package policy centralizes the per-resource authorization rules as a
// declarative table of (resource, action) -> predicate, evaluated inside
// handlers immediately before a mutating operation. Authorization is
// ownership-based with a coarse level gate on creation; there is no general
// RBAC engine.
package policy

import (
	"github.com/google/uuid"
	"github.com/teamtrackr/teamtrackr/internal/database/models"
)

// Identity is the authenticated caller, exactly the claims carried by the
// bearer token.
type Identity struct {
	UserID   uuid.UUID
	UserType string
	Level    string
}

// Target carries the ownership facts a predicate may consult. Fields that do
// not apply to a given resource are left zero.
type Target struct {
	CreatedBy        uuid.UUID
	AssignedTo       []uuid.UUID
	ProjectCreatedBy uuid.UUID // parent project owner; tasks only
	UserID           uuid.UUID // target user; user deletes only
}

type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

type Resource string

const (
	ResourceProject Resource = "project"
	ResourceTask    Resource = "task"
	ResourceComment Resource = "comment"
	ResourceUser    Resource = "user"
)

type Predicate func(id Identity, t Target) bool

var rules = map[Resource]map[Action]Predicate{
	ResourceProject: {
		ActionCreate: seniorOrCEO,
		ActionUpdate: isCreator,
		ActionDelete: isCreator,
	},
	ResourceTask: {
		ActionCreate: seniorOrCEO,
		// The parent project's owner may rework any task under it, but may
		// not delete tasks they neither created nor are assigned to.
		ActionUpdate: anyOf(isCreator, isAssigned, isProjectCreator),
		ActionDelete: anyOf(isCreator, isAssigned),
	},
	ResourceComment: {
		ActionUpdate: isCreator,
		ActionDelete: isCreator,
	},
	ResourceUser: {
		ActionDelete: isSelf,
	},
}

// Allowed evaluates the rule registered for (resource, action). Unregistered
// pairs are denied.
func Allowed(id Identity, action Action, resource Resource, t Target) bool {
	actions, ok := rules[resource]
	if !ok {
		return false
	}
	rule, ok := actions[action]
	if !ok {
		return false
	}
	return rule(id, t)
}

func seniorOrCEO(id Identity, _ Target) bool {
	if id.UserType != models.UserTypeOrganization && id.UserType != models.UserTypeEmployee {
		return false
	}
	return id.Level == models.LevelCEO || id.Level == models.LevelSenior
}

func isCreator(id Identity, t Target) bool {
	return id.UserID != uuid.Nil && id.UserID == t.CreatedBy
}

func isAssigned(id Identity, t Target) bool {
	for _, member := range t.AssignedTo {
		if member == id.UserID {
			return true
		}
	}
	return false
}

func isProjectCreator(id Identity, t Target) bool {
	return id.UserID != uuid.Nil && id.UserID == t.ProjectCreatedBy
}

func isSelf(id Identity, t Target) bool {
	return id.UserID != uuid.Nil && id.UserID == t.UserID
}

func anyOf(preds ...Predicate) Predicate {
	return func(id Identity, t Target) bool {
		for _, p := range preds {
			if p(id, t) {
				return true
			}
		}
		return false
	}
}
