// Package policy decides who may do what to employees and tasks.
package policy

import (
	"slices"

	"github.com/Oniqq60/staff_control/internal/apperr"
	"github.com/Oniqq60/staff_control/internal/auth"
)

type Resource string

const (
	Employee Resource = "employee"
	Task     Resource = "task"
)

type Action string

const (
	Create Action = "create"
	List   Action = "list"
	Read   Action = "read"
	Update Action = "update"
	Delete Action = "delete"
)

// Subject describes the record being acted on. OwnerUserIDs holds the
// users that own it: the employee's user, or a task's assignee and creator.
type Subject struct {
	OwnerUserIDs []int64
}

func Owners(ids ...int64) Subject {
	return Subject{OwnerUserIDs: ids}
}

func (s Subject) OwnedBy(userID int64) bool {
	return slices.Contains(s.OwnerUserIDs, userID)
}

type Rule struct {
	Resource Resource
	Action   Action
	Allow    func(id auth.Identity, s Subject) bool
	Deny     string
}

type key struct {
	resource Resource
	action   Action
}

type Gate struct {
	rules map[key]Rule
}

func NewGate(rules []Rule) *Gate {
	g := &Gate{rules: make(map[key]Rule, len(rules))}
	for _, r := range rules {
		g.rules[key{r.Resource, r.Action}] = r
	}
	return g
}

// Authorize returns an authorization error when no rule allows the call.
// A pair without a rule is denied.
func (g *Gate) Authorize(id auth.Identity, resource Resource, action Action, s Subject) error {
	rule, ok := g.rules[key{resource, action}]
	if !ok {
		return apperr.Authorization("Forbidden")
	}
	if rule.Allow(id, s) {
		return nil
	}
	msg := rule.Deny
	if msg == "" {
		msg = "Forbidden"
	}
	return apperr.Authorization(msg)
}

func anyone(auth.Identity, Subject) bool { return true }

func admin(id auth.Identity, _ Subject) bool { return id.IsAdmin() }

func adminOrOwner(id auth.Identity, s Subject) bool {
	return id.IsAdmin() || s.OwnedBy(id.ID)
}

// owner ignores the role: admins see only tasks they created or were assigned.
func owner(id auth.Identity, s Subject) bool {
	return s.OwnedBy(id.ID)
}

func DefaultRules() []Rule {
	return []Rule{
		{Resource: Employee, Action: Create, Allow: admin, Deny: "Forbidden: Only administrators can create employees"},
		{Resource: Employee, Action: List, Allow: anyone},
		{Resource: Employee, Action: Read, Allow: anyone},
		{Resource: Employee, Action: Update, Allow: adminOrOwner, Deny: "Forbidden: You can only update your own employee record"},
		{Resource: Employee, Action: Delete, Allow: admin, Deny: "Forbidden: Only administrators can delete employees"},

		{Resource: Task, Action: Create, Allow: anyone},
		{Resource: Task, Action: List, Allow: anyone},
		{Resource: Task, Action: Read, Allow: owner, Deny: "Forbidden"},
		{Resource: Task, Action: Update, Allow: owner, Deny: "Forbidden"},
		{Resource: Task, Action: Delete, Allow: owner, Deny: "Forbidden"},
	}
}
