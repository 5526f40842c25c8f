// Package record defines the entity records IssueCraft persists — users,
// projects, issues, and comments — along with the schema-known field sets
// used to validate partial updates (I6) and the generic field-map view the
// filter evaluator and UPDATE statements operate against.
package record

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kind identifies an entity's record type.
type Kind int

const (
	KindUser Kind = iota
	KindProject
	KindIssue
	KindComment
)

func (k Kind) String() string {
	switch k {
	case KindUser:
		return "User"
	case KindProject:
		return "Project"
	case KindIssue:
		return "Issue"
	case KindComment:
		return "Comment"
	default:
		return "Unknown"
	}
}

// Table returns the storage table name backing this entity kind.
func (k Kind) Table() string {
	switch k {
	case KindUser:
		return "meta"
	case KindProject:
		return "projects"
	case KindIssue:
		return "issues"
	case KindComment:
		return "comments"
	default:
		return ""
	}
}

// User is a principal. The query language never creates users (§3
// Lifecycle) — they are populated out of band by a principal provider.
type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Display string `json:"display,omitempty"`
	Email   string `json:"email,omitempty"`
}

// Project groups issues under a single owner.
type Project struct {
	ID          string `json:"id"`
	Description string `json:"description,omitempty"`
	Owner       string `json:"owner"`
	Display     string `json:"display,omitempty"`
}

// IssueKind is the kind of work an issue represents.
type IssueKind string

const (
	IssueKindEpic        IssueKind = "Epic"
	IssueKindImprovement IssueKind = "Improvement"
	IssueKindBug         IssueKind = "Bug"
	IssueKindTask        IssueKind = "Task"
)

// IsValid reports whether k is one of the declared issue kinds.
func (k IssueKind) IsValid() bool {
	switch k {
	case IssueKindEpic, IssueKindImprovement, IssueKindBug, IssueKindTask:
		return true
	default:
		return false
	}
}

// Priority ranks an issue's urgency. The zero value means "absent" — not
// every issue carries a priority.
type Priority string

const (
	PriorityCritical Priority = "Critical"
	PriorityHigh     Priority = "High"
	PriorityMedium   Priority = "Medium"
	PriorityLow      Priority = "Low"
)

// IsValid reports whether p is one of the declared priorities.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// CloseReason explains why a Closed issue was closed.
type CloseReason string

const (
	CloseReasonDone      CloseReason = "Done"
	CloseReasonDuplicate CloseReason = "Duplicate"
	CloseReasonWontFix   CloseReason = "WontFix"
)

// IsValid reports whether r is one of the declared close reasons.
func (r CloseReason) IsValid() bool {
	switch r {
	case CloseReasonDone, CloseReasonDuplicate, CloseReasonWontFix:
		return true
	default:
		return false
	}
}

// StatusKind distinguishes the open-family states from Closed, which
// additionally carries a reason.
type StatusKind string

const (
	StatusOpen     StatusKind = "Open"
	StatusAssigned StatusKind = "Assigned"
	StatusBlocked  StatusKind = "Blocked"
	StatusClosed   StatusKind = "Closed"
)

// Status is the sum type `Open | Assigned | Blocked | Closed{reason}`
// described in spec.md §3. Reason is only meaningful when Kind ==
// StatusClosed, and defaults to CloseReasonDone there.
type Status struct {
	Kind   StatusKind  `json:"kind"`
	Reason CloseReason `json:"reason,omitempty"`
}

// IsClosed reports whether the status is the Closed variant.
func (s Status) IsClosed() bool { return s.Kind == StatusClosed }

// String renders the status the way the query language spells it back,
// e.g. "Open" or "Closed(WontFix)".
func (s Status) String() string {
	if s.Kind == StatusClosed {
		reason := s.Reason
		if reason == "" {
			reason = CloseReasonDone
		}
		return fmt.Sprintf("Closed(%s)", reason)
	}
	return string(s.Kind)
}

// MarshalJSON renders Status as a plain string for open states and as
// "Closed(<reason>)" for the closed state, keeping the generic field-map
// view (which treats every field as a scalar) well-defined.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts both the "Closed(reason)" rendering and a bare
// "Closed" (defaulting reason to Done).
func (s *Status) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseStatus parses the String() rendering of a Status back into a value.
func ParseStatus(s string) (Status, error) {
	switch {
	case s == string(StatusOpen), s == string(StatusAssigned), s == string(StatusBlocked):
		return Status{Kind: StatusKind(s)}, nil
	case s == string(StatusClosed):
		return Status{Kind: StatusClosed, Reason: CloseReasonDone}, nil
	case len(s) > len("Closed(") && s[:len("Closed(")] == "Closed(" && s[len(s)-1] == ')':
		reason := CloseReason(s[len("Closed(") : len(s)-1])
		if !reason.IsValid() {
			return Status{}, fmt.Errorf("invalid close reason %q", reason)
		}
		return Status{Kind: StatusClosed, Reason: reason}, nil
	default:
		return Status{}, fmt.Errorf("invalid status %q", s)
	}
}

// Issue belongs to exactly one project and is addressed by the composite
// id "<project>#<n>".
type Issue struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Kind        IssueKind `json:"kind"`
	Description string    `json:"description,omitempty"`
	Status      Status    `json:"status"`
	Project     string    `json:"project"`
	Priority    Priority  `json:"priority,omitempty"`
	Assignee    string    `json:"assignee,omitempty"`
}

// Comment is a timestamped note attached to an issue.
type Comment struct {
	ID        string    `json:"id"`
	Issue     string    `json:"issue"`
	CreatedAt time.Time `json:"created_at"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
}

// userFields, projectFields, issueFields, and commentFields are the
// schema-known attribute sets consulted by UPDATE (I6) and by §9's "Schema
// discovery" note — declared attributes of each record type, excluding the
// id (ids never change, per §3 Lifecycle).
var (
	userFields    = map[string]bool{"name": true, "display": true, "email": true}
	projectFields = map[string]bool{"description": true, "owner": true, "display": true}
	issueFields   = map[string]bool{
		"title": true, "kind": true, "description": true, "status": true,
		"project": true, "priority": true, "assignee": true,
	}
	commentFields = map[string]bool{
		"issue": true, "created_at": true, "content": true, "author": true,
	}
)

// FieldsOf returns the declared attribute set of the given entity kind.
// The returned map must not be mutated by callers.
func FieldsOf(kind Kind) map[string]bool {
	switch kind {
	case KindUser:
		return userFields
	case KindProject:
		return projectFields
	case KindIssue:
		return issueFields
	case KindComment:
		return commentFields
	default:
		return nil
	}
}

// HasField reports whether name is a declared attribute of kind.
func HasField(kind Kind, name string) bool {
	return FieldsOf(kind)[name]
}
