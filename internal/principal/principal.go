// Package principal defines the two narrow ports that separate policy
// from mechanism in the execution engine (§4.G): resolving an opaque
// caller token to a user id, and deciding whether a principal may perform
// an action against a resource.
package principal

import "context"

// Action is one of the mutating operations an AuthorizationProvider may
// be asked to authorize.
type Action int

const (
	ActionCreate Action = iota
	ActionUpdate
	ActionDelete
)

// Resource names the entity kind an authorization decision is about.
type Resource int

const (
	ResourceUser Resource = iota
	ResourceProject
	ResourceIssue
	ResourceComment
)

// Decision is the outcome of an authorization check.
type Decision int

const (
	Authorized Decision = iota
	Denied
)

// UserProvider maps an opaque caller token to a principal id. The token
// is typically a CLI flag or an API credential; this port exists so the
// engine never hard-codes how that resolution happens.
type UserProvider interface {
	GetUser(ctx context.Context, token string) (string, error)
}

// AuthorizationProvider decides whether principal may perform action
// against resource. context carries resource-specific facts (e.g. a
// comment's author) a provider may need to implement owner-only policies.
type AuthorizationProvider interface {
	CheckAuthorization(ctx context.Context, principalID string, action Action, resource Resource, context map[string]any) (Decision, error)
}

// SingleUser is the default UserProvider and AuthorizationProvider: every
// token resolves to the same configured id, and only that id is ever
// authorized (§4.G "default single-user provider").
type SingleUser struct {
	ID string
}

// GetUser ignores token and always returns the configured id.
func (s SingleUser) GetUser(ctx context.Context, token string) (string, error) {
	return s.ID, nil
}

// CheckAuthorization authorizes iff principalID equals the configured id.
func (s SingleUser) CheckAuthorization(ctx context.Context, principalID string, action Action, resource Resource, fields map[string]any) (Decision, error) {
	if principalID == s.ID {
		return Authorized, nil
	}
	return Denied, nil
}

// MapUserProvider resolves tokens through a static lookup table, falling
// back to Default when the token is unmapped or empty.
type MapUserProvider struct {
	Default string
	Tokens  map[string]string
}

// GetUser looks token up in Tokens, falling back to Default.
func (m MapUserProvider) GetUser(ctx context.Context, token string) (string, error) {
	if token == "" {
		return m.Default, nil
	}
	if id, ok := m.Tokens[token]; ok {
		return id, nil
	}
	return m.Default, nil
}

// OwnerOnlyAuthorization authorizes Update/Delete on a Comment iff the
// context's "owner" field equals the principal; every other combination
// of action and resource is denied. This is a
// stricter alternative to SingleUser, independent of the engine's own
// redundant author-equality check on comment writes (§9).
type OwnerOnlyAuthorization struct{}

// CheckAuthorization authorizes a Comment write iff fields["owner"]
// equals principalID.
func (OwnerOnlyAuthorization) CheckAuthorization(ctx context.Context, principalID string, action Action, resource Resource, fields map[string]any) (Decision, error) {
	if resource != ResourceComment {
		return Denied, nil
	}
	if action != ActionUpdate && action != ActionDelete {
		return Denied, nil
	}
	owner, _ := fields["owner"].(string)
	if owner == principalID {
		return Authorized, nil
	}
	return Denied, nil
}
