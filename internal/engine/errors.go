package engine

import "fmt"

// BackendError is the single error union the engine ever returns, mirroring
// parse errors' structured variants on the execution side (§7).
type BackendError interface {
	error
	backendError()
}

type base struct{ msg string }

func (b base) Error() string   { return b.msg }
func (b base) backendError()   {}

// PermissionDeniedError reports that the authorization provider refused
// the operation, or that the principal is not the comment's author.
type PermissionDeniedError struct{ base }

func NewPermissionDenied(msg string) *PermissionDeniedError {
	return &PermissionDeniedError{base{msg: fmt.Sprintf("permission denied: %s", msg)}}
}

// ProjectAlreadyExistsError reports CREATE PROJECT on an id already taken.
type ProjectAlreadyExistsError struct {
	base
	ID string
}

func NewProjectAlreadyExists(id string) *ProjectAlreadyExistsError {
	return &ProjectAlreadyExistsError{base{msg: fmt.Sprintf("project already exists: %s", id)}, id}
}

// UserNotFoundError reports a resolved owner/assignee id with no user record.
type UserNotFoundError struct {
	base
	ID string
}

func NewUserNotFound(id string) *UserNotFoundError {
	return &UserNotFoundError{base{msg: fmt.Sprintf("user not found: %s", id)}, id}
}

// ItemNotFoundError reports a missing project/issue/comment/user.
type ItemNotFoundError struct {
	base
	Kind string
	ID   string
}

func NewItemNotFound(kind, id string) *ItemNotFoundError {
	return &ItemNotFoundError{base{msg: fmt.Sprintf("%s not found: %s", kind, id)}, kind, id}
}

// IssueAlreadyClosedError reports CLOSE on an issue already Closed.
type IssueAlreadyClosedError struct {
	base
	ID     string
	Reason string
}

func NewIssueAlreadyClosed(id, reason string) *IssueAlreadyClosedError {
	return &IssueAlreadyClosedError{base{msg: fmt.Sprintf("issue already closed: %s (%s)", id, reason)}, id, reason}
}

// FieldNotFoundError reports UPDATE against an undeclared field name (I6).
type FieldNotFoundError struct {
	base
	Name string
}

func NewFieldNotFound(name string) *FieldNotFoundError {
	return &FieldNotFoundError{base{msg: fmt.Sprintf("field not found: %s", name)}, name}
}

// InvalidIdError reports an id that is syntactically well-formed but
// semantically wrong (e.g. an issue id not matching `<project>#<n>`).
type InvalidIdError struct {
	base
	Raw string
}

func NewInvalidId(raw string) *InvalidIdError {
	return &InvalidIdError{base{msg: fmt.Sprintf("invalid id: %s", raw)}, raw}
}

// NotImplementedError reports a recognized but unimplemented operation.
type NotImplementedError struct{ base }

func NewNotImplemented(msg string) *NotImplementedError {
	return &NotImplementedError{base{msg: fmt.Sprintf("not implemented: %s", msg)}}
}

// NotSupportedError reports an operation the engine deliberately never
// implements (e.g. CREATE USER, SELECT FROM users).
type NotSupportedError struct{ base }

func NewNotSupported(msg string) *NotSupportedError {
	return &NotSupportedError{base{msg: fmt.Sprintf("not supported: %s", msg)}}
}

// ImplementationSpecificError wraps a lower-level store failure.
type ImplementationSpecificError struct {
	base
	Cause error
}

func NewImplementationSpecific(cause error) *ImplementationSpecificError {
	return &ImplementationSpecificError{base{msg: fmt.Sprintf("storage error: %v", cause)}, cause}
}

func (e *ImplementationSpecificError) Unwrap() error { return e.Cause }
