package domain

import "errors"

// Kind is the machine-readable error category returned to API clients.
type Kind string

const (
	KindValidation          Kind = "VALIDATION_ERROR"
	KindNotFound            Kind = "NOT_FOUND"
	KindAlreadyExists       Kind = "ALREADY_EXISTS"
	KindAuthorizationDenied Kind = "AUTHORIZATION_DENIED"
	KindNotAMember          Kind = "NOT_A_MEMBER"
	KindUnauthenticated     Kind = "UNAUTHENTICATED"
	KindRoleSeedMissing     Kind = "ROLE_SEED_MISSING"
	KindInternal            Kind = "INTERNAL"
)

// Error is a typed domain failure. Sentinels below are compared with
// errors.Is; ad-hoc validation errors are built with NewValidationError.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

// NewValidationError reports malformed or missing caller input.
func NewValidationError(msg string) *Error {
	return newError(KindValidation, string(KindValidation), msg)
}

var (
	ErrUserNotFound      = newError(KindNotFound, "USER_NOT_FOUND", "user not found")
	ErrWorkspaceNotFound = newError(KindNotFound, "WORKSPACE_NOT_FOUND", "workspace not found")
	ErrInviteNotFound    = newError(KindNotFound, "INVITE_NOT_FOUND", "invalid invite code or workspace not found")
	ErrProjectNotFound   = newError(KindNotFound, "PROJECT_NOT_FOUND", "project not found or does not belong to this workspace")
	ErrTaskNotFound      = newError(KindNotFound, "TASK_NOT_FOUND", "task not found or does not belong to this project")
	ErrMemberNotFound    = newError(KindNotFound, "MEMBER_NOT_FOUND", "member not found in this workspace")
	ErrRoleNotFound      = newError(KindNotFound, "ROLE_NOT_FOUND", "role not found")
	ErrAccountNotFound   = newError(KindNotFound, "ACCOUNT_NOT_FOUND", "account not found")

	ErrEmailTaken      = newError(KindAlreadyExists, "EMAIL_TAKEN", "email already exists")
	ErrAccountExists   = newError(KindAlreadyExists, "ACCOUNT_EXISTS", "account already linked to another user")
	ErrInviteCodeTaken = newError(KindAlreadyExists, "INVITE_CODE_TAKEN", "invite code collision")
	ErrTaskCodeTaken   = newError(KindAlreadyExists, "TASK_CODE_TAKEN", "task code collision")
	ErrAlreadyMember   = newError(KindAlreadyExists, "ALREADY_MEMBER", "user is already a member of this workspace")

	ErrAuthorizationDenied = newError(KindAuthorizationDenied, "AUTHORIZATION_DENIED", "you do not have permission to perform this action")
	ErrUnknownRole         = newError(KindAuthorizationDenied, "UNKNOWN_ROLE", "role has no permission entry")
	ErrNotAMember          = newError(KindNotAMember, "NOT_A_MEMBER", "you are not a member of this workspace")

	ErrUnauthenticated    = newError(KindUnauthenticated, "UNAUTHENTICATED", "unauthorized, please log in")
	ErrInvalidCredentials = newError(KindUnauthenticated, "INVALID_CREDENTIALS", "invalid email or password")
	ErrTokenExpired       = newError(KindUnauthenticated, "TOKEN_EXPIRED", "token expired")
	ErrTokenRevoked       = newError(KindUnauthenticated, "TOKEN_REVOKED", "token revoked")

	ErrOwnerRoleImmutable = newError(KindValidation, "OWNER_ROLE_IMMUTABLE", "the workspace owner's membership cannot be changed")

	ErrRoleSeedMissing = newError(KindRoleSeedMissing, "ROLE_SEED_MISSING", "required role is not seeded")
)

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// AsError unwraps err to its *Error, if any.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
