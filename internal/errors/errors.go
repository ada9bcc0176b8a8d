package errors

import (
	"errors"
	"fmt"
)

// NotFoundError represents an error when an entity is not found
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// Is enables errors.Is() comparison for NotFoundError
func (e *NotFoundError) Is(target error) bool {
	t, ok := target.(*NotFoundError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// AlreadyExistsError represents an error when an entity already exists
type AlreadyExistsError struct {
	Entity  string
	Context string // Additional context like "in the target team"
}

func (e *AlreadyExistsError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s already exists %s", e.Entity, e.Context)
	}
	return fmt.Sprintf("%s already exists", e.Entity)
}

// Is enables errors.Is() comparison for AlreadyExistsError
func (e *AlreadyExistsError) Is(target error) bool {
	t, ok := target.(*AlreadyExistsError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// InvalidStateError represents an illegal lifecycle transition, such as
// reviewing a request that has already reached a terminal status
type InvalidStateError struct {
	Entity string
	State  string
}

func (e *InvalidStateError) Error() string {
	if e.State != "" {
		return fmt.Sprintf("%s is in state %s and cannot be transitioned", e.Entity, e.State)
	}
	return fmt.Sprintf("%s is not in a transitionable state", e.Entity)
}

// Is enables errors.Is() comparison for InvalidStateError
func (e *InvalidStateError) Is(target error) bool {
	t, ok := target.(*InvalidStateError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// AuthorizationError represents authorization-related errors
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

// AuthenticationError represents authentication-related errors
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

// DependencyFailureError wraps an infrastructure failure from a store call.
// It is the only retryable class in the taxonomy.
type DependencyFailureError struct {
	Operation string
	Err       error
}

func (e *DependencyFailureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("dependency failure during %s: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("dependency failure during %s", e.Operation)
}

func (e *DependencyFailureError) Unwrap() error {
	return e.Err
}

// Entity Not Found Errors
var (
	ErrUserNotFound            = &NotFoundError{Entity: "user"}
	ErrTeamNotFound            = &NotFoundError{Entity: "team"}
	ErrMembershipNotFound      = &NotFoundError{Entity: "team membership"}
	ErrJoinRequestNotFound     = &NotFoundError{Entity: "join request"}
	ErrTransferRequestNotFound = &NotFoundError{Entity: "transfer request"}
	ErrEmployeeRequestNotFound = &NotFoundError{Entity: "employee request"}
	ErrNotificationNotFound    = &NotFoundError{Entity: "notification"}
)

// Already Exists Errors
var (
	ErrAlreadyMember           = &AlreadyExistsError{Entity: "membership", Context: "for this user in the target team"}
	ErrTeamExists              = &AlreadyExistsError{Entity: "team", Context: "with this name or slug"}
	ErrUserExists              = &AlreadyExistsError{Entity: "user", Context: "with this email"}
	ErrDuplicatePendingRequest = &AlreadyExistsError{Entity: "pending request", Context: "for this user and team"}
)

// Invalid State Errors
var (
	ErrRequestNotPending = &InvalidStateError{Entity: "request"}
)

// Authorization Errors
var (
	ErrNotAuthorizedToReview = &AuthorizationError{Message: "principal is not authorized to review this request"}
	ErrSelfReview            = &AuthorizationError{Message: "reviewing your own request is not permitted"}
	ErrNotRequestOwner       = &AuthorizationError{Message: "only the requester may withdraw a request"}
)

// Business Logic Errors
var (
	ErrSameTeamTransfer = errors.New("transfer source and target team are the same")
	ErrLastOwner        = errors.New("cannot remove the last owner of a team")
	ErrRequesterNoTeam  = errors.New("requester does not belong to any team")
)

// Helper Functions

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// IsAlreadyExists checks if an error is an AlreadyExistsError
func IsAlreadyExists(err error) bool {
	var existsErr *AlreadyExistsError
	return errors.As(err, &existsErr)
}

// IsInvalidState checks if an error is an InvalidStateError
func IsInvalidState(err error) bool {
	var stateErr *InvalidStateError
	return errors.As(err, &stateErr)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsAuthorization checks if an error is an AuthorizationError
func IsAuthorization(err error) bool {
	var authzErr *AuthorizationError
	return errors.As(err, &authzErr)
}

// IsAuthentication checks if an error is an AuthenticationError
func IsAuthentication(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr)
}

// IsDependencyFailure checks if an error is a DependencyFailureError
func IsDependencyFailure(err error) bool {
	var depErr *DependencyFailureError
	return errors.As(err, &depErr)
}

// NewNotFoundError creates a new NotFoundError for a custom entity
func NewNotFoundError(entity string) error {
	return &NotFoundError{Entity: entity}
}

// NewAlreadyExistsError creates a new AlreadyExistsError for a custom entity
func NewAlreadyExistsError(entity, context string) error {
	return &AlreadyExistsError{Entity: entity, Context: context}
}

// NewInvalidStateError creates a new InvalidStateError
func NewInvalidStateError(entity, state string) error {
	return &InvalidStateError{Entity: entity, State: state}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewAuthorizationError creates a new AuthorizationError
func NewAuthorizationError(message string) error {
	return &AuthorizationError{Message: message}
}

// NewAuthenticationError creates a new AuthenticationError
func NewAuthenticationError(message string) error {
	return &AuthenticationError{Message: message}
}

// NewDependencyFailureError wraps an infrastructure error with the failing operation
func NewDependencyFailureError(operation string, err error) error {
	return &DependencyFailureError{Operation: operation, Err: err}
}
