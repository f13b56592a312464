package failure

import (
	"errors"
	"net/http"
)

// Kind tags a Failure with the business reason behind it. Callers branch on the kind,
// the HTTP layer maps it to a status code.
type Kind string

const (
	KindNotFound              Kind = "NotFound"
	KindInvalidInput          Kind = "InvalidInput"
	KindRoomFull              Kind = "RoomFull"
	KindRoomAssignedToAgent   Kind = "RoomAssignedToAgent"
	KindRoomAssignedElsewhere Kind = "RoomAssignedElsewhere"
	KindDuplicateAssignment   Kind = "DuplicateAssignment"
	KindAgentConflict         Kind = "AgentConflict"
	KindInvalidState          Kind = "InvalidState"
	KindAlreadyCheckedOut     Kind = "AlreadyCheckedOut"
	KindHasActiveDependents   Kind = "HasActiveDependents"
	KindStorageUnavailable    Kind = "StorageUnavailable"
	KindConflict              Kind = "Conflict"
	KindUnauthorized          Kind = "Unauthorized"
	KindForbidden             Kind = "Forbidden"
	KindInternal              Kind = "Internal"
)

var kindCodes = map[Kind]int{
	KindNotFound:              http.StatusNotFound,
	KindInvalidInput:          http.StatusBadRequest,
	KindRoomFull:              http.StatusConflict,
	KindRoomAssignedToAgent:   http.StatusConflict,
	KindRoomAssignedElsewhere: http.StatusConflict,
	KindDuplicateAssignment:   http.StatusConflict,
	KindAgentConflict:         http.StatusConflict,
	KindInvalidState:          http.StatusConflict,
	KindAlreadyCheckedOut:     http.StatusConflict,
	KindHasActiveDependents:   http.StatusConflict,
	KindStorageUnavailable:    http.StatusServiceUnavailable,
	KindConflict:              http.StatusConflict,
	KindUnauthorized:          http.StatusUnauthorized,
	KindForbidden:             http.StatusForbidden,
	KindInternal:              http.StatusInternalServerError,
}

// Failure is an error the HTTP layer can report as is: Code is the response
// status and Message is safe to show to the caller.
type Failure struct {
	Code    int    `json:"code"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	cause   error
}

func (e *Failure) Error() string {
	return e.Message
}

// Unwrap exposes the storage error a StorageUnavailable or Conflict failure was classified from.
func (e *Failure) Unwrap() error {
	return e.cause
}

// New builds a Failure of the given kind with the status code that kind maps to.
func New(kind Kind, msg string) error {
	return Wrap(kind, msg, nil)
}

// Wrap is New that keeps err reachable through errors.Is / errors.As.
func Wrap(kind Kind, msg string, err error) error {
	return &Failure{
		Code:    CodeOf(kind),
		Kind:    kind,
		Message: msg,
		cause:   err,
	}
}

// CodeOf returns the HTTP status for kind.
func CodeOf(kind Kind) int {
	if code, ok := kindCodes[kind]; ok {
		return code
	}

	return http.StatusInternalServerError
}

// BadRequest turns err into an InvalidInput failure carrying its message. A
// nil err stays nil.
func BadRequest(err error) error {
	if err == nil {
		return nil
	}

	return New(KindInvalidInput, err.Error())
}

func BadRequestFromString(msg string) error {
	return New(KindInvalidInput, msg)
}

func Unauthorized(msg string) error {
	return New(KindUnauthorized, msg)
}

func Forbidden(msg string) error {
	return New(KindForbidden, msg)
}

func NotFound(msg string) error {
	return New(KindNotFound, msg)
}

func Conflict(msg string) error {
	return New(KindConflict, msg)
}

func RoomFull(msg string) error {
	return New(KindRoomFull, msg)
}

func RoomAssignedToAgent(msg string) error {
	return New(KindRoomAssignedToAgent, msg)
}

func RoomAssignedElsewhere(msg string) error {
	return New(KindRoomAssignedElsewhere, msg)
}

func DuplicateAssignment(msg string) error {
	return New(KindDuplicateAssignment, msg)
}

func AgentConflict(msg string) error {
	return New(KindAgentConflict, msg)
}

func InvalidState(msg string) error {
	return New(KindInvalidState, msg)
}

func AlreadyCheckedOut(msg string) error {
	return New(KindAlreadyCheckedOut, msg)
}

func HasActiveDependents(msg string) error {
	return New(KindHasActiveDependents, msg)
}

func StorageUnavailable(err error) error {
	return Wrap(KindStorageUnavailable, "storage unavailable", err)
}

// GetCode returns the status of the first Failure in err's chain, 500 otherwise.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetKind returns the kind of the first Failure in err's chain, KindInternal otherwise.
func GetKind(err error) Kind {
	var fail *Failure
	if errors.As(err, &fail) && fail.Kind != "" {
		return fail.Kind
	}

	return KindInternal
}

// Is reports whether err carries a Failure of the given kind.
func Is(err error, kind Kind) bool {
	var fail *Failure

	return errors.As(err, &fail) && fail.Kind == kind
}
