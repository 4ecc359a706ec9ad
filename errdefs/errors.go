// Package errdefs defines the client-correctable errors returned by the
// forwarding database and its service façade.
//
// Every error carries a gRPC status so it can cross the control and dispatcher
// APIs unchanged. Use the Is* predicates rather than comparing messages; they
// see through errors wrapped with github.com/pkg/errors.
package errdefs

import (
	"fmt"

	"github.com/pkg/errors"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Kind identifies which object an errNotFound is about.
type Kind string

const (
	// KindPort is a port referenced by a binding.
	KindPort Kind = "port"
	// KindSegment is a network segment referenced by a binding.
	KindSegment Kind = "segment"
	// KindAgent is an agent referenced by a binding.
	KindAgent Kind = "agent"
	// KindEntry is a forwarding database entry.
	KindEntry Kind = "entry"
)

type errNotFound struct {
	kind Kind
	id   string
}

// ErrPortNotFound creates an error indicating the referenced port does not
// exist.
func ErrPortNotFound(id string) error {
	return errNotFound{kind: KindPort, id: id}
}

// ErrSegmentNotFound creates an error indicating the referenced segment does
// not exist.
func ErrSegmentNotFound(id string) error {
	return errNotFound{kind: KindSegment, id: id}
}

// ErrAgentNotFound creates an error indicating the referenced agent does not
// exist.
func ErrAgentNotFound(id string) error {
	return errNotFound{kind: KindAgent, id: id}
}

// ErrEntryNotFound creates an error indicating there is no forwarding
// database entry with the given id.
func ErrEntryNotFound(id string) error {
	return errNotFound{kind: KindEntry, id: id}
}

// Error returns the error message
func (e errNotFound) Error() string {
	if e.kind == KindEntry {
		return fmt.Sprintf("forwarding database entry %s could not be found", e.id)
	}
	return fmt.Sprintf("%s %s could not be found", e.kind, e.id)
}

// GRPCStatus maps the error onto codes.NotFound.
func (e errNotFound) GRPCStatus() *status.Status {
	return status.New(codes.NotFound, e.Error())
}

// IsNotFound returns true if err reports any missing object.
func IsNotFound(err error) bool {
	var e errNotFound
	return errors.As(err, &e)
}

// NotFoundKind returns the kind of object a not-found error is about, and
// false if err is not a not-found error.
func NotFoundKind(err error) (Kind, bool) {
	var e errNotFound
	if !errors.As(err, &e) {
		return "", false
	}
	return e.kind, true
}

func isNotFoundKind(err error, kind Kind) bool {
	k, ok := NotFoundKind(err)
	return ok && k == kind
}

// IsPortNotFound returns true if err reports a missing port.
func IsPortNotFound(err error) bool {
	return isNotFoundKind(err, KindPort)
}

// IsSegmentNotFound returns true if err reports a missing segment.
func IsSegmentNotFound(err error) bool {
	return isNotFoundKind(err, KindSegment)
}

// IsAgentNotFound returns true if err reports a missing agent.
func IsAgentNotFound(err error) bool {
	return isNotFoundKind(err, KindAgent)
}

// IsEntryNotFound returns true if err reports a missing forwarding entry.
func IsEntryNotFound(err error) bool {
	return isNotFoundKind(err, KindEntry)
}

type errConflict struct {
	cause string
}

// ErrConflict returns an error indicating the request collides with existing
// state, for example a second binding for the same port, segment and agent.
func ErrConflict(cause string, args ...interface{}) error {
	if len(args) != 0 {
		return errConflict{cause: fmt.Sprintf(cause, args...)}
	}
	return errConflict{cause: cause}
}

// Error returns the error message
func (e errConflict) Error() string {
	return fmt.Sprintf("conflict: %v", e.cause)
}

// GRPCStatus maps the error onto codes.AlreadyExists.
func (e errConflict) GRPCStatus() *status.Status {
	return status.New(codes.AlreadyExists, e.Error())
}

// IsConflict returns true if err is a conflict error.
func IsConflict(err error) bool {
	var e errConflict
	return errors.As(err, &e)
}

type errInvalidArgument struct {
	cause string
}

// ErrInvalidArgument returns an error indicating that a request is malformed,
// such as a missing identifier.
func ErrInvalidArgument(cause string, args ...interface{}) error {
	if len(args) != 0 {
		return errInvalidArgument{cause: fmt.Sprintf(cause, args...)}
	}
	return errInvalidArgument{cause: cause}
}

// Error returns the error message
func (e errInvalidArgument) Error() string {
	return fmt.Sprintf("invalid argument: %v", e.cause)
}

// GRPCStatus maps the error onto codes.InvalidArgument.
func (e errInvalidArgument) GRPCStatus() *status.Status {
	return status.New(codes.InvalidArgument, e.Error())
}

// IsInvalidArgument returns true if err is an invalid argument error.
func IsInvalidArgument(err error) bool {
	var e errInvalidArgument
	return errors.As(err, &e)
}
