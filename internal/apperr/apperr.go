package apperr

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindPermissionDenied
	KindAlreadyExists
	KindAborted
	KindCancelled
	KindUnknown
)

func (k Kind) Code() codes.Code {
	switch k {
	case KindNotFound:
		return codes.NotFound
	case KindPermissionDenied:
		return codes.PermissionDenied
	case KindAlreadyExists:
		return codes.AlreadyExists
	case KindAborted:
		return codes.Aborted
	case KindCancelled:
		return codes.Canceled
	case KindUnknown:
		return codes.Unknown
	default:
		return codes.Internal
	}
}

// Error несёт вид ошибки и сообщение, которое можно показать клиенту.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return newError(KindNotFound, format, args...)
}

func PermissionDenied(format string, args ...any) *Error {
	return newError(KindPermissionDenied, format, args...)
}

func AlreadyExists(format string, args ...any) *Error {
	return newError(KindAlreadyExists, format, args...)
}

func Aborted(format string, args ...any) *Error {
	return newError(KindAborted, format, args...)
}

func Cancelled(format string, args ...any) *Error {
	return newError(KindCancelled, format, args...)
}

func Unknown(format string, args ...any) *Error {
	return newError(KindUnknown, format, args...)
}

func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// ToStatus переводит ошибку сервиса в gRPC статус. Внутренние ошибки клиенту не раскрываются.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Kind != KindInternal {
		return status.Error(appErr.Kind.Code(), appErr.Message)
	}
	return status.Error(codes.Internal, "internal error")
}
