package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"strings"
	"syscall"

	"lodging/shared/constant"
	"lodging/shared/failure"

	"github.com/lib/pq"
)

// Classify maps driver errors onto the Conflict, InvalidInput and StorageUnavailable kinds.
// Anything it does not recognise is returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var fail *failure.Failure
	if errors.As(err, &fail) {
		return err
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		code := string(pqErr.Code)

		switch {
		case code == constant.PqErrorCodeUniqueViolation:
			return failure.Wrap(failure.KindConflict, "resource already exists", err)
		case code == constant.PqErrorCodeInvalidText:
			return failure.Wrap(failure.KindInvalidInput, "malformed identifier", err)
		case code == constant.PqErrorCodeSerializationFailure,
			code == constant.PqErrorCodeDeadlockDetected,
			code == constant.PqErrorCodeLockNotAvailable:
			return failure.Wrap(failure.KindConflict, "concurrent update, please retry", err)
		case code == constant.PqErrorCodeQueryCanceled,
			strings.HasPrefix(code, constant.PqErrorClassConnection):
			return failure.StorageUnavailable(err)
		}

		return err
	}

	var netErr net.Error

	switch {
	case errors.Is(err, driver.ErrBadConn),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET),
		errors.As(err, &netErr):
		return failure.StorageUnavailable(err)
	}

	return err
}
