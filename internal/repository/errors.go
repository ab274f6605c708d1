package repository

import (
	"github.com/lib/pq"

	"account-ledger/internal/apperrors"
)

// wrapDBError classifies an unexpected database error. Lock and
// serialization failures are surfaced as transient so callers know a
// retry is safe; everything else is internal.
func wrapDBError(err error, message string) *apperrors.AppError {
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "40001", // serialization_failure
			"40P01",  // deadlock_detected
			"55P03",  // lock_not_available
			"57014":  // query_canceled (statement timeout)
			return apperrors.New(apperrors.Transient, message).WithDetails(err.Error())
		}
	}
	return apperrors.New(apperrors.InternalError, message).WithDetails(err.Error())
}
