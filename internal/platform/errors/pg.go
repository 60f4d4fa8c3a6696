package errors

import (
	"context"
	stderrs "errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE classes seen by the manifest reader. Everything here is a read path,
// so constraint and write conflicts are not mapped.
var (
	sqlUnavailable = map[string]bool{
		"42P01": true, // undefined_table: manifests not provisioned yet
		"57P01": true, // admin_shutdown
		"57P03": true, // cannot_connect_now
		"57014": true, // query_canceled, statement_timeout included
		"53300": true, // too_many_connections
		"08006": true, // connection_failure
	}
	sqlTransient = map[string]bool{
		"40001": true, // serialization_failure
		"40P01": true, // deadlock_detected
		"55P03": true, // lock_not_available
	}
)

// ExtractPgError digs the server error out of err's chain.
func ExtractPgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	ok := stderrs.As(err, &pgErr)
	return pgErr, ok
}

func IsSQLState(err error, state string) bool {
	pgErr, ok := ExtractPgError(err)
	return ok && pgErr.Code == state
}

// DBErrorCode classifies a Postgres error. ok is false when err did not come
// from the server or the connection layer.
func DBErrorCode(err error) (code ErrorCode, ok bool) {
	pgErr, isPg := ExtractPgError(err)
	switch {
	case isPg && sqlUnavailable[pgErr.Code]:
		return ErrorCodeUnavailable, true
	case isPg:
		return ErrorCodeDB, true
	case pgconn.Timeout(err), pgconn.SafeToRetry(err):
		return ErrorCodeUnavailable, true
	}
	return ErrorCodeUnknown, false
}

// FromPostgresf wraps a manifest store error with its mapped code. nil stays nil.
func FromPostgresf(err error, format string, a ...any) error {
	if err == nil {
		return nil
	}
	code, ok := DBErrorCode(err)
	if !ok {
		code = ErrorCodeDB
	}
	return Wrap(err, code, fmt.Sprintf(format, a...))
}

// IsRetryable reports transient server conditions and connection errors pgx
// marks safe to retry. Caller cancellation is never retryable.
func IsRetryable(err error) bool {
	if err == nil || stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}
	if pgErr, ok := ExtractPgError(err); ok {
		return sqlTransient[pgErr.Code]
	}
	return pgconn.SafeToRetry(err)
}
