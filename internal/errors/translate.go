package errors

import (
	"context"
	"database/sql/driver"
	stderrors "errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/yukikurage/event-task-api/internal/metrics"
)

// As extracts a classified error from the chain.
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Translate maps a storage backend failure into the taxonomy.
// Already classified errors are returned unchanged.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	if e, ok := As(err); ok {
		return e
	}

	e := classify(err)
	metrics.RecordStorageError(e.Kind.String())
	return e
}

func classify(err error) *Error {
	switch {
	case stderrors.Is(err, gorm.ErrRecordNotFound):
		return &Error{Kind: KindNotFound, Entity: "Record", Cause: err}
	case stderrors.Is(err, gorm.ErrDuplicatedKey):
		return Conflict("", err)
	case stderrors.Is(err, gorm.ErrForeignKeyViolated):
		return &Error{Kind: KindInvalidReference, Cause: err}
	case stderrors.Is(err, driver.ErrBadConn),
		stderrors.Is(err, mysql.ErrInvalidConn),
		stderrors.Is(err, context.DeadlineExceeded):
		return Transient(err)
	}

	var myErr *mysql.MySQLError
	if stderrors.As(err, &myErr) {
		switch myErr.Number {
		case 1062: // ER_DUP_ENTRY
			return Conflict(mysqlConstraint(myErr.Message), err)
		case 1451, 1452: // ER_ROW_IS_REFERENCED_2, ER_NO_REFERENCED_ROW_2
			return &Error{Kind: KindInvalidReference, Cause: err}
		case 1205, 1213: // lock wait timeout, deadlock
			return Transient(err)
		default:
			return Internal(err)
		}
	}

	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505": // unique_violation
			return Conflict(pgErr.ConstraintName, err)
		case pgErr.Code == "23503": // foreign_key_violation
			return &Error{Kind: KindInvalidReference, Cause: err}
		case pgErr.Code == "40001", pgErr.Code == "40P01": // serialization_failure, deadlock_detected
			return Transient(err)
		case strings.HasPrefix(pgErr.Code, "08"): // connection_exception class
			return Transient(err)
		default:
			return Internal(err)
		}
	}
	if pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return Transient(err)
	}

	// sqlite reports constraint failures only through the message text.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return Conflict(strings.TrimSpace(after(msg, "UNIQUE constraint failed:")), err)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return &Error{Kind: KindInvalidReference, Cause: err}
	case strings.Contains(msg, "database is locked"), strings.Contains(msg, "database table is locked"):
		return Transient(err)
	}

	return Internal(err)
}

// mysqlConstraint pulls the key name out of "Duplicate entry 'x' for key 'users.idx_users_email'".
func mysqlConstraint(msg string) string {
	key := after(msg, "for key ")
	return strings.Trim(key, "'`")
}

func after(s, sep string) string {
	if i := strings.Index(s, sep); i >= 0 {
		return s[i+len(sep):]
	}
	return ""
}
