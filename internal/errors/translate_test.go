package errors

import (
	"database/sql/driver"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestTranslate_Nil(t *testing.T) {
	assert.NoError(t, Translate(nil))
}

func TestTranslate_ClassifiedErrorsPassThrough(t *testing.T) {
	for _, classified := range []*Error{
		NotFound("Event", "e1"),
		InvalidReference("assigned_to", []uint64{9}),
		MalformedInput("assigned_to", "must not be empty"),
	} {
		wrapped := fmt.Errorf("create task: %w", classified)

		got := Translate(wrapped)
		assert.Same(t, classified, got, "classified errors must not be re-wrapped")
	}
}

func TestTranslate_BackendCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		kind       Kind
		constraint string
	}{
		{"gorm not found", gorm.ErrRecordNotFound, KindNotFound, ""},
		{"gorm duplicated key", gorm.ErrDuplicatedKey, KindConflict, ""},
		{"gorm foreign key", gorm.ErrForeignKeyViolated, KindInvalidReference, ""},
		{"bad conn", driver.ErrBadConn, KindTransientStorage, ""},
		{"mysql duplicate", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'a@b.c' for key 'users.idx_users_email'"}, KindConflict, "users.idx_users_email"},
		{"mysql fk", &mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"}, KindInvalidReference, ""},
		{"mysql deadlock", &mysql.MySQLError{Number: 1213, Message: "Deadlock found"}, KindTransientStorage, ""},
		{"mysql other", &mysql.MySQLError{Number: 1146, Message: "Table doesn't exist"}, KindInternal, ""},
		{"pg unique", &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"}, KindConflict, "idx_users_email"},
		{"pg fk", &pgconn.PgError{Code: "23503", ConstraintName: "fk_tasks_assignments"}, KindInvalidReference, ""},
		{"pg serialization", &pgconn.PgError{Code: "40001"}, KindTransientStorage, ""},
		{"pg connection class", &pgconn.PgError{Code: "08006"}, KindTransientStorage, ""},
		{"pg other", &pgconn.PgError{Code: "42P01"}, KindInternal, ""},
		{"sqlite unique", stderrors.New("UNIQUE constraint failed: users.email"), KindConflict, "users.email"},
		{"sqlite fk", stderrors.New("FOREIGN KEY constraint failed"), KindInvalidReference, ""},
		{"sqlite locked", stderrors.New("database is locked"), KindTransientStorage, ""},
		{"unknown", stderrors.New("something odd"), KindInternal, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Translate(fmt.Errorf("storage: %w", tt.err))

			e, ok := As(got)
			require.True(t, ok)
			assert.Equal(t, tt.kind, e.Kind)
			assert.Equal(t, tt.constraint, e.Constraint)
			assert.ErrorIs(t, e, tt.err, "cause must be kept for server-side logging")
		})
	}
}

func TestTranslate_ForeignKeyViolationMessage(t *testing.T) {
	for _, cause := range []error{
		gorm.ErrForeignKeyViolated,
		&mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"},
		&pgconn.PgError{Code: "23503", ConstraintName: "fk_tasks_event"},
		stderrors.New("FOREIGN KEY constraint failed"),
	} {
		e, ok := As(Translate(fmt.Errorf("insert task: %w", cause)))
		require.True(t, ok)
		assert.Equal(t, 400, e.Kind.Status())
		assert.Empty(t, e.Field)
		assert.Equal(t, "Invalid reference: Foreign key constraint failed", e.Message())
	}
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("x: %w", NotFound("Task", "1"))))
	assert.Equal(t, KindInternal, KindOf(stderrors.New("plain")))
}
