package storage

import (
	"context"

	"github.com/schooldesk/schooldesk/core"
)

// UserStore provides operations for managing user accounts.
// Users are immutable: there is no update or delete.
type UserStore interface {
	// GetUser retrieves a single user by ID.
	// Returns ErrNotFound if the user doesn't exist.
	GetUser(ctx context.Context, id int64) (*core.User, error)

	// GetUserByUsername retrieves the user with the given username.
	// When duplicates exist, the user with the lowest ID wins.
	// Returns ErrNotFound if no user matches.
	GetUserByUsername(ctx context.Context, username string) (*core.User, error)

	// CreateUser adds a user, assigning the next ID.
	// Duplicate usernames are accepted.
	CreateUser(ctx context.Context, input core.NewUser) (*core.User, error)
}

// StudentStore provides operations for managing student records.
type StudentStore interface {
	// GetStudents retrieves every student, ordered by ID.
	GetStudents(ctx context.Context) ([]*core.Student, error)

	// GetStudent retrieves a single student by ID.
	// Returns ErrNotFound if the student doesn't exist.
	GetStudent(ctx context.Context, id int64) (*core.Student, error)

	// GetStudentsByGrade retrieves the students of one grade, ordered by ID.
	GetStudentsByGrade(ctx context.Context, grade int) ([]*core.Student, error)

	// CreateStudent adds a student, assigning the next ID and the creation
	// timestamp. IDs are strictly increasing for the lifetime of the store
	// and are never reused, even after deletes.
	CreateStudent(ctx context.Context, input core.NewStudent) (*core.Student, error)

	// UpdateStudent merges the non-nil patch fields over the existing record
	// and returns the updated student. ID and CreatedAt are never touched.
	// Returns ErrNotFound if the student doesn't exist.
	UpdateStudent(ctx context.Context, id int64, patch core.StudentPatch) (*core.Student, error)

	// DeleteStudent removes a student by ID and reports whether a record
	// was actually removed.
	DeleteStudent(ctx context.Context, id int64) (bool, error)

	// SearchStudents returns the students matching the query, ordered by ID.
	// A student matches when the query is a case-insensitive substring of
	// name, code, or notes, or a case-sensitive substring of phone.
	// The empty query matches every student.
	SearchStudents(ctx context.Context, query string) ([]*core.Student, error)
}

// MessageStore provides operations for managing announcement messages.
type MessageStore interface {
	// GetMessages retrieves every message, ordered by ID.
	GetMessages(ctx context.Context) ([]*core.Message, error)

	// CreateMessage adds a message with status core.StatusPending,
	// assigning the next ID and the creation timestamp.
	CreateMessage(ctx context.Context, input core.NewMessage) (*core.Message, error)

	// UpdateMessageStatus sets the status of a message and returns the
	// updated record. Status is the only mutable message field.
	// Returns ErrNotFound if the message doesn't exist.
	UpdateMessageStatus(ctx context.Context, id int64, status core.MessageStatus) (*core.Message, error)
}

// Store is the full storage interface consumed by the rest of the
// application. Implementations must be safe for concurrent use.
type Store interface {
	UserStore
	StudentStore
	MessageStore

	// Close releases backend resources. Idempotent.
	Close(ctx context.Context) error
}
