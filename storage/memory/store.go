package memory

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/schooldesk/schooldesk/core"
	"github.com/schooldesk/schooldesk/storage"
)

// Store is the in-process implementation of storage.Store. Students gain
// crash-survivability through the Bridge; users and messages are volatile.
type Store struct {
	mu     sync.Mutex
	bridge *Bridge
	logger *slog.Logger

	users    map[int64]*core.User
	students map[int64]*core.Student
	messages map[int64]*core.Message

	nextUserID    int64
	nextStudentID int64
	nextMessageID int64
}

var _ storage.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for swallowed persistence failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// New creates a memory store persisting students to the given file path.
// Students surviving from an earlier process are loaded immediately, as
// the one explicit initialization step; every later call assumes
// readiness. Users and messages always start empty.
func New(path string, opts ...Option) *Store {
	s := &Store{
		logger:        slog.Default(),
		users:         make(map[int64]*core.User),
		students:      make(map[int64]*core.Student),
		messages:      make(map[int64]*core.Message),
		nextUserID:    1,
		nextStudentID: 1,
		nextMessageID: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.bridge = NewBridge(path, s.logger)

	students, state := s.bridge.Load()
	if state == LoadFailed {
		s.logger.Warn("student data could not be restored, starting empty", "path", path)
	}
	for _, student := range students {
		s.students[student.ID] = student
		if student.ID >= s.nextStudentID {
			s.nextStudentID = student.ID + 1
		}
	}
	return s
}

// persistStudents writes the full student collection through the bridge.
// Callers must hold s.mu.
func (s *Store) persistStudents() {
	all := make([]*core.Student, 0, len(s.students))
	for _, student := range s.students {
		all = append(all, student)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	s.bridge.Save(all)
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id int64) (*core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

// GetUserByUsername retrieves the oldest user with the given username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var found *core.User
	for _, user := range s.users {
		if user.Username != username {
			continue
		}
		if found == nil || user.ID < found.ID {
			found = user
		}
	}
	if found == nil {
		return nil, storage.ErrNotFound
	}
	copied := *found
	return &copied, nil
}

// CreateUser adds a user. Duplicate usernames are accepted.
func (s *Store) CreateUser(ctx context.Context, input core.NewUser) (*core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := &core.User{
		ID:       s.nextUserID,
		Username: input.Username,
		Password: input.Password,
	}
	s.nextUserID++
	s.users[user.ID] = user

	copied := *user
	return &copied, nil
}

// GetStudents retrieves every student, ordered by ID.
func (s *Store) GetStudents(ctx context.Context) ([]*core.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshotStudents(func(*core.Student) bool { return true }), nil
}

// GetStudent retrieves a student by ID.
func (s *Store) GetStudent(ctx context.Context, id int64) (*core.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	student, ok := s.students[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return student.Clone(), nil
}

// GetStudentsByGrade retrieves the students of one grade, ordered by ID.
func (s *Store) GetStudentsByGrade(ctx context.Context, grade int) ([]*core.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshotStudents(func(st *core.Student) bool { return st.Grade == grade }), nil
}

// CreateStudent adds a student and persists the full collection.
func (s *Store) CreateStudent(ctx context.Context, input core.NewStudent) (*core.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	student := &core.Student{
		ID:        s.nextStudentID,
		Code:      input.Code,
		Name:      input.Name,
		Grade:     input.Grade,
		Phone:     input.Phone,
		CreatedAt: time.Now().UTC(),
	}
	if input.Notes != nil {
		notes := *input.Notes
		student.Notes = &notes
	}
	s.nextStudentID++
	s.students[student.ID] = student
	s.persistStudents()

	return student.Clone(), nil
}

// UpdateStudent merges the patch over the existing record and persists.
func (s *Store) UpdateStudent(ctx context.Context, id int64, patch core.StudentPatch) (*core.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	student, ok := s.students[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if patch.Code != nil {
		student.Code = *patch.Code
	}
	if patch.Name != nil {
		student.Name = *patch.Name
	}
	if patch.Grade != nil {
		student.Grade = *patch.Grade
	}
	if patch.Phone != nil {
		student.Phone = *patch.Phone
	}
	if patch.Notes != nil {
		notes := *patch.Notes
		student.Notes = &notes
	}
	s.persistStudents()

	return student.Clone(), nil
}

// DeleteStudent removes a student and persists on success.
func (s *Store) DeleteStudent(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.students[id]; !ok {
		return false, nil
	}
	delete(s.students, id)
	s.persistStudents()
	return true, nil
}

// SearchStudents returns the students matching the query, ordered by ID.
func (s *Store) SearchStudents(ctx context.Context, query string) ([]*core.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshotStudents(func(st *core.Student) bool { return matchesQuery(st, query) }), nil
}

// matchesQuery implements the shared search semantics: a case-insensitive
// substring match on name, code, and notes (when present), and a
// case-sensitive substring match on phone. The empty query matches
// everything.
func matchesQuery(s *core.Student, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(s.Name), q) {
		return true
	}
	if strings.Contains(strings.ToLower(s.Code), q) {
		return true
	}
	if strings.Contains(s.Phone, query) {
		return true
	}
	if s.Notes != nil && strings.Contains(strings.ToLower(*s.Notes), q) {
		return true
	}
	return false
}

// snapshotStudents returns defensive copies of the students accepted by
// keep, ordered by ID. Callers must hold s.mu.
func (s *Store) snapshotStudents(keep func(*core.Student) bool) []*core.Student {
	result := make([]*core.Student, 0, len(s.students))
	for _, student := range s.students {
		if keep(student) {
			result = append(result, student.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// GetMessages retrieves every message, ordered by ID.
func (s *Store) GetMessages(ctx context.Context) ([]*core.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*core.Message, 0, len(s.messages))
	for _, message := range s.messages {
		result = append(result, message.Clone())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// CreateMessage adds a message with status core.StatusPending.
// Messages are not bridged to disk; they do not survive a restart.
func (s *Store) CreateMessage(ctx context.Context, input core.NewMessage) (*core.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	message := &core.Message{
		ID:        s.nextMessageID,
		Body:      input.Body,
		Status:    core.StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if input.TargetGrade != nil {
		grade := *input.TargetGrade
		message.TargetGrade = &grade
	}
	s.nextMessageID++
	s.messages[message.ID] = message

	return message.Clone(), nil
}

// UpdateMessageStatus sets the status of a message.
func (s *Store) UpdateMessageStatus(ctx context.Context, id int64, status core.MessageStatus) (*core.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	message, ok := s.messages[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	message.Status = status
	return message.Clone(), nil
}

// Close is a no-op: every mutation already persisted through the bridge.
func (s *Store) Close(ctx context.Context) error {
	return nil
}
