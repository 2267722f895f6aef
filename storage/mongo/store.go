package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/schooldesk/schooldesk/core"
	"github.com/schooldesk/schooldesk/storage"
)

// Collection names within the bound database.
const (
	usersCollection    = "users"
	studentsCollection = "students"
	messagesCollection = "messages"
)

// excludeObjectID strips the store-internal document identifier from every
// result; it is never exposed through the storage interface.
var excludeObjectID = bson.D{{Key: "_id", Value: 0}}

var sortByID = bson.D{{Key: "id", Value: 1}}

// Store is the MongoDB-backed implementation of storage.Store. All state
// lives in the remote collections; the store only keeps the next-ID
// counters locally.
type Store struct {
	client *Client
	logger *slog.Logger

	mu            sync.Mutex
	nextUserID    int64
	nextStudentID int64
	nextMessageID int64
	countersReady bool
}

var _ storage.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for swallowed operation failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// New creates a Store for the given connection string and database name.
// No connection is attempted until Init or the first operation.
func New(uri, dbName string, opts ...Option) *Store {
	s := &Store{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	s.client = NewClient(uri, dbName, s.logger)
	return s
}

// Init establishes the connection and initializes the ID counters. It is
// the explicit startup step; operations invoked before a successful Init
// re-ensure both lazily.
func (s *Store) Init(ctx context.Context) error {
	if err := s.client.Ensure(ctx); err != nil {
		return err
	}
	return s.ensureCounters(ctx)
}

// ensureCounters seeds each next-ID counter with the document count of its
// collection plus one, at most once per process. Counting is cheaper than a
// max-scan but can re-issue an ID after out-of-order deletions; the
// original deployment accepted that and this store keeps the policy.
func (s *Store) ensureCounters(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.countersReady {
		return nil
	}
	for _, c := range []struct {
		name string
		next *int64
	}{
		{usersCollection, &s.nextUserID},
		{studentsCollection, &s.nextStudentID},
		{messagesCollection, &s.nextMessageID},
	} {
		coll, err := s.client.Collection(c.name)
		if err != nil {
			return err
		}
		count, err := coll.CountDocuments(ctx, bson.D{})
		if err != nil {
			return fmt.Errorf("failed to count %s: %w", c.name, err)
		}
		*c.next = count + 1
	}
	s.countersReady = true
	return nil
}

// collection ensures the connection and returns the named collection.
func (s *Store) collection(ctx context.Context, name string) (*mongo.Collection, error) {
	if err := s.client.Ensure(ctx); err != nil {
		return nil, err
	}
	return s.client.Collection(name)
}

// allocID hands out the next identifier for one entity kind.
func (s *Store) allocID(next *int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := *next
	*next++
	return id
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id int64) (*core.User, error) {
	return findOne[core.User](ctx, s, usersCollection, bson.M{"id": id})
}

// GetUserByUsername retrieves the oldest user with the given username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*core.User, error) {
	return findOne[core.User](ctx, s, usersCollection, bson.M{"username": username})
}

// CreateUser adds a user. Insert failures are propagated: losing a create
// silently would be worse than surfacing it.
func (s *Store) CreateUser(ctx context.Context, input core.NewUser) (*core.User, error) {
	user := &core.User{
		Username: input.Username,
		Password: input.Password,
	}
	if err := s.insert(ctx, usersCollection, &s.nextUserID, func(id int64) any {
		user.ID = id
		return user
	}); err != nil {
		return nil, err
	}
	return user, nil
}

// GetStudents retrieves every student, ordered by ID.
func (s *Store) GetStudents(ctx context.Context) ([]*core.Student, error) {
	return findAll[core.Student](ctx, s, studentsCollection, bson.M{}), nil
}

// GetStudent retrieves a student by ID.
func (s *Store) GetStudent(ctx context.Context, id int64) (*core.Student, error) {
	return findOne[core.Student](ctx, s, studentsCollection, bson.M{"id": id})
}

// GetStudentsByGrade retrieves the students of one grade, ordered by ID.
func (s *Store) GetStudentsByGrade(ctx context.Context, grade int) ([]*core.Student, error) {
	return findAll[core.Student](ctx, s, studentsCollection, bson.M{"grade": grade}), nil
}

// CreateStudent adds a student. Insert failures are propagated.
func (s *Store) CreateStudent(ctx context.Context, input core.NewStudent) (*core.Student, error) {
	student := &core.Student{
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
	if err := s.insert(ctx, studentsCollection, &s.nextStudentID, func(id int64) any {
		student.ID = id
		return student
	}); err != nil {
		return nil, err
	}
	return student, nil
}

// UpdateStudent merges the patch over the stored document atomically and
// returns the post-update record.
func (s *Store) UpdateStudent(ctx context.Context, id int64, patch core.StudentPatch) (*core.Student, error) {
	// $set rejects an empty document, and there is nothing to change.
	if patch.IsZero() {
		return s.GetStudent(ctx, id)
	}

	coll, err := s.collection(ctx, studentsCollection)
	if err != nil {
		s.logger.Error("failed to update student", "id", id, "err", err)
		return nil, storage.ErrNotFound
	}

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(excludeObjectID)
	var student core.Student
	err = coll.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": patchSet(patch)}, opts).Decode(&student)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			s.logger.Error("failed to update student", "id", id, "err", err)
		}
		return nil, storage.ErrNotFound
	}
	return &student, nil
}

// DeleteStudent removes a student by ID. Failures are logged and reported
// as "nothing deleted".
func (s *Store) DeleteStudent(ctx context.Context, id int64) (bool, error) {
	coll, err := s.collection(ctx, studentsCollection)
	if err != nil {
		s.logger.Error("failed to delete student", "id", id, "err", err)
		return false, nil
	}
	res, err := coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		s.logger.Error("failed to delete student", "id", id, "err", err)
		return false, nil
	}
	return res.DeletedCount > 0, nil
}

// SearchStudents pushes the shared search semantics to the server as one
// $or query; see searchFilter.
func (s *Store) SearchStudents(ctx context.Context, query string) ([]*core.Student, error) {
	return findAll[core.Student](ctx, s, studentsCollection, searchFilter(query)), nil
}

// GetMessages retrieves every message, ordered by ID.
func (s *Store) GetMessages(ctx context.Context) ([]*core.Message, error) {
	return findAll[core.Message](ctx, s, messagesCollection, bson.M{}), nil
}

// CreateMessage adds a message with status core.StatusPending. Insert
// failures are propagated.
func (s *Store) CreateMessage(ctx context.Context, input core.NewMessage) (*core.Message, error) {
	message := &core.Message{
		Body:      input.Body,
		Status:    core.StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if input.TargetGrade != nil {
		grade := *input.TargetGrade
		message.TargetGrade = &grade
	}
	if err := s.insert(ctx, messagesCollection, &s.nextMessageID, func(id int64) any {
		message.ID = id
		return message
	}); err != nil {
		return nil, err
	}
	return message, nil
}

// UpdateMessageStatus sets the status of a message atomically and returns
// the post-update record.
func (s *Store) UpdateMessageStatus(ctx context.Context, id int64, status core.MessageStatus) (*core.Message, error) {
	coll, err := s.collection(ctx, messagesCollection)
	if err != nil {
		s.logger.Error("failed to update message status", "id", id, "err", err)
		return nil, storage.ErrNotFound
	}

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(excludeObjectID)
	var message core.Message
	err = coll.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"status": status}}, opts).Decode(&message)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			s.logger.Error("failed to update message status", "id", id, "err", err)
		}
		return nil, storage.ErrNotFound
	}
	return &message, nil
}

// Close releases the connection.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// insert allocates the next ID for the entity kind, lets build fill it into
// the document, and inserts the document. This is the one path in this
// backend that surfaces errors to the caller.
func (s *Store) insert(ctx context.Context, collName string, next *int64, build func(id int64) any) error {
	coll, err := s.collection(ctx, collName)
	if err != nil {
		return err
	}
	if err := s.ensureCounters(ctx); err != nil {
		return err
	}
	doc := build(s.allocID(next))
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", collName, err)
	}
	return nil
}

// findOne runs a single-document equality query, mapping both "no match"
// and query failure to storage.ErrNotFound (failures are logged first).
func findOne[T any](ctx context.Context, s *Store, collName string, filter bson.M) (*T, error) {
	coll, err := s.collection(ctx, collName)
	if err != nil {
		s.logger.Error("failed to query "+collName, "filter", filter, "err", err)
		return nil, storage.ErrNotFound
	}
	opts := options.FindOne().SetProjection(excludeObjectID).SetSort(sortByID)
	var record T
	err = coll.FindOne(ctx, filter, opts).Decode(&record)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			s.logger.Error("failed to query "+collName, "filter", filter, "err", err)
		}
		return nil, storage.ErrNotFound
	}
	return &record, nil
}

// findAll runs a multi-document query ordered by ID, mapping any failure to
// an empty result (failures are logged first).
func findAll[T any](ctx context.Context, s *Store, collName string, filter bson.M) []*T {
	coll, err := s.collection(ctx, collName)
	if err != nil {
		s.logger.Error("failed to query "+collName, "filter", filter, "err", err)
		return nil
	}
	opts := options.Find().SetProjection(excludeObjectID).SetSort(sortByID)
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		s.logger.Error("failed to query "+collName, "filter", filter, "err", err)
		return nil
	}
	var records []*T
	if err := cursor.All(ctx, &records); err != nil {
		s.logger.Error("failed to decode "+collName, "filter", filter, "err", err)
		return nil
	}
	return records
}
