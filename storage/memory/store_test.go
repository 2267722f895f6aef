package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schooldesk/schooldesk/core"
	"github.com/schooldesk/schooldesk/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "students.json"))
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func createAnnAndBen(t *testing.T, store *Store) (*core.Student, *core.Student) {
	t.Helper()
	ctx := context.Background()

	ann, err := store.CreateStudent(ctx, core.NewStudent{Code: "S1", Name: "Ann", Grade: 5, Phone: "555-0100"})
	require.NoError(t, err)
	ben, err := store.CreateStudent(ctx, core.NewStudent{Code: "S2", Name: "Ben", Grade: 6, Phone: "555-0200"})
	require.NoError(t, err)
	return ann, ben
}

func TestCreateStudent_AssignsSequentialIDs(t *testing.T) {
	store := newTestStore(t)
	ann, ben := createAnnAndBen(t, store)

	assert.Equal(t, int64(1), ann.ID)
	assert.Equal(t, int64(2), ben.ID)
	assert.False(t, ann.CreatedAt.IsZero())
	assert.Nil(t, ann.Notes)
}

func TestCreateStudent_IDsNotRecycledAfterDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	createAnnAndBen(t, store)

	deleted, err := store.DeleteStudent(ctx, 2)
	require.NoError(t, err)
	require.True(t, deleted)

	clara, err := store.CreateStudent(ctx, core.NewStudent{Code: "S3", Name: "Clara", Grade: 6, Phone: "555-0300"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), clara.ID)
}

func TestGetStudent_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetStudent(context.Background(), 42)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGetStudentsByGrade(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	createAnnAndBen(t, store)

	fifth, err := store.GetStudentsByGrade(ctx, 5)
	require.NoError(t, err)
	require.Len(t, fifth, 1)
	assert.Equal(t, "Ann", fifth[0].Name)

	empty, err := store.GetStudentsByGrade(ctx, 9)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestUpdateStudent_Partial(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	ann, _ := createAnnAndBen(t, store)

	updated, err := store.UpdateStudent(ctx, ann.ID, core.StudentPatch{
		Phone: strPtr("555-9999"),
		Notes: strPtr("allergic to peanuts"),
	})
	require.NoError(t, err)

	assert.Equal(t, "555-9999", updated.Phone)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, "allergic to peanuts", *updated.Notes)
	// untouched fields survive the merge
	assert.Equal(t, ann.ID, updated.ID)
	assert.Equal(t, "Ann", updated.Name)
	assert.Equal(t, "S1", updated.Code)
	assert.Equal(t, 5, updated.Grade)
	assert.True(t, ann.CreatedAt.Equal(updated.CreatedAt))
}

func TestUpdateStudent_EmptyPatch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	ann, _ := createAnnAndBen(t, store)

	updated, err := store.UpdateStudent(ctx, ann.ID, core.StudentPatch{})
	require.NoError(t, err)
	assert.Equal(t, ann, updated)
}

func TestUpdateStudent_NotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	createAnnAndBen(t, store)

	_, err := store.UpdateStudent(ctx, 42, core.StudentPatch{Name: strPtr("Nobody")})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// no side effects on other records
	all, err := store.GetStudents(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Ann", all[0].Name)
	assert.Equal(t, "Ben", all[1].Name)
}

func TestDeleteStudent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	createAnnAndBen(t, store)

	deleted, err := store.DeleteStudent(ctx, 1)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = store.GetStudent(ctx, 1)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	all, err := store.GetStudents(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDeleteStudent_NotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	createAnnAndBen(t, store)

	deleted, err := store.DeleteStudent(ctx, 42)
	require.NoError(t, err)
	assert.False(t, deleted)

	all, err := store.GetStudents(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSearchStudents(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.CreateStudent(ctx, core.NewStudent{Code: "S1", Name: "Ann Adler", Grade: 5, Phone: "555-0100"})
	require.NoError(t, err)
	_, err = store.CreateStudent(ctx, core.NewStudent{Code: "S2", Name: "Ben Weber", Grade: 6, Phone: "555-0200", Notes: strPtr("Picked up by Grandmother")})
	require.NoError(t, err)

	tests := []struct {
		name      string
		query     string
		wantNames []string
	}{
		{
			name:      "empty query matches everyone",
			query:     "",
			wantNames: []string{"Ann Adler", "Ben Weber"},
		},
		{
			name:      "case-insensitive name match",
			query:     "ann",
			wantNames: []string{"Ann Adler"},
		},
		{
			name:      "case-insensitive code match",
			query:     "s2",
			wantNames: []string{"Ben Weber"},
		},
		{
			name:      "phone digits match",
			query:     "0200",
			wantNames: []string{"Ben Weber"},
		},
		{
			name:      "notes match ignores case",
			query:     "grandmother",
			wantNames: []string{"Ben Weber"},
		},
		{
			name:      "no match",
			query:     "zzz",
			wantNames: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := store.SearchStudents(ctx, tt.query)
			require.NoError(t, err)

			names := make([]string, 0, len(results))
			for _, s := range results {
				names = append(names, s.Name)
			}
			assert.Equal(t, tt.wantNames, names)
		})
	}
}

func TestReads_ReturnDefensiveCopies(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	ann, _ := createAnnAndBen(t, store)

	got, err := store.GetStudent(ctx, ann.ID)
	require.NoError(t, err)
	got.Name = "Mallory"

	all, err := store.GetStudents(ctx)
	require.NoError(t, err)
	all[0].Grade = 99

	fresh, err := store.GetStudent(ctx, ann.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", fresh.Name)
	assert.Equal(t, 5, fresh.Grade)
}

func TestNew_RestoresPersistedStudents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.json")
	ctx := context.Background()

	first := New(path)
	_, err := first.CreateStudent(ctx, core.NewStudent{Code: "S1", Name: "Ann", Grade: 5, Phone: "555-0100"})
	require.NoError(t, err)
	_, err = first.CreateStudent(ctx, core.NewStudent{Code: "S2", Name: "Ben", Grade: 6, Phone: "555-0200"})
	require.NoError(t, err)

	// fresh process: a new store over the same file
	second := New(path)
	all, err := second.GetStudents(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Ann", all[0].Name)

	// the counter resumes after the highest persisted ID
	clara, err := second.CreateStudent(ctx, core.NewStudent{Code: "S3", Name: "Clara", Grade: 7, Phone: "555-0300"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), clara.ID)
}

func TestNew_CorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	ctx := context.Background()

	store := New(path)
	all, err := store.GetStudents(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	// the counter starts over; a later successful save replaces the file
	ann, err := store.CreateStudent(ctx, core.NewStudent{Code: "S1", Name: "Ann", Grade: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(1), ann.ID)
}

func TestDeleteSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.json")
	ctx := context.Background()

	first := New(path)
	createAnnAndBen(t, first)
	deleted, err := first.DeleteStudent(ctx, 1)
	require.NoError(t, err)
	require.True(t, deleted)

	second := New(path)
	all, err := second.GetStudents(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Ben", all[0].Name)
}

func TestMessages_Lifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.CreateMessage(ctx, core.NewMessage{Body: "Reminder"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, core.StatusPending, created.Status)
	assert.Nil(t, created.TargetGrade)
	assert.False(t, created.CreatedAt.IsZero())

	updated, err := store.UpdateMessageStatus(ctx, created.ID, core.StatusSent)
	require.NoError(t, err)
	assert.Equal(t, core.StatusSent, updated.Status)

	messages, err := store.GetMessages(ctx)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, core.StatusSent, messages[0].Status)
	// everything except status is unchanged
	assert.Equal(t, created.ID, messages[0].ID)
	assert.Equal(t, "Reminder", messages[0].Body)
	assert.Nil(t, messages[0].TargetGrade)
	assert.True(t, created.CreatedAt.Equal(messages[0].CreatedAt))
}

func TestMessages_TargetGrade(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.CreateMessage(ctx, core.NewMessage{Body: "Field trip", TargetGrade: intPtr(5)})
	require.NoError(t, err)
	require.NotNil(t, created.TargetGrade)
	assert.Equal(t, 5, *created.TargetGrade)
}

func TestUpdateMessageStatus_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.UpdateMessageStatus(context.Background(), 42, core.StatusSent)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUsers_Lifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.CreateUser(ctx, core.NewUser{Username: "admin", Password: "hashed"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	byID, err := store.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin", byID.Username)

	byName, err := store.GetUserByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	_, err = store.GetUser(ctx, 42)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = store.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUsers_DuplicateUsernamesAccepted(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.CreateUser(ctx, core.NewUser{Username: "admin", Password: "one"})
	require.NoError(t, err)
	second, err := store.CreateUser(ctx, core.NewUser{Username: "admin", Password: "two"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	// the oldest record wins the lookup
	found, err := store.GetUserByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
}

func TestCountersAreIndependentPerKind(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	student, err := store.CreateStudent(ctx, core.NewStudent{Code: "S1", Name: "Ann", Grade: 5})
	require.NoError(t, err)
	message, err := store.CreateMessage(ctx, core.NewMessage{Body: "Reminder"})
	require.NoError(t, err)
	user, err := store.CreateUser(ctx, core.NewUser{Username: "admin", Password: "x"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), student.ID)
	assert.Equal(t, int64(1), message.ID)
	assert.Equal(t, int64(1), user.ID)
}
