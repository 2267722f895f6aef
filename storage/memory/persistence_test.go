package memory

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schooldesk/schooldesk/core"
)

func sampleStudents(t *testing.T, n int) []*core.Student {
	t.Helper()
	students := make([]*core.Student, 0, n)
	for i := 0; i < n; i++ {
		s := &core.Student{
			ID:        int64(i + 1),
			Code:      "S" + string(rune('1'+i)),
			Name:      "Student",
			Grade:     5,
			Phone:     "555-0100",
			CreatedAt: time.Date(2025, 8, 27, 10, 30, 0, 123456789, time.UTC),
		}
		if i%2 == 0 {
			notes := "allergic to peanuts"
			s.Notes = &notes
		}
		students = append(students, s)
	}
	return students
}

func TestBridgeRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.json")
	want := sampleStudents(t, 3)

	NewBridge(path, nil).Save(want)

	// a fresh bridge simulates a process restart: empty cache, same file
	got, state := NewBridge(path, nil).Load()
	assert.Equal(t, LoadedData, state)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Code, got[i].Code)
		assert.Equal(t, want[i].Name, got[i].Name)
		assert.Equal(t, want[i].Grade, got[i].Grade)
		assert.Equal(t, want[i].Phone, got[i].Phone)
		assert.Equal(t, want[i].Notes, got[i].Notes)
		assert.True(t, want[i].CreatedAt.Equal(got[i].CreatedAt),
			"timestamps must survive the round trip")
	}
}

func TestBridgeLoad_MissingFile(t *testing.T) {
	bridge := NewBridge(filepath.Join(t.TempDir(), "absent.json"), nil)

	students, state := bridge.Load()
	assert.Empty(t, students)
	assert.Equal(t, LoadedEmpty, state)
}

func TestBridgeLoad_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	bridge := NewBridge(path, nil)

	students, state := bridge.Load()
	assert.Empty(t, students)
	assert.Equal(t, LoadFailed, state)
}

func TestBridgeLoad_BadTimestamp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.json")
	data, err := json.Marshal([]diskStudent{{ID: 1, Code: "S1", Name: "Ann", Grade: 5, CreatedAt: "yesterday"}})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	bridge := NewBridge(path, nil)

	students, state := bridge.Load()
	assert.Empty(t, students)
	assert.Equal(t, LoadFailed, state)
}

func TestBridgeLoad_PrefersCacheOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.json")
	bridge := NewBridge(path, nil)
	bridge.Save(sampleStudents(t, 2))

	// removing the file does not matter while the cache is warm
	require.NoError(t, os.Remove(path))
	students, state := bridge.Load()
	assert.Len(t, students, 2)
	assert.Equal(t, LoadedData, state)
}

func TestBridgeSave_SwallowsWriteFailure(t *testing.T) {
	// a path inside a directory that does not exist cannot be written
	bridge := NewBridge(filepath.Join(t.TempDir(), "missing", "students.json"), nil)

	bridge.Save(sampleStudents(t, 2))

	// the in-memory mutation took effect regardless of the failed write
	students, _ := bridge.Load()
	assert.Len(t, students, 2)
}

func TestBridgeSave_OverwritesPriorContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.json")
	bridge := NewBridge(path, nil)

	bridge.Save(sampleStudents(t, 3))
	bridge.Save(sampleStudents(t, 1))

	// a cold reader sees only the latest collection
	students, _ := NewBridge(path, nil).Load()
	assert.Len(t, students, 1)
}
