package schooldesk

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schooldesk/schooldesk/core"
)

// unreachableURI points at a port nothing listens on, so the eager
// connection attempt fails fast and Open falls back to the memory store.
const unreachableURI = "mongodb://127.0.0.1:1/?connectTimeoutMS=500&serverSelectionTimeoutMS=500"

func fallbackConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		MongoURI:       unreachableURI,
		Database:       "schooldesk",
		DataFile:       filepath.Join(t.TempDir(), "students.json"),
		ConnectTimeout: 2 * time.Second,
	}
}

func TestOpen_FallsBackToMemoryStore(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, fallbackConfig(t))
	require.NoError(t, err)
	defer store.Close(ctx)

	student, err := store.CreateStudent(ctx, core.NewStudent{Code: "S1", Name: "Ann", Grade: 5, Phone: "555-0100"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), student.ID)

	found, err := store.GetStudent(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", found.Name)
}

func TestOpen_RequiresDataFile(t *testing.T) {
	cfg := fallbackConfig(t)
	cfg.DataFile = ""

	_, err := Open(context.Background(), cfg)
	assert.Error(t, err)
}

func TestOpen_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Open(ctx, fallbackConfig(t))
	assert.Error(t, err)
}
