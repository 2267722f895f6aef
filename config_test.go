package schooldesk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigFromEnv_Defaults(t *testing.T) {
	cfg := ConfigFromEnv()

	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "schooldesk", cfg.Database)
	assert.Equal(t, "students.json", cfg.DataFile)
	assert.Equal(t, 5*time.Second, cfg.ConnectTimeout)
}

func TestConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("SCHOOLDESK_MONGO_URI", "mongodb://db.internal:27017")
	t.Setenv("SCHOOLDESK_DB_NAME", "school_test")
	t.Setenv("SCHOOLDESK_DATA_FILE", "/var/lib/schooldesk/students.json")
	t.Setenv("SCHOOLDESK_CONNECT_TIMEOUT", "250ms")

	cfg := ConfigFromEnv()

	assert.Equal(t, "mongodb://db.internal:27017", cfg.MongoURI)
	assert.Equal(t, "school_test", cfg.Database)
	assert.Equal(t, "/var/lib/schooldesk/students.json", cfg.DataFile)
	assert.Equal(t, 250*time.Millisecond, cfg.ConnectTimeout)
}

func TestConfigFromEnv_BadTimeoutKeepsDefault(t *testing.T) {
	t.Setenv("SCHOOLDESK_CONNECT_TIMEOUT", "soon")

	cfg := ConfigFromEnv()
	assert.Equal(t, 5*time.Second, cfg.ConnectTimeout)
}
