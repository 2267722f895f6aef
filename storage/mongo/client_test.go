package mongo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schooldesk/schooldesk/storage"
)

func TestCollection_BeforeConnect(t *testing.T) {
	client := NewClient("mongodb://localhost:27017", "schooldesk", nil)

	_, err := client.Collection("students")
	assert.ErrorIs(t, err, storage.ErrNotConnected)
}

func TestDisconnect_Idempotent(t *testing.T) {
	client := NewClient("mongodb://localhost:27017", "schooldesk", nil)

	require.NoError(t, client.Disconnect(context.Background()))
	require.NoError(t, client.Disconnect(context.Background()))
}
