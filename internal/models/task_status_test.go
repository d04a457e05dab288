package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTaskStatus(t *testing.T) {
	for _, s := range TaskStatuses() {
		parsed, err := ParseTaskStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := ParseTaskStatus("archived")
	assert.Error(t, err)

	_, err = ParseTaskStatus("")
	assert.Error(t, err)
}

func TestTaskStatus_IsTerminal(t *testing.T) {
	assert.True(t, TaskStatusCompleted.IsTerminal())
	assert.True(t, TaskStatusFailed.IsTerminal())
	assert.False(t, TaskStatusPending.IsTerminal())
	assert.False(t, TaskStatusInProgress.IsTerminal())
	assert.False(t, TaskStatusStashed.IsTerminal())

	assert.False(t, TaskStatus("archived").IsTerminal())
}

func TestTaskStatus_ValueAndScan(t *testing.T) {
	v, err := TaskStatusInProgress.Value()
	require.NoError(t, err)
	assert.Equal(t, "in_progress", v)

	v, err = TaskStatus("").Value()
	require.NoError(t, err)
	assert.Equal(t, "pending", v)

	_, err = TaskStatus("archived").Value()
	assert.Error(t, err)

	var s TaskStatus
	require.NoError(t, s.Scan([]byte("stashed")))
	assert.Equal(t, TaskStatusStashed, s)

	require.NoError(t, s.Scan(nil))
	assert.Equal(t, TaskStatusPending, s)

	assert.Error(t, s.Scan("archived"))
	assert.Error(t, s.Scan(42))
}
