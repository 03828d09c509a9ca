package worker

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExpireSweepTask(t *testing.T) {
	task, err := NewExpireSweepTask(15*time.Minute, 200)
	require.NoError(t, err)
	assert.Equal(t, TypeExpireSweep, task.Type())

	var p ExpireSweepPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.Equal(t, 15, p.TTLMinutes)
	assert.Equal(t, 200, p.Limit)
}

func TestExpireSweepPayloadCutoff(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	p := ExpireSweepPayload{TTLMinutes: 15, Limit: 100}
	assert.Equal(t, now.Add(-15*time.Minute), p.Cutoff(now))

	// A booking created before the cutoff is stale, one created after
	// it is still inside its grace window.
	stale := now.Add(-16 * time.Minute)
	fresh := now.Add(-14 * time.Minute)
	assert.True(t, stale.Before(p.Cutoff(now)))
	assert.False(t, fresh.Before(p.Cutoff(now)))
}
