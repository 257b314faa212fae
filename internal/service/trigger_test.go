package service

import (
	"testing"

	"github.com/fintrack/ledger-sync/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncTrigger_EnqueueAndDrain(t *testing.T) {
	trigger := NewSyncTrigger(2, logger.Nop())

	require.True(t, trigger.EnqueueSync("item-1"))
	require.True(t, trigger.EnqueueSync("item-2"))

	assert.Equal(t, "item-1", <-trigger.Triggers())
	assert.Equal(t, "item-2", <-trigger.Triggers())
}

func TestSyncTrigger_FullQueue_DropsTrigger(t *testing.T) {
	trigger := NewSyncTrigger(1, logger.Nop())

	require.True(t, trigger.EnqueueSync("item-1"))

	// queue is full: the trigger is dropped, never blocks the caller
	assert.False(t, trigger.EnqueueSync("item-2"))

	assert.Equal(t, "item-1", <-trigger.Triggers())
}

func TestSyncTrigger_NonPositiveCapacity_StillQueues(t *testing.T) {
	trigger := NewSyncTrigger(0, logger.Nop())

	require.True(t, trigger.EnqueueSync("item-1"))
	assert.Equal(t, "item-1", <-trigger.Triggers())
}
