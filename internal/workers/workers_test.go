package workers

import (
	"context"
	"testing"
	"time"

	"github.com/fintrack/ledger-sync/internal/logger"
	"github.com/fintrack/ledger-sync/internal/mock"
	"github.com/fintrack/ledger-sync/internal/service"
	"github.com/fintrack/ledger-sync/models"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestTriggerWorker_DrainsQueue(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	coordinator := mock.NewMockSyncCoordinator(ctrl)
	trigger := service.NewSyncTrigger(4, logger.Nop())

	synced := make(chan string, 1)
	coordinator.EXPECT().Run(gomock.Any(), "item-1", false).
		DoAndReturn(func(ctx context.Context, itemID string, force bool) (models.SyncOutcome, error) {
			synced <- itemID
			return models.SyncOutcome{Status: models.OutcomeCompleted}, nil
		})

	worker := newTriggerWorker(coordinator, trigger, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go worker.Run(ctx)

	require.True(t, trigger.EnqueueSync("item-1"))

	select {
	case itemID := <-synced:
		require.Equal(t, "item-1", itemID)
	case <-time.After(2 * time.Second):
		t.Fatal("trigger worker did not pick up the queued sync")
	}
}

func TestSweepWorker_SyncsEverySyncableItem(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	coordinator := mock.NewMockSyncCoordinator(ctrl)
	states := mock.NewMockSyncStateRepository(ctrl)

	states.EXPECT().ListSyncableItems(gomock.Any()).Return([]string{"item-1", "item-2"}, nil).MinTimes(1)

	synced := make(chan string, 8)
	coordinator.EXPECT().Run(gomock.Any(), gomock.Any(), false).
		DoAndReturn(func(ctx context.Context, itemID string, force bool) (models.SyncOutcome, error) {
			synced <- itemID
			return models.SyncOutcome{Status: models.OutcomeCompleted}, nil
		}).MinTimes(2)

	worker := newSweepWorker(coordinator, states, 10*time.Millisecond, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go worker.Run(ctx)

	got := map[string]bool{}
	timeout := time.After(2 * time.Second)
	for len(got) < 2 {
		select {
		case itemID := <-synced:
			got[itemID] = true
		case <-timeout:
			t.Fatalf("sweep did not reach every item, got %v", got)
		}
	}

	require.True(t, got["item-1"])
	require.True(t, got["item-2"])
}

func TestWorkers_RunAndWait_StopOnCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	coordinator := mock.NewMockSyncCoordinator(ctrl)
	states := mock.NewMockSyncStateRepository(ctrl)
	states.EXPECT().ListSyncableItems(gomock.Any()).Return(nil, nil).AnyTimes()

	trigger := service.NewSyncTrigger(1, logger.Nop())

	w := &Workers{
		workers: []Worker{
			newSweepWorker(coordinator, states, 10*time.Millisecond, logger.Nop()),
			newTriggerWorker(coordinator, trigger, logger.Nop()),
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.Run(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		w.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("workers did not stop after context cancellation")
	}
}
