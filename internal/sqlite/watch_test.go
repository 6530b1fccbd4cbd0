// Tests for subscriptions and live queries.
package sqlite

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coilworks/magbook/pkg/types"
)

// waitFor polls until the condition holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestSubscribe_FiresOnWrite(t *testing.T) {
	b := setupBackend(t)

	var fired atomic.Int32
	cancel, err := b.Subscribe([]string{types.EquipmentTable}, func() {
		fired.Add(1)
	})
	require.NoError(t, err)
	defer cancel()

	addEquipment(t, b, "eq-1", "room-1", "Scanner A")
	waitFor(t, func() bool { return fired.Load() >= 1 })
}

func TestSubscribe_IgnoresOtherTables(t *testing.T) {
	b := setupBackend(t)

	var fired atomic.Int32
	cancel, err := b.Subscribe([]string{types.EventsTable}, func() {
		fired.Add(1)
	})
	require.NoError(t, err)
	defer cancel()

	addEquipment(t, b, "eq-1", "room-1", "Scanner A")

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, fired.Load())
}

func TestSubscribe_CancelStopsDelivery(t *testing.T) {
	b := setupBackend(t)

	var fired atomic.Int32
	cancel, err := b.Subscribe([]string{types.EquipmentTable}, func() {
		fired.Add(1)
	})
	require.NoError(t, err)

	cancel()
	cancel() // idempotent

	addEquipment(t, b, "eq-1", "room-1", "Scanner A")
	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, fired.Load())
}

func TestSubscribe_Detached(t *testing.T) {
	b := setupBackend(t)
	require.NoError(t, b.Detach())

	_, err := b.Subscribe([]string{types.EquipmentTable}, func() {})
	assert.ErrorIs(t, err, types.ErrStoreDetached)
}

func TestLiveQuery_DeliversFreshResults(t *testing.T) {
	b := setupBackend(t)
	table, err := b.GetTable(types.EquipmentTable)
	require.NoError(t, err)

	lq, err := b.NewLiveQuery([]string{types.EquipmentTable}, func() (any, error) {
		return table.Count()
	})
	require.NoError(t, err)
	defer lq.Close()

	// Initial run fires before any write.
	select {
	case v := <-lq.Updates:
		assert.Equal(t, 0, v)
	case <-time.After(2 * time.Second):
		t.Fatal("no initial value")
	}

	addEquipment(t, b, "eq-1", "room-1", "Scanner A")

	waitFor(t, func() bool {
		select {
		case v := <-lq.Updates:
			return v == 1
		default:
			return false
		}
	})
}

func TestLiveQuery_CoalescesBursts(t *testing.T) {
	b := setupBackend(t)
	table, err := b.GetTable(types.EquipmentTable)
	require.NoError(t, err)

	lq, err := b.NewLiveQuery([]string{types.EquipmentTable}, func() (any, error) {
		return table.Count()
	})
	require.NoError(t, err)
	defer lq.Close()

	for i := 0; i < 10; i++ {
		addEquipment(t, b, "eq-"+string(rune('a'+i)), "room-1", "Unit")
	}

	// Only the latest undrained value has to arrive; intermediate counts
	// may be dropped.
	waitFor(t, func() bool {
		select {
		case v := <-lq.Updates:
			return v == 10
		default:
			return false
		}
	})
}

func TestLiveQuery_CloseIsIdempotent(t *testing.T) {
	b := setupBackend(t)
	table, err := b.GetTable(types.EquipmentTable)
	require.NoError(t, err)

	lq, err := b.NewLiveQuery([]string{types.EquipmentTable}, func() (any, error) {
		return table.Count()
	})
	require.NoError(t, err)

	lq.Close()
	lq.Close()

	// Writes after close must not panic or deliver.
	addEquipment(t, b, "eq-1", "room-1", "Scanner A")
	time.Sleep(50 * time.Millisecond)
}
