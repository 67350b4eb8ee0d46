package rider_test

import (
	"testing"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/rider"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRider(t *testing.T, status rider.Status, current, max int) *rider.Rider {
	t.Helper()
	loc, err := kernel.NewLocation(12.97, 77.59)
	require.NoError(t, err)
	capacity, err := rider.NewCapacity(current, max)
	require.NoError(t, err)

	r, err := rider.NewRider("R-1", "Asha", status, &loc, capacity, 10, 4.5, nil)
	require.NoError(t, err)
	return r
}

func TestNewCapacity(t *testing.T) {
	t.Run("enforces bounds", func(t *testing.T) {
		_, err := rider.NewCapacity(-1, 3)
		require.Error(t, err)

		_, err = rider.NewCapacity(4, 3)
		require.Error(t, err)

		_, err = rider.NewCapacity(0, 0)
		require.Error(t, err)

		c, err := rider.NewCapacity(2, 3)
		require.NoError(t, err)
		assert.Equal(t, 2, c.Current())
		assert.Equal(t, 3, c.Max())
		assert.False(t, c.IsFull())
	})

	t.Run("increment stops at max", func(t *testing.T) {
		c, _ := rider.NewCapacity(2, 3)

		c, err := c.Increment()
		require.NoError(t, err)
		assert.True(t, c.IsFull())

		_, err = c.Increment()
		require.ErrorIs(t, err, rider.ErrCapacityExceeded)
	})

	t.Run("decrement floors at zero", func(t *testing.T) {
		c, _ := rider.NewCapacity(0, 3)
		assert.Equal(t, 0, c.Decrement().Current())
	})
}

func TestNewRider(t *testing.T) {
	t.Run("creates valid rider", func(t *testing.T) {
		r := newTestRider(t, rider.Idle, 0, 3)

		assert.Equal(t, "R-1", r.ID())
		assert.Equal(t, rider.Idle, r.Status())
		assert.Nil(t, r.CurrentOrderID())
		require.NoError(t, r.Validate())
	})

	t.Run("allows nil location", func(t *testing.T) {
		capacity, _ := rider.NewCapacity(0, 2)
		r, err := rider.NewRider("R-2", "Ravi", rider.Online, nil, capacity, 15, 3.9, nil)

		require.NoError(t, err)
		assert.Nil(t, r.Location())
	})

	t.Run("rejects rating out of range", func(t *testing.T) {
		capacity, _ := rider.NewCapacity(0, 2)
		_, err := rider.NewRider("R-2", "Ravi", rider.Online, nil, capacity, 15, 5.1, nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "rating")
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		capacity, _ := rider.NewCapacity(0, 2)
		_, err := rider.NewRider("R-2", "Ravi", rider.Status("sleeping"), nil, capacity, 15, 4, nil)

		require.Error(t, err)
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var r rider.Rider
		require.ErrorIs(t, r.Validate(), rider.ErrRiderIsNotConstructed)
	})
}

func TestRider_AcceptOrder(t *testing.T) {
	t.Run("idle rider becomes busy with load 1", func(t *testing.T) {
		r := newTestRider(t, rider.Idle, 0, 3)

		err := r.AcceptOrder("ORD-9001")

		require.NoError(t, err)
		assert.Equal(t, rider.Busy, r.Status())
		assert.Equal(t, 1, r.Capacity().Current())
		assert.Equal(t, "ORD-9001", *r.CurrentOrderID())
	})

	t.Run("busy rider with spare capacity stays busy", func(t *testing.T) {
		r := newTestRider(t, rider.Busy, 1, 3)

		err := r.AcceptOrder("ORD-9002")

		require.NoError(t, err)
		assert.Equal(t, rider.Busy, r.Status())
		assert.Equal(t, 2, r.Capacity().Current())
	})

	t.Run("offline rider is unavailable", func(t *testing.T) {
		r := newTestRider(t, rider.Offline, 0, 3)

		err := r.AcceptOrder("ORD-9001")

		require.ErrorIs(t, err, rider.ErrRiderUnavailable)
		assert.Equal(t, 0, r.Capacity().Current())
	})

	t.Run("full rider exceeds capacity", func(t *testing.T) {
		r := newTestRider(t, rider.Busy, 3, 3)

		err := r.AcceptOrder("ORD-9001")

		require.ErrorIs(t, err, rider.ErrCapacityExceeded)
		assert.Equal(t, 3, r.Capacity().Current())
	})

	t.Run("load never exceeds max across repeated accepts", func(t *testing.T) {
		r := newTestRider(t, rider.Idle, 0, 2)

		require.NoError(t, r.AcceptOrder("ORD-1"))
		require.NoError(t, r.AcceptOrder("ORD-2"))
		require.ErrorIs(t, r.AcceptOrder("ORD-3"), rider.ErrCapacityExceeded)

		assert.LessOrEqual(t, r.Capacity().Current(), r.Capacity().Max())
	})
}

func TestRider_ReleaseOrder(t *testing.T) {
	t.Run("releasing last order demotes busy to idle", func(t *testing.T) {
		r := newTestRider(t, rider.Idle, 0, 3)
		require.NoError(t, r.AcceptOrder("ORD-9001"))

		err := r.ReleaseOrder("ORD-9001")

		require.NoError(t, err)
		assert.Equal(t, rider.Idle, r.Status())
		assert.Equal(t, 0, r.Capacity().Current())
		assert.Nil(t, r.CurrentOrderID())
	})

	t.Run("releasing one of several keeps busy", func(t *testing.T) {
		r := newTestRider(t, rider.Idle, 0, 3)
		require.NoError(t, r.AcceptOrder("ORD-1"))
		require.NoError(t, r.AcceptOrder("ORD-2"))

		err := r.ReleaseOrder("ORD-1")

		require.NoError(t, err)
		assert.Equal(t, rider.Busy, r.Status())
		assert.Equal(t, 1, r.Capacity().Current())
		// ORD-2 is still the most recent assignment pointer.
		assert.Equal(t, "ORD-2", *r.CurrentOrderID())
	})

	t.Run("release floors load at zero", func(t *testing.T) {
		r := newTestRider(t, rider.Idle, 0, 3)

		err := r.ReleaseOrder("ORD-9001")

		require.NoError(t, err)
		assert.Equal(t, 0, r.Capacity().Current())
	})
}
