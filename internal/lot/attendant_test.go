package lot

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/atlanticdynamic/parklynx/internal/parking"
	"github.com/atlanticdynamic/parklynx/internal/tariff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type failingTariff struct{}

func (failingTariff) Fee(context.Context, tariff.Stay) (float64, error) {
	return 0, errors.New("tariff offline")
}

func (failingTariff) String() string { return "failing" }

func newAttendant(t *testing.T, capacity int, opts ...Option) (*Attendant, *fakeClock) {
	t.Helper()
	sys, err := parking.New(capacity)
	require.NoError(t, err)

	clock := &fakeClock{now: time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)}
	opts = append([]Option{WithClock(clock.Now)}, opts...)
	a, err := New(sys, opts...)
	require.NoError(t, err)
	return a, clock
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("empty core", func(t *testing.T) {
		sys, err := parking.New(2)
		require.NoError(t, err)

		a, err := New(sys)
		require.NoError(t, err)
		assert.Empty(t, a.Occupied())
		assert.Equal(t, []string{parking.LabelAvailable}, a.History())
	})

	t.Run("core with parked vehicles is rejected", func(t *testing.T) {
		sys, err := parking.New(2)
		require.NoError(t, err)
		require.NoError(t, sys.Enter(false, nil))

		a, err := New(sys)
		require.ErrorIs(t, err, ErrSlotsOutOfSync)
		assert.Contains(t, err.Error(), "1 parked")
		assert.Nil(t, a)
	})
}

func TestAdmit(t *testing.T) {
	t.Parallel()

	t.Run("assigns lowest free slot", func(t *testing.T) {
		a, clock := newAttendant(t, 3)

		idx, err := a.Admit(false, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, idx)

		clock.Advance(time.Minute)
		subscriberEntered := clock.Now()
		idx, err = a.Admit(true, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, idx)

		_, err = a.Release(t.Context(), 0, nil)
		require.NoError(t, err)

		idx, err = a.Admit(false, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, idx, "slot 0 is reused")

		occupied := a.Occupied()
		require.Len(t, occupied, 2)
		assert.Equal(t, KindVisitor, occupied[0].Kind)
		assert.Equal(t, KindSubscriber, occupied[1].Kind)
		assert.Equal(t, subscriberEntered, occupied[1].EnteredAt)
	})

	t.Run("refused when full", func(t *testing.T) {
		a, _ := newAttendant(t, 1)
		_, err := a.Admit(false, nil)
		require.NoError(t, err)

		idx, err := a.Admit(false, nil)
		require.ErrorIs(t, err, parking.ErrFull)
		assert.Equal(t, -1, idx)
		assert.Len(t, a.Occupied(), 1)
	})

	t.Run("forwards pacing", func(t *testing.T) {
		a, _ := newAttendant(t, 2)
		calls := 0
		_, err := a.Admit(false, func() { calls++ })
		require.NoError(t, err)
		assert.Equal(t, 4, calls)
	})
}

func TestRelease(t *testing.T) {
	t.Parallel()

	t.Run("visitor pays the linear tariff", func(t *testing.T) {
		a, clock := newAttendant(t, 2)
		idx, err := a.Admit(false, nil)
		require.NoError(t, err)

		clock.Advance(10 * time.Second)
		receipt, err := a.Release(t.Context(), idx, nil)
		require.NoError(t, err)
		assert.InDelta(t, 10.0, receipt.Fee, 1e-9)
		assert.Equal(t, 10*time.Second, receipt.Duration)
		assert.Equal(t, KindVisitor, receipt.Slot.Kind)

		st := a.System().Status()
		assert.InDelta(t, 10.0, st.Revenue, 1e-9)
		assert.Equal(t, 2, st.FreeSlots)
		assert.Empty(t, a.Occupied())
	})

	t.Run("subscriber leaves for free", func(t *testing.T) {
		a, clock := newAttendant(t, 2)
		idx, err := a.Admit(true, nil)
		require.NoError(t, err)

		clock.Advance(3 * time.Hour)
		receipt, err := a.Release(t.Context(), idx, nil)
		require.NoError(t, err)
		assert.Zero(t, receipt.Fee)
		assert.Zero(t, a.System().Status().Revenue)
	})

	t.Run("custom tariff", func(t *testing.T) {
		a, clock := newAttendant(t, 2, WithTariff(&tariff.Linear{Base: 1, Rate: 2, Unit: time.Hour}))
		idx, err := a.Admit(false, nil)
		require.NoError(t, err)

		clock.Advance(2 * time.Hour)
		receipt, err := a.Release(t.Context(), idx, nil)
		require.NoError(t, err)
		assert.InDelta(t, 5.0, receipt.Fee, 1e-9)
	})

	t.Run("empty and out of range slots", func(t *testing.T) {
		a, _ := newAttendant(t, 2)

		_, err := a.Release(t.Context(), 1, nil)
		require.ErrorIs(t, err, ErrSlotEmpty)

		for _, idx := range []int{-1, 2, 10} {
			_, err = a.Release(t.Context(), idx, nil)
			require.ErrorIs(t, err, ErrSlotOutOfRange)
		}
	})

	t.Run("tariff failure keeps the vehicle parked", func(t *testing.T) {
		a, _ := newAttendant(t, 2, WithTariff(failingTariff{}))
		idx, err := a.Admit(false, nil)
		require.NoError(t, err)

		_, err = a.Release(t.Context(), idx, nil)
		require.Error(t, err)
		assert.Len(t, a.Occupied(), 1)
		assert.Equal(t, 1, a.System().Status().FreeSlots)
	})
}

func TestReleaseRandom(t *testing.T) {
	t.Parallel()

	t.Run("nothing parked", func(t *testing.T) {
		a, _ := newAttendant(t, 2)
		_, err := a.ReleaseRandom(t.Context(), nil)
		require.ErrorIs(t, err, parking.ErrEmpty)
	})

	t.Run("drains every slot", func(t *testing.T) {
		a, _ := newAttendant(t, 4, WithRand(rand.New(rand.NewPCG(1, 2))))
		for range 4 {
			_, err := a.Admit(false, nil)
			require.NoError(t, err)
		}

		seen := map[int]bool{}
		for range 4 {
			receipt, err := a.ReleaseRandom(t.Context(), nil)
			require.NoError(t, err)
			assert.False(t, seen[receipt.Slot.Index], "slot released twice")
			seen[receipt.Slot.Index] = true
		}
		assert.Len(t, seen, 4)
		assert.Equal(t, 4, a.System().Status().FreeSlots)
	})
}

func TestHistory(t *testing.T) {
	t.Parallel()

	t.Run("entry sequence", func(t *testing.T) {
		a, _ := newAttendant(t, 2)
		assert.Equal(t, []string{parking.LabelAvailable}, a.History())

		_, err := a.Admit(false, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{
			parking.LabelAvailable,
			parking.LabelIdentifying,
			parking.LabelAccessCheck,
			parking.LabelEntryGateOpen,
			parking.LabelParked,
		}, a.History())
	})

	t.Run("exit appends and a new entry resets", func(t *testing.T) {
		a, _ := newAttendant(t, 2)
		idx, err := a.Admit(true, nil)
		require.NoError(t, err)
		_, err = a.Release(t.Context(), idx, nil)
		require.NoError(t, err)

		history := a.History()
		assert.Equal(t, []string{
			parking.LabelParked,
			parking.LabelFeeCalc,
			parking.LabelExitGateOpen,
			parking.LabelAvailable,
		}, history[len(history)-4:])

		_, err = a.Admit(false, nil)
		require.NoError(t, err)
		assert.Equal(t, parking.LabelAvailable, a.History()[0])
		assert.Len(t, a.History(), 5)
	})

	t.Run("full facility ends on COMPLET", func(t *testing.T) {
		a, _ := newAttendant(t, 1)
		_, err := a.Admit(false, nil)
		require.NoError(t, err)

		history := a.History()
		assert.Equal(t, parking.LabelFull, history[len(history)-1])

		_, err = a.Admit(false, nil)
		require.ErrorIs(t, err, parking.ErrFull)
		assert.Equal(t, history, a.History(), "refusal adds no duplicate")
	})

	t.Run("history is a copy", func(t *testing.T) {
		a, _ := newAttendant(t, 1)
		h := a.History()
		h[0] = "mutated"
		assert.Equal(t, parking.LabelAvailable, a.History()[0])
	})
}

func TestSnapshot(t *testing.T) {
	t.Parallel()

	a, _ := newAttendant(t, 3)
	_, err := a.Admit(false, nil)
	require.NoError(t, err)

	snap := a.Snapshot()
	assert.Equal(t, 2, snap.Status.FreeSlots)
	require.Len(t, snap.Slots, 1)
	assert.Equal(t, 0, snap.Slots[0].Index)
	assert.NotEmpty(t, snap.History)
	assert.Equal(t, KindSubscriber, KindOf(true))
}
