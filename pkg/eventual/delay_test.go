package eventual

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTimers captures AfterFunc calls so tests can fire them by hand.
type fakeTimers struct {
	delays []time.Duration
	fns    []func()
}

func installFakeTimers(t *testing.T) *fakeTimers {
	t.Helper()
	ft := &fakeTimers{}
	orig := AfterFunc
	AfterFunc = func(d time.Duration, fn func()) {
		ft.delays = append(ft.delays, d)
		ft.fns = append(ft.fns, fn)
	}
	t.Cleanup(func() { AfterFunc = orig })
	return ft
}

func (ft *fakeTimers) fire() {
	fns := ft.fns
	ft.fns = nil
	for _, fn := range fns {
		fn()
	}
}

func TestDelayZeroResolvesImmediately(t *testing.T) {
	ft := installFakeTimers(t)

	f := Delay(42, 0)
	assert.True(t, f.Settled(), "zero delay must not wait for a timer")
	assert.Empty(t, ft.delays)

	v, err := awaitShort(t, f)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestDelayNegativeIsImmediate(t *testing.T) {
	ft := installFakeTimers(t)

	f := Delay("x", -time.Second)
	assert.True(t, f.Settled())
	assert.Empty(t, ft.delays)
}

func TestDelayWaitsForTimer(t *testing.T) {
	ft := installFakeTimers(t)

	f := Delay("later", 10*time.Millisecond)
	assert.False(t, f.Settled())
	require.Equal(t, []time.Duration{10 * time.Millisecond}, ft.delays)

	ft.fire()
	v, err := awaitShort(t, f)
	require.NoError(t, err)
	assert.Equal(t, "later", v)
}

func TestDelayFuncInvokesOnlyWhenDue(t *testing.T) {
	ft := installFakeTimers(t)

	calls := 0
	f := DelayFunc(func() int {
		calls++
		return 42
	}, 5*time.Millisecond)

	assert.Equal(t, 0, calls, "producer must not run before the delay elapses")

	ft.fire()
	v, err := awaitShort(t, f)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, calls)
}

func TestDelayFuncRealTimer(t *testing.T) {
	start := time.Now()
	v, err := awaitShort(t, DelayFunc(func() int { return 42 }, 5*time.Millisecond))

	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)
}

func TestDelayFuncPanicRejects(t *testing.T) {
	boom := errors.New("boom")
	f := DelayFunc(func() int { panic(boom) }, 0)

	o, ok := f.Outcome()
	require.True(t, ok)
	assert.True(t, o.Rejected)
	assert.Same(t, boom, o.Reason)

	_, err := awaitShort(t, f)
	assert.Same(t, boom, err)
}

func TestDelayFuncPanicNonError(t *testing.T) {
	f := DelayFunc(func() string { panic("bad input") }, 0)

	o, _ := f.Outcome()
	assert.True(t, o.Rejected)
	assert.Equal(t, "bad input", o.Reason)
}

func TestDelayFuncNil(t *testing.T) {
	_, err := awaitShort(t, DelayFunc[int](nil, time.Millisecond))
	assert.ErrorIs(t, err, ErrNilProducer)
}

func TestDelayErr(t *testing.T) {
	boom := errors.New("boom")

	_, err := awaitShort(t, DelayErr(func() (int, error) { return 0, boom }, 0))
	assert.ErrorIs(t, err, boom)

	v, err := awaitShort(t, DelayErr(func() (int, error) { return 9, nil }, 0))
	require.NoError(t, err)
	assert.Equal(t, 9, v)

	_, err = awaitShort(t, DelayErr[int](nil, 0))
	assert.ErrorIs(t, err, ErrNilProducer)
}
