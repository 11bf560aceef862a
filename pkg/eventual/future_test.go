package eventual

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func awaitShort[T any](t *testing.T, f *Future[T]) (T, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return f.Await(ctx)
}

func TestFutureResolve(t *testing.T) {
	f := NewFuture[int]()
	assert.False(t, f.Settled())

	_, ok := f.Outcome()
	assert.False(t, ok)

	assert.True(t, f.Resolve(7))
	assert.False(t, f.Resolve(8), "second settle must be ignored")
	assert.False(t, f.Reject("late"), "reject after resolve must be ignored")

	v, err := awaitShort(t, f)
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	o, ok := f.Outcome()
	require.True(t, ok)
	assert.False(t, o.Rejected)
}

func TestFutureRejectWithError(t *testing.T) {
	boom := errors.New("boom")
	f := Rejected[string](boom)

	_, err := awaitShort(t, f)
	assert.Same(t, boom, err)
}

func TestFutureRejectWithNonError(t *testing.T) {
	f := Rejected[string]("boom")

	_, err := awaitShort(t, f)
	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "boom", rejected.Reason)
	assert.Equal(t, "eventual: rejected: boom", err.Error())
}

func TestFutureRejectWithNil(t *testing.T) {
	f := Rejected[int](nil)

	o, ok := f.Outcome()
	require.True(t, ok)
	assert.True(t, o.Rejected)
	assert.Nil(t, o.Reason)

	_, err := awaitShort(t, f)
	assert.Error(t, err, "a nil rejection is still a failure for Await")
}

func TestFutureAwaitContextCancelled(t *testing.T) {
	f := NewFuture[int]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Await(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFutureDone(t *testing.T) {
	f := NewFuture[int]()

	select {
	case <-f.Done():
		t.Fatal("Done should block while pending")
	default:
	}

	f.Resolve(1)

	select {
	case <-f.Done():
	case <-time.After(time.Second):
		t.Fatal("Done should be closed after settle")
	}
}

func TestFutureOnSettleBeforeAndAfter(t *testing.T) {
	f := NewFuture[int]()

	var wg sync.WaitGroup
	results := make(chan Outcome[int], 2)

	wg.Add(2)
	f.OnSettle(func(o Outcome[int]) {
		defer wg.Done()
		results <- o
	})
	f.Resolve(3)
	f.OnSettle(func(o Outcome[int]) {
		defer wg.Done()
		results <- o
	})
	wg.Wait()
	close(results)

	for o := range results {
		assert.Equal(t, 3, o.Value)
	}
}

func TestFutureOnSettleIsAsynchronous(t *testing.T) {
	f := Resolved(1)

	release := make(chan struct{})
	called := make(chan struct{})
	f.OnSettle(func(Outcome[int]) {
		<-release
		close(called)
	})

	// Reaching this line proves the callback did not run inline.
	close(release)

	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("callback never ran")
	}
}

func TestGo(t *testing.T) {
	v, err := awaitShort(t, Go(func() (int, error) { return 5, nil }))
	require.NoError(t, err)
	assert.Equal(t, 5, v)

	boom := errors.New("boom")
	_, err = awaitShort(t, Go(func() (int, error) { return 0, boom }))
	assert.ErrorIs(t, err, boom)

	_, err = awaitShort(t, Go(func() (int, error) { panic(boom) }))
	assert.ErrorIs(t, err, boom)

	_, err = awaitShort(t, Go[int](nil))
	assert.ErrorIs(t, err, ErrNilProducer)
}
