package query

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func constant(v string) Fetcher[string] {
	return func(context.Context) (string, error) { return v, nil }
}

func TestDisabledQueryIsIdle(t *testing.T) {
	q := New[string]("route", nil)

	called := false
	st := q.Run(context.Background(), "a", false, func(context.Context) (string, error) {
		called = true
		return "x", nil
	})

	require.False(t, called)
	require.Equal(t, StatusIdle, st.Status)
	require.Empty(t, st.Data)
}

func TestResolvesActiveKey(t *testing.T) {
	q := New[string]("route", nil)

	st := q.Run(context.Background(), "a", true, constant("result-a"))
	require.True(t, st.IsResolved())
	require.Equal(t, "result-a", st.Data)
	require.Equal(t, "a", st.Key)
}

func TestRejectedKeepsError(t *testing.T) {
	q := New[string]("route", nil)
	boom := errors.New("boom")

	st := q.Run(context.Background(), "a", true, func(context.Context) (string, error) {
		return "", boom
	})
	require.True(t, st.IsRejected())
	require.ErrorIs(t, st.Err, boom)
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	q := New[string]("route", nil)

	release := make(chan struct{})
	started := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		q.Run(context.Background(), "a", true, func(context.Context) (string, error) {
			close(started)
			<-release
			return "result-a", nil
		})
	}()

	<-started
	st := q.Run(context.Background(), "b", true, constant("result-b"))
	require.Equal(t, "result-b", st.Data)

	close(release)
	wg.Wait()

	st = q.State()
	require.Equal(t, "b", st.Key)
	require.Equal(t, "result-b", st.Data)
}

func TestClosingGateDropsInFlightResponse(t *testing.T) {
	q := New[string]("route", nil)

	release := make(chan struct{})
	started := make(chan struct{})
	done := make(chan State[string])

	go func() {
		done <- q.Run(context.Background(), "a", true, func(context.Context) (string, error) {
			close(started)
			<-release
			return "result-a", nil
		})
	}()

	<-started
	q.Activate("a", false)
	close(release)
	<-done

	require.Equal(t, StatusIdle, q.State().Status)
	require.Empty(t, q.State().Data)
}

func TestResolvedKeyRefetches(t *testing.T) {
	q := New[string]("tokens", nil)

	var calls int32
	fetch := func(context.Context) (string, error) {
		return fmt.Sprintf("tokens-%d", atomic.AddInt32(&calls, 1)), nil
	}

	q.Run(context.Background(), "1", true, fetch)
	st := q.Run(context.Background(), "1", true, fetch)

	require.True(t, st.IsResolved())
	require.Equal(t, "tokens-2", st.Data)
	require.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestKey(t *testing.T) {
	require.Equal(t, "1|0xabc|100", Key(uint64(1), "0xabc", "100"))
	require.Equal(t, "", Key())
	require.NotEqual(t, Key("a", "bc"), Key("ab", "c"))
}

func TestStatusString(t *testing.T) {
	require.Equal(t, "idle", StatusIdle.String())
	require.Equal(t, "pending", StatusPending.String())
	require.Equal(t, "resolved", StatusResolved.String())
	require.Equal(t, "rejected", StatusRejected.String())
}
