package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPollerFetchesImmediatelyThenOnTick(t *testing.T) {
	n := 0
	p := NewPoller[int]("block", 5*time.Millisecond, func(context.Context) (int, error) {
		n++
		return n, nil
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	var got []int
	p.Run(ctx, func(v int, err error) {
		require.NoError(t, err)
		got = append(got, v)
		if len(got) == 3 {
			cancel()
		}
	})

	require.Equal(t, []int{1, 2, 3}, got)
}

func TestPollerSingleShot(t *testing.T) {
	calls := 0
	p := NewPoller[string]("price", 0, func(context.Context) (string, error) {
		calls++
		return "", errors.New("unavailable")
	}, nil)

	var lastErr error
	p.Run(context.Background(), func(_ string, err error) { lastErr = err })

	require.Equal(t, 1, calls)
	require.EqualError(t, lastErr, "unavailable")
}
