package inflight_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/myrjola/roteiros/internal/inflight"
	"github.com/stretchr/testify/require"
)

func TestGuard(t *testing.T) {
	type testCase struct {
		name     string
		testFunc func(g *inflight.Guard[string])
	}
	tests := []testCase{
		{
			name: "second acquire of the same id is rejected until release",
			testFunc: func(g *inflight.Guard[string]) {
				require.True(t, g.TryAcquire("episode-1"))
				require.False(t, g.TryAcquire("episode-1"), "overlapping acquire accepted")
				require.True(t, g.TryAcquire("episode-2"), "different id blocked")
				g.Release("episode-1")
				require.True(t, g.TryAcquire("episode-1"), "released id not acquirable")
			},
		},
		{
			name: "only one of many concurrent acquirers wins",
			testFunc: func(g *inflight.Guard[string]) {
				var (
					wg      sync.WaitGroup
					winners atomic.Int32
				)
				for range 50 {
					wg.Add(1)
					go func() {
						defer wg.Done()
						if g.TryAcquire("episode-1") {
							winners.Add(1)
						}
					}()
				}
				wg.Wait()
				require.Equal(t, int32(1), winners.Load())
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := inflight.NewGuard[string]()
			go g.Start()
			t.Cleanup(func() {
				g.Stop()
			})
			tt.testFunc(g)
		})
	}
}

func TestGuard_stopped(t *testing.T) {
	g := inflight.NewGuard[string]()
	done := make(chan struct{})
	go func() {
		g.Start()
		close(done)
	}()
	g.Stop()
	<-done
	require.False(t, g.TryAcquire("episode-1"))
	g.Release("episode-1")
}
