package parallel

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestFor_VisitsEveryIndexOnce(t *testing.T) {
	const n = 1000
	var counts [n]atomic.Int32
	For(n, func(y int) {
		counts[y].Add(1)
	})
	for i := range counts {
		if got := counts[i].Load(); got != 1 {
			t.Fatalf("index %d visited %d times, want 1", i, got)
		}
	}
}

func TestFor_ZeroAndNegative(t *testing.T) {
	called := false
	For(0, func(int) { called = true })
	For(-3, func(int) { called = true })
	if called {
		t.Error("expected fn not to be called for n <= 0")
	}
}

func TestForStop_StopsEarly(t *testing.T) {
	var visited atomic.Int32
	stopped := ForStop(10000, func(y int) bool {
		visited.Add(1)
		return y == 0
	})
	if !stopped {
		t.Fatal("expected ForStop to report a stop")
	}
	if visited.Load() >= 10000 {
		t.Errorf("expected early stop, visited %d", visited.Load())
	}
}

func TestMap_PreservesOrder(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5, 6, 7}
	got := Map(context.Background(), items, 3, func(_ context.Context, i int, item int) int {
		// later items finish first
		time.Sleep(time.Duration(len(items)-i) * time.Millisecond)
		return item * 10
	})
	for i, v := range got {
		if v != i*10 {
			t.Fatalf("result[%d] = %d, want %d", i, v, i*10)
		}
	}
}

func TestMap_BoundsConcurrency(t *testing.T) {
	const workers = 2
	var (
		mu      sync.Mutex
		current int
		peak    int
	)
	items := make([]int, 12)
	Map(context.Background(), items, workers, func(_ context.Context, _ int, _ int) struct{} {
		mu.Lock()
		current++
		if current > peak {
			peak = current
		}
		mu.Unlock()

		time.Sleep(2 * time.Millisecond)

		mu.Lock()
		current--
		mu.Unlock()
		return struct{}{}
	})
	if peak > workers {
		t.Errorf("peak concurrency %d exceeds pool size %d", peak, workers)
	}
}

func TestMap_Empty(t *testing.T) {
	got := Map(context.Background(), []string{}, 4, func(_ context.Context, _ int, s string) string { return s })
	if len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
}

func TestMap_SlowItemDoesNotBlockOthers(t *testing.T) {
	items := make([]int, 6)
	release := make(chan struct{})
	var done atomic.Int32
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		Map(context.Background(), items, 2, func(_ context.Context, i int, _ int) struct{} {
			if i == 0 {
				<-release
			} else {
				done.Add(1)
			}
			return struct{}{}
		})
	}()

	// with one worker parked on item 0 the other still drains the rest
	deadline := time.Now().Add(5 * time.Second)
	for done.Load() < 5 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	close(release)
	<-finished
	if got := done.Load(); got != 5 {
		t.Errorf("expected the other items to finish while item 0 was blocked, got %d", got)
	}
}

func TestMap_NonPositiveWorkersUsesDefault(t *testing.T) {
	got := Map(context.Background(), []int{1, 2, 3}, 0, func(_ context.Context, _ int, v int) int { return v * 2 })
	if len(got) != 3 || got[0] != 2 || got[1] != 4 || got[2] != 6 {
		t.Errorf("unexpected results %v", got)
	}
}
