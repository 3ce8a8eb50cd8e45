package guard

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestDoRunsOnce(t *testing.T) {
	g := New(10 * time.Millisecond)

	calls := 0
	ran, err := g.Do("order_processing", func() error {
		calls++
		return nil
	})
	if !ran || err != nil {
		t.Fatalf("first Do: ran=%v err=%v", ran, err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestDoDebounces(t *testing.T) {
	g := New(time.Hour)

	calls := 0
	fn := func() error { calls++; return nil }

	if ran, _ := g.Do("status_update", fn); !ran {
		t.Fatal("first invocation should run")
	}
	if ran, _ := g.Do("status_update", fn); ran {
		t.Fatal("second invocation inside the interval should be dropped")
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestDoIntervalElapsed(t *testing.T) {
	g := New(5 * time.Millisecond)

	calls := 0
	fn := func() error { calls++; return nil }

	g.Do("assignment", fn)
	time.Sleep(10 * time.Millisecond)
	if ran, _ := g.Do("assignment", fn); !ran {
		t.Fatal("invocation after the interval should run")
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
}

func TestDoCategoriesIndependent(t *testing.T) {
	g := New(time.Hour)

	if ran, _ := g.Do("a", func() error { return nil }); !ran {
		t.Fatal("category a should run")
	}
	if ran, _ := g.Do("b", func() error { return nil }); !ran {
		t.Fatal("category b should run despite a's debounce window")
	}
}

func TestDoConcurrentDrop(t *testing.T) {
	g := New(time.Nanosecond)

	started := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		g.Do("slow", func() error {
			close(started)
			<-release
			return nil
		})
	}()

	<-started
	// 実行中の同一カテゴリは捨てられる
	ran, err := g.Do("slow", func() error { return nil })
	if ran || err != nil {
		t.Fatalf("in-flight duplicate: ran=%v err=%v", ran, err)
	}
	close(release)
	wg.Wait()
}

func TestDoPropagatesError(t *testing.T) {
	g := New(time.Nanosecond)

	want := errors.New("boom")
	ran, err := g.Do("c", func() error { return want })
	if !ran {
		t.Fatal("should run")
	}
	if !errors.Is(err, want) {
		t.Fatalf("err = %v, want %v", err, want)
	}
}
