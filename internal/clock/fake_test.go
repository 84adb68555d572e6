package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2007, 6, 1, 23, 0, 0, 0, time.UTC)

func TestFake_AfterFiresOnAdvance(t *testing.T) {
	f := NewFake(epoch)
	ch := f.After(1500 * time.Millisecond)

	f.Advance(time.Second)
	select {
	case <-ch:
		t.Fatal("timer fired early")
	default:
	}

	f.Advance(500 * time.Millisecond)
	select {
	case at := <-ch:
		require.Equal(t, epoch.Add(1500*time.Millisecond), at)
	default:
		t.Fatal("timer did not fire")
	}
	require.Zero(t, f.Waiters())
}

func TestFake_TickerDropsUndrainedTicks(t *testing.T) {
	f := NewFake(epoch)
	tk := f.NewTicker(2 * time.Second)

	f.Advance(6 * time.Second)
	<-tk.C()
	select {
	case <-tk.C():
		t.Fatal("expected a single buffered tick")
	default:
	}

	tk.Stop()
	f.Advance(10 * time.Second)
	select {
	case <-tk.C():
		t.Fatal("stopped ticker ticked")
	default:
	}
}

func TestFake_BlockUntil(t *testing.T) {
	f := NewFake(epoch)
	done := make(chan struct{})
	go func() {
		f.BlockUntil(1)
		close(done)
	}()
	f.After(time.Second)
	<-done
	require.Equal(t, 1, f.Waiters())
}
