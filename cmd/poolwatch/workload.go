package main

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
	"unsafe"

	"github.com/jmain9906/mcodepool/mcode"
)

func addrOf(mem []byte) uintptr {
	return uintptr(unsafe.Pointer(&mem[0]))
}

const (
	minRate = 1
	maxRate = 64
)

// event is one line in the activity feed.
type event struct {
	at   time.Time
	text string
}

// workload churns a pool with seeded random acquires and releases, one batch
// per UI tick. It runs on the UI goroutine; pool operations are microseconds,
// so stepping inline keeps the model free of its own locking.
type workload struct {
	rng  *rand.Rand
	live [][]byte
	rate int // operations per tick
}

func newWorkload(seed int64) *workload {
	return &workload{
		rng:  rand.New(rand.NewSource(seed)),
		rate: 4,
	}
}

// step runs one batch against pool and reports what happened.
func (w *workload) step(pool *mcode.Pool) []event {
	events := make([]event, 0, w.rate)
	for i := 0; i < w.rate; i++ {
		if len(w.live) > 0 && w.rng.Intn(100) < 45 {
			events = append(events, w.releaseOne(pool, w.rng.Intn(len(w.live))))
			continue
		}

		blocks := 1 + w.rng.Intn(4)
		mem, err := pool.Acquire(blocks*mcode.BlockSize, mcode.ProtRW)
		if errors.Is(err, mcode.ErrNoSpace) {
			if len(w.live) == 0 {
				events = append(events, event{time.Now(), "pool full, nothing to drop"})
				continue
			}
			events = append(events, w.releaseOne(pool, w.rng.Intn(len(w.live))))
			continue
		}
		if err != nil {
			events = append(events, event{time.Now(), fmt.Sprintf("acquire failed: %v", err)})
			continue
		}
		mem[0] = 0xC3
		w.live = append(w.live, mem)
		events = append(events, event{time.Now(),
			fmt.Sprintf("acquired %d at %#x", blocks, addrOf(mem))})
	}
	return events
}

func (w *workload) releaseOne(pool *mcode.Pool, k int) event {
	mem := w.live[k]
	w.live[k] = w.live[len(w.live)-1]
	w.live = w.live[:len(w.live)-1]
	if err := pool.Release(mem); err != nil {
		return event{time.Now(), fmt.Sprintf("release failed: %v", err)}
	}
	return event{time.Now(),
		fmt.Sprintf("released %d at %#x", len(mem)/mcode.BlockSize, addrOf(mem))}
}

// drain returns every live grant to the pool.
func (w *workload) drain(pool *mcode.Pool) {
	for _, mem := range w.live {
		_ = pool.Release(mem)
	}
	w.live = nil
}

func (w *workload) faster() { w.rate = min(w.rate*2, maxRate) }
func (w *workload) slower() { w.rate = max(w.rate/2, minRate) }
