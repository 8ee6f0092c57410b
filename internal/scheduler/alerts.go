package scheduler

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sandeepkv93/keel/internal/model"
)

var (
	ErrInvalidAlertTime = errors.New("scheduler: invalid alert time")
	ErrAlertsStopped    = errors.New("scheduler: alert engine stopped")
)

// BlockAlert fires when a scheduled time block is about to begin.
type BlockAlert struct {
	BlockID  string
	TaskID   string
	Title    string
	StartsAt time.Time
}

type alertQueue []BlockAlert

func (q alertQueue) Len() int           { return len(q) }
func (q alertQueue) Less(i, j int) bool { return q[i].StartsAt.Before(q[j].StartsAt) }
func (q alertQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

func (q *alertQueue) Push(x any) {
	*q = append(*q, x.(BlockAlert))
}

func (q *alertQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// AlertEngine delivers BlockAlerts on C() in start-time order. Delivery never
// blocks the engine: alerts that find the channel full are counted as dropped.
type AlertEngine struct {
	mu      sync.Mutex
	queue   alertQueue
	out     chan BlockAlert
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped uint64
}

func NewAlertEngine(bufferSize int) *AlertEngine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &AlertEngine{
		queue:  make(alertQueue, 0),
		out:    make(chan BlockAlert, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

func (e *AlertEngine) C() <-chan BlockAlert {
	return e.out
}

func (e *AlertEngine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	heap.Init(&e.queue)
	go e.run()
}

func (e *AlertEngine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

// Arm queues an alert. Arming a block that is already queued replaces the
// earlier alert, so re-planning a day does not double-notify.
func (e *AlertEngine) Arm(a BlockAlert) error {
	if a.StartsAt.IsZero() {
		return ErrInvalidAlertTime
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrAlertsStopped
	}
	for i := range e.queue {
		if a.BlockID != "" && e.queue[i].BlockID == a.BlockID {
			e.queue[i] = a
			heap.Fix(&e.queue, i)
			e.poke()
			return nil
		}
	}
	heap.Push(&e.queue, a)
	e.poke()
	return nil
}

func (e *AlertEngine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

func (e *AlertEngine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

func (e *AlertEngine) run() {
	defer close(e.doneCh)
	defer close(e.out)

	var timer *time.Timer
	for {
		next, ok := e.peek()
		if !ok {
			select {
			case <-e.wakeup:
				continue
			case <-e.stopCh:
				return
			}
		}

		wait := time.Until(next.StartsAt)
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			for _, a := range e.popDue(time.Now()) {
				select {
				case e.out <- a:
				default:
					atomic.AddUint64(&e.dropped, 1)
				}
			}
		case <-e.wakeup:
			continue
		case <-e.stopCh:
			stopTimer(timer)
			return
		}
	}
}

func (e *AlertEngine) poke() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

func (e *AlertEngine) peek() (BlockAlert, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return BlockAlert{}, false
	}
	return e.queue[0], true
}

func (e *AlertEngine) popDue(now time.Time) []BlockAlert {
	e.mu.Lock()
	defer e.mu.Unlock()
	var due []BlockAlert
	for len(e.queue) > 0 && !e.queue[0].StartsAt.After(now) {
		due = append(due, heap.Pop(&e.queue).(BlockAlert))
	}
	return due
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}

// AlertsFor converts the not-yet-started, incomplete blocks into alerts that
// fire lead before each block starts. Blocks with bad dates or clocks are
// skipped.
func AlertsFor(blocks []model.TimeBlock, now time.Time, lead time.Duration) []BlockAlert {
	out := make([]BlockAlert, 0, len(blocks))
	for _, b := range blocks {
		if b.Completed {
			continue
		}
		day, err := time.ParseInLocation(model.DateLayout, b.Date, now.Location())
		if err != nil {
			continue
		}
		start, err := model.ParseClock(b.StartTime)
		if err != nil {
			continue
		}
		at := day.Add(time.Duration(start)*time.Minute - lead)
		if at.Before(now) {
			continue
		}
		out = append(out, BlockAlert{BlockID: b.ID, TaskID: b.TaskID, Title: b.Title, StartsAt: at})
	}
	return out
}
