package audit

import (
	"context"
	"sync"

	"github.com/neillmakeup/studio-api/internal/logger"
)

type Event struct {
	UserID   *uint
	Action   string
	Entity   string
	EntityID *uint
	Metadata any
}

type Dispatcher struct {
	logger *Logger
	log    *logger.Logger
	queue  chan Event
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(l *Logger, log *logger.Logger) *Dispatcher {
	d := &Dispatcher{
		logger: l,
		log:    log,
		queue:  make(chan Event, 100),
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for ev := range d.queue {
		if err := d.logger.Log(context.Background(), ev); err != nil {
			d.log.Error(context.Background(), "audit write failed", err)
		}
	}
}

// Dispatch never blocks the request; when the queue is full or closed the
// event is dropped. A nil dispatcher is a no-op.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.log.Warn(context.Background(), "audit closed, dropping event "+ev.Action)
		return
	}
	select {
	case d.queue <- ev:
	default:
		d.log.Warn(context.Background(), "audit queue full, dropping event "+ev.Action)
	}
}

// Close drains the queue and waits for the worker.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	d.wg.Wait()
}
