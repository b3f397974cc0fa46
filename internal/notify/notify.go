package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/neillmakeup/studio-api/internal/logger"
	"github.com/neillmakeup/studio-api/internal/models"
)

// Notifier sends a short text to the studio owner.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

type Noop struct{}

func (Noop) Notify(context.Context, string) error { return nil }

// Queue delivers notifications from a background worker so a slow or
// unreachable provider never delays a request.
type Queue struct {
	next  Notifier
	log   *logger.Logger
	queue chan string
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewQueue(next Notifier, log *logger.Logger) *Queue {
	q := &Queue{
		next:  next,
		log:   log,
		queue: make(chan string, 50),
	}
	q.wg.Add(1)
	go q.worker()
	return q
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for text := range q.queue {
		if err := q.next.Notify(context.Background(), text); err != nil {
			q.log.Error(context.Background(), "notification failed", err)
		}
	}
}

// Notify drops the message when the queue is full or closed.
func (q *Queue) Notify(ctx context.Context, text string) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		q.log.Warn(ctx, "notification queue closed, dropping message")
		return nil
	}
	select {
	case q.queue <- text:
	default:
		q.log.Warn(ctx, "notification queue full, dropping message")
	}
	return nil
}

func (q *Queue) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.queue)
	}
	q.mu.Unlock()
	q.wg.Wait()
}

// ======================================================
// MESSAGES
// ======================================================

func NewBookingText(r *models.Reservation, user *models.User, svc *models.Service) string {
	who, what := "?", "?"
	if user != nil {
		who = fmt.Sprintf("%s (%s)", user.Name, user.Email)
	}
	if svc != nil {
		what = svc.Name
	}
	return fmt.Sprintf("🆕 Nouvelle réservation\n📅 %s à %s\n💄 %s\n👤 %s", r.Date, r.Time, what, who)
}

func ContactText(m *models.ContactMessage) string {
	return fmt.Sprintf("✉️ Nouveau message de %s (%s)\n\n%s", m.Name, m.Email, m.Message)
}
