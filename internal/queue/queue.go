package queue

import (
	"context"
	"errors"
	"sync"
	"time"

	"feedpipe/internal/models"
)

// Queue errors
var (
	ErrFull  = errors.New("queue is full")
	ErrEmpty = errors.New("queue is empty")
)

// sentinel is the distinguished value that tells a consumer to stop. It is
// compared by identity and never counted as in-flight work.
var sentinel = new(models.RawPost)

// Queue is a capacity-bounded FIFO of raw posts mediating the producer and
// consumer. It tracks in-flight work so a drain can wait for records that
// have been dequeued but not yet marked done.
type Queue struct {
	items chan *models.RawPost

	mu       sync.Mutex
	done     *sync.Cond
	inflight int
}

// New creates a bounded queue with the given capacity.
func New(capacity int) *Queue {
	if capacity <= 0 {
		capacity = 1
	}
	q := &Queue{
		items: make(chan *models.RawPost, capacity),
	}
	q.done = sync.NewCond(&q.mu)
	return q
}

// Put enqueues a record, blocking until capacity is available or the timeout
// elapses. Returns ErrFull on timeout. A successful Put counts the record as
// in-flight until MarkDone is called for it.
func (q *Queue) Put(p *models.RawPost, timeout time.Duration) error {
	q.mu.Lock()
	q.inflight++
	q.mu.Unlock()

	if err := q.send(p, timeout); err != nil {
		q.MarkDone()
		return err
	}
	return nil
}

// PutSentinel enqueues the shutdown sentinel. It is delivered in FIFO order
// after everything enqueued before it and does not count as in-flight work.
func (q *Queue) PutSentinel(timeout time.Duration) error {
	return q.send(sentinel, timeout)
}

// IsSentinel reports whether a dequeued record is the shutdown sentinel.
func IsSentinel(p *models.RawPost) bool {
	return p == sentinel
}

func (q *Queue) send(p *models.RawPost, timeout time.Duration) error {
	if timeout <= 0 {
		select {
		case q.items <- p:
			return nil
		default:
			return ErrFull
		}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case q.items <- p:
		return nil
	case <-timer.C:
		return ErrFull
	}
}

// Get dequeues the next record, blocking until one is available or the
// timeout elapses. Returns ErrEmpty on timeout.
func (q *Queue) Get(timeout time.Duration) (*models.RawPost, error) {
	if timeout <= 0 {
		select {
		case p := <-q.items:
			return p, nil
		default:
			return nil, ErrEmpty
		}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case p := <-q.items:
		return p, nil
	case <-timer.C:
		return nil, ErrEmpty
	}
}

// MarkDone records completion of one dequeued record.
func (q *Queue) MarkDone() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.inflight > 0 {
		q.inflight--
	}
	if q.inflight == 0 {
		q.done.Broadcast()
	}
}

// Join blocks until every record that was ever enqueued has been marked done.
func (q *Queue) Join() {
	q.mu.Lock()
	for q.inflight > 0 {
		q.done.Wait()
	}
	q.mu.Unlock()
}

// JoinContext drains like Join but gives up when the context expires.
func (q *Queue) JoinContext(ctx context.Context) error {
	drained := make(chan struct{})
	go func() {
		q.Join()
		close(drained)
	}()

	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Len returns the number of buffered records.
func (q *Queue) Len() int { return len(q.items) }

// Cap returns the queue capacity.
func (q *Queue) Cap() int { return cap(q.items) }

// InFlight returns the number of enqueued-but-unfinished records.
func (q *Queue) InFlight() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.inflight
}
