package jobs

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/nodewee/fulltext/pkg/constants"
	"github.com/nodewee/fulltext/pkg/logger"
	"github.com/nodewee/fulltext/pkg/utils"
)

// Performer runs the job for one attachment id
type Performer interface {
	Perform(ctx context.Context, id string) error
}

// Queue feeds attachment ids to a fixed pool of workers
type Queue struct {
	job     Performer
	workers int
	ids     chan string
	logger  *logger.Logger

	mu     sync.RWMutex
	closed bool
}

// NewQueue creates a queue with the given pool size and buffer length.
// Non-positive values fall back to the defaults.
func NewQueue(job Performer, workers, length int, log *logger.Logger) *Queue {
	if workers <= 0 {
		workers = constants.DefaultWorkers
	}
	if length <= 0 {
		length = constants.DefaultQueueLength
	}
	return &Queue{
		job:     job,
		workers: workers,
		ids:     make(chan string, length),
		logger:  log,
	}
}

// Enqueue schedules extraction of attachment id
func (q *Queue) Enqueue(id string) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return utils.NewError(utils.ErrorTypeUnavailable, "queue is closed", nil)
	}
	select {
	case q.ids <- id:
		q.logger.Debug("Enqueued fulltext extraction of %s", id)
		return nil
	default:
		return utils.NewError(utils.ErrorTypeUnavailable,
			fmt.Sprintf("queue is full (%d pending)", cap(q.ids)), nil)
	}
}

// Close stops accepting ids. Workers drain what is already queued.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.ids)
	}
}

// Run processes ids until the queue is closed and drained, ctx is done or a
// job returns a fatal error, which stops every worker and is returned
func (q *Queue) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	for i := 0; i < q.workers; i++ {
		worker := i + 1
		g.Go(func() error {
			q.logger.Debug("Worker %d started", worker)
			for {
				select {
				case <-gctx.Done():
					return nil
				case id, ok := <-q.ids:
					if !ok {
						return nil
					}
					if err := q.job.Perform(gctx, id); err != nil {
						q.logger.Error("Worker %d stopping on fatal error: %v", worker, err)
						return err
					}
				}
			}
		})
	}

	return g.Wait()
}
