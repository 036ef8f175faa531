package workerpool

import (
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/corvid-web/corvid/internal/logging"
)

var (
	ErrClosed    = errors.New("worker pool is closed")
	ErrQueueFull = errors.New("worker pool queue is full")
)

// Job is a unit of work. Usually it services a single connection from the beginning
// till the end.
type Job func()

// message is either a job or, if job is nil, an order to the receiving worker to exit.
type message struct {
	job Job
}

var terminate = message{}

// Pool is a fixed set of workers sharing a single FIFO queue. Jobs are executed in the
// order they were submitted, but there are no guarantees about their completion order.
type Pool struct {
	logger    *slog.Logger
	mu        sync.Mutex
	cond      *sync.Cond
	queue     []message
	queueSize int
	closed    bool
	size      int
	wg        sync.WaitGroup
}

// New spawns n workers immediately. If queueSize is zero, the queue is unbounded. Otherwise,
// at most queueSize jobs may wait for a free worker.
func New(n, queueSize int, logger *slog.Logger) *Pool {
	if n <= 0 {
		panic("workerpool: number of workers must be positive")
	}

	p := &Pool{
		logger:    logging.OrDiscard(logger),
		queueSize: queueSize,
		size:      n,
	}
	p.cond = sync.NewCond(&p.mu)

	p.wg.Add(n)
	for id := range n {
		go p.worker(id)
	}

	return p
}

// Execute enqueues the job without blocking.
func (p *Pool) Execute(job Job) error {
	if job == nil {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}

	if p.queueSize > 0 && len(p.queue) >= p.queueSize {
		return ErrQueueFull
	}

	p.queue = append(p.queue, message{job: job})
	p.cond.Signal()

	return nil
}

// Close waits until every queued job is done and all the workers exit. Jobs submitted
// after Close are rejected with ErrClosed. Calling Close more than once is safe.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.wg.Wait()
		return
	}

	p.closed = true
	for range p.size {
		p.queue = append(p.queue, terminate)
	}
	p.cond.Broadcast()
	p.mu.Unlock()

	p.wg.Wait()
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return p.size
}

// Pending returns the number of jobs waiting for a free worker.
func (p *Pool) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	pending := 0
	for _, msg := range p.queue {
		if msg.job != nil {
			pending++
		}
	}

	return pending
}

func (p *Pool) next() message {
	p.mu.Lock()
	defer p.mu.Unlock()

	for len(p.queue) == 0 {
		p.cond.Wait()
	}

	msg := p.queue[0]
	p.queue[0] = message{}
	p.queue = p.queue[1:]

	return msg
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for {
		msg := p.next()
		if msg.job == nil {
			p.logger.Debug("worker exits", "worker", id)
			return
		}

		p.run(id, msg.job)
	}
}

func (p *Pool) run(id int, job Job) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error(
				"job panicked",
				"worker", id,
				"panic", r,
				"stack", string(debug.Stack()),
			)
		}
	}()

	job()
}
