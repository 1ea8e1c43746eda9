package worker

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Job is one unit of work. Key identifies it in the matching Result.
type Job struct {
	Key string
	Run func(ctx context.Context) error
}

type Result struct {
	Key string
	Err error
}

// Pool runs jobs on a fixed number of goroutines. With a rate limit set,
// job starts across all workers are throttled to that many per second.
type Pool struct {
	workers int
	jobs    chan Job
	wg      sync.WaitGroup
	limiter *rate.Limiter
}

func NewPool(workers, buffer int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	return &Pool{
		workers: workers,
		jobs:    make(chan Job, buffer),
	}
}

// SetRateLimit must be called before Run. perSecond <= 0 disables throttling.
func (p *Pool) SetRateLimit(perSecond int) {
	if perSecond <= 0 {
		p.limiter = nil
		return
	}
	p.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
}

func (p *Pool) Submit(j Job) {
	if j.Run == nil {
		return
	}
	p.jobs <- j
}

func (p *Pool) Close() {
	close(p.jobs)
}

// Run starts the workers. The returned channel is closed once every worker
// has exited, either because Close was called and the queue drained or
// because ctx was cancelled.
func (p *Pool) Run(ctx context.Context) <-chan Result {
	out := make(chan Result, p.workers)

	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case j, ok := <-p.jobs:
					if !ok {
						return
					}
					if p.limiter != nil {
						if err := p.limiter.Wait(ctx); err != nil {
							return
						}
					}
					err := j.Run(ctx)
					select {
					case <-ctx.Done():
						return
					case out <- Result{Key: j.Key, Err: err}:
					}
				}
			}
		}()
	}

	go func() {
		p.wg.Wait()
		close(out)
	}()

	return out
}

// Do runs jobs through a pool and collects every result. Results arrive in
// completion order.
func Do(ctx context.Context, workers, perSecond int, jobs []Job) []Result {
	p := NewPool(workers, len(jobs))
	p.SetRateLimit(perSecond)
	for _, j := range jobs {
		p.Submit(j)
	}
	p.Close()

	results := make([]Result, 0, len(jobs))
	for r := range p.Run(ctx) {
		results = append(results, r)
	}
	return results
}
