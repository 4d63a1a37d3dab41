// Package worker runs background jobs off the UI thread. The queue has a
// single slot, so a job submitted while another is pending is dropped
// instead of piling up.
package worker

import (
	"context"
	"log"
	"sync"
)

// Job is one unit of background work.
type Job func(ctx context.Context)

// Pool is a fixed-size worker pool with a 1-slot input queue (strict
// back-pressure).
type Pool struct {
	jobs chan submission
	wg   sync.WaitGroup
}

type submission struct {
	ctx  context.Context
	name string
	run  Job
}

// New creates a worker pool. Size defaults to 1 worker, which keeps at most
// one capture run active at a time.
func New(size int) *Pool {
	if size <= 0 {
		size = 1
	}
	p := &Pool{jobs: make(chan submission, 1)}
	p.start(size)
	return p
}

func (p *Pool) start(n int) {
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for s := range p.jobs {
				p.runOne(s)
			}
		}()
	}
}

// runOne executes a job. A panicking job must not take the worker down with
// it.
func (p *Pool) runOne(s submission) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Worker: PANIC in job %q: %v", s.name, r)
		}
	}()
	log.Printf("Worker: starting %q", s.name)
	s.run(s.ctx)
	log.Printf("Worker: finished %q", s.name)
}

// Submit enqueues a job if the single-slot queue is free. Returns false if
// the job was dropped.
func (p *Pool) Submit(ctx context.Context, name string, run Job) bool {
	select {
	case p.jobs <- submission{ctx: ctx, name: name, run: run}:
		return true
	default:
		log.Printf("Worker: dropped %q, queue full", name)
		return false
	}
}

// Close stops the pool after draining current work.
func (p *Pool) Close() {
	close(p.jobs)
	p.wg.Wait()
}
