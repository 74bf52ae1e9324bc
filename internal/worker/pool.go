// Package worker provides background processing for session audio probes.
package worker

import (
	"context"
	"log"
	"sync"

	"github.com/pitchcoach-labs/pitchcoach/backend/internal/core/ports"
)

// Job carries one uploaded recording for energy analysis.
type Job struct {
	SessionID   string
	Audio       []byte
	ContentType string
}

// Pool manages background workers that compute an energy level for stored
// sessions. Scoring never waits on this work.
type Pool struct {
	repo ports.SessionRepository
	jobs chan Job
	wg   sync.WaitGroup
}

// compile-time interface assertion
var _ ports.EnergyProbe = (*Pool)(nil)

// NewPool creates a worker pool with the given queue size.
func NewPool(repo ports.SessionRepository, queueSize int) *Pool {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Pool{repo: repo, jobs: make(chan Job, queueSize)}
}

// Start launches the worker goroutines.
func (p *Pool) Start(workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				p.processJob(job)
			}
		}()
	}
}

// Stop waits for workers to finish after closing the queue.
func (p *Pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
}

// Enqueue queues a probe without blocking; the job is dropped when the
// queue is full.
func (p *Pool) Enqueue(sessionID string, audio []byte, contentType string) {
	select {
	case p.jobs <- Job{SessionID: sessionID, Audio: audio, ContentType: contentType}:
	default:
		log.Printf("WARN worker: dropping energy probe for session %s", sessionID)
	}
}

func (p *Pool) processJob(job Job) {
	if job.ContentType != "audio/mpeg" && job.ContentType != "audio/mp3" {
		log.Printf("DEBUG worker: skipping energy probe for session %s (content type %s)", job.SessionID, job.ContentType)
		return
	}

	energy, err := AnalyzeEnergyFunc(job.Audio)
	if err != nil {
		log.Printf("WARN worker: energy probe failed for session %s: %v", job.SessionID, err)
		return
	}

	if err := p.repo.UpdateSessionEnergy(context.Background(), job.SessionID, energy); err != nil {
		log.Printf("WARN worker: failed to update session %s: %v", job.SessionID, err)
		return
	}
	log.Printf("DEBUG worker: session %s energy %.3f", job.SessionID, energy)
}
