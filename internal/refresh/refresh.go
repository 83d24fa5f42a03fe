package refresh

import (
	"context"
	"sync"
	"time"
)

// Job names one cached upstream payload to re-fetch, e.g. the catalog or
// the option lists.
type Job struct {
	Target string
}

// Refresher runs background re-fetches of stale cached payloads. Enqueue
// deduplicates in-flight targets and drops work when saturated: a missed
// refresh just means the next stale hit re-enqueues it.
type Refresher struct {
	ch    chan Job
	inFly sync.Map // target -> struct{}
	Do    func(ctx context.Context, j Job)
}

func New(capacity int, workerCount int, do func(ctx context.Context, j Job)) *Refresher {
	if capacity <= 0 {
		capacity = 64
	}
	if workerCount <= 0 {
		workerCount = 2
	}
	r := &Refresher{ch: make(chan Job, capacity), Do: do}
	for i := 0; i < workerCount; i++ {
		go r.worker()
	}
	return r
}

func (r *Refresher) Enqueue(j Job) {
	if _, exists := r.inFly.LoadOrStore(j.Target, struct{}{}); exists {
		return
	}
	select {
	case r.ch <- j:
	default:
		// drop if saturated
		r.inFly.Delete(j.Target)
	}
}

func (r *Refresher) worker() {
	for j := range r.ch {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		func() {
			defer func() {
				r.inFly.Delete(j.Target)
				cancel()
			}()
			if r.Do != nil {
				r.Do(ctx, j)
			}
		}()
	}
}
