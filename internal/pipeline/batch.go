package pipeline

import (
	"context"
	"sync"
)

// BatchItem is the outcome of one request in a batch, in request order.
type BatchItem struct {
	Index  int     `json:"index"`
	Result *Result `json:"result,omitempty"`
	Error  string  `json:"error,omitempty"`
}

// Batch reduces requests concurrently, at most MaxConcurrent at a time.
// Requests not yet started when ctx is cancelled fail with the context
// error.
func (s *Service) Batch(ctx context.Context, reqs []Request) []BatchItem {
	items := make([]BatchItem, len(reqs))
	sem := make(chan struct{}, s.maxConcurrent)
	var wg sync.WaitGroup

	for i, req := range reqs {
		items[i].Index = i
		if err := ctx.Err(); err != nil {
			items[i].Error = err.Error()
			continue
		}
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			items[i].Error = ctx.Err().Error()
			continue
		}
		wg.Add(1)
		go func(i int, req Request) {
			defer wg.Done()
			defer func() { <-sem }()
			res, err := s.Reduce(ctx, req)
			if err != nil {
				items[i].Error = err.Error()
				return
			}
			items[i].Result = res
		}(i, req)
	}

	wg.Wait()
	s.log.Info("batch complete", "requests", len(reqs))
	return items
}

// MaxConcurrent is the batch concurrency limit.
func (s *Service) MaxConcurrent() int {
	return s.maxConcurrent
}
