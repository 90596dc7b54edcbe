package convert

import (
	"fmt"
	"sync"
)

// ConvertBatch converts multiple requests in parallel with bounded
// concurrency. Every request runs to completion; if any of them failed, the
// error for the lowest-indexed failure is returned and no results are
// handed out.
//
// Arguments:
// - reqs: The conversion requests.
// - maxConcurrency: Maximum number of requests converted concurrently.
//
// Returns:
// - []*Result: One result per request, in order.
// - error: The first conversion error, if any.
func (c *Converter) ConvertBatch(reqs []Request, maxConcurrency int) ([]*Result, error) {
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}

	results := make([]*Result, len(reqs))
	errs := make([]error, len(reqs))

	sem := make(chan struct{}, maxConcurrency)
	var wg sync.WaitGroup

	for i, req := range reqs {
		wg.Add(1)
		go func(idx int, r Request) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			result, err := c.Convert(r)
			if err != nil {
				errs[idx] = fmt.Errorf("failed to convert request %d: %w", idx, err)
			} else {
				results[idx] = result
			}
		}(i, req)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
