package trace

import (
	"runtime"
	"sync"
)

// forEachChannel runs fn(c) for every channel index across a bounded set of
// goroutines. Channels are independent within a stage, so each worker writes
// only to its own channel's result slot and no locking is needed beyond the
// work queue. The first error reported (by lowest channel index) is
// returned; all workers are always drained.
func forEachChannel(n, workers int, fn func(c int) error) error {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		for c := 0; c < n; c++ {
			if err := fn(c); err != nil {
				return err
			}
		}
		return nil
	}

	jobs := make(chan int)
	errs := make([]error, n)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for c := range jobs {
				errs[c] = fn(c)
			}
		}()
	}
	for c := 0; c < n; c++ {
		jobs <- c
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
