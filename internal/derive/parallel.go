package derive

import (
	"runtime"
	"sync"

	"github.com/lampyrid/orstruct/internal/gff"
)

// WorkItem holds one gene's records ready for derivation.
type WorkItem struct {
	Seq      int
	GeneID   string
	Features []gff.FeatureRecord
}

// WorkResult holds the derived rows for a single gene.
type WorkResult struct {
	Seq    int
	GeneID string
	Rows   []Record
	Err    error
}

// ParallelDerive derives work items using a pool of workers. Genes are
// independent, so derivation is a plain parallel map. Results are sent to
// the returned channel in arrival order (not sequence order); use
// OrderedCollect to consume them in sequence-number order.
// If workers is 0, runtime.NumCPU() is used.
func (d *Deriver) ParallelDerive(items <-chan WorkItem, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for item := range items {
				rows, err := d.Derive(item.Features)
				results <- WorkResult{
					Seq:    item.Seq,
					GeneID: item.GeneID,
					Rows:   rows,
					Err:    err,
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect calls fn for each result in sequence-number order.
// It buffers out-of-order results in a pending map and emits them
// as soon as the next expected sequence number is available.
// Blocks until the results channel is closed.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	pending := make(map[int]WorkResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}
