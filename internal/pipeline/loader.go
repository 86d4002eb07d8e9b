package pipeline

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/theirongolddev/cashburn/internal/ledger"
	"github.com/theirongolddev/cashburn/internal/model"
)

// FileResult is the outcome of loading one ledger file.
type FileResult struct {
	Path   string
	Name   string
	Ledger *model.Ledger
	Err    error
	Cached bool
}

// LoadResult holds the output of loading every requested ledger file, in
// the order the files were discovered.
type LoadResult struct {
	Files       []FileResult
	TotalFiles  int
	ParsedFiles int
	FileErrors  int
}

// ProgressFunc is called during loading to report progress.
// current is the number of files processed so far, total is the total count.
type ProgressFunc func(current, total int)

// Load discovers ledger files under paths and parses each one.
// It uses a bounded worker pool for parallel parsing.
func Load(paths []string, opts ledger.Options, progressFn ProgressFunc) (*LoadResult, error) {
	files, err := ledger.Expand(paths)
	if err != nil {
		return nil, fmt.Errorf("scanning ledgers: %w", err)
	}

	result := &LoadResult{TotalFiles: len(files)}
	if len(files) == 0 {
		return result, nil
	}

	result.Files = parseAll(files, opts, func(n int) {
		if progressFn != nil {
			progressFn(n, len(files))
		}
	})
	result.tally()
	return result, nil
}

// parseAll parses files with one worker per CPU. Results keep input order.
func parseAll(files []ledger.DiscoveredFile, opts ledger.Options, done func(n int)) []FileResult {
	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan int, len(files))
	results := make([]FileResult, len(files))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range files {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				f := files[idx]
				l, err := ledger.ReadFile(f.Path, opts)
				results[idx] = FileResult{Path: f.Path, Name: f.Name, Ledger: l, Err: err}
				done(int(processed.Add(1)))
			}
		}()
	}

	wg.Wait()
	return results
}

func (r *LoadResult) tally() {
	r.ParsedFiles, r.FileErrors = 0, 0
	for _, f := range r.Files {
		if f.Err != nil {
			r.FileErrors++
			continue
		}
		r.ParsedFiles++
	}
}
