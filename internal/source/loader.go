package source

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/theirongolddev/gitlore/internal/store"
)

// ImportResult holds the output of an incremental import.
type ImportResult struct {
	TotalFiles   int
	Imported     int
	CacheHits    int
	FileErrors   int
	ProjectCount int
	Issues       []string
}

// ProgressFunc is called during importing to report progress.
// current is the number of files processed so far, total is the total count.
type ProgressFunc func(current, total int)

// ImportOptions tunes Import.
type ImportOptions struct {
	// Force re-imports every export even when its mtime and size are unchanged.
	Force    bool
	Progress ProgressFunc
}

// Import discovers exports under dataDir, diffs them against the cache by
// mtime and size, parses only changed files with a bounded worker pool and
// stores the results.
func Import(ctx context.Context, dataDir string, cache *store.Cache, opts ImportOptions) (*ImportResult, error) {
	files, err := ScanDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dataDir, err)
	}

	result := &ImportResult{
		TotalFiles:   len(files),
		ProjectCount: CountProjects(files),
	}
	if len(files) == 0 {
		return result, nil
	}

	tracked, err := cache.GetTrackedFiles()
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}

	var toParse []DiscoveredFile
	for _, f := range files {
		cached, ok := tracked[f.Path]
		if !opts.Force && ok && cached.MtimeNs == f.MtimeNs && cached.SizeBytes == f.SizeBytes {
			result.CacheHits++
			continue
		}
		toParse = append(toParse, f)
	}

	if len(toParse) == 0 {
		return result, nil
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(toParse) {
		numWorkers = len(toParse)
	}

	work := make(chan int, len(toParse))
	results := make([]ParseResult, len(toParse))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range toParse {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				if err := ctx.Err(); err != nil {
					results[idx] = ParseResult{Err: err}
					continue
				}
				results[idx] = ParseFile(toParse[idx])
				n := processed.Add(1)
				if opts.Progress != nil {
					opts.Progress(int(n)+result.CacheHits, result.TotalFiles)
				}
			}
		}()
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// sqlite takes one writer at a time, so results are stored serially.
	for i, pr := range results {
		df := toParse[i]
		if pr.Err != nil {
			result.FileErrors++
			result.Issues = append(result.Issues, fmt.Sprintf("%s: %v", df.Path, pr.Err))
			continue
		}
		for _, issue := range pr.Issues {
			result.Issues = append(result.Issues, fmt.Sprintf("%s: %s", df.Path, issue))
		}
		if err := cache.SaveProject(pr.Data, df.Path, df.MtimeNs, df.SizeBytes); err != nil {
			return nil, fmt.Errorf("storing %s: %w", df.Path, err)
		}
		result.Imported++
	}

	return result, nil
}
