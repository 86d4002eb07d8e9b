package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/theirongolddev/cashburn/internal/ledger"
	"github.com/theirongolddev/cashburn/internal/store"
)

// CachedLoadResult extends LoadResult with cache metadata.
type CachedLoadResult struct {
	LoadResult
	CacheHits int
	Reparsed  int
}

// LoadWithCache discovers ledger files, diffs them against the cache, parses
// only files that changed (or were cached under different parse options) and
// returns the combined results in discovery order. Only ledgers that parsed
// cleanly are written back to the cache.
func LoadWithCache(paths []string, opts ledger.Options, cache *store.Cache, progressFn ProgressFunc) (*CachedLoadResult, error) {
	files, err := ledger.Expand(paths)
	if err != nil {
		return nil, fmt.Errorf("scanning ledgers: %w", err)
	}

	result := &CachedLoadResult{LoadResult: LoadResult{TotalFiles: len(files)}}
	if len(files) == 0 {
		return result, nil
	}

	tracked, err := cache.GetTrackedFiles()
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}

	fingerprint := opts.Fingerprint()
	result.Files = make([]FileResult, len(files))

	// Diff: serve unchanged files from the cache, queue the rest.
	var toReparse []ledger.DiscoveredFile
	var slots []int
	for i, f := range files {
		result.Files[i] = FileResult{Path: f.Path, Name: f.Name}

		info, err := os.Stat(f.Path)
		if err != nil {
			result.Files[i].Err = err
			continue
		}

		if cached, ok := tracked[f.Path]; ok && cached == store.Stat(info, fingerprint) {
			l, err := cache.LoadLedger(f.Path)
			if err == nil {
				result.Files[i].Ledger = l
				result.Files[i].Cached = true
				result.CacheHits++
				continue
			}
			log.Warn().Err(err).Str("file", f.Path).Msg("cache entry unreadable, reparsing")
		}

		toReparse = append(toReparse, f)
		slots = append(slots, i)
	}
	result.Reparsed = len(toReparse)

	if len(toReparse) > 0 {
		parsed := parseAll(toReparse, opts, func(n int) {
			if progressFn != nil {
				progressFn(n+result.CacheHits, result.TotalFiles)
			}
		})

		for j, fr := range parsed {
			result.Files[slots[j]] = fr
			if fr.Err != nil {
				continue
			}
			info, err := os.Stat(fr.Path)
			if err != nil {
				continue
			}
			if err := cache.SaveLedger(fr.Ledger, store.Stat(info, fingerprint)); err != nil {
				log.Warn().Err(err).Str("file", fr.Path).Msg("caching ledger failed")
			}
		}
	}

	result.tally()
	return result, nil
}

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "cashburn")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "cashburn")
}

// CachePath returns the full path to the cache database.
func CachePath() string {
	return filepath.Join(CacheDir(), "ledgers.db")
}
