package pipeline

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/theirongolddev/cashburn/internal/config"
	"github.com/theirongolddev/cashburn/internal/ledger"
	"github.com/theirongolddev/cashburn/internal/model"
	"github.com/theirongolddev/cashburn/internal/store"
)

// FileReport is the analysis outcome for one ledger file. Err is set when the
// file could not be loaded or analysed; Report is nil in that case.
type FileReport struct {
	Path   string
	Name   string
	Report *model.Report
	Err    error
	Cached bool
}

// ReportSet holds one FileReport per discovered file, in discovery order.
type ReportSet struct {
	Files     []FileReport
	CacheHits int
	Errors    int
	LoadTime  time.Duration
}

// OK returns the reports that were produced without error.
func (s *ReportSet) OK() []FileReport {
	out := make([]FileReport, 0, len(s.Files))
	for _, f := range s.Files {
		if f.Err == nil {
			out = append(out, f)
		}
	}
	return out
}

// BuildReports loads every ledger under paths and analyses each one
// independently. With useCache set it goes through the parse cache and falls
// back to a plain load when the cache cannot be opened or read.
func BuildReports(paths []string, cfg config.Config, useCache bool, progressFn ProgressFunc) (*ReportSet, error) {
	start := time.Now()
	opts := ledger.OptionsFor(cfg)

	var (
		loaded    *LoadResult
		cacheHits int
	)
	if useCache {
		cache, err := store.Open(CachePath())
		if err == nil {
			cr, loadErr := LoadWithCache(paths, opts, cache, progressFn)
			_ = cache.Close()
			if loadErr == nil {
				loaded, cacheHits = &cr.LoadResult, cr.CacheHits
			} else {
				log.Warn().Err(loadErr).Msg("cached load failed, parsing without cache")
			}
		} else {
			log.Warn().Err(err).Msg("opening cache failed, parsing without cache")
		}
	}
	if loaded == nil {
		var err error
		if loaded, err = Load(paths, opts, progressFn); err != nil {
			return nil, err
		}
	}

	set := &ReportSet{
		Files:     make([]FileReport, len(loaded.Files)),
		CacheHits: cacheHits,
	}
	for i, f := range loaded.Files {
		fr := FileReport{Path: f.Path, Name: f.Name, Err: f.Err, Cached: f.Cached}
		if fr.Err == nil {
			fr.Report, fr.Err = Analyze(f.Ledger, cfg)
		}
		if fr.Err != nil {
			set.Errors++
		}
		set.Files[i] = fr
	}
	set.LoadTime = time.Since(start)

	return set, nil
}
