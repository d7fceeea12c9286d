package extractor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"intentcheck/internal/analyzer"
	"intentcheck/internal/diff"
	"intentcheck/internal/types"
)

// ErrContentFetch marks a file whose source text could not be obtained from
// the content provider. It surfaces as a per-file diagnostic, never as a
// run-wide failure.
var ErrContentFetch = errors.New("content fetch failed")

func isParseFailure(err error) bool {
	return errors.Is(err, analyzer.ErrSourceParse)
}

// ContentProvider supplies one file's source text at the revision the
// extractor was built for.
type ContentProvider interface {
	Fetch(ctx context.Context, path string) (string, error)
}

// Config tunes an Extractor. Zero values fall back to defaults.
type Config struct {
	Revision     string
	Workers      int
	CacheSize    int
	FetchTimeout time.Duration
}

const (
	defaultWorkers      = 4
	defaultCacheSize    = 256
	defaultFetchTimeout = 30 * time.Second
)

// Extractor runs the per-file pipeline: diff parsing, source analysis,
// change localization and context assembly. Safe for concurrent use; all
// per-file state lives in the read-through analysis cache.
type Extractor struct {
	registry     *analyzer.Registry
	provider     ContentProvider
	cache        *analysisCache
	revision     string
	workers      int
	fetchTimeout time.Duration
}

func New(registry *analyzer.Registry, provider ContentProvider, cfg Config) (*Extractor, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = defaultCacheSize
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = defaultFetchTimeout
	}

	cache, err := newAnalysisCache(cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis cache: %w", err)
	}

	return &Extractor{
		registry:     registry,
		provider:     provider,
		cache:        cache,
		revision:     cfg.Revision,
		workers:      cfg.Workers,
		fetchTimeout: cfg.FetchTimeout,
	}, nil
}

// Extract builds the context bundle for a unified diff. Files are analyzed
// concurrently but the bundle's section order is the sorted file order, so
// identical inputs produce byte-identical bundles. An empty or
// nothing-relevant diff yields an empty bundle, not an error; once the
// context is done no further files are analyzed and whatever was assembled
// is returned.
func (e *Extractor) Extract(ctx context.Context, diffText string) (*Bundle, error) {
	changed := diff.ParseChangedLines(diffText, e.registry.Supports)
	if len(changed) == 0 {
		logger.Debug("extractor: no analyzable files changed")
		return &Bundle{}, nil
	}

	paths := make([]string, 0, len(changed))
	for path := range changed {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	sections := make([]*FileSection, len(paths))

	g := new(errgroup.Group)
	g.SetLimit(e.workers)
	for i, path := range paths {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			sections[i] = e.processFile(ctx, path, changed[path])
			return nil
		})
	}
	_ = g.Wait()

	bundle := &Bundle{}
	for _, section := range sections {
		if section != nil {
			bundle.Sections = append(bundle.Sections, *section)
		}
	}

	if err := ctx.Err(); err != nil {
		logger.Warnf("extractor: deadline exceeded, returning partial bundle with %d sections", len(bundle.Sections))
	}
	return bundle, nil
}

// processFile returns the file's bundle section, a diagnostic section when
// analysis failed, or nil when nothing in the file is relevant.
func (e *Extractor) processFile(ctx context.Context, path string, changed types.LineSet) *FileSection {
	analysis, err := e.analyzeFile(ctx, path)
	if err != nil {
		logger.Warnf("extractor: skipping %s: %v", path, err)
		return &FileSection{Path: path, Diagnostic: diagnosticFor(err)}
	}

	relevant := Localize(analysis, changed)
	if len(relevant) == 0 {
		logger.Debugf("extractor: no definitions contain changes in %s", path)
		return nil
	}
	logger.Debugf("extractor: %s has %d relevant definitions", path, len(relevant))

	return &FileSection{Path: path, Blocks: Assemble(relevant, analysis)}
}

func (e *Extractor) analyzeFile(ctx context.Context, path string) (*types.FileAnalysis, error) {
	key := path + "@" + e.revision
	return e.cache.get(key, func() (*types.FileAnalysis, error) {
		fetchCtx, cancel := context.WithTimeout(ctx, e.fetchTimeout)
		defer cancel()

		content, err := e.provider.Fetch(fetchCtx, path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrContentFetch, path, err)
		}

		a := e.registry.ForFile(path)
		if a == nil {
			return nil, fmt.Errorf("%w: no analyzer for %s", analyzer.ErrSourceParse, path)
		}
		return a.Analyze(content)
	})
}
