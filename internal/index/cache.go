package index

import (
	"context"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/PeteDiMarco/misc-tools/internal/probe"
)

// Cache bundles the expensive run-scoped indexes. Build it once before
// resolving anything; it is read-only afterwards and safe to share across
// concurrent query resolutions without locking.
type Cache struct {
	Processes *ProcessIndex
	Packages  *PackageIndex
}

// Options controls which indexes get built. A skipped index stays empty and
// never matches, which reads the same as "nothing running/installed by that
// name" in the report.
type Options struct {
	SkipProcesses bool
	SkipPackages  bool
}

// Build constructs the cache, running the process snapshot and the package
// listings in parallel.
func Build(ctx context.Context, ps probe.TextProbe, opts Options, logger *log.Logger) *Cache {
	cache := &Cache{
		Processes: &ProcessIndex{},
		Packages:  &PackageIndex{lists: make(map[string][]string)},
	}

	g, gctx := errgroup.WithContext(ctx)
	if !opts.SkipProcesses {
		g.Go(func() error {
			cache.Processes = BuildProcessIndex(gctx, ps, logger)
			return nil
		})
	}
	if !opts.SkipPackages {
		g.Go(func() error {
			cache.Packages = BuildPackageIndex(gctx, Managers(), logger)
			return nil
		})
	}
	_ = g.Wait()
	return cache
}
