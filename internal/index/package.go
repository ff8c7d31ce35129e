package index

import (
	"bufio"
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/PeteDiMarco/misc-tools/internal/probe"
)

// Manager describes one package-manager probe: the label its findings carry,
// the binary whose presence marks the manager as available, and the listing
// invocation that enumerates every installed package name. An empty Bin
// skips the presence check; a non-nil Listing overrides the default
// invocation of Bin with Args.
type Manager struct {
	Label   string
	Bin     string
	Args    []string
	Listing probe.TextProbe
	Parse   func(raw string) []string
}

// Managers returns the known package managers, in report order.
func Managers() []Manager {
	return []Manager{
		{Label: "Debian package", Bin: "dpkg-query", Args: []string{"-W", "-f", "${Package}\n"}, Parse: PlainLines},
		{Label: "RPM package", Bin: "rpm", Args: []string{"-qa", "--qf", "%{NAME}\n"}, Parse: PlainLines},
		{Label: "Pacman package", Bin: "pacman", Args: []string{"-Qq"}, Parse: PlainLines},
		{Label: "Snap package", Bin: "snap", Args: []string{"list"}, Parse: HeaderTable},
		{Label: "Flatpak application", Bin: "flatpak", Args: []string{"list", "--app", "--columns=application"}, Parse: PlainLines},
		{Label: "Homebrew package", Bin: "brew", Args: []string{"list", "-1"}, Parse: PlainLines},
	}
}

// PlainLines parses a one-package-per-line listing.
func PlainLines(raw string) []string {
	var names []string
	sc := bufio.NewScanner(strings.NewReader(raw))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if name := strings.TrimSpace(sc.Text()); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// HeaderTable parses listings that lead with a column-header line (snap
// list); the package name is the first field of every following line.
func HeaderTable(raw string) []string {
	var names []string
	first := true
	sc := bufio.NewScanner(strings.NewReader(raw))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if first {
			first = false
			continue
		}
		if line == "" {
			continue
		}
		if fields := strings.Fields(line); len(fields) > 0 {
			names = append(names, fields[0])
		}
	}
	return names
}

// PackageIndex holds the per-manager package lists, each built at most once
// per run. A manager absent from the host is recorded as unavailable, which
// is not the same as present with an empty list: the former is skipped in
// lookups, the latter participates and simply never matches.
type PackageIndex struct {
	order []string            // available manager labels, registry order
	lists map[string][]string // label -> sorted package names
}

// BuildPackageIndex probes every known manager once. Absent managers are
// skipped. A listing that fails after the presence check succeeded is
// demoted to an empty list with a warning, never a run-aborting error.
// Listings run in parallel; on a typical host all but one or two managers
// are absent anyway.
func BuildPackageIndex(ctx context.Context, managers []Manager, logger *log.Logger) *PackageIndex {
	idx := &PackageIndex{lists: make(map[string][]string)}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, m := range managers {
		if m.Bin != "" && !probe.Available(m.Bin) {
			logger.Debug("package manager not available", "manager", m.Label, "bin", m.Bin)
			continue
		}
		g.Go(func() error {
			listing := m.Listing
			if listing == nil {
				listing = probe.NewListing(logger, m.Bin, m.Args...)
			}
			out, code, err := listing.Invoke(gctx, "")
			var names []string
			if err != nil || code != 0 {
				logger.Warn("package listing failed", "manager", m.Label, "exit", code, "err", err)
			} else {
				names = m.Parse(out)
				sort.Strings(names)
			}
			mu.Lock()
			idx.lists[m.Label] = names
			mu.Unlock()
			logger.Debug("package listing built", "manager", m.Label, "packages", len(names))
			return nil
		})
	}
	_ = g.Wait()

	for _, m := range managers {
		if _, ok := idx.lists[m.Label]; ok {
			idx.order = append(idx.order, m.Label)
		}
	}
	return idx
}

// Matches reports whether name appears in the manager's list. Matching is
// exact full-line equality: a list containing "foobar" does not match "foo".
func (p *PackageIndex) Matches(label, name string) bool {
	list, ok := p.lists[label]
	if !ok {
		return false
	}
	i := sort.SearchStrings(list, name)
	return i < len(list) && list[i] == name
}

// LabelsFor returns the labels of every available manager whose list
// contains name, in registry order.
func (p *PackageIndex) LabelsFor(name string) []string {
	var labels []string
	for _, label := range p.order {
		if p.Matches(label, name) {
			labels = append(labels, label)
		}
	}
	return labels
}

// Available reports whether a manager was present when the index was built.
func (p *PackageIndex) Available(label string) bool {
	_, ok := p.lists[label]
	return ok
}

// Len returns the total number of packages across all available managers.
func (p *PackageIndex) Len() int {
	total := 0
	for _, list := range p.lists {
		total += len(list)
	}
	return total
}
