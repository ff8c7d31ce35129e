package resolve

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/PeteDiMarco/misc-tools/internal/alias"
	"github.com/PeteDiMarco/misc-tools/internal/classify"
	"github.com/PeteDiMarco/misc-tools/internal/index"
	"github.com/PeteDiMarco/misc-tools/internal/model"
	"github.com/PeteDiMarco/misc-tools/internal/probe"
)

// Adaptor slots fix the report layout: findings appear in this kind order no
// matter which probe finishes first.
const (
	slotVariable = iota
	slotType
	slotAlias
	slotWhich
	slotFile
	slotMan
	slotInfo
	slotProcess
	slotPackage
	slotCount
)

// Resolver fans one candidate name out to every probe adaptor and collects
// the findings into a single report. The caches and the external alias table
// are read-only, so any number of Resolve calls may run concurrently.
type Resolver struct {
	Probes  *probe.Catalog
	Cache   *index.Cache
	Aliases *alias.Resolver
	Log     *log.Logger

	types classify.TypeClassifier
	attrs classify.AttributeClassifier
}

// New wires a resolver from its collaborators.
func New(probes *probe.Catalog, cache *index.Cache, table alias.Table, logger *log.Logger) *Resolver {
	return &Resolver{
		Probes:  probes,
		Cache:   cache,
		Aliases: &alias.Resolver{Live: probes.LiveAlias, Table: table},
		Log:     logger,
		types:   classify.TypeClassifier{Help: probes.Help},
	}
}

// Preflight verifies the probes classification cannot run without. Failing
// this is the one fatal condition: without a shell no name could ever be
// classified, so it must surface before the first query.
func Preflight() error {
	if !probe.Available("bash") {
		return errors.New("bash is required for the type, declare, and alias probes but was not found on PATH")
	}
	return nil
}

// Resolve gathers every finding for one candidate name. Probe failures of
// any grade contribute zero findings and never abort the other probes; a
// name with no findings at all gets the synthetic nothing-found report.
func (r *Resolver) Resolve(ctx context.Context, name string) model.Report {
	slots := make([][]model.Finding, slotCount)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { slots[slotVariable] = r.variableFindings(name); return nil })
	g.Go(func() error { slots[slotType] = r.typeFindings(gctx, name); return nil })
	g.Go(func() error { slots[slotAlias] = r.Aliases.Resolve(gctx, name); return nil })
	g.Go(func() error { slots[slotWhich] = r.whichFindings(gctx, name); return nil })
	g.Go(func() error { slots[slotFile] = r.fileFindings(gctx, name); return nil })
	g.Go(func() error { slots[slotMan] = r.manFindings(gctx, name); return nil })
	g.Go(func() error { slots[slotInfo] = r.infoFindings(gctx, name); return nil })
	g.Go(func() error { slots[slotProcess] = r.processFindings(name); return nil })
	g.Go(func() error { slots[slotPackage] = r.packageFindings(name); return nil })
	_ = g.Wait()

	var findings []model.Finding
	for _, s := range slots {
		findings = append(findings, s...)
	}
	if len(findings) == 0 {
		return model.NothingFound(name)
	}
	return model.Report{Name: name, Findings: findings}
}

// ResolveAll resolves a batch of names in input order.
func (r *Resolver) ResolveAll(ctx context.Context, names []string) []model.Report {
	reports := make([]model.Report, 0, len(names))
	for _, name := range names {
		reports = append(reports, r.Resolve(ctx, name))
	}
	return reports
}

// variableFindings checks the process environment, the only variable
// namespace visible to an external tool.
func (r *Resolver) variableFindings(name string) []model.Finding {
	value, ok := os.LookupEnv(name)
	if !ok {
		return nil
	}
	return []model.Finding{{
		Source:  model.SourceVariable,
		Summary: fmt.Sprintf("%s is an environment variable with value '%s'.", name, value),
		Found:   true,
	}}
}

// typeFindings runs the type probe through the classifier. When the probe
// reports no binding at all, the attribute probes take over as the exclusive
// fallback; the two paths never both run for one name.
func (r *Resolver) typeFindings(ctx context.Context, name string) []model.Finding {
	out, code, err := r.Probes.Type.Invoke(ctx, name)
	if err != nil {
		r.Log.Debug("type probe failed", "name", name, "err", err)
		return nil
	}
	if code != 0 || strings.TrimSpace(out) == "" {
		return r.attrFindings(ctx, name)
	}

	findings, err := r.types.Classify(ctx, name, out)
	if err != nil {
		var unrec *classify.UnrecognizedFormatError
		if errors.As(err, &unrec) {
			r.Log.Warn("type output not recognized", "name", name, "line", unrec.Line)
		} else {
			r.Log.Warn("type classification failed", "name", name, "err", err)
		}
		return nil
	}
	return findings
}

// attrFindings is the fallback pair of declaration checks: declared
// attributes and declared-as-function. The two are independent and both run.
func (r *Resolver) attrFindings(ctx context.Context, name string) []model.Finding {
	var findings []model.Finding

	out, code, err := r.Probes.Declare.Invoke(ctx, name)
	if err == nil && code == 0 {
		findings = append(findings, r.attrs.Classify(name, out)...)
	}

	_, code, err = r.Probes.Function.Invoke(ctx, name)
	if err == nil && code == 0 {
		findings = append(findings, model.Finding{
			Source:  model.SourceFunction,
			Summary: fmt.Sprintf("%s is declared as a function.", name),
			Found:   true,
		})
	}
	return findings
}

// whichFindings reports every executable on PATH matching the name, each
// followed by a nested file-type finding for the resolved path.
func (r *Resolver) whichFindings(ctx context.Context, name string) []model.Finding {
	out, code, err := r.Probes.Which.Invoke(ctx, name)
	if err != nil || code != 0 {
		return nil
	}

	var findings []model.Finding
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		path := strings.TrimSpace(sc.Text())
		if path == "" {
			continue
		}
		findings = append(findings, model.Finding{
			Source:  model.SourceExecutable,
			Summary: fmt.Sprintf("%s is the executable %s.", name, path),
			Found:   true,
		})
		findings = append(findings, r.fileTypeFindings(ctx, path)...)
	}
	return findings
}

// fileFindings probes the literal name as a path in the current directory
// tree.
func (r *Resolver) fileFindings(ctx context.Context, name string) []model.Finding {
	return r.fileTypeFindings(ctx, name)
}

func (r *Resolver) fileTypeFindings(ctx context.Context, path string) []model.Finding {
	out, code, err := r.Probes.File.Invoke(ctx, path)
	if err != nil || code != 0 {
		return nil
	}
	desc := strings.TrimSpace(out)
	if desc == "" || strings.HasPrefix(desc, "cannot open") || strings.Contains(desc, "No such file") {
		return nil
	}
	return []model.Finding{{
		Source:  model.SourceFile,
		Summary: fmt.Sprintf("File %s is %s.", path, desc),
		Found:   true,
	}}
}

func (r *Resolver) manFindings(ctx context.Context, name string) []model.Finding {
	out, code, err := r.Probes.Man.Invoke(ctx, name)
	if err != nil || code != 0 || strings.TrimSpace(out) == "" {
		return nil
	}
	return []model.Finding{{
		Source:  model.SourceManPage,
		Summary: fmt.Sprintf("There is a man page for %s.", name),
		Detail:  strings.TrimRight(out, "\n"),
		Found:   true,
	}}
}

func (r *Resolver) infoFindings(ctx context.Context, name string) []model.Finding {
	out, code, err := r.Probes.Info.Invoke(ctx, name)
	if err != nil || code != 0 {
		return nil
	}
	where := strings.TrimSpace(out)
	// info -w answers "*manpages*" when it would only fall back to the man
	// page, which the man probe already covers.
	if where == "" || where == "*manpages*" {
		return nil
	}
	return []model.Finding{{
		Source:  model.SourceInfoPage,
		Summary: fmt.Sprintf("There is an info page for %s.", name),
		Detail:  where,
		Found:   true,
	}}
}

func (r *Resolver) processFindings(name string) []model.Finding {
	if !r.Cache.Processes.Contains(name) {
		return nil
	}
	return []model.Finding{{
		Source:  model.SourceProcess,
		Summary: fmt.Sprintf("%s is a running process.", name),
		Found:   true,
	}}
}

func (r *Resolver) packageFindings(name string) []model.Finding {
	var findings []model.Finding
	for _, label := range r.Cache.Packages.LabelsFor(name) {
		findings = append(findings, model.Finding{
			Source:  model.SourcePackage,
			Summary: fmt.Sprintf("%s is an installed %s.", name, label),
			Found:   true,
		})
	}
	return findings
}
