package pipeline

import (
	"context"
	"errors"
	"runtime"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"classmaid/internal/diag"
	"classmaid/internal/extractor"
	"classmaid/internal/generator"
	"classmaid/internal/model"
	"classmaid/internal/resolver"
)

// ErrNoUnits is the only terminal failure of a run: not a single unit
// parsed successfully, so there is nothing to render.
var ErrNoUnits = errors.New("no source units parsed successfully")

// SourceUnit is one unit of input, already read by the caller. ID is a path
// or "<stdin>".
type SourceUnit struct {
	ID     string
	Source []byte
}

// Document is one rendered diagram. Unit is empty for a combined document.
type Document struct {
	Unit string
	Text string
}

// Options configures a run. Render options are validated by the caller.
type Options struct {
	Render    generator.Options
	MultiFile bool
	NoTitle   bool
	Jobs      int
}

func (o Options) jobs() int {
	if o.Jobs > 0 {
		return o.Jobs
	}
	return runtime.NumCPU()
}

// RunReport carries the rendered documents alongside the diagnostics of the
// whole run; partial failures still yield best-effort documents.
type RunReport struct {
	Documents []Document
	Report    diag.Report
}

// Run executes the full pipeline: parse every unit in parallel, build the
// run-wide symbol table, build class models, and render. Parse results are
// slotted by input index so scheduling order never affects output.
func Run(ctx context.Context, units []SourceUnit, opts Options, logger hclog.Logger) (*RunReport, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	ext, err := extractor.NewExtractor("python")
	if err != nil {
		return nil, err
	}

	results := make([]extractor.ParseResult, len(units))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs())
	for i := range units {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = ext.ParseUnit(units[i].ID, units[i].Source)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	bag := diag.NewBag()
	unitIDs := make([]string, 0, len(units))
	var facts []extractor.ClassFact
	succeeded := 0
	for i := range results {
		unitIDs = append(unitIDs, units[i].ID)
		bag.AddAll(results[i].Diags)
		if hasFatal(results[i].Diags) {
			logger.Debug("unit failed to parse", "unit", units[i].ID)
			continue
		}
		succeeded++
		facts = append(facts, results[i].Facts...)
	}

	if succeeded == 0 {
		report := &RunReport{Report: diag.BuildReport(unitIDs, bag)}
		return report, ErrNoUnits
	}

	table := resolver.BuildTable(facts)
	models, rels, modelDiags := model.Build(table)
	bag.AddAll(modelDiags)
	logger.Debug("model built", "classes", len(models), "relationships", len(rels))

	renderer := generator.NewMermaidRenderer()

	var documents []Document
	var renderErr error
	if opts.MultiFile {
		var renderDiags []diag.Diagnostic
		documents, renderDiags = renderPerUnit(renderer, unitIDs, models, rels, opts)
		bag.AddAll(renderDiags)
	} else {
		documents, renderErr = renderCombined(renderer, models, rels, opts)
	}

	report := &RunReport{
		Documents: documents,
		Report:    diag.BuildReport(unitIDs, bag),
	}
	return report, renderErr
}

func hasFatal(diags []diag.Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == diag.SevError {
			return true
		}
	}
	return false
}

func renderCombined(renderer *generator.MermaidRenderer, models []model.ClassModel, rels []model.Relationship, opts Options) ([]Document, error) {
	if len(models) == 0 {
		return nil, nil
	}
	renderOpts := opts.Render
	if opts.NoTitle {
		renderOpts.Title = ""
	}
	text, err := renderer.Render(models, rels, renderOpts)
	if err != nil {
		return nil, err
	}
	return []Document{{Text: text}}, nil
}

// renderPerUnit emits one document per unit. Relationships follow the unit
// of their derived class; the size threshold applies per document. A unit
// whose own document is oversize is reported and skipped, the rest still
// render.
func renderPerUnit(renderer *generator.MermaidRenderer, unitIDs []string, models []model.ClassModel, rels []model.Relationship, opts Options) ([]Document, []diag.Diagnostic) {
	modelsByUnit := make(map[string][]model.ClassModel)
	relsByUnit := make(map[string][]model.Relationship)
	for _, m := range models {
		modelsByUnit[m.QName.Unit] = append(modelsByUnit[m.QName.Unit], m)
	}
	for _, r := range rels {
		relsByUnit[r.From.Unit] = append(relsByUnit[r.From.Unit], r)
	}

	var documents []Document
	var diags []diag.Diagnostic
	for _, unit := range unitIDs {
		unitModels := modelsByUnit[unit]
		if len(unitModels) == 0 {
			continue
		}
		unitRels := relsByUnit[unit]

		// Pull in the blocks of cross-unit base classes so edges do not
		// dangle, keeping first-seen order.
		included := make(map[string]bool, len(unitModels))
		for _, m := range unitModels {
			included[m.QName.String()] = true
		}
		for _, r := range unitRels {
			if r.External() || included[r.To.String()] {
				continue
			}
			for _, m := range models {
				if m.QName.String() == r.To.String() {
					unitModels = append(unitModels, m)
					included[m.QName.String()] = true
					break
				}
			}
		}

		renderOpts := opts.Render
		if opts.NoTitle {
			renderOpts.Title = ""
		} else {
			renderOpts.Title = unit
		}
		text, err := renderer.Render(unitModels, unitRels, renderOpts)
		if err != nil {
			diags = append(diags, diag.Diagnostic{
				Unit:     unit,
				Stage:    diag.StageRender,
				Severity: diag.SevWarning,
				Message:  "rendered diagram exceeds size limit; unit skipped",
			})
			continue
		}
		documents = append(documents, Document{Unit: unit, Text: text})
	}
	return documents, diags
}
