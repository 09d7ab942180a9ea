package diag

import "sort"

type Severity int

const (
	SevWarning Severity = iota
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevError:
		return "error"
	default:
		return "warning"
	}
}

// Stage identifies the pipeline phase that produced a diagnostic.
type Stage string

const (
	StageParse   Stage = "parse"
	StageResolve Stage = "resolve"
	StageModel   Stage = "model"
	StageRender  Stage = "render"
)

// Diagnostic is a non-fatal finding attached to a single source unit.
// Line and Col are 1-based; zero means unknown.
type Diagnostic struct {
	Unit     string
	Stage    Stage
	Severity Severity
	Message  string
	Line     int
	Col      int
}

// Bag accumulates diagnostics across pipeline phases. Merging is
// associative and commutative once Sort is applied, so the final report
// does not depend on scheduling order.
type Bag struct {
	items []Diagnostic
}

func NewBag() *Bag {
	return &Bag{}
}

func (b *Bag) Add(d Diagnostic) {
	b.items = append(b.items, d)
}

func (b *Bag) AddAll(ds []Diagnostic) {
	b.items = append(b.items, ds...)
}

func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.items = append(b.items, other.items...)
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns the internal slice; callers must not modify it.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity == SevError {
			return true
		}
	}
	return false
}

// Sort orders diagnostics by unit, position, severity (errors first), then
// message, so reports are byte-identical across runs.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Unit != dj.Unit {
			return di.Unit < dj.Unit
		}
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		if di.Col != dj.Col {
			return di.Col < dj.Col
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Message < dj.Message
	})
}

// UnitFailure names a unit that produced no usable facts and why.
type UnitFailure struct {
	Unit   string
	Reason string
}

// Report is the final per-run diagnostic summary.
type Report struct {
	Succeeded []string
	Failed    []UnitFailure
	Warnings  []Diagnostic
}

// BuildReport splits a sorted bag into failures and warnings, grouped
// against the ordered unit list of the run.
func BuildReport(units []string, bag *Bag) Report {
	bag.Sort()

	failed := make(map[string]string)
	var warnings []Diagnostic
	for _, d := range bag.Items() {
		if d.Severity == SevError {
			if _, seen := failed[d.Unit]; !seen {
				failed[d.Unit] = d.Message
			}
			continue
		}
		warnings = append(warnings, d)
	}

	var report Report
	for _, u := range units {
		if reason, ok := failed[u]; ok {
			report.Failed = append(report.Failed, UnitFailure{Unit: u, Reason: reason})
		} else {
			report.Succeeded = append(report.Succeeded, u)
		}
	}
	report.Warnings = warnings
	return report
}
