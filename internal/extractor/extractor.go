package extractor

import (
	"context"
	"fmt"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"

	"classmaid/internal/diag"
)

// Extractor turns raw source text into ClassFacts using a language-specific
// extractor. Failures are represented as diagnostics, never panics: a unit
// with syntax errors still yields every class that survived parsing.
type Extractor struct {
	langExtractor LanguageExtractor
}

// LanguageExtractor is implemented per supported grammar.
type LanguageExtractor interface {
	GetLanguage() *sitter.Language
	GetQuery() string
	ExtractClass(node *sitter.Node, source []byte, unit string) *ClassFact
}

// NewExtractor creates an extractor for a given language.
func NewExtractor(lang string) (*Extractor, error) {
	switch lang {
	case "python":
		return &Extractor{langExtractor: &PythonExtractor{}}, nil
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}
}

// ParseResult is the outcome of parsing one source unit. Facts holds the
// classes recovered in declaration order; Diags holds per-unit parse
// diagnostics. A diagnostic with SevError means the unit contributed
// nothing usable.
type ParseResult struct {
	Unit  string
	Facts []ClassFact
	Diags []diag.Diagnostic
}

// ParseUnit parses source text handed in by the caller; it performs no I/O.
func (e *Extractor) ParseUnit(unit string, source []byte) ParseResult {
	result := ParseResult{Unit: unit}

	parser := sitter.NewParser()
	parser.SetLanguage(e.langExtractor.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		result.Diags = append(result.Diags, diag.Diagnostic{
			Unit:     unit,
			Stage:    diag.StageParse,
			Severity: diag.SevError,
			Message:  fmt.Sprintf("parse failed: %v", err),
		})
		return result
	}
	defer tree.Close()

	root := tree.RootNode()

	query, err := sitter.NewQuery([]byte(e.langExtractor.GetQuery()), e.langExtractor.GetLanguage())
	if err != nil {
		result.Diags = append(result.Diags, diag.Diagnostic{
			Unit:     unit,
			Stage:    diag.StageParse,
			Severity: diag.SevError,
			Message:  fmt.Sprintf("query failed: %v", err),
		})
		return result
	}
	defer query.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(query, root)

	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		for _, c := range m.Captures {
			fact := e.langExtractor.ExtractClass(c.Node, source, unit)
			if fact != nil {
				result.Facts = append(result.Facts, *fact)
			}
		}
	}

	// Query matches can arrive grouped by pattern rather than position.
	sort.SliceStable(result.Facts, func(i, j int) bool {
		return result.Facts[i].Line < result.Facts[j].Line
	})

	if root.HasError() {
		line, col := firstErrorPosition(root)
		if len(result.Facts) == 0 {
			result.Diags = append(result.Diags, diag.Diagnostic{
				Unit:     unit,
				Stage:    diag.StageParse,
				Severity: diag.SevError,
				Message:  "syntax error",
				Line:     line,
				Col:      col,
			})
		} else {
			result.Diags = append(result.Diags, diag.Diagnostic{
				Unit:     unit,
				Stage:    diag.StageParse,
				Severity: diag.SevWarning,
				Message:  "syntax error; extraction is partial",
				Line:     line,
				Col:      col,
			})
		}
	}

	return result
}

// firstErrorPosition locates the earliest error or missing node, 1-based.
func firstErrorPosition(root *sitter.Node) (int, int) {
	var found *sitter.Node
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if found != nil || !n.HasError() {
			return
		}
		if n.Type() == "ERROR" || n.IsMissing() {
			found = n
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
			if found != nil {
				return
			}
		}
		// A node can report HasError without an ERROR descendant when the
		// error is attached to the node itself.
		found = n
	}
	walk(root)
	if found == nil {
		found = root
	}
	return int(found.StartPoint().Row) + 1, int(found.StartPoint().Column) + 1
}
