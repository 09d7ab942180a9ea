package resolver

import "strings"

// BaseKind classifies the outcome of resolving one declared base expression.
type BaseKind int

const (
	// BaseKnown matched a class parsed in this run.
	BaseKnown BaseKind = iota
	// BaseObject is the implicit root type; its edge is always suppressed.
	BaseObject
	// BaseMarker is a recognized stdlib marker base (ABC, Protocol,
	// Generic). It affects class flags, never edges.
	BaseMarker
	// BaseExternal is a simple name that matched nothing in the run; it is
	// rendered as an opaque reference.
	BaseExternal
	// BaseDropped is a complex expression that cannot be diagrammed.
	BaseDropped
	// BaseInvalid could not be read as a base reference at all; the caller
	// records a resolver diagnostic.
	BaseInvalid
)

// ResolvedBase is one resolved base edge candidate.
type ResolvedBase struct {
	Kind   BaseKind
	Target QualifiedName
	Text   string
}

// Resolve maps a declared base expression to a known class, the implicit
// root, a marker, or an external reference.
//
// The lookup policy is a deliberate simplification, since import resolution
// is out of scope: exact local-name match within the declaring unit first,
// then a run-wide search by local name, ties broken by declaration order
// (first declared wins). Dotted expressions match by their final segment.
func (t *Table) Resolve(from QualifiedName, expr string) ResolvedBase {
	text := strings.TrimSpace(expr)
	if text == "" {
		return ResolvedBase{Kind: BaseInvalid, Text: expr}
	}

	// Strip a generic specialization: Base[int] inherits Base.
	if idx := strings.IndexByte(text, '['); idx > 0 {
		text = strings.TrimSpace(text[:idx])
	}

	switch {
	case text == "object" || text == "builtins.object":
		return ResolvedBase{Kind: BaseObject, Text: text}
	case isAbstractMarker(text) || isProtocolMarker(text) || isGenericMarker(text):
		return ResolvedBase{Kind: BaseMarker, Text: text}
	}

	if !isDottedName(text) {
		if strings.ContainsAny(text, "()") {
			return ResolvedBase{Kind: BaseDropped, Text: text}
		}
		return ResolvedBase{Kind: BaseInvalid, Text: text}
	}

	local := text
	if idx := strings.LastIndexByte(text, '.'); idx >= 0 {
		local = text[idx+1:]
	}

	if qn, ok := t.lookup(from, local); ok {
		return ResolvedBase{Kind: BaseKnown, Target: qn, Text: text}
	}
	return ResolvedBase{Kind: BaseExternal, Text: text}
}

func (t *Table) lookup(from QualifiedName, local string) (QualifiedName, bool) {
	for _, qn := range t.byUnitName[from.Unit+"::"+local] {
		if qn.String() != from.String() {
			return qn, true
		}
	}
	for _, qn := range t.byName[local] {
		if qn.String() != from.String() {
			return qn, true
		}
	}
	return QualifiedName{}, false
}

// isDottedName reports whether text is an identifier or dotted identifier
// chain, the only base shapes that can be matched or rendered opaquely.
func isDottedName(text string) bool {
	segments := strings.Split(text, ".")
	for _, seg := range segments {
		if seg == "" {
			return false
		}
		for i, r := range seg {
			switch {
			case r == '_':
			case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			case r >= '0' && r <= '9':
				if i == 0 {
					return false
				}
			case r > 127: // unicode identifiers pass through
			default:
				return false
			}
		}
	}
	return true
}
