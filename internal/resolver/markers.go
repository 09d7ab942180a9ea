package resolver

import (
	"strings"

	"classmaid/internal/extractor"
)

// Recognized stdlib marker bases. Matching is name-based because import
// resolution is out of scope; both bare and module-qualified spellings are
// accepted.
var (
	enumBases = map[string]bool{
		"Enum":     true,
		"IntEnum":  true,
		"StrEnum":  true,
		"Flag":     true,
		"IntFlag":  true,
		"ReprEnum": true,
	}
	abstractBases = map[string]bool{
		"ABC":     true,
		"ABCMeta": true,
	}
	protocolBases = map[string]bool{
		"Protocol": true,
	}
)

func lastSegment(text string) string {
	if idx := strings.LastIndexByte(text, '.'); idx >= 0 {
		return text[idx+1:]
	}
	return text
}

func isEnumMarker(text string) bool {
	return enumBases[lastSegment(text)]
}

func isAbstractMarker(text string) bool {
	return abstractBases[lastSegment(text)]
}

func isProtocolMarker(text string) bool {
	return protocolBases[lastSegment(text)]
}

func isGenericMarker(text string) bool {
	head := text
	if idx := strings.IndexByte(head, '['); idx > 0 {
		head = head[:idx]
	}
	return lastSegment(strings.TrimSpace(head)) == "Generic"
}

// GenericParams extracts type parameters from a Generic[...] base.
func GenericParams(expr string) (string, bool) {
	if !isGenericMarker(expr) {
		return "", false
	}
	start := strings.IndexByte(expr, '[')
	end := strings.LastIndexByte(expr, ']')
	if start < 0 || end <= start+1 {
		return "", false
	}
	return strings.TrimSpace(expr[start+1 : end]), true
}

// IsEnumClass reports whether any declared base names a recognized
// enumeration base.
func IsEnumClass(fact *extractor.ClassFact) bool {
	for _, base := range fact.Bases {
		if base.Keyword != "" {
			continue
		}
		if isEnumMarker(strings.TrimSpace(base.Expr)) {
			return true
		}
	}
	return false
}

// HasAbstractBase reports whether the class inherits ABC/ABCMeta directly or
// via a metaclass keyword. Abstract-method detection is layered on top by
// the model builder.
func HasAbstractBase(fact *extractor.ClassFact) bool {
	for _, base := range fact.Bases {
		expr := strings.TrimSpace(base.Expr)
		if base.Keyword != "" {
			if base.Keyword == "metaclass" && isAbstractMarker(expr) {
				return true
			}
			continue
		}
		if isAbstractMarker(expr) {
			return true
		}
	}
	return false
}

// IsProtocolClass mirrors the upstream rule: a class is a protocol when its
// head has exactly one argument and it is Protocol.
func IsProtocolClass(fact *extractor.ClassFact) bool {
	if len(fact.Bases) != 1 {
		return false
	}
	return isProtocolMarker(strings.TrimSpace(fact.Bases[0].Expr))
}
