package model

import "strings"

// recognizedDecorators maps decorator names to their canonical kind. Lookup
// uses the final dotted segment with any call arguments stripped, so
// @functools.final and @dataclass(frozen=True) both normalize.
var recognizedDecorators = map[string]DecoratorKind{
	"staticmethod":     DecStatic,
	"classmethod":      DecClassMethod,
	"property":         DecProperty,
	"abstractmethod":   DecAbstract,
	"abstractproperty": DecAbstract,
	"override":         DecOverride,
	"final":            DecFinal,
	"overload":         DecOverload,
	"dataclass":        DecDataclass,
}

// NormalizeDecorator maps raw decorator text to the closed decorator set,
// preserving unrecognized decorators as opaque text.
func NormalizeDecorator(text string) Decorator {
	name := strings.TrimSpace(text)
	if idx := strings.IndexByte(name, '('); idx >= 0 {
		name = name[:idx]
	}
	if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
		name = name[idx+1:]
	}
	if kind, ok := recognizedDecorators[name]; ok {
		return Decorator{Kind: kind, Text: name}
	}
	return Decorator{Kind: DecOpaque, Text: strings.TrimSpace(text)}
}

func hasDecorator(decorators []Decorator, kind DecoratorKind) bool {
	for _, d := range decorators {
		if d.Kind == kind {
			return true
		}
	}
	return false
}
