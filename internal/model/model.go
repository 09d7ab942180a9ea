package model

import "classmaid/internal/resolver"

// Visibility of a class member, derived from the leading-underscore naming
// convention. Dunder names stay public.
type Visibility int

const (
	Public Visibility = iota
	Private
)

// DecoratorKind is the closed set of decorator semantics the diagram cares
// about. Anything else is carried as opaque text for display only.
type DecoratorKind int

const (
	DecOpaque DecoratorKind = iota
	DecStatic
	DecClassMethod
	DecProperty
	DecAbstract
	DecOverride
	DecFinal
	DecOverload
	DecDataclass
)

// Decorator is a recognized kind or an opaque passthrough.
type Decorator struct {
	Kind DecoratorKind
	Text string
}

// TypeSource records how a member's type annotation was obtained.
type TypeSource int

const (
	TypeUnknown TypeSource = iota
	TypeExplicit
	TypeInferred
)

// TypeInfo is a member's type annotation plus its provenance.
type TypeInfo struct {
	Source TypeSource
	Text   string
}

// Param is an ordered method parameter.
type Param struct {
	Name string
	Type string
}

// Member is a resolved field or method of a ClassModel.
type Member struct {
	Name       string
	IsMethod   bool
	Visibility Visibility
	Decorators []Decorator
	Type       TypeInfo // field type, or method return type
	Params     []Param
	IsAsync    bool
	IsStatic   bool
	IsAbstract bool
}

// ClassKind is the rendering stereotype of a class. Precedence follows the
// upstream detector: interface > dataclass > abstract > enumeration > final
// > regular.
type ClassKind int

const (
	KindRegular ClassKind = iota
	KindInterface
	KindDataclass
	KindAbstract
	KindEnum
	KindFinal
)

// ClassModel is the immutable semantic entity handed to the renderer.
type ClassModel struct {
	QName      resolver.QualifiedName
	Kind       ClassKind
	IsEnum     bool
	IsAbstract bool
	TypeParams string
	Members    []Member
}

// Relationship is a directed inheritance edge. To is zero-valued when the
// base resolved outside the run; ExternalText then carries the opaque name.
// Implementation marks edges into abstract classes and protocols, rendered
// with a dotted arrow.
type Relationship struct {
	From           resolver.QualifiedName
	To             resolver.QualifiedName
	ExternalText   string
	Implementation bool
}

// External reports whether the edge points at an unresolved base.
func (r Relationship) External() bool {
	return r.ExternalText != ""
}
