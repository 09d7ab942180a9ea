package extractor

// MemberKind discriminates the two member shapes a class body can declare.
type MemberKind string

const (
	MemberField  MemberKind = "field"
	MemberMethod MemberKind = "method"
)

// ParamFact is a method parameter as written in source.
type ParamFact struct {
	Name string
	Type string
}

// MemberFact is the raw, pre-resolution record of one class-body statement.
// Annotation and ValueShape carry whatever static typing evidence the source
// offers: an explicit annotation text, or the literal shape of an assigned
// value ("str", "int", ...). Both empty means the type is unknown.
type MemberFact struct {
	Kind       MemberKind
	Name       string
	Annotation string
	ValueShape string
	Params     []ParamFact
	Returns    string
	Decorators []string
	IsAsync    bool
	Line       int
}

// BaseFact is one declared base-class expression, kept as unresolved text.
// Keyword is set for keyword arguments in the class head (metaclass=ABCMeta).
type BaseFact struct {
	Expr    string
	Keyword string
}

// ClassFact is the raw record extracted from one class statement. Scope holds
// the enclosing class names for nested declarations, outermost first, so
// qualified names stay unique per unit.
type ClassFact struct {
	Unit       string
	Scope      []string
	Name       string
	Bases      []BaseFact
	TypeParams string
	Decorators []string
	Members    []MemberFact
	Line       int
}
