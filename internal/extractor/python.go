package extractor

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// PythonExtractor implements LanguageExtractor for Python.
type PythonExtractor struct{}

func (p *PythonExtractor) GetLanguage() *sitter.Language {
	return python.GetLanguage()
}

func (p *PythonExtractor) GetQuery() string {
	// The query matches nested classes too; scope is recovered from the
	// ancestor chain.
	return `(class_definition) @class`
}

// ExtractClass builds a ClassFact from a class_definition node. A class whose
// body is partially broken still yields a fact with whatever members were
// recoverable.
func (p *PythonExtractor) ExtractClass(node *sitter.Node, source []byte, unit string) *ClassFact {
	if node.Type() != "class_definition" {
		return nil
	}
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil || nameNode.IsMissing() || nameNode.Content(source) == "" {
		return nil
	}

	fact := &ClassFact{
		Unit:  unit,
		Scope: enclosingScope(node, source),
		Name:  nameNode.Content(source),
		Line:  int(node.StartPoint().Row) + 1,
	}

	fact.Decorators = p.extractDecorators(node, source)
	fact.Bases = p.extractBases(node, source)

	// PEP 695 type parameter lists: class Foo[T]. Older grammar revisions
	// have no such field, so the lookup is guarded.
	if tp := node.ChildByFieldName("type_parameters"); tp != nil {
		raw := tp.Content(source)
		fact.TypeParams = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(raw, "["), "]"))
	}

	if body := node.ChildByFieldName("body"); body != nil {
		fact.Members = p.extractMembers(body, source)
	}

	return fact
}

// enclosingScope collects the names of enclosing class and function
// definitions, outermost first. Function names participate so a
// function-local class never shares a qualified name with a module-level
// class in the same unit.
func enclosingScope(node *sitter.Node, source []byte) []string {
	var scope []string
	for cur := node.Parent(); cur != nil; cur = cur.Parent() {
		switch cur.Type() {
		case "class_definition", "function_definition":
		default:
			continue
		}
		if name := cur.ChildByFieldName("name"); name != nil {
			scope = append([]string{name.Content(source)}, scope...)
		}
	}
	return scope
}

// extractDecorators returns the decorator expressions of a class wrapped in
// a decorated_definition, without the leading '@'.
func (p *PythonExtractor) extractDecorators(node *sitter.Node, source []byte) []string {
	parent := node.Parent()
	if parent == nil || parent.Type() != "decorated_definition" {
		return nil
	}
	return decoratorList(parent, source)
}

func decoratorList(decorated *sitter.Node, source []byte) []string {
	var out []string
	for i := 0; i < int(decorated.NamedChildCount()); i++ {
		child := decorated.NamedChild(i)
		if child.Type() != "decorator" {
			continue
		}
		if expr := child.NamedChild(0); expr != nil {
			out = append(out, expr.Content(source))
		}
	}
	return out
}

func (p *PythonExtractor) extractBases(node *sitter.Node, source []byte) []BaseFact {
	args := node.ChildByFieldName("superclasses")
	if args == nil {
		return nil
	}
	var bases []BaseFact
	for i := 0; i < int(args.NamedChildCount()); i++ {
		arg := args.NamedChild(i)
		switch arg.Type() {
		case "comment":
			continue
		case "keyword_argument":
			name := arg.ChildByFieldName("name")
			value := arg.ChildByFieldName("value")
			if name == nil || value == nil {
				continue
			}
			bases = append(bases, BaseFact{
				Expr:    value.Content(source),
				Keyword: name.Content(source),
			})
		default:
			bases = append(bases, BaseFact{Expr: arg.Content(source)})
		}
	}
	return bases
}

func (p *PythonExtractor) extractMembers(body *sitter.Node, source []byte) []MemberFact {
	var members []MemberFact
	for i := 0; i < int(body.NamedChildCount()); i++ {
		stmt := body.NamedChild(i)
		switch stmt.Type() {
		case "function_definition":
			if m := p.extractMethod(stmt, nil, source); m != nil {
				members = append(members, *m)
			}
		case "decorated_definition":
			def := stmt.ChildByFieldName("definition")
			if def == nil || def.Type() != "function_definition" {
				// Nested decorated classes are captured by the class query.
				continue
			}
			if m := p.extractMethod(def, decoratorList(stmt, source), source); m != nil {
				members = append(members, *m)
			}
		case "expression_statement":
			for j := 0; j < int(stmt.NamedChildCount()); j++ {
				expr := stmt.NamedChild(j)
				if expr.Type() != "assignment" {
					continue
				}
				if m := p.extractField(expr, source); m != nil {
					members = append(members, *m)
				}
			}
		}
	}
	return members
}

// extractField handles annotated declarations (x: int), annotated
// assignments (x: int = 0), and plain assignments (RED = 1). Only simple
// identifier targets are modeled.
func (p *PythonExtractor) extractField(assign *sitter.Node, source []byte) *MemberFact {
	left := assign.ChildByFieldName("left")
	if left == nil || left.Type() != "identifier" {
		return nil
	}

	fact := &MemberFact{
		Kind: MemberField,
		Name: left.Content(source),
		Line: int(assign.StartPoint().Row) + 1,
	}
	if typ := assign.ChildByFieldName("type"); typ != nil {
		fact.Annotation = typ.Content(source)
	}
	if right := assign.ChildByFieldName("right"); right != nil {
		fact.ValueShape = inferValueShape(right, source)
	}
	return fact
}

func (p *PythonExtractor) extractMethod(fn *sitter.Node, decorators []string, source []byte) *MemberFact {
	nameNode := fn.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	fact := &MemberFact{
		Kind:       MemberMethod,
		Name:       nameNode.Content(source),
		Decorators: decorators,
		Line:       int(fn.StartPoint().Row) + 1,
	}

	for i := 0; i < int(fn.ChildCount()); i++ {
		if fn.Child(i).Type() == "async" {
			fact.IsAsync = true
			break
		}
	}

	if params := fn.ChildByFieldName("parameters"); params != nil {
		fact.Params = p.extractParams(params, source)
	}
	if ret := fn.ChildByFieldName("return_type"); ret != nil {
		fact.Returns = ret.Content(source)
	}
	return fact
}

func (p *PythonExtractor) extractParams(params *sitter.Node, source []byte) []ParamFact {
	var out []ParamFact
	for i := 0; i < int(params.NamedChildCount()); i++ {
		param := params.NamedChild(i)
		switch param.Type() {
		case "identifier":
			out = append(out, ParamFact{Name: param.Content(source)})
		case "typed_parameter":
			pf := ParamFact{}
			if inner := param.NamedChild(0); inner != nil {
				pf.Name = inner.Content(source)
			}
			if typ := param.ChildByFieldName("type"); typ != nil {
				pf.Type = typ.Content(source)
			}
			out = append(out, pf)
		case "default_parameter", "typed_default_parameter":
			pf := ParamFact{}
			if name := param.ChildByFieldName("name"); name != nil {
				pf.Name = name.Content(source)
			}
			if typ := param.ChildByFieldName("type"); typ != nil {
				pf.Type = typ.Content(source)
			}
			out = append(out, pf)
		case "list_splat_pattern", "dictionary_splat_pattern":
			out = append(out, ParamFact{Name: param.Content(source)})
		case "keyword_separator", "positional_separator":
			out = append(out, ParamFact{Name: param.Content(source)})
		}
	}
	return out
}

// inferValueShape maps an assigned expression to the conventional type name
// of its literal shape. Empty means no static evidence.
func inferValueShape(value *sitter.Node, source []byte) string {
	switch value.Type() {
	case "string", "concatenated_string":
		prefix := strings.ToLower(prefixOf(value.Content(source)))
		if strings.Contains(prefix, "b") {
			return "bytes"
		}
		return "str"
	case "integer":
		return "int"
	case "float":
		return "float"
	case "true", "false":
		return "bool"
	case "boolean_operator":
		return "bool"
	case "none":
		return "None"
	case "list", "list_comprehension":
		return "list"
	case "dictionary", "dictionary_comprehension":
		return "dict"
	case "set", "set_comprehension":
		return "set"
	case "tuple":
		return "tuple"
	case "lambda":
		return "Callable"
	case "binary_operator", "unary_operator":
		return "int"
	case "ellipsis":
		return "..."
	default:
		return ""
	}
}

// prefixOf returns the literal prefix characters before the opening quote.
func prefixOf(literal string) string {
	for i := 0; i < len(literal); i++ {
		if literal[i] == '\'' || literal[i] == '"' {
			return literal[:i]
		}
	}
	return ""
}
