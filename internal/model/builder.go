package model

import (
	"fmt"
	"strings"

	"classmaid/internal/diag"
	"classmaid/internal/extractor"
	"classmaid/internal/resolver"
)

// Build turns every ClassFact in the symbol table into a ClassModel and the
// run's Relationship list. The table is read-only here; models are built in
// declaration order and never mutated afterwards.
func Build(table *resolver.Table) ([]ClassModel, []Relationship, []diag.Diagnostic) {
	classes := table.Classes()
	models := make([]ClassModel, 0, len(classes))
	kinds := make(map[string]ClassKind, len(classes))
	var diags []diag.Diagnostic

	for _, qn := range classes {
		fact := table.Fact(qn)
		m := buildClass(qn, fact)
		kinds[qn.String()] = m.Kind
		models = append(models, m)
	}

	var rels []Relationship
	for i, qn := range classes {
		fact := table.Fact(qn)
		if models[i].IsEnum {
			// Enum classes carry a stereotype instead of base edges.
			continue
		}
		for _, base := range fact.Bases {
			if base.Keyword != "" {
				continue
			}
			resolved := table.Resolve(qn, base.Expr)
			switch resolved.Kind {
			case resolver.BaseKnown:
				kind := kinds[resolved.Target.String()]
				rels = append(rels, Relationship{
					From:           qn,
					To:             resolved.Target,
					Implementation: kind == KindAbstract || kind == KindInterface,
				})
			case resolver.BaseExternal:
				rels = append(rels, Relationship{From: qn, ExternalText: resolved.Text})
			case resolver.BaseInvalid:
				diags = append(diags, diag.Diagnostic{
					Unit:     qn.Unit,
					Stage:    diag.StageResolve,
					Severity: diag.SevWarning,
					Message:  fmt.Sprintf("class %s: base expression %q is not a base reference; edge omitted", qn.Local(), base.Expr),
					Line:     fact.Line,
				})
			case resolver.BaseObject, resolver.BaseMarker, resolver.BaseDropped:
				// Implicit root, stdlib markers and complex expressions
				// produce no edge.
			}
		}
	}

	return models, rels, diags
}

func buildClass(qn resolver.QualifiedName, fact *extractor.ClassFact) ClassModel {
	classDecorators := make([]Decorator, 0, len(fact.Decorators))
	for _, d := range fact.Decorators {
		classDecorators = append(classDecorators, NormalizeDecorator(d))
	}

	members := buildMembers(fact)
	members = CollapseOverloads(members)

	hasAbstractMethod := false
	for _, m := range members {
		if m.IsAbstract {
			hasAbstractMethod = true
			break
		}
	}

	isEnum := resolver.IsEnumClass(fact)
	isAbstract := resolver.HasAbstractBase(fact) || hasAbstractMethod

	kind := KindRegular
	switch {
	case resolver.IsProtocolClass(fact):
		kind = KindInterface
	case hasDecorator(classDecorators, DecDataclass):
		kind = KindDataclass
	case isAbstract:
		kind = KindAbstract
	case isEnum:
		kind = KindEnum
	case hasDecorator(classDecorators, DecFinal):
		kind = KindFinal
	}

	typeParams := fact.TypeParams
	if typeParams == "" {
		for _, base := range fact.Bases {
			if base.Keyword != "" {
				continue
			}
			if params, ok := resolver.GenericParams(base.Expr); ok {
				typeParams = params
				break
			}
		}
	}

	return ClassModel{
		QName:      qn,
		Kind:       kind,
		IsEnum:     isEnum,
		IsAbstract: isAbstract,
		TypeParams: typeParams,
		Members:    members,
	}
}

func buildMembers(fact *extractor.ClassFact) []Member {
	members := make([]Member, 0, len(fact.Members))
	seen := make(map[string]bool)

	for _, mf := range fact.Members {
		var m Member
		switch mf.Kind {
		case extractor.MemberField:
			m = buildField(mf)
		case extractor.MemberMethod:
			m = buildMethod(mf)
		default:
			continue
		}
		key := memberKey(m)
		if seen[key] {
			continue
		}
		seen[key] = true
		members = append(members, m)
	}
	return members
}

func buildField(mf extractor.MemberFact) Member {
	m := Member{
		Name:       mf.Name,
		Visibility: visibilityOf(mf.Name),
	}
	switch {
	case mf.Annotation != "":
		m.Type = TypeInfo{Source: TypeExplicit, Text: mf.Annotation}
	case mf.ValueShape != "":
		m.Type = TypeInfo{Source: TypeInferred, Text: mf.ValueShape}
	default:
		// Plain assignment with no recognizable literal shape.
		m.Type = TypeInfo{Source: TypeInferred, Text: "Any"}
	}
	return m
}

func buildMethod(mf extractor.MemberFact) Member {
	m := Member{
		Name:       mf.Name,
		IsMethod:   true,
		Visibility: visibilityOf(mf.Name),
		IsAsync:    mf.IsAsync,
	}

	for _, d := range mf.Decorators {
		m.Decorators = append(m.Decorators, NormalizeDecorator(d))
	}
	m.IsStatic = hasDecorator(m.Decorators, DecStatic)
	m.IsAbstract = hasDecorator(m.Decorators, DecAbstract)

	for _, p := range mf.Params {
		m.Params = append(m.Params, Param{Name: p.Name, Type: p.Type})
	}

	switch {
	case mf.Returns != "":
		m.Type = TypeInfo{Source: TypeExplicit, Text: mf.Returns}
	default:
		if inferred, ok := MagicReturnType(mf.Name); ok {
			m.Type = TypeInfo{Source: TypeInferred, Text: inferred}
		}
	}
	return m
}

// visibilityOf applies the underscore convention: a leading underscore marks
// a member private unless the name is a dunder.
func visibilityOf(name string) Visibility {
	if isDunder(name) {
		return Public
	}
	if strings.HasPrefix(name, "_") {
		return Private
	}
	return Public
}

func isDunder(name string) bool {
	return len(name) > 4 && strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__")
}

func memberKey(m Member) string {
	var sb strings.Builder
	sb.WriteString(m.Name)
	if m.IsMethod {
		sb.WriteByte('(')
		for i, p := range m.Params {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(p.Name)
			sb.WriteByte(':')
			sb.WriteString(p.Type)
		}
		sb.WriteByte(')')
	}
	sb.WriteByte('|')
	sb.WriteString(m.Type.Text)
	return sb.String()
}
