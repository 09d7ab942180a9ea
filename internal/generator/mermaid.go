package generator

import (
	"fmt"
	"strings"

	"classmaid/internal/model"
)

const tab = "    "

// MermaidRenderer serializes class models into Mermaid classDiagram text.
// It is a pure function of its inputs: classes and relationships are emitted
// in first-seen order, never hash order, so identical input renders to
// byte-identical output.
type MermaidRenderer struct{}

func NewMermaidRenderer() *MermaidRenderer {
	return &MermaidRenderer{}
}

// Render produces the diagram text, or ErrTooLarge when the raw Mermaid body
// would exceed the configured threshold.
func (r *MermaidRenderer) Render(models []model.ClassModel, rels []model.Relationship, opts Options) (string, error) {
	display := displayNames(models)

	var sb strings.Builder
	if opts.Title != "" {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("title: %s\n", opts.Title))
		sb.WriteString("---\n")
	}
	sb.WriteString("classDiagram\n")
	sb.WriteString(tab)
	sb.WriteString("direction ")
	sb.WriteString(string(opts.direction()))
	sb.WriteString("\n")

	seenClasses := make(map[string]bool, len(models))
	for i := range models {
		key := models[i].QName.String()
		if seenClasses[key] {
			continue
		}
		seenClasses[key] = true
		r.renderClass(&sb, &models[i], display[key], opts)
	}

	seenRels := make(map[string]bool, len(rels))
	for _, rel := range rels {
		line := r.renderRelationship(rel, display)
		if line == "" || seenRels[line] {
			continue
		}
		seenRels[line] = true
		sb.WriteString(line)
	}

	raw := strings.TrimRight(sb.String(), "\n") + "\n"
	if len(raw) > opts.maxChars() {
		return "", ErrTooLarge
	}

	if opts.Format == FormatMMD {
		return raw, nil
	}
	return "```mermaid\n" + raw + "```\n", nil
}

// displayNames assigns each class its rendered name. Local names stay short;
// classes whose local name collides across units are qualified with their
// unit so no class block or edge is silently merged.
func displayNames(models []model.ClassModel) map[string]string {
	counts := make(map[string]int, len(models))
	seen := make(map[string]bool, len(models))
	for i := range models {
		key := models[i].QName.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		counts[models[i].QName.Local()]++
	}

	names := make(map[string]string, len(models))
	for i := range models {
		qn := models[i].QName
		local := qn.Local()
		if counts[local] > 1 {
			names[qn.String()] = normalizeName(qn.String())
		} else {
			names[qn.String()] = normalizeName(local)
		}
	}
	return names
}

func stereotype(kind model.ClassKind) string {
	switch kind {
	case model.KindInterface:
		return "<<interface>>"
	case model.KindDataclass:
		return "<<dataclass>>"
	case model.KindAbstract:
		return "<<abstract>>"
	case model.KindEnum:
		return "<<enumeration>>"
	case model.KindFinal:
		return "<<final>>"
	default:
		return ""
	}
}

func (r *MermaidRenderer) renderClass(sb *strings.Builder, class *model.ClassModel, name string, opts Options) {
	sb.WriteString(tab)
	sb.WriteString("class ")
	sb.WriteString(name)
	if class.TypeParams != "" {
		sb.WriteString(fmt.Sprintf(" ~%s~", class.TypeParams))
	}

	members := class.Members
	if opts.HidePrivate {
		members = publicOnly(members)
	}

	st := stereotype(class.Kind)
	if len(members) == 0 && st == "" {
		sb.WriteString("\n\n")
		return
	}

	sb.WriteString(" {\n")
	if st != "" {
		sb.WriteString(tab + tab)
		sb.WriteString(st)
		sb.WriteString("\n")
	}

	for _, m := range members {
		if !m.IsMethod {
			r.renderField(sb, m)
		}
	}
	for _, m := range members {
		if m.IsMethod {
			r.renderMethod(sb, m)
		}
	}

	sb.WriteString(tab)
	sb.WriteString("}\n\n")
}

func publicOnly(members []model.Member) []model.Member {
	out := make([]model.Member, 0, len(members))
	for _, m := range members {
		if m.Visibility == model.Public {
			out = append(out, m)
		}
	}
	return out
}

func visibilityPrefix(v model.Visibility) string {
	if v == model.Private {
		return "-"
	}
	return "+"
}

func (r *MermaidRenderer) renderField(sb *strings.Builder, m model.Member) {
	sb.WriteString(tab + tab)
	sb.WriteString(visibilityPrefix(m.Visibility))
	sb.WriteString(" ")
	if m.Type.Text != "" {
		sb.WriteString(m.Type.Text)
		sb.WriteString(" ")
	}
	sb.WriteString(escapeUnderscores(m.Name))
	sb.WriteString("\n")
}

func (r *MermaidRenderer) renderMethod(sb *strings.Builder, m model.Member) {
	sb.WriteString(tab + tab)
	sb.WriteString(visibilityPrefix(m.Visibility))
	sb.WriteString(" ")

	for _, d := range m.Decorators {
		if d.Kind == model.DecAbstract {
			// Shown as the trailing * classifier instead.
			continue
		}
		sb.WriteString("@")
		sb.WriteString(d.Text)
		sb.WriteString(" ")
	}
	if m.IsAsync {
		sb.WriteString("async ")
	}

	sb.WriteString(escapeUnderscores(m.Name))
	sb.WriteString("(")
	for i, p := range m.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Name)
		if p.Type != "" {
			sb.WriteString(": ")
			sb.WriteString(p.Type)
		}
	}
	sb.WriteString(")")

	if m.Type.Text != "" {
		sb.WriteString(" ")
		sb.WriteString(m.Type.Text)
	}

	if m.IsAbstract {
		sb.WriteString("*")
	} else if m.IsStatic {
		sb.WriteString("$")
	}
	sb.WriteString("\n")
}

func (r *MermaidRenderer) renderRelationship(rel model.Relationship, display map[string]string) string {
	from, ok := display[rel.From.String()]
	if !ok {
		return ""
	}

	var to string
	if rel.External() {
		to = normalizeName(rel.ExternalText)
	} else {
		to, ok = display[rel.To.String()]
		if !ok {
			return ""
		}
	}

	arrow := "--|>"
	if rel.Implementation {
		arrow = "..|>"
	}
	return fmt.Sprintf("%s%s %s %s\n", tab, from, arrow, to)
}
